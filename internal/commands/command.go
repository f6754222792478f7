package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeEdit    Type = "edit"
	TypeDone    Type = "done"
	TypeRemove  Type = "rm"
	TypeClear   Type = "clear"
	TypeRefresh Type = "refresh"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// Position is the 1-based number shown next to a task on screen.
type TargetArgs struct {
	Position int
}

type EditArgs struct {
	Position int
	Text     string
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Edit   *EditArgs
	Target *TargetArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	rest := strings.TrimSpace(strings.TrimPrefix(raw, parts[0]))

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, rest)
	case TypeEdit:
		return parseEdit(input, rest)
	case TypeDone, TypeRemove:
		return parseTarget(input, Type(head), parts[1:])
	case TypeClear, TypeRefresh:
		if len(parts) > 1 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes no arguments", head)}
		}
		return Command{Type: Type(head), Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd keeps the text verbatim apart from surrounding space so markdown
// spacing inside the body survives.
func parseAdd(raw, rest string) (Command, error) {
	if rest == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: rest}}, nil
}

func parseEdit(raw, rest string) (Command, error) {
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "edit requires a task number and text"}
	}
	pos, err := parsePosition(fields[0])
	if err != nil {
		return Command{}, err
	}
	text := strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
	return Command{Type: TypeEdit, Raw: raw, Edit: &EditArgs{Position: pos, Text: text}}, nil
}

func parseTarget(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a task number", typ)}
	}
	pos, err := parsePosition(args[0])
	if err != nil {
		return Command{}, err
	}
	return Command{Type: typ, Raw: raw, Target: &TargetArgs{Position: pos}}, nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSuffix(s, "."))
	if err != nil || n <= 0 {
		return 0, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid task number: %s", s)}
	}
	return n, nil
}
