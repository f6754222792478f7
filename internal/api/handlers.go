package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/punchlist/internal/storage"
)

const greeting = "Hello, Tasks."

const (
	msgTaskAdded     = "Task added successfully!"
	msgTaskEdited    = "Task edited successfully!"
	msgTaskComplete  = "Task complete."
	msgTaskDeleted   = "Successfully deleted."
	msgTasksCleared  = "Completed tasks cleared."
	errTaskNotFound  = "task not found"
	errInternal      = "internal server error"
	errInvalidBody   = "invalid request body"
	errInvalidTaskID = "invalid task id"
)

// Pointer fields distinguish a missing key from a zero value.
type createTaskRequest struct {
	Task *string `json:"task"`
}

type editTaskRequest struct {
	ID   *int64  `json:"id"`
	Task *string `json:"task"`
}

type completeTaskRequest struct {
	ID       *int64 `json:"id"`
	Complete *bool  `json:"complete"`
}

func (s *Server) handleGreeting(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"text": greeting})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListPending(c *gin.Context) {
	s.list(c, false)
}

func (s *Server) handleListCompleted(c *gin.Context) {
	s.list(c, true)
}

func (s *Server) list(c *gin.Context, complete bool) {
	tasks, err := s.repo.ListByCompletion(c.Request.Context(), complete)
	if err != nil {
		s.storeError(c, err, "failed to list tasks")
		return
	}
	s.entry(c).WithFields(logrus.Fields{"complete": complete, "count": len(tasks)}).Debug("tasks listed")
	c.JSON(http.StatusOK, tasks)
}

func (s *Server) handleCreate(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Task == nil {
		s.badRequest(c, err, errInvalidBody)
		return
	}

	task, err := s.repo.Create(c.Request.Context(), *req.Task)
	if err != nil {
		s.storeError(c, err, "failed to create task")
		return
	}
	s.entry(c).WithField("task_id", task.ID).Info("task created")
	c.String(http.StatusOK, msgTaskAdded)
}

func (s *Server) handleEdit(c *gin.Context) {
	var req editTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil || req.Task == nil {
		s.badRequest(c, err, errInvalidBody)
		return
	}

	if err := s.repo.UpdateText(c.Request.Context(), *req.ID, *req.Task); err != nil {
		s.storeError(c, err, "failed to edit task")
		return
	}
	s.entry(c).WithField("task_id", *req.ID).Info("task edited")
	c.String(http.StatusOK, msgTaskEdited)
}

func (s *Server) handleSetComplete(c *gin.Context) {
	var req completeTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ID == nil || req.Complete == nil {
		s.badRequest(c, err, errInvalidBody)
		return
	}

	if err := s.repo.UpdateCompletion(c.Request.Context(), *req.ID, *req.Complete); err != nil {
		s.storeError(c, err, "failed to update completion")
		return
	}
	s.entry(c).WithFields(logrus.Fields{"task_id": *req.ID, "complete": *req.Complete}).Info("task completion set")
	c.String(http.StatusOK, msgTaskComplete)
}

func (s *Server) handleDelete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		s.badRequest(c, err, errInvalidTaskID)
		return
	}

	if err := s.repo.DeleteByID(c.Request.Context(), id); err != nil {
		s.storeError(c, err, "failed to delete task")
		return
	}
	s.entry(c).WithField("task_id", id).Info("task deleted")
	c.String(http.StatusOK, msgTaskDeleted)
}

func (s *Server) handleClearCompleted(c *gin.Context) {
	removed, err := s.repo.DeleteWhereCompleted(c.Request.Context())
	if err != nil {
		s.storeError(c, err, "failed to clear completed tasks")
		return
	}
	s.entry(c).WithField("removed", removed).Info("completed tasks cleared")
	c.String(http.StatusOK, msgTasksCleared)
}

func (s *Server) entry(c *gin.Context) *logrus.Entry {
	return s.log.WithFields(logrus.Fields{
		"handler":    c.HandlerName(),
		"request_id": c.GetString(requestIDKey),
	})
}

func (s *Server) badRequest(c *gin.Context, err error, msg string) {
	entry := s.entry(c)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Warn(msg)
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func (s *Server) storeError(c *gin.Context, err error, msg string) {
	if errors.Is(err, storage.ErrNotFound) {
		s.entry(c).Warn(errTaskNotFound)
		c.JSON(http.StatusNotFound, gin.H{"error": errTaskNotFound})
		return
	}
	s.entry(c).WithError(err).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": errInternal})
}
