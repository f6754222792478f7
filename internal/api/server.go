package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sandeepkv93/punchlist/internal/storage"
)

// Server is the HTTP facade over the task store. It holds no state of its own.
type Server struct {
	repo   storage.Repository
	log    *logrus.Entry
	router *gin.Engine
}

func NewServer(repo storage.Repository, log *logrus.Entry) *Server {
	router := gin.New()

	s := &Server{
		repo:   repo,
		log:    log.WithField("component", "api"),
		router: router,
	}

	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(metricsMiddleware())
	router.Use(loggingMiddleware(s.log))

	router.GET("/", s.handleGreeting)
	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	tasks := router.Group("/tasks")
	{
		tasks.GET("", s.handleListPending)
		tasks.POST("", s.handleCreate)
		tasks.PUT("", s.handleEdit)
		tasks.GET("/complete", s.handleListCompleted)
		tasks.PUT("/complete", s.handleSetComplete)
		tasks.DELETE("/delete/:id", s.handleDelete)
		tasks.DELETE("/clear", s.handleClearCompleted)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests
// for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", addr).Info("server is running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
