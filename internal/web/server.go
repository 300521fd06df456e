package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"goal-path/internal/services"
)

// Server JSON API трекера
type Server struct {
	services *services.ServiceManager
	router   *gin.Engine
	http     *http.Server
}

func NewServer(sm *services.ServiceManager) *Server {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	s := &Server{
		services: sm,
		router:   router,
	}

	api := router.Group("/api")
	{
		api.GET("/dashboard", s.handleDashboard)

		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PATCH("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/toggle", s.handleToggleTask)
		api.POST("/tasks/:id/postpone", s.handlePostponeTask)

		api.GET("/stats", s.handleStats)
		api.GET("/plan/day", s.handleDayPlan)
		api.GET("/plan/week", s.handleWeekPlan)

		api.GET("/goal", s.handleGetGoal)
		api.PUT("/goal", s.handleSaveGoal)
		api.PUT("/goal/progress", s.handleProgress)

		api.GET("/reflections", s.handleListReflections)
		api.POST("/reflections", s.handleSubmitReflection)

		api.GET("/motivation", s.handleMotivation)
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start запускает сервер в отдельной горутине
func (s *Server) Start(addr string) {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("❌ Ошибка HTTP-сервера: %v", err)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
