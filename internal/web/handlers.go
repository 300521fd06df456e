package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"goal-path/internal/models"
	"goal-path/internal/services"
	"goal-path/internal/tasks"
	"goal-path/internal/utils"
	"goal-path/internal/views"
)

func ok(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func fail(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, models.ErrTaskNotFound), errors.Is(err, services.ErrNoGoal):
		return http.StatusNotFound
	case services.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, tasks.ErrRemoteOperationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) dateParam(c *gin.Context) string {
	return c.DefaultQuery("date", s.services.Task.Today())
}

func (s *Server) handleDashboard(c *gin.Context) {
	ok(c, http.StatusOK, s.services.Dashboard(c.Request.Context()))
}

func (s *Server) handleListTasks(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		list []models.Task
		err  error
	)
	if parentID := c.Query("parent_id"); parentID != "" {
		list, err = s.services.Task.Subtasks(ctx, parentID)
	} else {
		list, err = s.services.Task.List(ctx, s.dateParam(c))
	}
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, list)
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var newTask models.NewTask
	if err := c.ShouldBindJSON(&newTask); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	task, err := s.services.Task.Create(c.Request.Context(), newTask)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, task)
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.services.Task.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var patch models.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	patch.ID = c.Param("id")

	task, err := s.services.Task.Update(c.Request.Context(), patch)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.services.Task.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.services.Task.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

type postponeRequest struct {
	Date string `json:"date"`
}

func (s *Server) handlePostponeTask(c *gin.Context) {
	var req postponeRequest
	// тело необязательно: без даты задача переносится на завтра
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	if req.Date == "" {
		next, err := utils.AddDays(s.services.Task.Today(), 1)
		if err != nil {
			fail(c, err)
			return
		}
		req.Date = next
	}

	task, err := s.services.Task.Postpone(c.Request.Context(), c.Param("id"), req.Date)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, task)
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.services.Task.Stats(c.Request.Context(), s.dateParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, stats)
}

func (s *Server) handleDayPlan(c *gin.Context) {
	plan, err := s.services.Task.DayPlan(c.Request.Context(), s.dateParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, plan)
}

func (s *Server) handleWeekPlan(c *gin.Context) {
	week, err := s.services.Analytics.Week(c.Request.Context(), s.dateParam(c))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, week)
}

func (s *Server) handleGetGoal(c *gin.Context) {
	goal := s.services.Goal.Get()
	ok(c, http.StatusOK, gin.H{
		"goal": goal,
		"card": views.NewGoalCard(goal, s.services.Now()),
	})
}

type goalRequest struct {
	Title      string `json:"title"`
	Motivation string `json:"motivation"`
	Deadline   string `json:"deadline"`
}

func (s *Server) handleSaveGoal(c *gin.Context) {
	var req goalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	goal, err := s.services.Goal.Save(req.Title, req.Motivation, req.Deadline)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, goal)
}

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

func (s *Server) handleProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	goal, err := s.services.Goal.UpdateProgress(*req.Progress)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, goal)
}

func (s *Server) handleListReflections(c *gin.Context) {
	ok(c, http.StatusOK, s.services.Reflection.List())
}

func (s *Server) handleSubmitReflection(c *gin.Context) {
	var in services.ReflectionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	reflection, err := s.services.Reflection.Submit(c.Request.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, reflection)
}

func (s *Server) handleMotivation(c *gin.Context) {
	ok(c, http.StatusOK, s.services.Motivation.Current())
}
