package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"todo/internal/errors"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.health)

	tasks := s.app.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/:id", s.getTask)
	tasks.Put("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
}

func parseID(c *fiber.Ctx) (int64, error) {
	raw := c.Params("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("id", raw, "must be an integer")
	}
	return id, nil
}

func parseText(c *fiber.Ctx) (string, error) {
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return "", errors.NewInvalidInputError("body", nil, "request body must be JSON with a text field")
	}
	if req.Text == nil {
		return "", errors.NewInvalidInputError("text", nil, "text is required")
	}
	return *req.Text, nil
}

// health handles GET /health.
func (s *Server) health(c *fiber.Ctx) error {
	if err := s.service.Ping(c.UserContext()); err != nil {
		s.logger.Warn("health check failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
			Status:  "unavailable",
			Details: map[string]any{"store": errors.GetUserMessage(err)},
		})
	}
	return c.JSON(HealthResponse{Status: "ok"})
}

// listTasks handles GET /tasks.
func (s *Server) listTasks(c *fiber.Ctx) error {
	tasks, err := s.service.ListTasks(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(newTaskListResponse(c.BaseURL(), tasks))
}

// createTask handles POST /tasks.
func (s *Server) createTask(c *fiber.Ctx) error {
	text, err := parseText(c)
	if err != nil {
		return err
	}

	task, err := s.service.CreateTask(c.UserContext(), text)
	if err != nil {
		return err
	}

	resp := newTaskResponse(c.BaseURL(), task)
	c.Location(resp.Links.Self.Href)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// getTask handles GET /tasks/:id.
func (s *Server) getTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	task, err := s.service.GetTask(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(newTaskResponse(c.BaseURL(), task))
}

// updateTask handles PUT /tasks/:id.
func (s *Server) updateTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	text, err := parseText(c)
	if err != nil {
		return err
	}

	task, err := s.service.UpdateTask(c.UserContext(), id, text)
	if err != nil {
		return err
	}
	return c.JSON(newTaskResponse(c.BaseURL(), task))
}

// deleteTask handles DELETE /tasks/:id.
func (s *Server) deleteTask(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := s.service.DeleteTask(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
