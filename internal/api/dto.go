package api

import (
	"fmt"

	"todo/internal/domain"
	"todo/internal/validation"
)

// TaskRequest is the body of POST /tasks and PUT /tasks/:id.
type TaskRequest struct {
	Text *string `json:"text"`
}

// Link is a HAL link object.
type Link struct {
	Href string `json:"href"`
}

// Links holds the HAL links of a resource.
type Links struct {
	Self Link `json:"self"`
}

// TaskResponse is the HAL representation of a single task.
type TaskResponse struct {
	ID    int64  `json:"id"`
	Text  string `json:"text"`
	Links Links  `json:"_links"`
}

// EmbeddedTasks holds the embedded resources of the task collection.
type EmbeddedTasks struct {
	Tasks []TaskResponse `json:"tasks"`
}

// TaskListResponse is the HAL representation of the task collection.
type TaskListResponse struct {
	Embedded EmbeddedTasks `json:"_embedded"`
	Links    Links         `json:"_links"`
	Total    int           `json:"total"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string                  `json:"error"`
	Code    string                  `json:"code,omitempty"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

func taskURL(baseURL string, id int64) string {
	return fmt.Sprintf("%s/tasks/%d", baseURL, id)
}

func newTaskResponse(baseURL string, task *domain.Task) TaskResponse {
	id, _ := task.IDValue()
	return TaskResponse{
		ID:    id,
		Text:  task.Text,
		Links: Links{Self: Link{Href: taskURL(baseURL, id)}},
	}
}

func newTaskListResponse(baseURL string, tasks []*domain.Task) TaskListResponse {
	items := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, newTaskResponse(baseURL, task))
	}
	return TaskListResponse{
		Embedded: EmbeddedTasks{Tasks: items},
		Links:    Links{Self: Link{Href: baseURL + "/tasks"}},
		Total:    len(items),
	}
}
