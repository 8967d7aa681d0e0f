package handler

import (
	"github.com/primetrade/taskhub/internal/core/ports"
)

// toTaskInput maps the HTTP request to the service DTO.
func toTaskInput(r taskRequest) ports.TaskInput {
	return ports.TaskInput{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
	}
}

// toTaskResponse maps a service view to the HTTP response shape.
func toTaskResponse(v *ports.TaskView) taskResponse {
	return taskResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
		OwnerID:     v.OwnerID,
		OwnerName:   v.OwnerName,
		OwnerEmail:  v.OwnerEmail,
	}
}

func toTaskListResponse(views []*ports.TaskView) taskListResponse {
	items := make([]taskResponse, 0, len(views))
	for _, v := range views {
		items = append(items, toTaskResponse(v))
	}
	return taskListResponse{Items: items, Count: len(items)}
}
