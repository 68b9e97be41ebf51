package api

import "github.com/recipehub/backend/internal/model"

// Response is the envelope for single-item and failure responses. Every
// response carries the success flag; failures always include a message.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Pagination describes the current page within the full result set.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
}

// ListResponse is the envelope for the paginated recipe listing.
type ListResponse struct {
	Success    bool           `json:"success"`
	Total      int64          `json:"total"`
	Pagination Pagination     `json:"pagination"`
	Data       []model.Recipe `json:"data"`
}
