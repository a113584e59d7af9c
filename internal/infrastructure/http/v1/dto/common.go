// Package dto provides Data Transfer Objects for API requests/responses.
// Domain entities carry their own JSON tags and are returned directly;
// the types here shape incoming requests and small generic responses.
package dto

import (
	"github.com/tentenpanashe01/retail-backend/internal/core/id"
)

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// NewListResponse creates a list response.
func NewListResponse(items any, count int) ListResponse {
	return ListResponse{Items: items, Count: count}
}
