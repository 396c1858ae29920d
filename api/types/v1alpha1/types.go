// Package v1alpha1 contains API types for the educational platform.
package v1alpha1

// ErrorResponse is the body returned for every failed request
type ErrorResponse struct {
	// Code is a machine-readable error code (e.g., "INVALID_CODE")
	Code string `json:"code"`
	// Message is a human-readable description
	Message string `json:"message"`
}

// ListResponse wraps lists of items with metadata
type ListResponse[T any] struct {
	// Items contains the listed objects
	Items []T `json:"items"`
	// TotalCount is the number of items returned
	TotalCount int `json:"totalCount"`
}

// NewListResponse builds a ListResponse, never encoding a null item list
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, TotalCount: len(items)}
}
