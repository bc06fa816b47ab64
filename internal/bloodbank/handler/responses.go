package handler

import (
	"github.com/Chandhu-cpp/Emergency-Blood-Finder/internal/bloodbank/models"
)

// CreateRequestResponse reports the new request and the donor match made for
// it. Match is null when no donor was eligible.
type CreateRequestResponse struct {
	Request *models.BloodRequest `json:"request"`
	Match   *models.DonorMatch   `json:"match"`
}

// ListResponse wraps collection replies.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func listOf[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}
