package storage

import (
	"context"
	"time"

	"github.com/chris/settlement-console/pkg/models"
)

// DefaultPageSize is used when a filter does not set a limit.
const DefaultPageSize = 50

// MaxPageSize caps the limit a caller may ask for.
const MaxPageSize = 200

// RequestFilter narrows a request listing. Zero values mean "any".
type RequestFilter struct {
	Status        models.RequestStatus
	Direction     models.Direction
	CreatedBefore *time.Time
	// ReviewedBefore keeps only requests reviewed before the given time.
	// Requests that were never reviewed do not match.
	ReviewedBefore *time.Time
	Limit         int32
	Cursor        string
}

// PageSize returns the effective limit of the filter.
func (f RequestFilter) PageSize() int32 {
	return clampLimit(f.Limit)
}

// RequestPage is one page of a request listing, newest first when filtered by status.
type RequestPage struct {
	Items      []models.TransactionRequest `json:"items"`
	NextCursor string                      `json:"next_cursor,omitempty"`
}

// RequestReader defines the read-only interface over transaction requests.
type RequestReader interface {
	// GetRequest retrieves a request by its ID.
	GetRequest(ctx context.Context, id string) (*models.TransactionRequest, error)

	// ListRequests returns one page of requests matching the filter.
	ListRequests(ctx context.Context, filter RequestFilter) (*RequestPage, error)
}

func clampLimit(limit int32) int32 {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	}
	return limit
}
