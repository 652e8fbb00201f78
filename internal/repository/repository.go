package repository

// Package repository contains persistence abstractions for completed checks.
// Implementations live in subpackages (postgres, archive).

import (
	"context"

	"breachguard/internal/model"
)

// CollectionCheck is the collection every check record is filed under.
const CollectionCheck = "check"

// CheckRecorder stores a completed check. Callers treat it as best-effort.
type CheckRecorder interface {
	// Create persists one check record.
	Create(ctx context.Context, c *model.Check) error
}

// CheckRepository is a CheckRecorder that can also read history back.
type CheckRepository interface {
	CheckRecorder

	// List returns a page of checks, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Check], error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
