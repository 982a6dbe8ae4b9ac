// Copyright (c) 2026 Danmu. All rights reserved.

package uarule

import "context"

// # UA Rule Data Access

// Repository defines the data access contract for the UARule domain.
type Repository interface {
	// List returns every UARule, ordered by id ascending.
	List(ctx context.Context) ([]*UARule, error)

	// Create persists a new UARule and returns it with its id set.
	Create(ctx context.Context, uaString string) (*UARule, error)

	// Delete removes a UARule.
	Delete(ctx context.Context, id int64) error
}
