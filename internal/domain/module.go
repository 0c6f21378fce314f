package domain

import (
	"context"
	"time"
)

// Module is a learning unit in the catalog. Summary is markdown.
type Module struct {
	ID        int64
	Slug      string
	Title     string
	Summary   string
	Position  int
	CreatedAt time.Time
}

// ModuleRepository defines persistence operations for learning modules.
type ModuleRepository interface {
	// Upsert inserts the module or, if the slug already exists, updates
	// its title, summary, and position. Used by the idempotent seeder.
	Upsert(ctx context.Context, module *Module) error
	List(ctx context.Context) ([]Module, error)
	GetBySlug(ctx context.Context, slug string) (*Module, error)
}
