package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/davrien/studyloop/internal/domain"
)

// ModuleRepository implements domain.ModuleRepository using SQLite.
type ModuleRepository struct {
	db *sql.DB
}

// NewModuleRepository creates a new SQLite-backed ModuleRepository.
func NewModuleRepository(db *DB) *ModuleRepository {
	return &ModuleRepository{db: db.SqlDB}
}

func (r *ModuleRepository) Upsert(ctx context.Context, module *domain.Module) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO modules (slug, title, summary, position, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET
		   title = excluded.title,
		   summary = excluded.summary,
		   position = excluded.position`,
		module.Slug, module.Title, module.Summary, module.Position, now,
	)
	if err != nil {
		return fmt.Errorf("upsert module: %w", err)
	}

	// The upsert path doesn't report an insert id, so read it back.
	row := r.db.QueryRowContext(ctx,
		`SELECT id, created_at FROM modules WHERE slug = ?`, module.Slug)
	if err := row.Scan(&module.ID, &module.CreatedAt); err != nil {
		return fmt.Errorf("read back module: %w", err)
	}
	return nil
}

func (r *ModuleRepository) List(ctx context.Context) ([]domain.Module, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, slug, title, summary, position, created_at
		 FROM modules ORDER BY position, slug`)
	if err != nil {
		return nil, fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var m domain.Module
		if err := rows.Scan(&m.ID, &m.Slug, &m.Title, &m.Summary, &m.Position, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (r *ModuleRepository) GetBySlug(ctx context.Context, slug string) (*domain.Module, error) {
	m := &domain.Module{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, slug, title, summary, position, created_at
		 FROM modules WHERE slug = ?`, slug,
	).Scan(&m.ID, &m.Slug, &m.Title, &m.Summary, &m.Position, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query module by slug: %w", err)
	}
	return m, nil
}
