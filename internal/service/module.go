package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/davrien/studyloop/internal/domain"
)

// ModuleService exposes the learning-module catalog.
type ModuleService struct {
	modules domain.ModuleRepository
}

// NewModuleService creates a new ModuleService.
func NewModuleService(modules domain.ModuleRepository) *ModuleService {
	return &ModuleService{modules: modules}
}

// builtinCatalog is the set of learning modules every deployment starts
// with. Seeding upserts by slug, so edits here propagate on restart.
var builtinCatalog = []domain.Module{
	{
		Slug:     "study-foundations",
		Title:    "Study Foundations",
		Summary:  "How to plan a study session, take **layered notes**, and review on a schedule.",
		Position: 1,
	},
	{
		Slug:     "critical-reading",
		Title:    "Critical Reading",
		Summary:  "Reading academic texts actively: questioning claims, tracing evidence, summarizing.",
		Position: 2,
	},
	{
		Slug:     "writing-workshop",
		Title:    "Writing Workshop",
		Summary:  "Structuring an argument from outline to draft, with *revision passes* built in.",
		Position: 3,
	},
	{
		Slug:     "exam-preparation",
		Title:    "Exam Preparation",
		Summary:  "Spaced repetition, practice testing, and managing the week before an exam.",
		Position: 4,
	},
}

// SeedCatalog installs the builtin modules. It is idempotent.
func (s *ModuleService) SeedCatalog(ctx context.Context) error {
	for i := range builtinCatalog {
		m := builtinCatalog[i]
		if err := s.modules.Upsert(ctx, &m); err != nil {
			return fmt.Errorf("seed module %s: %w", m.Slug, err)
		}
	}
	return nil
}

// List returns all modules in catalog order.
func (s *ModuleService) List(ctx context.Context) ([]domain.Module, error) {
	return s.modules.List(ctx)
}

// GetBySlug returns a single module.
func (s *ModuleService) GetBySlug(ctx context.Context, slug string) (*domain.Module, error) {
	return s.modules.GetBySlug(ctx, slug)
}

// RenderMarkdown converts a module summary to HTML for clients that want
// it pre-rendered.
func RenderMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
