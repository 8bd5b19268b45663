package repositories

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
)

// TemplateRepositoryFacade defines repository operations for entry templates.
type TemplateRepositoryFacade interface {
	// SaveTemplate persists a new template with its lines.
	SaveTemplate(ctx context.Context, template domain.Template) error

	// FindTemplateByID retrieves a template and its lines within a scope.
	FindTemplateByID(ctx context.Context, scope domain.Scope, templateID string) (*domain.Template, error)

	// ListTemplates retrieves a paginated list of templates for a scope.
	ListTemplates(ctx context.Context, scope domain.Scope, limit int, nextToken *string) ([]domain.Template, *string, error)

	// UpdateTemplate replaces a template's header and lines.
	UpdateTemplate(ctx context.Context, template domain.Template) error

	// DeactivateTemplate soft-deletes a template. Recurring definitions keep
	// their reference but stop materializing from it.
	DeactivateTemplate(ctx context.Context, scope domain.Scope, templateID string, actorID string, at time.Time) error
}
