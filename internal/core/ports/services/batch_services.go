package services

import (
	"context"
	"time"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	"github.com/tallyworks/journal_engine/internal/dto"
)

// BatchSvcFacade applies a single operation to a list of entries with
// isolated per-item success/failure.
type BatchSvcFacade interface {
	// RunBatch attempts the operation on every entry independently. The
	// result preserves input order; one entry's failure never aborts its
	// siblings.
	RunBatch(ctx context.Context, scope domain.Scope, req dto.BatchRequest, userID string) (*domain.BatchResult, error)
}

// RecurringSvcFacade manages recurring entry definitions and materializes
// entries from them on a cadence.
type RecurringSvcFacade interface {
	// CreateDefinition registers a template + cadence.
	CreateDefinition(ctx context.Context, scope domain.Scope, req dto.CreateRecurringRequest, userID string) (*domain.RecurringDefinition, error)

	// GetDefinitionByID retrieves a definition.
	GetDefinitionByID(ctx context.Context, scope domain.Scope, definitionID string, userID string) (*domain.RecurringDefinition, error)

	// ListDefinitions retrieves a paginated list of definitions.
	ListDefinitions(ctx context.Context, scope domain.Scope, userID string, params dto.ListRecurringParams) (*dto.ListRecurringResponse, error)

	// UpdateDefinition mutates cadence or activation of a definition.
	UpdateDefinition(ctx context.Context, scope domain.Scope, definitionID string, req dto.UpdateRecurringRequest, userID string) (*domain.RecurringDefinition, error)

	// ProcessRecurring materializes one entry for every due definition. A
	// failed materialization records a failure run and does NOT advance the
	// definition, so the occurrence is retried on the next call.
	ProcessRecurring(ctx context.Context, scope domain.Scope, asOf time.Time, userID string) (*dto.ProcessRecurringResponse, error)

	// ProcessAllDue sweeps every scope holding due definitions. Runs as the
	// system actor; intended for the background scheduler, not the API.
	ProcessAllDue(ctx context.Context, asOf time.Time) (*dto.ProcessRecurringResponse, error)
}

// TemplateSvcFacade manages reusable entry templates.
type TemplateSvcFacade interface {
	CreateTemplate(ctx context.Context, scope domain.Scope, req dto.CreateTemplateRequest, userID string) (*domain.Template, error)
	GetTemplateByID(ctx context.Context, scope domain.Scope, templateID string, userID string) (*domain.Template, error)
	ListTemplates(ctx context.Context, scope domain.Scope, userID string, params dto.ListTemplatesParams) (*dto.ListTemplatesResponse, error)
	UpdateTemplate(ctx context.Context, scope domain.Scope, templateID string, req dto.UpdateTemplateRequest, userID string) (*domain.Template, error)
	DeactivateTemplate(ctx context.Context, scope domain.Scope, templateID string, userID string) error
}

// AuditSvcFacade exposes the append-only audit trail.
type AuditSvcFacade interface {
	// GetAuditTrail retrieves an entry's audit records in sequence order.
	GetAuditTrail(ctx context.Context, scope domain.Scope, entryID string, userID string, params dto.ListAuditParams) (*dto.ListAuditResponse, error)
}
