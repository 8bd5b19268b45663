package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
	"github.com/tallyworks/journal_engine/internal/utils/formula"
)

// maxCatchUpPerDefinition caps how many overdue occurrences one sweep will
// materialize for a single definition.
const maxCatchUpPerDefinition = 12

// recurringService manages recurring definitions and materializes entries
// from their templates on schedule.
type recurringService struct {
	recurringRepo portsrepo.RecurringRepositoryFacade
	templateRepo  portsrepo.TemplateRepositoryFacade
	entryRepo     portsrepo.EntryRepositoryFacade
	validator     *EntryValidator
	workplaceSvc  portssvc.WorkplaceSvcFacade
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(recurringRepo portsrepo.RecurringRepositoryFacade, templateRepo portsrepo.TemplateRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade, validator *EntryValidator, workplaceSvc portssvc.WorkplaceSvcFacade) portssvc.RecurringSvcFacade {
	return &recurringService{
		recurringRepo: recurringRepo,
		templateRepo:  templateRepo,
		entryRepo:     entryRepo,
		validator:     validator,
		workplaceSvc:  workplaceSvc,
	}
}

var _ portssvc.RecurringSvcFacade = (*recurringService)(nil)

// CreateDefinition registers a template + cadence.
// Implements portssvc.RecurringSvcFacade
func (s *recurringService) CreateDefinition(ctx context.Context, scope domain.Scope, req dto.CreateRecurringRequest, userID string) (*domain.RecurringDefinition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateDefinition", slog.String("user_id", userID), slog.String("workplace_id", scope.WorkplaceID), slog.String("error", err.Error()))
		return nil, err
	}

	template, err := s.templateRepo.FindTemplateByID(ctx, scope, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", req.TemplateID, err)
	}
	if !template.IsActive {
		return nil, fmt.Errorf("%w: template %s is inactive", apperrors.ErrValidation, req.TemplateID)
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date precedes start date", apperrors.ErrValidation)
	}
	if err := checkTemplateFormulas(template, req.BaseAmount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	def := domain.RecurringDefinition{
		DefinitionID:   uuid.NewString(),
		WorkplaceID:    scope.WorkplaceID,
		CompanyID:      scope.CompanyID,
		TemplateID:     req.TemplateID,
		Name:           req.Name,
		Frequency:      domain.Frequency(req.Frequency),
		NextRunDate:    req.StartDate,
		EndDate:        req.EndDate,
		MaxOccurrences: req.MaxOccurrences,
		BaseAmount:     req.BaseAmount,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.recurringRepo.SaveDefinition(ctx, def); err != nil {
		logger.Error("Failed to save recurring definition", slog.String("error", err.Error()), slog.String("template_id", req.TemplateID))
		return nil, fmt.Errorf("failed to save recurring definition: %w", err)
	}

	logger.Info("Recurring definition created", slog.String("definition_id", def.DefinitionID), slog.String("frequency", req.Frequency))
	return &def, nil
}

// checkTemplateFormulas evaluates every formula line against the base amount
// so a broken expression is rejected at definition time, not run time.
func checkTemplateFormulas(template *domain.Template, baseAmount decimal.Decimal) error {
	vars := map[string]decimal.Decimal{"base": baseAmount}
	for _, line := range template.Lines {
		if line.Amount.Kind != domain.AmountFormula {
			continue
		}
		if _, err := formula.Evaluate(line.Amount.Formula, vars); err != nil {
			return fmt.Errorf("%w: formula %q on account %s: %v", apperrors.ErrValidation, line.Amount.Formula, line.AccountID, err)
		}
	}
	return nil
}

// GetDefinitionByID retrieves a definition.
// Implements portssvc.RecurringSvcFacade
func (s *recurringService) GetDefinitionByID(ctx context.Context, scope domain.Scope, definitionID string, userID string) (*domain.RecurringDefinition, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	def, err := s.recurringRepo.FindDefinitionByID(ctx, scope, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurring definition %s: %w", definitionID, err)
	}
	return def, nil
}

// ListDefinitions retrieves a paginated list of definitions.
// Implements portssvc.RecurringSvcFacade
func (s *recurringService) ListDefinitions(ctx context.Context, scope domain.Scope, userID string, params dto.ListRecurringParams) (*dto.ListRecurringResponse, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	defs, nextToken, err := s.recurringRepo.ListDefinitions(ctx, scope, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring definitions: %w", err)
	}
	resp := dto.ListRecurringResponse{
		Definitions: make([]dto.RecurringResponse, len(defs)),
		NextToken:   nextToken,
	}
	for i := range defs {
		resp.Definitions[i] = dto.ToRecurringResponse(&defs[i])
	}
	return &resp, nil
}

// UpdateDefinition mutates cadence or activation of a definition.
// Implements portssvc.RecurringSvcFacade
func (s *recurringService) UpdateDefinition(ctx context.Context, scope domain.Scope, definitionID string, req dto.UpdateRecurringRequest, userID string) (*domain.RecurringDefinition, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		return nil, err
	}
	def, err := s.recurringRepo.FindDefinitionByID(ctx, scope, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurring definition %s: %w", definitionID, err)
	}

	if req.Name != nil {
		def.Name = *req.Name
	}
	if req.Frequency != nil {
		def.Frequency = domain.Frequency(*req.Frequency)
	}
	if req.NextRunDate != nil {
		def.NextRunDate = *req.NextRunDate
	}
	if req.EndDate != nil {
		def.EndDate = req.EndDate
	}
	if req.MaxOccurrences != nil {
		def.MaxOccurrences = req.MaxOccurrences
	}
	if req.BaseAmount != nil {
		def.BaseAmount = *req.BaseAmount
	}
	if req.IsActive != nil {
		def.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	def.LastUpdatedAt = now
	def.LastUpdatedBy = userID

	if err := s.recurringRepo.UpdateDefinition(ctx, *def); err != nil {
		logger.Error("Failed to update recurring definition", slog.String("error", err.Error()), slog.String("definition_id", definitionID))
		return nil, fmt.Errorf("failed to update recurring definition %s: %w", definitionID, err)
	}

	logger.Info("Recurring definition updated", slog.String("definition_id", definitionID))
	return def, nil
}

// ProcessRecurring materializes one entry per due occurrence across every
// active definition in the scope. A failed materialization records a failure
// run and leaves NextRunDate untouched so the occurrence is retried on the
// next sweep.
// Implements portssvc.RecurringSvcFacade
func (s *recurringService) ProcessRecurring(ctx context.Context, scope domain.Scope, asOf time.Time, userID string) (*dto.ProcessRecurringResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for ProcessRecurring", slog.String("user_id", userID), slog.String("workplace_id", scope.WorkplaceID), slog.String("error", err.Error()))
		return nil, err
	}
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	return s.sweepScope(ctx, scope, asOf, userID)
}

// ProcessAllDue sweeps every scope holding due definitions, as the system
// actor. Called by the background scheduler.
// Implements portssvc.RecurringSvcFacade
func (s *recurringService) ProcessAllDue(ctx context.Context, asOf time.Time) (*dto.ProcessRecurringResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}

	scopes, err := s.recurringRepo.ListDueScopes(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due scopes: %w", err)
	}

	total := &dto.ProcessRecurringResponse{}
	for _, scope := range scopes {
		resp, err := s.sweepScope(ctx, scope, asOf, domain.SystemActorID)
		if err != nil {
			// One broken scope must not stall the others.
			logger.Error("Recurring sweep failed for scope",
				slog.String("workplace_id", scope.WorkplaceID),
				slog.String("company_id", scope.CompanyID),
				slog.String("error", err.Error()))
			continue
		}
		total.Processed += resp.Processed
		total.Succeeded += resp.Succeeded
		total.Failed += resp.Failed
		total.Runs = append(total.Runs, resp.Runs...)
	}
	return total, nil
}

// sweepScope materializes due occurrences for one scope.
func (s *recurringService) sweepScope(ctx context.Context, scope domain.Scope, asOf time.Time, userID string) (*dto.ProcessRecurringResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	defs, err := s.recurringRepo.ListDueDefinitions(ctx, scope, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list due recurring definitions: %w", err)
	}

	resp := &dto.ProcessRecurringResponse{}
	for i := range defs {
		def := defs[i]
		for attempt := 0; attempt < maxCatchUpPerDefinition; attempt++ {
			if !def.IsActive || def.NextRunDate.After(asOf) {
				break
			}
			occurrence := def.NextRunDate
			if def.Exhausted(occurrence) {
				def.IsActive = false
				def.LastUpdatedAt = time.Now().UTC()
				def.LastUpdatedBy = userID
				if err := s.recurringRepo.UpdateDefinition(ctx, def); err != nil {
					logger.Error("Failed to deactivate exhausted definition", slog.String("error", err.Error()), slog.String("definition_id", def.DefinitionID))
				}
				break
			}

			run := s.materialize(ctx, scope, &def, occurrence, userID)
			resp.Processed++
			resp.Runs = append(resp.Runs, dto.RecurringRunResponse{
				DefinitionID:  def.DefinitionID,
				RunDate:       run.RunDate,
				EntryID:       run.EntryID,
				Succeeded:     run.Succeeded,
				FailureReason: run.FailureReason,
			})
			if !run.Succeeded {
				resp.Failed++
				// Leave NextRunDate alone; this occurrence retries next sweep.
				break
			}
			resp.Succeeded++
			def.RunCount++
			def.NextRunDate = def.Frequency.NextAfter(occurrence)
		}
	}

	logger.Info("Recurring sweep completed",
		slog.Int("processed", resp.Processed),
		slog.Int("succeeded", resp.Succeeded),
		slog.Int("failed", resp.Failed))
	return resp, nil
}

// materialize attempts to create one DRAFT entry for the occurrence. The run
// row and, on success, the advanced definition are persisted here.
func (s *recurringService) materialize(ctx context.Context, scope domain.Scope, def *domain.RecurringDefinition, occurrence time.Time, userID string) domain.RecurringRun {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now().UTC()
	run := domain.RecurringRun{
		RunID:        uuid.NewString(),
		DefinitionID: def.DefinitionID,
		RunDate:      occurrence,
		AttemptedAt:  now,
	}

	entry, lines, err := s.buildEntry(ctx, scope, def, occurrence, userID, now)
	if err == nil {
		err = s.validator.ValidateForPosting(ctx, scope, *entry, lines)
	}
	if err == nil {
		audit := newAuditRecord(entry, userID, domain.AuditCreated, "", domain.Draft,
			map[string]any{"definitionID": def.DefinitionID, "runDate": occurrence}, now)
		err = s.entryRepo.SaveEntry(ctx, *entry, lines, audit)
	}

	if err != nil {
		run.Succeeded = false
		run.FailureReason = err.Error()
		if recErr := s.recurringRepo.RecordRun(ctx, run); recErr != nil {
			logger.Error("Failed to record failed recurring run", slog.String("error", recErr.Error()), slog.String("definition_id", def.DefinitionID))
		}
		logger.Warn("Recurring materialization failed",
			slog.String("definition_id", def.DefinitionID),
			slog.Time("run_date", occurrence),
			slog.String("reason", err.Error()))
		return run
	}

	run.Succeeded = true
	run.EntryID = &entry.EntryID
	nextRun := def.Frequency.NextAfter(occurrence)
	remainActive := def.IsActive
	if def.MaxOccurrences != nil && def.RunCount+1 >= *def.MaxOccurrences {
		remainActive = false
	}
	if def.EndDate != nil && nextRun.After(*def.EndDate) {
		remainActive = false
	}
	if err := s.recurringRepo.AdvanceDefinition(ctx, def.DefinitionID, nextRun, def.RunCount+1, remainActive, userID, now, run); err != nil {
		logger.Error("Failed to advance recurring definition", slog.String("error", err.Error()), slog.String("definition_id", def.DefinitionID))
		run.Succeeded = false
		run.FailureReason = fmt.Sprintf("entry %s created but definition advance failed: %v", entry.EntryID, err)
		return run
	}
	def.IsActive = remainActive

	logger.Info("Recurring entry materialized",
		slog.String("definition_id", def.DefinitionID),
		slog.String("entry_id", entry.EntryID),
		slog.Time("run_date", occurrence))
	return run
}

// buildEntry resolves the definition's template into a concrete DRAFT entry
// for the occurrence date. Formula amounts evaluate against the definition's
// base amount.
func (s *recurringService) buildEntry(ctx context.Context, scope domain.Scope, def *domain.RecurringDefinition, occurrence time.Time, userID string, now time.Time) (*domain.JournalEntry, []domain.JournalLine, error) {
	template, err := s.templateRepo.FindTemplateByID(ctx, scope, def.TemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find template %s: %w", def.TemplateID, err)
	}
	if !template.IsActive {
		return nil, nil, fmt.Errorf("%w: template %s is inactive", apperrors.ErrValidation, def.TemplateID)
	}

	entryID := uuid.NewString()
	entry := domain.JournalEntry{
		EntryID:      entryID,
		WorkplaceID:  scope.WorkplaceID,
		CompanyID:    scope.CompanyID,
		EntryDate:    occurrence,
		Reference:    fmt.Sprintf("%s #%d", def.Name, def.RunCount+1),
		Description:  def.Name,
		EntryType:    domain.EntryTypeRecurring,
		CurrencyCode: template.CurrencyCode,
		Status:       domain.Draft,
		TemplateID:   &template.TemplateID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	vars := map[string]decimal.Decimal{"base": def.BaseAmount}
	lines := make([]domain.JournalLine, len(template.Lines))
	for i, tl := range template.Lines {
		amount := tl.Amount.Literal
		if tl.Amount.Kind == domain.AmountFormula {
			amount, err = formula.Evaluate(tl.Amount.Formula, vars)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: formula %q on account %s: %v", apperrors.ErrValidation, tl.Amount.Formula, tl.AccountID, err)
			}
		}
		line := domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			AccountID:   tl.AccountID,
			Memo:        tl.Memo,
			Position:    i,
			Dimensions:  tl.Dimensions,
			AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
		if tl.Side == domain.SideDebit {
			line.Debit = amount
		} else {
			line.Credit = amount
		}
		lines[i] = line
	}
	return &entry, lines, nil
}
