package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
)

// entryService implements the entry lifecycle: draft CRUD, posting, and the
// status machine around them.
type entryService struct {
	entryRepo    portsrepo.EntryRepositoryWithTx
	validator    *EntryValidator
	approvalGate portssvc.ApprovalGate
	workplaceSvc portssvc.WorkplaceSvcFacade
}

// NewEntryService creates a new EntryService.
func NewEntryService(entryRepo portsrepo.EntryRepositoryWithTx, validator *EntryValidator, approvalGate portssvc.ApprovalGate, workplaceSvc portssvc.WorkplaceSvcFacade) portssvc.EntrySvcFacade {
	return &entryService{
		entryRepo:    entryRepo,
		validator:    validator,
		approvalGate: approvalGate,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

// newAuditRecord builds the audit row for a transition; the repository
// assigns the per-entry sequence when it writes the record.
func newAuditRecord(entry *domain.JournalEntry, actorID string, action domain.AuditAction, from, to domain.EntryStatus, diff any, at time.Time) domain.AuditRecord {
	record := domain.AuditRecord{
		AuditID:     uuid.NewString(),
		EntryID:     entry.EntryID,
		WorkplaceID: entry.WorkplaceID,
		CompanyID:   entry.CompanyID,
		ActorID:     actorID,
		Action:      action,
		FromStatus:  from,
		ToStatus:    to,
		OccurredAt:  at,
	}
	if diff != nil {
		// Marshal failures only drop the diff payload, never the record.
		if raw, err := json.Marshal(diff); err == nil {
			record.Diff = raw
		}
	}
	return record
}

// linesFromRequests converts request lines to domain lines owned by entryID.
func linesFromRequests(entryID string, reqs []dto.CreateLineRequest, actorID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqs))
	for i, lr := range reqs {
		lines[i] = domain.JournalLine{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: lr.AccountID,
			Debit:     lr.Debit,
			Credit:    lr.Credit,
			Memo:      lr.Memo,
			Position:  i,
			Dimensions: domain.Dimensions{
				Department: lr.Department,
				Project:    lr.Project,
				Location:   lr.Location,
			},
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return lines
}

// CreateEntry validates the candidate structurally and persists it as DRAFT.
// Implements portssvc.EntrySvcFacade
func (s *entryService) CreateEntry(ctx context.Context, scope domain.Scope, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, creatorUserID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateEntry", slog.String("user_id", creatorUserID), slog.String("workplace_id", scope.WorkplaceID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()

	entryType := domain.EntryTypeStandard
	if req.EntryType != "" {
		entryType = domain.EntryType(req.EntryType)
	}

	entry := domain.JournalEntry{
		EntryID:      entryID,
		WorkplaceID:  scope.WorkplaceID,
		CompanyID:    scope.CompanyID,
		EntryDate:    req.Date,
		Reference:    req.Reference,
		Description:  req.Description,
		EntryType:    entryType,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		TemplateID:   req.TemplateID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	lines := linesFromRequests(entryID, req.Lines, creatorUserID, now)

	if err := s.validator.ValidateStructural(ctx, scope, entry, lines); err != nil {
		return nil, err
	}

	audit := newAuditRecord(&entry, creatorUserID, domain.AuditCreated, "", domain.Draft, nil, now)
	if err := s.entryRepo.SaveEntry(ctx, entry, lines, audit); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()), slog.String("workplace_id", scope.WorkplaceID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	logger.Info("Entry created", slog.String("entry_id", entryID), slog.String("company_id", scope.CompanyID))
	entry.Lines = lines
	return &entry, nil
}

// GetEntryByID retrieves an entry with its lines.
// Implements portssvc.EntrySvcFacade
func (s *entryService) GetEntryByID(ctx context.Context, scope domain.Scope, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requestingUserID, scope, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetEntryByID", slog.String("user_id", requestingUserID), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find entry by ID", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		logger.Error("Failed to fetch lines for entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for the scope.
// Implements portssvc.EntrySvcFacade
func (s *entryService) ListEntries(ctx context.Context, scope domain.Scope, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for ListEntries", slog.String("user_id", userID), slog.String("workplace_id", scope.WorkplaceID), slog.String("error", err.Error()))
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var statusFilter *domain.EntryStatus
	if params.Status != nil && *params.Status != "" {
		st := domain.EntryStatus(*params.Status)
		switch st {
		case domain.Draft, domain.PendingApproval, domain.Posted, domain.Reversed, domain.Adjusted:
			statusFilter = &st
		default:
			return nil, fmt.Errorf("%w: unknown status filter %q", apperrors.ErrValidation, *params.Status)
		}
	}

	entries, nextToken, err := s.entryRepo.ListEntries(ctx, scope, limit, params.NextToken, statusFilter)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()), slog.String("workplace_id", scope.WorkplaceID))
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	resp := dto.ListEntriesResponse{
		Entries:   make([]dto.EntryResponse, len(entries)),
		NextToken: nextToken,
	}
	for i := range entries {
		resp.Entries[i] = dto.ToEntryResponse(&entries[i])
	}
	return &resp, nil
}

// UpdateEntry replaces header fields and lines of a DRAFT entry. Re-runs
// structural validation; the balance law waits until posting.
// Implements portssvc.EntrySvcFacade
func (s *entryService) UpdateEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for UpdateEntry", slog.String("user_id", userID), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s, only DRAFT entries can be updated", apperrors.ErrInvalidTransition, entryID, entry.Status)
	}

	now := time.Now().UTC()
	changed := map[string]any{}
	if req.Date != nil {
		entry.EntryDate = *req.Date
		changed["date"] = req.Date
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
		changed["reference"] = *req.Reference
	}
	if req.Description != nil {
		entry.Description = *req.Description
		changed["description"] = *req.Description
	}

	var lines []domain.JournalLine
	if req.Lines != nil {
		lines = linesFromRequests(entryID, req.Lines, userID, now)
		changed["lines"] = len(lines)
	} else {
		lines, err = s.entryRepo.FindLinesByEntryID(ctx, entryID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
		}
	}

	if err := s.validator.ValidateStructural(ctx, scope, *entry, lines); err != nil {
		return nil, err
	}

	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	audit := newAuditRecord(entry, userID, domain.AuditUpdated, domain.Draft, domain.Draft, changed, now)
	if req.Lines != nil {
		if err := s.entryRepo.UpdateDraftEntry(ctx, *entry, lines, audit); err != nil {
			logger.Error("Failed to update entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			return nil, fmt.Errorf("failed to update entry %s: %w", entryID, err)
		}
	} else {
		// Header-only update keeps the existing lines untouched.
		if err := s.entryRepo.UpdateDraftEntry(ctx, *entry, nil, audit); err != nil {
			logger.Error("Failed to update entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
			return nil, fmt.Errorf("failed to update entry %s: %w", entryID, err)
		}
	}

	logger.Info("Entry updated", slog.String("entry_id", entryID))
	entry.Lines = lines
	return entry, nil
}

// PostEntry runs full validation including the balance law and transitions
// the entry to POSTED. The expected-status write in the repository guarantees
// at most one of two concurrent posts wins.
// Implements portssvc.EntrySvcFacade
func (s *entryService) PostEntry(ctx context.Context, scope domain.Scope, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for PostEntry", slog.String("user_id", userID), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if !entry.Status.CanTransitionTo(domain.Posted) {
		return nil, fmt.Errorf("%w: cannot post entry %s from status %s", apperrors.ErrInvalidTransition, entryID, entry.Status)
	}
	if entry.Status == domain.PendingApproval {
		// A pending entry posts only through the approval workflow.
		return nil, fmt.Errorf("%w: entry %s is awaiting approval", apperrors.ErrInvalidTransition, entryID)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}
	if err := s.validator.ValidateForPosting(ctx, scope, *entry, lines); err != nil {
		return nil, err
	}
	if err := s.approvalGate.MayPost(ctx, scope, *entry, lines); err != nil {
		logger.Warn("Approval policy blocked posting", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	from := entry.Status
	audit := newAuditRecord(entry, userID, domain.AuditPosted, from, domain.Posted, nil, now)
	if err := s.entryRepo.UpdateEntryStatus(ctx, scope, entryID, from, domain.Posted, &now, userID, now, audit); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			logger.Warn("Lost posting race for entry", slog.String("entry_id", entryID))
		} else {
			logger.Error("Failed to post entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		}
		return nil, fmt.Errorf("failed to post entry %s: %w", entryID, err)
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.String("posted_by", userID))
	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines = lines
	return entry, nil
}

// DeleteEntry deletes a DRAFT entry. Posted entries are immutable and must be
// corrected through reversal.
// Implements portssvc.EntrySvcFacade
func (s *entryService) DeleteEntry(ctx context.Context, scope domain.Scope, entryID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for DeleteEntry", slog.String("user_id", userID), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Draft {
		return fmt.Errorf("%w: entry %s is %s, only DRAFT entries can be deleted", apperrors.ErrInvalidTransition, entryID, entry.Status)
	}

	now := time.Now().UTC()
	audit := newAuditRecord(entry, userID, domain.AuditDeleted, domain.Draft, "", nil, now)
	if err := s.entryRepo.DeleteDraftEntry(ctx, scope, entryID, audit); err != nil {
		logger.Error("Failed to delete entry", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}

	logger.Info("Entry deleted", slog.String("entry_id", entryID))
	return nil
}
