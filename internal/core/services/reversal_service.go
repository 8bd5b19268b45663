package services

import (
	"context"
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
	"github.com/tallyworks/journal_engine/internal/utils/accounting"
)

// reversalService derives correction entries from posted entries. The derived
// entry is always a DRAFT that travels the normal posting path; the original
// is flipped to its terminal status in the same transaction.
type reversalService struct {
	entryRepo    portsrepo.EntryRepositoryWithTx
	validator    *EntryValidator
	workplaceSvc portssvc.WorkplaceSvcFacade
}

// NewReversalService creates a new ReversalService.
func NewReversalService(entryRepo portsrepo.EntryRepositoryWithTx, validator *EntryValidator, workplaceSvc portssvc.WorkplaceSvcFacade) portssvc.ReversalSvcFacade {
	return &reversalService{
		entryRepo:    entryRepo,
		validator:    validator,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.ReversalSvcFacade = (*reversalService)(nil)

// loadPostedEntry fetches an entry and checks it is POSTED with no existing
// reversal link.
func (s *reversalService) loadPostedEntry(ctx context.Context, scope domain.Scope, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, scope, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if entry.Status != domain.Posted {
		return nil, fmt.Errorf("%w: entry %s is %s, only POSTED entries can be corrected", apperrors.ErrInvalidTransition, entryID, entry.Status)
	}
	if entry.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s has already been reversed by %s", apperrors.ErrInvalidTransition, entryID, *entry.ReversingEntryID)
	}
	return entry, nil
}

// ReverseEntry creates a DRAFT entry with the original's lines mirrored
// (debits become credits and vice versa) and marks the original REVERSED.
// Implements portssvc.ReversalSvcFacade
func (s *reversalService) ReverseEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for ReverseEntry", slog.String("user_id", userID), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	original, err := s.loadPostedEntry(ctx, scope, entryID)
	if err != nil {
		return nil, err
	}
	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", entryID, err)
	}

	now := time.Now().UTC()
	reversalDate := original.EntryDate
	if req.ReversalDate != nil {
		reversalDate = *req.ReversalDate
	}

	reversalID := uuid.NewString()
	reversal := domain.JournalEntry{
		EntryID:        reversalID,
		WorkplaceID:    scope.WorkplaceID,
		CompanyID:      scope.CompanyID,
		EntryDate:      reversalDate,
		Reference:      original.Reference,
		Description:    req.Reason,
		EntryType:      domain.EntryTypeReversal,
		CurrencyCode:   original.CurrencyCode,
		Status:         domain.Draft,
		ReversedFromID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	mirrored := accounting.MirrorLines(originalLines)
	lines := make([]domain.JournalLine, len(mirrored))
	for i, ml := range mirrored {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     reversalID,
			AccountID:   ml.AccountID,
			Debit:       ml.Debit,
			Credit:      ml.Credit,
			Memo:        ml.Memo,
			Position:    i,
			Dimensions:  ml.Dimensions,
			AuditFields: domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
	}

	if err := s.validator.ValidateStructural(ctx, scope, reversal, lines); err != nil {
		return nil, err
	}

	audits := []domain.AuditRecord{
		newAuditRecord(original, userID, domain.AuditReversed, domain.Posted, domain.Reversed,
			map[string]any{"reversingEntryID": reversalID, "reason": req.Reason}, now),
		newAuditRecord(&reversal, userID, domain.AuditCreated, "", domain.Draft,
			map[string]any{"reversedFromID": original.EntryID}, now),
	}

	if err := s.entryRepo.CreateLinkedEntry(ctx, reversal, lines, original.EntryID, domain.Reversed, userID, now, audits); err != nil {
		logger.Error("Failed to create reversal", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to reverse entry %s: %w", entryID, err)
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversalID))
	reversal.Lines = lines
	return &reversal, nil
}

// AdjustEntry creates a DRAFT entry from caller-supplied delta lines linked
// to the POSTED original, and marks the original ADJUSTED.
// Implements portssvc.ReversalSvcFacade
func (s *reversalService) AdjustEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.AdjustEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for AdjustEntry", slog.String("user_id", userID), slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	original, err := s.loadPostedEntry(ctx, scope, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	adjustmentDate := original.EntryDate
	if req.Date != nil {
		adjustmentDate = *req.Date
	}

	adjustmentID := uuid.NewString()
	adjustment := domain.JournalEntry{
		EntryID:        adjustmentID,
		WorkplaceID:    scope.WorkplaceID,
		CompanyID:      scope.CompanyID,
		EntryDate:      adjustmentDate,
		Reference:      original.Reference,
		Description:    req.Reason,
		EntryType:      domain.EntryTypeAdjustment,
		CurrencyCode:   original.CurrencyCode,
		Status:         domain.Draft,
		AdjustmentOfID: &original.EntryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	lines := linesFromRequests(adjustmentID, req.Lines, userID, now)

	if err := s.validator.ValidateStructural(ctx, scope, adjustment, lines); err != nil {
		return nil, err
	}

	audits := []domain.AuditRecord{
		newAuditRecord(original, userID, domain.AuditAdjusted, domain.Posted, domain.Adjusted,
			map[string]any{"adjustingEntryID": adjustmentID, "reason": req.Reason}, now),
		newAuditRecord(&adjustment, userID, domain.AuditCreated, "", domain.Draft,
			map[string]any{"adjustmentOfID": original.EntryID}, now),
	}

	if err := s.entryRepo.CreateLinkedEntry(ctx, adjustment, lines, original.EntryID, domain.Adjusted, userID, now, audits); err != nil {
		logger.Error("Failed to create adjustment", slog.String("error", err.Error()), slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to adjust entry %s: %w", entryID, err)
	}

	logger.Info("Entry adjusted", slog.String("entry_id", entryID), slog.String("adjustment_id", adjustmentID))
	adjustment.Lines = lines
	return &adjustment, nil
}
