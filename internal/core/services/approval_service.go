package services

import (
	"context"
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

// ApprovalPolicy carries the workflow knobs from configuration.
type ApprovalPolicy struct {
	// DefaultLevels is the number of approval levels when the requester does
	// not specify one.
	DefaultLevels int
	// MaxDelegationDepth bounds how many times one request may be delegated.
	MaxDelegationDepth int
	// AutoPost posts the entry immediately when the final level approves.
	// When false, approval returns the entry to a postable state and a
	// member posts it explicitly.
	AutoPost bool
}

// approvalService implements the multi-level approval workflow over entries.
type approvalService struct {
	approvalRepo portsrepo.ApprovalRepositoryFacade
	entryRepo    portsrepo.EntryRepositoryFacade
	validator    *EntryValidator
	workplaceSvc portssvc.WorkplaceSvcFacade
	policy       ApprovalPolicy
}

// NewApprovalService creates a new ApprovalService.
func NewApprovalService(approvalRepo portsrepo.ApprovalRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade, validator *EntryValidator, workplaceSvc portssvc.WorkplaceSvcFacade, policy ApprovalPolicy) portssvc.ApprovalSvcFacade {
	if policy.DefaultLevels <= 0 {
		policy.DefaultLevels = 1
	}
	if policy.MaxDelegationDepth <= 0 {
		policy.MaxDelegationDepth = 3
	}
	return &approvalService{
		approvalRepo: approvalRepo,
		entryRepo:    entryRepo,
		validator:    validator,
		workplaceSvc: workplaceSvc,
		policy:       policy,
	}
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// RequestApproval opens a request for a DRAFT entry and moves it to
// PENDING_APPROVAL atomically.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) RequestApproval(ctx context.Context, scope domain.Scope, req dto.RequestApprovalRequest, requesterUserID string) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requesterUserID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for RequestApproval", slog.String("user_id", requesterUserID), slog.String("entry_id", req.EntryID), slog.String("error", err.Error()))
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, req.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", req.EntryID, err)
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: entry %s is %s, only DRAFT entries can be submitted for approval", apperrors.ErrInvalidTransition, req.EntryID, entry.Status)
	}

	requiredLevels := req.RequiredLevels
	if requiredLevels == 0 {
		requiredLevels = s.policy.DefaultLevels
	}

	ok, err := s.workplaceSvc.IsAuthorizedApprover(ctx, req.ApproverID, scope.WorkplaceID, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to check approver authorization: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s is not an approver in workplace %s", apperrors.ErrValidation, req.ApproverID, scope.WorkplaceID)
	}

	now := time.Now().UTC()
	request := domain.ApprovalRequest{
		RequestID:         uuid.NewString(),
		EntryID:           req.EntryID,
		WorkplaceID:       scope.WorkplaceID,
		CompanyID:         scope.CompanyID,
		RequiredLevels:    requiredLevels,
		CurrentLevel:      1,
		CurrentApproverID: req.ApproverID,
		RequesterID:       requesterUserID,
		Status:            domain.ApprovalOpen,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     requesterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: requesterUserID,
		},
	}
	change := portsrepo.EntryStatusChange{
		EntryID: req.EntryID,
		From:    domain.Draft,
		To:      domain.PendingApproval,
	}
	audit := newAuditRecord(entry, requesterUserID, domain.AuditApprovalRequested, domain.Draft, domain.PendingApproval,
		map[string]any{"requestID": request.RequestID, "requiredLevels": requiredLevels, "approverID": req.ApproverID}, now)

	if err := s.approvalRepo.CreateRequest(ctx, request, change, audit); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: entry %s already has an open approval request", apperrors.ErrDuplicate, req.EntryID)
		}
		logger.Error("Failed to create approval request", slog.String("error", err.Error()), slog.String("entry_id", req.EntryID))
		return nil, fmt.Errorf("failed to create approval request: %w", err)
	}

	logger.Info("Approval requested", slog.String("request_id", request.RequestID), slog.String("entry_id", req.EntryID), slog.Int("required_levels", requiredLevels))
	return &request, nil
}

// GetRequest retrieves a request with its decision history.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) GetRequest(ctx context.Context, scope domain.Scope, requestID string, userID string) (*dto.ApprovalRequestResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		logger.Warn("Authorization failed for GetRequest", slog.String("user_id", userID), slog.String("request_id", requestID), slog.String("error", err.Error()))
		return nil, err
	}

	request, err := s.approvalRepo.FindRequestByID(ctx, scope, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approval request %s: %w", requestID, err)
	}
	decisions, err := s.approvalRepo.ListDecisions(ctx, requestID)
	if err != nil {
		logger.Error("Failed to list decisions", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to list decisions for request %s: %w", requestID, err)
	}
	resp := dto.ToApprovalRequestResponse(request, decisions)
	return &resp, nil
}

// loadOpenRequest fetches the request and checks the actor is its current
// approver. Every decision path starts here.
func (s *approvalService) loadOpenRequest(ctx context.Context, scope domain.Scope, requestID, approverUserID string) (*domain.ApprovalRequest, error) {
	request, err := s.approvalRepo.FindRequestByID(ctx, scope, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approval request %s: %w", requestID, err)
	}
	if !request.IsOpen() {
		return nil, fmt.Errorf("%w: approval request %s is %s", apperrors.ErrInvalidTransition, requestID, request.Status)
	}
	if request.CurrentApproverID != approverUserID {
		return nil, fmt.Errorf("%w: user %s is not the current approver for request %s", apperrors.ErrForbidden, approverUserID, requestID)
	}
	ok, err := s.workplaceSvc.IsAuthorizedApprover(ctx, approverUserID, scope.WorkplaceID, request.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to check approver authorization: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s may not decide level %d requests", apperrors.ErrForbidden, approverUserID, request.CurrentLevel)
	}
	return request, nil
}

// Approve records an approval at the current level. Non-final levels advance
// the request; the final level closes it APPROVED and either auto-posts the
// entry or returns it to the explicit posting path per policy.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) Approve(ctx context.Context, scope domain.Scope, requestID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, approverUserID, scope, domain.RoleMember); err != nil {
		return nil, err
	}
	request, err := s.loadOpenRequest(ctx, scope, requestID, approverUserID)
	if err != nil {
		return nil, err
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, request.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", request.EntryID, err)
	}

	now := time.Now().UTC()
	decision := domain.ApprovalDecision{
		DecisionID: uuid.NewString(),
		RequestID:  requestID,
		Level:      request.CurrentLevel,
		ActorID:    approverUserID,
		Action:     domain.ActionApprove,
		Comments:   req.Comments,
		DecidedAt:  now,
	}

	request.Comments = req.Comments
	request.LastUpdatedAt = now
	request.LastUpdatedBy = approverUserID

	var change *portsrepo.EntryStatusChange
	var audit domain.AuditRecord
	if request.IsFinalLevel() {
		request.Status = domain.ApprovalApproved
		request.DecidedAt = &now
		change = &portsrepo.EntryStatusChange{
			EntryID: request.EntryID,
			From:    domain.PendingApproval,
			To:      domain.Draft,
		}
		audit = newAuditRecord(entry, approverUserID, domain.AuditApproved, domain.PendingApproval, domain.Draft,
			map[string]any{"requestID": requestID, "level": decision.Level}, now)
		if s.policy.AutoPost {
			// Auto-posting runs the same full validation as an explicit post.
			lines, err := s.entryRepo.FindLinesByEntryID(ctx, request.EntryID)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch lines for entry %s: %w", request.EntryID, err)
			}
			if verr := s.validator.ValidateForPosting(ctx, scope, *entry, lines); verr != nil {
				// The approval stands; the entry returns to DRAFT for
				// correction and an explicit post once fixed.
				logger.Warn("Auto-post blocked by validation",
					slog.String("entry_id", request.EntryID), slog.String("error", verr.Error()))
				audit = newAuditRecord(entry, approverUserID, domain.AuditApproved, domain.PendingApproval, domain.Draft,
					map[string]any{"requestID": requestID, "level": decision.Level, "autoPostBlocked": verr.Error()}, now)
			} else {
				change = &portsrepo.EntryStatusChange{
					EntryID:  request.EntryID,
					From:     domain.PendingApproval,
					To:       domain.Posted,
					PostedAt: &now,
				}
				audit = newAuditRecord(entry, approverUserID, domain.AuditApproved, domain.PendingApproval, domain.Posted,
					map[string]any{"requestID": requestID, "level": decision.Level, "autoPosted": true}, now)
			}
		}
	} else {
		request.CurrentLevel++
		// The next approver is resolved when a qualified member picks the
		// request up; until then it stays addressed to the approver who can
		// reassign it.
		audit = newAuditRecord(entry, approverUserID, domain.AuditApproved, domain.PendingApproval, domain.PendingApproval,
			map[string]any{"requestID": requestID, "level": decision.Level, "nextLevel": request.CurrentLevel}, now)
	}

	if err := s.approvalRepo.UpdateRequest(ctx, *request, decision, change, audit); err != nil {
		logger.Error("Failed to record approval", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to record approval on request %s: %w", requestID, err)
	}

	logger.Info("Approval recorded", slog.String("request_id", requestID), slog.Int("level", decision.Level), slog.String("status", string(request.Status)))
	return request, nil
}

// ApproveEntry resolves the entry's open request and approves it. Batch
// approvals address entries, not requests, so this is the entry-keyed
// front door to Approve.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) ApproveEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	request, err := s.approvalRepo.FindRequestForEntry(ctx, scope, entryID, domain.ApprovalOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to find open approval request for entry %s: %w", entryID, err)
	}
	return s.Approve(ctx, scope, request.RequestID, req, approverUserID)
}

// Reject closes the request REJECTED and returns the entry to DRAFT for
// correction and resubmission.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) Reject(ctx context.Context, scope domain.Scope, requestID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, approverUserID, scope, domain.RoleMember); err != nil {
		return nil, err
	}
	request, err := s.loadOpenRequest(ctx, scope, requestID, approverUserID)
	if err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.FindEntryByID(ctx, scope, request.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", request.EntryID, err)
	}

	now := time.Now().UTC()
	decision := domain.ApprovalDecision{
		DecisionID: uuid.NewString(),
		RequestID:  requestID,
		Level:      request.CurrentLevel,
		ActorID:    approverUserID,
		Action:     domain.ActionReject,
		Comments:   req.Comments,
		DecidedAt:  now,
	}

	request.Status = domain.ApprovalRejected
	request.Comments = req.Comments
	request.DecidedAt = &now
	request.LastUpdatedAt = now
	request.LastUpdatedBy = approverUserID

	change := &portsrepo.EntryStatusChange{
		EntryID: request.EntryID,
		From:    domain.PendingApproval,
		To:      domain.Draft,
	}
	audit := newAuditRecord(entry, approverUserID, domain.AuditRejected, domain.PendingApproval, domain.Draft,
		map[string]any{"requestID": requestID, "level": decision.Level, "comments": req.Comments}, now)

	if err := s.approvalRepo.UpdateRequest(ctx, *request, decision, change, audit); err != nil {
		logger.Error("Failed to record rejection", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to record rejection on request %s: %w", requestID, err)
	}

	logger.Info("Approval rejected", slog.String("request_id", requestID), slog.Int("level", decision.Level))
	return request, nil
}

// Delegate reassigns the open request to another approver at the same level.
// The delegation count is bounded; exceeding it fails with
// ErrEscalationLimitExceeded and leaves the request untouched.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) Delegate(ctx context.Context, scope domain.Scope, requestID string, req dto.DelegateRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, approverUserID, scope, domain.RoleMember); err != nil {
		return nil, err
	}
	request, err := s.loadOpenRequest(ctx, scope, requestID, approverUserID)
	if err != nil {
		return nil, err
	}

	if req.DelegateToID == approverUserID {
		return nil, fmt.Errorf("%w: cannot delegate a request to yourself", apperrors.ErrValidation)
	}
	if request.EscalationCount >= s.policy.MaxDelegationDepth {
		return nil, fmt.Errorf("%w: request %s has already been delegated %d times (limit %d)",
			apperrors.ErrEscalationLimitExceeded, requestID, request.EscalationCount, s.policy.MaxDelegationDepth)
	}

	ok, err := s.workplaceSvc.IsAuthorizedApprover(ctx, req.DelegateToID, scope.WorkplaceID, request.CurrentLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to check delegate authorization: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: user %s may not decide level %d requests", apperrors.ErrValidation, req.DelegateToID, request.CurrentLevel)
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, request.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", request.EntryID, err)
	}

	now := time.Now().UTC()
	decision := domain.ApprovalDecision{
		DecisionID:  uuid.NewString(),
		RequestID:   requestID,
		Level:       request.CurrentLevel,
		ActorID:     approverUserID,
		Action:      domain.ActionDelegate,
		Comments:    req.Reason,
		DelegatedTo: req.DelegateToID,
		DecidedAt:   now,
	}

	request.CurrentApproverID = req.DelegateToID
	request.EscalationCount++
	request.EscalationReason = req.Reason
	request.LastUpdatedAt = now
	request.LastUpdatedBy = approverUserID

	audit := newAuditRecord(entry, approverUserID, domain.AuditDelegated, domain.PendingApproval, domain.PendingApproval,
		map[string]any{"requestID": requestID, "delegatedTo": req.DelegateToID, "escalationCount": request.EscalationCount}, now)

	if err := s.approvalRepo.UpdateRequest(ctx, *request, decision, nil, audit); err != nil {
		logger.Error("Failed to record delegation", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to record delegation on request %s: %w", requestID, err)
	}

	logger.Info("Approval delegated", slog.String("request_id", requestID), slog.String("delegated_to", req.DelegateToID), slog.Int("escalation_count", request.EscalationCount))
	return request, nil
}

// Cancel withdraws an open request; only the original requester may cancel.
// The entry returns to DRAFT. Recorded decisions are never removed.
// Implements portssvc.ApprovalSvcFacade
func (s *approvalService) Cancel(ctx context.Context, scope domain.Scope, requestID string, requesterUserID string) (*domain.ApprovalRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, requesterUserID, scope, domain.RoleMember); err != nil {
		return nil, err
	}

	request, err := s.approvalRepo.FindRequestByID(ctx, scope, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to find approval request %s: %w", requestID, err)
	}
	if !request.IsOpen() {
		return nil, fmt.Errorf("%w: approval request %s is %s", apperrors.ErrInvalidTransition, requestID, request.Status)
	}
	if request.RequesterID != requesterUserID {
		return nil, fmt.Errorf("%w: only the requester may cancel request %s", apperrors.ErrForbidden, requestID)
	}

	entry, err := s.entryRepo.FindEntryByID(ctx, scope, request.EntryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", request.EntryID, err)
	}

	now := time.Now().UTC()
	decision := domain.ApprovalDecision{
		DecisionID: uuid.NewString(),
		RequestID:  requestID,
		Level:      request.CurrentLevel,
		ActorID:    requesterUserID,
		Action:     domain.ActionCancel,
		DecidedAt:  now,
	}

	request.Status = domain.ApprovalCancelled
	request.DecidedAt = &now
	request.LastUpdatedAt = now
	request.LastUpdatedBy = requesterUserID

	change := &portsrepo.EntryStatusChange{
		EntryID: request.EntryID,
		From:    domain.PendingApproval,
		To:      domain.Draft,
	}
	audit := newAuditRecord(entry, requesterUserID, domain.AuditApprovalCancelled, domain.PendingApproval, domain.Draft,
		map[string]any{"requestID": requestID}, now)

	if err := s.approvalRepo.UpdateRequest(ctx, *request, decision, change, audit); err != nil {
		logger.Error("Failed to cancel approval request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to cancel request %s: %w", requestID, err)
	}

	logger.Info("Approval cancelled", slog.String("request_id", requestID))
	return request, nil
}
