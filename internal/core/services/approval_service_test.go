package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/core/services"
	"github.com/tallyworks/journal_engine/internal/dto"
)

type ApprovalServiceTestSuite struct {
	suite.Suite
	approvalRepo *MockApprovalRepository
	entryRepo    *MockEntryRepository
	accounts     *MockAccountDirectory
	periods      *MockPeriodPolicy
	workplaceSvc *MockWorkplaceService
	service      portssvc.ApprovalSvcFacade
	ctx          context.Context

	scope       domain.Scope
	requesterID string
	approverID  string
	entryID     string
	accountID   string
	requestID   string
}

func (s *ApprovalServiceTestSuite) SetupTest() {
	s.approvalRepo = new(MockApprovalRepository)
	s.entryRepo = new(MockEntryRepository)
	s.accounts = new(MockAccountDirectory)
	s.periods = new(MockPeriodPolicy)
	s.workplaceSvc = new(MockWorkplaceService)
	validator := services.NewEntryValidator(s.accounts, s.periods)
	s.service = services.NewApprovalService(s.approvalRepo, s.entryRepo, validator, s.workplaceSvc, services.ApprovalPolicy{
		DefaultLevels:      2,
		MaxDelegationDepth: 3,
		AutoPost:           false,
	})
	s.ctx = context.Background()

	s.scope = domain.Scope{WorkplaceID: uuid.NewString(), CompanyID: uuid.NewString()}
	s.requesterID = uuid.NewString()
	s.approverID = uuid.NewString()
	s.entryID = uuid.NewString()
	s.accountID = uuid.NewString()
	s.requestID = uuid.NewString()
}

// autoPostService builds a service whose final approval posts the entry.
func (s *ApprovalServiceTestSuite) autoPostService() portssvc.ApprovalSvcFacade {
	validator := services.NewEntryValidator(s.accounts, s.periods)
	return services.NewApprovalService(s.approvalRepo, s.entryRepo, validator, s.workplaceSvc, services.ApprovalPolicy{
		DefaultLevels:      1,
		MaxDelegationDepth: 3,
		AutoPost:           true,
	})
}

func (s *ApprovalServiceTestSuite) pendingEntry() *domain.JournalEntry {
	return &domain.JournalEntry{
		EntryID:      s.entryID,
		WorkplaceID:  s.scope.WorkplaceID,
		CompanyID:    s.scope.CompanyID,
		EntryDate:    time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		EntryType:    domain.EntryTypeStandard,
		CurrencyCode: "USD",
		Status:       domain.PendingApproval,
	}
}

func (s *ApprovalServiceTestSuite) pendingLines(debit, credit string) []domain.JournalLine {
	other := uuid.NewString()
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: s.entryID, AccountID: s.accountID, Debit: decimal.RequireFromString(debit), Position: 0},
		{LineID: uuid.NewString(), EntryID: s.entryID, AccountID: other, Credit: decimal.RequireFromString(credit), Position: 1},
	}
}

func (s *ApprovalServiceTestSuite) accountsFor(lines []domain.JournalLine) map[string]domain.Account {
	accounts := make(map[string]domain.Account, len(lines))
	for _, line := range lines {
		accounts[line.AccountID] = domain.Account{
			AccountID:   line.AccountID,
			WorkplaceID: s.scope.WorkplaceID,
			CompanyID:   s.scope.CompanyID,
			IsActive:    true,
		}
	}
	return accounts
}

func (s *ApprovalServiceTestSuite) openRequest(currentLevel, requiredLevels int) *domain.ApprovalRequest {
	return &domain.ApprovalRequest{
		RequestID:         s.requestID,
		EntryID:           s.entryID,
		WorkplaceID:       s.scope.WorkplaceID,
		CompanyID:         s.scope.CompanyID,
		RequiredLevels:    requiredLevels,
		CurrentLevel:      currentLevel,
		CurrentApproverID: s.approverID,
		RequesterID:       s.requesterID,
		Status:            domain.ApprovalOpen,
	}
}

func (s *ApprovalServiceTestSuite) TestRequestApprovalSuccess() {
	entry := s.pendingEntry()
	entry.Status = domain.Draft
	req := dto.RequestApprovalRequest{EntryID: s.entryID, ApproverID: s.approverID}

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.requesterID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.approvalRepo.On("CreateRequest", s.ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	request, err := s.service.RequestApproval(s.ctx, s.scope, req, s.requesterID)

	s.NoError(err)
	s.Equal(domain.ApprovalOpen, request.Status)
	s.Equal(2, request.RequiredLevels)
	s.Equal(1, request.CurrentLevel)
	s.Equal(s.approverID, request.CurrentApproverID)
	s.approvalRepo.AssertExpectations(s.T())
}

func (s *ApprovalServiceTestSuite) TestRequestApprovalNonDraftEntry() {
	entry := s.pendingEntry()
	req := dto.RequestApprovalRequest{EntryID: s.entryID, ApproverID: s.approverID}

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.requesterID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()

	request, err := s.service.RequestApproval(s.ctx, s.scope, req, s.requesterID)

	s.Nil(request)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *ApprovalServiceTestSuite) TestRequestApprovalDuplicateOpenRequest() {
	entry := s.pendingEntry()
	entry.Status = domain.Draft
	req := dto.RequestApprovalRequest{EntryID: s.entryID, ApproverID: s.approverID}

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.requesterID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.approvalRepo.On("CreateRequest", s.ctx, mock.Anything, mock.Anything, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	request, err := s.service.RequestApproval(s.ctx, s.scope, req, s.requesterID)

	s.Nil(request)
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *ApprovalServiceTestSuite) TestApproveIntermediateLevelAdvances() {
	request := s.openRequest(1, 2)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(s.pendingEntry(), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		(*portsrepo.EntryStatusChange)(nil), mock.Anything).Return(nil).Once()

	updated, err := s.service.Approve(s.ctx, s.scope, s.requestID, dto.DecisionRequest{Comments: "looks right"}, s.approverID)

	s.NoError(err)
	s.Equal(domain.ApprovalOpen, updated.Status)
	s.Equal(2, updated.CurrentLevel)
	s.approvalRepo.AssertExpectations(s.T())
}

func (s *ApprovalServiceTestSuite) TestApproveFinalLevelReturnsEntryToDraft() {
	// AutoPost is off: final approval closes the request and hands the entry
	// back to the explicit posting path.
	request := s.openRequest(2, 2)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 2).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(s.pendingEntry(), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		mock.MatchedBy(func(change *portsrepo.EntryStatusChange) bool {
			return change != nil && change.From == domain.PendingApproval && change.To == domain.Draft && change.PostedAt == nil
		}), mock.Anything).Return(nil).Once()

	updated, err := s.service.Approve(s.ctx, s.scope, s.requestID, dto.DecisionRequest{}, s.approverID)

	s.NoError(err)
	s.Equal(domain.ApprovalApproved, updated.Status)
	s.NotNil(updated.DecidedAt)
	s.approvalRepo.AssertExpectations(s.T())
}

func (s *ApprovalServiceTestSuite) TestApproveFinalLevelAutoPosts() {
	request := s.openRequest(1, 1)
	entry := s.pendingEntry()
	lines := s.pendingLines("300.00", "300.00")

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()
	s.entryRepo.On("FindLinesByEntryID", s.ctx, s.entryID).Return(lines, nil).Once()
	s.periods.On("IsPeriodOpen", s.ctx, s.scope, entry.EntryDate).Return(true, nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(s.accountsFor(lines), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		mock.MatchedBy(func(change *portsrepo.EntryStatusChange) bool {
			return change != nil && change.To == domain.Posted && change.PostedAt != nil
		}), mock.Anything).Return(nil).Once()

	updated, err := s.autoPostService().Approve(s.ctx, s.scope, s.requestID, dto.DecisionRequest{}, s.approverID)

	s.NoError(err)
	s.Equal(domain.ApprovalApproved, updated.Status)
	s.approvalRepo.AssertExpectations(s.T())
}

func (s *ApprovalServiceTestSuite) TestApproveFinalLevelAutoPostBlockedUnbalanced() {
	// Auto-post runs the same posting validation; an unbalanced entry keeps
	// the approval but lands in DRAFT instead of POSTED.
	request := s.openRequest(1, 1)
	entry := s.pendingEntry()
	lines := s.pendingLines("100.00", "40.00")

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()
	s.entryRepo.On("FindLinesByEntryID", s.ctx, s.entryID).Return(lines, nil).Once()
	s.periods.On("IsPeriodOpen", s.ctx, s.scope, entry.EntryDate).Return(true, nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(s.accountsFor(lines), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		mock.MatchedBy(func(change *portsrepo.EntryStatusChange) bool {
			return change != nil && change.From == domain.PendingApproval && change.To == domain.Draft && change.PostedAt == nil
		}), mock.Anything).Return(nil).Once()

	updated, err := s.autoPostService().Approve(s.ctx, s.scope, s.requestID, dto.DecisionRequest{}, s.approverID)

	s.NoError(err)
	s.Equal(domain.ApprovalApproved, updated.Status)
	s.approvalRepo.AssertExpectations(s.T())
}

func (s *ApprovalServiceTestSuite) TestApproveEntryResolvesOpenRequest() {
	request := s.openRequest(1, 2)

	s.approvalRepo.On("FindRequestForEntry", s.ctx, s.scope, s.entryID, domain.ApprovalOpen).Return(request, nil).Once()
	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(s.pendingEntry(), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		(*portsrepo.EntryStatusChange)(nil), mock.Anything).Return(nil).Once()

	updated, err := s.service.ApproveEntry(s.ctx, s.scope, s.entryID, dto.DecisionRequest{Comments: "batch"}, s.approverID)

	s.NoError(err)
	s.Equal(2, updated.CurrentLevel)
	s.approvalRepo.AssertExpectations(s.T())
}

func (s *ApprovalServiceTestSuite) TestApproveEntryWithoutOpenRequest() {
	s.approvalRepo.On("FindRequestForEntry", s.ctx, s.scope, s.entryID, domain.ApprovalOpen).
		Return(nil, apperrors.NewNotFoundError("no open request")).Once()

	updated, err := s.service.ApproveEntry(s.ctx, s.scope, s.entryID, dto.DecisionRequest{}, s.approverID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.approvalRepo.AssertNotCalled(s.T(), "UpdateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ApprovalServiceTestSuite) TestApproveByWrongApprover() {
	request := s.openRequest(1, 2)
	outsider := uuid.NewString()

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, outsider, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()

	updated, err := s.service.Approve(s.ctx, s.scope, s.requestID, dto.DecisionRequest{}, outsider)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.approvalRepo.AssertNotCalled(s.T(), "UpdateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ApprovalServiceTestSuite) TestApproveClosedRequest() {
	request := s.openRequest(1, 2)
	request.Status = domain.ApprovalRejected

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()

	updated, err := s.service.Approve(s.ctx, s.scope, s.requestID, dto.DecisionRequest{}, s.approverID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *ApprovalServiceTestSuite) TestRejectReturnsEntryToDraft() {
	request := s.openRequest(2, 3)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 2).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(s.pendingEntry(), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		mock.MatchedBy(func(change *portsrepo.EntryStatusChange) bool {
			return change != nil && change.From == domain.PendingApproval && change.To == domain.Draft
		}), mock.Anything).Return(nil).Once()

	updated, err := s.service.Reject(s.ctx, s.scope, s.requestID, dto.DecisionRequest{Comments: "wrong account"}, s.approverID)

	s.NoError(err)
	s.Equal(domain.ApprovalRejected, updated.Status)
	s.NotNil(updated.DecidedAt)
}

func (s *ApprovalServiceTestSuite) TestDelegateReassignsApprover() {
	request := s.openRequest(1, 2)
	delegate := uuid.NewString()

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, delegate, s.scope.WorkplaceID, 1).Return(true, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(s.pendingEntry(), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		(*portsrepo.EntryStatusChange)(nil), mock.Anything).Return(nil).Once()

	updated, err := s.service.Delegate(s.ctx, s.scope, s.requestID, dto.DelegateRequest{DelegateToID: delegate, Reason: "out of office"}, s.approverID)

	s.NoError(err)
	s.Equal(delegate, updated.CurrentApproverID)
	s.Equal(1, updated.EscalationCount)
	s.Equal(domain.ApprovalOpen, updated.Status)
}

func (s *ApprovalServiceTestSuite) TestDelegateBeyondLimit() {
	request := s.openRequest(1, 2)
	request.EscalationCount = 3
	delegate := uuid.NewString()

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()

	updated, err := s.service.Delegate(s.ctx, s.scope, s.requestID, dto.DelegateRequest{DelegateToID: delegate}, s.approverID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrEscalationLimitExceeded)
	s.approvalRepo.AssertNotCalled(s.T(), "UpdateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ApprovalServiceTestSuite) TestDelegateToSelf() {
	request := s.openRequest(1, 2)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.workplaceSvc.On("IsAuthorizedApprover", s.ctx, s.approverID, s.scope.WorkplaceID, 1).Return(true, nil).Once()

	updated, err := s.service.Delegate(s.ctx, s.scope, s.requestID, dto.DelegateRequest{DelegateToID: s.approverID}, s.approverID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ApprovalServiceTestSuite) TestCancelByRequester() {
	request := s.openRequest(1, 2)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.requesterID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(s.pendingEntry(), nil).Once()
	s.approvalRepo.On("UpdateRequest", s.ctx, mock.Anything, mock.Anything,
		mock.MatchedBy(func(change *portsrepo.EntryStatusChange) bool {
			return change != nil && change.To == domain.Draft
		}), mock.Anything).Return(nil).Once()

	updated, err := s.service.Cancel(s.ctx, s.scope, s.requestID, s.requesterID)

	s.NoError(err)
	s.Equal(domain.ApprovalCancelled, updated.Status)
}

func (s *ApprovalServiceTestSuite) TestCancelByNonRequester() {
	request := s.openRequest(1, 2)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.approverID, s.scope, domain.RoleMember).Return(nil).Once()
	s.approvalRepo.On("FindRequestByID", s.ctx, s.scope, s.requestID).Return(request, nil).Once()

	updated, err := s.service.Cancel(s.ctx, s.scope, s.requestID, s.approverID)

	s.Nil(updated)
	s.ErrorIs(err, apperrors.ErrForbidden)
	s.approvalRepo.AssertNotCalled(s.T(), "UpdateRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApprovalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApprovalServiceTestSuite))
}
