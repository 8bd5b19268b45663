package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/core/services"
	"github.com/tallyworks/journal_engine/internal/dto"
)

type BatchServiceTestSuite struct {
	suite.Suite
	entrySvc     *MockEntryService
	reversalSvc  *MockReversalService
	approvalSvc  *MockApprovalService
	workplaceSvc *MockWorkplaceService
	service      portssvc.BatchSvcFacade
	ctx          context.Context

	scope  domain.Scope
	userID string
}

func (s *BatchServiceTestSuite) SetupTest() {
	s.entrySvc = new(MockEntryService)
	s.reversalSvc = new(MockReversalService)
	s.approvalSvc = new(MockApprovalService)
	s.workplaceSvc = new(MockWorkplaceService)
	s.service = services.NewBatchService(s.entrySvc, s.reversalSvc, s.approvalSvc, s.workplaceSvc, 4)
	s.ctx = context.Background()

	s.scope = domain.Scope{WorkplaceID: uuid.NewString(), CompanyID: uuid.NewString()}
	s.userID = uuid.NewString()
}

func (s *BatchServiceTestSuite) authorize() {
	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
}

func (s *BatchServiceTestSuite) TestRunBatchPostAllSucceed() {
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	s.authorize()
	for _, id := range ids {
		posted := &domain.JournalEntry{EntryID: id, Status: domain.Posted}
		s.entrySvc.On("PostEntry", mock.Anything, s.scope, id, s.userID).Return(posted, nil).Once()
	}

	result, err := s.service.RunBatch(s.ctx, s.scope, dto.BatchRequest{Operation: "POST", EntryIDs: ids}, s.userID)

	s.NoError(err)
	s.Equal(domain.BatchComplete, result.Status)
	s.Len(result.Items, 3)
	for i, item := range result.Items {
		s.Equal(ids[i], item.EntryID)
		s.True(item.Succeeded)
		s.Equal(domain.Posted, item.Status)
	}
}

func (s *BatchServiceTestSuite) TestRunBatchPostPartialFailure() {
	// The middle entry is unbalanced; its siblings still post and results
	// stay in input order.
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	s.authorize()
	s.entrySvc.On("PostEntry", mock.Anything, s.scope, ids[0], s.userID).
		Return(&domain.JournalEntry{EntryID: ids[0], Status: domain.Posted}, nil).Once()
	s.entrySvc.On("PostEntry", mock.Anything, s.scope, ids[1], s.userID).
		Return(nil, apperrors.NewUnbalancedError(decimal.RequireFromString("0.05"))).Once()
	s.entrySvc.On("PostEntry", mock.Anything, s.scope, ids[2], s.userID).
		Return(&domain.JournalEntry{EntryID: ids[2], Status: domain.Posted}, nil).Once()

	result, err := s.service.RunBatch(s.ctx, s.scope, dto.BatchRequest{Operation: "POST", EntryIDs: ids}, s.userID)

	s.NoError(err)
	s.Equal(domain.BatchPartial, result.Status)
	s.True(result.Items[0].Succeeded)
	s.False(result.Items[1].Succeeded)
	s.Equal("UNBALANCED", result.Items[1].ErrorKind)
	s.NotEmpty(result.Items[1].ErrorMessage)
	s.True(result.Items[2].Succeeded)
}

func (s *BatchServiceTestSuite) TestRunBatchReverse() {
	ids := []string{uuid.NewString(), uuid.NewString()}
	s.authorize()
	s.reversalSvc.On("ReverseEntry", mock.Anything, s.scope, ids[0],
		dto.ReverseEntryRequest{Reason: "month-end cleanup"}, s.userID).
		Return(&domain.JournalEntry{EntryID: uuid.NewString(), Status: domain.Draft}, nil).Once()
	s.reversalSvc.On("ReverseEntry", mock.Anything, s.scope, ids[1],
		dto.ReverseEntryRequest{Reason: "month-end cleanup"}, s.userID).
		Return(nil, apperrors.ErrInvalidTransition).Once()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "REVERSE", EntryIDs: ids, Reason: "month-end cleanup"}, s.userID)

	s.NoError(err)
	s.Equal(domain.BatchPartial, result.Status)
	s.True(result.Items[0].Succeeded)
	s.Equal(domain.Reversed, result.Items[0].Status)
	s.False(result.Items[1].Succeeded)
	s.Equal("INVALID_TRANSITION", result.Items[1].ErrorKind)
}

func (s *BatchServiceTestSuite) TestRunBatchApprove() {
	// The first entry's final approval auto-posts it; the second has no open
	// request.
	ids := []string{uuid.NewString(), uuid.NewString()}
	s.authorize()
	s.approvalSvc.On("ApproveEntry", mock.Anything, s.scope, ids[0],
		dto.DecisionRequest{Comments: "quarter close"}, s.userID).
		Return(&domain.ApprovalRequest{RequestID: uuid.NewString(), EntryID: ids[0], Status: domain.ApprovalApproved}, nil).Once()
	s.entrySvc.On("GetEntryByID", mock.Anything, s.scope, ids[0], s.userID).
		Return(&domain.JournalEntry{EntryID: ids[0], Status: domain.Posted}, nil).Once()
	s.approvalSvc.On("ApproveEntry", mock.Anything, s.scope, ids[1],
		dto.DecisionRequest{Comments: "quarter close"}, s.userID).
		Return(nil, apperrors.NewNotFoundError("no open request")).Once()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "APPROVE", EntryIDs: ids, Reason: "quarter close"}, s.userID)

	s.NoError(err)
	s.Equal(domain.BatchPartial, result.Status)
	s.True(result.Items[0].Succeeded)
	s.Equal(domain.Posted, result.Items[0].Status)
	s.False(result.Items[1].Succeeded)
	s.Equal("NOT_FOUND", result.Items[1].ErrorKind)
	s.approvalSvc.AssertExpectations(s.T())
}

func (s *BatchServiceTestSuite) TestRunBatchSubmitApproval() {
	ids := []string{uuid.NewString()}
	approverID := uuid.NewString()
	s.authorize()
	s.approvalSvc.On("RequestApproval", mock.Anything, s.scope,
		dto.RequestApprovalRequest{EntryID: ids[0], ApproverID: approverID}, s.userID).
		Return(&domain.ApprovalRequest{RequestID: uuid.NewString(), Status: domain.ApprovalOpen}, nil).Once()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "SUBMIT_APPROVAL", EntryIDs: ids, ApproverID: approverID}, s.userID)

	s.NoError(err)
	s.Equal(domain.BatchComplete, result.Status)
	s.Equal(domain.PendingApproval, result.Items[0].Status)
}

func (s *BatchServiceTestSuite) TestRunBatchSubmitApprovalMissingApprover() {
	s.authorize()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "SUBMIT_APPROVAL", EntryIDs: []string{uuid.NewString()}}, s.userID)

	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BatchServiceTestSuite) TestRunBatchUnknownOperation() {
	s.authorize()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "ARCHIVE", EntryIDs: []string{uuid.NewString()}}, s.userID)

	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *BatchServiceTestSuite) TestRunBatchDuplicateEntryIDs() {
	id := uuid.NewString()
	s.authorize()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "POST", EntryIDs: []string{id, id}}, s.userID)

	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.entrySvc.AssertNotCalled(s.T(), "PostEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *BatchServiceTestSuite) TestRunBatchUnauthorized() {
	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).
		Return(apperrors.ErrForbidden).Once()

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "POST", EntryIDs: []string{uuid.NewString()}}, s.userID)

	s.Nil(result)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func (s *BatchServiceTestSuite) TestRunBatchDeletePreservesOrderAcrossManyItems() {
	ids := make([]string, 20)
	s.authorize()
	for i := range ids {
		ids[i] = uuid.NewString()
		if i%3 == 0 {
			s.entrySvc.On("DeleteEntry", mock.Anything, s.scope, ids[i], s.userID).
				Return(apperrors.ErrInvalidTransition).Once()
		} else {
			s.entrySvc.On("DeleteEntry", mock.Anything, s.scope, ids[i], s.userID).Return(nil).Once()
		}
	}

	result, err := s.service.RunBatch(s.ctx, s.scope,
		dto.BatchRequest{Operation: "DELETE", EntryIDs: ids}, s.userID)

	s.NoError(err)
	s.Equal(domain.BatchPartial, result.Status)
	s.Len(result.Items, 20)
	for i, item := range result.Items {
		s.Equal(ids[i], item.EntryID)
		if i%3 == 0 {
			s.False(item.Succeeded)
			s.Equal("INVALID_TRANSITION", item.ErrorKind)
		} else {
			s.True(item.Succeeded)
		}
	}
	s.entrySvc.AssertExpectations(s.T())
}

func TestBatchServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BatchServiceTestSuite))
}
