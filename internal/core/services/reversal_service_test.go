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
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/core/services"
	"github.com/tallyworks/journal_engine/internal/dto"
)

type ReversalServiceTestSuite struct {
	suite.Suite
	entryRepo    *MockEntryRepository
	accounts     *MockAccountDirectory
	periods      *MockPeriodPolicy
	workplaceSvc *MockWorkplaceService
	service      portssvc.ReversalSvcFacade
	ctx          context.Context

	scope     domain.Scope
	userID    string
	entryID   string
	cashID    string
	expenseID string
}

func (s *ReversalServiceTestSuite) SetupTest() {
	s.entryRepo = new(MockEntryRepository)
	s.accounts = new(MockAccountDirectory)
	s.periods = new(MockPeriodPolicy)
	s.workplaceSvc = new(MockWorkplaceService)
	validator := services.NewEntryValidator(s.accounts, s.periods)
	s.service = services.NewReversalService(s.entryRepo, validator, s.workplaceSvc)
	s.ctx = context.Background()

	s.scope = domain.Scope{WorkplaceID: uuid.NewString(), CompanyID: uuid.NewString()}
	s.userID = uuid.NewString()
	s.entryID = uuid.NewString()
	s.cashID = uuid.NewString()
	s.expenseID = uuid.NewString()
}

func (s *ReversalServiceTestSuite) postedEntry() *domain.JournalEntry {
	postedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	return &domain.JournalEntry{
		EntryID:      s.entryID,
		WorkplaceID:  s.scope.WorkplaceID,
		CompanyID:    s.scope.CompanyID,
		EntryDate:    time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC),
		Reference:    "JE-2026-0042",
		EntryType:    domain.EntryTypeStandard,
		CurrencyCode: "USD",
		Status:       domain.Posted,
		PostedAt:     &postedAt,
	}
}

func (s *ReversalServiceTestSuite) postedLines() []domain.JournalLine {
	return []domain.JournalLine{
		{LineID: uuid.NewString(), EntryID: s.entryID, AccountID: s.expenseID, Debit: decimal.RequireFromString("250.00"), Memo: "rent", Position: 0},
		{LineID: uuid.NewString(), EntryID: s.entryID, AccountID: s.cashID, Credit: decimal.RequireFromString("250.00"), Position: 1},
	}
}

func (s *ReversalServiceTestSuite) activeAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		s.cashID:    {AccountID: s.cashID, AccountType: domain.Asset, IsActive: true},
		s.expenseID: {AccountID: s.expenseID, AccountType: domain.Expense, IsActive: true},
	}
}

func (s *ReversalServiceTestSuite) TestReverseEntrySuccess() {
	original := s.postedEntry()

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(original, nil).Once()
	s.entryRepo.On("FindLinesByEntryID", s.ctx, s.entryID).Return(s.postedLines(), nil).Once()
	s.periods.On("IsPeriodOpen", s.ctx, s.scope, original.EntryDate).Return(true, nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(s.activeAccounts(), nil).Once()
	s.entryRepo.On("CreateLinkedEntry", s.ctx, mock.Anything, mock.Anything,
		s.entryID, domain.Reversed, s.userID, mock.Anything, mock.Anything).Return(nil).Once()

	reversal, err := s.service.ReverseEntry(s.ctx, s.scope, s.entryID, dto.ReverseEntryRequest{Reason: "booked twice"}, s.userID)

	s.NoError(err)
	s.Equal(domain.Draft, reversal.Status)
	s.Equal(domain.EntryTypeReversal, reversal.EntryType)
	s.Equal(&s.entryID, reversal.ReversedFromID)
	s.Len(reversal.Lines, 2)
	// Debits and credits are swapped line for line.
	s.True(reversal.Lines[0].Debit.IsZero())
	s.Equal("250", reversal.Lines[0].Credit.String())
	s.Equal(s.expenseID, reversal.Lines[0].AccountID)
	s.Equal("rent", reversal.Lines[0].Memo)
	s.Equal("250", reversal.Lines[1].Debit.String())
	s.True(reversal.Lines[1].Credit.IsZero())
	s.entryRepo.AssertExpectations(s.T())
}

func (s *ReversalServiceTestSuite) TestReverseEntryCustomDate() {
	original := s.postedEntry()
	reversalDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(original, nil).Once()
	s.entryRepo.On("FindLinesByEntryID", s.ctx, s.entryID).Return(s.postedLines(), nil).Once()
	s.periods.On("IsPeriodOpen", s.ctx, s.scope, reversalDate).Return(true, nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(s.activeAccounts(), nil).Once()
	s.entryRepo.On("CreateLinkedEntry", s.ctx, mock.Anything, mock.Anything,
		s.entryID, domain.Reversed, s.userID, mock.Anything, mock.Anything).Return(nil).Once()

	reversal, err := s.service.ReverseEntry(s.ctx, s.scope, s.entryID,
		dto.ReverseEntryRequest{Reason: "period correction", ReversalDate: &reversalDate}, s.userID)

	s.NoError(err)
	s.Equal(reversalDate, reversal.EntryDate)
}

func (s *ReversalServiceTestSuite) TestReverseEntryNotPosted() {
	entry := s.postedEntry()
	entry.Status = domain.Draft
	entry.PostedAt = nil

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()

	reversal, err := s.service.ReverseEntry(s.ctx, s.scope, s.entryID, dto.ReverseEntryRequest{Reason: "oops"}, s.userID)

	s.Nil(reversal)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.entryRepo.AssertNotCalled(s.T(), "CreateLinkedEntry",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ReversalServiceTestSuite) TestReverseEntryAlreadyReversed() {
	entry := s.postedEntry()
	existing := uuid.NewString()
	entry.ReversingEntryID = &existing

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()

	reversal, err := s.service.ReverseEntry(s.ctx, s.scope, s.entryID, dto.ReverseEntryRequest{Reason: "again"}, s.userID)

	s.Nil(reversal)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (s *ReversalServiceTestSuite) TestAdjustEntrySuccess() {
	original := s.postedEntry()
	req := dto.AdjustEntryRequest{
		Reason: "rent was 300, not 250",
		Lines: []dto.CreateLineRequest{
			{AccountID: s.expenseID, Debit: decimal.RequireFromString("50.00")},
			{AccountID: s.cashID, Credit: decimal.RequireFromString("50.00")},
		},
	}

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(original, nil).Once()
	s.periods.On("IsPeriodOpen", s.ctx, s.scope, original.EntryDate).Return(true, nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(s.activeAccounts(), nil).Once()
	s.entryRepo.On("CreateLinkedEntry", s.ctx, mock.Anything, mock.Anything,
		s.entryID, domain.Adjusted, s.userID, mock.Anything, mock.Anything).Return(nil).Once()

	adjustment, err := s.service.AdjustEntry(s.ctx, s.scope, s.entryID, req, s.userID)

	s.NoError(err)
	s.Equal(domain.Draft, adjustment.Status)
	s.Equal(domain.EntryTypeAdjustment, adjustment.EntryType)
	s.Equal(&s.entryID, adjustment.AdjustmentOfID)
	s.Len(adjustment.Lines, 2)
	s.entryRepo.AssertExpectations(s.T())
}

func (s *ReversalServiceTestSuite) TestAdjustEntryNotPosted() {
	entry := s.postedEntry()
	entry.Status = domain.PendingApproval
	entry.PostedAt = nil
	req := dto.AdjustEntryRequest{
		Reason: "delta",
		Lines:  []dto.CreateLineRequest{{AccountID: s.expenseID, Debit: decimal.RequireFromString("10.00")}},
	}

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.entryRepo.On("FindEntryByID", s.ctx, s.scope, s.entryID).Return(entry, nil).Once()

	adjustment, err := s.service.AdjustEntry(s.ctx, s.scope, s.entryID, req, s.userID)

	s.Nil(adjustment)
	s.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func TestReversalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReversalServiceTestSuite))
}
