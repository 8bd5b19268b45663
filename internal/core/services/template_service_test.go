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

type TemplateServiceTestSuite struct {
	suite.Suite
	templateRepo *MockTemplateRepository
	accounts     *MockAccountDirectory
	workplaceSvc *MockWorkplaceService
	service      portssvc.TemplateSvcFacade
	ctx          context.Context

	scope      domain.Scope
	userID     string
	templateID string
	cashID     string
	expenseID  string
}

func (s *TemplateServiceTestSuite) SetupTest() {
	s.templateRepo = new(MockTemplateRepository)
	s.accounts = new(MockAccountDirectory)
	s.workplaceSvc = new(MockWorkplaceService)
	s.service = services.NewTemplateService(s.templateRepo, s.accounts, s.workplaceSvc)
	s.ctx = context.Background()

	s.scope = domain.Scope{WorkplaceID: uuid.NewString(), CompanyID: uuid.NewString()}
	s.userID = uuid.NewString()
	s.templateID = uuid.NewString()
	s.cashID = uuid.NewString()
	s.expenseID = uuid.NewString()
}

func (s *TemplateServiceTestSuite) activeAccounts() map[string]domain.Account {
	return map[string]domain.Account{
		s.cashID:    {AccountID: s.cashID, AccountType: domain.Asset, IsActive: true},
		s.expenseID: {AccountID: s.expenseID, AccountType: domain.Expense, IsActive: true},
	}
}

func (s *TemplateServiceTestSuite) createRequest() dto.CreateTemplateRequest {
	literal := decimal.RequireFromString("1500.00")
	formulaExpr := "base * 0.1"
	return dto.CreateTemplateRequest{
		Name:         "Monthly rent",
		CurrencyCode: "USD",
		Lines: []dto.TemplateLineRequest{
			{AccountID: s.expenseID, Side: "DEBIT", AmountLiteral: &literal},
			{AccountID: s.cashID, Side: "CREDIT", AmountFormula: &formulaExpr},
		},
	}
}

func (s *TemplateServiceTestSuite) TestCreateTemplateSuccess() {
	req := s.createRequest()

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(s.activeAccounts(), nil).Once()
	s.templateRepo.On("SaveTemplate", s.ctx, mock.Anything).Return(nil).Once()

	template, err := s.service.CreateTemplate(s.ctx, s.scope, req, s.userID)

	s.NoError(err)
	s.True(template.IsActive)
	s.Len(template.Lines, 2)
	s.Equal(domain.AmountLiteral, template.Lines[0].Amount.Kind)
	s.Equal(domain.AmountFormula, template.Lines[1].Amount.Kind)
	s.Equal("base * 0.1", template.Lines[1].Amount.Formula)
	s.templateRepo.AssertExpectations(s.T())
}

func (s *TemplateServiceTestSuite) TestCreateTemplateBothAmountKindsSet() {
	req := s.createRequest()
	literal := decimal.RequireFromString("10")
	req.Lines[1].AmountLiteral = &literal

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()

	template, err := s.service.CreateTemplate(s.ctx, s.scope, req, s.userID)

	s.Nil(template)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.templateRepo.AssertNotCalled(s.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (s *TemplateServiceTestSuite) TestCreateTemplateBadFormula() {
	req := s.createRequest()
	bad := "base +"
	req.Lines[1].AmountFormula = &bad

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()

	template, err := s.service.CreateTemplate(s.ctx, s.scope, req, s.userID)

	s.Nil(template)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TemplateServiceTestSuite) TestCreateTemplateUnknownAccount() {
	req := s.createRequest()
	accounts := s.activeAccounts()
	delete(accounts, s.cashID)

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.accounts.On("GetAccountsByIDs", s.ctx, s.scope, mock.Anything).Return(accounts, nil).Once()

	template, err := s.service.CreateTemplate(s.ctx, s.scope, req, s.userID)

	s.Nil(template)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *TemplateServiceTestSuite) TestUpdateTemplateInactive() {
	existing := &domain.Template{TemplateID: s.templateID, IsActive: false}
	name := "Renamed"

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.templateRepo.On("FindTemplateByID", s.ctx, s.scope, s.templateID).Return(existing, nil).Once()

	template, err := s.service.UpdateTemplate(s.ctx, s.scope, s.templateID, dto.UpdateTemplateRequest{Name: &name}, s.userID)

	s.Nil(template)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.templateRepo.AssertNotCalled(s.T(), "UpdateTemplate", mock.Anything, mock.Anything)
}

func (s *TemplateServiceTestSuite) TestDeactivateTemplate() {
	existing := &domain.Template{TemplateID: s.templateID, IsActive: true}

	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.templateRepo.On("FindTemplateByID", s.ctx, s.scope, s.templateID).Return(existing, nil).Once()
	s.templateRepo.On("DeactivateTemplate", s.ctx, s.scope, s.templateID, s.userID, mock.Anything).Return(nil).Once()

	err := s.service.DeactivateTemplate(s.ctx, s.scope, s.templateID, s.userID)

	s.NoError(err)
	s.templateRepo.AssertExpectations(s.T())
}

func (s *TemplateServiceTestSuite) TestDeactivateTemplateNotFound() {
	s.workplaceSvc.On("AuthorizeUserAction", s.ctx, s.userID, s.scope, domain.RoleMember).Return(nil).Once()
	s.templateRepo.On("FindTemplateByID", s.ctx, s.scope, s.templateID).
		Return(nil, apperrors.NewNotFoundError("template not found")).Once()

	err := s.service.DeactivateTemplate(s.ctx, s.scope, s.templateID, s.userID)

	s.ErrorIs(err, apperrors.ErrNotFound)
	s.templateRepo.AssertNotCalled(s.T(), "DeactivateTemplate",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}
