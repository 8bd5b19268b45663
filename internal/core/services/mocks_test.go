package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
)

// MockEntryRepository is a mock implementation of portsrepo.EntryRepositoryWithTx.
type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryWithTx = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, scope domain.Scope, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, scope domain.Scope, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, scope, limit, nextToken, status)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return entries, token, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, audit domain.AuditRecord) error {
	args := m.Called(ctx, entry, lines, audit)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, audit domain.AuditRecord) error {
	args := m.Called(ctx, entry, lines, audit)
	return args.Error(0)
}

func (m *MockEntryRepository) UpdateEntryStatus(ctx context.Context, scope domain.Scope, entryID string, from, to domain.EntryStatus, postedAt *time.Time, actorID string, at time.Time, audit domain.AuditRecord) error {
	args := m.Called(ctx, scope, entryID, from, to, postedAt, actorID, at, audit)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteDraftEntry(ctx context.Context, scope domain.Scope, entryID string, audit domain.AuditRecord) error {
	args := m.Called(ctx, scope, entryID, audit)
	return args.Error(0)
}

func (m *MockEntryRepository) CreateLinkedEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, originalID string, originalTo domain.EntryStatus, actorID string, at time.Time, audits []domain.AuditRecord) error {
	args := m.Called(ctx, entry, lines, originalID, originalTo, actorID, at, audits)
	return args.Error(0)
}

func (m *MockEntryRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockEntryRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockEntryRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockApprovalRepository is a mock implementation of portsrepo.ApprovalRepositoryFacade.
type MockApprovalRepository struct {
	mock.Mock
}

var _ portsrepo.ApprovalRepositoryFacade = (*MockApprovalRepository)(nil)

func (m *MockApprovalRepository) FindRequestByID(ctx context.Context, scope domain.Scope, requestID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) FindRequestForEntry(ctx context.Context, scope domain.Scope, entryID string, status domain.ApprovalStatus) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, entryID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalRepository) ListDecisions(ctx context.Context, requestID string) ([]domain.ApprovalDecision, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalDecision), args.Error(1)
}

func (m *MockApprovalRepository) CreateRequest(ctx context.Context, req domain.ApprovalRequest, entryChange portsrepo.EntryStatusChange, audit domain.AuditRecord) error {
	args := m.Called(ctx, req, entryChange, audit)
	return args.Error(0)
}

func (m *MockApprovalRepository) UpdateRequest(ctx context.Context, req domain.ApprovalRequest, decision domain.ApprovalDecision, entryChange *portsrepo.EntryStatusChange, audit domain.AuditRecord) error {
	args := m.Called(ctx, req, decision, entryChange, audit)
	return args.Error(0)
}

// MockTemplateRepository is a mock implementation of portsrepo.TemplateRepositoryFacade.
type MockTemplateRepository struct {
	mock.Mock
}

var _ portsrepo.TemplateRepositoryFacade = (*MockTemplateRepository)(nil)

func (m *MockTemplateRepository) SaveTemplate(ctx context.Context, template domain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) FindTemplateByID(ctx context.Context, scope domain.Scope, templateID string) (*domain.Template, error) {
	args := m.Called(ctx, scope, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Template), args.Error(1)
}

func (m *MockTemplateRepository) ListTemplates(ctx context.Context, scope domain.Scope, limit int, nextToken *string) ([]domain.Template, *string, error) {
	args := m.Called(ctx, scope, limit, nextToken)
	var templates []domain.Template
	if args.Get(0) != nil {
		templates = args.Get(0).([]domain.Template)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return templates, token, args.Error(2)
}

func (m *MockTemplateRepository) UpdateTemplate(ctx context.Context, template domain.Template) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *MockTemplateRepository) DeactivateTemplate(ctx context.Context, scope domain.Scope, templateID string, actorID string, at time.Time) error {
	args := m.Called(ctx, scope, templateID, actorID, at)
	return args.Error(0)
}

// MockRecurringRepository is a mock implementation of portsrepo.RecurringRepositoryFacade.
type MockRecurringRepository struct {
	mock.Mock
}

var _ portsrepo.RecurringRepositoryFacade = (*MockRecurringRepository)(nil)

func (m *MockRecurringRepository) SaveDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockRecurringRepository) FindDefinitionByID(ctx context.Context, scope domain.Scope, definitionID string) (*domain.RecurringDefinition, error) {
	args := m.Called(ctx, scope, definitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringDefinition), args.Error(1)
}

func (m *MockRecurringRepository) ListDefinitions(ctx context.Context, scope domain.Scope, limit int, nextToken *string) ([]domain.RecurringDefinition, *string, error) {
	args := m.Called(ctx, scope, limit, nextToken)
	var defs []domain.RecurringDefinition
	if args.Get(0) != nil {
		defs = args.Get(0).([]domain.RecurringDefinition)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return defs, token, args.Error(2)
}

func (m *MockRecurringRepository) ListDueDefinitions(ctx context.Context, scope domain.Scope, asOf time.Time) ([]domain.RecurringDefinition, error) {
	args := m.Called(ctx, scope, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringDefinition), args.Error(1)
}

func (m *MockRecurringRepository) ListDueScopes(ctx context.Context, asOf time.Time) ([]domain.Scope, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Scope), args.Error(1)
}

func (m *MockRecurringRepository) UpdateDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	args := m.Called(ctx, def)
	return args.Error(0)
}

func (m *MockRecurringRepository) AdvanceDefinition(ctx context.Context, definitionID string, nextRunDate time.Time, runCount int, isActive bool, actorID string, at time.Time, run domain.RecurringRun) error {
	args := m.Called(ctx, definitionID, nextRunDate, runCount, isActive, actorID, at, run)
	return args.Error(0)
}

func (m *MockRecurringRepository) RecordRun(ctx context.Context, run domain.RecurringRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRecurringRepository) ListRuns(ctx context.Context, definitionID string, limit int) ([]domain.RecurringRun, error) {
	args := m.Called(ctx, definitionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringRun), args.Error(1)
}

// MockAuditRepository is a mock implementation of portsrepo.AuditRepositoryFacade.
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) ListRecordsByEntryID(ctx context.Context, scope domain.Scope, entryID string, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	args := m.Called(ctx, scope, entryID, limit, nextToken)
	var records []domain.AuditRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]domain.AuditRecord)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return records, token, args.Error(2)
}

// MockWorkplaceRepository is a mock implementation of portsrepo.WorkplaceRepositoryFacade.
type MockWorkplaceRepository struct {
	mock.Mock
}

var _ portsrepo.WorkplaceRepositoryFacade = (*MockWorkplaceRepository)(nil)

func (m *MockWorkplaceRepository) FindWorkplaceByID(ctx context.Context, workplaceID string) (*domain.Workplace, error) {
	args := m.Called(ctx, workplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workplace), args.Error(1)
}

func (m *MockWorkplaceRepository) FindCompanyByID(ctx context.Context, workplaceID, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, workplaceID, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}

func (m *MockWorkplaceRepository) FindMembership(ctx context.Context, userID, workplaceID string) (*domain.UserWorkplace, error) {
	args := m.Called(ctx, userID, workplaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserWorkplace), args.Error(1)
}

// MockAccountDirectory is a mock implementation of portssvc.AccountDirectory.
type MockAccountDirectory struct {
	mock.Mock
}

var _ portssvc.AccountDirectory = (*MockAccountDirectory)(nil)

func (m *MockAccountDirectory) GetAccountsByIDs(ctx context.Context, scope domain.Scope, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, scope, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

// MockPeriodPolicy is a mock implementation of portssvc.PeriodPolicy.
type MockPeriodPolicy struct {
	mock.Mock
}

var _ portssvc.PeriodPolicy = (*MockPeriodPolicy)(nil)

func (m *MockPeriodPolicy) IsPeriodOpen(ctx context.Context, scope domain.Scope, date time.Time) (bool, error) {
	args := m.Called(ctx, scope, date)
	return args.Bool(0), args.Error(1)
}

// MockApprovalGate is a mock implementation of portssvc.ApprovalGate.
type MockApprovalGate struct {
	mock.Mock
}

var _ portssvc.ApprovalGate = (*MockApprovalGate)(nil)

func (m *MockApprovalGate) MayPost(ctx context.Context, scope domain.Scope, entry domain.JournalEntry, lines []domain.JournalLine) error {
	args := m.Called(ctx, scope, entry, lines)
	return args.Error(0)
}

// MockWorkplaceService is a mock implementation of portssvc.WorkplaceSvcFacade.
type MockWorkplaceService struct {
	mock.Mock
}

var _ portssvc.WorkplaceSvcFacade = (*MockWorkplaceService)(nil)

func (m *MockWorkplaceService) AuthorizeUserAction(ctx context.Context, userID string, scope domain.Scope, requiredRole domain.UserWorkplaceRole) error {
	args := m.Called(ctx, userID, scope, requiredRole)
	return args.Error(0)
}

func (m *MockWorkplaceService) IsAuthorizedApprover(ctx context.Context, userID string, workplaceID string, level int) (bool, error) {
	args := m.Called(ctx, userID, workplaceID, level)
	return args.Bool(0), args.Error(1)
}

// MockEntryService is a mock implementation of portssvc.EntrySvcFacade.
type MockEntryService struct {
	mock.Mock
}

var _ portssvc.EntrySvcFacade = (*MockEntryService)(nil)

func (m *MockEntryService) CreateEntry(ctx context.Context, scope domain.Scope, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryService) GetEntryByID(ctx context.Context, scope domain.Scope, entryID string, requestingUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, entryID, requestingUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryService) ListEntries(ctx context.Context, scope domain.Scope, userID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	args := m.Called(ctx, scope, userID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListEntriesResponse), args.Error(1)
}

func (m *MockEntryService) UpdateEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryService) PostEntry(ctx context.Context, scope domain.Scope, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryService) DeleteEntry(ctx context.Context, scope domain.Scope, entryID string, userID string) error {
	args := m.Called(ctx, scope, entryID, userID)
	return args.Error(0)
}

// MockReversalService is a mock implementation of portssvc.ReversalSvcFacade.
type MockReversalService struct {
	mock.Mock
}

var _ portssvc.ReversalSvcFacade = (*MockReversalService)(nil)

func (m *MockReversalService) ReverseEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockReversalService) AdjustEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.AdjustEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, scope, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// MockApprovalService is a mock implementation of portssvc.ApprovalSvcFacade.
type MockApprovalService struct {
	mock.Mock
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

func (m *MockApprovalService) RequestApproval(ctx context.Context, scope domain.Scope, req dto.RequestApprovalRequest, requesterUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, req, requesterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) GetRequest(ctx context.Context, scope domain.Scope, requestID string, userID string) (*dto.ApprovalRequestResponse, error) {
	args := m.Called(ctx, scope, requestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ApprovalRequestResponse), args.Error(1)
}

func (m *MockApprovalService) Approve(ctx context.Context, scope domain.Scope, requestID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, requestID, req, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) ApproveEntry(ctx context.Context, scope domain.Scope, entryID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, entryID, req, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) Reject(ctx context.Context, scope domain.Scope, requestID string, req dto.DecisionRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, requestID, req, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) Delegate(ctx context.Context, scope domain.Scope, requestID string, req dto.DelegateRequest, approverUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, requestID, req, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}

func (m *MockApprovalService) Cancel(ctx context.Context, scope domain.Scope, requestID string, requesterUserID string) (*domain.ApprovalRequest, error) {
	args := m.Called(ctx, scope, requestID, requesterUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ApprovalRequest), args.Error(1)
}
