package services

import (
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Workplace service first since every other service authorizes through it
	container.Workplace = NewWorkplaceService(repos.WorkplaceRepo)
	container.Accounts = NewAccountDirectory(repos.AccountRepo)
	container.Periods = NewPeriodPolicy(repos.PeriodRepo)

	validator := NewEntryValidator(container.Accounts, container.Periods)
	approvalGate := NewApprovalGate(repos.WorkplaceRepo, repos.ApprovalRepo)

	container.Entry = NewEntryService(repos.EntryRepo, validator, approvalGate, container.Workplace)
	container.Reversal = NewReversalService(repos.EntryRepo, validator, container.Workplace)
	container.Approval = NewApprovalService(repos.ApprovalRepo, repos.EntryRepo, validator, container.Workplace, ApprovalPolicy{
		DefaultLevels:      cfg.ApprovalDefaultLevels,
		MaxDelegationDepth: cfg.ApprovalMaxDelegationDepth,
		AutoPost:           cfg.ApprovalAutoPost,
	})
	container.Template = NewTemplateService(repos.TemplateRepo, container.Accounts, container.Workplace)
	container.Recurring = NewRecurringService(repos.RecurringRepo, repos.TemplateRepo, repos.EntryRepo, validator, container.Workplace)
	container.Audit = NewAuditService(repos.AuditRepo, container.Workplace)
	container.Batch = NewBatchService(container.Entry, container.Reversal, container.Approval, container.Workplace, cfg.BatchWorkerLimit)

	return container
}
