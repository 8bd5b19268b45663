package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This allows for dependency injection of all repositories at once.
type RepositoryProvider struct {
	EntryRepo     EntryRepositoryWithTx
	ApprovalRepo  ApprovalRepositoryFacade
	TemplateRepo  TemplateRepositoryFacade
	RecurringRepo RecurringRepositoryFacade
	AuditRepo     AuditRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	PeriodRepo    PeriodRepositoryFacade
	WorkplaceRepo WorkplaceRepositoryFacade
}
