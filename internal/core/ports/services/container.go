package services

// ServiceContainer holds every engine service for dependency injection into
// the handler layer.
type ServiceContainer struct {
	Entry     EntrySvcFacade
	Reversal  ReversalSvcFacade
	Approval  ApprovalSvcFacade
	Batch     BatchSvcFacade
	Template  TemplateSvcFacade
	Recurring RecurringSvcFacade
	Audit     AuditSvcFacade
	Workplace WorkplaceSvcFacade
	Accounts  AccountDirectory
	Periods   PeriodPolicy
}
