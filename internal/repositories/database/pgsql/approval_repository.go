package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	"github.com/tallyworks/journal_engine/internal/models"
	"github.com/tallyworks/journal_engine/internal/utils/mapping"
)

type PgxApprovalRepository struct {
	BaseRepository
}

// newPgxApprovalRepository creates a new repository for approval workflow data.
func newPgxApprovalRepository(pool *pgxpool.Pool) portsrepo.ApprovalRepositoryFacade {
	return &PgxApprovalRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxApprovalRepository implements portsrepo.ApprovalRepositoryFacade
var _ portsrepo.ApprovalRepositoryFacade = (*PgxApprovalRepository)(nil)

const requestSelectColumns = `
	request_id, entry_id, workplace_id, company_id, required_levels,
	current_level, current_approver_id, requester_id, status,
	escalation_count, escalation_reason, comments, decided_at,
	created_at, created_by, last_updated_at, last_updated_by
`

func scanRequest(row pgx.Row) (*models.ApprovalRequest, error) {
	var m models.ApprovalRequest
	err := row.Scan(
		&m.RequestID,
		&m.EntryID,
		&m.WorkplaceID,
		&m.CompanyID,
		&m.RequiredLevels,
		&m.CurrentLevel,
		&m.CurrentApproverID,
		&m.RequesterID,
		&m.Status,
		&m.EscalationCount,
		&m.EscalationReason,
		&m.Comments,
		&m.DecidedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// applyEntryChange runs the expected-status entry transition inside tx.
func applyEntryChange(ctx context.Context, tx pgx.Tx, change portsrepo.EntryStatusChange, actorID string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE journal_entries
		SET status = $1, posted_at = COALESCE($2, posted_at),
		    last_updated_at = NOW(), last_updated_by = $3
		WHERE entry_id = $4 AND status = $5;
	`, string(change.To), change.PostedAt, actorID, change.EntryID, string(change.From))
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition entry "+change.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewAppError(409,
			"entry "+change.EntryID+" is no longer "+string(change.From),
			apperrors.ErrInvalidTransition)
	}
	return nil
}

// CreateRequest inserts a new OPEN request and moves the target entry to
// PENDING_APPROVAL in one transaction. A second open request for the same
// entry violates the partial unique index and surfaces as ErrDuplicate.
func (r *PgxApprovalRepository) CreateRequest(ctx context.Context, req domain.ApprovalRequest, entryChange portsrepo.EntryStatusChange, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelApprovalRequest(req)
	insertQuery := `
		INSERT INTO approval_requests (` + requestSelectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, insertQuery,
		m.RequestID, m.EntryID, m.WorkplaceID, m.CompanyID, m.RequiredLevels,
		m.CurrentLevel, m.CurrentApproverID, m.RequesterID, m.Status,
		m.EscalationCount, m.EscalationReason, m.Comments, m.DecidedAt,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "entry "+m.EntryID+" already has an open approval request", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert approval request "+m.RequestID, err)
	}

	if err := applyEntryChange(ctx, tx, entryChange, req.CreatedBy); err != nil {
		return err
	}
	if err := insertAuditRecord(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindRequestByID retrieves a request by its identifier within a scope.
func (r *PgxApprovalRepository) FindRequestByID(ctx context.Context, scope domain.Scope, requestID string) (*domain.ApprovalRequest, error) {
	query := `
		SELECT` + requestSelectColumns + `
		FROM approval_requests
		WHERE request_id = $1 AND workplace_id = $2 AND company_id = $3;
	`
	m, err := scanRequest(r.Pool.QueryRow(ctx, query, requestID, scope.WorkplaceID, scope.CompanyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("approval request " + requestID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find approval request by ID "+requestID, err)
	}
	req := mapping.ToDomainApprovalRequest(*m)
	return &req, nil
}

// FindRequestForEntry retrieves the single request for an entry in the given
// status, if any.
func (r *PgxApprovalRepository) FindRequestForEntry(ctx context.Context, scope domain.Scope, entryID string, status domain.ApprovalStatus) (*domain.ApprovalRequest, error) {
	query := `
		SELECT` + requestSelectColumns + `
		FROM approval_requests
		WHERE entry_id = $1 AND workplace_id = $2 AND company_id = $3 AND status = $4
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanRequest(r.Pool.QueryRow(ctx, query, entryID, scope.WorkplaceID, scope.CompanyID, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("no " + string(status) + " approval request for entry " + entryID)
		}
		return nil, apperrors.NewAppError(500, "failed to find approval request for entry "+entryID, err)
	}
	req := mapping.ToDomainApprovalRequest(*m)
	return &req, nil
}

// ListDecisions retrieves the decision history of a request in order.
func (r *PgxApprovalRepository) ListDecisions(ctx context.Context, requestID string) ([]domain.ApprovalDecision, error) {
	query := `
		SELECT decision_id, request_id, level, actor_id, action, comments, delegated_to, decided_at
		FROM approval_decisions
		WHERE request_id = $1
		ORDER BY decided_at, decision_id;
	`
	rows, err := r.Pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query decisions for request "+requestID, err)
	}
	defer rows.Close()

	decisions := []models.ApprovalDecision{}
	for rows.Next() {
		var m models.ApprovalDecision
		if err := rows.Scan(
			&m.DecisionID,
			&m.RequestID,
			&m.Level,
			&m.ActorID,
			&m.Action,
			&m.Comments,
			&m.DelegatedTo,
			&m.DecidedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan decision row for request "+requestID, err)
		}
		decisions = append(decisions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating decision rows for request "+requestID, err)
	}
	return mapping.ToDomainApprovalDecisionSlice(decisions), nil
}

// UpdateRequest persists a decision against an OPEN request: the mutated
// request row, the immutable decision row, an optional entry status change,
// and the audit record, all in one transaction.
func (r *PgxApprovalRepository) UpdateRequest(ctx context.Context, req domain.ApprovalRequest, decision domain.ApprovalDecision, entryChange *portsrepo.EntryStatusChange, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelApprovalRequest(req)
	// The level predicate serializes same-level decisions: two racing
	// approvals at level N both match status but only one matches the level
	// the decision was made at.
	updateQuery := `
		UPDATE approval_requests
		SET current_level = $1, current_approver_id = $2, status = $3,
		    escalation_count = $4, escalation_reason = $5, comments = $6,
		    decided_at = $7, last_updated_at = $8, last_updated_by = $9
		WHERE request_id = $10 AND status = 'OPEN' AND current_level = $11;
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.CurrentLevel, m.CurrentApproverID, m.Status,
		m.EscalationCount, m.EscalationReason, m.Comments,
		m.DecidedAt, m.LastUpdatedAt, m.LastUpdatedBy,
		m.RequestID, decision.Level,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update approval request "+m.RequestID, err)
	}
	if tag.RowsAffected() == 0 {
		// Lost the decision race: someone else decided or closed first.
		return apperrors.NewAppError(409, "approval request "+m.RequestID+" was already decided at this level", apperrors.ErrInvalidTransition)
	}

	d := mapping.ToModelApprovalDecision(decision)
	decisionQuery := `
		INSERT INTO approval_decisions (decision_id, request_id, level, actor_id, action, comments, delegated_to, decided_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := tx.Exec(ctx, decisionQuery,
		d.DecisionID, d.RequestID, d.Level, d.ActorID, d.Action, d.Comments, d.DelegatedTo, d.DecidedAt,
	); err != nil {
		return apperrors.NewAppError(500, "failed to insert decision for request "+m.RequestID, err)
	}

	if entryChange != nil {
		if err := applyEntryChange(ctx, tx, *entryChange, decision.ActorID); err != nil {
			return err
		}
	}
	if err := insertAuditRecord(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
