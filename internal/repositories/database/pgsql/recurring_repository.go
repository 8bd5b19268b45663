package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	"github.com/tallyworks/journal_engine/internal/models"
	"github.com/tallyworks/journal_engine/internal/utils/mapping"
	"github.com/tallyworks/journal_engine/internal/utils/pagination"
)

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring definitions.
func newPgxRecurringRepository(pool *pgxpool.Pool) portsrepo.RecurringRepositoryFacade {
	return &PgxRecurringRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxRecurringRepository implements portsrepo.RecurringRepositoryFacade
var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

const definitionSelectColumns = `
	definition_id, workplace_id, company_id, template_id, name, frequency,
	next_run_date, end_date, max_occurrences, run_count, base_amount, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

const runInsertQuery = `
	INSERT INTO recurring_runs (
		run_id, definition_id, run_date, entry_id, succeeded, failure_reason, attempted_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

func scanDefinition(row pgx.Row) (*models.RecurringDefinition, error) {
	var m models.RecurringDefinition
	err := row.Scan(
		&m.DefinitionID,
		&m.WorkplaceID,
		&m.CompanyID,
		&m.TemplateID,
		&m.Name,
		&m.Frequency,
		&m.NextRunDate,
		&m.EndDate,
		&m.MaxOccurrences,
		&m.RunCount,
		&m.BaseAmount,
		&m.IsActive,
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

// SaveDefinition persists a new recurring definition.
func (r *PgxRecurringRepository) SaveDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	m := mapping.ToModelRecurringDefinition(def)
	query := `
		INSERT INTO recurring_definitions (
			definition_id, workplace_id, company_id, template_id, name, frequency,
			next_run_date, end_date, max_occurrences, run_count, base_amount, is_active,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.Pool.Exec(ctx, query,
		m.DefinitionID, m.WorkplaceID, m.CompanyID, m.TemplateID, m.Name, m.Frequency,
		m.NextRunDate, m.EndDate, m.MaxOccurrences, m.RunCount, m.BaseAmount, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert recurring definition "+def.DefinitionID, err)
	}
	return nil
}

// FindDefinitionByID retrieves a definition within a scope.
func (r *PgxRecurringRepository) FindDefinitionByID(ctx context.Context, scope domain.Scope, definitionID string) (*domain.RecurringDefinition, error) {
	query := `SELECT ` + definitionSelectColumns + `
		FROM recurring_definitions
		WHERE definition_id = $1 AND workplace_id = $2 AND company_id = $3;`
	m, err := scanDefinition(r.Pool.QueryRow(ctx, query, definitionID, scope.WorkplaceID, scope.CompanyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("recurring definition " + definitionID)
		}
		return nil, apperrors.NewAppError(500, "failed to find recurring definition "+definitionID, err)
	}
	def := mapping.ToDomainRecurringDefinition(*m)
	return &def, nil
}

// ListDefinitions retrieves a page of definitions for a scope, newest first.
func (r *PgxRecurringRepository) ListDefinitions(ctx context.Context, scope domain.Scope, limit int, nextToken *string) ([]domain.RecurringDefinition, *string, error) {
	query := `SELECT ` + definitionSelectColumns + `
		FROM recurring_definitions
		WHERE workplace_id = $1 AND company_id = $2`
	args := []any{scope.WorkplaceID, scope.CompanyID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeTimeIDToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += ` AND (created_at, definition_id) < ($3, $4)`
		args = append(args, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, definition_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query recurring definitions", err)
	}
	defer rows.Close()

	var defs []domain.RecurringDefinition
	for rows.Next() {
		m, err := scanDefinition(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan recurring definition", err)
		}
		defs = append(defs, mapping.ToDomainRecurringDefinition(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating recurring definitions", err)
	}

	var token *string
	if len(defs) > limit {
		defs = defs[:limit]
		last := defs[len(defs)-1]
		t := pagination.EncodeTimeIDToken(last.CreatedAt, last.DefinitionID)
		token = &t
	}
	return defs, token, nil
}

// ListDueDefinitions retrieves every active definition in the scope whose
// next run date is on or before asOf, oldest due first so catch-up work is
// processed in occurrence order.
func (r *PgxRecurringRepository) ListDueDefinitions(ctx context.Context, scope domain.Scope, asOf time.Time) ([]domain.RecurringDefinition, error) {
	query := `SELECT ` + definitionSelectColumns + `
		FROM recurring_definitions
		WHERE workplace_id = $1 AND company_id = $2 AND is_active = TRUE AND next_run_date <= $3
		ORDER BY next_run_date ASC, definition_id ASC;`
	rows, err := r.Pool.Query(ctx, query, scope.WorkplaceID, scope.CompanyID, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query due recurring definitions", err)
	}
	defer rows.Close()

	var defs []domain.RecurringDefinition
	for rows.Next() {
		m, err := scanDefinition(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring definition", err)
		}
		defs = append(defs, mapping.ToDomainRecurringDefinition(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating due recurring definitions", err)
	}
	return defs, nil
}

// ListDueScopes retrieves the distinct workplace/company pairs holding at
// least one due definition.
func (r *PgxRecurringRepository) ListDueScopes(ctx context.Context, asOf time.Time) ([]domain.Scope, error) {
	query := `
		SELECT DISTINCT workplace_id, company_id
		FROM recurring_definitions
		WHERE is_active = TRUE AND next_run_date <= $1
		ORDER BY workplace_id, company_id;`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query due scopes", err)
	}
	defer rows.Close()

	var scopes []domain.Scope
	for rows.Next() {
		var s domain.Scope
		if err := rows.Scan(&s.WorkplaceID, &s.CompanyID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan due scope", err)
		}
		scopes = append(scopes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating due scopes", err)
	}
	return scopes, nil
}

// UpdateDefinition persists header mutations (name, cadence, activation).
// RunCount and NextRunDate move through AdvanceDefinition only, except for
// the deactivation path which also rides through here.
func (r *PgxRecurringRepository) UpdateDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	m := mapping.ToModelRecurringDefinition(def)
	query := `
		UPDATE recurring_definitions
		SET name = $1, frequency = $2, next_run_date = $3, end_date = $4,
			max_occurrences = $5, base_amount = $6, is_active = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE definition_id = $10 AND workplace_id = $11 AND company_id = $12;`
	tag, err := r.Pool.Exec(ctx, query,
		m.Name, m.Frequency, m.NextRunDate, m.EndDate,
		m.MaxOccurrences, m.BaseAmount, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.DefinitionID, m.WorkplaceID, m.CompanyID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update recurring definition "+def.DefinitionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring definition " + def.DefinitionID)
	}
	return nil
}

// AdvanceDefinition moves a definition forward after a successful
// materialization and records the run, in one transaction.
func (r *PgxRecurringRepository) AdvanceDefinition(ctx context.Context, definitionID string, nextRunDate time.Time, runCount int, isActive bool, actorID string, at time.Time, run domain.RecurringRun) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE recurring_definitions
		SET next_run_date = $1, run_count = $2, is_active = $3,
			last_updated_at = $4, last_updated_by = $5
		WHERE definition_id = $6;`
	tag, err := tx.Exec(ctx, query, nextRunDate, runCount, isActive, at, actorID, definitionID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to advance recurring definition "+definitionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring definition " + definitionID)
	}

	if err := insertRecurringRun(ctx, tx, run); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// RecordRun appends a run history row without advancing the definition, so a
// failed occurrence is retried on the next sweep.
func (r *PgxRecurringRepository) RecordRun(ctx context.Context, run domain.RecurringRun) error {
	m := mapping.ToModelRecurringRun(run)
	_, err := r.Pool.Exec(ctx, runInsertQuery,
		m.RunID, m.DefinitionID, m.RunDate, m.EntryID, m.Succeeded, m.FailureReason, m.AttemptedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record recurring run for "+run.DefinitionID, err)
	}
	return nil
}

func insertRecurringRun(ctx context.Context, tx pgx.Tx, run domain.RecurringRun) error {
	m := mapping.ToModelRecurringRun(run)
	_, err := tx.Exec(ctx, runInsertQuery,
		m.RunID, m.DefinitionID, m.RunDate, m.EntryID, m.Succeeded, m.FailureReason, m.AttemptedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to record recurring run for "+run.DefinitionID, err)
	}
	return nil
}

// ListRuns retrieves the run history of a definition, newest first.
func (r *PgxRecurringRepository) ListRuns(ctx context.Context, definitionID string, limit int) ([]domain.RecurringRun, error) {
	query := `
		SELECT run_id, definition_id, run_date, entry_id, succeeded, failure_reason, attempted_at
		FROM recurring_runs
		WHERE definition_id = $1
		ORDER BY attempted_at DESC, run_id DESC
		LIMIT $2;`
	rows, err := r.Pool.Query(ctx, query, definitionID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring runs for "+definitionID, err)
	}
	defer rows.Close()

	var runs []domain.RecurringRun
	for rows.Next() {
		var m models.RecurringRun
		err := rows.Scan(&m.RunID, &m.DefinitionID, &m.RunDate, &m.EntryID, &m.Succeeded, &m.FailureReason, &m.AttemptedAt)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring run", err)
		}
		runs = append(runs, mapping.ToDomainRecurringRun(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring runs", err)
	}
	return runs, nil
}
