package pgsql

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	"github.com/tallyworks/journal_engine/internal/models"
	"github.com/tallyworks/journal_engine/internal/utils/mapping"
	"github.com/tallyworks/journal_engine/internal/utils/pagination"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the audit trail.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// auditInsertQuery assigns the next per-entry sequence at insert time. The
// subselect runs inside the caller's transaction, so two writers touching the
// same entry serialize on the entry row they both update and cannot claim the
// same sequence.
const auditInsertQuery = `
	INSERT INTO audit_records (
		audit_id, entry_id, workplace_id, company_id, sequence,
		actor_id, action, from_status, to_status, diff, occurred_at
	)
	VALUES ($1, $2, $3, $4,
		(SELECT COALESCE(MAX(sequence), 0) + 1 FROM audit_records WHERE entry_id = $2),
		$5, $6, $7, $8, $9, $10);
`

// insertAuditRecord writes one audit row inside the given transaction. Entry
// and approval repositories call it so the record commits or rolls back with
// the state change it describes.
func insertAuditRecord(ctx context.Context, tx pgx.Tx, record domain.AuditRecord) error {
	m := mapping.ToModelAuditRecord(record)
	_, err := tx.Exec(ctx, auditInsertQuery,
		m.AuditID,
		m.EntryID,
		m.WorkplaceID,
		m.CompanyID,
		m.ActorID,
		m.Action,
		m.FromStatus,
		m.ToStatus,
		m.Diff,
		m.OccurredAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert audit record for entry "+m.EntryID, err)
	}
	return nil
}

// ListRecordsByEntryID retrieves an entry's audit trail in sequence order,
// paginated by sequence token.
func (r *PgxAuditRepository) ListRecordsByEntryID(ctx context.Context, scope domain.Scope, entryID string, limit int, nextToken *string) ([]domain.AuditRecord, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT audit_id, entry_id, workplace_id, company_id, sequence,
		       actor_id, action, from_status, to_status, diff, occurred_at
		FROM audit_records
		WHERE entry_id = $1 AND workplace_id = $2 AND company_id = $3
	`
	args := []any{entryID, scope.WorkplaceID, scope.CompanyID}

	if nextToken != nil && *nextToken != "" {
		lastSequence, decodeErr := pagination.DecodeSequenceToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND sequence > $4`
		args = append(args, lastSequence)
	}
	query := baseQuery + ` ORDER BY sequence ASC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query audit records for entry "+entryID, err)
	}
	defer rows.Close()

	records := []models.AuditRecord{}
	for rows.Next() {
		var m models.AuditRecord
		if err := rows.Scan(
			&m.AuditID,
			&m.EntryID,
			&m.WorkplaceID,
			&m.CompanyID,
			&m.Sequence,
			&m.ActorID,
			&m.Action,
			&m.FromStatus,
			&m.ToStatus,
			&m.Diff,
			&m.OccurredAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan audit record row for entry "+entryID, err)
		}
		records = append(records, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating audit record rows for entry "+entryID, err)
	}

	var nextTokenVal *string
	if len(records) > limit {
		records = records[:limit]
		token := pagination.EncodeSequenceToken(records[limit-1].Sequence)
		nextTokenVal = &token
	}

	out := make([]domain.AuditRecord, len(records))
	for i, m := range records {
		out[i] = mapping.ToDomainAuditRecord(m)
	}
	return out, nextTokenVal, nil
}
