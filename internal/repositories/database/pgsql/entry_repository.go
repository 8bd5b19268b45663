package pgsql

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	"github.com/tallyworks/journal_engine/internal/models"
	"github.com/tallyworks/journal_engine/internal/utils/mapping"
	"github.com/tallyworks/journal_engine/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for journal entry data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryWithTx {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryWithTx
var _ portsrepo.EntryRepositoryWithTx = (*PgxEntryRepository)(nil)

const entrySelectColumns = `
	entry_id, workplace_id, company_id, entry_date, reference, description,
	entry_type, currency_code, status, posted_at, template_id,
	reversed_from_id, reversing_entry_id, adjustment_of_id,
	created_at, created_by, last_updated_at, last_updated_by
`

const entryInsertQuery = `
	INSERT INTO journal_entries (
		entry_id, workplace_id, company_id, entry_date, reference, description,
		entry_type, currency_code, status, posted_at, template_id,
		reversed_from_id, reversing_entry_id, adjustment_of_id,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
`

const lineInsertQuery = `
	INSERT INTO journal_lines (
		line_id, entry_id, account_id, debit, credit, memo, position,
		department, project, location,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.WorkplaceID,
		&m.CompanyID,
		&m.EntryDate,
		&m.Reference,
		&m.Description,
		&m.EntryType,
		&m.CurrencyCode,
		&m.Status,
		&m.PostedAt,
		&m.TemplateID,
		&m.ReversedFromID,
		&m.ReversingEntryID,
		&m.AdjustmentOfID,
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

func queueEntryInsert(batch *pgx.Batch, m models.JournalEntry) {
	batch.Queue(entryInsertQuery,
		m.EntryID, m.WorkplaceID, m.CompanyID, m.EntryDate, m.Reference, m.Description,
		m.EntryType, m.CurrencyCode, m.Status, m.PostedAt, m.TemplateID,
		m.ReversedFromID, m.ReversingEntryID, m.AdjustmentOfID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
}

func queueLineInserts(batch *pgx.Batch, lines []domain.JournalLine) {
	for _, line := range lines {
		m := mapping.ToModelLine(line)
		batch.Queue(lineInsertQuery,
			m.LineID, m.EntryID, m.AccountID, m.Debit, m.Credit, m.Memo, m.Position,
			m.Department, m.Project, m.Location,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
}

// SaveEntry persists a new DRAFT entry with its lines and the creation audit
// record in one transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	queueEntryInsert(batch, mapping.ToModelEntry(entry))
	queueLineInserts(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert entry "+entry.EntryID, err)
	}

	if err := insertAuditRecord(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a specific entry by its identifier within a scope.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, scope domain.Scope, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT` + entrySelectColumns + `
		FROM journal_entries
		WHERE entry_id = $1 AND workplace_id = $2 AND company_id = $3;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID, scope.WorkplaceID, scope.CompanyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("entry " + entryID + " not found")
		}
		return nil, apperrors.NewAppError(500, "failed to find entry by ID "+entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

// FindLinesByEntryID retrieves all lines of an entry in position order.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, entry_id, account_id, debit, credit, memo, position,
		       department, project, location,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE entry_id = $1
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for entry "+entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		if err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Memo,
			&m.Position,
			&m.Department,
			&m.Project,
			&m.Location,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for entry "+entryID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for entry "+entryID, err)
	}
	return mapping.ToDomainLineSlice(lines), nil
}

// ListEntries retrieves a paginated list of entries for a scope using
// token-based pagination ordered by entry_date DESC, created_at DESC.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, scope domain.Scope, limit int, nextToken *string, status *domain.EntryStatus) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT` + entrySelectColumns + `
		FROM journal_entries
		WHERE workplace_id = $1 AND company_id = $2
	`
	args := []any{scope.WorkplaceID, scope.CompanyID}

	if status != nil {
		baseQuery += ` AND status = $` + strconv.Itoa(len(args)+1)
		args = append(args, string(*status))
	}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		baseQuery += ` AND (entry_date, created_at) < ($` + strconv.Itoa(len(args)+1) + `, $` + strconv.Itoa(len(args)+2) + `)`
		args = append(args, lastEntryDate, lastCreatedAt)
	}

	query := baseQuery + ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for workplace "+scope.WorkplaceID, err)
	}
	defer rows.Close()

	entries := []models.JournalEntry{}
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row", scanErr)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
	}

	out := make([]domain.JournalEntry, len(entries))
	for i, m := range entries {
		out[i] = mapping.ToDomainEntry(m)
	}
	return out, nextTokenVal, nil
}

// UpdateDraftEntry replaces the header fields and, when lines is non-nil, the
// lines of a DRAFT entry. The status predicate keeps a concurrently promoted
// entry from being overwritten.
func (r *PgxEntryRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEntry(entry)
	updateQuery := `
		UPDATE journal_entries
		SET entry_date = $1, reference = $2, description = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $6 AND workplace_id = $7 AND company_id = $8 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, updateQuery,
		m.EntryDate, m.Reference, m.Description,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.EntryID, m.WorkplaceID, m.CompanyID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update entry "+entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveMissingUpdate(ctx, entry.EntryID, domain.Scope{WorkplaceID: entry.WorkplaceID, CompanyID: entry.CompanyID}, domain.Draft)
	}

	if lines != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
			return apperrors.NewAppError(500, "failed to clear lines for entry "+entry.EntryID, err)
		}
		batch := &pgx.Batch{}
		queueLineInserts(batch, lines)
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to insert lines for entry "+entry.EntryID, err)
		}
	}

	if err := insertAuditRecord(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateEntryStatus transitions an entry from an expected status to a new
// one. The expected-status predicate is the per-entry serialization point: a
// stale expectation affects zero rows and surfaces as ErrInvalidTransition.
func (r *PgxEntryRepository) UpdateEntryStatus(ctx context.Context, scope domain.Scope, entryID string, from, to domain.EntryStatus, postedAt *time.Time, actorID string, at time.Time, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET status = $1, posted_at = COALESCE($2, posted_at),
		    last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $5 AND workplace_id = $6 AND company_id = $7 AND status = $8;
	`
	tag, err := tx.Exec(ctx, query,
		string(to), postedAt, at, actorID,
		entryID, scope.WorkplaceID, scope.CompanyID, string(from),
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveMissingUpdate(ctx, entryID, scope, from)
	}

	if err := insertAuditRecord(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftEntry deletes a DRAFT entry and its lines. The audit trail is
// retained: records reference the entry ID, not the row.
func (r *PgxEntryRepository) DeleteDraftEntry(ctx context.Context, scope domain.Scope, entryID string, audit domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines for entry "+entryID, err)
	}
	tag, err := tx.Exec(ctx, `
		DELETE FROM journal_entries
		WHERE entry_id = $1 AND workplace_id = $2 AND company_id = $3 AND status = 'DRAFT';
	`, entryID, scope.WorkplaceID, scope.CompanyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete entry "+entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveMissingUpdate(ctx, entryID, scope, domain.Draft)
	}

	if err := insertAuditRecord(ctx, tx, audit); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// CreateLinkedEntry atomically persists a new DRAFT entry (reversal or
// adjustment) and moves the original from POSTED to originalTo, setting the
// back-link column on the original. At most one linked correction can win.
func (r *PgxEntryRepository) CreateLinkedEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, originalID string, originalTo domain.EntryStatus, actorID string, at time.Time, audits []domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The status predicate doubles as the idempotency guard: a second
	// concurrent correction finds the original no longer POSTED and affects
	// no rows. Reversals additionally record the back-link on the original;
	// adjustments link forward through adjustment_of_id on the new entry.
	var tag pgconn.CommandTag
	switch originalTo {
	case domain.Reversed:
		tag, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $1, reversing_entry_id = $2,
			    last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $5 AND workplace_id = $6 AND company_id = $7
			  AND status = 'POSTED' AND reversing_entry_id IS NULL;
		`, string(originalTo), entry.EntryID, at, actorID,
			originalID, entry.WorkplaceID, entry.CompanyID)
	case domain.Adjusted:
		tag, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $1, last_updated_at = $2, last_updated_by = $3
			WHERE entry_id = $4 AND workplace_id = $5 AND company_id = $6
			  AND status = 'POSTED';
		`, string(originalTo), at, actorID,
			originalID, entry.WorkplaceID, entry.CompanyID)
	default:
		return apperrors.NewAppError(500, "unsupported linked transition to "+string(originalTo), nil)
	}
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark original entry "+originalID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.resolveMissingUpdate(ctx, originalID, domain.Scope{WorkplaceID: entry.WorkplaceID, CompanyID: entry.CompanyID}, domain.Posted)
	}

	batch := &pgx.Batch{}
	queueEntryInsert(batch, mapping.ToModelEntry(entry))
	queueLineInserts(batch, lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert linked entry "+entry.EntryID, err)
	}

	for _, audit := range audits {
		if err := insertAuditRecord(ctx, tx, audit); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// resolveMissingUpdate distinguishes a missing entry from a stale expected
// status after a zero-row write.
func (r *PgxEntryRepository) resolveMissingUpdate(ctx context.Context, entryID string, scope domain.Scope, expected domain.EntryStatus) error {
	current, err := r.FindEntryByID(ctx, scope, entryID)
	if err != nil {
		return err
	}
	return apperrors.NewAppError(409,
		"entry "+entryID+" is "+string(current.Status)+", expected "+string(expected),
		apperrors.ErrInvalidTransition)
}
