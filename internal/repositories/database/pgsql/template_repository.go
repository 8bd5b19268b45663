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

type PgxTemplateRepository struct {
	BaseRepository
}

// newPgxTemplateRepository creates a new repository for entry template data.
func newPgxTemplateRepository(pool *pgxpool.Pool) portsrepo.TemplateRepositoryFacade {
	return &PgxTemplateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxTemplateRepository implements portsrepo.TemplateRepositoryFacade
var _ portsrepo.TemplateRepositoryFacade = (*PgxTemplateRepository)(nil)

const templateSelectColumns = `
	template_id, workplace_id, company_id, name, description,
	entry_type, currency_code, is_active,
	created_at, created_by, last_updated_at, last_updated_by
`

const templateInsertQuery = `
	INSERT INTO templates (
		template_id, workplace_id, company_id, name, description,
		entry_type, currency_code, is_active,
		created_at, created_by, last_updated_at, last_updated_by
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

const templateLineInsertQuery = `
	INSERT INTO template_lines (
		template_line_id, template_id, account_id, side,
		amount_kind, amount_literal, amount_formula, memo, position,
		department, project, location
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`

func scanTemplate(row pgx.Row) (*models.Template, error) {
	var m models.Template
	err := row.Scan(
		&m.TemplateID,
		&m.WorkplaceID,
		&m.CompanyID,
		&m.Name,
		&m.Description,
		&m.EntryType,
		&m.CurrencyCode,
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

func queueTemplateLineInserts(batch *pgx.Batch, lines []domain.TemplateLine) {
	for _, line := range lines {
		m := mapping.ToModelTemplateLine(line)
		batch.Queue(templateLineInsertQuery,
			m.TemplateLineID, m.TemplateID, m.AccountID, m.Side,
			m.AmountKind, m.AmountLiteral, m.AmountFormula, m.Memo, m.Position,
			m.Department, m.Project, m.Location,
		)
	}
}

// SaveTemplate persists a new template with its lines in one transaction.
func (r *PgxTemplateRepository) SaveTemplate(ctx context.Context, template domain.Template) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTemplate(template)
	batch := &pgx.Batch{}
	batch.Queue(templateInsertQuery,
		m.TemplateID, m.WorkplaceID, m.CompanyID, m.Name, m.Description,
		m.EntryType, m.CurrencyCode, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	queueTemplateLineInserts(batch, template.Lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert template "+template.TemplateID, err)
	}
	return r.Commit(ctx, tx)
}

// FindTemplateByID retrieves a template and its lines within a scope.
func (r *PgxTemplateRepository) FindTemplateByID(ctx context.Context, scope domain.Scope, templateID string) (*domain.Template, error) {
	query := `SELECT ` + templateSelectColumns + `
		FROM templates
		WHERE template_id = $1 AND workplace_id = $2 AND company_id = $3;`
	m, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID, scope.WorkplaceID, scope.CompanyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("template " + templateID)
		}
		return nil, apperrors.NewAppError(500, "failed to find template "+templateID, err)
	}

	lines, err := r.findTemplateLines(ctx, templateID)
	if err != nil {
		return nil, err
	}
	template := mapping.ToDomainTemplate(*m)
	template.Lines = lines
	return &template, nil
}

func (r *PgxTemplateRepository) findTemplateLines(ctx context.Context, templateID string) ([]domain.TemplateLine, error) {
	query := `
		SELECT template_line_id, template_id, account_id, side,
			amount_kind, amount_literal, amount_formula, memo, position,
			department, project, location
		FROM template_lines
		WHERE template_id = $1
		ORDER BY position ASC;`
	rows, err := r.Pool.Query(ctx, query, templateID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query template lines for "+templateID, err)
	}
	defer rows.Close()

	var ms []models.TemplateLine
	for rows.Next() {
		var m models.TemplateLine
		err := rows.Scan(
			&m.TemplateLineID, &m.TemplateID, &m.AccountID, &m.Side,
			&m.AmountKind, &m.AmountLiteral, &m.AmountFormula, &m.Memo, &m.Position,
			&m.Department, &m.Project, &m.Location,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan template line", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating template lines", err)
	}
	return mapping.ToDomainTemplateLineSlice(ms), nil
}

// ListTemplates retrieves a page of templates for a scope, newest first.
// Lines are not loaded for listings.
func (r *PgxTemplateRepository) ListTemplates(ctx context.Context, scope domain.Scope, limit int, nextToken *string) ([]domain.Template, *string, error) {
	query := `SELECT ` + templateSelectColumns + `
		FROM templates
		WHERE workplace_id = $1 AND company_id = $2`
	args := []any{scope.WorkplaceID, scope.CompanyID}

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeTimeIDToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid pagination token", err)
		}
		query += ` AND (created_at, template_id) < ($3, $4)`
		args = append(args, createdAt, id)
	}

	query += ` ORDER BY created_at DESC, template_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query templates", err)
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan template", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating templates", err)
	}

	var token *string
	if len(templates) > limit {
		templates = templates[:limit]
		last := templates[len(templates)-1]
		t := pagination.EncodeTimeIDToken(last.CreatedAt, last.TemplateID)
		token = &t
	}
	return templates, token, nil
}

// UpdateTemplate replaces a template's header and lines in one transaction.
func (r *PgxTemplateRepository) UpdateTemplate(ctx context.Context, template domain.Template) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTemplate(template)
	updateQuery := `
		UPDATE templates
		SET name = $1, description = $2, entry_type = $3, currency_code = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE template_id = $7 AND workplace_id = $8 AND company_id = $9 AND is_active = TRUE;`
	tag, err := tx.Exec(ctx, updateQuery,
		m.Name, m.Description, m.EntryType, m.CurrencyCode,
		m.LastUpdatedAt, m.LastUpdatedBy,
		m.TemplateID, m.WorkplaceID, m.CompanyID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update template "+template.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("active template " + template.TemplateID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM template_lines WHERE template_id = $1;`, template.TemplateID); err != nil {
		return apperrors.NewAppError(500, "failed to clear template lines for "+template.TemplateID, err)
	}
	batch := &pgx.Batch{}
	queueTemplateLineInserts(batch, template.Lines)
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert template lines for "+template.TemplateID, err)
	}
	return r.Commit(ctx, tx)
}

// DeactivateTemplate soft-deletes a template. Lines stay in place so existing
// recurring definitions can still be inspected against them.
func (r *PgxTemplateRepository) DeactivateTemplate(ctx context.Context, scope domain.Scope, templateID string, actorID string, at time.Time) error {
	query := `
		UPDATE templates
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE template_id = $3 AND workplace_id = $4 AND company_id = $5 AND is_active = TRUE;`
	tag, err := r.Pool.Exec(ctx, query, at, actorID, templateID, scope.WorkplaceID, scope.CompanyID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate template "+templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("active template " + templateID)
	}
	return nil
}
