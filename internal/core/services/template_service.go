package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tallyworks/journal_engine/internal/apperrors"
	"github.com/tallyworks/journal_engine/internal/core/domain"
	portsrepo "github.com/tallyworks/journal_engine/internal/core/ports/repositories"
	portssvc "github.com/tallyworks/journal_engine/internal/core/ports/services"
	"github.com/tallyworks/journal_engine/internal/dto"
	"github.com/tallyworks/journal_engine/internal/middleware"
	"github.com/tallyworks/journal_engine/internal/utils/formula"
)

// templateService manages reusable entry templates.
type templateService struct {
	templateRepo portsrepo.TemplateRepositoryFacade
	accounts     portssvc.AccountDirectory
	workplaceSvc portssvc.WorkplaceSvcFacade
}

// NewTemplateService creates a new TemplateService.
func NewTemplateService(templateRepo portsrepo.TemplateRepositoryFacade, accounts portssvc.AccountDirectory, workplaceSvc portssvc.WorkplaceSvcFacade) portssvc.TemplateSvcFacade {
	return &templateService{
		templateRepo: templateRepo,
		accounts:     accounts,
		workplaceSvc: workplaceSvc,
	}
}

var _ portssvc.TemplateSvcFacade = (*templateService)(nil)

// templateLinesFromRequests converts request lines to domain template lines.
func templateLinesFromRequests(templateID string, reqs []dto.TemplateLineRequest) ([]domain.TemplateLine, error) {
	lines := make([]domain.TemplateLine, len(reqs))
	for i, lr := range reqs {
		if (lr.AmountLiteral == nil) == (lr.AmountFormula == nil) {
			return nil, fmt.Errorf("%w: line %d must set exactly one of amountLiteral or amountFormula", apperrors.ErrValidation, i)
		}
		var amount domain.LineAmount
		if lr.AmountLiteral != nil {
			if lr.AmountLiteral.IsNegative() {
				return nil, fmt.Errorf("%w: line %d literal amount must not be negative", apperrors.ErrValidation, i)
			}
			amount = domain.NewLiteralAmount(*lr.AmountLiteral)
		} else {
			// Evaluate against a placeholder base so syntax errors surface at
			// template save time.
			if _, err := formula.Evaluate(*lr.AmountFormula, map[string]decimal.Decimal{"base": decimal.NewFromInt(1)}); err != nil {
				return nil, fmt.Errorf("%w: line %d formula %q: %v", apperrors.ErrValidation, i, *lr.AmountFormula, err)
			}
			amount = domain.NewFormulaAmount(*lr.AmountFormula)
		}
		lines[i] = domain.TemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     templateID,
			AccountID:      lr.AccountID,
			Side:           domain.LineSide(lr.Side),
			Amount:         amount,
			Memo:           lr.Memo,
			Position:       i,
			Dimensions: domain.Dimensions{
				Department: lr.Department,
				Project:    lr.Project,
				Location:   lr.Location,
			},
		}
	}
	return lines, nil
}

// checkTemplateAccounts verifies every referenced account exists and is active.
func (s *templateService) checkTemplateAccounts(ctx context.Context, scope domain.Scope, lines []domain.TemplateLine) error {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.AccountID)
	}
	accountsMap, err := s.accounts.GetAccountsByIDs(ctx, scope, uniqueStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to fetch accounts for template: %w", err)
	}
	for _, l := range lines {
		acc, found := accountsMap[l.AccountID]
		if !found {
			return fmt.Errorf("%w: account %s not found", apperrors.ErrValidation, l.AccountID)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, l.AccountID)
		}
	}
	return nil
}

// CreateTemplate persists a new template with its lines.
// Implements portssvc.TemplateSvcFacade
func (s *templateService) CreateTemplate(ctx context.Context, scope domain.Scope, req dto.CreateTemplateRequest, userID string) (*domain.Template, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		logger.Warn("Authorization failed for CreateTemplate", slog.String("user_id", userID), slog.String("workplace_id", scope.WorkplaceID), slog.String("error", err.Error()))
		return nil, err
	}

	now := time.Now().UTC()
	templateID := uuid.NewString()
	lines, err := templateLinesFromRequests(templateID, req.Lines)
	if err != nil {
		return nil, err
	}
	if err := s.checkTemplateAccounts(ctx, scope, lines); err != nil {
		return nil, err
	}

	entryType := domain.EntryTypeStandard
	if req.EntryType != "" {
		entryType = domain.EntryType(req.EntryType)
	}

	template := domain.Template{
		TemplateID:   templateID,
		WorkplaceID:  scope.WorkplaceID,
		CompanyID:    scope.CompanyID,
		Name:         req.Name,
		Description:  req.Description,
		EntryType:    entryType,
		CurrencyCode: req.CurrencyCode,
		Lines:        lines,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("Failed to save template", slog.String("error", err.Error()), slog.String("workplace_id", scope.WorkplaceID))
		return nil, fmt.Errorf("failed to save template: %w", err)
	}

	logger.Info("Template created", slog.String("template_id", templateID))
	return &template, nil
}

// GetTemplateByID retrieves a template and its lines.
// Implements portssvc.TemplateSvcFacade
func (s *templateService) GetTemplateByID(ctx context.Context, scope domain.Scope, templateID string, userID string) (*domain.Template, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.FindTemplateByID(ctx, scope, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	return template, nil
}

// ListTemplates retrieves a paginated list of templates.
// Implements portssvc.TemplateSvcFacade
func (s *templateService) ListTemplates(ctx context.Context, scope domain.Scope, userID string, params dto.ListTemplatesParams) (*dto.ListTemplatesResponse, error) {
	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	templates, nextToken, err := s.templateRepo.ListTemplates(ctx, scope, limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	resp := dto.ListTemplatesResponse{
		Templates: make([]dto.TemplateResponse, len(templates)),
		NextToken: nextToken,
	}
	for i := range templates {
		resp.Templates[i] = dto.ToTemplateResponse(&templates[i])
	}
	return &resp, nil
}

// UpdateTemplate replaces header fields and optionally the lines of a template.
// Implements portssvc.TemplateSvcFacade
func (s *templateService) UpdateTemplate(ctx context.Context, scope domain.Scope, templateID string, req dto.UpdateTemplateRequest, userID string) (*domain.Template, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		return nil, err
	}
	template, err := s.templateRepo.FindTemplateByID(ctx, scope, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	if !template.IsActive {
		return nil, fmt.Errorf("%w: template %s is inactive", apperrors.ErrValidation, templateID)
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.Lines != nil {
		lines, err := templateLinesFromRequests(templateID, req.Lines)
		if err != nil {
			return nil, err
		}
		if err := s.checkTemplateAccounts(ctx, scope, lines); err != nil {
			return nil, err
		}
		template.Lines = lines
	}

	now := time.Now().UTC()
	template.LastUpdatedAt = now
	template.LastUpdatedBy = userID

	if err := s.templateRepo.UpdateTemplate(ctx, *template); err != nil {
		logger.Error("Failed to update template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, fmt.Errorf("failed to update template %s: %w", templateID, err)
	}

	logger.Info("Template updated", slog.String("template_id", templateID))
	return template, nil
}

// DeactivateTemplate soft-deletes a template. Existing entries keep their
// reference; recurring definitions stop materializing from it.
// Implements portssvc.TemplateSvcFacade
func (s *templateService) DeactivateTemplate(ctx context.Context, scope domain.Scope, templateID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.workplaceSvc.AuthorizeUserAction(ctx, userID, scope, domain.RoleMember); err != nil {
		return err
	}
	if _, err := s.templateRepo.FindTemplateByID(ctx, scope, templateID); err != nil {
		return fmt.Errorf("failed to find template %s: %w", templateID, err)
	}

	now := time.Now().UTC()
	if err := s.templateRepo.DeactivateTemplate(ctx, scope, templateID, userID, now); err != nil {
		logger.Error("Failed to deactivate template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return fmt.Errorf("failed to deactivate template %s: %w", templateID, err)
	}

	logger.Info("Template deactivated", slog.String("template_id", templateID))
	return nil
}
