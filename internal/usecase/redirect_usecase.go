package usecase

import (
	"context"
	"fmt"
	"strings"

	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/repository"
	"cf-zone-bot/pkg/logging"
)

// redirectUsecase implements RedirectUsecase interface
type redirectUsecase struct {
	redirectRepo repository.RedirectRepository
	log          *logging.Logger
}

// NewRedirectUsecase creates a new redirect usecase
func NewRedirectUsecase(redirectRepo repository.RedirectRepository, logger *logging.Logger) RedirectUsecase {
	return &redirectUsecase{
		redirectRepo: redirectRepo,
		log:          logger,
	}
}

// ListRules returns all redirects for a zone
func (u *redirectUsecase) ListRules(ctx context.Context, zoneID string) ([]domain.RedirectRule, error) {
	rules, err := u.redirectRepo.ListRules(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list redirects: %w", err)
	}

	return rules, nil
}

// GetRule returns a specific redirect by ID
func (u *redirectUsecase) GetRule(ctx context.Context, zoneID, ruleID string) (*domain.RedirectRule, error) {
	return u.redirectRepo.GetRule(ctx, zoneID, ruleID)
}

// CreateRule creates a new redirect
func (u *redirectUsecase) CreateRule(ctx context.Context, zoneID string, input CreateRedirectRuleInput) (*domain.RedirectRule, error) {
	rule, err := buildRedirect(input)
	if err != nil {
		return nil, err
	}

	created, err := u.redirectRepo.CreateRule(ctx, zoneID, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to create redirect: %w", err)
	}
	u.log.Infof("[CreateRedirect] zoneID=%s ruleID=%s source=%s", zoneID, created.ID, created.SourceURL)

	return created, nil
}

// UpdateRule replaces an existing redirect
func (u *redirectUsecase) UpdateRule(ctx context.Context, zoneID, ruleID string, input CreateRedirectRuleInput) (*domain.RedirectRule, error) {
	rule, err := buildRedirect(input)
	if err != nil {
		return nil, err
	}

	updated, err := u.redirectRepo.UpdateRule(ctx, zoneID, ruleID, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to update redirect: %w", err)
	}
	u.log.Infof("[UpdateRedirect] zoneID=%s ruleID=%s", zoneID, ruleID)

	return updated, nil
}

// DeleteRule deletes a redirect
func (u *redirectUsecase) DeleteRule(ctx context.Context, zoneID, ruleID string) error {
	u.log.Infof("[DeleteRedirect] zoneID=%s ruleID=%s", zoneID, ruleID)
	return u.redirectRepo.DeleteRule(ctx, zoneID, ruleID)
}

// buildRedirect validates the input and fills defaults. Status code defaults
// to a permanent redirect.
func buildRedirect(input CreateRedirectRuleInput) (*domain.RedirectRule, error) {
	source := strings.TrimSpace(input.SourceURL)
	target := strings.TrimSpace(input.TargetURL)
	if source == "" || target == "" {
		return nil, fmt.Errorf("%w: source and target are required", domain.ErrInvalidRedirect)
	}

	statusCode := input.StatusCode
	if statusCode == 0 {
		statusCode = 301
	}
	if !domain.IsValidRedirectStatus(statusCode) {
		return nil, fmt.Errorf("%w: invalid status code %d", domain.ErrInvalidRedirect, statusCode)
	}

	return &domain.RedirectRule{
		SourceURL:     source,
		TargetURL:     target,
		StatusCode:    statusCode,
		PreserveQuery: input.PreserveQuery,
		Active:        true,
	}, nil
}
