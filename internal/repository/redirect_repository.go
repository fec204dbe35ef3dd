package repository

import (
	"context"
	"errors"

	"cf-zone-bot/external_resource/cloudflare"
	"cf-zone-bot/internal/domain"
)

// redirectRepository implements RedirectRepository using Cloudflare client
type redirectRepository struct {
	client cloudflare.Client
}

// NewRedirectRepository creates a new redirect repository
func NewRedirectRepository(client cloudflare.Client) RedirectRepository {
	return &redirectRepository{
		client: client,
	}
}

// ListRules returns all redirects for a zone
func (r *redirectRepository) ListRules(ctx context.Context, zoneID string) ([]domain.RedirectRule, error) {
	rules, err := r.client.ListRedirectRules(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.RedirectRule, len(rules))
	for i, rule := range rules {
		result[i] = mapToDomainRedirect(rule)
	}

	return result, nil
}

// GetRule returns a specific redirect
func (r *redirectRepository) GetRule(ctx context.Context, zoneID, ruleID string) (*domain.RedirectRule, error) {
	rule, err := r.client.GetRedirectRule(ctx, zoneID, ruleID)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return nil, domain.ErrRedirectNotFound
		}
		return nil, err
	}

	result := mapToDomainRedirect(*rule)
	return &result, nil
}

// CreateRule creates a new redirect
func (r *redirectRepository) CreateRule(ctx context.Context, zoneID string, rule *domain.RedirectRule) (*domain.RedirectRule, error) {
	created, err := r.client.CreateRedirectRule(ctx, zoneID, mapToClientRedirectInput(rule))
	if err != nil {
		return nil, err
	}

	result := mapToDomainRedirect(*created)
	return &result, nil
}

// UpdateRule replaces an existing redirect
func (r *redirectRepository) UpdateRule(ctx context.Context, zoneID, ruleID string, rule *domain.RedirectRule) (*domain.RedirectRule, error) {
	updated, err := r.client.UpdateRedirectRule(ctx, zoneID, ruleID, mapToClientRedirectInput(rule))
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return nil, domain.ErrRedirectNotFound
		}
		return nil, err
	}

	result := mapToDomainRedirect(*updated)
	return &result, nil
}

// DeleteRule deletes a redirect
func (r *redirectRepository) DeleteRule(ctx context.Context, zoneID, ruleID string) error {
	err := r.client.DeleteRedirectRule(ctx, zoneID, ruleID)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return domain.ErrRedirectNotFound
		}
		return err
	}

	return nil
}

// mapToDomainRedirect maps external resource redirect to domain redirect
func mapToDomainRedirect(r cloudflare.RedirectRule) domain.RedirectRule {
	return domain.RedirectRule{
		ID:            r.ID,
		SourceURL:     r.SourceURL,
		TargetURL:     r.TargetURL,
		StatusCode:    r.StatusCode,
		PreserveQuery: r.PreserveQuery,
		Active:        r.Active,
	}
}

// mapToClientRedirectInput maps domain redirect to external resource input
func mapToClientRedirectInput(rule *domain.RedirectRule) cloudflare.RedirectRuleInput {
	return cloudflare.RedirectRuleInput{
		SourceURL:     rule.SourceURL,
		TargetURL:     rule.TargetURL,
		StatusCode:    rule.StatusCode,
		PreserveQuery: rule.PreserveQuery,
	}
}
