package repository

import (
	"context"
	"errors"

	"cf-zone-bot/external_resource/cloudflare"
	"cf-zone-bot/internal/domain"
)

// firewallRepository implements FirewallRepository using Cloudflare client
type firewallRepository struct {
	client cloudflare.Client
}

// NewFirewallRepository creates a new firewall repository
func NewFirewallRepository(client cloudflare.Client) FirewallRepository {
	return &firewallRepository{
		client: client,
	}
}

// ListRules returns all firewall rules for a zone
func (r *firewallRepository) ListRules(ctx context.Context, zoneID string) ([]domain.FirewallRule, error) {
	rules, err := r.client.ListFirewallRules(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.FirewallRule, len(rules))
	for i, rule := range rules {
		result[i] = mapToDomainFirewallRule(rule)
	}

	return result, nil
}

// GetRule returns a specific firewall rule
func (r *firewallRepository) GetRule(ctx context.Context, zoneID, ruleID string) (*domain.FirewallRule, error) {
	rule, err := r.client.GetFirewallRule(ctx, zoneID, ruleID)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	result := mapToDomainFirewallRule(*rule)
	return &result, nil
}

// CreateRule creates a new firewall rule
func (r *firewallRepository) CreateRule(ctx context.Context, zoneID string, rule *domain.FirewallRule) (*domain.FirewallRule, error) {
	created, err := r.client.CreateFirewallRule(ctx, zoneID, mapToClientFirewallInput(rule))
	if err != nil {
		return nil, err
	}

	result := mapToDomainFirewallRule(*created)
	return &result, nil
}

// UpdateRule replaces an existing firewall rule
func (r *firewallRepository) UpdateRule(ctx context.Context, zoneID, ruleID string, rule *domain.FirewallRule) (*domain.FirewallRule, error) {
	updated, err := r.client.UpdateFirewallRule(ctx, zoneID, ruleID, mapToClientFirewallInput(rule))
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	result := mapToDomainFirewallRule(*updated)
	return &result, nil
}

// DeleteRule deletes a firewall rule
func (r *firewallRepository) DeleteRule(ctx context.Context, zoneID, ruleID string) error {
	err := r.client.DeleteFirewallRule(ctx, zoneID, ruleID)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return domain.ErrRuleNotFound
		}
		return err
	}

	return nil
}

// mapToDomainFirewallRule maps external resource rule to domain rule
func mapToDomainFirewallRule(r cloudflare.FirewallRule) domain.FirewallRule {
	return domain.FirewallRule{
		ID:         r.ID,
		Name:       r.Name,
		Mode:       r.Mode,
		Expression: r.Expression,
		Priority:   r.Priority,
		Active:     !r.Paused,
	}
}

// mapToClientFirewallInput maps domain rule to external resource input
func mapToClientFirewallInput(rule *domain.FirewallRule) cloudflare.FirewallRuleInput {
	return cloudflare.FirewallRuleInput{
		Name:       rule.Name,
		Mode:       rule.Mode,
		Expression: rule.Expression,
		Priority:   rule.Priority,
		Paused:     !rule.Active,
	}
}
