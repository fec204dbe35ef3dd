package usecase

import (
	"context"
	"fmt"
	"strings"

	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/repository"
	"cf-zone-bot/pkg/logging"
)

// firewallUsecase implements FirewallUsecase interface
type firewallUsecase struct {
	firewallRepo repository.FirewallRepository
	log          *logging.Logger
}

// NewFirewallUsecase creates a new firewall usecase
func NewFirewallUsecase(firewallRepo repository.FirewallRepository, logger *logging.Logger) FirewallUsecase {
	return &firewallUsecase{
		firewallRepo: firewallRepo,
		log:          logger,
	}
}

// ListRules returns all firewall rules for a zone
func (u *firewallUsecase) ListRules(ctx context.Context, zoneID string) ([]domain.FirewallRule, error) {
	rules, err := u.firewallRepo.ListRules(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to list firewall rules: %w", err)
	}

	return rules, nil
}

// GetRule returns a specific firewall rule by ID
func (u *firewallUsecase) GetRule(ctx context.Context, zoneID, ruleID string) (*domain.FirewallRule, error) {
	return u.firewallRepo.GetRule(ctx, zoneID, ruleID)
}

// CreateRule creates a new firewall rule
func (u *firewallUsecase) CreateRule(ctx context.Context, zoneID string, input CreateFirewallRuleInput) (*domain.FirewallRule, error) {
	// Validate mode
	if !domain.IsValidFirewallMode(input.Mode) {
		return nil, fmt.Errorf("%w: invalid mode %s", domain.ErrInvalidRule, input.Mode)
	}

	// Validate expression
	expression := strings.TrimSpace(input.Expression)
	if expression == "" {
		return nil, fmt.Errorf("%w: expression is empty", domain.ErrInvalidRule)
	}

	rule := &domain.FirewallRule{
		Name:       input.Name,
		Mode:       input.Mode,
		Expression: expression,
		Priority:   input.Priority,
		Active:     true,
	}

	created, err := u.firewallRepo.CreateRule(ctx, zoneID, rule)
	if err != nil {
		return nil, fmt.Errorf("failed to create firewall rule: %w", err)
	}
	u.log.Infof("[CreateFirewallRule] zoneID=%s ruleID=%s mode=%s", zoneID, created.ID, created.Mode)

	return created, nil
}

// UpdateRuleMode changes the action of an existing rule. Everything else,
// including the filter expression, carries over from the current rule.
func (u *firewallUsecase) UpdateRuleMode(ctx context.Context, zoneID, ruleID, mode string) (*domain.FirewallRule, error) {
	// Validate mode
	if !domain.IsValidFirewallMode(mode) {
		return nil, fmt.Errorf("%w: invalid mode %s", domain.ErrInvalidRule, mode)
	}

	existing, err := u.firewallRepo.GetRule(ctx, zoneID, ruleID)
	if err != nil {
		return nil, err
	}

	existing.Mode = mode
	updated, err := u.firewallRepo.UpdateRule(ctx, zoneID, ruleID, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update firewall rule: %w", err)
	}
	u.log.Infof("[UpdateFirewallRule] zoneID=%s ruleID=%s mode=%s", zoneID, ruleID, mode)

	return updated, nil
}

// DeleteRule deletes a firewall rule
func (u *firewallUsecase) DeleteRule(ctx context.Context, zoneID, ruleID string) error {
	u.log.Infof("[DeleteFirewallRule] zoneID=%s ruleID=%s", zoneID, ruleID)
	return u.firewallRepo.DeleteRule(ctx, zoneID, ruleID)
}
