package usecase

import (
	"context"

	"cf-zone-bot/internal/domain"
)

// ZoneUsecase defines the interface for domain lifecycle use cases.
// This interface is handler-agnostic and can be used by Telegram bot, MCP server, or any other handler
type ZoneUsecase interface {
	// ListDomains returns all accessible domains
	ListDomains(ctx context.Context) ([]domain.Zone, error)

	// GetDomain returns a domain by ID without its settings
	GetDomain(ctx context.Context, zoneID string) (*domain.Zone, error)

	// GetDomainByName returns a domain by its exact name without its settings
	GetDomainByName(ctx context.Context, name string) (*domain.Zone, error)

	// GetDomainDetail returns a domain by ID with its settings resolved
	GetDomainDetail(ctx context.Context, zoneID string) (*domain.Zone, error)

	// AddDomain registers a domain and applies the default settings.
	// Adding a name that already exists returns the existing domain untouched.
	AddDomain(ctx context.Context, name string) (*domain.Zone, error)

	// DeleteDomain removes a domain and everything in it
	DeleteDomain(ctx context.Context, zoneID string) error

	// ToggleAlwaysUseHTTPS flips the always-use-https setting and returns the fresh state
	ToggleAlwaysUseHTTPS(ctx context.Context, zoneID string) (*domain.Zone, error)

	// ToggleECH flips the ech setting and returns the fresh state
	ToggleECH(ctx context.Context, zoneID string) (*domain.Zone, error)

	// SearchDomains finds domains by exact name first, then by substring
	SearchDomains(ctx context.Context, query string) ([]domain.Zone, error)
}

// DNSUsecase defines the interface for DNS record management use cases
type DNSUsecase interface {
	// ListRecords returns all DNS records for a zone
	ListRecords(ctx context.Context, zoneID string) ([]domain.DNSRecord, error)

	// GetRecord returns a specific DNS record by ID
	GetRecord(ctx context.Context, zoneID, recordID string) (*domain.DNSRecord, error)

	// CreateRecord creates a new DNS record
	CreateRecord(ctx context.Context, zoneID string, input CreateRecordInput) (*domain.DNSRecord, error)

	// UpdateRecord updates the content, TTL or proxy flag of a record
	UpdateRecord(ctx context.Context, zoneID, recordID string, input UpdateRecordInput) (*domain.DNSRecord, error)

	// UpsertRecord creates the record or updates it when name and type already exist
	UpsertRecord(ctx context.Context, zoneID string, input CreateRecordInput) (*domain.DNSRecord, error)

	// DeleteRecord deletes a DNS record
	DeleteRecord(ctx context.Context, zoneID, recordID string) error
}

// FirewallUsecase defines the interface for WAF rule management use cases
type FirewallUsecase interface {
	// ListRules returns all firewall rules for a zone
	ListRules(ctx context.Context, zoneID string) ([]domain.FirewallRule, error)

	// GetRule returns a specific firewall rule by ID
	GetRule(ctx context.Context, zoneID, ruleID string) (*domain.FirewallRule, error)

	// CreateRule creates a new firewall rule
	CreateRule(ctx context.Context, zoneID string, input CreateFirewallRuleInput) (*domain.FirewallRule, error)

	// UpdateRuleMode changes the action of an existing rule, keeping its filter
	UpdateRuleMode(ctx context.Context, zoneID, ruleID, mode string) (*domain.FirewallRule, error)

	// DeleteRule deletes a firewall rule
	DeleteRule(ctx context.Context, zoneID, ruleID string) error
}

// RedirectUsecase defines the interface for redirect management use cases
type RedirectUsecase interface {
	// ListRules returns all redirects for a zone
	ListRules(ctx context.Context, zoneID string) ([]domain.RedirectRule, error)

	// GetRule returns a specific redirect by ID
	GetRule(ctx context.Context, zoneID, ruleID string) (*domain.RedirectRule, error)

	// CreateRule creates a new redirect
	CreateRule(ctx context.Context, zoneID string, input CreateRedirectRuleInput) (*domain.RedirectRule, error)

	// UpdateRule replaces an existing redirect
	UpdateRule(ctx context.Context, zoneID, ruleID string, input CreateRedirectRuleInput) (*domain.RedirectRule, error)

	// DeleteRule deletes a redirect
	DeleteRule(ctx context.Context, zoneID, ruleID string) error
}

// CreateRecordInput represents input for creating a DNS record
type CreateRecordInput struct {
	Name     string
	Type     string
	Content  string
	TTL      int
	Proxied  bool
	Priority *uint16
}

// UpdateRecordInput represents input for updating a DNS record. Zero TTL and
// nil Proxied keep the existing values.
type UpdateRecordInput struct {
	Content string
	TTL     int
	Proxied *bool
}

// CreateFirewallRuleInput represents input for creating a firewall rule
type CreateFirewallRuleInput struct {
	Name       string
	Mode       string
	Expression string
	Priority   int
}

// CreateRedirectRuleInput represents input for creating or replacing a redirect
type CreateRedirectRuleInput struct {
	SourceURL     string
	TargetURL     string
	StatusCode    int
	PreserveQuery bool
}
