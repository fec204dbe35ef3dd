package repository

import (
	"context"

	"cf-zone-bot/internal/domain"
)

// ZoneRepository defines the interface for zone operations
type ZoneRepository interface {
	// ListZones returns all accessible zones
	ListZones(ctx context.Context) ([]domain.Zone, error)

	// GetZoneByName returns a zone by its exact name
	GetZoneByName(ctx context.Context, name string) (*domain.Zone, error)

	// GetZone returns a zone by its ID
	GetZone(ctx context.Context, zoneID string) (*domain.Zone, error)

	// CreateZone registers a new zone
	CreateZone(ctx context.Context, name string) (*domain.Zone, error)

	// DeleteZone removes a zone and everything in it
	DeleteZone(ctx context.Context, zoneID string) error

	// GetSetting reads a single zone setting value
	GetSetting(ctx context.Context, zoneID, name string) (string, error)

	// SetSetting writes a single zone setting value
	SetSetting(ctx context.Context, zoneID, name, value string) error
}

// DNSRepository defines the interface for DNS record operations
type DNSRepository interface {
	// ListRecords returns all DNS records for a zone with optional filters
	ListRecords(ctx context.Context, zoneID string, filter domain.RecordFilter) ([]domain.DNSRecord, error)

	// GetRecord returns a specific DNS record by ID
	GetRecord(ctx context.Context, zoneID, recordID string) (*domain.DNSRecord, error)

	// CreateRecord creates a new DNS record
	CreateRecord(ctx context.Context, zoneID string, record *domain.DNSRecord) (*domain.DNSRecord, error)

	// UpdateRecord updates an existing DNS record
	UpdateRecord(ctx context.Context, zoneID, recordID string, record *domain.DNSRecord) (*domain.DNSRecord, error)

	// DeleteRecord deletes a DNS record
	DeleteRecord(ctx context.Context, zoneID, recordID string) error

	// FindByName finds a DNS record by name and optional type within a zone
	FindByName(ctx context.Context, zoneID, name, recordType string) (*domain.DNSRecord, error)
}

// FirewallRepository defines the interface for WAF rule operations
type FirewallRepository interface {
	// ListRules returns all firewall rules for a zone
	ListRules(ctx context.Context, zoneID string) ([]domain.FirewallRule, error)

	// GetRule returns a specific firewall rule by ID
	GetRule(ctx context.Context, zoneID, ruleID string) (*domain.FirewallRule, error)

	// CreateRule creates a new firewall rule
	CreateRule(ctx context.Context, zoneID string, rule *domain.FirewallRule) (*domain.FirewallRule, error)

	// UpdateRule replaces an existing firewall rule
	UpdateRule(ctx context.Context, zoneID, ruleID string, rule *domain.FirewallRule) (*domain.FirewallRule, error)

	// DeleteRule deletes a firewall rule
	DeleteRule(ctx context.Context, zoneID, ruleID string) error
}

// RedirectRepository defines the interface for redirect rule operations
type RedirectRepository interface {
	// ListRules returns all redirects for a zone
	ListRules(ctx context.Context, zoneID string) ([]domain.RedirectRule, error)

	// GetRule returns a specific redirect by ID
	GetRule(ctx context.Context, zoneID, ruleID string) (*domain.RedirectRule, error)

	// CreateRule creates a new redirect
	CreateRule(ctx context.Context, zoneID string, rule *domain.RedirectRule) (*domain.RedirectRule, error)

	// UpdateRule replaces an existing redirect
	UpdateRule(ctx context.Context, zoneID, ruleID string, rule *domain.RedirectRule) (*domain.RedirectRule, error)

	// DeleteRule deletes a redirect
	DeleteRule(ctx context.Context, zoneID, ruleID string) error
}
