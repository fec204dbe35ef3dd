package cloudflare

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the Cloudflare API reports that the requested
// resource does not exist. Callers branch on it with errors.Is.
var ErrNotFound = errors.New("resource not found")

// Client defines the interface for Cloudflare API operations
type Client interface {
	// Zone operations
	ListZones(ctx context.Context) ([]Zone, error)
	GetZoneByName(ctx context.Context, name string) (*Zone, error)
	GetZone(ctx context.Context, zoneID string) (*Zone, error)
	CreateZone(ctx context.Context, name string) (*Zone, error)
	DeleteZone(ctx context.Context, zoneID string) error

	// Zone setting operations
	GetZoneSetting(ctx context.Context, zoneID, name string) (string, error)
	SetZoneSetting(ctx context.Context, zoneID, name, value string) error

	// DNS Record operations
	ListDNSRecords(ctx context.Context, zoneID string, filter DNSRecordFilter) ([]DNSRecord, error)
	GetDNSRecord(ctx context.Context, zoneID, recordID string) (*DNSRecord, error)
	CreateDNSRecord(ctx context.Context, zoneID string, input CreateDNSRecordInput) (*DNSRecord, error)
	UpdateDNSRecord(ctx context.Context, zoneID, recordID string, input UpdateDNSRecordInput) (*DNSRecord, error)
	DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error

	// Firewall rule operations
	ListFirewallRules(ctx context.Context, zoneID string) ([]FirewallRule, error)
	GetFirewallRule(ctx context.Context, zoneID, ruleID string) (*FirewallRule, error)
	CreateFirewallRule(ctx context.Context, zoneID string, input FirewallRuleInput) (*FirewallRule, error)
	UpdateFirewallRule(ctx context.Context, zoneID, ruleID string, input FirewallRuleInput) (*FirewallRule, error)
	DeleteFirewallRule(ctx context.Context, zoneID, ruleID string) error

	// Redirect operations, backed by page rules with a forwarding action
	ListRedirectRules(ctx context.Context, zoneID string) ([]RedirectRule, error)
	GetRedirectRule(ctx context.Context, zoneID, ruleID string) (*RedirectRule, error)
	CreateRedirectRule(ctx context.Context, zoneID string, input RedirectRuleInput) (*RedirectRule, error)
	UpdateRedirectRule(ctx context.Context, zoneID, ruleID string, input RedirectRuleInput) (*RedirectRule, error)
	DeleteRedirectRule(ctx context.Context, zoneID, ruleID string) error
}

// Zone represents a Cloudflare zone (domain)
type Zone struct {
	ID     string
	Name   string
	Status string
}

// DNSRecord represents a DNS record from Cloudflare
type DNSRecord struct {
	ID       string
	ZoneID   string
	ZoneName string
	Name     string
	Type     string
	Content  string
	TTL      int
	Proxied  bool
	Priority *uint16
}

// DNSRecordFilter represents filters for listing DNS records
type DNSRecordFilter struct {
	Name string
	Type string
}

// CreateDNSRecordInput represents input for creating a DNS record
type CreateDNSRecordInput struct {
	Name     string
	Type     string
	Content  string
	TTL      int
	Proxied  bool
	Priority *uint16
}

// UpdateDNSRecordInput represents input for updating a DNS record
type UpdateDNSRecordInput struct {
	Name     string
	Type     string
	Content  string
	TTL      int
	Proxied  bool
	Priority *uint16
}

// FirewallRule represents a Cloudflare firewall rule together with the
// expression of its filter
type FirewallRule struct {
	ID         string
	Name       string
	Mode       string
	Expression string
	Priority   int
	Paused     bool
}

// FirewallRuleInput represents input for creating or updating a firewall rule
type FirewallRuleInput struct {
	Name       string
	Mode       string
	Expression string
	Priority   int
	Paused     bool
}

// RedirectRule represents a URL forwarding page rule in decoded form. The
// preserve-query wildcard convention is stripped from SourceURL and TargetURL.
type RedirectRule struct {
	ID            string
	SourceURL     string
	TargetURL     string
	StatusCode    int
	PreserveQuery bool
	Active        bool
}

// RedirectRuleInput represents input for creating or updating a redirect
type RedirectRuleInput struct {
	SourceURL     string
	TargetURL     string
	StatusCode    int
	PreserveQuery bool
}
