package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudflare/cloudflare-go"

	"cf-zone-bot/pkg/logging"
)

// forwardingURLAction is the page rule action that makes a rule a redirect
const forwardingURLAction = "forwarding_url"

// cloudflareClient implements the Client interface using cloudflare-go SDK
type cloudflareClient struct {
	api *cloudflare.API
	log *logging.Logger

	// account used for zone creation, resolved once and cached
	accountMu sync.Mutex
	accountID string
}

// NewClient creates a new Cloudflare client using API token
func NewClient(apiToken string, logger *logging.Logger, opts ...cloudflare.Option) (Client, error) {
	api, err := cloudflare.NewWithAPIToken(apiToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}

	return &cloudflareClient{
		api: api,
		log: logger,
	}, nil
}

// NewClientWithKey creates a new Cloudflare client using API key and email
func NewClientWithKey(apiKey, email string, logger *logging.Logger, opts ...cloudflare.Option) (Client, error) {
	api, err := cloudflare.New(apiKey, email, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudflare client: %w", err)
	}

	return &cloudflareClient{
		api: api,
		log: logger,
	}, nil
}

// isNotFound reports whether err is the API's not-found response
func isNotFound(err error) bool {
	var notFoundErr *cloudflare.NotFoundError
	return errors.As(err, &notFoundErr)
}

// ListZones returns all zones accessible by the client
func (c *cloudflareClient) ListZones(ctx context.Context) ([]Zone, error) {
	zones, err := c.api.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	result := make([]Zone, len(zones))
	for i, z := range zones {
		result[i] = Zone{
			ID:     z.ID,
			Name:   z.Name,
			Status: z.Status,
		}
	}

	return result, nil
}

// GetZoneByName returns a zone by its exact name. Absence is reported as
// ErrNotFound rather than an opaque lookup failure.
func (c *cloudflareClient) GetZoneByName(ctx context.Context, name string) (*Zone, error) {
	c.log.Debugf("[CloudflareClient] GetZoneByName START name=%s", name)
	zones, err := c.api.ListZones(ctx, name)
	if err != nil {
		c.log.Errorf("[CloudflareClient] GetZoneByName ERROR: %v", err)
		return nil, fmt.Errorf("failed to get zone by name %s: %w", name, err)
	}

	if len(zones) == 0 {
		c.log.Debugf("[CloudflareClient] GetZoneByName name=%s not found", name)
		return nil, fmt.Errorf("zone %s: %w", name, ErrNotFound)
	}
	c.log.Debugf("[CloudflareClient] GetZoneByName SUCCESS: zoneID=%s", zones[0].ID)

	return &Zone{
		ID:     zones[0].ID,
		Name:   zones[0].Name,
		Status: zones[0].Status,
	}, nil
}

// GetZone returns a zone by its ID
func (c *cloudflareClient) GetZone(ctx context.Context, zoneID string) (*Zone, error) {
	zone, err := c.api.ZoneDetails(ctx, zoneID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("zone %s: %w", zoneID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get zone %s: %w", zoneID, err)
	}

	return &Zone{
		ID:     zone.ID,
		Name:   zone.Name,
		Status: zone.Status,
	}, nil
}

// CreateZone registers a new zone under the client's account. The account is
// looked up on first use and cached for the lifetime of the client.
func (c *cloudflareClient) CreateZone(ctx context.Context, name string) (*Zone, error) {
	c.log.Debugf("[CloudflareClient] CreateZone START name=%s", name)
	accountID, err := c.resolveAccountID(ctx)
	if err != nil {
		c.log.Errorf("[CloudflareClient] CreateZone ERROR: %v", err)
		return nil, err
	}

	zone, err := c.api.CreateZone(ctx, name, false, cloudflare.Account{ID: accountID}, "full")
	if err != nil {
		c.log.Errorf("[CloudflareClient] CreateZone ERROR: %v", err)
		return nil, fmt.Errorf("failed to create zone %s: %w", name, err)
	}
	c.log.Debugf("[CloudflareClient] CreateZone SUCCESS: zoneID=%s", zone.ID)

	return &Zone{
		ID:     zone.ID,
		Name:   zone.Name,
		Status: zone.Status,
	}, nil
}

// DeleteZone removes a zone and everything in it
func (c *cloudflareClient) DeleteZone(ctx context.Context, zoneID string) error {
	_, err := c.api.DeleteZone(ctx, zoneID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("zone %s: %w", zoneID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete zone %s: %w", zoneID, err)
	}

	return nil
}

func (c *cloudflareClient) resolveAccountID(ctx context.Context) (string, error) {
	c.accountMu.Lock()
	defer c.accountMu.Unlock()

	if c.accountID != "" {
		return c.accountID, nil
	}

	accounts, _, err := c.api.Accounts(ctx, cloudflare.AccountsListParams{})
	if err != nil {
		return "", fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", fmt.Errorf("no account available for zone creation")
	}

	c.accountID = accounts[0].ID
	c.log.Debugf("[CloudflareClient] resolveAccountID cached accountID=%s", c.accountID)
	return c.accountID, nil
}

// GetZoneSetting reads a single zone setting and returns its value as a string
func (c *cloudflareClient) GetZoneSetting(ctx context.Context, zoneID, name string) (string, error) {
	setting, err := c.api.GetZoneSetting(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.GetZoneSettingParams{Name: name})
	if err != nil {
		if isNotFound(err) {
			return "", fmt.Errorf("zone setting %s: %w", name, ErrNotFound)
		}
		return "", fmt.Errorf("failed to get zone setting %s: %w", name, err)
	}

	return fmt.Sprintf("%v", setting.Value), nil
}

// SetZoneSetting updates a single zone setting
func (c *cloudflareClient) SetZoneSetting(ctx context.Context, zoneID, name, value string) error {
	c.log.Debugf("[CloudflareClient] SetZoneSetting zoneID=%s %s=%s", zoneID, name, value)
	_, err := c.api.UpdateZoneSetting(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.UpdateZoneSettingParams{
		Name:  name,
		Value: value,
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("zone setting %s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to update zone setting %s: %w", name, err)
	}

	return nil
}

// ListDNSRecords returns all DNS records for a zone
func (c *cloudflareClient) ListDNSRecords(ctx context.Context, zoneID string, filter DNSRecordFilter) ([]DNSRecord, error) {
	c.log.Debugf("[CloudflareClient] ListDNSRecords START zoneID=%s", zoneID)
	listParams := cloudflare.ListDNSRecordsParams{}

	if filter.Name != "" {
		listParams.Name = filter.Name
	}
	if filter.Type != "" {
		listParams.Type = filter.Type
	}

	records, _, err := c.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(zoneID), listParams)
	if err != nil {
		c.log.Errorf("[CloudflareClient] ListDNSRecords ERROR: %v", err)
		return nil, fmt.Errorf("failed to list dns records: %w", err)
	}
	c.log.Debugf("[CloudflareClient] ListDNSRecords SUCCESS: found %d records", len(records))

	result := make([]DNSRecord, len(records))
	for i, r := range records {
		result[i] = mapCloudflareRecord(r)
	}

	return result, nil
}

// GetDNSRecord returns a specific DNS record
func (c *cloudflareClient) GetDNSRecord(ctx context.Context, zoneID, recordID string) (*DNSRecord, error) {
	record, err := c.api.GetDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), recordID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("dns record %s: %w", recordID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get dns record %s: %w", recordID, err)
	}

	result := mapCloudflareRecord(record)
	return &result, nil
}

// CreateDNSRecord creates a new DNS record
func (c *cloudflareClient) CreateDNSRecord(ctx context.Context, zoneID string, input CreateDNSRecordInput) (*DNSRecord, error) {
	createParams := cloudflare.CreateDNSRecordParams{
		Name:    input.Name,
		Type:    input.Type,
		Content: input.Content,
		TTL:     input.TTL,
	}
	if input.Proxied {
		createParams.Proxied = &input.Proxied
	}

	if input.Priority != nil {
		createParams.Priority = input.Priority
	}

	record, err := c.api.CreateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), createParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create dns record: %w", err)
	}

	result := mapCloudflareRecord(record)
	return &result, nil
}

// UpdateDNSRecord updates an existing DNS record
func (c *cloudflareClient) UpdateDNSRecord(ctx context.Context, zoneID, recordID string, input UpdateDNSRecordInput) (*DNSRecord, error) {
	updateParams := cloudflare.UpdateDNSRecordParams{
		ID:      recordID,
		Name:    input.Name,
		Type:    input.Type,
		Content: input.Content,
		TTL:     input.TTL,
	}
	if input.Proxied {
		updateParams.Proxied = &input.Proxied
	}

	if input.Priority != nil {
		updateParams.Priority = input.Priority
	}

	record, err := c.api.UpdateDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), updateParams)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("dns record %s: %w", recordID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update dns record %s: %w", recordID, err)
	}

	result := mapCloudflareRecord(record)
	return &result, nil
}

// DeleteDNSRecord deletes a DNS record
func (c *cloudflareClient) DeleteDNSRecord(ctx context.Context, zoneID, recordID string) error {
	err := c.api.DeleteDNSRecord(ctx, cloudflare.ZoneIdentifier(zoneID), recordID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("dns record %s: %w", recordID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete dns record %s: %w", recordID, err)
	}

	return nil
}

// ListFirewallRules returns all firewall rules for a zone
func (c *cloudflareClient) ListFirewallRules(ctx context.Context, zoneID string) ([]FirewallRule, error) {
	c.log.Debugf("[CloudflareClient] ListFirewallRules START zoneID=%s", zoneID)
	rules, _, err := c.api.FirewallRules(ctx, cloudflare.ZoneIdentifier(zoneID), cloudflare.FirewallRuleListParams{})
	if err != nil {
		c.log.Errorf("[CloudflareClient] ListFirewallRules ERROR: %v", err)
		return nil, fmt.Errorf("failed to list firewall rules: %w", err)
	}
	c.log.Debugf("[CloudflareClient] ListFirewallRules SUCCESS: found %d rules", len(rules))

	result := make([]FirewallRule, len(rules))
	for i, r := range rules {
		result[i] = mapFirewallRule(r)
	}

	return result, nil
}

// GetFirewallRule returns a specific firewall rule
func (c *cloudflareClient) GetFirewallRule(ctx context.Context, zoneID, ruleID string) (*FirewallRule, error) {
	rule, err := c.api.FirewallRule(ctx, cloudflare.ZoneIdentifier(zoneID), ruleID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("firewall rule %s: %w", ruleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get firewall rule %s: %w", ruleID, err)
	}

	result := mapFirewallRule(rule)
	return &result, nil
}

// CreateFirewallRule creates a firewall rule along with its filter
func (c *cloudflareClient) CreateFirewallRule(ctx context.Context, zoneID string, input FirewallRuleInput) (*FirewallRule, error) {
	c.log.Debugf("[CloudflareClient] CreateFirewallRule START zoneID=%s mode=%s", zoneID, input.Mode)
	params := cloudflare.FirewallRuleCreateParams{
		Description: input.Name,
		Action:      input.Mode,
		Paused:      input.Paused,
		Filter: cloudflare.Filter{
			Expression: input.Expression,
		},
	}
	if input.Priority > 0 {
		params.Priority = input.Priority
	}

	rules, err := c.api.CreateFirewallRules(ctx, cloudflare.ZoneIdentifier(zoneID), []cloudflare.FirewallRuleCreateParams{params})
	if err != nil {
		c.log.Errorf("[CloudflareClient] CreateFirewallRule ERROR: %v", err)
		return nil, fmt.Errorf("failed to create firewall rule: %w", err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("firewall rule creation returned no rules")
	}
	c.log.Debugf("[CloudflareClient] CreateFirewallRule SUCCESS: ruleID=%s", rules[0].ID)

	result := mapFirewallRule(rules[0])
	return &result, nil
}

// UpdateFirewallRule replaces a firewall rule. The rule is fetched first
// because the update endpoint needs the existing filter's ID.
func (c *cloudflareClient) UpdateFirewallRule(ctx context.Context, zoneID, ruleID string, input FirewallRuleInput) (*FirewallRule, error) {
	existing, err := c.api.FirewallRule(ctx, cloudflare.ZoneIdentifier(zoneID), ruleID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("firewall rule %s: %w", ruleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get firewall rule %s: %w", ruleID, err)
	}

	params := cloudflare.FirewallRuleUpdateParams{
		ID:          ruleID,
		Description: input.Name,
		Action:      input.Mode,
		Paused:      input.Paused,
		Filter: cloudflare.Filter{
			ID:         existing.Filter.ID,
			Expression: input.Expression,
			Paused:     existing.Filter.Paused,
		},
	}
	if input.Priority > 0 {
		params.Priority = input.Priority
	}

	rule, err := c.api.UpdateFirewallRule(ctx, cloudflare.ZoneIdentifier(zoneID), params)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("firewall rule %s: %w", ruleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update firewall rule %s: %w", ruleID, err)
	}

	result := mapFirewallRule(rule)
	return &result, nil
}

// DeleteFirewallRule deletes a firewall rule
func (c *cloudflareClient) DeleteFirewallRule(ctx context.Context, zoneID, ruleID string) error {
	err := c.api.DeleteFirewallRule(ctx, cloudflare.ZoneIdentifier(zoneID), ruleID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("firewall rule %s: %w", ruleID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete firewall rule %s: %w", ruleID, err)
	}

	return nil
}

// ListRedirectRules returns the forwarding page rules of a zone. Page rules
// without a forwarding action are not redirects and are skipped.
func (c *cloudflareClient) ListRedirectRules(ctx context.Context, zoneID string) ([]RedirectRule, error) {
	c.log.Debugf("[CloudflareClient] ListRedirectRules START zoneID=%s", zoneID)
	rules, err := c.api.ListPageRules(ctx, zoneID)
	if err != nil {
		c.log.Errorf("[CloudflareClient] ListRedirectRules ERROR: %v", err)
		return nil, fmt.Errorf("failed to list page rules: %w", err)
	}

	result := make([]RedirectRule, 0, len(rules))
	for _, r := range rules {
		if redirect, ok := decodeRedirect(r); ok {
			result = append(result, redirect)
		}
	}
	c.log.Debugf("[CloudflareClient] ListRedirectRules SUCCESS: %d of %d page rules forward", len(result), len(rules))

	return result, nil
}

// GetRedirectRule returns a specific redirect. A page rule that exists but
// does not forward is reported as not found.
func (c *cloudflareClient) GetRedirectRule(ctx context.Context, zoneID, ruleID string) (*RedirectRule, error) {
	rule, err := c.api.PageRule(ctx, zoneID, ruleID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("redirect rule %s: %w", ruleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get page rule %s: %w", ruleID, err)
	}

	redirect, ok := decodeRedirect(rule)
	if !ok {
		return nil, fmt.Errorf("page rule %s does not forward: %w", ruleID, ErrNotFound)
	}

	return &redirect, nil
}

// CreateRedirectRule creates a forwarding page rule
func (c *cloudflareClient) CreateRedirectRule(ctx context.Context, zoneID string, input RedirectRuleInput) (*RedirectRule, error) {
	c.log.Debugf("[CloudflareClient] CreateRedirectRule START zoneID=%s source=%s", zoneID, input.SourceURL)
	created, err := c.api.CreatePageRule(ctx, zoneID, encodeRedirect(input))
	if err != nil {
		c.log.Errorf("[CloudflareClient] CreateRedirectRule ERROR: %v", err)
		return nil, fmt.Errorf("failed to create page rule: %w", err)
	}

	redirect, ok := decodeRedirect(*created)
	if !ok {
		return nil, fmt.Errorf("created page rule %s has no forwarding action", created.ID)
	}
	c.log.Debugf("[CloudflareClient] CreateRedirectRule SUCCESS: ruleID=%s", redirect.ID)

	return &redirect, nil
}

// UpdateRedirectRule replaces a redirect and returns its fresh state
func (c *cloudflareClient) UpdateRedirectRule(ctx context.Context, zoneID, ruleID string, input RedirectRuleInput) (*RedirectRule, error) {
	err := c.api.ChangePageRule(ctx, zoneID, ruleID, encodeRedirect(input))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("redirect rule %s: %w", ruleID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update page rule %s: %w", ruleID, err)
	}

	return c.GetRedirectRule(ctx, zoneID, ruleID)
}

// DeleteRedirectRule deletes a forwarding page rule
func (c *cloudflareClient) DeleteRedirectRule(ctx context.Context, zoneID, ruleID string) error {
	err := c.api.DeletePageRule(ctx, zoneID, ruleID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("redirect rule %s: %w", ruleID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete page rule %s: %w", ruleID, err)
	}

	return nil
}

// mapCloudflareRecord maps cloudflare-go DNSRecord to our DNSRecord
func mapCloudflareRecord(r cloudflare.DNSRecord) DNSRecord {
	proxied := false
	if r.Proxied != nil {
		proxied = *r.Proxied
	}
	return DNSRecord{
		ID:       r.ID,
		ZoneID:   r.ZoneID,
		ZoneName: r.ZoneName,
		Name:     r.Name,
		Type:     r.Type,
		Content:  r.Content,
		TTL:      r.TTL,
		Proxied:  proxied,
		Priority: r.Priority,
	}
}

// mapFirewallRule maps cloudflare-go FirewallRule to our FirewallRule
func mapFirewallRule(r cloudflare.FirewallRule) FirewallRule {
	return FirewallRule{
		ID:         r.ID,
		Name:       r.Description,
		Mode:       r.Action,
		Expression: r.Filter.Expression,
		Priority:   priorityToInt(r.Priority),
		Paused:     r.Paused,
	}
}

// priorityToInt normalizes the API's loosely typed priority field
func priorityToInt(v interface{}) int {
	switch p := v.(type) {
	case float64:
		return int(p)
	case int:
		return p
	}
	return 0
}

// encodeRedirect builds the page rule wire form of a redirect. PreserveQuery
// appends the match-all wildcard to the source and a $1 backreference to the
// target, which is how forwarding rules carry the original query string.
func encodeRedirect(input RedirectRuleInput) cloudflare.PageRule {
	source := input.SourceURL
	target := input.TargetURL
	if input.PreserveQuery {
		source += "*"
		target += "$1"
	}

	pageTarget := cloudflare.PageRuleTarget{Target: "url"}
	pageTarget.Constraint.Operator = "matches"
	pageTarget.Constraint.Value = source

	return cloudflare.PageRule{
		Targets: []cloudflare.PageRuleTarget{pageTarget},
		Actions: []cloudflare.PageRuleAction{
			{
				ID: forwardingURLAction,
				Value: map[string]interface{}{
					"url":         target,
					"status_code": input.StatusCode,
				},
			},
		},
		Status: "active",
	}
}

// decodeRedirect extracts the redirect view of a page rule. ok is false when
// the rule carries no forwarding action and should be skipped.
func decodeRedirect(rule cloudflare.PageRule) (RedirectRule, bool) {
	var value map[string]interface{}
	found := false
	for _, action := range rule.Actions {
		if action.ID != forwardingURLAction {
			continue
		}
		value, _ = action.Value.(map[string]interface{})
		found = true
		break
	}
	if !found {
		return RedirectRule{}, false
	}

	source := ""
	if len(rule.Targets) > 0 {
		source = rule.Targets[0].Constraint.Value
	}

	target := ""
	statusCode := 301
	if value != nil {
		if u, ok := value["url"].(string); ok {
			target = u
		}
		switch code := value["status_code"].(type) {
		case float64:
			statusCode = int(code)
		case int:
			statusCode = code
		}
	}

	preserve := strings.HasSuffix(source, "*") && strings.HasSuffix(target, "$1")
	if preserve {
		source = strings.TrimSuffix(source, "*")
		target = strings.TrimSuffix(target, "$1")
	}

	return RedirectRule{
		ID:            rule.ID,
		SourceURL:     source,
		TargetURL:     target,
		StatusCode:    statusCode,
		PreserveQuery: preserve,
		Active:        rule.Status == "active",
	}, true
}
