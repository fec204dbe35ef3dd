package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"cf-zone-bot/external_resource/cloudflare"
	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/repository"
	"cf-zone-bot/internal/usecase"
	"cf-zone-bot/pkg/config"
	"cf-zone-bot/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Enabled: cfg.LogEnabled,
		Level:   logging.ParseLevel(cfg.LogLevel),
		Path:    cfg.LogFile,
	})
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logger.Close()

	// Initialize Cloudflare client
	var cfClient cloudflare.Client
	if cfg.UseAPIToken() {
		cfClient, err = cloudflare.NewClient(cfg.CloudflareAPIToken, logger)
	} else {
		cfClient, err = cloudflare.NewClientWithKey(cfg.CloudflareAPIKey, cfg.CloudflareEmail, logger)
	}
	if err != nil {
		log.Fatalf("Failed to create Cloudflare client: %v", err)
	}

	// Initialize repositories and usecases
	zoneRepo := repository.NewZoneRepository(cfClient)
	dnsRepo := repository.NewDNSRepository(cfClient)
	firewallRepo := repository.NewFirewallRepository(cfClient)
	redirectRepo := repository.NewRedirectRepository(cfClient)

	zoneUsecase := usecase.NewZoneUsecase(zoneRepo, logger)
	dnsUsecase := usecase.NewDNSUsecase(zoneRepo, dnsRepo, logger)
	firewallUsecase := usecase.NewFirewallUsecase(firewallRepo, logger)
	redirectUsecase := usecase.NewRedirectUsecase(redirectRepo, logger)

	// Create MCP server with tool capabilities enabled
	s := server.NewMCPServer(
		"cf-zone",
		"1.0.0",
		server.WithLogging(),
		server.WithToolCapabilities(true),
	)

	// Register tool: list_domains
	listDomainsTool := mcp.NewTool("list_domains",
		"List all managed domains/zones",
		map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
	)
	s.AddTool(listDomainsTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()
		zones, err := zoneUsecase.ListDomains(ctx)
		if err != nil {
			return errorResult("Error: %v", err)
		}

		result := make([]map[string]string, len(zones))
		for i, z := range zones {
			result[i] = map[string]string{
				"id":     z.ID,
				"name":   z.Name,
				"status": z.Status,
			}
		}

		return jsonResult(result)
	})

	// Register tool: add_domain
	addDomainTool := mcp.NewTool("add_domain",
		"Add a domain/zone. Enables Always Use HTTPS and disables ECH on creation. Adding a domain that already exists returns it unchanged.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name (e.g., example.com)",
				},
			},
			"required": []string{"domain"},
		},
	)
	s.AddTool(addDomainTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		name, ok := arguments["domain"].(string)
		if !ok || name == "" {
			return errorResult("Error: domain is required")
		}

		zone, err := zoneUsecase.AddDomain(ctx, name)
		if err != nil {
			if errors.Is(err, domain.ErrZonePartiallyConfigured) && zone != nil {
				return textResult(fmt.Sprintf("Domain '%s' created (id %s), but the default settings could not be fully applied: %v", zone.Name, zone.ID, err))
			}
			return errorResult("Error: %v", err)
		}

		return jsonResult(map[string]interface{}{
			"id":               zone.ID,
			"name":             zone.Name,
			"status":           zone.Status,
			"always_use_https": zone.AlwaysUseHTTPS,
			"ech":              zone.ECH,
		})
	})

	// Register tool: delete_domain
	deleteDomainTool := mcp.NewTool("delete_domain",
		"Delete a domain/zone and everything in it. This cannot be undone.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name (e.g., example.com)",
				},
			},
			"required": []string{"domain"},
		},
	)
	s.AddTool(deleteDomainTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		zone, fail := resolveDomain(ctx, zoneUsecase, arguments)
		if fail != nil {
			return fail, nil
		}

		if err := zoneUsecase.DeleteDomain(ctx, zone.ID); err != nil {
			if errors.Is(err, domain.ErrZoneNotFound) {
				return textResult("Domain not found")
			}
			return errorResult("Error: %v", err)
		}

		return textResult(fmt.Sprintf("Domain '%s' deleted successfully", zone.Name))
	})

	// Register tool: list_records
	listRecordsTool := mcp.NewTool("list_records",
		"List all DNS records for a domain. IMPORTANT: Use params.arguments format. Example: {\"jsonrpc\":\"2.0\",\"id\":1,\"method\":\"tools/call\",\"params\":{\"name\":\"list_records\",\"arguments\":{\"domain\":\"example.com\"}}}",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name (e.g., example.com)",
				},
			},
			"required": []string{"domain"},
		},
	)
	s.AddTool(listRecordsTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		zone, fail := resolveDomain(ctx, zoneUsecase, arguments)
		if fail != nil {
			return fail, nil
		}

		records, err := dnsUsecase.ListRecords(ctx, zone.ID)
		if err != nil {
			return errorResult("Error: %v", err)
		}

		result := make([]map[string]interface{}, len(records))
		for i, r := range records {
			result[i] = recordToMap(&r)
		}

		return jsonResult(result)
	})

	// Register tool: upsert_record
	upsertRecordTool := mcp.NewTool("upsert_record",
		"Create or update a DNS record (creates if not exists, updates if exists)",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "The record name (e.g., www, api, or @ for root)",
				},
				"type": map[string]interface{}{
					"type":        "string",
					"description": "Record type: A, AAAA, CNAME, MX, TXT, NS, SRV",
				},
				"content": map[string]interface{}{
					"type":        "string",
					"description": "The record content (IP for A/AAAA, domain for CNAME, etc.)",
				},
				"ttl": map[string]interface{}{
					"type":        "number",
					"description": "TTL in seconds (default: automatic)",
				},
				"proxied": map[string]interface{}{
					"type":        "boolean",
					"description": "Enable proxying (default: false)",
				},
			},
			"required": []string{"domain", "name", "type", "content"},
		},
	)
	s.AddTool(upsertRecordTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		zone, fail := resolveDomain(ctx, zoneUsecase, arguments)
		if fail != nil {
			return fail, nil
		}

		input := usecase.CreateRecordInput{}
		if v, ok := arguments["name"].(string); ok {
			input.Name = v
		}
		if v, ok := arguments["type"].(string); ok {
			input.Type = v
		}
		if v, ok := arguments["content"].(string); ok {
			input.Content = v
		}
		if v, ok := arguments["ttl"].(float64); ok {
			input.TTL = int(v)
		}
		if v, ok := arguments["proxied"].(bool); ok {
			input.Proxied = v
		}

		record, err := dnsUsecase.UpsertRecord(ctx, zone.ID, input)
		if err != nil {
			return errorResult("Error: %v", err)
		}

		return jsonResult(recordToMap(record))
	})

	// Register tool: delete_record
	deleteRecordTool := mcp.NewTool("delete_record",
		"Delete a DNS record by its ID. Use list_records to find record IDs.",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name (e.g., example.com)",
				},
				"record_id": map[string]interface{}{
					"type":        "string",
					"description": "The record ID",
				},
			},
			"required": []string{"domain", "record_id"},
		},
	)
	s.AddTool(deleteRecordTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		zone, fail := resolveDomain(ctx, zoneUsecase, arguments)
		if fail != nil {
			return fail, nil
		}

		recordID, ok := arguments["record_id"].(string)
		if !ok || recordID == "" {
			return errorResult("Error: record_id is required")
		}

		if err := dnsUsecase.DeleteRecord(ctx, zone.ID, recordID); err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				return textResult("Record not found")
			}
			return errorResult("Error: %v", err)
		}

		return textResult(fmt.Sprintf("Record '%s' deleted successfully", recordID))
	})

	// Register tool: list_waf_rules
	listWAFRulesTool := mcp.NewTool("list_waf_rules",
		"List all WAF/firewall rules for a domain",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name (e.g., example.com)",
				},
			},
			"required": []string{"domain"},
		},
	)
	s.AddTool(listWAFRulesTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		zone, fail := resolveDomain(ctx, zoneUsecase, arguments)
		if fail != nil {
			return fail, nil
		}

		rules, err := firewallUsecase.ListRules(ctx, zone.ID)
		if err != nil {
			return errorResult("Error: %v", err)
		}

		result := make([]map[string]interface{}, len(rules))
		for i, r := range rules {
			result[i] = map[string]interface{}{
				"id":         r.ID,
				"name":       r.Name,
				"mode":       r.Mode,
				"expression": r.Expression,
				"priority":   r.Priority,
				"active":     r.Active,
			}
		}

		return jsonResult(result)
	})

	// Register tool: list_redirects
	listRedirectsTool := mcp.NewTool("list_redirects",
		"List all redirect rules for a domain",
		map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"domain": map[string]interface{}{
					"type":        "string",
					"description": "The domain name (e.g., example.com)",
				},
			},
			"required": []string{"domain"},
		},
	)
	s.AddTool(listRedirectsTool, func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx := context.Background()

		zone, fail := resolveDomain(ctx, zoneUsecase, arguments)
		if fail != nil {
			return fail, nil
		}

		rules, err := redirectUsecase.ListRules(ctx, zone.ID)
		if err != nil {
			return errorResult("Error: %v", err)
		}

		result := make([]map[string]interface{}, len(rules))
		for i, r := range rules {
			result[i] = map[string]interface{}{
				"id":             r.ID,
				"source_url":     r.SourceURL,
				"target_url":     r.TargetURL,
				"status_code":    r.StatusCode,
				"preserve_query": r.PreserveQuery,
				"active":         r.Active,
			}
		}

		return jsonResult(result)
	})

	// Start server (stdio only)
	log.Println("Starting MCP stdio server...")
	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// resolveDomain reads the domain argument and loads the zone behind it. A
// non-nil second return is the result to hand back immediately.
func resolveDomain(ctx context.Context, zones usecase.ZoneUsecase, arguments map[string]interface{}) (*domain.Zone, *mcp.CallToolResult) {
	name, ok := arguments["domain"].(string)
	if !ok || name == "" {
		result, _ := errorResult("Error: domain is required")
		return nil, result
	}

	zone, err := zones.GetDomainByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			result, _ := textResult(fmt.Sprintf("Domain '%s' is not managed. Use add_domain first.", name))
			return nil, result
		}
		result, _ := errorResult("Error: %v", err)
		return nil, result
	}

	return zone, nil
}

func recordToMap(r *domain.DNSRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":       r.ID,
		"name":     r.Name,
		"type":     r.Type,
		"content":  r.Content,
		"ttl":      r.TTL,
		"proxied":  r.Proxied,
		"priority": r.Priority,
	}
}

func errorResult(format string, args ...interface{}) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []interface{}{mcp.NewTextContent(fmt.Sprintf(format, args...))},
	}, nil
}

func textResult(text string) (*mcp.CallToolResult, error) {
	return &mcp.CallToolResult{
		Content: []interface{}{mcp.NewTextContent(text)},
	}, nil
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error: %v", err)
	}
	return textResult(string(jsonData))
}
