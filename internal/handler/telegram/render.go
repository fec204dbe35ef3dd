package telegram

import (
	"fmt"
	"strings"

	"cf-zone-bot/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// callbackDataLimit is the Telegram cap on callback payload bytes
const callbackDataLimit = 64

// renderHelp builds the start/help screen
func renderHelp() (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*🌐 Zone Bot*\n\n")
	text.WriteString("Manage your domains, DNS, WAF and redirects from chat.\n\n")
	text.WriteString("*Commands:*\n")
	text.WriteString("/domains - List managed domains\n")
	text.WriteString("/add `<domain>` - Add a domain\n")
	text.WriteString("/dns `<domain>` - DNS records\n")
	text.WriteString("/waf `<domain>` - WAF rules\n")
	text.WriteString("/redirects `<domain>` - Redirect rules\n")
	text.WriteString("/help - This message\n\n")
	text.WriteString("Typing a domain name searches for it.")

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 My Domains", "page_0"),
		),
	)

	return text.String(), keyboard
}

// renderDomainList builds one page of the domain list
func renderDomainList(zones []domain.Zone, p page) (string, tgbotapi.InlineKeyboardMarkup) {
	if p.total == 0 {
		text := "📭 No domains yet.\n\nAdd one with /add `<domain>`."
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", "page_0"),
			),
		)
		return text, keyboard
	}

	var text strings.Builder
	text.WriteString("*📋 Your Domains*\n")
	text.WriteString(fmt.Sprintf("Page %d/%d (%d domains)\n\n", p.index+1, p.totalPages, p.total))
	text.WriteString("Click a domain to manage it:")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, zone := range zones[p.start:p.end] {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", statusDot(zone.Status), zone.Name),
				fmt.Sprintf("domain_%s", zone.ID),
			),
		))
	}
	rows = append(rows, paginationRow("page", p))

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderDomainDetail builds the settings screen of one domain
func renderDomainDetail(zone *domain.Zone) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("*🌐 %s*\n\n", zone.Name))
	text.WriteString(fmt.Sprintf("*Status:* `%s`\n", zone.Status))
	text.WriteString(fmt.Sprintf("*Force HTTPS:* %s\n", onOffIcon(zone.AlwaysUseHTTPS)))
	text.WriteString(fmt.Sprintf("*ECH:* %s\n", onOffIcon(zone.ECH)))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔒 Force HTTPS: %s", onOff(zone.AlwaysUseHTTPS)), fmt.Sprintf("https_%s", zone.ID)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🔐 ECH: %s", onOff(zone.ECH)), fmt.Sprintf("ech_%s", zone.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌐 DNS Records", fmt.Sprintf("dns_%s_0", zone.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🛡 WAF Rules", fmt.Sprintf("waf_%s_0", zone.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("↪️ Redirects", fmt.Sprintf("redirect_%s_0", zone.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete Domain", fmt.Sprintf("delete_%s", zone.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", "page_0"),
		),
	)

	return text.String(), keyboard
}

// renderDomainAdded builds the screen shown after /add. The same four-button
// grid is shown whether the domain was created now or already existed.
func renderDomainAdded(zone *domain.Zone, partial bool) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	if partial {
		text.WriteString("⚠️ *Domain Added With Warnings*\n\n")
		text.WriteString(fmt.Sprintf("`%s` was created, but the default settings could not be fully applied. ", zone.Name))
		text.WriteString("Check them on the settings screen.\n")
	} else {
		text.WriteString("✅ *Domain Added*\n\n")
		text.WriteString(fmt.Sprintf("*Name:* `%s`\n", zone.Name))
		text.WriteString(fmt.Sprintf("*Status:* `%s`\n", zone.Status))
		text.WriteString(fmt.Sprintf("*Force HTTPS:* %s\n", onOffIcon(zone.AlwaysUseHTTPS)))
		text.WriteString(fmt.Sprintf("*ECH:* %s\n", onOffIcon(zone.ECH)))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ Domain Settings", fmt.Sprintf("domain_%s", zone.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🌐 DNS Records", fmt.Sprintf("dns_%s_0", zone.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🛡 WAF Rules", fmt.Sprintf("waf_%s_0", zone.ID)),
			tgbotapi.NewInlineKeyboardButtonData("↪️ Redirects", fmt.Sprintf("redirect_%s_0", zone.ID)),
		),
	)

	return text.String(), keyboard
}

// renderDeleteConfirm builds the destructive-action confirmation screen
func renderDeleteConfirm(zone *domain.Zone) (string, tgbotapi.InlineKeyboardMarkup) {
	text := fmt.Sprintf(
		"*🗑 Delete Domain*\n\nAre you sure you want to delete `%s`?\nAll DNS records, WAF rules and redirects go with it.\n\n⚠️ This action cannot be undone!",
		zone.Name,
	)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, Delete", fmt.Sprintf("confirm_delete_%s", zone.ID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", fmt.Sprintf("domain_%s", zone.ID)),
		),
	)

	return text, keyboard
}

// renderDomainDeleted builds the screen confirming a finished deletion
func renderDomainDeleted(name string) (string, tgbotapi.InlineKeyboardMarkup) {
	text := fmt.Sprintf("✅ Domain `%s` deleted.", name)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 My Domains", "page_0"),
		),
	)
	return text, keyboard
}

// renderDNSList builds one page of a zone's DNS records
func renderDNSList(zone *domain.Zone, records []domain.DNSRecord, p page) (string, tgbotapi.InlineKeyboardMarkup) {
	var rows [][]tgbotapi.InlineKeyboardButton
	var text strings.Builder

	if p.total == 0 {
		text.WriteString(fmt.Sprintf("📭 No DNS records in `%s`.", zone.Name))
	} else {
		text.WriteString(fmt.Sprintf("*🌐 DNS Records in %s*\n", zone.Name))
		text.WriteString(fmt.Sprintf("Page %d/%d (%d records)\n\n", p.index+1, p.totalPages, p.total))
		text.WriteString("Click a record to view details:")

		for i := p.start; i < p.end; i++ {
			r := records[i]
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("📄 %s (%s)", r.Name, r.Type),
					fmt.Sprintf("edit_dns_%s_%d", zone.ID, i),
				),
			))
		}
		rows = append(rows, paginationRow(fmt.Sprintf("dns_%s", zone.ID), p))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add Record", fmt.Sprintf("add_dns_%s", zone.ID)),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Back", fmt.Sprintf("domain_%s", zone.ID)),
	))

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderDNSDetail builds the detail screen of one DNS record. The record ID
// shown in the text is what the edit and delete commands take.
func renderDNSDetail(zone *domain.Zone, record *domain.DNSRecord, backPage int) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*📋 DNS Record*\n\n")
	text.WriteString(fmt.Sprintf("*Zone:* `%s`\n", zone.Name))
	text.WriteString(fmt.Sprintf("*Name:* `%s`\n", record.Name))
	text.WriteString(fmt.Sprintf("*Type:* `%s`\n", record.Type))
	text.WriteString(fmt.Sprintf("*Content:* `%s`\n", record.Content))
	text.WriteString(fmt.Sprintf("*TTL:* `%d`\n", record.TTL))
	text.WriteString(fmt.Sprintf("*Proxied:* %s\n", yesNoIcon(record.Proxied)))
	if record.Priority != nil {
		text.WriteString(fmt.Sprintf("*Priority:* `%d`\n", *record.Priority))
	}
	text.WriteString(fmt.Sprintf("*ID:* `%s`\n\n", record.ID))
	text.WriteString("To change or remove it:\n")
	text.WriteString(fmt.Sprintf("`/editdns %s %s <content> [ttl] [proxied]`\n", zone.Name, record.ID))
	text.WriteString(fmt.Sprintf("`/deldns %s %s`", zone.Name, record.ID))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", fmt.Sprintf("dns_%s_%d", zone.ID, backPage)),
		),
	)

	return text.String(), keyboard
}

// renderAddDNSHelp builds the command template screen for adding a record
func renderAddDNSHelp(zone *domain.Zone) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*➕ Add DNS Record*\n\n")
	text.WriteString("Send the command:\n")
	text.WriteString(fmt.Sprintf("`/adddns %s <type> <name> <content> [ttl] [proxied]`\n\n", zone.Name))
	text.WriteString(fmt.Sprintf("Types: %s\n", strings.Join(domain.RecordTypes, ", ")))
	text.WriteString("Example:\n")
	text.WriteString(fmt.Sprintf("`/adddns %s A www 203.0.113.10 300 true`", zone.Name))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", fmt.Sprintf("dns_%s_0", zone.ID)),
		),
	)

	return text.String(), keyboard
}

// renderWAFList builds one page of a zone's firewall rules
func renderWAFList(zone *domain.Zone, rules []domain.FirewallRule, p page) (string, tgbotapi.InlineKeyboardMarkup) {
	var rows [][]tgbotapi.InlineKeyboardButton
	var text strings.Builder

	if p.total == 0 {
		text.WriteString(fmt.Sprintf("📭 No WAF rules in `%s`.", zone.Name))
	} else {
		text.WriteString(fmt.Sprintf("*🛡 WAF Rules in %s*\n", zone.Name))
		text.WriteString(fmt.Sprintf("Page %d/%d (%d rules)\n\n", p.index+1, p.totalPages, p.total))
		text.WriteString("Click a rule to view details:")

		for i := p.start; i < p.end; i++ {
			r := rules[i]
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("🛡 %s (%s)", firewallRuleLabel(&r), r.Mode),
					fmt.Sprintf("edit_waf_%s_%d", zone.ID, i),
				),
			))
		}
		rows = append(rows, paginationRow(fmt.Sprintf("waf_%s", zone.ID), p))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add Rule", fmt.Sprintf("add_waf_%s", zone.ID)),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Back", fmt.Sprintf("domain_%s", zone.ID)),
	))

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderWAFDetail builds the detail screen of one firewall rule
func renderWAFDetail(zone *domain.Zone, rule *domain.FirewallRule, backPage int) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*🛡 WAF Rule*\n\n")
	text.WriteString(fmt.Sprintf("*Zone:* `%s`\n", zone.Name))
	text.WriteString(fmt.Sprintf("*Name:* `%s`\n", firewallRuleLabel(rule)))
	text.WriteString(fmt.Sprintf("*Mode:* `%s`\n", rule.Mode))
	text.WriteString(fmt.Sprintf("*Expression:* `%s`\n", rule.Expression))
	if rule.Priority > 0 {
		text.WriteString(fmt.Sprintf("*Priority:* `%d`\n", rule.Priority))
	}
	text.WriteString(fmt.Sprintf("*Active:* %s\n", yesNoIcon(rule.Active)))
	text.WriteString(fmt.Sprintf("*ID:* `%s`\n\n", rule.ID))
	text.WriteString("To change or remove it:\n")
	text.WriteString(fmt.Sprintf("`/editwaf %s %s <mode>`\n", zone.Name, rule.ID))
	text.WriteString(fmt.Sprintf("`/delwaf %s %s`\n", zone.Name, rule.ID))
	text.WriteString(fmt.Sprintf("Modes: %s", strings.Join(domain.FirewallModes, ", ")))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", fmt.Sprintf("waf_%s_%d", zone.ID, backPage)),
		),
	)

	return text.String(), keyboard
}

// renderAddWAFHelp builds the command template screen for adding a WAF rule
func renderAddWAFHelp(zone *domain.Zone) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*➕ Add WAF Rule*\n\n")
	text.WriteString("Send the command:\n")
	text.WriteString(fmt.Sprintf("`/addwaf %s <mode> <name> | <expression>`\n\n", zone.Name))
	text.WriteString(fmt.Sprintf("Modes: %s\n", strings.Join(domain.FirewallModes, ", ")))
	text.WriteString("Example:\n")
	text.WriteString(fmt.Sprintf("`/addwaf %s block Bad bots | http.user_agent contains \"badbot\"`", zone.Name))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", fmt.Sprintf("waf_%s_0", zone.ID)),
		),
	)

	return text.String(), keyboard
}

// renderRedirectList builds one page of a zone's redirects
func renderRedirectList(zone *domain.Zone, rules []domain.RedirectRule, p page) (string, tgbotapi.InlineKeyboardMarkup) {
	var rows [][]tgbotapi.InlineKeyboardButton
	var text strings.Builder

	if p.total == 0 {
		text.WriteString(fmt.Sprintf("📭 No redirects in `%s`.", zone.Name))
	} else {
		text.WriteString(fmt.Sprintf("*↪️ Redirects in %s*\n", zone.Name))
		text.WriteString(fmt.Sprintf("Page %d/%d (%d redirects)\n\n", p.index+1, p.totalPages, p.total))
		text.WriteString("Click a redirect to view details:")

		for i := p.start; i < p.end; i++ {
			r := rules[i]
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("↪️ %s", r.SourceURL),
					fmt.Sprintf("edit_redirect_%s_%d", zone.ID, i),
				),
			))
		}
		rows = append(rows, paginationRow(fmt.Sprintf("redirect_%s", zone.ID), p))
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Add Redirect", fmt.Sprintf("add_redirect_%s", zone.ID)),
		tgbotapi.NewInlineKeyboardButtonData("◀️ Back", fmt.Sprintf("domain_%s", zone.ID)),
	))

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderRedirectDetail builds the detail screen of one redirect
func renderRedirectDetail(zone *domain.Zone, rule *domain.RedirectRule, backPage int) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*↪️ Redirect*\n\n")
	text.WriteString(fmt.Sprintf("*Zone:* `%s`\n", zone.Name))
	text.WriteString(fmt.Sprintf("*Source:* `%s`\n", rule.SourceURL))
	text.WriteString(fmt.Sprintf("*Target:* `%s`\n", rule.TargetURL))
	text.WriteString(fmt.Sprintf("*Status Code:* `%d`\n", rule.StatusCode))
	text.WriteString(fmt.Sprintf("*Preserve Query:* %s\n", yesNoIcon(rule.PreserveQuery)))
	text.WriteString(fmt.Sprintf("*Active:* %s\n", yesNoIcon(rule.Active)))
	text.WriteString(fmt.Sprintf("*ID:* `%s`\n\n", rule.ID))
	text.WriteString("To change or remove it:\n")
	text.WriteString(fmt.Sprintf("`/editredirect %s %s <source> <target> [code] [keepquery]`\n", zone.Name, rule.ID))
	text.WriteString(fmt.Sprintf("`/delredirect %s %s`", zone.Name, rule.ID))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", fmt.Sprintf("redirect_%s_%d", zone.ID, backPage)),
		),
	)

	return text.String(), keyboard
}

// renderAddRedirectHelp builds the command template screen for adding a redirect
func renderAddRedirectHelp(zone *domain.Zone) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString("*➕ Add Redirect*\n\n")
	text.WriteString("Send the command:\n")
	text.WriteString(fmt.Sprintf("`/addredirect %s <source> <target> [code] [keepquery]`\n\n", zone.Name))
	text.WriteString("Codes: 301, 302, 307, 308 (default 301)\n")
	text.WriteString("Example:\n")
	text.WriteString(fmt.Sprintf("`/addredirect %s https://old.%s/ https://new.%s/ 301 true`", zone.Name, zone.Name, zone.Name))

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ Back", fmt.Sprintf("redirect_%s_0", zone.ID)),
		),
	)

	return text.String(), keyboard
}

// renderSearchResults builds the screen for a substring search with matches
func renderSearchResults(query string, zones []domain.Zone) (string, tgbotapi.InlineKeyboardMarkup) {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("*🔍 Search: %s*\n\n", query))
	text.WriteString(fmt.Sprintf("%d matching domains:", len(zones)))

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, zone := range zones {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", statusDot(zone.Status), zone.Name),
				fmt.Sprintf("domain_%s", zone.ID),
			),
		))
	}

	return text.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// renderAddOffer builds the screen offering to add an unmanaged domain. The
// keyboard is nil when the name does not fit in a callback payload; the text
// falls back to the command in that case.
func renderAddOffer(name string) (string, *tgbotapi.InlineKeyboardMarkup) {
	data := fmt.Sprintf("add_%s", name)
	if len(data) > callbackDataLimit {
		text := fmt.Sprintf("🔍 `%s` is not managed yet.\n\nSend /add `%s` to add it.", name, name)
		return text, nil
	}

	text := fmt.Sprintf("🔍 `%s` is not managed yet.\n\nWould you like to add it?", name)
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("➕ Add %s", name), data),
		),
	)

	return text, &keyboard
}

// paginationRow builds the Prev / position / Next row. prefix is the callback
// payload without the trailing page index, e.g. "dns_<zoneID>". The position
// button re-requests the current page, which makes it a cheap refresh.
func paginationRow(prefix string, p page) []tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	if p.hasPrev() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("%s_%d", prefix, p.index-1)))
	}
	row = append(row, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("📄 %d/%d", p.index+1, p.totalPages), fmt.Sprintf("%s_%d", prefix, p.index)))
	if p.hasNext() {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("%s_%d", prefix, p.index+1)))
	}
	return row
}

// firewallRuleLabel falls back to the expression when a rule has no name
func firewallRuleLabel(rule *domain.FirewallRule) string {
	if rule.Name != "" {
		return rule.Name
	}
	if len(rule.Expression) > 30 {
		return rule.Expression[:30] + "..."
	}
	return rule.Expression
}

func statusDot(status string) string {
	if status == "active" {
		return "🟢"
	}
	return "🟡"
}

func onOff(v bool) string {
	if v {
		return "ON"
	}
	return "OFF"
}

func onOffIcon(v bool) string {
	if v {
		return "✅ ON"
	}
	return "❌ OFF"
}

func yesNoIcon(v bool) string {
	if v {
		return "✅ Yes"
	}
	return "❌ No"
}
