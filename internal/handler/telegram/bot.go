package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/usecase"
	"cf-zone-bot/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Usecases bundles everything the chat surface can do
type Usecases struct {
	Zones     usecase.ZoneUsecase
	Records   usecase.DNSUsecase
	Firewall  usecase.FirewallUsecase
	Redirects usecase.RedirectUsecase
}

// Bot implements handler.BotHandler for Telegram with a button-based UI.
// It keeps no conversation state: every screen is reachable from a single
// command or button press, and mutations carry all their arguments.
type Bot struct {
	uc         Usecases
	transport  *Transport
	pageSize   int
	webhookURL string
	log        *logging.Logger
}

// NewBot creates a new Telegram bot handler
func NewBot(transport *Transport, uc Usecases, pageSize int, webhookURL string, logger *logging.Logger) *Bot {
	if pageSize < 1 {
		pageSize = 10
	}

	return &Bot{
		uc:         uc,
		transport:  transport,
		pageSize:   pageSize,
		webhookURL: webhookURL,
		log:        logger,
	}
}

// Start registers the webhook with Telegram. Delivery begins as soon as this
// returns, so the HTTP server must already be listening.
func (b *Bot) Start() error {
	if err := b.transport.RegisterWebhook(b.webhookURL); err != nil {
		return err
	}
	b.log.Infof("[Bot] webhook registered url=%s", b.webhookURL)
	return nil
}

// Stop removes the webhook registration
func (b *Bot) Stop() error {
	if err := b.transport.UnregisterWebhook(); err != nil {
		return err
	}
	b.log.Infof("[Bot] webhook removed")
	return nil
}

// Route classifies one update and dispatches exactly one handler. Failures of
// the zone API are reported to the chat and not returned; the error return is
// for transport failures only.
func (b *Bot) Route(ctx context.Context, update tgbotapi.Update) error {
	switch {
	case update.CallbackQuery != nil:
		return b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Chat != nil:
		return b.handleMessage(ctx, update.Message)
	}

	// Other update kinds carry nothing actionable
	return nil
}

// handleMessage handles incoming text messages
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil
	}

	if name, args, ok := parseCommand(text); ok {
		return b.handleCommand(ctx, msg.Chat.ID, name, args)
	}

	// Bare text is a domain search
	return b.handleSearch(ctx, msg.Chat.ID, text)
}

// handleCommand dispatches one slash command
func (b *Bot) handleCommand(ctx context.Context, chatID int64, name string, args []string) error {
	b.log.Debugf("[Command] /%s args=%v", name, args)

	switch name {
	case "start", "help":
		text, keyboard := renderHelp()
		return b.transport.SendMessageWithKeyboard(chatID, text, keyboard)

	case "domains", "list":
		return b.showDomainList(ctx, chatID, 0, 0)

	case "add":
		if len(args) < 1 {
			return b.transport.SendMessage(chatID, "Usage: `/add <domain>`")
		}
		return b.addDomain(ctx, chatID, 0, args[0])

	case "del":
		if len(args) < 1 {
			return b.transport.SendMessage(chatID, "Usage: `/del <domain>`")
		}
		zone, err := b.resolveDomain(ctx, chatID, args[0])
		if zone == nil {
			return err
		}
		text, keyboard := renderDeleteConfirm(zone)
		return b.transport.SendMessageWithKeyboard(chatID, text, keyboard)

	case "dns":
		if len(args) < 1 {
			return b.transport.SendMessage(chatID, "Usage: `/dns <domain>`")
		}
		zone, err := b.resolveDomain(ctx, chatID, args[0])
		if zone == nil {
			return err
		}
		return b.showDNSList(ctx, chatID, 0, zone, 0)

	case "waf":
		if len(args) < 1 {
			return b.transport.SendMessage(chatID, "Usage: `/waf <domain>`")
		}
		zone, err := b.resolveDomain(ctx, chatID, args[0])
		if zone == nil {
			return err
		}
		return b.showWAFList(ctx, chatID, 0, zone, 0)

	case "redirects":
		if len(args) < 1 {
			return b.transport.SendMessage(chatID, "Usage: `/redirects <domain>`")
		}
		zone, err := b.resolveDomain(ctx, chatID, args[0])
		if zone == nil {
			return err
		}
		return b.showRedirectList(ctx, chatID, 0, zone, 0)

	case "adddns":
		return b.cmdAddDNS(ctx, chatID, args)
	case "editdns":
		return b.cmdEditDNS(ctx, chatID, args)
	case "deldns":
		return b.cmdDelDNS(ctx, chatID, args)
	case "addwaf":
		return b.cmdAddWAF(ctx, chatID, args)
	case "editwaf":
		return b.cmdEditWAF(ctx, chatID, args)
	case "delwaf":
		return b.cmdDelWAF(ctx, chatID, args)
	case "addredirect":
		return b.cmdAddRedirect(ctx, chatID, args)
	case "editredirect":
		return b.cmdEditRedirect(ctx, chatID, args)
	case "delredirect":
		return b.cmdDelRedirect(ctx, chatID, args)
	}

	return b.transport.SendMessage(chatID, "🤷 Unknown command. Type /help to see what I can do.")
}

// handleCallback handles inline keyboard presses
func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return b.transport.AnswerCallback(callback.ID, "")
	}

	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	// Ack first so the client drops the loading spinner even when the screen
	// below takes a few API round trips
	if err := b.transport.AnswerCallback(callback.ID, ""); err != nil {
		b.log.Errorf("[Callback] ack failed: %v", err)
	}

	cb := parseCallback(callback.Data)
	b.log.Debugf("[Callback] data=%q arg1=%s arg2=%s", callback.Data, cb.Arg1, cb.Arg2)

	switch cb.Action {
	case ActionDomainList:
		return b.showDomainList(ctx, chatID, messageID, atoiOr(cb.Arg1, 0))
	case ActionDomainDetail:
		return b.showDomainDetail(ctx, chatID, messageID, cb.Arg1)
	case ActionAddDomain:
		return b.addDomain(ctx, chatID, messageID, cb.Arg1)
	case ActionToggleHTTPS:
		return b.toggleSetting(ctx, chatID, messageID, cb.Arg1, domain.SettingAlwaysUseHTTPS)
	case ActionToggleECH:
		return b.toggleSetting(ctx, chatID, messageID, cb.Arg1, domain.SettingECH)
	case ActionDeleteDomain:
		return b.showDeleteConfirm(ctx, chatID, messageID, cb.Arg1)
	case ActionConfirmDelete:
		return b.deleteDomain(ctx, chatID, messageID, cb.Arg1)

	case ActionDNSList:
		return b.showDNSListByID(ctx, chatID, messageID, cb.Arg1, atoiOr(cb.Arg2, 0))
	case ActionEditDNS:
		return b.showDNSDetail(ctx, chatID, messageID, cb.Arg1, cb.Arg2)
	case ActionAddDNS:
		return b.showAddHelp(ctx, chatID, messageID, cb.Arg1, renderAddDNSHelp)

	case ActionWAFList:
		return b.showWAFListByID(ctx, chatID, messageID, cb.Arg1, atoiOr(cb.Arg2, 0))
	case ActionEditWAF:
		return b.showWAFDetail(ctx, chatID, messageID, cb.Arg1, cb.Arg2)
	case ActionAddWAF:
		return b.showAddHelp(ctx, chatID, messageID, cb.Arg1, renderAddWAFHelp)

	case ActionRedirectList:
		return b.showRedirectListByID(ctx, chatID, messageID, cb.Arg1, atoiOr(cb.Arg2, 0))
	case ActionEditRedirect:
		return b.showRedirectDetail(ctx, chatID, messageID, cb.Arg1, cb.Arg2)
	case ActionAddRedirect:
		return b.showAddHelp(ctx, chatID, messageID, cb.Arg1, renderAddRedirectHelp)
	}

	return b.transport.SendMessage(chatID, "🤷 Unknown action. Type /help to see what I can do.")
}

// handleSearch treats bare text as a domain lookup. Text containing a dot is
// taken as a full domain name: an exact hit opens the domain screen, a miss
// offers to add it. Dotless text is a substring search over the domain list.
func (b *Bot) handleSearch(ctx context.Context, chatID int64, query string) error {
	b.log.Debugf("[Search] query=%q", query)

	name := strings.ToLower(strings.TrimSpace(query))
	if strings.Contains(name, ".") {
		zone, err := b.uc.Zones.GetDomainByName(ctx, name)
		switch {
		case err == nil:
			return b.showDomainDetail(ctx, chatID, 0, zone.ID)
		case !errors.Is(err, domain.ErrZoneNotFound):
			return b.sendError(chatID, "Search failed", err)
		case domain.IsValidZoneName(name):
			text, keyboard := renderAddOffer(name)
			if keyboard != nil {
				return b.transport.SendMessageWithKeyboard(chatID, text, *keyboard)
			}
			return b.transport.SendMessage(chatID, text)
		}
		return b.transport.SendMessage(chatID, fmt.Sprintf("📭 No domains match `%s`.", query))
	}

	matches, err := b.uc.Zones.SearchDomains(ctx, query)
	if err != nil {
		return b.sendError(chatID, "Search failed", err)
	}
	if len(matches) == 0 {
		return b.transport.SendMessage(chatID, fmt.Sprintf("📭 No domains match `%s`.", query))
	}

	text, keyboard := renderSearchResults(query, matches)
	return b.transport.SendMessageWithKeyboard(chatID, text, keyboard)
}

// showDomainList renders one page of the domain list. The same screen serves
// the /domains command and the pagination buttons.
func (b *Bot) showDomainList(ctx context.Context, chatID int64, messageID int, pageIdx int) error {
	zones, err := b.uc.Zones.ListDomains(ctx)
	if err != nil {
		return b.sendError(chatID, "Error loading domains", err)
	}

	p := paginate(len(zones), b.pageSize, pageIdx)
	text, keyboard := renderDomainList(zones, p)
	return b.display(chatID, messageID, text, keyboard)
}

// showDomainDetail renders the settings screen of one domain
func (b *Bot) showDomainDetail(ctx context.Context, chatID int64, messageID int, zoneID string) error {
	zone, err := b.uc.Zones.GetDomainDetail(ctx, zoneID)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			return b.transport.SendMessage(chatID, "❌ Domain not found. It may have been deleted.")
		}
		return b.sendError(chatID, "Error loading domain", err)
	}

	text, keyboard := renderDomainDetail(zone)
	return b.display(chatID, messageID, text, keyboard)
}

// addDomain registers a domain and shows the four-way management grid. A
// partial configuration still shows the grid, with a warning.
func (b *Bot) addDomain(ctx context.Context, chatID int64, messageID int, name string) error {
	zone, err := b.uc.Zones.AddDomain(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrZonePartiallyConfigured) && zone != nil {
			text, keyboard := renderDomainAdded(zone, true)
			return b.display(chatID, messageID, text, keyboard)
		}
		if errors.Is(err, domain.ErrInvalidZone) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ `%s` does not look like a domain name.", name))
		}
		return b.sendError(chatID, "Error adding domain", err)
	}

	text, keyboard := renderDomainAdded(zone, false)
	return b.display(chatID, messageID, text, keyboard)
}

// toggleSetting flips one of the on/off settings and re-renders the screen
func (b *Bot) toggleSetting(ctx context.Context, chatID int64, messageID int, zoneID, setting string) error {
	var zone *domain.Zone
	var err error
	if setting == domain.SettingAlwaysUseHTTPS {
		zone, err = b.uc.Zones.ToggleAlwaysUseHTTPS(ctx, zoneID)
	} else {
		zone, err = b.uc.Zones.ToggleECH(ctx, zoneID)
	}
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			return b.transport.SendMessage(chatID, "❌ Domain not found. It may have been deleted.")
		}
		return b.sendError(chatID, "Error updating setting", err)
	}

	text, keyboard := renderDomainDetail(zone)
	return b.display(chatID, messageID, text, keyboard)
}

// showDeleteConfirm asks before the one irreversible operation
func (b *Bot) showDeleteConfirm(ctx context.Context, chatID int64, messageID int, zoneID string) error {
	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}

	text, keyboard := renderDeleteConfirm(zone)
	return b.display(chatID, messageID, text, keyboard)
}

// deleteDomain performs the confirmed deletion
func (b *Bot) deleteDomain(ctx context.Context, chatID int64, messageID int, zoneID string) error {
	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}

	if err := b.uc.Zones.DeleteDomain(ctx, zoneID); err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			return b.transport.SendMessage(chatID, "❌ Domain not found. It may have been deleted already.")
		}
		return b.sendError(chatID, "Error deleting domain", err)
	}

	text, keyboard := renderDomainDeleted(zone.Name)
	return b.display(chatID, messageID, text, keyboard)
}

// showDNSListByID loads the zone first, then renders its record list
func (b *Bot) showDNSListByID(ctx context.Context, chatID int64, messageID int, zoneID string, pageIdx int) error {
	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}
	return b.showDNSList(ctx, chatID, messageID, zone, pageIdx)
}

// showDNSList renders one page of a zone's DNS records
func (b *Bot) showDNSList(ctx context.Context, chatID int64, messageID int, zone *domain.Zone, pageIdx int) error {
	records, err := b.uc.Records.ListRecords(ctx, zone.ID)
	if err != nil {
		return b.sendError(chatID, "Error loading records", err)
	}

	p := paginate(len(records), b.pageSize, pageIdx)
	text, keyboard := renderDNSList(zone, records, p)
	return b.display(chatID, messageID, text, keyboard)
}

// showDNSDetail renders one record picked from the list by its position
func (b *Bot) showDNSDetail(ctx context.Context, chatID int64, messageID int, zoneID, indexStr string) error {
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return b.transport.SendMessage(chatID, "🤷 Unknown action. Type /help to see what I can do.")
	}

	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}

	records, err := b.uc.Records.ListRecords(ctx, zone.ID)
	if err != nil {
		return b.sendError(chatID, "Error loading records", err)
	}

	if index >= len(records) {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", fmt.Sprintf("dns_%s_0", zone.ID)),
			),
		)
		return b.display(chatID, messageID, "❌ Record not found. The list may have changed.", keyboard)
	}

	text, keyboard := renderDNSDetail(zone, &records[index], index/b.pageSize)
	return b.display(chatID, messageID, text, keyboard)
}

// showWAFListByID loads the zone first, then renders its rule list
func (b *Bot) showWAFListByID(ctx context.Context, chatID int64, messageID int, zoneID string, pageIdx int) error {
	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}
	return b.showWAFList(ctx, chatID, messageID, zone, pageIdx)
}

// showWAFList renders one page of a zone's firewall rules
func (b *Bot) showWAFList(ctx context.Context, chatID int64, messageID int, zone *domain.Zone, pageIdx int) error {
	rules, err := b.uc.Firewall.ListRules(ctx, zone.ID)
	if err != nil {
		return b.sendError(chatID, "Error loading WAF rules", err)
	}

	p := paginate(len(rules), b.pageSize, pageIdx)
	text, keyboard := renderWAFList(zone, rules, p)
	return b.display(chatID, messageID, text, keyboard)
}

// showWAFDetail renders one firewall rule picked from the list by position
func (b *Bot) showWAFDetail(ctx context.Context, chatID int64, messageID int, zoneID, indexStr string) error {
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return b.transport.SendMessage(chatID, "🤷 Unknown action. Type /help to see what I can do.")
	}

	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}

	rules, err := b.uc.Firewall.ListRules(ctx, zone.ID)
	if err != nil {
		return b.sendError(chatID, "Error loading WAF rules", err)
	}

	if index >= len(rules) {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", fmt.Sprintf("waf_%s_0", zone.ID)),
			),
		)
		return b.display(chatID, messageID, "❌ Rule not found. The list may have changed.", keyboard)
	}

	text, keyboard := renderWAFDetail(zone, &rules[index], index/b.pageSize)
	return b.display(chatID, messageID, text, keyboard)
}

// showRedirectListByID loads the zone first, then renders its redirect list
func (b *Bot) showRedirectListByID(ctx context.Context, chatID int64, messageID int, zoneID string, pageIdx int) error {
	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}
	return b.showRedirectList(ctx, chatID, messageID, zone, pageIdx)
}

// showRedirectList renders one page of a zone's redirects
func (b *Bot) showRedirectList(ctx context.Context, chatID int64, messageID int, zone *domain.Zone, pageIdx int) error {
	rules, err := b.uc.Redirects.ListRules(ctx, zone.ID)
	if err != nil {
		return b.sendError(chatID, "Error loading redirects", err)
	}

	p := paginate(len(rules), b.pageSize, pageIdx)
	text, keyboard := renderRedirectList(zone, rules, p)
	return b.display(chatID, messageID, text, keyboard)
}

// showRedirectDetail renders one redirect picked from the list by position
func (b *Bot) showRedirectDetail(ctx context.Context, chatID int64, messageID int, zoneID, indexStr string) error {
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		return b.transport.SendMessage(chatID, "🤷 Unknown action. Type /help to see what I can do.")
	}

	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}

	rules, err := b.uc.Redirects.ListRules(ctx, zone.ID)
	if err != nil {
		return b.sendError(chatID, "Error loading redirects", err)
	}

	if index >= len(rules) {
		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("◀️ Back to List", fmt.Sprintf("redirect_%s_0", zone.ID)),
			),
		)
		return b.display(chatID, messageID, "❌ Redirect not found. The list may have changed.", keyboard)
	}

	text, keyboard := renderRedirectDetail(zone, &rules[index], index/b.pageSize)
	return b.display(chatID, messageID, text, keyboard)
}

// showAddHelp renders one of the command template screens
func (b *Bot) showAddHelp(ctx context.Context, chatID int64, messageID int, zoneID string, render func(*domain.Zone) (string, tgbotapi.InlineKeyboardMarkup)) error {
	zone, err := b.getZone(ctx, chatID, zoneID)
	if zone == nil {
		return err
	}

	text, keyboard := render(zone)
	return b.display(chatID, messageID, text, keyboard)
}

// cmdAddDNS handles /adddns <domain> <type> <name> <content> [ttl] [proxied]
func (b *Bot) cmdAddDNS(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 4 {
		return b.transport.SendMessage(chatID, "Usage: `/adddns <domain> <type> <name> <content> [ttl] [proxied]`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	input := usecase.CreateRecordInput{
		Type:    strings.ToUpper(args[1]),
		Name:    args[2],
		Content: args[3],
	}
	if len(args) > 4 {
		ttl, err := strconv.Atoi(args[4])
		if err != nil {
			return b.transport.SendMessage(chatID, "❌ TTL must be a number of seconds.")
		}
		input.TTL = ttl
	}
	if len(args) > 5 {
		proxied, ok := parseFlag(args[5])
		if !ok {
			return b.transport.SendMessage(chatID, "❌ Proxied must be `true` or `false`.")
		}
		input.Proxied = proxied
	}

	record, err := b.uc.Records.CreateRecord(ctx, zone.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateRecord) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Record `%s` (%s) already exists in `%s`. Use /editdns to change it.", args[2], input.Type, zone.Name))
		}
		if errors.Is(err, domain.ErrInvalidRecord) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ %v", err))
		}
		return b.sendError(chatID, "Error creating record", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID, fmt.Sprintf(
		"✅ *Record Created*\n\nName: `%s`\nType: `%s`\nContent: `%s`\nTTL: `%d`\nProxied: %s",
		record.Name, record.Type, record.Content, record.TTL, yesNoIcon(record.Proxied),
	), listShortcut("🌐 DNS Records", "dns", zone.ID))
}

// cmdEditDNS handles /editdns <domain> <record-id> <content> [ttl] [proxied]
func (b *Bot) cmdEditDNS(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 3 {
		return b.transport.SendMessage(chatID, "Usage: `/editdns <domain> <record-id> <content> [ttl] [proxied]`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	input := usecase.UpdateRecordInput{Content: args[2]}
	if len(args) > 3 {
		ttl, err := strconv.Atoi(args[3])
		if err != nil {
			return b.transport.SendMessage(chatID, "❌ TTL must be a number of seconds.")
		}
		input.TTL = ttl
	}
	if len(args) > 4 {
		proxied, ok := parseFlag(args[4])
		if !ok {
			return b.transport.SendMessage(chatID, "❌ Proxied must be `true` or `false`.")
		}
		input.Proxied = &proxied
	}

	record, err := b.uc.Records.UpdateRecord(ctx, zone.ID, args[1], input)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Record `%s` not found in `%s`.", args[1], zone.Name))
		}
		return b.sendError(chatID, "Error updating record", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID, fmt.Sprintf(
		"✅ *Record Updated*\n\nName: `%s`\nContent: `%s`\nTTL: `%d`\nProxied: %s",
		record.Name, record.Content, record.TTL, yesNoIcon(record.Proxied),
	), listShortcut("🌐 DNS Records", "dns", zone.ID))
}

// cmdDelDNS handles /deldns <domain> <record-id>
func (b *Bot) cmdDelDNS(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return b.transport.SendMessage(chatID, "Usage: `/deldns <domain> <record-id>`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	if err := b.uc.Records.DeleteRecord(ctx, zone.ID, args[1]); err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Record `%s` not found in `%s`.", args[1], zone.Name))
		}
		return b.sendError(chatID, "Error deleting record", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID,
		fmt.Sprintf("✅ Record deleted from `%s`.", zone.Name),
		listShortcut("🌐 DNS Records", "dns", zone.ID))
}

// cmdAddWAF handles /addwaf <domain> <mode> <name> | <expression>
func (b *Bot) cmdAddWAF(ctx context.Context, chatID int64, args []string) error {
	usage := "Usage: `/addwaf <domain> <mode> <name> | <expression>`"
	if len(args) < 3 {
		return b.transport.SendMessage(chatID, usage)
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	// Everything after the mode is "<name> | <expression>"; the pipe keeps
	// multi-word names and expressions apart
	rest := strings.Join(args[2:], " ")
	parts := strings.SplitN(rest, "|", 2)
	if len(parts) != 2 {
		return b.transport.SendMessage(chatID, usage)
	}

	input := usecase.CreateFirewallRuleInput{
		Name:       strings.TrimSpace(parts[0]),
		Mode:       strings.ToLower(args[1]),
		Expression: strings.TrimSpace(parts[1]),
	}

	rule, err := b.uc.Firewall.CreateRule(ctx, zone.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRule) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ %v", err))
		}
		return b.sendError(chatID, "Error creating WAF rule", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID, fmt.Sprintf(
		"✅ *WAF Rule Created*\n\nName: `%s`\nMode: `%s`\nExpression: `%s`\nID: `%s`",
		firewallRuleLabel(rule), rule.Mode, rule.Expression, rule.ID,
	), listShortcut("🛡 WAF Rules", "waf", zone.ID))
}

// cmdEditWAF handles /editwaf <domain> <rule-id> <mode>
func (b *Bot) cmdEditWAF(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 3 {
		return b.transport.SendMessage(chatID, "Usage: `/editwaf <domain> <rule-id> <mode>`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	rule, err := b.uc.Firewall.UpdateRuleMode(ctx, zone.ID, args[1], strings.ToLower(args[2]))
	if err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Rule `%s` not found in `%s`.", args[1], zone.Name))
		}
		if errors.Is(err, domain.ErrInvalidRule) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ %v", err))
		}
		return b.sendError(chatID, "Error updating WAF rule", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID, fmt.Sprintf(
		"✅ *WAF Rule Updated*\n\nName: `%s`\nMode: `%s`",
		firewallRuleLabel(rule), rule.Mode,
	), listShortcut("🛡 WAF Rules", "waf", zone.ID))
}

// cmdDelWAF handles /delwaf <domain> <rule-id>
func (b *Bot) cmdDelWAF(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return b.transport.SendMessage(chatID, "Usage: `/delwaf <domain> <rule-id>`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	if err := b.uc.Firewall.DeleteRule(ctx, zone.ID, args[1]); err != nil {
		if errors.Is(err, domain.ErrRuleNotFound) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Rule `%s` not found in `%s`.", args[1], zone.Name))
		}
		return b.sendError(chatID, "Error deleting WAF rule", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID,
		fmt.Sprintf("✅ WAF rule deleted from `%s`.", zone.Name),
		listShortcut("🛡 WAF Rules", "waf", zone.ID))
}

// cmdAddRedirect handles /addredirect <domain> <source> <target> [code] [keepquery]
func (b *Bot) cmdAddRedirect(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 3 {
		return b.transport.SendMessage(chatID, "Usage: `/addredirect <domain> <source> <target> [code] [keepquery]`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	input, errMsg := parseRedirectArgs(args[1:])
	if errMsg != "" {
		return b.transport.SendMessage(chatID, errMsg)
	}

	rule, err := b.uc.Redirects.CreateRule(ctx, zone.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRedirect) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ %v", err))
		}
		return b.sendError(chatID, "Error creating redirect", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID, fmt.Sprintf(
		"✅ *Redirect Created*\n\nSource: `%s`\nTarget: `%s`\nStatus Code: `%d`\nPreserve Query: %s\nID: `%s`",
		rule.SourceURL, rule.TargetURL, rule.StatusCode, yesNoIcon(rule.PreserveQuery), rule.ID,
	), listShortcut("↪️ Redirects", "redirect", zone.ID))
}

// cmdEditRedirect handles /editredirect <domain> <rule-id> <source> <target> [code] [keepquery]
func (b *Bot) cmdEditRedirect(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 4 {
		return b.transport.SendMessage(chatID, "Usage: `/editredirect <domain> <rule-id> <source> <target> [code] [keepquery]`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	input, errMsg := parseRedirectArgs(args[2:])
	if errMsg != "" {
		return b.transport.SendMessage(chatID, errMsg)
	}

	rule, err := b.uc.Redirects.UpdateRule(ctx, zone.ID, args[1], input)
	if err != nil {
		if errors.Is(err, domain.ErrRedirectNotFound) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Redirect `%s` not found in `%s`.", args[1], zone.Name))
		}
		if errors.Is(err, domain.ErrInvalidRedirect) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ %v", err))
		}
		return b.sendError(chatID, "Error updating redirect", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID, fmt.Sprintf(
		"✅ *Redirect Updated*\n\nSource: `%s`\nTarget: `%s`\nStatus Code: `%d`\nPreserve Query: %s",
		rule.SourceURL, rule.TargetURL, rule.StatusCode, yesNoIcon(rule.PreserveQuery),
	), listShortcut("↪️ Redirects", "redirect", zone.ID))
}

// cmdDelRedirect handles /delredirect <domain> <rule-id>
func (b *Bot) cmdDelRedirect(ctx context.Context, chatID int64, args []string) error {
	if len(args) < 2 {
		return b.transport.SendMessage(chatID, "Usage: `/delredirect <domain> <rule-id>`")
	}

	zone, err := b.resolveDomain(ctx, chatID, args[0])
	if zone == nil {
		return err
	}

	if err := b.uc.Redirects.DeleteRule(ctx, zone.ID, args[1]); err != nil {
		if errors.Is(err, domain.ErrRedirectNotFound) {
			return b.transport.SendMessage(chatID, fmt.Sprintf("❌ Redirect `%s` not found in `%s`.", args[1], zone.Name))
		}
		return b.sendError(chatID, "Error deleting redirect", err)
	}

	return b.transport.SendMessageWithKeyboard(chatID,
		fmt.Sprintf("✅ Redirect deleted from `%s`.", zone.Name),
		listShortcut("↪️ Redirects", "redirect", zone.ID))
}

// display sends a new message or edits an existing one in place. messageID
// zero means the screen was reached by command, nonzero means a button press
// on that message. Both paths render the exact same screen.
func (b *Bot) display(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) error {
	if messageID == 0 {
		return b.transport.SendMessageWithKeyboard(chatID, text, keyboard)
	}
	return b.transport.EditMessage(chatID, messageID, text, &keyboard)
}

// sendError reports a failed remote operation to the chat, including the
// error text so the user sees why
func (b *Bot) sendError(chatID int64, label string, err error) error {
	return b.transport.SendMessage(chatID, fmt.Sprintf("❌ %s: %v", label, err))
}

// getZone loads a zone referenced by a callback argument. A nil zone with a
// nil error means the chat was already told it is gone.
func (b *Bot) getZone(ctx context.Context, chatID int64, zoneID string) (*domain.Zone, error) {
	zone, err := b.uc.Zones.GetDomain(ctx, zoneID)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			return nil, b.transport.SendMessage(chatID, "❌ Domain not found. It may have been deleted.")
		}
		return nil, b.sendError(chatID, "Error loading domain", err)
	}
	return zone, nil
}

// resolveDomain loads a zone referenced by name in a command. Unknown names
// get the offer-to-add screen. A nil zone with a nil error means the chat was
// already answered.
func (b *Bot) resolveDomain(ctx context.Context, chatID int64, name string) (*domain.Zone, error) {
	zone, err := b.uc.Zones.GetDomainByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrZoneNotFound) {
			text, keyboard := renderAddOffer(strings.ToLower(strings.TrimSpace(name)))
			if keyboard != nil {
				return nil, b.transport.SendMessageWithKeyboard(chatID, text, *keyboard)
			}
			return nil, b.transport.SendMessage(chatID, text)
		}
		return nil, b.sendError(chatID, "Error loading domain", err)
	}
	return zone, nil
}

// listShortcut builds the single-button keyboard back to a resource list
func listShortcut(label, tag, zoneID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s_%s_0", tag, zoneID)),
		),
	)
}

// parseCommand splits "/cmd@bot arg..." into its name and arguments. ok is
// false for plain text.
func parseCommand(text string) (string, []string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", nil, false
	}

	fields := strings.Fields(text)
	name := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(name, "@"); at >= 0 {
		name = name[:at]
	}
	if name == "" {
		return "", nil, false
	}

	return strings.ToLower(name), fields[1:], true
}

// parseRedirectArgs reads <source> <target> [code] [keepquery]. The second
// return is a user-facing message, empty on success.
func parseRedirectArgs(args []string) (usecase.CreateRedirectRuleInput, string) {
	input := usecase.CreateRedirectRuleInput{
		SourceURL: args[0],
		TargetURL: args[1],
	}
	if len(args) > 2 {
		code, err := strconv.Atoi(args[2])
		if err != nil {
			return input, "❌ Status code must be a number."
		}
		input.StatusCode = code
	}
	if len(args) > 3 {
		keep, ok := parseFlag(args[3])
		if !ok {
			return input, "❌ Keepquery must be `true` or `false`."
		}
		input.PreserveQuery = keep
	}
	return input, ""
}

// parseFlag reads the boolean spellings users actually type
func parseFlag(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
