package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/usecase"
	"cf-zone-bot/pkg/logging"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeAPI records everything the bot sends to Telegram
type fakeAPI struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	sendErr   error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.sendErr != nil {
		return tgbotapi.Message{}, f.sendErr
	}
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.requested = append(f.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// fakeZones is an in-memory ZoneUsecase
type fakeZones struct {
	zones    []domain.Zone
	addCalls int
	deleted  []string

	addZone *domain.Zone
	addErr  error
}

func (f *fakeZones) ListDomains(ctx context.Context) ([]domain.Zone, error) {
	return f.zones, nil
}

func (f *fakeZones) GetDomain(ctx context.Context, zoneID string) (*domain.Zone, error) {
	for i := range f.zones {
		if f.zones[i].ID == zoneID {
			zone := f.zones[i]
			return &zone, nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (f *fakeZones) GetDomainByName(ctx context.Context, name string) (*domain.Zone, error) {
	for i := range f.zones {
		if strings.EqualFold(f.zones[i].Name, name) {
			zone := f.zones[i]
			return &zone, nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (f *fakeZones) GetDomainDetail(ctx context.Context, zoneID string) (*domain.Zone, error) {
	return f.GetDomain(ctx, zoneID)
}

func (f *fakeZones) AddDomain(ctx context.Context, name string) (*domain.Zone, error) {
	f.addCalls++
	if f.addErr != nil {
		return f.addZone, f.addErr
	}
	zone := domain.Zone{
		ID:             fmt.Sprintf("z%d", len(f.zones)+1),
		Name:           strings.ToLower(name),
		Status:         "active",
		AlwaysUseHTTPS: true,
	}
	f.zones = append(f.zones, zone)
	return &zone, nil
}

func (f *fakeZones) DeleteDomain(ctx context.Context, zoneID string) error {
	for i := range f.zones {
		if f.zones[i].ID == zoneID {
			f.zones = append(f.zones[:i], f.zones[i+1:]...)
			f.deleted = append(f.deleted, zoneID)
			return nil
		}
	}
	return domain.ErrZoneNotFound
}

func (f *fakeZones) ToggleAlwaysUseHTTPS(ctx context.Context, zoneID string) (*domain.Zone, error) {
	for i := range f.zones {
		if f.zones[i].ID == zoneID {
			f.zones[i].AlwaysUseHTTPS = !f.zones[i].AlwaysUseHTTPS
			zone := f.zones[i]
			return &zone, nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (f *fakeZones) ToggleECH(ctx context.Context, zoneID string) (*domain.Zone, error) {
	for i := range f.zones {
		if f.zones[i].ID == zoneID {
			f.zones[i].ECH = !f.zones[i].ECH
			zone := f.zones[i]
			return &zone, nil
		}
	}
	return nil, domain.ErrZoneNotFound
}

func (f *fakeZones) SearchDomains(ctx context.Context, query string) ([]domain.Zone, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	for i := range f.zones {
		if strings.EqualFold(f.zones[i].Name, query) {
			return []domain.Zone{f.zones[i]}, nil
		}
	}
	var matches []domain.Zone
	lowered := strings.ToLower(query)
	for _, zone := range f.zones {
		if strings.Contains(strings.ToLower(zone.Name), lowered) {
			matches = append(matches, zone)
		}
	}
	return matches, nil
}

// fakeRecords is an in-memory DNSUsecase
type fakeRecords struct {
	records []domain.DNSRecord
	created []usecase.CreateRecordInput
	updated map[string]usecase.UpdateRecordInput
	deleted []string

	createErr error
}

func (f *fakeRecords) ListRecords(ctx context.Context, zoneID string) ([]domain.DNSRecord, error) {
	var out []domain.DNSRecord
	for _, r := range f.records {
		if r.ZoneID == zoneID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecords) GetRecord(ctx context.Context, zoneID, recordID string) (*domain.DNSRecord, error) {
	for i := range f.records {
		if f.records[i].ID == recordID {
			record := f.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeRecords) CreateRecord(ctx context.Context, zoneID string, input usecase.CreateRecordInput) (*domain.DNSRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	record := domain.DNSRecord{
		ID:      fmt.Sprintf("r%d", len(f.records)+1),
		ZoneID:  zoneID,
		Name:    input.Name,
		Type:    input.Type,
		Content: input.Content,
		TTL:     input.TTL,
		Proxied: input.Proxied,
	}
	f.records = append(f.records, record)
	return &record, nil
}

func (f *fakeRecords) UpdateRecord(ctx context.Context, zoneID, recordID string, input usecase.UpdateRecordInput) (*domain.DNSRecord, error) {
	for i := range f.records {
		if f.records[i].ID == recordID {
			if f.updated == nil {
				f.updated = make(map[string]usecase.UpdateRecordInput)
			}
			f.updated[recordID] = input
			if input.Content != "" {
				f.records[i].Content = input.Content
			}
			if input.TTL > 0 {
				f.records[i].TTL = input.TTL
			}
			if input.Proxied != nil {
				f.records[i].Proxied = *input.Proxied
			}
			record := f.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (f *fakeRecords) UpsertRecord(ctx context.Context, zoneID string, input usecase.CreateRecordInput) (*domain.DNSRecord, error) {
	return f.CreateRecord(ctx, zoneID, input)
}

func (f *fakeRecords) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	for i := range f.records {
		if f.records[i].ID == recordID {
			f.records = append(f.records[:i], f.records[i+1:]...)
			f.deleted = append(f.deleted, recordID)
			return nil
		}
	}
	return domain.ErrRecordNotFound
}

// fakeFirewall is an in-memory FirewallUsecase
type fakeFirewall struct {
	rules   []domain.FirewallRule
	created []usecase.CreateFirewallRuleInput
	deleted []string
}

func (f *fakeFirewall) ListRules(ctx context.Context, zoneID string) ([]domain.FirewallRule, error) {
	return f.rules, nil
}

func (f *fakeFirewall) GetRule(ctx context.Context, zoneID, ruleID string) (*domain.FirewallRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			rule := f.rules[i]
			return &rule, nil
		}
	}
	return nil, domain.ErrRuleNotFound
}

func (f *fakeFirewall) CreateRule(ctx context.Context, zoneID string, input usecase.CreateFirewallRuleInput) (*domain.FirewallRule, error) {
	f.created = append(f.created, input)
	rule := domain.FirewallRule{
		ID:         fmt.Sprintf("fw%d", len(f.rules)+1),
		Name:       input.Name,
		Mode:       input.Mode,
		Expression: input.Expression,
		Active:     true,
	}
	f.rules = append(f.rules, rule)
	return &rule, nil
}

func (f *fakeFirewall) UpdateRuleMode(ctx context.Context, zoneID, ruleID, mode string) (*domain.FirewallRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			f.rules[i].Mode = mode
			rule := f.rules[i]
			return &rule, nil
		}
	}
	return nil, domain.ErrRuleNotFound
}

func (f *fakeFirewall) DeleteRule(ctx context.Context, zoneID, ruleID string) error {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			f.deleted = append(f.deleted, ruleID)
			return nil
		}
	}
	return domain.ErrRuleNotFound
}

// fakeRedirects is an in-memory RedirectUsecase
type fakeRedirects struct {
	rules   []domain.RedirectRule
	created []usecase.CreateRedirectRuleInput
	deleted []string
}

func (f *fakeRedirects) ListRules(ctx context.Context, zoneID string) ([]domain.RedirectRule, error) {
	return f.rules, nil
}

func (f *fakeRedirects) GetRule(ctx context.Context, zoneID, ruleID string) (*domain.RedirectRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			rule := f.rules[i]
			return &rule, nil
		}
	}
	return nil, domain.ErrRedirectNotFound
}

func (f *fakeRedirects) CreateRule(ctx context.Context, zoneID string, input usecase.CreateRedirectRuleInput) (*domain.RedirectRule, error) {
	f.created = append(f.created, input)
	rule := domain.RedirectRule{
		ID:            fmt.Sprintf("pr%d", len(f.rules)+1),
		SourceURL:     input.SourceURL,
		TargetURL:     input.TargetURL,
		StatusCode:    input.StatusCode,
		PreserveQuery: input.PreserveQuery,
		Active:        true,
	}
	f.rules = append(f.rules, rule)
	return &rule, nil
}

func (f *fakeRedirects) UpdateRule(ctx context.Context, zoneID, ruleID string, input usecase.CreateRedirectRuleInput) (*domain.RedirectRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			f.rules[i].SourceURL = input.SourceURL
			f.rules[i].TargetURL = input.TargetURL
			f.rules[i].StatusCode = input.StatusCode
			f.rules[i].PreserveQuery = input.PreserveQuery
			rule := f.rules[i]
			return &rule, nil
		}
	}
	return nil, domain.ErrRedirectNotFound
}

func (f *fakeRedirects) DeleteRule(ctx context.Context, zoneID, ruleID string) error {
	for i := range f.rules {
		if f.rules[i].ID == ruleID {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			f.deleted = append(f.deleted, ruleID)
			return nil
		}
	}
	return domain.ErrRedirectNotFound
}

type botFixture struct {
	bot       *Bot
	api       *fakeAPI
	zones     *fakeZones
	records   *fakeRecords
	firewall  *fakeFirewall
	redirects *fakeRedirects
}

func newBotFixture(pageSize int) *botFixture {
	f := &botFixture{
		api:       &fakeAPI{},
		zones:     &fakeZones{},
		records:   &fakeRecords{},
		firewall:  &fakeFirewall{},
		redirects: &fakeRedirects{},
	}
	uc := Usecases{
		Zones:     f.zones,
		Records:   f.records,
		Firewall:  f.firewall,
		Redirects: f.redirects,
	}
	transport := NewTransport(f.api, logging.Discard())
	f.bot = NewBot(transport, uc, pageSize, "https://bot.example.com/webhook", logging.Discard())
	return f
}

func messageUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			MessageID: 10,
			Chat:      &tgbotapi.Chat{ID: 99},
			Text:      text,
		},
	}
}

func callbackUpdate(data string) tgbotapi.Update {
	return tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb1",
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: 42,
				Chat:      &tgbotapi.Chat{ID: 99},
			},
		},
	}
}

func sentMessage(t *testing.T, api *fakeAPI, i int) tgbotapi.MessageConfig {
	t.Helper()
	require.Greater(t, len(api.sent), i, "expected at least %d sent messages", i+1)
	mc, ok := api.sent[i].(tgbotapi.MessageConfig)
	require.True(t, ok, "sent[%d] is %T, want MessageConfig", i, api.sent[i])
	return mc
}

func sentEdit(t *testing.T, api *fakeAPI, i int) tgbotapi.EditMessageTextConfig {
	t.Helper()
	require.Greater(t, len(api.sent), i, "expected at least %d sent messages", i+1)
	edit, ok := api.sent[i].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok, "sent[%d] is %T, want EditMessageTextConfig", i, api.sent[i])
	return edit
}

func messageKeyboard(t *testing.T, mc tgbotapi.MessageConfig) tgbotapi.InlineKeyboardMarkup {
	t.Helper()
	keyboard, ok := mc.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok, "message has no inline keyboard")
	return keyboard
}

func TestHelpCommand(t *testing.T) {
	f := newBotFixture(10)

	err := f.bot.Route(context.Background(), messageUpdate("/help"))
	require.NoError(t, err)

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "/domains")
	assert.Contains(t, mc.Text, "/add")
	keyboard := messageKeyboard(t, mc)
	require.Len(t, keyboard.InlineKeyboard, 1)
	assert.Equal(t, "page_0", *keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestStartShowsHelp(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/start")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Commands")
}

func TestUnknownCommand(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/frobnicate")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Unknown command")
	assert.Contains(t, mc.Text, "/help")
}

func TestAddDomainCommand(t *testing.T) {
	f := newBotFixture(10)

	err := f.bot.Route(context.Background(), messageUpdate("/add Example.COM"))
	require.NoError(t, err)
	assert.Equal(t, 1, f.zones.addCalls)

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Domain Added")
	assert.Contains(t, mc.Text, "example.com")

	keyboard := messageKeyboard(t, mc)
	require.Len(t, keyboard.InlineKeyboard, 2)
	require.Len(t, keyboard.InlineKeyboard[0], 2)
	require.Len(t, keyboard.InlineKeyboard[1], 2)
	assert.Equal(t, "domain_z1", *keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "dns_z1_0", *keyboard.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "waf_z1_0", *keyboard.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "redirect_z1_0", *keyboard.InlineKeyboard[1][1].CallbackData)
}

func TestAddDomainUsage(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/add")))

	assert.Equal(t, 0, f.zones.addCalls)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Usage")
}

func TestAddDomainInvalidName(t *testing.T) {
	f := newBotFixture(10)
	f.zones.addErr = fmt.Errorf("%w: not-a-domain", domain.ErrInvalidZone)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/add not-a-domain")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "does not look like a domain name")
}

func TestAddDomainPartialConfiguration(t *testing.T) {
	f := newBotFixture(10)
	f.zones.addZone = &domain.Zone{ID: "z9", Name: "half.example", Status: "active"}
	f.zones.addErr = fmt.Errorf("%w: setting ech failed", domain.ErrZonePartiallyConfigured)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/add half.example")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Warnings")
	keyboard := messageKeyboard(t, mc)
	assert.Len(t, keyboard.InlineKeyboard, 2)
}

func TestDomainListCommand(t *testing.T) {
	f := newBotFixture(2)
	f.zones.zones = []domain.Zone{
		{ID: "z1", Name: "alpha.example", Status: "active"},
		{ID: "z2", Name: "beta.example", Status: "active"},
		{ID: "z3", Name: "gamma.example", Status: "pending"},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/domains")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Page 1/2 (3 domains)")

	keyboard := messageKeyboard(t, mc)
	require.Len(t, keyboard.InlineKeyboard, 3)
	assert.Equal(t, "domain_z1", *keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "domain_z2", *keyboard.InlineKeyboard[1][0].CallbackData)

	nav := keyboard.InlineKeyboard[2]
	require.Len(t, nav, 2)
	assert.Equal(t, "page_0", *nav[0].CallbackData)
	assert.Equal(t, "page_1", *nav[1].CallbackData)
}

func TestDomainListEmpty(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/domains")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "No domains yet")
}

func TestSearchExactMatchOpensDetail(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{
		{ID: "z1", Name: "example.com", Status: "active", AlwaysUseHTTPS: true},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("example.com")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "example.com")
	assert.Contains(t, mc.Text, "Force HTTPS")

	keyboard := messageKeyboard(t, mc)
	assert.Equal(t, "https_z1", *keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestSearchSubstringListsMatches(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{
		{ID: "z1", Name: "example.com", Status: "active"},
		{ID: "z2", Name: "sub.example.com", Status: "active"},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("example")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "2 matching domains")
	keyboard := messageKeyboard(t, mc)
	require.Len(t, keyboard.InlineKeyboard, 2)
}

func TestSearchMissOffersAdd(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("new.example.com")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "not managed yet")
	keyboard := messageKeyboard(t, mc)
	assert.Equal(t, "add_new.example.com", *keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestSearchDottedMissWithNeighborsOffersAdd(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{
		{ID: "z1", Name: "shop.example.com", Status: "active"},
		{ID: "z2", Name: "blog.example.com", Status: "active"},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("example.com")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "not managed yet")
	assert.NotContains(t, mc.Text, "matching domains")
	keyboard := messageKeyboard(t, mc)
	assert.Equal(t, "add_example.com", *keyboard.InlineKeyboard[0][0].CallbackData)
}

func TestSearchMissNotADomain(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("what is this")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "No domains match")
}

func TestCallbackAnswersBeforeRendering(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("page_0")))

	require.Len(t, f.api.requested, 1)
	_, ok := f.api.requested[0].(tgbotapi.CallbackConfig)
	assert.True(t, ok, "expected a callback answer, got %T", f.api.requested[0])

	// A button press edits the existing message instead of sending a new one
	edit := sentEdit(t, f.api, 0)
	assert.Equal(t, 42, edit.MessageID)
	assert.Contains(t, edit.Text, "Your Domains")
}

func TestRefreshUnchangedScreenSucceeds(t *testing.T) {
	f := newBotFixture(10)
	f.api.sendErr = &tgbotapi.Error{
		Code:    400,
		Message: "Bad Request: message is not modified: specified new message content and reply markup are exactly the same as a current content and reply markup of the message",
	}

	// Refreshing an empty list re-renders the identical screen; Telegram's
	// refusal to edit must not bubble up as a handler failure.
	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("page_0")))
}

func TestDomainDetailCallback(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active", ECH: true}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("domain_z1")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "example.com")
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, "https_z1", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "ech_z1", *edit.ReplyMarkup.InlineKeyboard[0][1].CallbackData)
}

func TestDomainDetailCallbackGone(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("domain_z1")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Domain not found")
}

func TestToggleHTTPSCallback(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("https_z1")))

	assert.True(t, f.zones.zones[0].AlwaysUseHTTPS)
	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "*Force HTTPS:* ✅ ON")
}

func TestToggleECHCallback(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active", ECH: true}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("ech_z1")))

	assert.False(t, f.zones.zones[0].ECH)
	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "*ECH:* ❌ OFF")
}

func TestDeleteFlow(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("delete_z1")))

	confirm := sentEdit(t, f.api, 0)
	assert.Contains(t, confirm.Text, "Are you sure")
	require.NotNil(t, confirm.ReplyMarkup)
	assert.Equal(t, "confirm_delete_z1", *confirm.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
	assert.Empty(t, f.zones.deleted, "confirmation screen must not delete anything")

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("confirm_delete_z1")))

	assert.Equal(t, []string{"z1"}, f.zones.deleted)
	done := sentEdit(t, f.api, 1)
	assert.Contains(t, done.Text, "deleted")
}

func TestDNSListCallback(t *testing.T) {
	f := newBotFixture(2)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.records.records = []domain.DNSRecord{
		{ID: "r1", ZoneID: "z1", Name: "www.example.com", Type: "A", Content: "203.0.113.10"},
		{ID: "r2", ZoneID: "z1", Name: "mail.example.com", Type: "MX", Content: "mx.example.com"},
		{ID: "r3", ZoneID: "z1", Name: "example.com", Type: "TXT", Content: "v=spf1 -all"},
	}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("dns_z1_1")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "Page 2/2 (3 records)")
	require.NotNil(t, edit.ReplyMarkup)

	rows := edit.ReplyMarkup.InlineKeyboard
	// one record row, the pagination row, the add/back row
	require.Len(t, rows, 3)
	assert.Equal(t, "edit_dns_z1_2", *rows[0][0].CallbackData)
	assert.Equal(t, "dns_z1_0", *rows[1][0].CallbackData)
	assert.Equal(t, "add_dns_z1", *rows[2][0].CallbackData)
}

func TestDNSDetailCallback(t *testing.T) {
	f := newBotFixture(2)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.records.records = []domain.DNSRecord{
		{ID: "r1", ZoneID: "z1", Name: "www.example.com", Type: "A", Content: "203.0.113.10", TTL: 300},
		{ID: "r2", ZoneID: "z1", Name: "mail.example.com", Type: "MX", Content: "mx.example.com", TTL: 1},
		{ID: "r3", ZoneID: "z1", Name: "example.com", Type: "TXT", Content: "v=spf1 -all", TTL: 1},
	}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("edit_dns_z1_2")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "`r3`")
	assert.Contains(t, edit.Text, "/editdns example.com r3")
	// the record sits on page 2, so Back returns there
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, "dns_z1_1", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestDNSDetailIndexOutOfRange(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("edit_dns_z1_99")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "Record not found")
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, "dns_z1_0", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestAddDNSCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/adddns example.com a www 203.0.113.10 300 yes")))

	require.Len(t, f.records.created, 1)
	input := f.records.created[0]
	assert.Equal(t, "A", input.Type)
	assert.Equal(t, "www", input.Name)
	assert.Equal(t, "203.0.113.10", input.Content)
	assert.Equal(t, 300, input.TTL)
	assert.True(t, input.Proxied)

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Record Created")
}

func TestAddDNSBadTTL(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/adddns example.com A www 203.0.113.10 soon")))

	assert.Empty(t, f.records.created)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "TTL must be a number")
}

func TestAddDNSDuplicate(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.records.createErr = domain.ErrDuplicateRecord

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/adddns example.com A www 203.0.113.10")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "already exists")
	assert.Contains(t, mc.Text, "/editdns")
}

func TestAddDNSUnknownDomainOffersAdd(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/adddns missing.example A www 203.0.113.10")))

	assert.Empty(t, f.records.created)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "not managed yet")
}

func TestEditDNSCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.records.records = []domain.DNSRecord{
		{ID: "r1", ZoneID: "z1", Name: "www.example.com", Type: "A", Content: "203.0.113.10", TTL: 300, Proxied: true},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/editdns example.com r1 198.51.100.7 600 false")))

	input, ok := f.records.updated["r1"]
	require.True(t, ok)
	assert.Equal(t, "198.51.100.7", input.Content)
	assert.Equal(t, 600, input.TTL)
	require.NotNil(t, input.Proxied)
	assert.False(t, *input.Proxied)

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Record Updated")
}

func TestEditDNSNotFound(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/editdns example.com nope 198.51.100.7")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "not found")
}

func TestDelDNSCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.records.records = []domain.DNSRecord{
		{ID: "r1", ZoneID: "z1", Name: "www.example.com", Type: "A", Content: "203.0.113.10"},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/deldns example.com r1")))

	assert.Equal(t, []string{"r1"}, f.records.deleted)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Record deleted")
}

func TestAddWAFCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(),
		messageUpdate(`/addwaf example.com BLOCK Bad bots | http.user_agent contains "curl"`)))

	require.Len(t, f.firewall.created, 1)
	input := f.firewall.created[0]
	assert.Equal(t, "Bad bots", input.Name)
	assert.Equal(t, "block", input.Mode)
	assert.Equal(t, `http.user_agent contains "curl"`, input.Expression)

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "WAF Rule Created")
}

func TestAddWAFMissingPipe(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/addwaf example.com block nopipe")))

	assert.Empty(t, f.firewall.created)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Usage")
}

func TestEditWAFCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.firewall.rules = []domain.FirewallRule{
		{ID: "fw1", Name: "Bad bots", Mode: "block", Expression: `http.user_agent contains "curl"`, Active: true},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/editwaf example.com fw1 Challenge")))

	assert.Equal(t, "challenge", f.firewall.rules[0].Mode)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "WAF Rule Updated")
}

func TestDelWAFCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.firewall.rules = []domain.FirewallRule{
		{ID: "fw1", Name: "Bad bots", Mode: "block", Expression: "ip.src eq 203.0.113.1", Active: true},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/delwaf example.com fw1")))

	assert.Equal(t, []string{"fw1"}, f.firewall.deleted)
}

func TestAddRedirectCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(),
		messageUpdate("/addredirect example.com https://old.example.com/ https://new.example.com/ 302 yes")))

	require.Len(t, f.redirects.created, 1)
	input := f.redirects.created[0]
	assert.Equal(t, "https://old.example.com/", input.SourceURL)
	assert.Equal(t, "https://new.example.com/", input.TargetURL)
	assert.Equal(t, 302, input.StatusCode)
	assert.True(t, input.PreserveQuery)

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Redirect Created")
}

func TestAddRedirectBadStatusCode(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(),
		messageUpdate("/addredirect example.com https://a.example/ https://b.example/ permanent")))

	assert.Empty(t, f.redirects.created)
	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Status code must be a number")
}

func TestEditRedirectCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.redirects.rules = []domain.RedirectRule{
		{ID: "pr1", SourceURL: "https://old.example.com/", TargetURL: "https://new.example.com/", StatusCode: 301, Active: true},
	}

	require.NoError(t, f.bot.Route(context.Background(),
		messageUpdate("/editredirect example.com pr1 https://old.example.com/ https://final.example.com/ 308")))

	assert.Equal(t, "https://final.example.com/", f.redirects.rules[0].TargetURL)
	assert.Equal(t, 308, f.redirects.rules[0].StatusCode)
}

func TestDelRedirectCommand(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.redirects.rules = []domain.RedirectRule{
		{ID: "pr1", SourceURL: "https://old.example.com/", TargetURL: "https://new.example.com/", StatusCode: 301},
	}

	require.NoError(t, f.bot.Route(context.Background(), messageUpdate("/delredirect example.com pr1")))

	assert.Equal(t, []string{"pr1"}, f.redirects.deleted)
}

func TestWAFDetailCallback(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.firewall.rules = []domain.FirewallRule{
		{ID: "fw1", Name: "Bad bots", Mode: "block", Expression: `http.user_agent contains "curl"`, Active: true},
	}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("edit_waf_z1_0")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "Bad bots")
	assert.Contains(t, edit.Text, "/editwaf example.com fw1")
}

func TestRedirectListCallback(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}
	f.redirects.rules = []domain.RedirectRule{
		{ID: "pr1", SourceURL: "https://old.example.com/*", TargetURL: "https://new.example.com/$1", StatusCode: 301, PreserveQuery: true, Active: true},
	}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("redirect_z1_0")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "Redirects in example.com")
	require.NotNil(t, edit.ReplyMarkup)
	assert.Equal(t, "edit_redirect_z1_0", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestAddHelpCallback(t *testing.T) {
	f := newBotFixture(10)
	f.zones.zones = []domain.Zone{{ID: "z1", Name: "example.com", Status: "active"}}

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("add_dns_z1")))

	edit := sentEdit(t, f.api, 0)
	assert.Contains(t, edit.Text, "/adddns example.com")
}

func TestUnknownCallback(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), callbackUpdate("bogus_payload")))

	mc := sentMessage(t, f.api, 0)
	assert.Contains(t, mc.Text, "Unknown action")
}

func TestRouteIgnoresEmptyUpdate(t *testing.T) {
	f := newBotFixture(10)

	require.NoError(t, f.bot.Route(context.Background(), tgbotapi.Update{}))

	assert.Empty(t, f.api.sent)
	assert.Empty(t, f.api.requested)
}

func TestSendFailureSurfacesError(t *testing.T) {
	f := newBotFixture(10)
	f.api.sendErr = errors.New("telegram unavailable")

	err := f.bot.Route(context.Background(), messageUpdate("/help"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram unavailable")
}
