package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/repository"
	"cf-zone-bot/pkg/logging"
)

// zoneUsecase implements ZoneUsecase interface
type zoneUsecase struct {
	zoneRepo repository.ZoneRepository
	log      *logging.Logger
}

// NewZoneUsecase creates a new zone usecase
func NewZoneUsecase(zoneRepo repository.ZoneRepository, logger *logging.Logger) ZoneUsecase {
	return &zoneUsecase{
		zoneRepo: zoneRepo,
		log:      logger,
	}
}

// ListDomains returns all accessible domains
func (u *zoneUsecase) ListDomains(ctx context.Context) ([]domain.Zone, error) {
	return u.zoneRepo.ListZones(ctx)
}

// GetDomain returns a domain by ID without its settings
func (u *zoneUsecase) GetDomain(ctx context.Context, zoneID string) (*domain.Zone, error) {
	return u.zoneRepo.GetZone(ctx, zoneID)
}

// GetDomainByName returns a domain by its exact name without its settings
func (u *zoneUsecase) GetDomainByName(ctx context.Context, name string) (*domain.Zone, error) {
	return u.zoneRepo.GetZoneByName(ctx, normalizeDomainName(name))
}

// GetDomainDetail returns a domain by ID with its settings resolved
func (u *zoneUsecase) GetDomainDetail(ctx context.Context, zoneID string) (*domain.Zone, error) {
	zone, err := u.zoneRepo.GetZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	https, err := u.zoneRepo.GetSetting(ctx, zoneID, domain.SettingAlwaysUseHTTPS)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", domain.SettingAlwaysUseHTTPS, err)
	}
	ech, err := u.zoneRepo.GetSetting(ctx, zoneID, domain.SettingECH)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", domain.SettingECH, err)
	}

	zone.AlwaysUseHTTPS = https == "on"
	zone.ECH = ech == "on"
	return zone, nil
}

// AddDomain registers a domain and applies the default settings: force HTTPS
// on, ECH off. The operation is idempotent on the name. It is not atomic; when
// a settings call fails the created zone is returned together with
// ErrZonePartiallyConfigured so the caller can tell the user what happened.
func (u *zoneUsecase) AddDomain(ctx context.Context, name string) (*domain.Zone, error) {
	name = normalizeDomainName(name)
	u.log.Infof("[AddDomain] START name=%s", name)

	// Validate name
	if !domain.IsValidZoneName(name) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidZone, name)
	}

	// Adding an existing domain returns it unchanged, no create call is made
	existing, err := u.zoneRepo.GetZoneByName(ctx, name)
	if err == nil {
		u.log.Infof("[AddDomain] name=%s already exists, zoneID=%s", name, existing.ID)
		return u.GetDomainDetail(ctx, existing.ID)
	}
	if !errors.Is(err, domain.ErrZoneNotFound) {
		return nil, fmt.Errorf("failed to check zone %s: %w", name, err)
	}

	zone, err := u.zoneRepo.CreateZone(ctx, name)
	if err != nil {
		u.log.Errorf("[AddDomain] ERROR CreateZone: %v", err)
		return nil, fmt.Errorf("failed to create zone %s: %w", name, err)
	}
	u.log.Infof("[AddDomain] created zoneID=%s", zone.ID)

	if err := u.zoneRepo.SetSetting(ctx, zone.ID, domain.SettingAlwaysUseHTTPS, "on"); err != nil {
		u.log.Errorf("[AddDomain] ERROR %s: %v", domain.SettingAlwaysUseHTTPS, err)
		return zone, fmt.Errorf("%w: %v", domain.ErrZonePartiallyConfigured, err)
	}
	zone.AlwaysUseHTTPS = true

	if err := u.zoneRepo.SetSetting(ctx, zone.ID, domain.SettingECH, "off"); err != nil {
		u.log.Errorf("[AddDomain] ERROR %s: %v", domain.SettingECH, err)
		return zone, fmt.Errorf("%w: %v", domain.ErrZonePartiallyConfigured, err)
	}
	zone.ECH = false

	u.log.Infof("[AddDomain] SUCCESS name=%s zoneID=%s", name, zone.ID)
	return zone, nil
}

// DeleteDomain removes a domain and everything in it
func (u *zoneUsecase) DeleteDomain(ctx context.Context, zoneID string) error {
	u.log.Infof("[DeleteDomain] zoneID=%s", zoneID)
	return u.zoneRepo.DeleteZone(ctx, zoneID)
}

// ToggleAlwaysUseHTTPS flips the always-use-https setting
func (u *zoneUsecase) ToggleAlwaysUseHTTPS(ctx context.Context, zoneID string) (*domain.Zone, error) {
	return u.toggleSetting(ctx, zoneID, domain.SettingAlwaysUseHTTPS)
}

// ToggleECH flips the ech setting
func (u *zoneUsecase) ToggleECH(ctx context.Context, zoneID string) (*domain.Zone, error) {
	return u.toggleSetting(ctx, zoneID, domain.SettingECH)
}

// toggleSetting flips an on/off setting and re-reads the zone so the caller
// renders remote state, not an assumed one
func (u *zoneUsecase) toggleSetting(ctx context.Context, zoneID, name string) (*domain.Zone, error) {
	current, err := u.zoneRepo.GetSetting(ctx, zoneID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	value := "on"
	if current == "on" {
		value = "off"
	}

	if err := u.zoneRepo.SetSetting(ctx, zoneID, name, value); err != nil {
		return nil, fmt.Errorf("failed to set %s=%s: %w", name, value, err)
	}
	u.log.Infof("[ToggleSetting] zoneID=%s %s=%s", zoneID, name, value)

	return u.GetDomainDetail(ctx, zoneID)
}

// SearchDomains finds domains matching the query. An exact name hit wins and
// short-circuits; otherwise the full list is scanned case-insensitively.
func (u *zoneUsecase) SearchDomains(ctx context.Context, query string) ([]domain.Zone, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	zone, err := u.zoneRepo.GetZoneByName(ctx, normalizeDomainName(query))
	if err == nil {
		return []domain.Zone{*zone}, nil
	}
	if !errors.Is(err, domain.ErrZoneNotFound) {
		return nil, fmt.Errorf("failed to search zone %s: %w", query, err)
	}

	zones, err := u.zoneRepo.ListZones(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	needle := strings.ToLower(query)
	var matches []domain.Zone
	for _, z := range zones {
		if strings.Contains(strings.ToLower(z.Name), needle) {
			matches = append(matches, z)
		}
	}

	return matches, nil
}

// normalizeDomainName lowercases and trims a user-typed domain name
func normalizeDomainName(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimSuffix(name, ".")))
}
