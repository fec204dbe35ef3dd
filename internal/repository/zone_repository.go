package repository

import (
	"context"
	"errors"

	"cf-zone-bot/external_resource/cloudflare"
	"cf-zone-bot/internal/domain"
)

// zoneRepository implements ZoneRepository using Cloudflare client
type zoneRepository struct {
	client cloudflare.Client
}

// NewZoneRepository creates a new zone repository
func NewZoneRepository(client cloudflare.Client) ZoneRepository {
	return &zoneRepository{
		client: client,
	}
}

// ListZones returns all accessible zones
func (r *zoneRepository) ListZones(ctx context.Context) ([]domain.Zone, error) {
	zones, err := r.client.ListZones(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Zone, len(zones))
	for i, z := range zones {
		result[i] = mapToDomainZone(z)
	}

	return result, nil
}

// GetZoneByName returns a zone by its exact name
func (r *zoneRepository) GetZoneByName(ctx context.Context, name string) (*domain.Zone, error) {
	zone, err := r.client.GetZoneByName(ctx, name)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return nil, domain.ErrZoneNotFound
		}
		return nil, err
	}

	result := mapToDomainZone(*zone)
	return &result, nil
}

// GetZone returns a zone by its ID
func (r *zoneRepository) GetZone(ctx context.Context, zoneID string) (*domain.Zone, error) {
	zone, err := r.client.GetZone(ctx, zoneID)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return nil, domain.ErrZoneNotFound
		}
		return nil, err
	}

	result := mapToDomainZone(*zone)
	return &result, nil
}

// CreateZone registers a new zone
func (r *zoneRepository) CreateZone(ctx context.Context, name string) (*domain.Zone, error) {
	zone, err := r.client.CreateZone(ctx, name)
	if err != nil {
		return nil, err
	}

	result := mapToDomainZone(*zone)
	return &result, nil
}

// DeleteZone removes a zone and everything in it
func (r *zoneRepository) DeleteZone(ctx context.Context, zoneID string) error {
	err := r.client.DeleteZone(ctx, zoneID)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return domain.ErrZoneNotFound
		}
		return err
	}

	return nil
}

// GetSetting reads a single zone setting value
func (r *zoneRepository) GetSetting(ctx context.Context, zoneID, name string) (string, error) {
	value, err := r.client.GetZoneSetting(ctx, zoneID, name)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return "", domain.ErrZoneNotFound
		}
		return "", err
	}

	return value, nil
}

// SetSetting writes a single zone setting value
func (r *zoneRepository) SetSetting(ctx context.Context, zoneID, name, value string) error {
	err := r.client.SetZoneSetting(ctx, zoneID, name, value)
	if err != nil {
		if errors.Is(err, cloudflare.ErrNotFound) {
			return domain.ErrZoneNotFound
		}
		return err
	}

	return nil
}

// mapToDomainZone maps external resource zone to domain zone. Settings are
// not part of the zone payload and stay at their zero values here.
func mapToDomainZone(z cloudflare.Zone) domain.Zone {
	return domain.Zone{
		ID:     z.ID,
		Name:   z.Name,
		Status: z.Status,
	}
}
