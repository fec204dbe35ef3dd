package usecase

import (
	"context"
	"fmt"
	"strings"

	"cf-zone-bot/internal/domain"
	"cf-zone-bot/internal/repository"
	"cf-zone-bot/pkg/logging"
)

// defaultRecordTTL is the automatic TTL the edge API understands
const defaultRecordTTL = 1

// dnsUsecase implements DNSUsecase interface
type dnsUsecase struct {
	zoneRepo repository.ZoneRepository
	dnsRepo  repository.DNSRepository
	log      *logging.Logger
}

// NewDNSUsecase creates a new DNS usecase
func NewDNSUsecase(
	zoneRepo repository.ZoneRepository,
	dnsRepo repository.DNSRepository,
	logger *logging.Logger,
) DNSUsecase {
	return &dnsUsecase{
		zoneRepo: zoneRepo,
		dnsRepo:  dnsRepo,
		log:      logger,
	}
}

// ListRecords returns all DNS records for a zone
func (u *dnsUsecase) ListRecords(ctx context.Context, zoneID string) ([]domain.DNSRecord, error) {
	u.log.Debugf("[ListRecords] START zoneID=%s", zoneID)
	records, err := u.dnsRepo.ListRecords(ctx, zoneID, domain.RecordFilter{})
	if err != nil {
		u.log.Errorf("[ListRecords] ERROR: %v", err)
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	u.log.Debugf("[ListRecords] SUCCESS: Found %d records", len(records))

	return records, nil
}

// GetRecord returns a specific DNS record by ID
func (u *dnsUsecase) GetRecord(ctx context.Context, zoneID, recordID string) (*domain.DNSRecord, error) {
	return u.dnsRepo.GetRecord(ctx, zoneID, recordID)
}

// CreateRecord creates a new DNS record
func (u *dnsUsecase) CreateRecord(ctx context.Context, zoneID string, input CreateRecordInput) (*domain.DNSRecord, error) {
	// Validate record type
	if !domain.IsValidRecordType(input.Type) {
		return nil, fmt.Errorf("%w: invalid record type %s", domain.ErrInvalidRecord, input.Type)
	}

	// Get zone, its name qualifies the record name
	zone, err := u.zoneRepo.GetZone(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone %s: %w", zoneID, err)
	}

	if input.TTL == 0 {
		input.TTL = defaultRecordTTL
	}

	fullRecordName := ensureFullRecordName(input.Name, zone.Name)

	// Check if a record with this name and type already exists
	existing, _ := u.dnsRepo.FindByName(ctx, zone.ID, fullRecordName, input.Type)
	if existing != nil {
		return nil, domain.ErrDuplicateRecord
	}

	record := &domain.DNSRecord{
		ZoneID:   zone.ID,
		ZoneName: zone.Name,
		Name:     fullRecordName,
		Type:     input.Type,
		Content:  input.Content,
		TTL:      input.TTL,
		Proxied:  input.Proxied,
		Priority: input.Priority,
	}

	created, err := u.dnsRepo.CreateRecord(ctx, zone.ID, record)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}
	u.log.Infof("[CreateRecord] zoneID=%s name=%s type=%s", zoneID, fullRecordName, input.Type)

	return created, nil
}

// UpdateRecord updates the content, TTL or proxy flag of an existing record.
// Name and type are immutable; delete and recreate to change them.
func (u *dnsUsecase) UpdateRecord(ctx context.Context, zoneID, recordID string, input UpdateRecordInput) (*domain.DNSRecord, error) {
	// Find existing record, unchanged fields carry over from it
	existing, err := u.dnsRepo.GetRecord(ctx, zoneID, recordID)
	if err != nil {
		return nil, err
	}

	record := &domain.DNSRecord{
		ZoneID:   existing.ZoneID,
		ZoneName: existing.ZoneName,
		Name:     existing.Name,
		Type:     existing.Type,
		Content:  input.Content,
		TTL:      existing.TTL,
		Proxied:  existing.Proxied,
		Priority: existing.Priority,
	}
	if input.Content == "" {
		record.Content = existing.Content
	}
	if input.TTL > 0 {
		record.TTL = input.TTL
	}
	if input.Proxied != nil {
		record.Proxied = *input.Proxied
	}

	updated, err := u.dnsRepo.UpdateRecord(ctx, zoneID, recordID, record)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}
	u.log.Infof("[UpdateRecord] zoneID=%s recordID=%s", zoneID, recordID)

	return updated, nil
}

// UpsertRecord creates the record or updates it when name and type already exist
func (u *dnsUsecase) UpsertRecord(ctx context.Context, zoneID string, input CreateRecordInput) (*domain.DNSRecord, error) {
	// Validate record type
	if !domain.IsValidRecordType(input.Type) {
		return nil, fmt.Errorf("%w: invalid record type %s", domain.ErrInvalidRecord, input.Type)
	}

	zone, err := u.zoneRepo.GetZone(ctx, zoneID)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone %s: %w", zoneID, err)
	}

	if input.TTL == 0 {
		input.TTL = defaultRecordTTL
	}

	fullRecordName := ensureFullRecordName(input.Name, zone.Name)

	existing, err := u.dnsRepo.FindByName(ctx, zone.ID, fullRecordName, input.Type)

	record := &domain.DNSRecord{
		ZoneID:   zone.ID,
		ZoneName: zone.Name,
		Name:     fullRecordName,
		Type:     input.Type,
		Content:  input.Content,
		TTL:      input.TTL,
		Proxied:  input.Proxied,
		Priority: input.Priority,
	}

	if err == nil && existing != nil {
		return u.dnsRepo.UpdateRecord(ctx, zone.ID, existing.ID, record)
	}

	return u.dnsRepo.CreateRecord(ctx, zone.ID, record)
}

// DeleteRecord deletes a DNS record
func (u *dnsUsecase) DeleteRecord(ctx context.Context, zoneID, recordID string) error {
	u.log.Infof("[DeleteRecord] zoneID=%s recordID=%s", zoneID, recordID)
	return u.dnsRepo.DeleteRecord(ctx, zoneID, recordID)
}

// ensureFullRecordName ensures the record name includes the zone name
func ensureFullRecordName(recordName, zoneName string) string {
	// If record name already ends with zone name, return as is
	if strings.HasSuffix(recordName, zoneName) {
		return recordName
	}

	// If record name is @ or empty, return zone name
	if recordName == "@" || recordName == "" {
		return zoneName
	}

	// Otherwise, append zone name
	return recordName + "." + zoneName
}
