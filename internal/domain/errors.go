package domain

import "errors"

// Domain errors
var (
	ErrZoneNotFound     = errors.New("zone not found")
	ErrRecordNotFound   = errors.New("dns record not found")
	ErrRuleNotFound     = errors.New("firewall rule not found")
	ErrRedirectNotFound = errors.New("redirect rule not found")

	ErrInvalidZone     = errors.New("invalid zone name")
	ErrInvalidRecord   = errors.New("invalid dns record")
	ErrInvalidRule     = errors.New("invalid firewall rule")
	ErrInvalidRedirect = errors.New("invalid redirect rule")
	ErrDuplicateRecord = errors.New("dns record already exists")

	// ErrZonePartiallyConfigured means the zone was created but one of the
	// default settings calls failed. The zone exists; settings may be stock.
	ErrZonePartiallyConfigured = errors.New("zone created but default settings were not fully applied")
)
