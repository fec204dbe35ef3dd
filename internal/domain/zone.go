package domain

// Zone setting identifiers used by the edge API
const (
	SettingAlwaysUseHTTPS = "always_use_https"
	SettingECH            = "ech"
)

// Zone represents a managed domain (the edge API calls it a zone)
type Zone struct {
	ID             string
	Name           string
	Status         string // active, pending, initializing, moved, deleted
	AlwaysUseHTTPS bool
	ECH            bool
}

// IsValidZoneName checks if the given name looks like a registrable domain
func IsValidZoneName(name string) bool {
	if len(name) < 3 || len(name) > 253 {
		return false
	}
	dot := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
		case r == '.':
			dot = true
		default:
			return false
		}
	}
	return dot && name[0] != '.' && name[len(name)-1] != '.'
}
