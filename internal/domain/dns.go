package domain

// DNSRecord represents a DNS record in a zone
type DNSRecord struct {
	ID       string
	ZoneID   string
	ZoneName string
	Name     string
	Type     string // A, AAAA, CNAME, MX, TXT, NS, SRV
	Content  string
	TTL      int // seconds, 1 means automatic
	Proxied  bool
	Priority *uint16 // for MX, SRV records
}

// RecordFilter represents filters for listing DNS records
type RecordFilter struct {
	Name string
	Type string
}

// RecordTypes contains all supported DNS record types
var RecordTypes = []string{
	"A",
	"AAAA",
	"CNAME",
	"MX",
	"TXT",
	"NS",
	"SRV",
}

// IsValidRecordType checks if the given type is a valid DNS record type
func IsValidRecordType(recordType string) bool {
	for _, t := range RecordTypes {
		if t == recordType {
			return true
		}
	}
	return false
}
