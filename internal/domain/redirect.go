package domain

// RedirectRule represents a URL forwarding rule on a zone
type RedirectRule struct {
	ID            string
	SourceURL     string // matched request URL, without the preserve-query wildcard
	TargetURL     string
	StatusCode    int // one of RedirectStatusCodes
	PreserveQuery bool
	Active        bool
}

// RedirectStatusCodes contains the HTTP status codes a redirect may answer with
var RedirectStatusCodes = []int{301, 302, 307, 308}

// IsValidRedirectStatus checks if the given code is a supported redirect status
func IsValidRedirectStatus(code int) bool {
	for _, c := range RedirectStatusCodes {
		if c == code {
			return true
		}
	}
	return false
}
