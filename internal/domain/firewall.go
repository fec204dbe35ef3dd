package domain

// FirewallRule represents a WAF rule that challenges or blocks matching traffic
type FirewallRule struct {
	ID         string
	Name       string
	Mode       string // one of FirewallModes
	Expression string // filter expression evaluated against each request
	Priority   int    // 0 means unset, lower fires first
	Active     bool
}

// FirewallModes contains the challenge actions a rule may take
var FirewallModes = []string{
	"block",
	"challenge",
	"js_challenge",
	"managed_challenge",
}

// IsValidFirewallMode checks if the given mode is a supported rule action
func IsValidFirewallMode(mode string) bool {
	for _, m := range FirewallModes {
		if m == mode {
			return true
		}
	}
	return false
}
