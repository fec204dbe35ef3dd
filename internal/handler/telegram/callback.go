package telegram

import "strings"

// Action identifies what a pressed inline button asks for
type Action int

const (
	ActionUnknown Action = iota
	ActionDomainList
	ActionDomainDetail
	ActionAddDomain
	ActionDNSList
	ActionWAFList
	ActionRedirectList
	ActionToggleHTTPS
	ActionToggleECH
	ActionDeleteDomain
	ActionConfirmDelete
	ActionAddDNS
	ActionEditDNS
	ActionAddWAF
	ActionEditWAF
	ActionAddRedirect
	ActionEditRedirect
)

// Callback is one decoded button payload. The wire format is
// <tag>_<arg1> or <tag>_<arg1>_<arg2>.
type Callback struct {
	Action Action
	Arg1   string
	Arg2   string
}

// callbackTags maps wire tags to actions, sorted by descending tag length.
// The order is load-bearing: "add_dns" must be tried before "add", otherwise
// add_dns_<zone> decodes as an add-domain press with a mangled argument.
var callbackTags = []struct {
	tag    string
	action Action
}{
	{"confirm_delete", ActionConfirmDelete},
	{"edit_redirect", ActionEditRedirect},
	{"add_redirect", ActionAddRedirect},
	{"redirect", ActionRedirectList},
	{"edit_dns", ActionEditDNS},
	{"edit_waf", ActionEditWAF},
	{"add_dns", ActionAddDNS},
	{"add_waf", ActionAddWAF},
	{"domain", ActionDomainDetail},
	{"delete", ActionDeleteDomain},
	{"https", ActionToggleHTTPS},
	{"page", ActionDomainList},
	{"dns", ActionDNSList},
	{"waf", ActionWAFList},
	{"ech", ActionToggleECH},
	{"add", ActionAddDomain},
}

// parseCallback decodes a payload once at the boundary so every handler works
// with a typed action instead of re-splitting strings. Payloads that match no
// tag come back as ActionUnknown.
func parseCallback(data string) Callback {
	for _, t := range callbackTags {
		if !strings.HasPrefix(data, t.tag) {
			continue
		}

		rest := data[len(t.tag):]
		if rest == "" {
			return Callback{Action: t.action}
		}
		if rest[0] != '_' {
			// A different tag that happens to share this prefix
			continue
		}

		parts := strings.SplitN(rest[1:], "_", 2)
		cb := Callback{Action: t.action, Arg1: parts[0]}
		if len(parts) > 1 {
			cb.Arg2 = parts[1]
		}
		return cb
	}

	return Callback{Action: ActionUnknown}
}
