// Package catalog resolves the visible subchannel lineup of stations and the
// nationwide affiliate lists of networks, applying callsign placeholder
// substitution to group-shared marketing name templates.
package catalog

import "strings"

// Placeholder tokens recognised in group-owned marketing name templates.
const (
	placeholderCall  = "{CALL}"
	placeholderCall4 = "{CALL4}"
)

// RenderMarketingName substitutes {CALL} with the station's full callsign and
// {CALL4} with its first four characters. Callsigns shorter than four
// characters substitute whole.
func RenderMarketingName(template, callsign string) string {
	call4 := callsign
	if len(call4) > 4 {
		call4 = call4[:4]
	}
	out := strings.ReplaceAll(template, placeholderCall, callsign)
	return strings.ReplaceAll(out, placeholderCall4, call4)
}
