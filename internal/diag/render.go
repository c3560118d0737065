package diag

import (
	"fmt"
	"strings"
)

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}

// Short renders diagnostics one per line:
//
//	info DSG9001 conditional-access 0:12-18 message
//
// Notes follow their diagnostic when includeNotes is set.
func Short(diags []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		pass := d.Pass
		if pass == "" {
			pass = "-"
		}
		fmt.Fprintf(&b, "%s %s %s %s %s", d.Severity, d.Code.ID(), pass, d.Primary.String(), sanitizeMessage(d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\nnote %s %s %s %s", d.Code.ID(), pass, n.Span.String(), sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}
