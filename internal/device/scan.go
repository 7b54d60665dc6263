package device

import "strings"

// scanPrefix marks an identity-scan line from the reader firmware,
// e.g. "Scanned UID: 63:19:CE:12".
const scanPrefix = "Scanned UID:"

// IsScanLine reports whether line carries the identity-scan prefix.
// Lines without it are passthrough diagnostics from the firmware.
func IsScanLine(line string) bool {
	return strings.HasPrefix(line, scanPrefix)
}

// ParseScan extracts the UID from an identity-scan line.  The UID is the
// trimmed remainder after the first ": " separator and is treated as an
// opaque token.  A prefixed line with no separator or an empty payload is
// malformed: ok=false, no decision is made for it.
func ParseScan(line string) (uid string, ok bool) {
	if !IsScanLine(line) {
		return "", false
	}
	_, rest, found := strings.Cut(line, ": ")
	if !found {
		return "", false
	}
	uid = strings.TrimSpace(rest)
	if uid == "" {
		return "", false
	}
	return uid, true
}
