package device

import "strings"

// LineFramer accumulates raw bytes from the channel and emits complete
// trimmed lines on each newline.  No maximum line length is enforced; the
// line device is trusted hardware.
type LineFramer struct {
	buf []byte
}

// Feed consumes one byte.  On a line terminator it returns the accumulated
// line (surrounding whitespace trimmed) with ok=true and resets the buffer;
// otherwise it appends and returns ok=false.
func (f *LineFramer) Feed(b byte) (line string, ok bool) {
	if b == '\n' {
		line = strings.TrimSpace(string(f.buf))
		f.buf = f.buf[:0]
		return line, true
	}
	f.buf = append(f.buf, b)
	return "", false
}
