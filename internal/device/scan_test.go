package device

import "testing"

func TestParseScan(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantUID string
		wantOK  bool
	}{
		{
			name:    "well-formed scan",
			line:    "Scanned UID: 63:19:CE:12",
			wantUID: "63:19:CE:12",
			wantOK:  true,
		},
		{
			name:    "extra whitespace around uid",
			line:    "Scanned UID:   AA:BB:CC:DD",
			wantUID: "AA:BB:CC:DD",
			wantOK:  true,
		},
		{
			name:   "prefix without separator is malformed",
			line:   "Scanned UID:63:19:CE:12",
			wantOK: false,
		},
		{
			name:   "prefix with empty payload is malformed",
			line:   "Scanned UID: ",
			wantOK: false,
		},
		{
			name:   "diagnostic line",
			line:   "RFID reader ready",
			wantOK: false,
		},
		{
			name:   "empty line",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uid, ok := ParseScan(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("ParseScan(%q) ok=%v, want %v", tt.line, ok, tt.wantOK)
			}
			if uid != tt.wantUID {
				t.Errorf("ParseScan(%q) uid=%q, want %q", tt.line, uid, tt.wantUID)
			}
		})
	}
}

func TestIsScanLine(t *testing.T) {
	if !IsScanLine("Scanned UID:garbled") {
		t.Error("expected prefix match even for malformed payload")
	}
	if IsScanLine("Card detected") {
		t.Error("expected no match for diagnostic line")
	}
}
