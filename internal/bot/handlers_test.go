package bot

import "testing"

func TestParseInvitePayload(t *testing.T) {
	tests := []struct {
		payload string
		wantID  int64
		wantOK  bool
	}{
		{"invite_1001", 1001, true},
		{"invite_0", 0, false},
		{"invite_-5", 0, false},
		{"invite_abc", 0, false},
		{"ref_1001_abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		id, ok := parseInvitePayload(tt.payload)
		if id != tt.wantID || ok != tt.wantOK {
			t.Fatalf("parseInvitePayload(%q) = (%d, %v), want (%d, %v)", tt.payload, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
