package idgen

import (
	"strings"
	"testing"
)

func TestGenerateSecureID(t *testing.T) {
	tests := []struct {
		name       string
		prefix     string
		length     int
		wantErr    bool
		wantPrefix string
	}{
		{name: "conversation id", prefix: "conv", length: 16, wantPrefix: "conv_"},
		{name: "message id", prefix: "msg", length: 16, wantPrefix: "msg_"},
		{name: "short id", prefix: "test", length: 8, wantPrefix: "test_"},
		{name: "zero length", prefix: "test", length: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSecureID(tt.prefix, tt.length)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GenerateSecureID() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !strings.HasPrefix(got, tt.wantPrefix) {
				t.Errorf("GenerateSecureID() = %q, want prefix %q", got, tt.wantPrefix)
			}
			suffix := strings.TrimPrefix(got, tt.wantPrefix)
			if len(suffix) != tt.length {
				t.Errorf("suffix length = %d, want %d", len(suffix), tt.length)
			}
			for _, r := range suffix {
				if !strings.ContainsRune(charset, r) {
					t.Errorf("unexpected character %q in %q", r, got)
				}
			}
		})
	}
}

func TestConversationID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := ConversationID()
		if err != nil {
			t.Fatalf("ConversationID() error = %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
