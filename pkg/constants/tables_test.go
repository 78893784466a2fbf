package constants

import (
	"testing"
)

func TestIsKnownTable(t *testing.T) {
	tests := []struct {
		tableName string
		want      bool
	}{
		{"calls", true},
		{"leads", true},
		{"email_logs", true},
		{"bots", false},
		{"Calls", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.tableName, func(t *testing.T) {
			if got := IsKnownTable(tt.tableName); got != tt.want {
				t.Errorf("IsKnownTable(%q) = %v, want %v", tt.tableName, got, tt.want)
			}
		})
	}
}
