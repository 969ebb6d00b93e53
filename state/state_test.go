package state

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestStatusStringTap(t *testing.T) {
	tests := []struct {
		status   StatusTap
		expected string
	}{
		{StatusTapIdle, "idle"},
		{StatusTapTouching, "touching"},
		{StatusTapCompleted, "tapped"},
		{StatusTapCancelled, "cancelled"},
		{StatusTapFailed, "failed"},
		{StatusTap(99), "unknown"},
	}
	for _, tt := range tests {
		if got := StatusStringTap(tt.status); got != tt.expected {
			t.Errorf("StatusStringTap(%d) = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestElementStatusEncodesAsText(t *testing.T) {
	b, err := json.Marshal(&Element{Name: "ok", Status: StatusTapCancelled})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"status":"cancelled"`) {
		t.Errorf("encoded element = %s", b)
	}
}
