package summary

import (
	"testing"

	"power-band-lab/internal/domain"
)

func sp(s string) *string { return &s }

func TestIsClosed(t *testing.T) {
	tests := []struct {
		name string
		e    *domain.Event
		want bool
	}{
		{"status CLOSED", &domain.Event{Status: sp("CLOSED")}, true},
		{"status closed lowercase", &domain.Event{Status: sp("closed")}, true},
		{"status Closed mixed case", &domain.Event{Status: sp("Closed")}, true},
		{"status open", &domain.Event{Status: sp("OPEN")}, false},
		{"exit reason without status", &domain.Event{ExitReason: sp("TP")}, true},
		{"unknown exit reason still closes", &domain.Event{ExitReason: sp("MANUAL")}, true},
		{"open status but exit reason present", &domain.Event{Status: sp("OPEN"), ExitReason: sp("SL")}, true},
		{"both absent", &domain.Event{}, false},
		{"nil event", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsClosed(tt.e); got != tt.want {
				t.Errorf("IsClosed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsExitReason(t *testing.T) {
	tests := []struct {
		name   string
		e      *domain.Event
		reason string
		want   bool
	}{
		{"exact match", &domain.Event{ExitReason: sp("TP")}, domain.ExitReasonTakeProfit, true},
		{"case-insensitive match", &domain.Event{ExitReason: sp("tp")}, domain.ExitReasonTakeProfit, true},
		{"different code", &domain.Event{ExitReason: sp("SL")}, domain.ExitReasonTakeProfit, false},
		{"absent never matches", &domain.Event{}, domain.ExitReasonTakeProfit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isExitReason(tt.e, tt.reason); got != tt.want {
				t.Errorf("isExitReason = %v, want %v", got, tt.want)
			}
		})
	}
}
