package escalation

import "testing"

func TestNextCastCrossesThreshold(t *testing.T) {
	got := Next(StatusPending, 4, 5, 1)
	if got != StatusEscalated {
		t.Fatalf("expected escalated, got %s", got)
	}
}

func TestNextCastBelowThreshold(t *testing.T) {
	got := Next(StatusPending, 2, 5, 1)
	if got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
}

func TestNextRetractDropsBelowThreshold(t *testing.T) {
	got := Next(StatusEscalated, 5, 5, -1)
	if got != StatusPending {
		t.Fatalf("expected pending, got %s", got)
	}
}

func TestNextRetractStillAboveThreshold(t *testing.T) {
	got := Next(StatusEscalated, 7, 5, -1)
	if got != StatusEscalated {
		t.Fatalf("expected escalated, got %s", got)
	}
}

func TestNextNeverTouchesAdminOwnedStatuses(t *testing.T) {
	cases := []struct {
		status string
		count  int
		delta  int
	}{
		{StatusInProgress, 4, 1},
		{StatusInProgress, 10, -1},
		{StatusCompleted, 10, -1},
		{StatusCompleted, 4, 1},
		{StatusRejected, 4, 1},
		{StatusRejected, 10, -1},
	}
	for _, tc := range cases {
		if got := Next(tc.status, tc.count, 5, tc.delta); got != tc.status {
			t.Errorf("Next(%s, %d, 5, %d) = %s, want unchanged", tc.status, tc.count, tc.delta, got)
		}
	}
}

func TestNextThresholdAlreadyCrossed(t *testing.T) {
	// A cast on an already escalated complaint keeps it escalated.
	if got := Next(StatusEscalated, 6, 5, 1); got != StatusEscalated {
		t.Fatalf("expected escalated, got %s", got)
	}
	// A retract that stays at or above threshold does not revert.
	if got := Next(StatusEscalated, 6, 5, -1); got != StatusEscalated {
		t.Fatalf("expected escalated, got %s", got)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusEscalated, StatusInProgress, StatusCompleted, StatusRejected} {
		if !ValidStatus(s) {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if ValidStatus("archived") {
		t.Errorf("archived should not be a valid status")
	}
}
