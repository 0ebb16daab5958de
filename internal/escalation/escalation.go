package escalation

// Status constants used by the complaint escalation state machine.
const (
	StatusPending    = "pending"
	StatusEscalated  = "escalated"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
)

// DefaultThreshold is applied when a complaint is submitted without an
// explicit escalation threshold.
const DefaultThreshold = 5

var statuses = map[string]struct{}{
	StatusPending:    {},
	StatusEscalated:  {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusRejected:   {},
}

// ValidStatus reports whether s is a known complaint status.
func ValidStatus(s string) bool {
	_, ok := statuses[s]
	return ok
}

// Next computes the complaint status after a vote delta is applied.
// Only the pending/escalated pair is ever toggled automatically:
// crossing the threshold upward escalates a pending complaint, dropping
// back below it reverts an escalated one. Statuses set by an
// administrator (in_progress, completed, rejected) are never changed
// here. The caller is responsible for clamping count+delta at zero
// before invoking.
func Next(status string, count, threshold, delta int) string {
	switch {
	case delta > 0 && status == StatusPending && count+delta >= threshold:
		return StatusEscalated
	case delta < 0 && status == StatusEscalated && count+delta < threshold:
		return StatusPending
	default:
		return status
	}
}
