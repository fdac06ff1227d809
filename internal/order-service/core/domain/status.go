package domain

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus validates a caller-supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusDelivered, StatusCancelled:
		return Status(s), nil
	default:
		return "", Validationf("invalid order status %q", s)
	}
}

// Transitions is the allowed-transitions table for order statuses.
// A missing entry for a source status means no transition is allowed from it.
type Transitions map[Status][]Status

// Allowed reports whether an order may move from one status to another.
// Same-status changes are handled by the workflow as idempotent no-ops and
// never reach the table.
func (t Transitions) Allowed(from, to Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TotalTransitions returns a table that permits every move between the known
// statuses. This is the default: the status machine is a total relation and
// any tightening is a configuration decision, not a code change.
func TotalTransitions() Transitions {
	all := []Status{StatusPending, StatusDelivered, StatusCancelled}
	t := make(Transitions, len(all))
	for _, from := range all {
		for _, to := range all {
			if from != to {
				t[from] = append(t[from], to)
			}
		}
	}
	return t
}

// TransitionError builds the Validation error returned when a table rejects
// a move.
func TransitionError(from, to Status) error {
	return Validationf("transition from %s to %s is not allowed", from, to)
}
