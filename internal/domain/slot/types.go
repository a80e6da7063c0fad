package slot

type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusCancelled:
		return true
	default:
		return false
	}
}

// BlocksInterval reports whether a slot in this status occupies its
// interval for overlap purposes. Cancelled slots free their interval.
func (s Status) BlocksInterval() bool {
	return s == StatusAvailable || s == StatusBooked
}

// NewStatus rejects unrecognized values at the boundary instead of letting
// free-form strings flow into the core.
func NewStatus(value string) (Status, error) {
	s := Status(value)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
