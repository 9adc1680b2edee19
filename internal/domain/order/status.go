package order

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusActive     Status = "active"
	StatusExpired    Status = "expired"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) CanTransitionTo(target Status) bool {
	transitions := map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusActive, StatusFailed, StatusCancelled},
		StatusProcessing: {StatusActive, StatusFailed, StatusCancelled},
		StatusActive:     {StatusExpired, StatusCancelled},
		StatusExpired:    {},
		StatusFailed:     {},
		StatusCancelled:  {},
	}

	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[Status]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusActive:     true,
	StatusExpired:    true,
	StatusFailed:     true,
	StatusCancelled:  true,
}
