package proxy

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusError    Status = "error"
	StatusRotating Status = "rotating"
)

func (s Status) String() string {
	return string(s)
}

var ValidStatuses = map[Status]bool{
	StatusActive:   true,
	StatusInactive: true,
	StatusError:    true,
	StatusRotating: true,
}

type Protocol string

const (
	ProtocolHTTP   Protocol = "http"
	ProtocolSOCKS5 Protocol = "socks5"
)
