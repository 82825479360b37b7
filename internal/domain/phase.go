package domain

import "fmt"

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseConnected
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	default:
		return "unknown"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "idle":
		*p = PhaseIdle
	case "connecting":
		*p = PhaseConnecting
	case "connected":
		*p = PhaseConnected
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}
