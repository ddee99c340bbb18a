package bridge

// Phase is the lifecycle stage of one meeting connection
type Phase int32

const (
	PhaseConnecting Phase = iota
	PhaseReady
	PhaseStreaming
	PhaseEnding
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "CONNECTING"
	case PhaseReady:
		return "READY"
	case PhaseStreaming:
		return "STREAMING"
	case PhaseEnding:
		return "ENDING"
	case PhaseClosed:
		return "CLOSED"
	}
	return "UNKNOWN"
}
