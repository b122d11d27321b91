package stage

// State is the lifecycle position of a stage.
//
//	Idle -> Running -> Draining -> Completed
//	  any non-terminal state   -> Failed | Cancelled
type State int32

const (
	Idle State = iota
	Running
	Draining
	Completed
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s >= Completed
}
