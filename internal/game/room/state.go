package room

// State is the lifecycle state of a room.
type State int

const (
	StateWaiting State = iota // lobby: members may join, characters are submitted
	StatePlaying              // session running: turn pointer is live
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StatePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// JoinOutcome classifies the result of a successful (non-error) join.
type JoinOutcome int

const (
	JoinAdded   JoinOutcome = iota // brand-new member appended
	JoinRebound                    // reconciled into an unbound slot by name
	JoinIgnored                    // duplicate connection id, no state change
)

func (o JoinOutcome) String() string {
	switch o {
	case JoinAdded:
		return "added"
	case JoinRebound:
		return "rebound"
	default:
		return "ignored"
	}
}

// StartOutcome classifies the result of a start request.
type StartOutcome int

const (
	Started      StartOutcome = iota // session is now playing
	StartIgnored                     // requester is not the host, no state change
)

// RestoreOutcome classifies the result of a restore request.
type RestoreOutcome int

const (
	Restored       RestoreOutcome = iota // snapshot applied
	RestoreIgnored                       // requester is not the host, no state change
)
