package session

// State is the lifecycle position of a session.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateBrowsingTree
	StateQueryRunning
	StateResultDisplayed
	StateErrorDisplayed
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateBrowsingTree:
		return "browsing"
	case StateQueryRunning:
		return "running"
	case StateResultDisplayed:
		return "result"
	case StateErrorDisplayed:
		return "error"
	default:
		return "unknown"
	}
}
