package editor

// GuardState is the unsaved-changes dialog state.
type GuardState int

const (
	GuardIdle GuardState = iota
	GuardPrompting
)

func (s GuardState) String() string {
	if s == GuardPrompting {
		return "prompting"
	}
	return "idle"
}

// Outcome reports what a category change request did.
type Outcome int

const (
	Unchanged Outcome = iota
	Switched
	Prompted
)

func (o Outcome) String() string {
	switch o {
	case Switched:
		return "switched"
	case Prompted:
		return "prompted"
	}
	return "unchanged"
}

// Guard holds the category a host asked for while the active form was
// dirty. It only tracks state; the Editor performs the transitions.
type Guard struct {
	state   GuardState
	pending CategoryID
}

func (g *Guard) State() GuardState { return g.state }

// Pending returns the requested category while the prompt is open.
func (g *Guard) Pending() (CategoryID, bool) {
	return g.pending, g.state == GuardPrompting
}

func (g *Guard) prompt(next CategoryID) {
	g.state, g.pending = GuardPrompting, next
}

func (g *Guard) take() (CategoryID, error) {
	if g.state != GuardPrompting {
		return "", ErrNoPendingChange
	}
	return g.pending, nil
}

func (g *Guard) reset() {
	g.state, g.pending = GuardIdle, ""
}
