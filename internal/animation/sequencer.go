// Package animation holds the play/stop state machine and the tick counter
// that cycles the country selection while the animation runs.
package animation

// State is the animation play state. Transitions happen only on Toggle.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// ButtonLabel is the toggle button caption for the state.
func (s State) ButtonLabel() string {
	if s == Running {
		return "Stop animation"
	}
	return "Start animation"
}

// Sequencer pairs the play state with a monotonic tick counter. The counter
// starts at zero, only ever grows, and survives stop/start cycles, so a
// restarted animation resumes the cycle where it left off instead of
// rewinding. Callers serialize access; the type itself is not safe for
// concurrent use.
type Sequencer struct {
	state State
	tick  int
}

func NewSequencer() *Sequencer {
	return &Sequencer{state: Stopped}
}

// State returns the current play state.
func (s *Sequencer) State() State { return s.state }

// Running reports whether the animation is playing.
func (s *Sequencer) Running() bool { return s.state == Running }

// Tick returns the counter value the next Advance will consume.
func (s *Sequencer) Tick() int { return s.tick }

// Toggle flips the play state and returns the new state.
func (s *Sequencer) Toggle() State {
	if s.state == Running {
		s.state = Stopped
	} else {
		s.state = Running
	}
	return s.state
}

// SelectionForTick returns the prefix all[0:(n mod len(all))+1]: tick 0
// selects the first country alone, each following tick grows the prefix by
// one, and after the full list the cycle restarts at a single country.
// An empty country list yields an empty selection.
func SelectionForTick(all []string, n int) []string {
	if len(all) == 0 {
		return nil
	}
	return all[:n%len(all)+1]
}

// Advance consumes the current counter, increments it, and returns the
// selection for the consumed tick. The previous selection plays no part in
// the result; the cycle depends only on the full list and the counter.
func (s *Sequencer) Advance(all, prev []string) []string {
	selection := SelectionForTick(all, s.tick)
	s.tick++
	return selection
}
