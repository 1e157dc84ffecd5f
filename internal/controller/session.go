package controller

import "context"

// Session drives the state machine synchronously: every effect is run to completion and
// its event applied before Dispatch returns. Banner timers are skipped unless WaitTimers
// is set. Used by the scriptable CLI, where there is no event loop.
type Session struct {
	Runner     Runner
	WaitTimers bool

	state State
}

// NewSession starts a session from s.
func NewSession(r Runner, s State) *Session {
	return &Session{Runner: r, state: s}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Dispatch applies ev and every event its effects produce, in order.
func (s *Session) Dispatch(ctx context.Context, ev Event) State {
	queue := []Event{ev}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		var effs []Effect
		s.state, effs = Update(s.state, next)
		for _, eff := range effs {
			if _, ok := eff.(StartBannerTimer); ok && !s.WaitTimers {
				continue
			}
			if err := ctx.Err(); err != nil {
				return s.state
			}
			if done := s.Runner.Run(ctx, eff); done != nil {
				queue = append(queue, done)
			}
		}
	}
	return s.state
}
