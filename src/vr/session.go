package vr

import (
	"parallax/src/xr"
)

// Session owns the lifecycle of one runtime session. Every transition
// is driven by an externally delivered state-change event; the session
// never changes its own state. Two derived booleans gate the rest of
// the engine: runFrameCycle (may the frame engine run) and running
// (has begin-session been issued without a matching end-session).
type Session struct {
	rt         xr.Runtime
	instance   xr.Instance
	handle     xr.Session
	viewConfig xr.ViewConfigurationType

	state xr.SessionState

	running       bool
	runFrameCycle bool
	// quit is terminal. Once set, the outer loop must stop invoking
	// the frame engine and proceed to teardown.
	quit      bool
	destroyed bool
}

func NewSession(rt xr.Runtime, instance xr.Instance, handle xr.Session, viewConfig xr.ViewConfigurationType) *Session {
	return &Session{
		rt:         rt,
		instance:   instance,
		handle:     handle,
		viewConfig: viewConfig,
		state:      xr.SessionStateUnknown,
	}
}

func (s *Session) Handle() xr.Session       { return s.handle }
func (s *Session) State() xr.SessionState   { return s.state }
func (s *Session) Running() bool            { return s.running }
func (s *Session) RunFrameCycle() bool      { return s.runFrameCycle }
func (s *Session) QuitRequested() bool      { return s.quit }

// DrainEvents empties the runtime event queue without blocking.
// Draining must precede any frame wait: committing to a frame with a
// STOPPING or EXITING transition still queued means acting on a
// session that is already gone.
func (s *Session) DrainEvents() error {
	for {
		ev, ok, err := s.rt.PollEvent(s.instance)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		switch ev.Type {
		case xr.EventTypeSessionStateChanged:
			if err := s.HandleStateChange(ev.State); err != nil {
				return err
			}
		case xr.EventTypeInstanceLossPending:
			Logger().Error("instance loss pending", "time", int64(ev.Time))
			s.runFrameCycle = false
			s.quit = true
		case xr.EventTypeEventsLost:
			Logger().Warn("runtime event queue overflowed", "lost", ev.LostEventCount)
		default:
			Logger().Debug("ignoring runtime event", "type", int32(ev.Type))
		}
	}
}

// HandleStateChange applies one state-change event. Begin and end are
// idempotent: the running guard keeps a repeated READY or STOPPING
// from double-issuing.
func (s *Session) HandleStateChange(state xr.SessionState) error {
	Logger().Info("session state change", "from", s.state.String(), "to", state.String())
	s.state = state

	switch state {
	case xr.SessionStateReady:
		if !s.running {
			if err := s.rt.BeginSession(s.handle, s.viewConfig); err != nil {
				return err
			}
			s.running = true
		}
		s.runFrameCycle = true
	case xr.SessionStateSynchronized, xr.SessionStateVisible, xr.SessionStateFocused:
		s.runFrameCycle = true
	case xr.SessionStateStopping:
		s.runFrameCycle = false
		if s.running {
			if err := s.rt.EndSession(s.handle); err != nil {
				return err
			}
			s.running = false
		}
	case xr.SessionStateLossPending, xr.SessionStateExiting:
		// Terminal either way, whether or not the session was running.
		s.runFrameCycle = false
		if err := s.Destroy(); err != nil {
			return err
		}
		s.quit = true
	default:
		s.runFrameCycle = false
	}
	return nil
}

// Destroy destroys the session handle exactly once; later calls are
// no-ops.
func (s *Session) Destroy() error {
	if s.destroyed || s.handle == xr.NullSession {
		return nil
	}
	s.destroyed = true
	s.running = false
	s.runFrameCycle = false
	return s.rt.DestroySession(s.handle)
}
