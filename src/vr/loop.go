package vr

import (
	"time"

	"parallax/src/xr"
)

// idleDelay throttles the event loop while the session is not in a
// frame-cycle state. Without frame pacing from the runtime the loop
// would otherwise spin.
const idleDelay = 250 * time.Millisecond

// Run drives the application until the runtime asks it to go away:
// drain events, then either render a frame or idle. Draining always
// comes first so a pending stop is seen before committing to a frame.
func (a *App) Run() error {
	defer a.Destroy()

	for !a.session.QuitRequested() {
		if err := a.session.DrainEvents(); err != nil {
			return err
		}
		if a.session.QuitRequested() {
			break
		}
		if !a.session.RunFrameCycle() {
			time.Sleep(idleDelay)
			continue
		}
		if err := a.frame.RenderFrame(); err != nil {
			return err
		}
	}
	return nil
}

// Destroy tears the stack down in reverse creation order. Safe to call
// more than once and on a partially bootstrapped App.
func (a *App) Destroy() {
	warn := func(what string, err error) {
		if err != nil {
			Logger().Warn("teardown", "what", what, "error", err)
		}
	}

	if a.renderer != nil {
		a.renderer.Destroy()
		a.renderer = nil
	}
	if a.swapchains != nil {
		a.swapchains.Destroy()
		a.swapchains = nil
	}
	if a.space != xr.NullSpace {
		warn("space", a.rt.DestroySpace(a.space))
		a.space = xr.NullSpace
	}
	if a.session != nil {
		warn("session", a.session.Destroy())
		a.session = nil
	}
	if a.device != nil {
		a.device.Destroy()
		a.device = nil
	}
	if a.gfx != nil {
		a.gfx.Destroy()
		a.gfx = nil
	}
	if a.instance != xr.NullInstance {
		warn("instance", a.rt.DestroyInstance(a.instance))
		a.instance = xr.NullInstance
	}
}
