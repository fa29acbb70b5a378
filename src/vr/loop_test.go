package vr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vk "github.com/vulkan-go/vulkan"

	"parallax/src/xr"
)

func newTestApp(t *testing.T, rt *scriptedRuntime) *App {
	t.Helper()
	frame, session, _ := newTestFrameCycle(t, rt)
	return &App{
		cfg:        DefaultConfig(),
		rt:         rt,
		instance:   xr.Instance(1),
		session:    session,
		space:      xr.Space(3),
		swapchains: frame.swapchains,
		frame:      frame,
	}
}

func TestRunUntilRuntimeExits(t *testing.T) {
	rt := newScriptedRuntime()
	rt.pushEvents(stateEvent(xr.SessionStateReady))
	rt.eventBatches = [][]xr.Event{
		{},
		{stateEvent(xr.SessionStateFocused)},
		{stateEvent(xr.SessionStateStopping), stateEvent(xr.SessionStateExiting)},
	}
	app := newTestApp(t, rt)

	require.NoError(t, app.Run())

	assert.Equal(t, 3, rt.waitFrameCalls)
	assert.Equal(t, 3, rt.endFrameCalls)
	assert.Equal(t, 1, rt.beginSessionCalls)
	assert.Equal(t, 1, rt.endSessionCalls)
	assert.Equal(t, 1, rt.destroySessionCalls)
}

func TestRunQuitsOnInstanceLoss(t *testing.T) {
	rt := newScriptedRuntime()
	rt.pushEvents(xr.Event{Type: xr.EventTypeInstanceLossPending})
	app := newTestApp(t, rt)

	require.NoError(t, app.Run())
	assert.Zero(t, rt.waitFrameCalls)
}

func TestRunTearsDownInOrder(t *testing.T) {
	rt := newScriptedRuntime()
	rt.pushEvents(xr.Event{Type: xr.EventTypeInstanceLossPending})
	app := newTestApp(t, rt)

	require.NoError(t, app.Run())

	n := len(rt.trace)
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, "destroySpace", rt.trace[n-3])
	assert.Equal(t, "destroySession", rt.trace[n-2])
	assert.Equal(t, "destroyInstance", rt.trace[n-1])
}

func TestDestroyIdempotent(t *testing.T) {
	rt := newScriptedRuntime()
	app := newTestApp(t, rt)

	app.Destroy()
	app.Destroy()

	assert.Equal(t, 1, rt.destroySessionCalls)
	assert.Equal(t, 1, countPrefix(rt.trace, "destroyInstance"))
	assert.Equal(t, 4, countPrefix(rt.trace, "destroySwapchain"))
	assert.Nil(t, app.session)
	assert.Equal(t, xr.NullInstance, app.instance)
}

// keep the compiler honest about the fake satisfying the contract
var _ xr.Runtime = (*scriptedRuntime)(nil)
var _ ViewRenderer = (*fakeRenderer)(nil)

func TestFakeRuntimeRejectsDoubleAcquire(t *testing.T) {
	rt := newScriptedRuntime()
	sc, err := rt.CreateSwapchain(xr.Session(2), &xr.SwapchainCreateInfo{
		Format: vk.FormatR8g8b8a8Srgb, Width: 16, Height: 16,
		SampleCount: 1, FaceCount: 1, ArraySize: 1, MipCount: 1,
	})
	require.NoError(t, err)

	_, err = rt.AcquireSwapchainImage(sc)
	require.NoError(t, err)
	_, err = rt.AcquireSwapchainImage(sc)
	assert.Error(t, err)

	require.NoError(t, rt.ReleaseSwapchainImage(sc))
	assert.Error(t, rt.ReleaseSwapchainImage(sc))
}
