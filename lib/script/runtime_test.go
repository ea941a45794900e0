package script

import (
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime_RunScript(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	result, err := rt.RunScript("add.js", "1 + 2")
	require.NoError(t, err)
	assert.EqualValues(t, 3, result)
}

func TestRuntime_RunScript_CompileError(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	_, err := rt.RunScript("bad.js", "function {")
	assert.Error(t, err)
}

func TestRuntime_RunScript_ThrowPropagates(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	_, err := rt.RunScript("throw.js", `throw new Error("boom")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRuntime_StatePersistsAcrossScripts(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()

	_, err := rt.RunScript("a.js", "globalThis.counter = 41")
	require.NoError(t, err)

	result, err := rt.RunScript("b.js", "++globalThis.counter")
	require.NoError(t, err)
	assert.EqualValues(t, 42, result)
}

func TestRuntime_CloseRefusesWork(t *testing.T) {
	rt := NewRuntime()
	rt.Close()
	rt.Close() // idempotent

	ok := rt.Run(func(*goja.Runtime) { t.Error("job ran after close") })
	assert.False(t, ok)

	err := rt.RunSync(func(*goja.Runtime) error { return nil })
	assert.Error(t, err)
}

func TestLoopScheduler_Schedule(t *testing.T) {
	rt := NewRuntime()
	defer rt.Close()
	sched := NewLoopScheduler(rt)

	done := make(chan struct{})
	require.True(t, sched.Schedule(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled callback never ran")
	}
}

func TestLoopScheduler_RefusesAfterClose(t *testing.T) {
	rt := NewRuntime()
	rt.Close()
	sched := NewLoopScheduler(rt)

	assert.False(t, sched.Schedule(func() { t.Error("callback ran after close") }))
}
