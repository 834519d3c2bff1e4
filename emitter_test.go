package arena2d

import "testing"

func TestEmitterOnAndEmit(t *testing.T) {
	var e Emitter
	var got any
	calls := 0
	e.On("ping", func(payload any) {
		calls++
		got = payload
	})
	e.Emit("ping", "hello")
	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
	if got != "hello" {
		t.Fatalf("expected payload %q, got %v", "hello", got)
	}
}

func TestEmitterEmitUnknownChannelIsNoop(t *testing.T) {
	var e Emitter
	e.Emit("nothing-registered", 1) // must not panic
}

func TestEmitterOnceFiresOnlyOnce(t *testing.T) {
	var e Emitter
	calls := 0
	e.Once("tick", func(payload any) { calls++ })
	e.Emit("tick", nil)
	e.Emit("tick", nil)
	if calls != 1 {
		t.Fatalf("expected Once listener to fire once, got %d calls", calls)
	}
}

func TestEmitterOffRemovesListener(t *testing.T) {
	var e Emitter
	calls := 0
	h := e.On("x", func(payload any) { calls++ })
	e.Off(h)
	e.Emit("x", nil)
	if calls != 0 {
		t.Fatalf("expected 0 calls after Off, got %d", calls)
	}
}

func TestEmitterOffDuringEmitSkipsSuccessor(t *testing.T) {
	var e Emitter
	var secondHandle ListenerHandle
	firstCalled := false
	secondCalled := false

	e.On("race", func(payload any) {
		firstCalled = true
		e.Off(secondHandle)
	})
	secondHandle = e.On("race", func(payload any) {
		secondCalled = true
	})

	e.Emit("race", nil)

	if !firstCalled {
		t.Fatal("expected first listener to run")
	}
	if secondCalled {
		t.Fatal("expected second listener to be skipped once removed mid-emit")
	}
}

func TestEmitterAddDuringEmitDoesNotFireThisEmit(t *testing.T) {
	var e Emitter
	laterCalled := false
	e.On("grow", func(payload any) {
		e.On("grow", func(payload any) { laterCalled = true })
	})
	e.Emit("grow", nil)
	if laterCalled {
		t.Fatal("listener added during emit must not fire in the same emit")
	}
	e.Emit("grow", nil)
	if !laterCalled {
		t.Fatal("listener added during the previous emit should fire on the next one")
	}
}

func TestEmitterSurvivesPanickingListener(t *testing.T) {
	var e Emitter
	secondCalled := false
	e.On("boom", func(payload any) { panic("listener exploded") })
	e.On("boom", func(payload any) { secondCalled = true })

	e.Emit("boom", nil) // must not propagate the panic

	if !secondCalled {
		t.Fatal("a panicking listener must not prevent later listeners from running")
	}
}

func TestEmitterHasListener(t *testing.T) {
	var e Emitter
	if e.HasListener("drop") {
		t.Fatal("expected no listener on a fresh Emitter")
	}
	e.On("drop", func(payload any) {})
	if !e.HasListener("drop") {
		t.Fatal("expected HasListener to report true after On")
	}
}
