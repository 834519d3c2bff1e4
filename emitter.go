package arena2d

// Emitter is a named-channel listener registry. Every Node embeds one.
//
// Backed by an arbitrary string-keyed map, rather than a fixed set of
// per-scene slices, so any node can register listeners on any channel
// name, not just the built-in interaction events.
type Emitter struct {
	channels map[string][]*listener
	nextID   uint32
}

type listener struct {
	id        uint32
	fn        func(any)
	tombstone bool
}

// ListenerHandle lets a caller remove a listener registered with On/Once.
type ListenerHandle struct {
	channel string
	id      uint32
}

func (e *Emitter) ensure() {
	if e.channels == nil {
		e.channels = make(map[string][]*listener)
	}
}

// On registers fn on channel and returns a handle for later removal.
func (e *Emitter) On(channel string, fn func(payload any)) ListenerHandle {
	e.ensure()
	e.nextID++
	id := e.nextID
	e.channels[channel] = append(e.channels[channel], &listener{id: id, fn: fn})
	return ListenerHandle{channel: channel, id: id}
}

// Once registers fn to fire at most once on channel, then auto-removes
// itself.
func (e *Emitter) Once(channel string, fn func(payload any)) ListenerHandle {
	var handle ListenerHandle
	wrapper := func(payload any) {
		e.Off(handle)
		fn(payload)
	}
	handle = e.On(channel, wrapper)
	return handle
}

// Off removes a previously registered listener. No-op if the handle is
// stale or was never registered.
//
// If Off is called on the currently-iterated listener's not-yet-called
// successor during an Emit, that successor is tombstoned in place so the
// in-flight iteration skips it rather than calling a "removed" handler.
func (e *Emitter) Off(h ListenerHandle) {
	if e.channels == nil {
		return
	}
	list := e.channels[h.channel]
	for i, l := range list {
		if l.id == h.id {
			l.tombstone = true
			copy(list[i:], list[i+1:])
			list = list[:len(list)-1]
			e.channels[h.channel] = list
			return
		}
	}
}

// HasListener reports whether channel has at least one live listener. Used
// by the drag manager to find drop targets: a node only counts as a drop
// target if it has a registered dragenter or drop handler.
func (e *Emitter) HasListener(channel string) bool {
	if e.channels == nil {
		return false
	}
	return len(e.channels[channel]) > 0
}

// Emit fires every listener registered on channel at the moment Emit is
// called, iterating a snapshot: adding listeners during emit never fires
// them in the current emit, and removing a listener during emit skips it
// if it hasn't fired yet. Unknown/empty channels are a no-op.
func (e *Emitter) Emit(channel string, payload any) {
	if e.channels == nil {
		return
	}
	list := e.channels[channel]
	if len(list) == 0 {
		return
	}
	snapshot := make([]*listener, len(list))
	copy(snapshot, list)
	for _, l := range snapshot {
		if l.tombstone {
			continue
		}
		callListener(l, channel, payload)
	}
}

// callListener invokes one listener with a panic guard: a misbehaving
// handler is reported to the debug channel but never aborts the rest of
// the emit or the frame pipeline that triggered it.
func callListener(l *listener, channel string, payload any) {
	defer func() {
		if r := recover(); r != nil {
			debugWarn("listener on channel %q panicked: %v", channel, r)
		}
	}()
	l.fn(payload)
}
