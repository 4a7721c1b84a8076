// Package streamdecoder turns a raw byte stream from one trace source
// (one core, or one shared multi-core line) into a sequence of typed
// events, splitting on COBS frame terminators as bytes arrive.
package streamdecoder

import (
	"github.com/golang/glog"

	"github.com/embtrace/embtrace/evt"
	"github.com/embtrace/embtrace/wire"
)

// Decoder accumulates bytes for a single source and emits one event
// per completed frame. It is restartable across calls of arbitrary
// size and holds no goroutines or locks: Push is expected to be called
// from a single cooperative loop, buffering a partial frame plus the
// last-seen timestamp across calls the same way a single-threaded
// streaming decoder typically does.
type Decoder struct {
	mode    evt.Mode
	buf     []byte
	lastTs  *uint64
	empties int
}

// New creates a stream decoder for the given mode.
func New(mode evt.Mode) *Decoder {
	return &Decoder{mode: mode}
}

// EmptyFrames reports how many lone-0x00 frames have been observed so
// far (§9 "open questions resolved" (c) in SPEC_FULL.md): a cheap
// counter alongside the warning log.
func (d *Decoder) EmptyFrames() int { return d.empties }

// BufferedBytes reports how many unterminated bytes are currently
// buffered, awaiting the next frame terminator.
func (d *Decoder) BufferedBytes() int { return len(d.buf) }

// Push appends input bytes and returns one decoded event per completed
// non-empty frame found within them (possibly none, possibly several).
// A lone 0x00 (an empty frame) is a warning-only condition, counted by
// EmptyFrames, and never synthesizes an event of its own.
func (d *Decoder) Push(input []byte) []evt.Event {
	var out []evt.Event
	for _, b := range input {
		if b == 0x00 {
			if ev, ok := d.processFrame(); ok {
				out = append(out, ev)
			}
			d.buf = d.buf[:0]
			continue
		}
		d.buf = append(d.buf, b)
	}
	return out
}

func (d *Decoder) processFrame() (evt.Event, bool) {
	if len(d.buf) == 0 {
		d.empties++
		glog.Warning("streamdecoder: empty COBS frame, ignoring")
		return nil, false
	}

	payload, err := wire.DecodeCOBS(d.buf)
	if err != nil {
		glog.Warningf("streamdecoder: could not decode frame: %v", err)
		return evt.Invalid{Ts: d.lastTs, Err: err}, true
	}

	ev, err := evt.Parse(payload, d.mode)
	if err != nil {
		glog.Warningf("streamdecoder: could not decode event: %v", err)
		return evt.Invalid{Ts: d.lastTs, Err: err}, true
	}

	if ts, ok := ev.Timestamp(); ok {
		d.lastTs = &ts
	}
	return ev, true
}
