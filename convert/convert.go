// Package convert wires the wire/evt/streamdecoder/sequencer/replay
// pipeline together behind a single façade: push raw bytes or
// already-decoded events in, get a Perfetto trace out.
package convert

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/embtrace/embtrace/evt"
	"github.com/embtrace/embtrace/perfetto"
	"github.com/embtrace/embtrace/replay"
	"github.com/embtrace/embtrace/sequencer"
	"github.com/embtrace/embtrace/streamdecoder"
	"github.com/embtrace/embtrace/trace"
)

// TraceConverter accumulates trace data for one device session and
// produces its Perfetto artifact on demand: a single entry-point
// conversion object. Callers feed it bytes as they arrive (from a
// serial port, a saved binary log, whatever the transport is) without
// needing to know about frames, cores, or replay state.
type TraceConverter struct {
	mode    evt.Mode
	seq     *sequencer.Sequencer
	engine  *replay.Engine
	streams map[int]*streamdecoder.Decoder
	shared  *streamdecoder.Decoder // used by AddBinary (multi-core shared line)

	appliedCount int
}

// NewTraceConverter creates a converter for a device with coreCount
// cores running in the given mode.
func NewTraceConverter(coreCount int, mode evt.Mode) (*TraceConverter, error) {
	seq, err := sequencer.New(coreCount)
	if err != nil {
		return nil, err
	}
	traceMode := trace.ModeBareMetal
	if mode == evt.ModeFreeRTOS {
		traceMode = trace.ModeFreeRTOS
	}
	return &TraceConverter{
		mode:    mode,
		seq:     seq,
		engine:  replay.New(coreCount, traceMode),
		streams: make(map[int]*streamdecoder.Decoder),
		shared:  streamdecoder.New(mode),
	}, nil
}

// AddBinary feeds raw bytes from the single shared multi-core stream
// (events self-identify their core via evt.CoreID separators).
func (c *TraceConverter) AddBinary(data []byte) error {
	return c.AddEvents(c.shared.Push(data))
}

// AddEvents feeds already-decoded events from the shared multi-core
// stream.
func (c *TraceConverter) AddEvents(events []evt.Event) error {
	if err := c.seq.PushMultiCore(events); err != nil {
		return err
	}
	return c.drain()
}

// AddBinaryToCore feeds raw bytes known to originate from a specific
// core's own stream (one UART per core, for example).
func (c *TraceConverter) AddBinaryToCore(coreID int, data []byte) error {
	d, ok := c.streams[coreID]
	if !ok {
		d = streamdecoder.New(c.mode)
		c.streams[coreID] = d
	}
	return c.AddEventsToCore(coreID, d.Push(data))
}

// AddEventsToCore feeds already-decoded events known to originate from
// a specific core.
func (c *TraceConverter) AddEventsToCore(coreID int, events []evt.Event) error {
	if err := c.seq.PushForCore(coreID, events); err != nil {
		return fmt.Errorf("convert: core %d: %w", coreID, err)
	}
	return c.drain()
}

// drain applies every event newly made convertible by the last push.
func (c *TraceConverter) drain() error {
	batch, ok := c.seq.ConvertiblePrefix()
	if !ok {
		return nil
	}
	c.engine.Apply(batch)
	c.appliedCount += len(batch)
	return nil
}

// Trace returns the trace model reconstructed so far.
func (c *TraceConverter) Trace() *trace.Trace {
	return c.engine.Trace()
}

// Convert finalizes conversion (flushing the sequencer's deferred
// remainder as-is, since no further core will ever report past it)
// and returns the reconstructed model. It is safe to call repeatedly:
// the sequencer hands out each event only once, so a later call
// replays only the events pushed since the previous one, into the same
// trace, and only ever adds to it. Unterminated bytes left in a stream
// decoder and a missing ts resolution are logged as warnings.
func (c *TraceConverter) Convert() (*trace.Trace, error) {
	remainder := c.seq.Flush()
	c.engine.Apply(remainder)
	c.appliedCount += len(remainder)

	if c.appliedCount == 0 {
		return nil, fmt.Errorf("convert: zero convertible events at final convert() call")
	}
	if n := c.shared.BufferedBytes(); n > 0 {
		glog.Warningf("convert: %d unterminated byte(s) left in the shared stream", n)
	}
	for coreID, d := range c.streams {
		if n := d.BufferedBytes(); n > 0 {
			glog.Warningf("convert: %d unterminated byte(s) left in core %d's stream", n, coreID)
		}
	}
	t := c.engine.Trace()
	if t.TsResolutionNs == nil {
		glog.Warning("convert: no ts resolution declared, treating ticks as nanoseconds")
	}
	return t, nil
}

// GeneratePerfettoTrace finalizes conversion and serializes the result
// as a Perfetto trace in one step.
func (c *TraceConverter) GeneratePerfettoTrace() ([]byte, error) {
	t, err := c.Convert()
	if err != nil {
		return nil, err
	}
	return perfetto.Emit(t), nil
}
