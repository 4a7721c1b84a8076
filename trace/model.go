// Package trace holds the reconstructed trace model: the set of
// entities (cores, tasks, queues, ISRs, markers) a replay pass builds
// up from a decoded event log, and the naming/unit-conversion helpers
// the Perfetto emitter reads back out.
package trace

import "fmt"

// Mode mirrors evt.Mode; kept as its own type here so trace has no
// import-time coupling to the event-parsing package beyond what the
// replay engine wires in explicitly.
type Mode int

const (
	ModeBareMetal Mode = iota
	ModeFreeRTOS
)

// Trace is the single owner of every reconstructed entity. Cross
// references between entities (a task "suspended by" another task, a
// queue "held by" a task) are stored as ids and resolved through this
// struct's registries, never as pointers — there is no shared
// ownership in this model.
type Trace struct {
	Mode      Mode
	CoreCount int

	// TsResolutionNs converts raw device ticks to nanoseconds; nil
	// until the stream declares one. While it is nil, ConvertTs falls
	// back to a 1:1 mapping.
	TsResolutionNs *uint64

	Cores  *ObjectMap[CoreTrace]
	Tasks  *ObjectMap[TaskTrace]
	Queues *ObjectMap[QueueTrace]

	UserEvtMarkers *ObjectMap[UserEvtMarkerTrace]
	UserValMarkers *ObjectMap[UserValMarkerTrace]

	ErrorEvts Timeseries[TraceErrMarker]

	DroppedEvtCnt uint32
}

// New builds an empty trace for a device with the given core count.
// Every core id in [0, coreCount) is pre-populated eagerly, since the
// core count is known up front and never changes mid-trace.
func New(coreCount int, mode Mode) *Trace {
	t := &Trace{
		Mode:      mode,
		CoreCount: coreCount,
	}
	t.Cores = NewObjectMap(func(id int) *CoreTrace { return newCoreTrace(id) })
	t.Tasks = NewObjectMap(func(id int) *TaskTrace { return newTaskTrace(id) })
	t.Queues = NewObjectMap(func(id int) *QueueTrace { return newQueueTrace(id) })
	t.UserEvtMarkers = NewObjectMap(func(id int) *UserEvtMarkerTrace { return newUserEvtMarkerTrace(id) })
	t.UserValMarkers = NewObjectMap(func(id int) *UserValMarkerTrace { return newUserValMarkerTrace(id) })

	for i := 0; i < coreCount; i++ {
		t.Cores.EnsureExists(i)
	}
	return t
}

// ConvertTs scales a raw device timestamp by the declared resolution,
// defaulting to 1 (raw ticks interpreted as nanoseconds) if the stream
// never declared one.
func (t *Trace) ConvertTs(ts uint64) uint64 {
	res := uint64(1)
	if t.TsResolutionNs != nil {
		res = *t.TsResolutionNs
	}
	return ts * res
}

// Core returns the core for id, which must be < CoreCount (every core
// in range is pre-populated by New).
func (t *Trace) Core(id int) *CoreTrace {
	c := t.Cores.Get(id)
	if c == nil {
		panic(fmt.Sprintf("trace: invalid core id %d (core_count=%d)", id, t.CoreCount))
	}
	return c
}

// NameTask renders a display name for a task, falling back to a bare
// id when no TaskName event has named it.
func (t *Trace) NameTask(id int) string {
	if task := t.Tasks.Get(id); task != nil && task.Name != "" {
		return fmt.Sprintf("Task %s (#%d)", task.Name, id)
	}
	return fmt.Sprintf("Task #%d", id)
}

// NameQueue renders a display name for a queue, including its kind.
func (t *Trace) NameQueue(id int) string {
	if q := t.Queues.Get(id); q != nil {
		if q.Name != "" {
			return fmt.Sprintf("%s %s (#%d)", q.Kind, q.Name, id)
		}
		return fmt.Sprintf("%s #%d", q.Kind, id)
	}
	return fmt.Sprintf("Queue #%d", id)
}

// NameISR renders a display name for an ISR on a given core.
func (t *Trace) NameISR(coreID, id int) string {
	if core := t.Cores.Get(coreID); core != nil {
		if isr := core.ISRs.Get(id); isr != nil && isr.Name != "" {
			return fmt.Sprintf("ISR %s (#%d)", isr.Name, id)
		}
	}
	return fmt.Sprintf("ISR #%d", id)
}

// NameUserEvtMarker renders a display name for a global user event marker.
func (t *Trace) NameUserEvtMarker(id int) string {
	if m := t.UserEvtMarkers.Get(id); m != nil && m.Name != "" {
		return fmt.Sprintf("Marker %s (#%d)", m.Name, id)
	}
	return fmt.Sprintf("Marker #%d", id)
}

// NameUserValMarker renders a display name for a global user value marker.
func (t *Trace) NameUserValMarker(id int) string {
	if m := t.UserValMarkers.Get(id); m != nil && m.Name != "" {
		return fmt.Sprintf("Value %s (#%d)", m.Name, id)
	}
	return fmt.Sprintf("Value #%d", id)
}
