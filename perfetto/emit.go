package perfetto

import (
	"fmt"

	"github.com/embtrace/embtrace/evt"
	"github.com/embtrace/embtrace/trace"
)

// pid layout, matching the documented generate_perfetto
// pid-offset scheme: core processes start at corePidOffset, leaving room
// below for a dedicated global process; FreeRTOS task processes start
// past every possible core pid so the two id spaces never collide.
const corePidOffset = 1

func rtosPidOffset(coreCount int) int32 {
	if coreCount+1 > 20 {
		return int32(coreCount + 1)
	}
	return 20
}

// Emit serializes t into a complete Perfetto trace.
func Emit(t *trace.Trace) []byte {
	e := NewEmitter()

	globalPid := int32(0)
	globalProc := e.NewProcessTrack(globalPid, "Device Trace")
	errTrack := e.NewTrack(globalProc, "Tracing Errors")
	emitErrorTrack(e, t, errTrack)

	for _, id := range t.UserEvtMarkers.Ids() {
		m := t.UserEvtMarkers.Get(id)
		track := e.NewTrack(globalProc, displayOr(m.Name, fmt.Sprintf("Event Marker #%d", id)))
		emitUserEvtMarkerTrack(e, t, track, m)
	}
	for _, id := range t.UserValMarkers.Ids() {
		m := t.UserValMarkers.Get(id)
		track := e.NewCounterTrack(globalProc, displayOr(m.Name, fmt.Sprintf("Value Marker #%d", id)), CounterUnitUnspecified)
		emitUserValMarkerTrack(e, t, track, m)
	}

	for _, id := range t.Queues.Ids() {
		q := t.Queues.Get(id)
		emitQueueTracks(e, t, globalProc, q)
	}

	taskPidBase := rtosPidOffset(t.CoreCount)
	for _, id := range t.Tasks.Ids() {
		task := t.Tasks.Get(id)
		emitTaskProcess(e, t, taskPidBase+int32(id), task)
	}

	for _, id := range t.Cores.Ids() {
		core := t.Cores.Get(id)
		emitCoreProcess(e, t, int32(corePidOffset+id), core)
	}

	return e.Bytes()
}

func displayOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func emitErrorTrack(e *Emitter, t *trace.Trace, track uint64) {
	for _, entry := range t.ErrorEvts.All() {
		ts := t.ConvertTs(entry.Ts)
		switch k := entry.Value.Kind.(type) {
		case trace.DroppedEvts:
			e.Instant(track, ts, fmt.Sprintf("Dropped %d events (total %d)", k.Dropped, k.Total))
		case trace.NoCurrentTask:
			e.Instant(track, ts, "No current task")
		case trace.InvalidEvent:
			e.Instant(track, ts, fmt.Sprintf("Invalid event: %v", k.Err))
		}
	}
}

func emitUserEvtMarkerTrack(e *Emitter, t *trace.Trace, track uint64, m *trace.UserEvtMarkerTrace) {
	for _, entry := range m.Markers.All() {
		ts := t.ConvertTs(entry.Ts)
		switch v := entry.Value.(type) {
		case trace.UserEvtInstant:
			e.Instant(track, ts, v.Msg)
		case trace.UserEvtSliceBegin:
			e.SliceBegin(track, ts, v.Msg)
		case trace.UserEvtSliceEnd:
			e.SliceEnd(track, ts)
		}
	}
}

func emitUserValMarkerTrack(e *Emitter, t *trace.Trace, track uint64, m *trace.UserValMarkerTrace) {
	for _, entry := range m.Vals.All() {
		e.CounterInt(track, t.ConvertTs(entry.Ts), entry.Value)
	}
}

// emitQueueTracks renders a mutex-like queue as a taken/available slice
// track and every other kind as a fill-level counter track.
func emitQueueTracks(e *Emitter, t *trace.Trace, parent uint64, q *trace.QueueTrace) {
	name := t.NameQueue(q.ID)
	if q.Kind.IsMutex() {
		track := e.NewTrack(parent, name)
		for i, entry := range q.State.All() {
			ts := t.ConvertTs(entry.Ts)
			if i != 0 {
				e.SliceEnd(track, ts)
			}
			label := "Available"
			if entry.Value.Fill == 0 {
				label = "Taken"
				if entry.Value.ByTask != nil {
					label = fmt.Sprintf("Taken by %s", t.NameTask(*entry.Value.ByTask))
				}
			}
			e.SliceBegin(track, ts, label)
		}
		return
	}
	track := e.NewCounterTrack(parent, name, CounterUnitCount)
	for _, entry := range q.State.All() {
		e.CounterInt(track, t.ConvertTs(entry.Ts), int64(entry.Value.Fill))
	}
}

// emitTaskProcess renders one FreeRTOS task as its own process: a
// running slice track, a state slice track, a priority counter track,
// and its per-task event/value marker sub-tracks.
func emitTaskProcess(e *Emitter, t *trace.Trace, pid int32, task *trace.TaskTrace) {
	name := t.NameTask(task.ID)
	proc := e.NewProcessTrack(pid, name)

	// "Running" track: one slice per contiguous stretch where the task
	// is scheduled on a core, regardless of state changes in between
	// (e.g. priority changes while running don't split the slice).
	runningTrack := e.NewTrack(proc, "Running")
	running := false
	for _, entry := range task.State.All() {
		ts := t.ConvertTs(entry.Ts)
		if _, ok := entry.Value.(trace.TaskRunning); ok {
			if !running {
				e.SliceBegin(runningTrack, ts, trace.RichTaskStateName(entry.Value, t))
				running = true
			}
			continue
		}
		if running {
			e.SliceEnd(runningTrack, ts)
			running = false
		}
	}

	// "State" track: the task's full state history, one slice per
	// entry spanning until the next state change.
	stateTrack := e.NewTrack(proc, "State")
	for i, entry := range task.State.All() {
		ts := t.ConvertTs(entry.Ts)
		if i != 0 {
			e.SliceEnd(stateTrack, ts)
		}
		e.SliceBegin(stateTrack, ts, trace.RichTaskStateName(entry.Value, t))
	}

	prioTrack := e.NewCounterTrack(proc, "Priority", CounterUnitUnspecified)
	for _, entry := range task.Priority.All() {
		e.CounterInt(prioTrack, t.ConvertTs(entry.Ts), int64(entry.Value))
	}

	for _, id := range task.UserEvtMarkers.Ids() {
		m := task.UserEvtMarkers.Get(id)
		track := e.NewTrack(proc, displayOr(m.Name, fmt.Sprintf("Event Marker #%d", id)))
		emitUserEvtMarkerTrack(e, t, track, m)
	}
	for _, id := range task.UserValMarkers.Ids() {
		m := task.UserValMarkers.Get(id)
		track := e.NewCounterTrack(proc, displayOr(m.Name, fmt.Sprintf("Value Marker #%d", id)), CounterUnitUnspecified)
		emitUserValMarkerTrack(e, t, track, m)
	}
}

// emitCoreProcess renders one core as its own process: a stacked
// track per task that ran on it, a slice track per ISR, and a raw
// "Trace Events" instant track mirroring every sequenced event.
func emitCoreProcess(e *Emitter, t *trace.Trace, pid int32, core *trace.CoreTrace) {
	proc := e.NewProcessTrack(pid, fmt.Sprintf("Core %d", core.ID))

	// One stacked "Running" track per task: a slice spans every
	// stretch this task is scheduled on this core. Idle tasks only
	// ever close a still-open slice (another task stepping in while
	// idle runs) and never open one of their own, so the core never
	// shows idle time as a running slice.
	for _, id := range t.Tasks.Ids() {
		task := t.Tasks.Get(id)
		track := e.NewTrack(proc, t.NameTask(id))

		onThisCore := false
		for _, entry := range task.State.All() {
			ts := t.ConvertTs(entry.Ts)
			rs, running := entry.Value.(trace.TaskRunning)
			if running && rs.CoreID == core.ID {
				if _, idle := task.Kind.(trace.TaskKindIdle); idle {
					if onThisCore {
						e.SliceEnd(track, ts)
						onThisCore = false
					}
					continue
				}
				if onThisCore {
					e.SliceEnd(track, ts)
				}
				e.SliceBegin(track, ts, t.NameTask(id))
				onThisCore = true
				continue
			}
			if onThisCore {
				e.SliceEnd(track, ts)
				onThisCore = false
			}
		}
	}

	for _, id := range core.ISRs.Ids() {
		isr := core.ISRs.Get(id)
		track := e.NewTrack(proc, t.NameISR(core.ID, id))
		for _, entry := range isr.State.All() {
			ts := t.ConvertTs(entry.Ts)
			switch entry.Value.(type) {
			case trace.ISRActive:
				e.SliceBegin(track, ts, t.NameISR(core.ID, id))
			case trace.ISRNotActive:
				e.SliceEnd(track, ts)
			}
		}
	}

	evtsTrack := e.NewTrack(proc, "Trace Events")
	for _, entry := range core.Evts.All() {
		e.Instant(evtsTrack, t.ConvertTs(entry.Ts), describeRawEvent(entry.Value.Raw))
	}
}

func describeRawEvent(ev evt.Event) string {
	return fmt.Sprintf("%T", ev)
}
