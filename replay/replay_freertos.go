package replay

import (
	"github.com/golang/glog"

	"github.com/embtrace/embtrace/evt"
	"github.com/embtrace/embtrace/trace"
)

// applyFreeRTOS handles the FreeRTOS-mode event variants, grounded
// event-for-event on the device's documented event semantics.
func (e *Engine) applyFreeRTOS(coreID int, ev evt.Event) {
	core := e.t.Core(coreID)

	switch v := ev.(type) {
	case evt.TaskSwitchedIn:
		e.onTaskSwitchedIn(core, v)
	case evt.TaskToRdyState:
		task := e.t.Tasks.GetOrCreate(int(v.TaskID))
		if !task.IsRunning() {
			task.State.Push(v.Ts, trace.TaskReady{})
		}
	case evt.TaskResumed:
		e.t.Tasks.GetOrCreate(int(v.TaskID)).State.Push(v.Ts, trace.TaskReady{})
	case evt.TaskResumedFromIsr:
		e.t.Tasks.GetOrCreate(int(v.TaskID)).State.Push(v.Ts, trace.TaskReady{})
	case evt.TaskSuspended:
		e.onTaskSuspended(core, v)
	case evt.CurtaskDelay:
		e.onCurtaskBlocked(core, v.Ts, trace.BlockDelay{Ticks: v.Ticks})
	case evt.CurtaskDelayUntil:
		e.onCurtaskBlocked(core, v.Ts, trace.BlockDelayUntil{TimeToWake: v.TimeToWake})
	case evt.TaskPrioritySet:
		e.t.Tasks.GetOrCreate(int(v.TaskID)).Priority.Push(v.Ts, v.Priority)
	case evt.TaskPriorityInherit:
		e.t.Tasks.GetOrCreate(int(v.TaskID)).Priority.Push(v.Ts, v.Priority)
	case evt.TaskPriorityDisinherit:
		e.t.Tasks.GetOrCreate(int(v.TaskID)).Priority.Push(v.Ts, v.Priority)
	case evt.TaskCreated:
		e.t.Tasks.EnsureExists(int(v.TaskID))
	case evt.TaskDeleted:
		e.onTaskDeleted(core, v)

	case evt.QueueCreated:
		e.t.Queues.EnsureExists(int(v.QueueID))
	case evt.QueueSend:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.LenAfter, true)
	case evt.QueueOverwrite:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.LenAfter, true)
	case evt.QueueReceive:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.LenAfter, true)
	case evt.QueueSendFromIsr:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.LenAfter, false)
	case evt.QueueOverwriteFromIsr:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.LenAfter, false)
	case evt.QueueReceiveFromIsr:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.LenAfter, false)
	case evt.QueueReset:
		e.pushQueueState(core, v.Ts, int(v.QueueID), 0, true)
	case evt.QueueCurLength:
		e.pushQueueState(core, v.Ts, int(v.QueueID), v.Length, true)

	case evt.CurtaskBlockOnQueuePeek:
		e.t.Queues.EnsureExists(int(v.QueueID))
		e.onCurtaskBlocked(core, v.Ts, trace.BlockQueuePeek{QueueID: int(v.QueueID)})
	case evt.CurtaskBlockOnQueueSend:
		e.t.Queues.EnsureExists(int(v.QueueID))
		e.onCurtaskBlocked(core, v.Ts, trace.BlockQueueSend{QueueID: int(v.QueueID)})
	case evt.CurtaskBlockOnQueueReceive:
		e.t.Queues.EnsureExists(int(v.QueueID))
		e.onCurtaskBlocked(core, v.Ts, trace.BlockQueueReceive{QueueID: int(v.QueueID)})

	case evt.TaskEvtmarker:
		e.onCurrentTaskEvtMarker(core, v.Ts, int(v.EvtmarkerID), trace.UserEvtInstant{Msg: v.Msg})
	case evt.TaskEvtmarkerBegin:
		e.onCurrentTaskEvtMarker(core, v.Ts, int(v.EvtmarkerID), trace.UserEvtSliceBegin{Msg: v.Msg})
	case evt.TaskEvtmarkerEnd:
		e.onCurrentTaskEvtMarker(core, v.Ts, int(v.EvtmarkerID), trace.UserEvtSliceEnd{})
	case evt.TaskValmarker:
		e.onCurrentTaskValMarker(core, v.Ts, int(v.ValmarkerID), v.Val)

	case evt.TaskName:
		task := e.t.Tasks.GetOrCreate(int(v.TaskID))
		e.setNameWithOverrideWarning(&task.Name, v.Name, "task", int(v.TaskID))
	case evt.QueueName:
		q := e.t.Queues.GetOrCreate(int(v.QueueID))
		e.setNameWithOverrideWarning(&q.Name, v.Name, "queue", int(v.QueueID))
	case evt.TaskIsIdleTask:
		e.onTaskKind(int(v.TaskID), trace.TaskKindIdle{CoreID: int(v.CoreID)})
	case evt.TaskIsTimerTask:
		e.onTaskKind(int(v.TaskID), trace.TaskKindTimerSvc{})
	case evt.TaskEvtmarkerName:
		task := e.t.Tasks.GetOrCreate(int(v.TaskID))
		m := task.UserEvtMarkers.GetOrCreate(int(v.EvtmarkerID))
		e.setNameWithOverrideWarning(&m.Name, v.Name, "task event marker", int(v.EvtmarkerID))
	case evt.TaskValmarkerName:
		task := e.t.Tasks.GetOrCreate(int(v.TaskID))
		m := task.UserValMarkers.GetOrCreate(int(v.ValmarkerID))
		e.setNameWithOverrideWarning(&m.Name, v.Name, "task value marker", int(v.ValmarkerID))
	case evt.QueueKindEvt:
		e.onQueueKind(int(v.QueueID), trace.FromWireQueueKind(v.Kind))
	}
}

func (e *Engine) onTaskSwitchedIn(core *trace.CoreTrace, v evt.TaskSwitchedIn) {
	if core.CurrentTaskID != nil {
		prev := e.t.Tasks.GetOrCreate(*core.CurrentTaskID)
		prev.State.Push(v.Ts, prev.StateWhenSwitchedOut)
	}
	next := e.t.Tasks.GetOrCreate(int(v.TaskID))
	next.StateWhenSwitchedOut = trace.TaskReady{}
	next.State.Push(v.Ts, trace.TaskRunning{CoreID: core.ID})
	id := int(v.TaskID)
	core.CurrentTaskID = &id
}

func (e *Engine) onTaskSuspended(core *trace.CoreTrace, v evt.TaskSuspended) {
	task := e.t.Tasks.GetOrCreate(int(v.TaskID))
	by := copyIntPtr(core.CurrentTaskID)
	if task.IsRunning() {
		task.StateWhenSwitchedOut = trace.TaskSuspendedState{By: by}
		return
	}
	task.State.Push(v.Ts, trace.TaskSuspendedState{By: by})
}

func (e *Engine) onTaskDeleted(core *trace.CoreTrace, v evt.TaskDeleted) {
	task := e.t.Tasks.GetOrCreate(int(v.TaskID))
	by := copyIntPtr(core.CurrentTaskID)
	if task.IsRunning() {
		task.StateWhenSwitchedOut = trace.TaskDeletedState{By: by}
		return
	}
	task.State.Push(v.Ts, trace.TaskDeletedState{By: by})
}

// onCurtaskBlocked sets the current task's pending switched-out state
// to a blocking reason; if no task is scheduled on this core, it
// records a NoCurrentTask diagnostic instead.
func (e *Engine) onCurtaskBlocked(core *trace.CoreTrace, ts uint64, reason trace.TaskBlockingReason) {
	if core.CurrentTaskID == nil {
		e.noCurrentTask(core.ID, ts)
		return
	}
	task := e.t.Tasks.GetOrCreate(*core.CurrentTaskID)
	task.StateWhenSwitchedOut = trace.TaskBlocked{Reason: reason}
}

func (e *Engine) pushQueueState(core *trace.CoreTrace, ts uint64, queueID int, fill uint32, attributeToCurrentTask bool) {
	q := e.t.Queues.GetOrCreate(queueID)
	var by *int
	if attributeToCurrentTask {
		by = copyIntPtr(core.CurrentTaskID)
	}
	q.State.Push(ts, trace.QueueState{Fill: fill, ByTask: by})
}

// onCurrentTaskEvtMarker requires a current task on core (recording
// NoCurrentTask otherwise) and, once confirmed, records the marker
// against that task's own marker registry.
func (e *Engine) onCurrentTaskEvtMarker(core *trace.CoreTrace, ts uint64, markerID int, marker trace.UserEvtMarker) {
	if core.CurrentTaskID == nil {
		e.noCurrentTask(core.ID, ts)
		return
	}
	task := e.t.Tasks.GetOrCreate(*core.CurrentTaskID)
	task.UserEvtMarkers.GetOrCreate(markerID).Markers.Push(ts, marker)
}

func (e *Engine) onCurrentTaskValMarker(core *trace.CoreTrace, ts uint64, markerID int, val int64) {
	if core.CurrentTaskID == nil {
		e.noCurrentTask(core.ID, ts)
		return
	}
	task := e.t.Tasks.GetOrCreate(*core.CurrentTaskID)
	task.UserValMarkers.GetOrCreate(markerID).Vals.Push(ts, val)
}

func (e *Engine) onTaskKind(taskID int, newKind trace.TaskKind) {
	task := e.t.Tasks.GetOrCreate(taskID)
	if _, isNormal := task.Kind.(trace.TaskKindNormal); !isNormal && !taskKindEquals(task.Kind, newKind) {
		glog.Warningf("replay: task #%d kind overridden: %s -> %s", taskID, task.Kind, newKind)
	}
	task.Kind = newKind
}

func (e *Engine) onQueueKind(queueID int, newKind trace.QueueKind) {
	q := e.t.Queues.GetOrCreate(queueID)
	if q.KindSet && q.Kind == newKind && newKind != trace.QueueKindQueue {
		glog.Warningf("replay: queue #%d kind re-announced as %s (already set)", queueID, newKind)
	}
	q.Kind = newKind
	q.KindSet = true
}

func taskKindEquals(a, b trace.TaskKind) bool {
	switch av := a.(type) {
	case trace.TaskKindNormal:
		_, ok := b.(trace.TaskKindNormal)
		return ok
	case trace.TaskKindIdle:
		bv, ok := b.(trace.TaskKindIdle)
		return ok && bv.CoreID == av.CoreID
	case trace.TaskKindTimerSvc:
		_, ok := b.(trace.TaskKindTimerSvc)
		return ok
	default:
		return false
	}
}

func copyIntPtr(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
