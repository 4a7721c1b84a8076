package trace

import "fmt"

// TaskBlockingReason is why a task is in TaskState Blocked.
type TaskBlockingReason interface{ isBlockingReason() }

type BlockDelay struct{ Ticks uint32 }
type BlockDelayUntil struct{ TimeToWake uint32 }
type BlockQueuePeek struct{ QueueID int }
type BlockQueueSend struct{ QueueID int }
type BlockQueueReceive struct{ QueueID int }

func (BlockDelay) isBlockingReason()        {}
func (BlockDelayUntil) isBlockingReason()   {}
func (BlockQueuePeek) isBlockingReason()    {}
func (BlockQueueSend) isBlockingReason()    {}
func (BlockQueueReceive) isBlockingReason() {}

// RichName describes the blocking reason in terms of the trace's
// entity names, e.g. "Receive from Queue my_q (#3)".
func RichName(r TaskBlockingReason, t *Trace) string {
	switch b := r.(type) {
	case BlockDelay:
		return fmt.Sprintf("Delay for %d ticks", b.Ticks)
	case BlockDelayUntil:
		return fmt.Sprintf("Delay until tick %d", b.TimeToWake)
	case BlockQueuePeek:
		return fmt.Sprintf("Receive %s", t.NameQueue(b.QueueID))
	case BlockQueueSend:
		return fmt.Sprintf("Send to %s", t.NameQueue(b.QueueID))
	case BlockQueueReceive:
		return fmt.Sprintf("Receive from %s", t.NameQueue(b.QueueID))
	default:
		return "Blocked"
	}
}

// TaskState is the closed set of states a task can occupy.
type TaskState interface{ isTaskState() }

type TaskRunning struct{ CoreID int }
type TaskReady struct{}
type TaskBlocked struct{ Reason TaskBlockingReason }
type TaskSuspendedState struct{ By *int }
type TaskDeletedState struct{ By *int }

func (TaskRunning) isTaskState()        {}
func (TaskReady) isTaskState()          {}
func (TaskBlocked) isTaskState()        {}
func (TaskSuspendedState) isTaskState() {}
func (TaskDeletedState) isTaskState()   {}

// RichTaskStateName describes a task state for display, in terms of
// the trace's entity names.
func RichTaskStateName(s TaskState, t *Trace) string {
	switch st := s.(type) {
	case TaskRunning:
		return fmt.Sprintf("Running (core %d)", st.CoreID)
	case TaskReady:
		return "Ready"
	case TaskBlocked:
		return RichName(st.Reason, t)
	case TaskSuspendedState:
		if st.By != nil {
			return fmt.Sprintf("Suspended (by %s)", t.NameTask(*st.By))
		}
		return "Suspended"
	case TaskDeletedState:
		if st.By != nil {
			return fmt.Sprintf("Deleted (by %s)", t.NameTask(*st.By))
		}
		return "Deleted"
	default:
		return "Unknown"
	}
}

// TaskKind classifies a task for display and for the Perfetto
// emitter's idle-task special casing (idle tasks never own a slice on
// their core's stacked track).
type TaskKind interface {
	isTaskKind()
	String() string
}

type TaskKindNormal struct{}
type TaskKindIdle struct{ CoreID int }
type TaskKindTimerSvc struct{}

func (TaskKindNormal) isTaskKind()   {}
func (TaskKindIdle) isTaskKind()     {}
func (TaskKindTimerSvc) isTaskKind() {}

func (TaskKindNormal) String() string   { return "normal" }
func (k TaskKindIdle) String() string   { return fmt.Sprintf("idle (core %d)", k.CoreID) }
func (TaskKindTimerSvc) String() string { return "timer svc" }

// TaskTrace is one task's identity and state history. User event/value
// markers raised from task context (TaskEvtmarker/TaskValmarker) are
// validity-gated on a current task existing and are owned by the task
// that was current when they were raised: each task has its own
// evtmarker/valmarker id space, not a single trace-wide one.
type TaskTrace struct {
	ID       int
	Name     string
	Kind     TaskKind
	State    Timeseries[TaskState]
	Priority Timeseries[uint32]

	UserEvtMarkers *ObjectMap[UserEvtMarkerTrace]
	UserValMarkers *ObjectMap[UserValMarkerTrace]

	// StateWhenSwitchedOut is the state to record for this task the
	// next time it is switched out (or, if it never runs again,
	// simply appended directly by the event that set it).
	StateWhenSwitchedOut TaskState
}

func newTaskTrace(id int) *TaskTrace {
	return &TaskTrace{
		ID:                   id,
		Kind:                 TaskKindNormal{},
		StateWhenSwitchedOut: TaskReady{},
		UserEvtMarkers:       NewObjectMap(func(id int) *UserEvtMarkerTrace { return newUserEvtMarkerTrace(id) }),
		UserValMarkers:       NewObjectMap(func(id int) *UserValMarkerTrace { return newUserValMarkerTrace(id) }),
	}
}

// IsRunning reports whether the task's last recorded state is Running.
func (t *TaskTrace) IsRunning() bool {
	last, ok := t.State.Last()
	if !ok {
		return false
	}
	_, running := last.Value.(TaskRunning)
	return running
}
