package replay

import (
	"testing"

	"github.com/embtrace/embtrace/evt"
	"github.com/embtrace/embtrace/sequencer"
	"github.com/embtrace/embtrace/trace"
)

// The evt package embeds an unexported tsEvent struct to carry each
// trace event's timestamp; its Ts field is exported and promotes
// through selectors, but composite literals can't key a promoted
// field directly, so these helpers set it via assignment instead.

func mkTaskCreated(ts uint64, taskID uint32) evt.Event {
	e := evt.TaskCreated{TaskID: taskID}
	e.Ts = ts
	return e
}

func mkTaskSwitchedIn(ts uint64, taskID uint32) evt.Event {
	e := evt.TaskSwitchedIn{TaskID: taskID}
	e.Ts = ts
	return e
}

func mkTaskSuspended(ts uint64, taskID uint32) evt.Event {
	e := evt.TaskSuspended{TaskID: taskID}
	e.Ts = ts
	return e
}

func mkQueueCreated(ts uint64, queueID uint32) evt.Event {
	e := evt.QueueCreated{QueueID: queueID}
	e.Ts = ts
	return e
}

func mkQueueReceive(ts uint64, queueID, lenAfter uint32) evt.Event {
	e := evt.QueueReceive{QueueID: queueID, LenAfter: lenAfter}
	e.Ts = ts
	return e
}

func mkQueueSend(ts uint64, queueID, lenAfter uint32) evt.Event {
	e := evt.QueueSend{QueueID: queueID, LenAfter: lenAfter}
	e.Ts = ts
	return e
}

func mkDroppedEvtCnt(ts uint64, cnt uint32) evt.Event {
	e := evt.DroppedEvtCnt{Cnt: cnt}
	e.Ts = ts
	return e
}

func mkCurtaskDelay(ts uint64, ticks uint32) evt.Event {
	e := evt.CurtaskDelay{Ticks: ticks}
	e.Ts = ts
	return e
}

func tagged(coreID int, ts uint64, hasTs bool, e evt.Event) sequencer.Tagged {
	return sequencer.Tagged{CoreID: coreID, Ts: ts, HasTs: hasTs, Event: e}
}

// TestMinimalSingleCore grounds scenario S1: a task is created,
// switched in at ts=20 and suspended at ts=50, with ts_resolution_ns
// of 1000.
func TestMinimalSingleCore(t *testing.T) {
	eng := New(1, trace.ModeFreeRTOS)
	eng.Apply([]sequencer.Tagged{
		tagged(0, 0, false, evt.TsResolutionNs{NsPerTs: 1000}),
		tagged(0, 10, true, mkTaskCreated(10, 7)),
		tagged(0, 20, true, mkTaskSwitchedIn(20, 7)),
		tagged(0, 50, true, mkTaskSuspended(50, 7)),
	})

	tr := eng.Trace()
	if tr.TsResolutionNs == nil || *tr.TsResolutionNs != 1000 {
		t.Fatalf("TsResolutionNs = %v, want 1000", tr.TsResolutionNs)
	}
	if tr.ConvertTs(50) != 50000 {
		t.Fatalf("ConvertTs(50) = %d, want 50000", tr.ConvertTs(50))
	}

	task := tr.Tasks.Get(7)
	if task == nil {
		t.Fatal("task 7 was not created")
	}
	if task.State.Len() != 2 {
		t.Fatalf("task 7 state entries = %d, want 2 (Running then Suspended)", task.State.Len())
	}
	running := task.State.At(0)
	if running.Ts != 20 {
		t.Fatalf("first state entry ts = %d, want 20", running.Ts)
	}
	if _, ok := running.Value.(trace.TaskRunning); !ok {
		t.Fatalf("first state entry = %#v, want TaskRunning", running.Value)
	}
	suspended := task.State.At(1)
	if suspended.Ts != 50 {
		t.Fatalf("second state entry ts = %d, want 50", suspended.Ts)
	}
	if _, ok := suspended.Value.(trace.TaskSuspendedState); !ok {
		t.Fatalf("second state entry = %#v, want TaskSuspendedState", suspended.Value)
	}
}

// TestQueueMutexHold grounds scenario S4: a mutex is held by task 5
// from ts=100 to ts=200, then released.
func TestQueueMutexHold(t *testing.T) {
	eng := New(1, trace.ModeFreeRTOS)
	eng.Apply([]sequencer.Tagged{
		tagged(0, 0, true, mkQueueCreated(0, 3)),
		tagged(0, 0, false, evt.QueueKindEvt{QueueID: 3, Kind: evt.QueueKindMutex}),
		tagged(0, 0, true, mkTaskSwitchedIn(0, 5)),
		tagged(0, 100, true, mkQueueReceive(100, 3, 0)),
		tagged(0, 200, true, mkQueueSend(200, 3, 1)),
	})

	q := eng.Trace().Queues.Get(3)
	if q == nil {
		t.Fatal("queue 3 was not created")
	}
	if !q.Kind.IsMutex() {
		t.Fatalf("queue 3 kind = %v, want mutex-like", q.Kind)
	}
	if q.State.Len() != 2 {
		t.Fatalf("queue 3 state entries = %d, want 2", q.State.Len())
	}
	held := q.State.At(0)
	if held.Ts != 100 || held.Value.Fill != 0 || held.Value.ByTask == nil || *held.Value.ByTask != 5 {
		t.Fatalf("queue 3 first state = %+v, want {ts:100 fill:0 by:5}", held)
	}
	released := q.State.At(1)
	if released.Ts != 200 || released.Value.Fill != 1 {
		t.Fatalf("queue 3 second state = %+v, want {ts:200 fill:1}", released)
	}
}

// TestDroppedEvents grounds scenario S6: two DroppedEvtCnt events with
// cnt=3 then cnt=7 produce deltas of 3 and 4.
func TestDroppedEvents(t *testing.T) {
	eng := New(1, trace.ModeBareMetal)
	eng.Apply([]sequencer.Tagged{
		tagged(0, 10, true, mkDroppedEvtCnt(10, 3)),
		tagged(0, 20, true, mkDroppedEvtCnt(20, 7)),
	})

	tr := eng.Trace()
	if tr.ErrorEvts.Len() != 2 {
		t.Fatalf("error events = %d, want 2", tr.ErrorEvts.Len())
	}
	first := tr.ErrorEvts.At(0).Value.Kind.(trace.DroppedEvts)
	if first.Dropped != 3 || first.Total != 3 {
		t.Fatalf("first DroppedEvts = %+v, want {dropped:3 total:3}", first)
	}
	second := tr.ErrorEvts.At(1).Value.Kind.(trace.DroppedEvts)
	if second.Dropped != 4 || second.Total != 7 {
		t.Fatalf("second DroppedEvts = %+v, want {dropped:4 total:7}", second)
	}
}

func TestQueueKindRedundantSameValueWarnsButKeepsValue(t *testing.T) {
	eng := New(1, trace.ModeFreeRTOS)
	eng.Apply([]sequencer.Tagged{
		tagged(0, 0, false, evt.QueueKindEvt{QueueID: 1, Kind: evt.QueueKindBinarySemphr}),
		tagged(0, 0, false, evt.QueueKindEvt{QueueID: 1, Kind: evt.QueueKindBinarySemphr}),
	})
	q := eng.Trace().Queues.Get(1)
	if q.Kind != trace.QueueKindBinarySemphr {
		t.Fatalf("queue 1 kind = %v, want BinarySemphr", q.Kind)
	}
}

func TestNoCurrentTaskDiagnostic(t *testing.T) {
	eng := New(1, trace.ModeFreeRTOS)
	eng.Apply([]sequencer.Tagged{
		tagged(0, 5, true, mkCurtaskDelay(5, 10)),
	})
	tr := eng.Trace()
	if tr.ErrorEvts.Len() != 1 {
		t.Fatalf("error events = %d, want 1", tr.ErrorEvts.Len())
	}
	if _, ok := tr.ErrorEvts.At(0).Value.Kind.(trace.NoCurrentTask); !ok {
		t.Fatalf("error kind = %#v, want NoCurrentTask", tr.ErrorEvts.At(0).Value.Kind)
	}
}
