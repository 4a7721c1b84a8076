// Package replay walks a sequenced, timestamp-ordered event log and
// mutates a trace.Trace model to match it: task state machines, ISR
// activity, queue fills and mutex holders, and the global marker and
// diagnostic timelines.
package replay

import (
	"github.com/golang/glog"

	"github.com/embtrace/embtrace/evt"
	"github.com/embtrace/embtrace/sequencer"
	"github.com/embtrace/embtrace/trace"
)

// Engine owns the trace being built and applies one batch of
// sequenced events at a time. It is safe to call Apply repeatedly as
// more convertible events become available.
type Engine struct {
	t *trace.Trace
}

// New creates a replay engine with a fresh, empty trace.
func New(coreCount int, mode trace.Mode) *Engine {
	return &Engine{t: trace.New(coreCount, mode)}
}

// Trace returns the model built so far. The returned pointer remains
// live and is further mutated by subsequent Apply calls.
func (e *Engine) Trace() *trace.Trace { return e.t }

// Apply processes one convertible-prefix batch in order.
func (e *Engine) Apply(batch []sequencer.Tagged) {
	for _, tagged := range batch {
		e.applyOne(tagged.CoreID, tagged.Event)
	}
}

func (e *Engine) applyOne(coreID int, ev evt.Event) {
	core := e.t.Core(coreID)
	core.Evts.Push(tsOrZero(ev), trace.TraceEvtMarker{Raw: ev})

	switch v := ev.(type) {
	case evt.DroppedEvtCnt:
		e.onDroppedEvtCnt(coreID, v)
	case evt.IsrEnter:
		core.ISRs.GetOrCreate(int(v.IsrID)).Enter(v.Ts)
	case evt.IsrExit:
		core.ISRs.GetOrCreate(int(v.IsrID)).Exit(v.Ts)
	case evt.Evtmarker:
		e.t.UserEvtMarkers.GetOrCreate(int(v.EvtmarkerID)).Markers.Push(v.Ts, trace.UserEvtInstant{Msg: v.Msg})
	case evt.EvtmarkerBegin:
		e.t.UserEvtMarkers.GetOrCreate(int(v.EvtmarkerID)).Markers.Push(v.Ts, trace.UserEvtSliceBegin{Msg: v.Msg})
	case evt.EvtmarkerEnd:
		e.t.UserEvtMarkers.GetOrCreate(int(v.EvtmarkerID)).Markers.Push(v.Ts, trace.UserEvtSliceEnd{})
	case evt.Valmarker:
		e.t.UserValMarkers.GetOrCreate(int(v.ValmarkerID)).Vals.Push(v.Ts, v.Val)

	case evt.TsResolutionNs:
		e.onTsResolutionNs(v)
	case evt.IsrName:
		e.onIsrName(coreID, v)
	case evt.EvtmarkerName:
		m := e.t.UserEvtMarkers.GetOrCreate(int(v.EvtmarkerID))
		e.setNameWithOverrideWarning(&m.Name, v.Name, "user event marker", int(v.EvtmarkerID))
	case evt.ValmarkerName:
		m := e.t.UserValMarkers.GetOrCreate(int(v.ValmarkerID))
		e.setNameWithOverrideWarning(&m.Name, v.Name, "user value marker", int(v.ValmarkerID))

	case evt.Invalid:
		e.invalidEvent(coreID, v)

	default:
		e.applyFreeRTOS(coreID, ev)
	}
}

func tsOrZero(ev evt.Event) uint64 {
	ts, ok := ev.Timestamp()
	if !ok {
		return 0
	}
	return ts
}

func (e *Engine) onDroppedEvtCnt(coreID int, v evt.DroppedEvtCnt) {
	if v.Cnt <= e.t.DroppedEvtCnt {
		return
	}
	delta := v.Cnt - e.t.DroppedEvtCnt
	e.t.DroppedEvtCnt = v.Cnt
	cid := coreID
	e.t.ErrorEvts.Push(v.Ts, trace.TraceErrMarker{
		CoreID: &cid,
		Kind:   trace.DroppedEvts{Dropped: delta, Total: v.Cnt},
	})
}

func (e *Engine) onTsResolutionNs(v evt.TsResolutionNs) {
	if v.NsPerTs == 0 {
		glog.Warning("replay: TsResolutionNs(0) ignored")
		return
	}
	if e.t.TsResolutionNs != nil && *e.t.TsResolutionNs != v.NsPerTs {
		glog.Warningf("replay: ts_resolution_ns overridden: %d -> %d", *e.t.TsResolutionNs, v.NsPerTs)
	}
	ns := v.NsPerTs
	e.t.TsResolutionNs = &ns
}

func (e *Engine) onIsrName(coreID int, v evt.IsrName) {
	isr := e.t.Core(coreID).ISRs.GetOrCreate(int(v.IsrID))
	e.setNameWithOverrideWarning(&isr.Name, v.Name, "ISR", int(v.IsrID))
}

// setNameWithOverrideWarning implements the shared "warn on override
// with a different value" rule used by every *Name metadata event.
func (e *Engine) setNameWithOverrideWarning(dst *string, newName, kind string, id int) {
	if *dst != "" && *dst != newName {
		glog.Warningf("replay: %s #%d name overridden: %q -> %q", kind, id, *dst, newName)
	}
	*dst = newName
}

// noCurrentTask records the NoCurrentTask diagnostic for events that
// need a current task on their core but found none.
func (e *Engine) noCurrentTask(coreID int, ts uint64) {
	cid := coreID
	e.t.ErrorEvts.Push(ts, trace.TraceErrMarker{CoreID: &cid, Kind: trace.NoCurrentTask{}})
}

// invalidEvent records a decode failure, if it carried a timestamp.
func (e *Engine) invalidEvent(coreID int, inv evt.Invalid) {
	ts, ok := inv.Timestamp()
	if !ok {
		return
	}
	cid := coreID
	e.t.ErrorEvts.Push(ts, trace.TraceErrMarker{CoreID: &cid, Kind: trace.InvalidEvent{Err: inv.Err}})
}
