package evt

import (
	"fmt"

	"github.com/embtrace/embtrace/wire"
)

// Parse decodes a single COBS-stripped frame into its typed event.
// The frame's first byte is the event id; every subsequent field is
// decoded in the fixed order given by the id's table entry. A frame
// that leaves unconsumed bytes after its last declared field is
// rejected ("loose bytes"), as is any unrecognized or out-of-mode id.
func Parse(frame []byte, mode Mode) (Event, error) {
	d := wire.NewDecoder(frame)
	id, err := d.U8()
	if err != nil {
		return nil, fmt.Errorf("event id: %w", err)
	}

	ev, err := parseByID(d, id, mode)
	if err != nil {
		return nil, err
	}
	if !d.Done() {
		return nil, fmt.Errorf("event id 0x%02x: %d loose byte(s) after declared fields", id, d.Remaining())
	}
	return ev, nil
}

func parseByID(d *wire.Decoder, id byte, mode Mode) (Event, error) {
	switch id {
	case idCoreID:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("CoreID.ts: %w", err)
		}
		coreID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("CoreID.core_id: %w", err)
		}
		return CoreID{tsEvent{ts}, coreID}, nil
	case idDroppedEvtCnt:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("DroppedEvtCnt.ts: %w", err)
		}
		cnt, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("DroppedEvtCnt.cnt: %w", err)
		}
		return DroppedEvtCnt{tsEvent{ts}, cnt}, nil
	case idTsResolutionNs:
		ns, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("TsResolutionNs.ns_per_ts: %w", err)
		}
		return TsResolutionNs{NsPerTs: ns}, nil
	case idIsrName:
		isrID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("IsrName.isr_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, fmt.Errorf("IsrName.name: %w", err)
		}
		return IsrName{IsrID: isrID, Name: name}, nil
	case idIsrEnter:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("IsrEnter.ts: %w", err)
		}
		isrID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("IsrEnter.isr_id: %w", err)
		}
		return IsrEnter{tsEvent{ts}, isrID}, nil
	case idIsrExit:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("IsrExit.ts: %w", err)
		}
		isrID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("IsrExit.isr_id: %w", err)
		}
		return IsrExit{tsEvent{ts}, isrID}, nil
	case idEvtmarkerName:
		markerID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerName.evtmarker_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerName.name: %w", err)
		}
		return EvtmarkerName{EvtmarkerID: markerID, Name: name}, nil
	case idEvtmarker:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("Evtmarker.ts: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("Evtmarker.evtmarker_id: %w", err)
		}
		msg, err := d.String()
		if err != nil {
			return nil, fmt.Errorf("Evtmarker.msg: %w", err)
		}
		return Evtmarker{tsEvent{ts}, markerID, msg}, nil
	case idEvtmarkerBegin:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerBegin.ts: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerBegin.evtmarker_id: %w", err)
		}
		msg, err := d.String()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerBegin.msg: %w", err)
		}
		return EvtmarkerBegin{tsEvent{ts}, markerID, msg}, nil
	case idEvtmarkerEnd:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerEnd.ts: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("EvtmarkerEnd.evtmarker_id: %w", err)
		}
		return EvtmarkerEnd{tsEvent{ts}, markerID}, nil
	case idValmarkerName:
		markerID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("ValmarkerName.valmarker_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, fmt.Errorf("ValmarkerName.name: %w", err)
		}
		return ValmarkerName{ValmarkerID: markerID, Name: name}, nil
	case idValmarker:
		ts, err := d.U64()
		if err != nil {
			return nil, fmt.Errorf("Valmarker.ts: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, fmt.Errorf("Valmarker.valmarker_id: %w", err)
		}
		val, err := d.S64()
		if err != nil {
			return nil, fmt.Errorf("Valmarker.val: %w", err)
		}
		return Valmarker{tsEvent{ts}, markerID, val}, nil
	}

	if mode == ModeFreeRTOS {
		if ev, ok, err := parseFreeRTOS(d, id); ok {
			return ev, err
		}
	}

	return nil, fmt.Errorf("unrecognized event id 0x%02x in mode %s", id, mode)
}
