package evt

import (
	"fmt"

	"github.com/embtrace/embtrace/wire"
)

// parseFreeRTOS handles the FreeRTOS-mode-only id ranges. The bool
// return reports whether id fell within a recognized FreeRTOS range at
// all (distinguishing "recognized but failed to decode" from "id
// belongs to nobody").
func parseFreeRTOS(d *wire.Decoder, id byte) (Event, bool, error) {
	switch id {
	case idTaskSwitchedIn, idTaskToRdyState, idTaskResumed, idTaskResumedFromIsr, idTaskSuspended,
		idTaskCreated, idTaskDeleted, idQueueCreated, idQueueReset,
		idCurtaskBlockOnQueuePeek, idCurtaskBlockOnQueueSend, idCurtaskBlockOnQueueReceive:
		ts, taskOrQueueID, err := tsAndU32(d, "ts", "id")
		if err != nil {
			return nil, true, err
		}
		switch id {
		case idTaskSwitchedIn:
			return TaskSwitchedIn{tsEvent{ts}, taskOrQueueID}, true, nil
		case idTaskToRdyState:
			return TaskToRdyState{tsEvent{ts}, taskOrQueueID}, true, nil
		case idTaskResumed:
			return TaskResumed{tsEvent{ts}, taskOrQueueID}, true, nil
		case idTaskResumedFromIsr:
			return TaskResumedFromIsr{tsEvent{ts}, taskOrQueueID}, true, nil
		case idTaskSuspended:
			return TaskSuspended{tsEvent{ts}, taskOrQueueID}, true, nil
		case idTaskCreated:
			return TaskCreated{tsEvent{ts}, taskOrQueueID}, true, nil
		case idTaskDeleted:
			return TaskDeleted{tsEvent{ts}, taskOrQueueID}, true, nil
		case idQueueCreated:
			return QueueCreated{tsEvent{ts}, taskOrQueueID}, true, nil
		case idQueueReset:
			return QueueReset{tsEvent{ts}, taskOrQueueID}, true, nil
		case idCurtaskBlockOnQueuePeek:
			return CurtaskBlockOnQueuePeek{tsEvent{ts}, taskOrQueueID}, true, nil
		case idCurtaskBlockOnQueueSend:
			return CurtaskBlockOnQueueSend{tsEvent{ts}, taskOrQueueID}, true, nil
		default:
			return CurtaskBlockOnQueueReceive{tsEvent{ts}, taskOrQueueID}, true, nil
		}

	case idCurtaskDelay:
		ts, ticks, err := tsAndU32(d, "ts", "ticks")
		if err != nil {
			return nil, true, err
		}
		return CurtaskDelay{tsEvent{ts}, ticks}, true, nil

	case idCurtaskDelayUntil:
		ts, wake, err := tsAndU32(d, "ts", "time_to_wake")
		if err != nil {
			return nil, true, err
		}
		return CurtaskDelayUntil{tsEvent{ts}, wake}, true, nil

	case idTaskPrioritySet, idTaskPriorityInherit, idTaskPriorityDisinherit:
		ts, err := d.U64()
		if err != nil {
			return nil, true, fmt.Errorf("TaskPriority*.ts: %w", err)
		}
		taskID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskPriority*.task_id: %w", err)
		}
		priority, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskPriority*.priority: %w", err)
		}
		switch id {
		case idTaskPrioritySet:
			return TaskPrioritySet{tsEvent{ts}, taskID, priority}, true, nil
		case idTaskPriorityInherit:
			return TaskPriorityInherit{tsEvent{ts}, taskID, priority}, true, nil
		default:
			return TaskPriorityDisinherit{tsEvent{ts}, taskID, priority}, true, nil
		}

	case idQueueSend, idQueueSendFromIsr, idQueueOverwrite, idQueueOverwriteFromIsr,
		idQueueReceive, idQueueReceiveFromIsr, idQueueCurLength:
		ts, err := d.U64()
		if err != nil {
			return nil, true, fmt.Errorf("Queue*.ts: %w", err)
		}
		queueID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("Queue*.queue_id: %w", err)
		}
		n, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("Queue*.len_after: %w", err)
		}
		switch id {
		case idQueueSend:
			return QueueSend{tsEvent{ts}, queueID, n}, true, nil
		case idQueueSendFromIsr:
			return QueueSendFromIsr{tsEvent{ts}, queueID, n}, true, nil
		case idQueueOverwrite:
			return QueueOverwrite{tsEvent{ts}, queueID, n}, true, nil
		case idQueueOverwriteFromIsr:
			return QueueOverwriteFromIsr{tsEvent{ts}, queueID, n}, true, nil
		case idQueueReceive:
			return QueueReceive{tsEvent{ts}, queueID, n}, true, nil
		case idQueueReceiveFromIsr:
			return QueueReceiveFromIsr{tsEvent{ts}, queueID, n}, true, nil
		default:
			return QueueCurLength{tsEvent{ts}, queueID, n}, true, nil
		}

	case idTaskEvtmarker, idTaskEvtmarkerBegin:
		ts, err := d.U64()
		if err != nil {
			return nil, true, fmt.Errorf("TaskEvtmarker*.ts: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskEvtmarker*.evtmarker_id: %w", err)
		}
		msg, err := d.String()
		if err != nil {
			return nil, true, fmt.Errorf("TaskEvtmarker*.msg: %w", err)
		}
		if id == idTaskEvtmarker {
			return TaskEvtmarker{tsEvent{ts}, markerID, msg}, true, nil
		}
		return TaskEvtmarkerBegin{tsEvent{ts}, markerID, msg}, true, nil

	case idTaskEvtmarkerEnd:
		ts, markerID, err := tsAndU32(d, "ts", "evtmarker_id")
		if err != nil {
			return nil, true, err
		}
		return TaskEvtmarkerEnd{tsEvent{ts}, markerID}, true, nil

	case idTaskValmarker:
		ts, err := d.U64()
		if err != nil {
			return nil, true, fmt.Errorf("TaskValmarker.ts: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskValmarker.valmarker_id: %w", err)
		}
		val, err := d.S64()
		if err != nil {
			return nil, true, fmt.Errorf("TaskValmarker.val: %w", err)
		}
		return TaskValmarker{tsEvent{ts}, markerID, val}, true, nil

	case idTaskName:
		taskID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskName.task_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, true, fmt.Errorf("TaskName.name: %w", err)
		}
		return TaskName{TaskID: taskID, Name: name}, true, nil

	case idQueueName:
		queueID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("QueueName.queue_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, true, fmt.Errorf("QueueName.name: %w", err)
		}
		return QueueName{QueueID: queueID, Name: name}, true, nil

	case idTaskIsIdleTask:
		taskID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskIsIdleTask.task_id: %w", err)
		}
		coreID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskIsIdleTask.core_id: %w", err)
		}
		return TaskIsIdleTask{TaskID: taskID, CoreID: coreID}, true, nil

	case idTaskIsTimerTask:
		taskID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskIsTimerTask.task_id: %w", err)
		}
		return TaskIsTimerTask{TaskID: taskID}, true, nil

	case idTaskEvtmarkerName:
		taskID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskEvtmarkerName.task_id: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskEvtmarkerName.evtmarker_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, true, fmt.Errorf("TaskEvtmarkerName.name: %w", err)
		}
		return TaskEvtmarkerName{TaskID: taskID, EvtmarkerID: markerID, Name: name}, true, nil

	case idTaskValmarkerName:
		taskID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskValmarkerName.task_id: %w", err)
		}
		markerID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("TaskValmarkerName.valmarker_id: %w", err)
		}
		name, err := d.String()
		if err != nil {
			return nil, true, fmt.Errorf("TaskValmarkerName.name: %w", err)
		}
		return TaskValmarkerName{TaskID: taskID, ValmarkerID: markerID, Name: name}, true, nil

	case idQueueKind:
		queueID, err := d.U32()
		if err != nil {
			return nil, true, fmt.Errorf("QueueKind.queue_id: %w", err)
		}
		kindByte, err := d.U8()
		if err != nil {
			return nil, true, fmt.Errorf("QueueKind.kind: %w", err)
		}
		if kindByte > byte(QueueKindQueueSet) {
			return nil, true, fmt.Errorf("QueueKind.kind: unrecognized value %d", kindByte)
		}
		return QueueKindEvt{QueueID: queueID, Kind: QueueKind(kindByte)}, true, nil
	}

	return nil, false, nil
}

func tsAndU32(d *wire.Decoder, tsField, u32Field string) (uint64, uint32, error) {
	ts, err := d.U64()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", tsField, err)
	}
	v, err := d.U32()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", u32Field, err)
	}
	return ts, v, nil
}
