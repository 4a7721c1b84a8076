package evt

// QueueKind mirrors the wire-level queue kind enumeration; it is
// redeclared (rather than imported from trace) so this package has no
// dependency on the replay model.
type QueueKind uint8

const (
	QueueKindQueue QueueKind = iota
	QueueKindCountingSemphr
	QueueKindBinarySemphr
	QueueKindMutex
	QueueKindRecursiveMutex
	QueueKindQueueSet
)

// -- FreeRTOS trace events -------------------------------------------------

type TaskSwitchedIn struct {
	tsEvent
	TaskID uint32
}

type TaskToRdyState struct {
	tsEvent
	TaskID uint32
}

type TaskResumed struct {
	tsEvent
	TaskID uint32
}

type TaskResumedFromIsr struct {
	tsEvent
	TaskID uint32
}

type TaskSuspended struct {
	tsEvent
	TaskID uint32
}

type CurtaskDelay struct {
	tsEvent
	Ticks uint32
}

type CurtaskDelayUntil struct {
	tsEvent
	TimeToWake uint32
}

type TaskPrioritySet struct {
	tsEvent
	TaskID   uint32
	Priority uint32
}

type TaskPriorityInherit struct {
	tsEvent
	TaskID   uint32
	Priority uint32
}

type TaskPriorityDisinherit struct {
	tsEvent
	TaskID   uint32
	Priority uint32
}

type TaskCreated struct {
	tsEvent
	TaskID uint32
}

type TaskDeleted struct {
	tsEvent
	TaskID uint32
}

type QueueCreated struct {
	tsEvent
	QueueID uint32
}

type QueueSend struct {
	tsEvent
	QueueID  uint32
	LenAfter uint32
}

type QueueSendFromIsr struct {
	tsEvent
	QueueID  uint32
	LenAfter uint32
}

type QueueOverwrite struct {
	tsEvent
	QueueID  uint32
	LenAfter uint32
}

type QueueOverwriteFromIsr struct {
	tsEvent
	QueueID  uint32
	LenAfter uint32
}

type QueueReceive struct {
	tsEvent
	QueueID  uint32
	LenAfter uint32
}

type QueueReceiveFromIsr struct {
	tsEvent
	QueueID  uint32
	LenAfter uint32
}

type QueueReset struct {
	tsEvent
	QueueID uint32
}

type QueueCurLength struct {
	tsEvent
	QueueID uint32
	Length  uint32
}

type CurtaskBlockOnQueuePeek struct {
	tsEvent
	QueueID uint32
}

type CurtaskBlockOnQueueSend struct {
	tsEvent
	QueueID uint32
}

type CurtaskBlockOnQueueReceive struct {
	tsEvent
	QueueID uint32
}

type TaskEvtmarker struct {
	tsEvent
	EvtmarkerID uint32
	Msg         string
}

type TaskEvtmarkerBegin struct {
	tsEvent
	EvtmarkerID uint32
	Msg         string
}

type TaskEvtmarkerEnd struct {
	tsEvent
	EvtmarkerID uint32
}

type TaskValmarker struct {
	tsEvent
	ValmarkerID uint32
	Val         int64
}

// -- FreeRTOS metadata events -----------------------------------------------

type TaskName struct {
	metaEvent
	TaskID uint32
	Name   string
}

type QueueName struct {
	metaEvent
	QueueID uint32
	Name    string
}

type TaskIsIdleTask struct {
	metaEvent
	TaskID uint32
	CoreID uint32
}

type TaskIsTimerTask struct {
	metaEvent
	TaskID uint32
}

type TaskEvtmarkerName struct {
	metaEvent
	TaskID      uint32
	EvtmarkerID uint32
	Name        string
}

type TaskValmarkerName struct {
	metaEvent
	TaskID      uint32
	ValmarkerID uint32
	Name        string
}

type QueueKindEvt struct {
	metaEvent
	QueueID uint32
	Kind    QueueKind
}
