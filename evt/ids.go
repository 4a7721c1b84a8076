package evt

// Wire event ids. Base ids are valid in every mode; the FreeRTOS trace
// and metadata ranges are only recognized when the stream decoder was
// constructed in ModeFreeRTOS.
const (
	idCoreID         = 0x00
	idDroppedEvtCnt  = 0x01
	idTsResolutionNs = 0x02
	idIsrName        = 0x03
	idIsrEnter       = 0x04
	idIsrExit        = 0x05
	idEvtmarkerName  = 0x06
	idEvtmarker      = 0x07
	idEvtmarkerBegin = 0x08
	idEvtmarkerEnd   = 0x09
	idValmarkerName  = 0x0A
	idValmarker      = 0x0B
)

// FreeRTOS trace events, 0x54..0x6F.
const (
	idTaskSwitchedIn = 0x54 + iota
	idTaskToRdyState
	idTaskResumed
	idTaskResumedFromIsr
	idTaskSuspended
	idCurtaskDelay
	idCurtaskDelayUntil
	idTaskPrioritySet
	idTaskPriorityInherit
	idTaskPriorityDisinherit
	idTaskCreated
	idTaskDeleted
	idQueueCreated
	idQueueSend
	idQueueSendFromIsr
	idQueueOverwrite
	idQueueOverwriteFromIsr
	idQueueReceive
	idQueueReceiveFromIsr
	idQueueReset
	idQueueCurLength
	idCurtaskBlockOnQueuePeek
	idCurtaskBlockOnQueueSend
	idCurtaskBlockOnQueueReceive
	idTaskEvtmarker
	idTaskEvtmarkerBegin
	idTaskEvtmarkerEnd
	idTaskValmarker
)

// FreeRTOS metadata events, 0x70..0x76.
const (
	idTaskName = 0x70 + iota
	idQueueName
	idTaskIsIdleTask
	idTaskIsTimerTask
	idTaskEvtmarkerName
	idTaskValmarkerName
	idQueueKind
)
