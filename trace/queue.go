package trace

import "github.com/embtrace/embtrace/evt"

// QueueKind is FreeRTOS's queue primitive taxonomy. Unlike TaskState
// or TaskKind it carries no payload, so a plain enum (rather than a
// tagged-union interface) is the idiomatic fit.
type QueueKind int

const (
	QueueKindQueue QueueKind = iota
	QueueKindCountingSemphr
	QueueKindBinarySemphr
	QueueKindMutex
	QueueKindRecursiveMutex
	QueueKindQueueSet
)

// FromWireQueueKind converts the wire-level kind (decoded by evt) into
// the trace model's kind.
func FromWireQueueKind(k evt.QueueKind) QueueKind {
	return QueueKind(k)
}

// IsMutex reports whether the kind behaves like a mutual-exclusion
// primitive for emission purposes (rendered as a held/available slice
// track rather than a fill-level counter track).
func (k QueueKind) IsMutex() bool {
	return k == QueueKindMutex || k == QueueKindRecursiveMutex
}

func (k QueueKind) String() string {
	switch k {
	case QueueKindQueue:
		return "Queue"
	case QueueKindCountingSemphr:
		return "Counting Semaphore"
	case QueueKindBinarySemphr:
		return "Binary Semaphore"
	case QueueKindMutex:
		return "Mutex"
	case QueueKindRecursiveMutex:
		return "Recursive Mutex"
	case QueueKindQueueSet:
		return "Queue Set"
	default:
		return "Queue"
	}
}

// QueueState is a queue's fill level after an operation and the task
// that performed it (nil for operations from ISR context or with no
// current task). For mutex-like kinds, Fill 0 means taken and ByTask
// is then the holder.
type QueueState struct {
	Fill   uint32
	ByTask *int
}

// QueueTrace is one queue/semaphore/mutex's identity and fill history.
type QueueTrace struct {
	ID    int
	Name  string
	Kind  QueueKind
	State Timeseries[QueueState]

	// KindSet records whether a QueueKind event has already set Kind,
	// distinguishing "never told" from "explicitly Queue" so replay
	// can detect a redundant same-value re-announcement.
	KindSet bool
}

func newQueueTrace(id int) *QueueTrace {
	return &QueueTrace{ID: id, Kind: QueueKindQueue}
}
