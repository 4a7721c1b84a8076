package trace

// ISRState is a closed two-state union: an ISR is either servicing an
// interrupt or it isn't. Represented as a sealed interface (rather
// than a bool) so it reads the same way as the model's other tagged
// unions and so a third state can be added without an API break.
type ISRState interface{ isISRState() }

type ISRActive struct{}
type ISRNotActive struct{}

func (ISRActive) isISRState()    {}
func (ISRNotActive) isISRState() {}

// ISRTrace is a single interrupt service routine's identity and
// observed activity history.
type ISRTrace struct {
	ID    int
	Name  string
	State Timeseries[ISRState]

	currentState ISRState
}

func newISRTrace(id int) *ISRTrace {
	return &ISRTrace{ID: id, currentState: ISRNotActive{}}
}

// IsActive reports the ISR's current (most recently observed) state.
func (i *ISRTrace) IsActive() bool {
	_, active := i.currentState.(ISRActive)
	return active
}

// Enter records an IsrEnter: a no-op if already active (enter cannot
// nest in this model), otherwise flips to Active at ts.
func (i *ISRTrace) Enter(ts uint64) {
	if i.IsActive() {
		return
	}
	i.currentState = ISRActive{}
	i.State.Push(ts, i.currentState)
}

// Exit records an IsrExit: symmetric to Enter.
func (i *ISRTrace) Exit(ts uint64) {
	if !i.IsActive() {
		return
	}
	i.currentState = ISRNotActive{}
	i.State.Push(ts, i.currentState)
}

// CoreTrace is one CPU core's state: its ISRs, its raw event audit
// log, and (in FreeRTOS mode) which task is currently scheduled on it.
type CoreTrace struct {
	ID   int
	ISRs *ObjectMap[ISRTrace]
	Evts Timeseries[TraceEvtMarker]

	CurrentTaskID *int
}

func newCoreTrace(id int) *CoreTrace {
	return &CoreTrace{
		ID:   id,
		ISRs: NewObjectMap(func(id int) *ISRTrace { return newISRTrace(id) }),
	}
}
