package perfetto

// trustedPacketSequenceID is the sentinel sequence id stamped on every
// packet: a single producer writing a complete, self-contained trace,
// never interleaved with another writer's sequence.
const trustedPacketSequenceID = 0xDEADBEEF

// Emitter assembles a Perfetto trace as an ordered list of serialized
// TracePacket messages. Track descriptors are appended to the stream
// at the point they're created, and FlushNewDescriptors exposes the
// streaming/incremental boundary directly for callers that want to
// interleave descriptor creation with earlier event emission instead
// of building the whole trace up front.
type Emitter struct {
	nextUUID         uint64
	packets          [][]byte
	descriptors      [][]byte
	flushedDescCount int
}

// NewEmitter returns an Emitter with its UUID allocator starting at 1;
// uuid 0 is reserved and never allocated.
func NewEmitter() *Emitter {
	return &Emitter{nextUUID: 1}
}

func (e *Emitter) allocUUID() uint64 {
	id := e.nextUUID
	e.nextUUID++
	return id
}

func (e *Emitter) addDescriptor(desc []byte) {
	pkt := appendSubmessageField(nil, fieldPacketTrackDescriptor, desc)
	pkt = appendVarintField(pkt, fieldPacketSequenceID, trustedPacketSequenceID)
	e.descriptors = append(e.descriptors, pkt)
	e.packets = append(e.packets, pkt)
}

func (e *Emitter) addEventPacket(ts uint64, ev []byte) {
	pkt := appendVarintField(nil, fieldPacketTimestamp, ts)
	pkt = appendVarintField(pkt, fieldPacketSequenceID, trustedPacketSequenceID)
	pkt = appendSubmessageField(pkt, fieldPacketTrackEvent, ev)
	e.packets = append(e.packets, pkt)
}

// FlushNewDescriptors returns the serialized packets for every track
// descriptor created since the last flush, consuming them. Incremental
// callers (e.g. a streaming HTTP handler) use this to push descriptors
// to a client as soon as a track is known, ahead of its first event.
func (e *Emitter) FlushNewDescriptors() [][]byte {
	pending := e.descriptors[e.flushedDescCount:]
	out := make([][]byte, len(pending))
	copy(out, pending)
	e.flushedDescCount = len(e.descriptors)
	return out
}

// Packets returns every packet emitted so far, in emission order.
func (e *Emitter) Packets() [][]byte {
	return e.packets
}

// Bytes serializes the whole trace: a single Trace message containing
// every packet emitted so far, in order.
func (e *Emitter) Bytes() []byte {
	var out []byte
	for _, p := range e.packets {
		out = appendSubmessageField(out, fieldTracePacket, p)
	}
	return out
}

// NewProcessTrack declares a process-scoped track (one per core or one
// per FreeRTOS task, with a reserved pid range) and
// returns its uuid.
func (e *Emitter) NewProcessTrack(pid int32, name string) uint64 {
	uuid := e.allocUUID()
	proc := appendInt32Field(nil, fieldProcessPid, pid)
	proc = appendStringField(proc, fieldProcessName, name)

	desc := appendVarintField(nil, fieldTrackDescUUID, uuid)
	desc = appendSubmessageField(desc, fieldTrackDescProcess, proc)
	e.addDescriptor(desc)
	return uuid
}

// NewThreadTrack declares a thread-scoped track with the given pid and
// tid. Emit itself does not use it: its stacked per-task tracks and a
// task's sub-tracks are plain NewTrack tracks.
func (e *Emitter) NewThreadTrack(pid, tid int32, name string) uint64 {
	uuid := e.allocUUID()
	thread := appendInt32Field(nil, fieldThreadPid, pid)
	thread = appendInt32Field(thread, fieldThreadTid, tid)
	thread = appendStringField(thread, fieldThreadName, name)

	desc := appendVarintField(nil, fieldTrackDescUUID, uuid)
	desc = appendSubmessageField(desc, fieldTrackDescThread, thread)
	e.addDescriptor(desc)
	return uuid
}

// NewTrack declares a plain named track, nested under parentUUID if
// nonzero. Used for slice/instant tracks that aren't a process or
// thread in their own right: per-ISR slice tracks, user marker tracks,
// the error track, a task's "Running" track.
func (e *Emitter) NewTrack(parentUUID uint64, name string) uint64 {
	uuid := e.allocUUID()
	desc := appendVarintField(nil, fieldTrackDescUUID, uuid)
	if parentUUID != 0 {
		desc = appendVarintField(desc, fieldTrackDescParentUUID, parentUUID)
	}
	desc = appendStringField(desc, fieldTrackDescName, name)
	e.addDescriptor(desc)
	return uuid
}

// CounterUnit mirrors CounterDescriptor.Unit.
type CounterUnit int

const (
	CounterUnitUnspecified CounterUnit = counterUnitUnspecified
	CounterUnitCount       CounterUnit = counterUnitCount
	CounterUnitSizeBytes   CounterUnit = counterUnitSizeBytes
)

// NewCounterTrack declares a counter track, e.g. a queue's fill level
// or a task's priority.
func (e *Emitter) NewCounterTrack(parentUUID uint64, name string, unit CounterUnit) uint64 {
	uuid := e.allocUUID()
	counter := appendVarintField(nil, fieldCounterUnit, uint64(unit))

	desc := appendVarintField(nil, fieldTrackDescUUID, uuid)
	if parentUUID != 0 {
		desc = appendVarintField(desc, fieldTrackDescParentUUID, parentUUID)
	}
	desc = appendStringField(desc, fieldTrackDescName, name)
	desc = appendSubmessageField(desc, fieldTrackDescCounter, counter)
	e.addDescriptor(desc)
	return uuid
}

func (e *Emitter) trackEvent(trackUUID uint64, typ int, name string) []byte {
	ev := appendVarintField(nil, fieldEventTrackUUID, trackUUID)
	ev = appendVarintField(ev, fieldEventType, uint64(typ))
	if name != "" {
		ev = appendStringField(ev, fieldEventName, name)
	}
	return ev
}

// SliceBegin opens a named slice on trackUUID at ts.
func (e *Emitter) SliceBegin(trackUUID uint64, ts uint64, name string) {
	e.addEventPacket(ts, e.trackEvent(trackUUID, trackEventTypeSliceBegin, name))
}

// SliceEnd closes the innermost open slice on trackUUID at ts.
func (e *Emitter) SliceEnd(trackUUID uint64, ts uint64) {
	e.addEventPacket(ts, e.trackEvent(trackUUID, trackEventTypeSliceEnd, ""))
}

// Instant emits a zero-duration marker on trackUUID at ts.
func (e *Emitter) Instant(trackUUID uint64, ts uint64, name string) {
	e.addEventPacket(ts, e.trackEvent(trackUUID, trackEventTypeInstant, name))
}

// CounterInt emits an integer sample on a counter track at ts.
func (e *Emitter) CounterInt(trackUUID uint64, ts uint64, v int64) {
	ev := e.trackEvent(trackUUID, trackEventTypeCounter, "")
	ev = appendInt64Field(ev, fieldEventCounterValueInt, v)
	e.addEventPacket(ts, ev)
}

// CounterDouble emits a floating-point sample on a counter track at ts.
func (e *Emitter) CounterDouble(trackUUID uint64, ts uint64, v float64) {
	ev := e.trackEvent(trackUUID, trackEventTypeCounter, "")
	ev = appendDoubleField(ev, fieldEventCounterValueDouble, v)
	e.addEventPacket(ts, ev)
}
