// Package perfetto serializes a reconstructed trace.Trace into the
// Perfetto TracePacket wire format. Rather than generated .pb.go
// stubs, packets are hand-assembled with
// google.golang.org/protobuf/encoding/protowire's low-level
// Append*/Consume* helpers against the field numbers of Perfetto's
// published trace.proto/track_event.proto schema — the Go analogue of
// a prost-generated Rust crate would on the source side.
package perfetto

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers, Perfetto trace.proto / track_event.proto.
const (
	fieldTracePacket = 1 // Trace.packet

	fieldPacketTimestamp       = 8  // TracePacket.timestamp
	fieldPacketTrackEvent      = 11 // TracePacket.track_event
	fieldPacketSequenceID      = 10 // TracePacket.trusted_packet_sequence_id
	fieldPacketTrackDescriptor = 60 // TracePacket.track_descriptor

	fieldTrackDescUUID       = 1 // TrackDescriptor.uuid
	fieldTrackDescName       = 2 // TrackDescriptor.name
	fieldTrackDescProcess    = 4 // TrackDescriptor.process
	fieldTrackDescParentUUID = 5 // TrackDescriptor.parent_uuid
	fieldTrackDescThread     = 6 // TrackDescriptor.thread
	fieldTrackDescCounter    = 8 // TrackDescriptor.counter

	fieldProcessPid  = 1 // ProcessDescriptor.pid
	fieldProcessName = 6 // ProcessDescriptor.process_name

	fieldThreadPid  = 1 // ThreadDescriptor.pid
	fieldThreadTid  = 2 // ThreadDescriptor.tid
	fieldThreadName = 5 // ThreadDescriptor.thread_name

	fieldCounterUnit     = 6 // CounterDescriptor.unit
	fieldCounterUnitName = 8 // CounterDescriptor.unit_name

	fieldEventTrackUUID          = 11 // TrackEvent.track_uuid
	fieldEventType               = 9  // TrackEvent.type
	fieldEventName               = 23 // TrackEvent.name
	fieldEventCounterValueInt    = 30 // TrackEvent.counter_value
	fieldEventCounterValueDouble = 44 // TrackEvent.double_counter_value
)

// TrackEvent.Type enum values.
const (
	trackEventTypeSliceBegin = 1
	trackEventTypeSliceEnd   = 2
	trackEventTypeInstant    = 3
	trackEventTypeCounter    = 4
)

// CounterDescriptor.Unit enum values.
const (
	counterUnitUnspecified = 0
	counterUnitTimeNs      = 1
	counterUnitCount       = 2
	counterUnitSizeBytes   = 3
)

// appendVarintField and friends each append one tagged field to an
// in-progress message buffer; callers chain them b = appendXField(b, ...).
func appendVarintField(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendInt64Field(b []byte, num protowire.Number, v int64) []byte {
	return appendVarintField(b, num, uint64(v))
}

func appendInt32Field(b []byte, num protowire.Number, v int32) []byte {
	return appendVarintField(b, num, uint64(uint32(v)))
}

func appendStringField(b []byte, num protowire.Number, v string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendDoubleField(b []byte, num protowire.Number, v float64) []byte {
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(v))
}

func appendSubmessageField(b []byte, num protowire.Number, sub []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

func tagLen(num protowire.Number) int {
	return len(protowire.AppendTag(nil, num, protowire.VarintType))
}
