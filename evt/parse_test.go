package evt

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseBaseEvents(t *testing.T) {
	ev, err := Parse([]byte{idCoreID, 0, 0}, ModeBareMetal)
	if err != nil {
		t.Fatalf("Parse(CoreID): %v", err)
	}
	c, ok := ev.(CoreID)
	if !ok || c.Ts != 0 || c.CoreID != 0 {
		t.Fatalf("Parse(CoreID) = %#v", ev)
	}
}

func TestParseRejectsUnknownID(t *testing.T) {
	if _, err := Parse([]byte{0xFF}, ModeBareMetal); err == nil {
		t.Fatal("Parse(0xFF): want error")
	}
}

func TestParseRejectsLooseBytes(t *testing.T) {
	// TsResolutionNs only declares one u64 field; a trailing byte must fail.
	if _, err := Parse([]byte{idTsResolutionNs, 5, 0xAA}, ModeBareMetal); err == nil {
		t.Fatal("Parse with loose trailing byte: want error")
	}
}

func TestParseFreeRTOSRequiresMode(t *testing.T) {
	frame := []byte{idTaskToRdyState, 0xa3, 0x8d, 0xe3, 0x04, 0xab, 0x04}
	if _, err := Parse(frame, ModeBareMetal); err == nil {
		t.Fatal("FreeRTOS event parsed in bare-metal mode: want error")
	}
	ev, err := Parse(frame, ModeFreeRTOS)
	if err != nil {
		t.Fatalf("Parse(TaskToRdyState): %v", err)
	}
	got, ok := ev.(TaskToRdyState)
	if !ok {
		t.Fatalf("Parse(TaskToRdyState) = %#v, want TaskToRdyState", ev)
	}
	want := TaskToRdyState{tsEvent{10012323}, 555}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(TaskToRdyState{})); diff != "" {
		t.Fatalf("TaskToRdyState mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFreeRTOSPriorityDisinherit(t *testing.T) {
	frame := []byte{idTaskPriorityDisinherit, 0xfc, 0x80, 0xfe, 0xc1, 0x04, 0x65, 0x2a}
	ev, err := Parse(frame, ModeFreeRTOS)
	if err != nil {
		t.Fatalf("Parse(TaskPriorityDisinherit): %v", err)
	}
	got, ok := ev.(TaskPriorityDisinherit)
	if !ok {
		t.Fatalf("Parse(TaskPriorityDisinherit) = %#v", ev)
	}
	want := TaskPriorityDisinherit{tsEvent{1212121212}, 101, 42}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(TaskPriorityDisinherit{})); diff != "" {
		t.Fatalf("TaskPriorityDisinherit mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFreeRTOSMetadataQueueName(t *testing.T) {
	frame := []byte{idQueueName, 0x65, 't', 'e', 's', 't', '1', '2', '1', '2'}
	ev, err := Parse(frame, ModeFreeRTOS)
	if err != nil {
		t.Fatalf("Parse(QueueName): %v", err)
	}
	got, ok := ev.(QueueName)
	if !ok {
		t.Fatalf("Parse(QueueName) = %#v", ev)
	}
	want := QueueName{metaEvent{}, 101, "test1212"}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(QueueName{})); diff != "" {
		t.Fatalf("QueueName mismatch (-want +got):\n%s", diff)
	}
}

func TestMetadataEventsCarryNoTimestamp(t *testing.T) {
	ev := TsResolutionNs{NsPerTs: 1000}
	if _, ok := ev.Timestamp(); ok {
		t.Fatal("metadata event reported a timestamp")
	}
}

func TestInvalidEventTimestamp(t *testing.T) {
	var none Invalid
	if _, ok := none.Timestamp(); ok {
		t.Fatal("Invalid with nil Ts reported a timestamp")
	}
	ts := uint64(42)
	withTs := Invalid{Ts: &ts}
	got, ok := withTs.Timestamp()
	if !ok || got != 42 {
		t.Fatalf("Invalid.Timestamp() = %d, %v; want 42, true", got, ok)
	}
}
