package sequencer

import (
	"testing"

	"github.com/embtrace/embtrace/evt"
)

// mkEvt builds a minimal timestamped event for sequencer tests. The
// concrete variant doesn't matter to the sequencer, which only reads
// Timestamp(); IsrEnter is used as a convenient stand-in. Ts is an
// exported field promoted from evt's unexported tsEvent embedding, so
// it can be set via selector assignment from outside the package even
// though the embedding type itself cannot be named here.
func mkEvt(ts uint64) evt.Event {
	var e evt.IsrEnter
	e.Ts = ts
	return e
}

func TestNewRejectsZeroCores(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("New(0): want error")
	}
}

func TestSharedHorizonUnknownUntilEveryCoreReports(t *testing.T) {
	s, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.PushForCore(0, []evt.Event{mkEvt(1)}); err != nil {
		t.Fatalf("PushForCore: %v", err)
	}
	if _, ok := s.SharedHorizon(); ok {
		t.Fatal("SharedHorizon: want unknown, core 1 has not reported")
	}
	if err := s.PushForCore(1, []evt.Event{mkEvt(1)}); err != nil {
		t.Fatalf("PushForCore: %v", err)
	}
	if _, ok := s.SharedHorizon(); !ok {
		t.Fatal("SharedHorizon: want known once every core has reported")
	}
}

func TestObserveRejectsOutOfRangeCore(t *testing.T) {
	s, _ := New(1)
	if err := s.PushForCore(1, []evt.Event{mkEvt(1)}); err == nil {
		t.Fatal("PushForCore(core=1) on a 1-core device: want error")
	}
}

func TestObserveRejectsTimestampGoingBackwards(t *testing.T) {
	s, _ := New(1)
	if err := s.PushForCore(0, []evt.Event{mkEvt(10)}); err != nil {
		t.Fatalf("PushForCore: %v", err)
	}
	if err := s.PushForCore(0, []evt.Event{mkEvt(5)}); err == nil {
		t.Fatal("PushForCore with decreasing ts: want error")
	}
}

func TestConvertiblePrefixRespectsHorizon(t *testing.T) {
	s, _ := New(2)
	if err := s.PushForCore(0, []evt.Event{mkEvt(1), mkEvt(2), mkEvt(10)}); err != nil {
		t.Fatalf("PushForCore(0): %v", err)
	}
	if err := s.PushForCore(1, []evt.Event{mkEvt(2), mkEvt(9)}); err != nil {
		t.Fatalf("PushForCore(1): %v", err)
	}

	// shared horizon = min(max_ts0=10, max_ts1=9) = 9
	prefix, ok := s.ConvertiblePrefix()
	if !ok {
		t.Fatal("ConvertiblePrefix: want a shared horizon")
	}
	var tss []uint64
	for _, e := range prefix {
		tss = append(tss, e.Ts)
	}
	want := []uint64{1, 2, 2, 9}
	if len(tss) != len(want) {
		t.Fatalf("convertible ts = %v, want %v", tss, want)
	}
	for i := range want {
		if tss[i] != want[i] {
			t.Fatalf("convertible ts = %v, want %v", tss, want)
		}
	}

	remaining, ok := s.ConvertiblePrefix()
	if !ok || len(remaining) != 0 {
		t.Fatalf("second ConvertiblePrefix call: got %v, ok=%v; want empty, true (ts=10 stays deferred, horizon unchanged)", remaining, ok)
	}
}

func TestConvertiblePrefixMonotonicAcrossBatches(t *testing.T) {
	s, _ := New(1)
	if err := s.PushForCore(0, []evt.Event{mkEvt(1), mkEvt(2)}); err != nil {
		t.Fatalf("PushForCore: %v", err)
	}
	first, ok := s.ConvertiblePrefix()
	if !ok || len(first) != 2 {
		t.Fatalf("first ConvertiblePrefix = %v, ok=%v; want 2 events", first, ok)
	}

	if err := s.PushForCore(0, []evt.Event{mkEvt(3)}); err != nil {
		t.Fatalf("PushForCore: %v", err)
	}
	second, ok := s.ConvertiblePrefix()
	if !ok || len(second) != 1 {
		t.Fatalf("second ConvertiblePrefix = %v, ok=%v; want 1 event", second, ok)
	}
}

func TestFlushReturnsRemainderRegardlessOfHorizon(t *testing.T) {
	s, _ := New(2)
	if err := s.PushForCore(0, []evt.Event{mkEvt(1), mkEvt(10)}); err != nil {
		t.Fatalf("PushForCore(0): %v", err)
	}
	if err := s.PushForCore(1, []evt.Event{mkEvt(2)}); err != nil {
		t.Fatalf("PushForCore(1): %v", err)
	}
	// horizon = min(10, 2) = 2, so ts=10 stays deferred.
	if _, ok := s.ConvertiblePrefix(); !ok {
		t.Fatal("ConvertiblePrefix: want a shared horizon")
	}
	rest := s.Flush()
	if len(rest) != 1 || rest[0].Ts != 10 {
		t.Fatalf("Flush = %v, want the single deferred ts=10 event", rest)
	}
	if more := s.Flush(); len(more) != 0 {
		t.Fatalf("second Flush = %v, want empty", more)
	}
}
