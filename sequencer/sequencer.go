// Package sequencer aligns per-core event streams into a single,
// globally timestamp-ordered log, computing at each step the largest
// prefix of events ("the convertible prefix") that is safe to hand to
// the replay engine: every core has reported at least up to that
// point, so no event from a slower core can still arrive earlier.
package sequencer

import (
	"fmt"
	"sort"

	"github.com/embtrace/embtrace/evt"
)

// Tagged is one event attributed to a core, with its Ts resolved out
// of the event for ordering purposes (metadata events carry none).
type Tagged struct {
	CoreID int
	Ts     uint64
	HasTs  bool
	Event  evt.Event
}

func (t Tagged) effectiveTs() uint64 {
	if t.HasTs {
		return t.Ts
	}
	return 0
}

// Sequencer buffers events from one or more cores and exposes the
// convertible prefix on demand.
type Sequencer struct {
	coreCount   int
	currentCore int
	maxTs       []uint64
	seen        []bool
	pending     []Tagged
}

// New creates a sequencer for a device with coreCount cores. A
// core_count of zero is a fatal configuration error (§4.7).
func New(coreCount int) (*Sequencer, error) {
	if coreCount <= 0 {
		return nil, fmt.Errorf("sequencer: core_count must be >= 1, got %d", coreCount)
	}
	return &Sequencer{
		coreCount: coreCount,
		maxTs:     make([]uint64, coreCount),
		seen:      make([]bool, coreCount),
	}, nil
}

// PushMultiCore feeds a single shared stream of events, in which
// evt.CoreID separator events switch which core subsequent events are
// attributed to.
func (s *Sequencer) PushMultiCore(events []evt.Event) error {
	for _, e := range events {
		if core, ok := e.(evt.CoreID); ok {
			if err := s.checkCoreID(int(core.CoreID)); err != nil {
				return err
			}
			if err := s.observe(int(core.CoreID), core.Ts); err != nil {
				return err
			}
			s.currentCore = int(core.CoreID)
			continue
		}
		if err := s.appendToCore(s.currentCore, e); err != nil {
			return err
		}
	}
	return nil
}

// PushForCore feeds events known to originate from a specific core,
// bypassing the CoreID-separator protocol entirely.
func (s *Sequencer) PushForCore(coreID int, events []evt.Event) error {
	if err := s.checkCoreID(coreID); err != nil {
		return err
	}
	for _, e := range events {
		if err := s.appendToCore(coreID, e); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) checkCoreID(coreID int) error {
	if coreID < 0 || coreID >= s.coreCount {
		return fmt.Errorf("sequencer: core id %d out of range [0, %d)", coreID, s.coreCount)
	}
	return nil
}

func (s *Sequencer) appendToCore(coreID int, e evt.Event) error {
	ts, hasTs := e.Timestamp()
	if hasTs {
		if err := s.observe(coreID, ts); err != nil {
			return err
		}
	}
	s.pending = append(s.pending, Tagged{CoreID: coreID, Ts: ts, HasTs: hasTs, Event: e})
	return nil
}

// observe enforces the per-core monotonic-timestamp invariant and
// updates that core's watermark.
func (s *Sequencer) observe(coreID int, ts uint64) error {
	if s.seen[coreID] && ts < s.maxTs[coreID] {
		return fmt.Errorf("sequencer: core %d timestamp went backwards: %d < %d", coreID, ts, s.maxTs[coreID])
	}
	s.maxTs[coreID] = ts
	s.seen[coreID] = true
	return nil
}

// SharedHorizon returns the minimum max-ts observed across all cores,
// and whether every core has reported at least one timestamped event.
func (s *Sequencer) SharedHorizon() (uint64, bool) {
	horizon := uint64(0)
	for i := 0; i < s.coreCount; i++ {
		if !s.seen[i] {
			return 0, false
		}
		if i == 0 || s.maxTs[i] < horizon {
			horizon = s.maxTs[i]
		}
	}
	return horizon, true
}

// ConvertiblePrefix removes and returns, in globally stable timestamp
// order, every buffered event whose ts is at or below the shared
// horizon. Events with no timestamp are sequenced as if ts=0 and are
// always part of the prefix once any horizon has been established.
// Returns (nil, false) if no shared horizon exists yet (some core has
// not reported).
func (s *Sequencer) ConvertiblePrefix() ([]Tagged, bool) {
	horizon, ok := s.SharedHorizon()
	if !ok {
		return nil, false
	}

	ordered := make([]Tagged, len(s.pending))
	copy(ordered, s.pending)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].effectiveTs() < ordered[j].effectiveTs()
	})

	splitAt := len(ordered)
	for i, e := range ordered {
		if e.effectiveTs() > horizon {
			splitAt = i
			break
		}
	}
	convertible := ordered[:splitAt]
	deferred := ordered[splitAt:]

	s.pending = append([]Tagged(nil), deferred...)
	return convertible, true
}

// Flush returns every remaining buffered event, stable-sorted by
// timestamp, regardless of whether a shared horizon covers them. Used
// at end-of-stream, where no further core will ever report a later
// watermark to wait for.
func (s *Sequencer) Flush() []Tagged {
	ordered := make([]Tagged, len(s.pending))
	copy(ordered, s.pending)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].effectiveTs() < ordered[j].effectiveTs()
	})
	s.pending = nil
	return ordered
}
