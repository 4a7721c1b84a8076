package trace

import "github.com/embtrace/embtrace/evt"

// TraceEvtMarker wraps a raw decoded event for the per-core audit
// track ("Trace Events" in the emitter): every successfully-sequenced
// event is mirrored here regardless of how replay interpreted it.
type TraceEvtMarker struct {
	Raw evt.Event
}

// UserEvtMarker is the closed set of shapes a user-code marker can
// take: an instant point, the start of a named slice, or the end of
// one. Nesting is not enforced; SliceEnd simply closes whatever is
// open on that marker's track.
type UserEvtMarker interface{ isUserEvtMarker() }

type UserEvtInstant struct{ Msg string }
type UserEvtSliceBegin struct{ Msg string }
type UserEvtSliceEnd struct{}

func (UserEvtInstant) isUserEvtMarker()    {}
func (UserEvtSliceBegin) isUserEvtMarker() {}
func (UserEvtSliceEnd) isUserEvtMarker()   {}

// UserEvtMarkerTrace is one user-defined event marker's identity and
// history.
type UserEvtMarkerTrace struct {
	ID      int
	Name    string
	Markers Timeseries[UserEvtMarker]
}

func newUserEvtMarkerTrace(id int) *UserEvtMarkerTrace {
	return &UserEvtMarkerTrace{ID: id}
}

// UserValMarkerTrace is one user-defined value marker's identity and
// numeric history.
type UserValMarkerTrace struct {
	ID   int
	Name string
	Vals Timeseries[int64]
}

func newUserValMarkerTrace(id int) *UserValMarkerTrace {
	return &UserValMarkerTrace{ID: id}
}
