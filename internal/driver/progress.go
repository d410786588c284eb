package driver

import "time"

// Stage names one phase of compiling a single unit.
type Stage string

const (
	StageElaborate Stage = "elaborate"
	StageParse     Stage = "parse"
	StageResolve   Stage = "resolve"
	StageLower     Stage = "lower"
)

// Status captures where a unit sits within a Stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress for one unit (or for the whole run when Unit
// is empty), the way the teacher's buildpipeline.Event reports
// progress for one file.
type Event struct {
	Unit    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes Compile's progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel, for a UI goroutine to
// drain while Compile runs on another.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

func emit(sink ProgressSink, unit string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{Unit: unit, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}
