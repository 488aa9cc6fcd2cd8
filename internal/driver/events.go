package driver

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageDiscover is the file discovery stage.
	StageDiscover Stage = "discover"
	// StageExtract is the tag extraction stage.
	StageExtract Stage = "extract"
	// StageMatch is the rule matching stage.
	StageMatch Stage = "match"
	// StageReport is the output stage.
	StageReport Stage = "report"
)

// Status captures progress state within a stage.
type Status string

const (
	// StatusQueued indicates the file is waiting to start.
	StatusQueued Status = "queued"
	// StatusWorking indicates the file is being analyzed.
	StatusWorking Status = "working"
	// StatusDone indicates the file is done.
	StatusDone Status = "done"
	// StatusError indicates analysis of the file failed.
	StatusError Status = "error"
)

// Event reports progress for a file (or for the overall run when File
// is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Sink consumes progress events. Implementations must be safe for
// concurrent use; workers emit from multiple goroutines.
type Sink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// NopSink drops every event.
type NopSink struct{}

func (NopSink) OnEvent(Event) {}

func emit(sink Sink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}
