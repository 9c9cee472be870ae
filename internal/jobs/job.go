package jobs

import "maps"

// Type identifies the kind of work a job carries. The set is closed: adding a
// kind means adding a constant here and registering a handler for it.
type Type string

const (
	TypeEmailSend Type = "email_send"
)

func (t Type) Valid() bool {
	switch t {
	case TypeEmailSend:
		return true
	}
	return false
}

const metadataTraceID = "trace_id"

// Job is a unit of background work. Treat it as read-only once built;
// NewJob copies the maps it is given.
type Job struct {
	Type     Type
	Payload  map[string]any
	Metadata map[string]any
}

func NewJob(t Type, payload, metadata map[string]any) Job {
	job := Job{
		Type:     t,
		Payload:  maps.Clone(payload),
		Metadata: maps.Clone(metadata),
	}
	if job.Payload == nil {
		job.Payload = map[string]any{}
	}
	if job.Metadata == nil {
		job.Metadata = map[string]any{}
	}
	return job
}

// TraceID is the trace of the code path that enqueued the job, if it had one.
func (j Job) TraceID() string {
	s, _ := j.Metadata[metadataTraceID].(string)
	return s
}

// Entry is what travels through a Store: either a job or a shutdown marker.
type Entry struct {
	job      Job
	shutdown bool
}

func JobEntry(job Job) Entry {
	return Entry{job: job}
}

// ShutdownEntry tells the worker that dequeues it to stop.
func ShutdownEntry() Entry {
	return Entry{shutdown: true}
}

// Job returns the job and true, or false for a shutdown entry.
func (e Entry) Job() (Job, bool) {
	if e.shutdown {
		return Job{}, false
	}
	return e.job, true
}

func (e Entry) IsShutdown() bool {
	return e.shutdown
}
