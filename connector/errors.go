package connector

import (
	"fmt"
	"strings"
)

// DuplicateJobError reports a second registration under an existing job
// name. The first registration is retained.
type DuplicateJobError struct {
	Name string
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("job %q is already registered", e.Name)
}

// InvalidHandlerError reports a registration with an unusable handler or
// job name.
type InvalidHandlerError struct {
	Name   string
	Reason string
}

func (e *InvalidHandlerError) Error() string {
	return fmt.Sprintf("cannot register job %q: %s", e.Name, e.Reason)
}

// AmbiguousJobError reports a run request that named no job while the
// registry holds more than one candidate and no default.
type AmbiguousJobError struct {
	Jobs []string
}

func (e *AmbiguousJobError) Error() string {
	return fmt.Sprintf("no job named and no default set; registered jobs: %s", strings.Join(e.Jobs, ", "))
}

// UnknownJobError reports a run request naming a job that was never
// registered.
type UnknownJobError struct {
	Name string
}

func (e *UnknownJobError) Error() string {
	return fmt.Sprintf("no job registered under %q", e.Name)
}

// NotReadyError reports an operation invoked before any job was
// registered.
type NotReadyError struct {
	Op string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("connector is not ready: %s called before any job was registered", e.Op)
}

// JobExecutionError wraps a failure raised by connector-author handler
// code. The original cause is preserved for errors.Unwrap.
type JobExecutionError struct {
	Job   string
	Cause error
}

func (e *JobExecutionError) Error() string {
	return fmt.Sprintf("job %q failed: %v", e.Job, e.Cause)
}

func (e *JobExecutionError) Unwrap() error { return e.Cause }
