package pipeline

import (
	"errors"
	"fmt"
)

// FailureKind categorizes a stage failure so the build exit status can
// mirror exactly one gate.
type FailureKind int

const (
	KindInternal FailureKind = iota
	KindProvisioning
	KindDependency
	KindLint
	KindTest
	KindCoverage
	KindAudit
	KindSecurity
	KindManifest
)

var kindNames = map[FailureKind]string{
	KindInternal:     "internal",
	KindProvisioning: "provisioning",
	KindDependency:   "dependency",
	KindLint:         "lint",
	KindTest:         "test",
	KindCoverage:     "coverage",
	KindAudit:        "audit",
	KindSecurity:     "security",
	KindManifest:     "manifest",
}

func (k FailureKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "internal"
}

// ExitCode maps the failure category to the process exit status of the
// build command. Each gate gets a distinct code; internal failures exit 1.
func (k FailureKind) ExitCode() int {
	switch k {
	case KindProvisioning:
		return 10
	case KindDependency:
		return 11
	case KindLint:
		return 12
	case KindTest:
		return 13
	case KindCoverage:
		return 14
	case KindAudit:
		return 15
	case KindSecurity:
		return 16
	case KindManifest:
		return 17
	}
	return 1
}

// StageError is a pipeline failure attributed to one named stage and one
// gate category.
type StageError struct {
	Stage string
	Kind  FailureKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s (%s): %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Fail wraps an error with a failure category. The pipeline fills in the
// stage name when the error crosses the stage boundary.
func Fail(kind FailureKind, err error) *StageError {
	return &StageError{Kind: kind, Err: err}
}

// Failf is Fail with formatting.
func Failf(kind FailureKind, format string, args ...any) *StageError {
	return &StageError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func wrapStageError(stage string, err error) error {
	var serr *StageError
	if errors.As(err, &serr) {
		if serr.Stage == "" {
			serr.Stage = stage
		}
		return serr
	}
	return &StageError{Stage: stage, Kind: KindInternal, Err: err}
}

// ExitCode returns the exit status for a pipeline run error: the failing
// stage's category code, or 1 for uncategorized failures, or 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var serr *StageError
	if errors.As(err, &serr) {
		return serr.Kind.ExitCode()
	}
	return 1
}
