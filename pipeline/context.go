package pipeline

import (
	"fmt"
	"io"

	"github.com/tenable/tenint/manifest"
)

// Options carries shared configuration for all pipeline stages.
type Options struct {
	// WorkDir is the connector project root (the source of truth).
	WorkDir string
	// EnvDir is the isolated scratch directory stages operate in. The
	// provisioning stage snapshots WorkDir into it.
	EnvDir string
	// OutputDir receives stage artifacts (coverage report, audit findings,
	// provenance stamp, build manifest).
	OutputDir string
	// ManifestPath points at the connector.yaml being built.
	ManifestPath string
	// CoverageThreshold is the minimum accepted statement coverage percent.
	CoverageThreshold float64
}

// BuildContext carries state through one pipeline run.
type BuildContext struct {
	Opts     Options
	Manifest *manifest.Manifest

	// Artifacts maps artifact relPath -> absPath for files produced by
	// stages. Only files recorded here survive into the build manifest.
	Artifacts map[string]string
	Warnings  []string

	// Coverage holds the total statement coverage percent measured by the
	// test stage, for the build manifest.
	Coverage float64

	Verbose bool
	// Progress receives human-readable stage progress; nil silences it.
	Progress io.Writer
}

// NewBuildContext creates a BuildContext with the given options and
// initialized maps.
func NewBuildContext(opts Options) *BuildContext {
	if opts.CoverageThreshold == 0 {
		opts.CoverageThreshold = 80
	}
	return &BuildContext{
		Opts:      opts,
		Artifacts: make(map[string]string),
	}
}

// AddArtifact records a stage-produced file in the build context.
func (bc *BuildContext) AddArtifact(relPath, absPath string) {
	bc.Artifacts[relPath] = absPath
}

// AddWarning appends a warning message to the build context.
func (bc *BuildContext) AddWarning(msg string) {
	bc.Warnings = append(bc.Warnings, msg)
}

func (bc *BuildContext) report(format string, args ...any) {
	if bc.Progress == nil {
		return
	}
	fmt.Fprintf(bc.Progress, format+"\n", args...)
}
