package build

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/tenable/tenint/pipeline"
)

// BuildManifest is the provenance record written at the end of a
// successful pipeline run. It names exactly what was built, when it was
// tested, and which artifacts the run produced.
type BuildManifest struct {
	Connector string   `json:"connector"`
	Version   string   `json:"version"`
	TestedOn  string   `json:"tested_on"`
	Coverage  float64  `json:"coverage"`
	Artifacts []string `json:"artifacts"`
	Warnings  []string `json:"warnings,omitempty"`
}

// StampStage writes the build provenance manifest. It runs last; its
// presence in the output directory marks a build that cleared every gate.
type StampStage struct {
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

func (s *StampStage) Name() string { return "provenance-stamp" }

func (s *StampStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if bc.Manifest == nil {
		return pipeline.Failf(pipeline.KindManifest, "no manifest loaded")
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}

	artifacts := make([]string, 0, len(bc.Artifacts))
	for rel := range bc.Artifacts {
		artifacts = append(artifacts, rel)
	}
	sort.Strings(artifacts)

	bm := BuildManifest{
		Connector: bc.Manifest.Name,
		Version:   bc.Manifest.Version,
		TestedOn:  now().UTC().Format(time.RFC3339),
		Coverage:  bc.Coverage,
		Artifacts: artifacts,
		Warnings:  bc.Warnings,
	}

	data, err := json.MarshalIndent(bm, "", "  ")
	if err != nil {
		return pipeline.Fail(pipeline.KindManifest, err)
	}
	if err := os.MkdirAll(bc.Opts.OutputDir, 0o755); err != nil {
		return pipeline.Fail(pipeline.KindManifest, err)
	}
	dst := filepath.Join(bc.Opts.OutputDir, "build-manifest.json")
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return pipeline.Fail(pipeline.KindManifest, fmt.Errorf("writing build manifest: %w", err))
	}
	bc.AddArtifact("build-manifest.json", dst)
	return nil
}
