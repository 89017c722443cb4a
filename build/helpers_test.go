package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tenable/tenint/pipeline"
)

const fixtureYAML = `name: asset-sync
title: Asset Sync
version: 1.2.0
description: Synchronizes assets into the platform.
go: "1.23"
dependencies:
  - github.com/google/uuid
tags:
  - assets
timeout:
  default: 3600
resources:
  disk: 1024
  memory: 512
  cpu_cores: 1
author:
  name: Example Dev
  email: dev@example.com
urls:
  repository: https://github.com/example/asset-sync
  logo: https://example.com/logo.svg
  support: https://example.com/support
images:
  amd64: example/asset-sync:1.2.0
`

// fakeRunner returns scripted results keyed on the first three tokens of
// the invocation ("go test ./...", "go mod download", "gosec -quiet").
// Unscripted invocations succeed with empty output.
type fakeRunner struct {
	missing map[string]bool
	results map[string]*Result
	errs    map[string]error
	calls   []string
}

func cmdKey(cmd Command) string {
	parts := append([]string{cmd.Name}, cmd.Args...)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, " ")
}

func (f *fakeRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	k := cmdKey(cmd)
	f.calls = append(f.calls, k)
	if err, ok := f.errs[k]; ok {
		return nil, err
	}
	res, ok := f.results[k]
	if !ok {
		res = &Result{}
	}
	// materialize the coverage profile the way a real go test run would
	if res.ExitCode == 0 {
		for _, arg := range cmd.Args {
			if p, found := strings.CutPrefix(arg, "-coverprofile="); found {
				os.WriteFile(p, []byte("mode: atomic\n"), 0o644)
			}
		}
	}
	return res, nil
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	if f.missing[name] {
		return "", errors.New(name + " not found in PATH")
	}
	return "/usr/local/bin/" + name, nil
}

// testContext builds a BuildContext over a scratch connector project with
// a valid manifest on disk.
func testContext(t *testing.T) *pipeline.BuildContext {
	t.Helper()
	root := t.TempDir()
	work := filepath.Join(root, "src")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	mpath := filepath.Join(work, "connector.yaml")
	if err := os.WriteFile(mpath, []byte(fixtureYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	gomod := "module example.com/asset-sync\n\ngo 1.23\n\nrequire github.com/google/uuid v1.6.0\n"
	if err := os.WriteFile(filepath.Join(work, "go.mod"), []byte(gomod), 0o644); err != nil {
		t.Fatal(err)
	}
	return pipeline.NewBuildContext(pipeline.Options{
		WorkDir:      work,
		EnvDir:       filepath.Join(root, "env"),
		OutputDir:    filepath.Join(root, "dist"),
		ManifestPath: mpath,
	})
}

func wantKind(t *testing.T, err error, kind pipeline.FailureKind) {
	t.Helper()
	if err == nil {
		t.Fatal("expected a stage failure")
	}
	var serr *pipeline.StageError
	if !errors.As(err, &serr) {
		t.Fatalf("want StageError, got %v", err)
	}
	if serr.Kind != kind {
		t.Fatalf("failure kind = %s, want %s", serr.Kind, kind)
	}
}
