package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tenable/tenint/pipeline"
)

const coverFuncOutput = `example.com/conn/main.go:10:	main		100.0%
example.com/conn/sync.go:22:	Sync		81.3%
total:			(statements)	85.0%
`

// seedProfile fakes the coverage profile the test run would have written.
func seedProfile(t *testing.T, bc *pipeline.BuildContext) {
	t.Helper()
	if err := os.MkdirAll(bc.Opts.EnvDir, 0o755); err != nil {
		t.Fatal(err)
	}
	profile := filepath.Join(bc.Opts.EnvDir, "coverage.out")
	if err := os.WriteFile(profile, []byte("mode: atomic\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestTestStagePasses(t *testing.T) {
	bc := testContext(t)
	seedProfile(t, bc)
	r := &fakeRunner{results: map[string]*Result{
		"go tool cover": {Stdout: []byte(coverFuncOutput)},
	}}

	if err := (&TestStage{Runner: r}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if bc.Coverage != 85.0 {
		t.Errorf("coverage = %v, want 85.0", bc.Coverage)
	}
	if _, ok := bc.Artifacts["coverage.out"]; !ok {
		t.Error("coverage profile not recorded as artifact")
	}
}

func TestTestStageTestFailure(t *testing.T) {
	bc := testContext(t)
	r := &fakeRunner{results: map[string]*Result{
		"go test ./...": {ExitCode: 1, Stdout: []byte("--- FAIL: TestSync")},
	}}
	err := (&TestStage{Runner: r}).Execute(context.Background(), bc)
	wantKind(t, err, pipeline.KindTest)
}

func TestTestStageCoverageBelowFloor(t *testing.T) {
	bc := testContext(t)
	seedProfile(t, bc)
	r := &fakeRunner{results: map[string]*Result{
		"go tool cover": {Stdout: []byte("total:\t(statements)\t79.0%\n")},
	}}
	err := (&TestStage{Runner: r}).Execute(context.Background(), bc)
	wantKind(t, err, pipeline.KindCoverage)
	if bc.Coverage != 79.0 {
		t.Errorf("coverage = %v, want 79.0 recorded even on failure", bc.Coverage)
	}
}

func TestTestStageExactThresholdPasses(t *testing.T) {
	bc := testContext(t)
	seedProfile(t, bc)
	r := &fakeRunner{results: map[string]*Result{
		"go tool cover": {Stdout: []byte("total:\t(statements)\t80.0%\n")},
	}}
	if err := (&TestStage{Runner: r}).Execute(context.Background(), bc); err != nil {
		t.Fatalf("80%% must satisfy the 80%% floor: %v", err)
	}
}

func TestParseTotalCoverage(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    float64
		wantErr bool
	}{
		{"normal", coverFuncOutput, 85.0, false},
		{"integer total", "total:\t(statements)\t100%\n", 100, false},
		{"no total line", "example.com/x.go:1: f 50.0%\n", 0, true},
		{"garbage total", "total:\t(statements)\tn/a\n", 0, true},
		{"empty", "", 0, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := parseTotalCoverage(c.in)
			if c.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTotalCoverage: %v", err)
			}
			if got != c.want {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}
