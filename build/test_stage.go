package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tenable/tenint/pipeline"
)

// TestStage runs the connector's unit tests with coverage instrumentation
// and enforces the statement coverage floor. Failing tests and
// insufficient coverage are distinct gates.
type TestStage struct {
	Runner Runner
}

func (s *TestStage) Name() string { return "unit-test-coverage" }

func (s *TestStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	profile := filepath.Join(bc.Opts.EnvDir, "coverage.out")

	res, err := s.Runner.Run(ctx, Command{
		Dir:  bc.Opts.EnvDir,
		Name: "go",
		Args: []string{"test", "./...", "-coverprofile=" + profile, "-covermode=atomic"},
	})
	if err != nil {
		return pipeline.Fail(pipeline.KindTest, err)
	}
	if res.ExitCode != 0 {
		return pipeline.Failf(pipeline.KindTest, "tests failed:\n%s", trimOutput(res))
	}

	cov, err := s.totalCoverage(ctx, bc, profile)
	if err != nil {
		return pipeline.Fail(pipeline.KindTest, err)
	}
	bc.Coverage = cov

	if err := s.publishProfile(bc, profile); err != nil {
		return pipeline.Fail(pipeline.KindTest, err)
	}

	if cov < bc.Opts.CoverageThreshold {
		return pipeline.Failf(pipeline.KindCoverage, "coverage %.1f%% is below the %.1f%% floor",
			cov, bc.Opts.CoverageThreshold)
	}
	return nil
}

// totalCoverage extracts the total statement percentage from the profile
// via go tool cover.
func (s *TestStage) totalCoverage(ctx context.Context, bc *pipeline.BuildContext, profile string) (float64, error) {
	res, err := s.Runner.Run(ctx, Command{
		Dir:  bc.Opts.EnvDir,
		Name: "go",
		Args: []string{"tool", "cover", "-func=" + profile},
	})
	if err != nil {
		return 0, err
	}
	if res.ExitCode != 0 {
		return 0, fmt.Errorf("go tool cover failed: %s", strings.TrimSpace(string(res.Stderr)))
	}
	return parseTotalCoverage(string(res.Stdout))
}

func (s *TestStage) publishProfile(bc *pipeline.BuildContext, profile string) error {
	if err := os.MkdirAll(bc.Opts.OutputDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(bc.Opts.OutputDir, "coverage.out")
	if err := copyFile(profile, dst); err != nil {
		return fmt.Errorf("publishing coverage profile: %w", err)
	}
	bc.AddArtifact("coverage.out", dst)
	return nil
}

// parseTotalCoverage finds the "total:" line in go tool cover -func
// output and returns its percentage.
func parseTotalCoverage(out string) (float64, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "total:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			break
		}
		pct := strings.TrimSuffix(fields[len(fields)-1], "%")
		v, err := strconv.ParseFloat(pct, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable coverage total %q", fields[len(fields)-1])
		}
		return v, nil
	}
	return 0, fmt.Errorf("coverage output has no total line")
}

func trimOutput(res *Result) string {
	out := strings.TrimSpace(string(res.Stdout))
	if errOut := strings.TrimSpace(string(res.Stderr)); errOut != "" {
		if out != "" {
			out += "\n"
		}
		out += errOut
	}
	return out
}
