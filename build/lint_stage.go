package build

import (
	"context"
	"strings"

	"github.com/tenable/tenint/pipeline"
)

// LintStage runs static analysis over the connector source. Any reported
// diagnostic fails the gate.
type LintStage struct {
	Runner Runner
}

func (s *LintStage) Name() string { return "static-lint" }

func (s *LintStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	res, err := s.Runner.Run(ctx, Command{Dir: bc.Opts.EnvDir, Name: "go", Args: []string{"vet", "./..."}})
	if err != nil {
		return pipeline.Fail(pipeline.KindLint, err)
	}
	if res.ExitCode != 0 {
		return pipeline.Failf(pipeline.KindLint, "go vet reported issues:\n%s", strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}
