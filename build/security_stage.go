package build

import (
	"context"

	"github.com/tenable/tenint/pipeline"
)

// SecurityStage runs gosec over the connector source. Findings fail the
// gate; like the dependency audit, a missing scanner is a failure.
type SecurityStage struct {
	Runner Runner
}

func (s *SecurityStage) Name() string { return "static-security" }

func (s *SecurityStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if _, err := s.Runner.LookPath("gosec"); err != nil {
		return pipeline.Failf(pipeline.KindSecurity, "gosec not installed: %v", err)
	}

	res, err := s.Runner.Run(ctx, Command{
		Dir:  bc.Opts.EnvDir,
		Name: "gosec",
		Args: []string{"-quiet", "-severity=medium", "./..."},
	})
	if err != nil {
		return pipeline.Fail(pipeline.KindSecurity, err)
	}
	if res.ExitCode != 0 {
		return pipeline.Failf(pipeline.KindSecurity, "security findings:\n%s", trimOutput(res))
	}
	return nil
}
