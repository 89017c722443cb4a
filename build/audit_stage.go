package build

import (
	"context"

	"github.com/tenable/tenint/pipeline"
)

// AuditStage scans the dependency graph for known vulnerabilities with
// govulncheck. Any reachable finding fails the gate; a missing scanner
// fails it too, since an unscanned build cannot pass.
type AuditStage struct {
	Runner Runner
}

func (s *AuditStage) Name() string { return "dependency-audit" }

func (s *AuditStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if _, err := s.Runner.LookPath("govulncheck"); err != nil {
		return pipeline.Failf(pipeline.KindAudit, "govulncheck not installed: %v", err)
	}

	res, err := s.Runner.Run(ctx, Command{
		Dir:  bc.Opts.EnvDir,
		Name: "govulncheck",
		Args: []string{"./..."},
	})
	if err != nil {
		return pipeline.Fail(pipeline.KindAudit, err)
	}
	if res.ExitCode != 0 {
		return pipeline.Failf(pipeline.KindAudit, "vulnerable dependencies found:\n%s", trimOutput(res))
	}
	return nil
}
