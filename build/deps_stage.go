package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/tenable/tenint/pipeline"
)

// DependencyStage resolves and verifies the connector's module
// dependencies inside the build environment, and checks that every
// dependency the manifest declares is actually required by go.mod.
type DependencyStage struct {
	Runner Runner
}

func (s *DependencyStage) Name() string { return "resolve-dependencies" }

func (s *DependencyStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	for _, args := range [][]string{
		{"mod", "download"},
		{"mod", "verify"},
	} {
		res, err := s.Runner.Run(ctx, Command{Dir: bc.Opts.EnvDir, Name: "go", Args: args})
		if err != nil {
			return pipeline.Fail(pipeline.KindDependency, err)
		}
		if res.ExitCode != 0 {
			return pipeline.Failf(pipeline.KindDependency, "go %s failed: %s",
				strings.Join(args, " "), strings.TrimSpace(string(res.Stderr)))
		}
	}

	if bc.Manifest != nil && len(bc.Manifest.Dependencies) > 0 {
		data, err := os.ReadFile(filepath.Join(bc.Opts.EnvDir, "go.mod"))
		if err != nil {
			return pipeline.Failf(pipeline.KindDependency, "reading go.mod: %v", err)
		}
		for _, dep := range bc.Manifest.Dependencies {
			if !strings.Contains(string(data), dep) {
				return pipeline.Failf(pipeline.KindDependency,
					"manifest dependency %s is not required by go.mod", dep)
			}
		}
	}
	return nil
}
