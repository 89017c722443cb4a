package build

import (
	"context"
	"strconv"
	"strings"

	"github.com/tenable/tenint/manifest"
	"github.com/tenable/tenint/pipeline"
)

// ProvisionStage prepares the isolated build environment: it verifies the
// Go toolchain is installed, loads the connector manifest, and snapshots
// the source tree into the environment directory.
type ProvisionStage struct {
	Runner Runner
}

func (s *ProvisionStage) Name() string { return "provision-toolchain" }

func (s *ProvisionStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if _, err := s.Runner.LookPath("go"); err != nil {
		return pipeline.Failf(pipeline.KindProvisioning, "go toolchain not found: %v", err)
	}

	res, err := s.Runner.Run(ctx, Command{Dir: bc.Opts.WorkDir, Name: "go", Args: []string{"version"}})
	if err != nil {
		return pipeline.Fail(pipeline.KindProvisioning, err)
	}
	if res.ExitCode != 0 {
		return pipeline.Failf(pipeline.KindProvisioning, "go version failed: %s", strings.TrimSpace(string(res.Stderr)))
	}

	m, err := manifest.Load(bc.Opts.ManifestPath)
	if err != nil {
		return pipeline.Fail(pipeline.KindProvisioning, err)
	}
	bc.Manifest = m

	if want := m.Go; want != "" {
		have, ok := toolchainVersion(string(res.Stdout))
		switch {
		case !ok:
			bc.AddWarning("manifest requests go " + want + "; building with unrecognized toolchain " + strings.TrimSpace(string(res.Stdout)))
		case !versionAtLeast(have, want):
			return pipeline.Failf(pipeline.KindProvisioning,
				"manifest requires go >= %s, toolchain is go%s", want, have)
		}
	}

	if err := Snapshot(bc.Opts.WorkDir, bc.Opts.EnvDir); err != nil {
		return pipeline.Fail(pipeline.KindProvisioning, err)
	}
	return nil
}

// toolchainVersion extracts the release from `go version` output, e.g.
// "1.23.4" from "go version go1.23.4 linux/amd64". Devel builds have no
// release token and report ok=false.
func toolchainVersion(out string) (string, bool) {
	for _, f := range strings.Fields(out) {
		v, found := strings.CutPrefix(f, "go")
		if found && v != "" && v[0] >= '0' && v[0] <= '9' {
			return v, true
		}
	}
	return "", false
}

// versionAtLeast compares dotted release versions numerically. Segments
// missing from the shorter version count as zero, so "1.23.4" satisfies a
// "1.23" minimum.
func versionAtLeast(have, want string) bool {
	hs := strings.Split(have, ".")
	ws := strings.Split(want, ".")
	for i := 0; i < len(hs) || i < len(ws); i++ {
		h, w := 0, 0
		if i < len(hs) {
			h, _ = strconv.Atoi(hs[i])
		}
		if i < len(ws) {
			w, _ = strconv.Atoi(ws[i])
		}
		if h != w {
			return h > w
		}
	}
	return true
}
