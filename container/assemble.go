package container

import (
	"context"
	"fmt"

	"github.com/tenable/tenint/manifest"
)

// AssembleOptions configures building the runtime image of a connector
// that already cleared the build pipeline.
type AssembleOptions struct {
	// ContextDir is the build context (the connector project root).
	ContextDir string
	// Dockerfile names the image recipe; empty means the tool default.
	Dockerfile string
	// Tag overrides the manifest's amd64 image reference.
	Tag string
	// Platform selects the target platform (e.g. linux/amd64).
	Platform string
	NoCache  bool
}

// Assemble builds the connector's runtime image, tagged from the
// manifest and labeled with the connector's identity.
func Assemble(ctx context.Context, b Builder, m *manifest.Manifest, opts AssembleOptions) (*BuildResult, error) {
	if b == nil {
		return nil, fmt.Errorf("no container builder installed (need docker, podman, or buildah)")
	}

	tag := opts.Tag
	if tag == "" {
		tag = m.Images.AMD64
	}
	if tag == "" {
		return nil, fmt.Errorf("no image tag: set images.amd64 in %s or pass one explicitly", manifest.Filename)
	}

	return b.Build(ctx, BuildOptions{
		ContextDir: opts.ContextDir,
		Dockerfile: opts.Dockerfile,
		Tag:        tag,
		Platform:   opts.Platform,
		NoCache:    opts.NoCache,
		Labels: map[string]string{
			"com.tenable.connector.name":    m.Name,
			"com.tenable.connector.version": m.Version,
			"com.tenable.connector.owner":   m.Author.Email,
		},
	})
}
