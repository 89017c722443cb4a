// Package container assembles connector runtime images with docker,
// podman, or buildah, whichever is installed.
package container

import (
	"context"
	"fmt"
	"sort"
)

// Builder abstracts a container image build tool.
type Builder interface {
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
	Push(ctx context.Context, image string) error
	Available() bool
	Name() string
}

// BuildOptions configures one image build.
type BuildOptions struct {
	ContextDir string
	Dockerfile string
	Tag        string
	Platform   string
	NoCache    bool
	BuildArgs  map[string]string
	Labels     map[string]string
}

// BuildResult identifies the produced image.
type BuildResult struct {
	ImageID string
	Tag     string
}

// Detect returns the first installed builder, preferring docker, then
// podman, then buildah. Returns nil when none is installed.
func Detect() Builder {
	for _, b := range []Builder{&DockerBuilder{}, &PodmanBuilder{}, &BuildahBuilder{}} {
		if b.Available() {
			return b
		}
	}
	return nil
}

// Get returns a builder by name, or nil for an unknown name.
func Get(name string) Builder {
	switch name {
	case "docker":
		return &DockerBuilder{}
	case "podman":
		return &PodmanBuilder{}
	case "buildah":
		return &BuildahBuilder{}
	}
	return nil
}

// commonArgs renders the build flags shared by all three tools. Map-fed
// flags are emitted in sorted key order so invocations are reproducible.
func commonArgs(opts BuildOptions) []string {
	var args []string
	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}
	if opts.Dockerfile != "" {
		args = append(args, "-f", opts.Dockerfile)
	}
	if opts.Platform != "" {
		args = append(args, "--platform", opts.Platform)
	}
	if opts.NoCache {
		args = append(args, "--no-cache")
	}
	for _, k := range sortedKeys(opts.BuildArgs) {
		args = append(args, "--build-arg", fmt.Sprintf("%s=%s", k, opts.BuildArgs[k]))
	}
	for _, k := range sortedKeys(opts.Labels) {
		args = append(args, "--label", fmt.Sprintf("%s=%s", k, opts.Labels[k]))
	}
	dir := opts.ContextDir
	if dir == "" {
		dir = "."
	}
	return append(args, dir)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
