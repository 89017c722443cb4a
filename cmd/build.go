package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tenable/tenint/build"
	"github.com/tenable/tenint/container"
	"github.com/tenable/tenint/pipeline"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Run the gated build pipeline and assemble the runtime image",
	RunE:  runBuildCmd,
}

func init() {
	buildCmd.Flags().Bool("skip-image", false, "stop after the pipeline, do not build an image")
	buildCmd.Flags().String("tag", "", "image tag (overrides images.amd64 in the manifest)")
	buildCmd.Flags().String("platform", "", "target platform, e.g. linux/amd64")
	buildCmd.Flags().String("builder", "", "container builder: docker, podman, or buildah (default: detect)")
	buildCmd.Flags().Bool("no-cache", false, "build the image without layer cache")
	buildCmd.Flags().Bool("push", false, "push the image after a successful build")
	buildCmd.Flags().Float64("coverage", 0, "statement coverage floor in percent (default 80)")
	buildCmd.Flags().String("image-url", "", "published image URL for the marketplace listing")
	buildCmd.Flags().String("icon-url", "", "icon URL for the marketplace listing")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	mpath, err := filepath.Abs(manifestPath)
	if err != nil {
		return err
	}
	workDir := filepath.Dir(mpath)

	outDir := outputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	envDir, err := os.MkdirTemp("", "tenint-build-*")
	if err != nil {
		return fmt.Errorf("creating build environment: %w", err)
	}
	envDir = filepath.Join(envDir, "src")
	defer build.Teardown(filepath.Dir(envDir))

	threshold, _ := cmd.Flags().GetFloat64("coverage")
	bc := pipeline.NewBuildContext(pipeline.Options{
		WorkDir:           workDir,
		EnvDir:            envDir,
		OutputDir:         outDir,
		ManifestPath:      mpath,
		CoverageThreshold: threshold,
	})
	bc.Verbose = verbose
	bc.Progress = os.Stderr

	imageURL, _ := cmd.Flags().GetString("image-url")
	iconURL, _ := cmd.Flags().GetString("icon-url")
	p := pipeline.New(build.DefaultStages(build.ExecRunner{}, build.StageOptions{
		ImageURL: imageURL,
		IconURL:  iconURL,
	})...)

	if err := p.Run(cmd.Context(), bc); err != nil {
		return err
	}
	for _, w := range bc.Warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}

	if skip, _ := cmd.Flags().GetBool("skip-image"); skip {
		fmt.Fprintf(cmd.OutOrStdout(), "Pipeline passed (coverage %.1f%%). Output: %s\n", bc.Coverage, outDir)
		return nil
	}

	builderName, _ := cmd.Flags().GetString("builder")
	var b container.Builder
	if builderName != "" {
		if b = container.Get(builderName); b == nil {
			return fmt.Errorf("unknown container builder %q", builderName)
		}
	} else {
		b = container.Detect()
	}

	tag, _ := cmd.Flags().GetString("tag")
	platform, _ := cmd.Flags().GetString("platform")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	res, err := container.Assemble(cmd.Context(), b, bc.Manifest, container.AssembleOptions{
		ContextDir: workDir,
		Dockerfile: filepath.Join(workDir, "Dockerfile"),
		Tag:        tag,
		Platform:   platform,
		NoCache:    noCache,
	})
	if err != nil {
		return fmt.Errorf("assembling image: %w", err)
	}

	if push, _ := cmd.Flags().GetBool("push"); push {
		if err := b.Push(cmd.Context(), res.Tag); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Build complete (coverage %.1f%%). Image: %s (%s)\n",
		bc.Coverage, res.Tag, res.ImageID)
	return nil
}
