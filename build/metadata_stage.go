package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tenable/tenint/manifest"
	"github.com/tenable/tenint/pipeline"
)

// MetadataStage validates the manifest against the marketplace schema and
// writes the catalog listing object. A manifest that would be rejected at
// publish time fails the build here instead.
type MetadataStage struct {
	// ImageURL and IconURL override the manifest's published image and
	// logo in the listing object.
	ImageURL string
	IconURL  string
}

func (s *MetadataStage) Name() string { return "marketplace-metadata" }

func (s *MetadataStage) Execute(ctx context.Context, bc *pipeline.BuildContext) error {
	if bc.Manifest == nil {
		return pipeline.Failf(pipeline.KindManifest, "no manifest loaded")
	}

	findings, err := manifest.ValidateMarketplace(bc.Manifest)
	if err != nil {
		return pipeline.Fail(pipeline.KindManifest, err)
	}
	if len(findings) > 0 {
		return pipeline.Failf(pipeline.KindManifest, "manifest rejected by marketplace schema:\n  %s",
			strings.Join(findings, "\n  "))
	}

	obj := manifest.MarketplaceObject(bc.Manifest, s.ImageURL, s.IconURL)
	data, err := obj.MarshalIndent()
	if err != nil {
		return pipeline.Fail(pipeline.KindManifest, err)
	}

	if err := os.MkdirAll(bc.Opts.OutputDir, 0o755); err != nil {
		return pipeline.Fail(pipeline.KindManifest, err)
	}
	dst := filepath.Join(bc.Opts.OutputDir, "marketplace-object.json")
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return pipeline.Fail(pipeline.KindManifest, fmt.Errorf("writing marketplace object: %w", err))
	}
	bc.AddArtifact("marketplace-object.json", dst)
	return nil
}
