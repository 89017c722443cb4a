package build

import "github.com/tenable/tenint/pipeline"

// StageOptions tunes the default stage sequence.
type StageOptions struct {
	// ImageURL and IconURL flow into the marketplace listing object.
	ImageURL string
	IconURL  string
}

// DefaultStages returns the full gate sequence in its fixed order.
func DefaultStages(r Runner, opts StageOptions) []pipeline.Stage {
	return []pipeline.Stage{
		&ProvisionStage{Runner: r},
		&DependencyStage{Runner: r},
		&LintStage{Runner: r},
		&TestStage{Runner: r},
		&AuditStage{Runner: r},
		&SecurityStage{Runner: r},
		&MetadataStage{ImageURL: opts.ImageURL, IconURL: opts.IconURL},
		&StampStage{},
	}
}
