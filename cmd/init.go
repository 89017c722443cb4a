package cmd

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tenable/tenint/internal/tui"
	"github.com/tenable/tenint/internal/tui/steps"
	"github.com/tenable/tenint/templates"
	"github.com/tenable/tenint/util"
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Scaffold a new connector project",
	Long:  "Create a connector project skeleton: manifest, module, entrypoint, tests, and a hardened Dockerfile. Runs an interactive wizard unless --non-interactive is set.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInitCmd,
}

func init() {
	initCmd.Flags().StringP("name", "n", "", "connector display name")
	initCmd.Flags().StringP("description", "d", "", "one-line description")
	initCmd.Flags().String("author", "", "author name")
	initCmd.Flags().String("email", "", "author contact email")
	initCmd.Flags().StringSlice("tags", nil, "marketplace tags (e.g. assets,findings)")
	initCmd.Flags().String("module", "", "go module path (default example.com/<slug>)")
	initCmd.Flags().String("go-version", "1.23", "go version recorded in the manifest")
	initCmd.Flags().Bool("non-interactive", false, "run without the wizard (requires name, description, author, email, tags)")
	initCmd.Flags().Bool("force", false, "overwrite existing files")
}

func runInitCmd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	if name == "" && len(args) > 0 {
		name = args[0]
	}

	ctx := &tui.WizardContext{Name: name}
	ctx.Description, _ = cmd.Flags().GetString("description")
	ctx.AuthorName, _ = cmd.Flags().GetString("author")
	ctx.AuthorEmail, _ = cmd.Flags().GetString("email")
	ctx.Tags, _ = cmd.Flags().GetStringSlice("tags")

	nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
	if nonInteractive {
		if err := checkInitContext(ctx); err != nil {
			return err
		}
	} else {
		completed, err := runInitWizard(ctx)
		if err != nil {
			return err
		}
		*ctx = *completed
	}

	force, _ := cmd.Flags().GetBool("force")
	return scaffoldProject(cmd, ctx, force)
}

// runInitWizard drives the interactive wizard and returns the collected
// context.
func runInitWizard(prefill *tui.WizardContext) (*tui.WizardContext, error) {
	theme := tui.DetectTheme(themeOverride)
	styles := tui.NewStyleSet(theme)

	model := tui.NewWizardModel(theme, []tui.Step{
		steps.NewNameStep(styles, prefill.Name),
		steps.NewDetailsStep(styles),
		steps.NewTagsStep(styles),
		steps.NewReviewStep(styles),
	}, appVersion)

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("running wizard: %w", err)
	}
	wm, ok := final.(tui.WizardModel)
	if !ok {
		return nil, fmt.Errorf("unexpected wizard state")
	}
	if wm.Err() != nil {
		return nil, wm.Err()
	}
	if !wm.Done() {
		return nil, fmt.Errorf("wizard cancelled")
	}
	return wm.Context(), nil
}

func checkInitContext(ctx *tui.WizardContext) error {
	missing := func(flag string) error {
		return fmt.Errorf("--non-interactive requires --%s", flag)
	}
	switch {
	case ctx.Name == "":
		return missing("name")
	case ctx.Description == "":
		return missing("description")
	case ctx.AuthorName == "":
		return missing("author")
	case ctx.AuthorEmail == "":
		return missing("email")
	case len(ctx.Tags) == 0:
		return missing("tags")
	}
	return nil
}

func scaffoldProject(cmd *cobra.Command, ctx *tui.WizardContext, force bool) error {
	slug := util.Slugify(ctx.Name)
	if slug == "" {
		return fmt.Errorf("connector name %q produces an empty slug", ctx.Name)
	}

	module, _ := cmd.Flags().GetString("module")
	if module == "" {
		module = "example.com/" + slug
	}
	goVersion, _ := cmd.Flags().GetString("go-version")

	dir := filepath.Join(".", slug)
	written, err := templates.Scaffold(dir, templates.Data{
		Name:        ctx.Name,
		Slug:        slug,
		Description: ctx.Description,
		Module:      module,
		GoVersion:   goVersion,
		AuthorName:  ctx.AuthorName,
		AuthorEmail: ctx.AuthorEmail,
		Tags:        ctx.Tags,
		Image:       slug + ":0.1.0",
		Repository:  "https://example.com/" + slug,
		Logo:        "https://example.com/" + slug + "/logo.svg",
		Support:     "https://example.com/" + slug + "/support",
	}, force)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s/\n", dir)
	for _, f := range written {
		fmt.Fprintf(out, "  %s\n", f)
	}
	fmt.Fprintf(out, "\nNext steps:\n  cd %s\n  go mod tidy\n  tenint build\n", dir)
	return nil
}
