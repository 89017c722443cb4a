package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tenable/tenint/manifest"
)

var marketplaceCmd = &cobra.Command{
	Use:   "marketplace",
	Short: "Validate the manifest and print the marketplace listing object",
	RunE:  runMarketplaceCmd,
}

func init() {
	marketplaceCmd.Flags().String("image-url", "", "published image URL for the listing")
	marketplaceCmd.Flags().String("icon-url", "", "icon URL for the listing")
	marketplaceCmd.Flags().String("output", "", "also write the listing object to a file")
}

func runMarketplaceCmd(cmd *cobra.Command, args []string) error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	findings, err := manifest.ValidateMarketplace(m)
	if err != nil {
		return err
	}
	if len(findings) > 0 {
		for _, f := range findings {
			fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: %s\n", f)
		}
		return fmt.Errorf("manifest rejected by marketplace schema: %d finding(s)", len(findings))
	}

	imageURL, _ := cmd.Flags().GetString("image-url")
	iconURL, _ := cmd.Flags().GetString("icon-url")
	data, err := manifest.MarketplaceObject(m, imageURL, iconURL).MarshalIndent()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("writing listing object: %w", err)
		}
	}
	return nil
}
