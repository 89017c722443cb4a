package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [-- entrypoint args...]",
	Short: "Print a connector's configuration schema",
	RunE:  runConfigCmd,
}

func init() {
	configCmd.Flags().Bool("pretty", false, "pretty format the response")
	configCmd.Flags().String("env-file", ".env", "env file loaded into the connector process")
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	env, err := connectorEnv(cmd)
	if err != nil {
		return err
	}

	sub := []string{"config"}
	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty {
		sub = append(sub, "--pretty")
	}

	entrypoint, extra := splitEntrypoint(args)
	code, err := invokeConnector(cmd, entrypoint, append(extra, sub...), env)
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}
