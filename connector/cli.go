package connector

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// CLI builds the connector's command surface: run, config, and validate.
// This is the command a connector binary executes and the entrypoint the
// runtime image re-invokes.
func CLI(c *Connector, name string) *cobra.Command {
	root := &cobra.Command{
		Use:           name,
		Short:         name + " — a tenint connector",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCommand(c))
	root.AddCommand(configCommand(c))
	root.AddCommand(validateCommand(c))
	return root
}

// Main executes the connector CLI and maps failures to exit codes: 0 on
// success, 1 when the job itself failed, 2 for configuration and
// validation failures.
func Main(c *Connector, name string, args []string) int {
	cmd := CLI(c, name)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		var jerr *JobExecutionError
		if errors.As(err, &jerr) {
			return 1
		}
		return 2
	}
	return 0
}

func runCommand(c *Connector) *cobra.Command {
	var (
		jsonData    string
		jobName     string
		jobID       string
		callbackURL string
		logLevel    string
		since       int64
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Invoke the connector",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonData = fromEnv(jsonData, "CONFIG_JSON")
			jobName = fromEnv(jobName, "JOB_NAME")
			jobID = fromEnv(jobID, "JOB_ID")
			callbackURL = fromEnv(callbackURL, "CALLBACK_URL")
			logLevel = fromEnv(logLevel, "LOG_LEVEL")
			if since == 0 {
				if v := os.Getenv("SINCE"); v != "" {
					parsed, err := strconv.ParseInt(v, 10, 64)
					if err != nil {
						return fmt.Errorf("SINCE must be epoch seconds: %w", err)
					}
					since = parsed
				}
			}
			if jsonData == "" {
				return fmt.Errorf("no settings supplied: pass --json or set CONFIG_JSON")
			}

			_, err := c.Run(cmd.Context(), []byte(jsonData), RunOptions{
				Job:         jobName,
				JobID:       jobID,
				CallbackURL: callbackURL,
				LogLevel:    logLevel,
				Since:       since,
			})
			return err
		},
	}

	cmd.Flags().StringVarP(&jsonData, "json", "j", "", "JSON settings object as a string (env: CONFIG_JSON)")
	cmd.Flags().StringVar(&jobName, "job", "", "job to run; defaults to the connector's default job (env: JOB_NAME)")
	cmd.Flags().StringVarP(&jobID, "job-id", "J", "", "unique job id of this invocation (env: JOB_ID)")
	cmd.Flags().StringVarP(&callbackURL, "callback", "c", "", "URL to call back to on completion (env: CALLBACK_URL)")
	cmd.Flags().StringVarP(&logLevel, "log-level", "l", "", "logging verbosity for the job (env: LOG_LEVEL)")
	cmd.Flags().Int64VarP(&since, "since", "s", 0, "start of the last successful run, epoch seconds (env: SINCE)")
	return cmd
}

func configCommand(c *Connector) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the connector configuration schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.Config()
			if err != nil {
				return err
			}
			var data []byte
			if pretty {
				data, err = json.MarshalIndent(cfg, "", "  ")
			} else {
				data, err = json.Marshal(cfg)
			}
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "pretty format the response")
	return cmd
}

func validateCommand(c *Connector) *cobra.Command {
	var jsonData string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a settings document without running a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonData = fromEnv(jsonData, "CONFIG_JSON")
			if jsonData == "" {
				return fmt.Errorf("no settings supplied: pass --json or set CONFIG_JSON")
			}
			if _, err := c.model.ValidateJSON([]byte(jsonData)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "settings valid")
			return nil
		},
	}

	cmd.Flags().StringVarP(&jsonData, "json", "j", "", "JSON settings object as a string (env: CONFIG_JSON)")
	return cmd
}

func fromEnv(current, key string) string {
	if current != "" {
		return current
	}
	return os.Getenv(key)
}
