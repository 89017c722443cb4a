package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tenable/tenint/runtime"
)

var runCmd = &cobra.Command{
	Use:   "run [-- entrypoint args...]",
	Short: "Invoke a connector in its project directory",
	Long:  "Run the connector entrypoint as a child process with the job parameters passed through the environment. The default entrypoint is \"go run .\"; pass an alternative after --.",
	RunE:  runRunCmd,
}

func init() {
	runCmd.Flags().StringP("json", "j", "", "JSON settings object as a string")
	runCmd.Flags().String("json-file", "", "read the JSON settings object from a file")
	runCmd.Flags().String("job", "", "job to run")
	runCmd.Flags().StringP("job-id", "J", "", "unique job id of this invocation")
	runCmd.Flags().StringP("callback", "c", "", "URL to call back to on completion")
	runCmd.Flags().StringP("log-level", "l", "", "logging verbosity for the job")
	runCmd.Flags().Int64P("since", "s", 0, "start of the last successful run, epoch seconds")
	runCmd.Flags().String("env-file", ".env", "env file loaded into the connector process")
}

func runRunCmd(cmd *cobra.Command, args []string) error {
	env, err := connectorEnv(cmd)
	if err != nil {
		return err
	}

	jsonData, _ := cmd.Flags().GetString("json")
	if jsonFile, _ := cmd.Flags().GetString("json-file"); jsonData == "" && jsonFile != "" {
		data, err := os.ReadFile(jsonFile)
		if err != nil {
			return fmt.Errorf("reading settings file: %w", err)
		}
		jsonData = string(data)
	}
	if jsonData != "" {
		env["CONFIG_JSON"] = jsonData
	}
	if job, _ := cmd.Flags().GetString("job"); job != "" {
		env["JOB_NAME"] = job
	}
	if jobID, _ := cmd.Flags().GetString("job-id"); jobID != "" {
		env["JOB_ID"] = jobID
	}
	if cb, _ := cmd.Flags().GetString("callback"); cb != "" {
		env["CALLBACK_URL"] = cb
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		env["LOG_LEVEL"] = level
	}
	if since, _ := cmd.Flags().GetInt64("since"); since != 0 {
		env["SINCE"] = strconv.FormatInt(since, 10)
	}

	entrypoint, extra := splitEntrypoint(args)
	code, err := invokeConnector(cmd, entrypoint, append(extra, "run"), env)
	if err != nil {
		return err
	}
	if code != 0 {
		os.Exit(code)
	}
	return nil
}

// splitEntrypoint interprets trailing args as an alternative entrypoint.
func splitEntrypoint(args []string) (string, []string) {
	if len(args) == 0 {
		return "go run .", nil
	}
	return args[0], args[1:]
}

// connectorEnv loads the project env file relative to the manifest.
func connectorEnv(cmd *cobra.Command) (map[string]string, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if !filepath.IsAbs(envFile) {
		mpath, err := filepath.Abs(manifestPath)
		if err != nil {
			return nil, err
		}
		envFile = filepath.Join(filepath.Dir(mpath), envFile)
	}
	env, err := runtime.LoadEnvFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("loading env file: %w", err)
	}
	return env, nil
}

// invokeConnector runs the connector entrypoint in the project directory
// and returns the child's exit code.
func invokeConnector(cmd *cobra.Command, entrypoint string, args []string, env map[string]string) (int, error) {
	mpath, err := filepath.Abs(manifestPath)
	if err != nil {
		return -1, err
	}

	return runtime.Invoke(cmd.Context(), runtime.Invocation{
		Entrypoint: entrypoint,
		Args:       args,
		WorkDir:    filepath.Dir(mpath),
		Env:        env,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
}
