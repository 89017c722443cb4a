package connector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tenable/tenint/callback"
	"github.com/tenable/tenint/settings"
)

func cliConnector(t *testing.T) *Connector {
	t.Helper()
	c := testConnector(t, WithLogPath(t.TempDir()+"/job.log"))
	if err := c.Register("run_me", noopHandler); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return c
}

func TestMainRunSuccess(t *testing.T) {
	c := cliConnector(t)
	if code := Main(c, "demo", []string{"run", "--json", `{"value":"hi"}`}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestMainRunValidationFailure(t *testing.T) {
	c := cliConnector(t)
	if code := Main(c, "demo", []string{"run", "--json", `{}`}); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestMainRunJobFailure(t *testing.T) {
	c := testConnector(t, WithLogPath(t.TempDir()+"/job.log"))
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		return nil, errors.New("nope")
	})
	if code := Main(c, "demo", []string{"run", "--json", `{"value":"hi"}`}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestMainRunWithoutSettings(t *testing.T) {
	c := cliConnector(t)
	if code := Main(c, "demo", []string{"run"}); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestMainRunSettingsFromEnv(t *testing.T) {
	c := cliConnector(t)
	t.Setenv("CONFIG_JSON", `{"value":"hi"}`)
	if code := Main(c, "demo", []string{"run"}); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestMainRunBadSinceEnv(t *testing.T) {
	c := cliConnector(t)
	t.Setenv("SINCE", "not-a-number")
	if code := Main(c, "demo", []string{"run", "--json", `{"value":"hi"}`}); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestConfigCommandOutput(t *testing.T) {
	c := cliConnector(t)
	cmd := CLI(c, "demo")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--pretty"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config: %v", err)
	}

	var doc Configuration
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("config output is not JSON: %v\n%s", err, out.String())
	}
	if doc.Settings == nil {
		t.Error("config output lacks settings schema")
	}
}

func TestValidateCommand(t *testing.T) {
	c := cliConnector(t)

	cmd := CLI(c, "demo")
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"validate", "--json", `{"value":"hi"}`})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	cmd = CLI(c, "demo")
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"validate", "--json", `{}`})
	err := cmd.Execute()
	var missing *settings.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
}
