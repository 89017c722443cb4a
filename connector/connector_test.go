package connector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tenable/tenint/callback"
	"github.com/tenable/tenint/settings"
)

func testConnector(t *testing.T, opts ...Option) *Connector {
	t.Helper()
	model := settings.MustModel("test-connector",
		settings.Field{Name: "value", Type: settings.TypeString, Required: true},
	)
	c, err := New(model, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func noopHandler(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
	return nil, nil
}

func TestRegisterDuplicate(t *testing.T) {
	c := testConnector(t)
	if err := c.Register("run_me", noopHandler); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	err := c.Register("run_me", noopHandler)
	var dup *DuplicateJobError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateJobError, got %v", err)
	}
	if dup.Name != "run_me" {
		t.Errorf("duplicate name = %q, want run_me", dup.Name)
	}
	if got := c.Jobs(); len(got) != 1 {
		t.Errorf("registry holds %d jobs after rejected duplicate, want 1", len(got))
	}
}

func TestRegisterInvalid(t *testing.T) {
	c := testConnector(t)
	var inv *InvalidHandlerError
	if err := c.Register("", noopHandler); !errors.As(err, &inv) {
		t.Errorf("empty name: want InvalidHandlerError, got %v", err)
	}
	if err := c.Register("run_me", nil); !errors.As(err, &inv) {
		t.Errorf("nil handler: want InvalidHandlerError, got %v", err)
	}
}

func TestRegisterSecondDefault(t *testing.T) {
	c := testConnector(t)
	if err := c.RegisterDefault("first", noopHandler); err != nil {
		t.Fatalf("RegisterDefault: %v", err)
	}
	err := c.RegisterDefault("second", noopHandler)
	var dup *DuplicateJobError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateJobError for second default, got %v", err)
	}
}

func TestRunBeforeRegistration(t *testing.T) {
	c := testConnector(t)
	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{LogOutput: io.Discard})
	var nr *NotReadyError
	if !errors.As(err, &nr) {
		t.Fatalf("want NotReadyError, got %v", err)
	}
	if _, err := c.Config(); !errors.As(err, &nr) {
		t.Fatalf("config: want NotReadyError, got %v", err)
	}
}

func TestRunSingleJobWithoutName(t *testing.T) {
	c := testConnector(t)
	ran := false
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		ran = true
		if got := cfg.String("value"); got != "hi" {
			t.Errorf("value = %q, want hi", got)
		}
		return &callback.Counters{Assets: callback.TypeCounts{Sent: 3}}, nil
	})

	res, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ran {
		t.Fatal("handler never ran")
	}
	if res.Job != "run_me" {
		t.Errorf("resolved job = %q, want run_me", res.Job)
	}
	if res.JobID == "" {
		t.Error("job id was not generated")
	}
	if res.Counters == nil || res.Counters.Assets.Sent != 3 {
		t.Errorf("counters = %+v, want assets sent 3", res.Counters)
	}
}

func TestRunAmbiguous(t *testing.T) {
	c := testConnector(t)
	c.Register("one", noopHandler)
	c.Register("two", noopHandler)

	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{LogOutput: io.Discard})
	var amb *AmbiguousJobError
	if !errors.As(err, &amb) {
		t.Fatalf("want AmbiguousJobError, got %v", err)
	}
	if len(amb.Jobs) != 2 {
		t.Errorf("ambiguous candidates = %v, want both jobs", amb.Jobs)
	}
}

func TestRunDefaultWins(t *testing.T) {
	c := testConnector(t)
	c.Register("one", noopHandler)
	var ran string
	c.RegisterDefault("two", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		ran = "two"
		return nil, nil
	})

	res, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{LogOutput: io.Discard})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ran != "two" || res.Job != "two" {
		t.Errorf("default job did not run: ran=%q res.Job=%q", ran, res.Job)
	}
}

func TestRunUnknownJob(t *testing.T) {
	c := testConnector(t)
	c.Register("run_me", noopHandler)

	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{Job: "other", LogOutput: io.Discard})
	var unk *UnknownJobError
	if !errors.As(err, &unk) {
		t.Fatalf("want UnknownJobError, got %v", err)
	}
	if unk.Name != "other" {
		t.Errorf("unknown name = %q, want other", unk.Name)
	}
}

func TestRunValidationFailure(t *testing.T) {
	c := testConnector(t)
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		t.Fatal("handler must not run on invalid settings")
		return nil, nil
	})

	_, err := c.Run(context.Background(), []byte(`{}`), RunOptions{LogOutput: io.Discard})
	var missing *settings.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("want MissingFieldError, got %v", err)
	}
	if missing.Field != "value" {
		t.Errorf("missing field = %q, want value", missing.Field)
	}
}

func TestRunHandlerError(t *testing.T) {
	c := testConnector(t)
	boom := errors.New("upstream rejected us")
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		return nil, boom
	})

	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{LogOutput: io.Discard})
	var jerr *JobExecutionError
	if !errors.As(err, &jerr) {
		t.Fatalf("want JobExecutionError, got %v", err)
	}
	if jerr.Job != "run_me" {
		t.Errorf("failed job = %q, want run_me", jerr.Job)
	}
	if !errors.Is(err, boom) {
		t.Error("original cause is not retrievable through errors.Is")
	}
}

func TestRunHandlerPanic(t *testing.T) {
	c := testConnector(t)
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		panic("something went sideways")
	})

	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{LogOutput: io.Discard})
	var jerr *JobExecutionError
	if !errors.As(err, &jerr) {
		t.Fatalf("want JobExecutionError from panic, got %v", err)
	}
}

func TestRunDeliversCallback(t *testing.T) {
	var (
		gotJobID string
		gotBody  callback.Response
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotJobID = r.Header.Get("X-Job-ID")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testConnector(t)
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		return &callback.Counters{Findings: callback.TypeCounts{Sent: 7, Failed: 1}}, nil
	})

	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{
		JobID:       "abc-123",
		CallbackURL: srv.URL,
		LogOutput:   io.Discard,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if gotJobID != "abc-123" {
		t.Errorf("X-Job-ID = %q, want abc-123", gotJobID)
	}
	if gotBody.ExitCode != 0 || gotBody.Counts.Findings.Sent != 7 {
		t.Errorf("callback body = %+v", gotBody)
	}
}

func TestRunCallbackReportsFailure(t *testing.T) {
	var gotBody callback.Response
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
	}))
	defer srv.Close()

	c := testConnector(t)
	c.Register("run_me", func(ctx context.Context, cfg settings.Values) (*callback.Counters, error) {
		return nil, errors.New("nope")
	})

	_, err := c.Run(context.Background(), []byte(`{"value":"hi"}`), RunOptions{
		JobID:       "abc-123",
		CallbackURL: srv.URL,
		LogOutput:   io.Discard,
	})
	if err == nil {
		t.Fatal("want error from failing handler")
	}
	if gotBody.ExitCode != 1 {
		t.Errorf("callback exit code = %d, want 1", gotBody.ExitCode)
	}
}

func TestConfigDocument(t *testing.T) {
	model := settings.MustModel("test-connector",
		settings.Field{Name: "value", Type: settings.TypeString, Required: true},
		settings.Field{Name: "limit", Type: settings.TypeInt, Default: 50},
	)
	c, err := New(model, WithCredentials(Credential{
		Prefix: "TIO",
		Name:   "Tenable Vulnerability Management",
		Slug:   "tvm",
		Fields: []settings.Field{
			{Name: "access_key", Type: settings.TypeString, Required: true, Secret: true},
			{Name: "secret_key", Type: settings.TypeString, Required: true, Secret: true},
		},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	c.Register("run_me", noopHandler)

	cfg, err := c.Config()
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if cfg.Settings == nil || len(cfg.Settings.Properties) != 2 {
		t.Fatalf("settings schema = %+v", cfg.Settings)
	}
	if got := cfg.Defaults.Int("limit"); got != 50 {
		t.Errorf("default limit = %d, want 50", got)
	}
	if _, ok := cfg.Defaults["value"]; ok {
		t.Error("required field without default must be absent from defaults")
	}
	if len(cfg.Credentials) != 1 || cfg.Credentials[0].Slug != "tvm" {
		t.Fatalf("credentials = %+v", cfg.Credentials)
	}
	if cfg.Credentials[0].Definition == nil {
		t.Error("credential definition schema missing")
	}
}

func TestCredentialEnvSecrets(t *testing.T) {
	cred := Credential{
		Prefix: "tio",
		Fields: []settings.Field{
			{Name: "access_key", Type: settings.TypeString, Secret: true},
			{Name: "url", Type: settings.TypeString},
		},
	}
	got := cred.EnvSecrets()
	if len(got) != 1 || got[0] != "TIO_ACCESS_KEY" {
		t.Errorf("EnvSecrets() = %v, want [TIO_ACCESS_KEY]", got)
	}
}

func TestNewRejectsBadCredential(t *testing.T) {
	model := settings.MustModel("test-connector",
		settings.Field{Name: "value", Type: settings.TypeString, Required: true},
	)
	_, err := New(model, WithCredentials(Credential{
		Prefix: "BAD",
		Name:   "broken",
		Fields: []settings.Field{{Name: "mode", Type: settings.TypeEnum}},
	}))
	if err == nil {
		t.Fatal("want error for credential with memberless enum field")
	}
}
