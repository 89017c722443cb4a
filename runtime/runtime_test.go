package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewJSONLogger(&buf, false)
	log.Info("job started", map[string]any{"job": "sync", "attempt": 1})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log entry not valid JSON: %v", err)
	}
	if entry["level"] != "info" || entry["msg"] != "job started" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["job"] != "sync" {
		t.Fatalf("field lost: %v", entry)
	}
	if entry["time"] == nil {
		t.Fatal("timestamp missing")
	}
}

func TestJSONLoggerDebugGating(t *testing.T) {
	var buf bytes.Buffer
	NewJSONLogger(&buf, false).Debug("hidden", nil)
	if buf.Len() != 0 {
		t.Fatal("debug emitted without verbose")
	}
	NewJSONLogger(&buf, true).Debug("shown", nil)
	if buf.Len() == 0 {
		t.Fatal("debug suppressed with verbose")
	}
}

func TestParseEnvVars(t *testing.T) {
	input := `
# comment
export API_KEY="abc123"
PLAIN=value
QUOTED='single'
  SPACED  =  padded
NOEQUALS
`
	env, err := ParseEnvVars(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseEnvVars: %v", err)
	}
	want := map[string]string{
		"API_KEY": "abc123",
		"PLAIN":   "value",
		"QUOTED":  "single",
		"SPACED":  "padded",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%q] = %q, want %q", k, env[k], v)
		}
	}
	if _, ok := env["NOEQUALS"]; ok {
		t.Error("line without = should be skipped")
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	env, err := LoadEnvFile("/definitely/not/here/.env")
	if err != nil {
		t.Fatalf("missing env file should not error: %v", err)
	}
	if len(env) != 0 {
		t.Fatalf("expected empty map, got %v", env)
	}
}

func TestInvokeEmptyEntrypoint(t *testing.T) {
	if _, err := Invoke(context.Background(), Invocation{}); err == nil {
		t.Fatal("expected error for empty entrypoint")
	}
}

func TestInvokeExitCodes(t *testing.T) {
	var out bytes.Buffer
	code, err := Invoke(context.Background(), Invocation{
		Entrypoint: "sh -c",
		Args:       []string{"echo hello"},
		Stdout:     &out,
		Stderr:     &out,
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(out.String(), "hello") {
		t.Fatalf("stdout not captured: %q", out.String())
	}

	code, err = Invoke(context.Background(), Invocation{
		Entrypoint: "sh",
		Args:       []string{"-c", "exit 3"},
	})
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
}

func TestInvokePassesEnv(t *testing.T) {
	var out bytes.Buffer
	code, err := Invoke(context.Background(), Invocation{
		Entrypoint: "sh",
		Args:       []string{"-c", "printf %s \"$CONFIG_JSON\""},
		Env:        map[string]string{"CONFIG_JSON": `{"a":1}`},
		Stdout:     &out,
	})
	if err != nil || code != 0 {
		t.Fatalf("Invoke: code=%d err=%v", code, err)
	}
	if out.String() != `{"a":1}` {
		t.Fatalf("env not passed: %q", out.String())
	}
}
