// Package connector implements the connector runtime: a settings model
// bound to a registry of named job handlers, exposed through a small CLI.
// A connector author constructs one Connector at module load, registers
// jobs against it, and hands it to Main.
//
// The runtime is single-invocation: one process runs one job
// synchronously and exits. The model and registry are read-only once the
// first run or config call happens, so concurrent reads need no locking.
package connector

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tenable/tenint/callback"
	"github.com/tenable/tenint/runtime"
	"github.com/tenable/tenint/settings"
)

// Handler is a connector job: it receives the validated, typed settings
// for the invocation and reports data counts for the completion callback.
// A nil Counters result is valid and means "no counts".
type Handler func(ctx context.Context, cfg settings.Values) (*callback.Counters, error)

type job struct {
	name    string
	handler Handler
}

// Connector binds one settings model and one job registry. The binding is
// fixed at construction.
type Connector struct {
	model       *settings.Model
	credentials []Credential
	credModels  []*settings.Model

	jobs       []job
	defaultJob string

	logger    runtime.Logger
	logPath   string
	callbacks *callback.Client
}

// Option configures a Connector at construction time.
type Option func(*Connector)

// WithCredentials declares the credential contracts the connector needs.
func WithCredentials(creds ...Credential) Option {
	return func(c *Connector) { c.credentials = append(c.credentials, creds...) }
}

// WithLogger replaces the default job logger.
func WithLogger(l runtime.Logger) Option {
	return func(c *Connector) { c.logger = l }
}

// WithLogPath changes where the job log file is written. The default is
// job.log in the working directory.
func WithLogPath(path string) Option {
	return func(c *Connector) { c.logPath = path }
}

// New constructs a Connector around a settings model. It fails if a
// declared credential's field list is not a valid settings contract.
func New(model *settings.Model, opts ...Option) (*Connector, error) {
	c := &Connector{
		model:     model,
		logPath:   "job.log",
		callbacks: callback.NewClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, cred := range c.credentials {
		cm, err := settings.NewModel(cred.Name, cred.Fields...)
		if err != nil {
			return nil, fmt.Errorf("credential %q: %w", cred.Name, err)
		}
		c.credModels = append(c.credModels, cm)
	}
	return c, nil
}

// Register adds a named job to the registry. Registering an existing name
// fails with a *DuplicateJobError and the first registration is retained.
func (c *Connector) Register(name string, h Handler) error {
	return c.register(name, h, false)
}

// RegisterDefault registers a job and marks it the target for run requests
// that name no job. Only one default may exist.
func (c *Connector) RegisterDefault(name string, h Handler) error {
	return c.register(name, h, true)
}

func (c *Connector) register(name string, h Handler, def bool) error {
	if name == "" {
		return &InvalidHandlerError{Name: name, Reason: "job name is empty"}
	}
	if h == nil {
		return &InvalidHandlerError{Name: name, Reason: "handler is nil"}
	}
	for _, j := range c.jobs {
		if j.name == name {
			return &DuplicateJobError{Name: name}
		}
	}
	if def {
		if c.defaultJob != "" {
			return &DuplicateJobError{Name: c.defaultJob}
		}
		c.defaultJob = name
	}
	c.jobs = append(c.jobs, job{name: name, handler: h})
	return nil
}

// Jobs returns the registered job names in registration order.
func (c *Connector) Jobs() []string {
	names := make([]string, len(c.jobs))
	for i, j := range c.jobs {
		names[i] = j.name
	}
	return names
}

// Configuration is the document emitted by the config command: the
// settings schema, the credential contracts, and the effective defaults.
type Configuration struct {
	Settings    *settings.Schema `json:"settings"`
	Credentials []CredentialInfo `json:"credentials"`
	Defaults    settings.Values  `json:"defaults"`
}

// Config generates the configuration document. It fails with a
// *NotReadyError before any job is registered.
func (c *Connector) Config() (*Configuration, error) {
	if len(c.jobs) == 0 {
		return nil, &NotReadyError{Op: "config"}
	}
	creds := make([]CredentialInfo, 0, len(c.credentials))
	for i, cred := range c.credentials {
		creds = append(creds, cred.info(c.credModels[i]))
	}
	return &Configuration{
		Settings:    c.model.Schema(),
		Credentials: creds,
		Defaults:    c.model.Defaults(),
	}, nil
}

// RunOptions carries the per-invocation parameters of a job run.
type RunOptions struct {
	// Job names the job to execute; empty selects the default job, or the
	// single registered job when exactly one exists.
	Job string
	// JobID identifies the invocation to the scheduler; generated when
	// empty.
	JobID string
	// CallbackURL, when set together with a job ID, receives the
	// completion payload.
	CallbackURL string
	// Since is the start of the previous successful run, in epoch seconds.
	Since int64
	// LogLevel gates debug logging ("debug" enables it; the default is
	// debug, matching an unattended job's need for full context).
	LogLevel string
	// LogOutput overrides the log destination; nil means stderr plus the
	// job log file.
	LogOutput io.Writer
}

// Result summarizes a completed run.
type Result struct {
	Job      string
	JobID    string
	Counters *callback.Counters
	ExitCode int
}

// Run validates raw settings, resolves the requested job, and executes it
// synchronously. Handler failures — returned errors and panics alike — are
// caught, logged with their cause, and re-signalled as *JobExecutionError;
// connector-author code never crashes the process uncontrolled. When a
// callback URL and job ID are present the completion payload is posted
// regardless of outcome.
func (c *Connector) Run(ctx context.Context, rawJSON []byte, opts RunOptions) (*Result, error) {
	if len(c.jobs) == 0 {
		return nil, &NotReadyError{Op: "run"}
	}

	j, err := c.resolve(opts.Job)
	if err != nil {
		return nil, err
	}

	if opts.JobID == "" {
		opts.JobID = uuid.NewString()
	}

	log, closeLog := c.jobLogger(opts)
	defer closeLog()

	c.logEnvironment(log)
	log.Info("job starting", map[string]any{"job": j.name, "job_id": opts.JobID})
	log.Debug("raw settings", map[string]any{"json": string(rawJSON)})

	cfg, err := c.model.ValidateJSON(rawJSON)
	if err != nil {
		log.Error("settings validation failed", map[string]any{"error": err.Error()})
		c.deliverCallback(ctx, log, opts, callback.Response{ExitCode: 2})
		return nil, err
	}

	counters, err := c.invoke(ctx, j, cfg, log)
	if err != nil {
		c.deliverCallback(ctx, log, opts, callback.Response{ExitCode: 1})
		return nil, err
	}

	resp := callback.Response{ExitCode: 0}
	if counters != nil {
		resp.Counts = *counters
	}
	c.deliverCallback(ctx, log, opts, resp)

	log.Info("job finished", map[string]any{"job": j.name, "job_id": opts.JobID})
	return &Result{Job: j.name, JobID: opts.JobID, Counters: counters}, nil
}

func (c *Connector) resolve(name string) (job, error) {
	if name != "" {
		for _, j := range c.jobs {
			if j.name == name {
				return j, nil
			}
		}
		return job{}, &UnknownJobError{Name: name}
	}
	if c.defaultJob != "" {
		for _, j := range c.jobs {
			if j.name == c.defaultJob {
				return j, nil
			}
		}
	}
	if len(c.jobs) == 1 {
		return c.jobs[0], nil
	}
	return job{}, &AmbiguousJobError{Jobs: c.Jobs()}
}

// invoke runs the handler with panic containment.
func (c *Connector) invoke(ctx context.Context, j job, cfg settings.Values, log runtime.Logger) (counters *callback.Counters, err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("panic: %v", r)
			}
			err = &JobExecutionError{Job: j.name, Cause: cause}
			log.Error("job panicked", map[string]any{"job": j.name, "error": cause.Error()})
		}
	}()

	counters, err = j.handler(ctx, cfg)
	if err != nil {
		log.Error("job failed", map[string]any{"job": j.name, "error": err.Error()})
		return nil, &JobExecutionError{Job: j.name, Cause: err}
	}
	return counters, nil
}

func (c *Connector) deliverCallback(ctx context.Context, log runtime.Logger, opts RunOptions, resp callback.Response) {
	if opts.CallbackURL == "" || opts.JobID == "" {
		log.Warn("no callback configured", nil)
		return
	}
	if err := c.callbacks.Post(ctx, opts.CallbackURL, opts.JobID, resp); err != nil {
		log.Error("callback delivery failed", map[string]any{"url": opts.CallbackURL, "error": err.Error()})
		return
	}
	log.Info("callback delivered", map[string]any{"url": opts.CallbackURL, "exit_code": resp.ExitCode})
}

// jobLogger builds the logger for one run: the configured logger if one
// was injected, otherwise structured JSON to stderr plus the job log file.
func (c *Connector) jobLogger(opts RunOptions) (runtime.Logger, func()) {
	if c.logger != nil {
		return c.logger, func() {}
	}

	verbose := opts.LogLevel == "" || strings.EqualFold(opts.LogLevel, "debug")

	if opts.LogOutput != nil {
		return runtime.NewJSONLogger(opts.LogOutput, verbose), func() {}
	}

	f, err := os.OpenFile(c.logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		log := runtime.NewJSONLogger(os.Stderr, verbose)
		log.Warn("cannot open job log file", map[string]any{"path": c.logPath, "error": err.Error()})
		return log, func() {}
	}
	return runtime.NewJSONLogger(io.MultiWriter(os.Stderr, f), verbose), func() { _ = f.Close() }
}

// logEnvironment records the process environment at debug level with
// credential secrets redacted.
func (c *Connector) logEnvironment(log runtime.Logger) {
	hidden := make(map[string]bool)
	for _, cred := range c.credentials {
		for _, name := range cred.EnvSecrets() {
			hidden[name] = true
		}
	}

	env := os.Environ()
	sort.Strings(env)
	for _, kv := range env {
		key, val, _ := strings.Cut(kv, "=")
		if hidden[key] {
			val = "{{ HIDDEN }}"
		}
		log.Debug("env", map[string]any{key: val})
	}
}
