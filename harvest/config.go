package harvest

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"briefpipe/progress"
	"briefpipe/store"
)

const (
	// MinConcurrency and MaxConcurrency clamp the worker budget; more than
	// five concurrent browser contexts starves Chrome.
	MinConcurrency = 1
	MaxConcurrency = 5

	defaultConcurrency = 2
	defaultFolderLabel = "Documentos"
	defaultNavTimeout  = 45 * time.Second
)

// Options configures a harvest run.
type Options struct {
	// Headless runs Chrome without a visible window.
	Headless bool
	// ContinueOnError keeps processing remaining projects after a failure.
	// When false, already-started projects finish but no new project starts.
	ContinueOnError bool
	// KeepFiles retains the downloaded PDFs instead of deleting them after
	// extraction.
	KeepFiles bool
	// Concurrency is the worker budget, clamped to [1, 5].
	Concurrency int
	// SingleBriefing applies the primary-briefing selector and processes
	// only its winner; when false every candidate is downloaded.
	SingleBriefing bool
	// FallbackFirst falls back to the first candidate when scoring cannot
	// tell candidates apart. Disable to skip the project instead.
	FallbackFirst bool

	// SessionFile is the persisted authenticated browser state. Its absence
	// or malformed content fails the whole run before any project starts.
	SessionFile string
	// FolderLabel is the documents folder to enter inside each project.
	FolderLabel string
	// WorkDir hosts the per-project download directories. Defaults to the
	// system temp dir.
	WorkDir    string
	RemoteURL  string
	NavTimeout time.Duration

	// CancelProject, when non-nil, is consulted at checkpoints; returning
	// true cancels that project only.
	CancelProject func(projectNumber int) bool

	Logger *slog.Logger
	// Sink receives progress events; nil discards them.
	Sink progress.Sink
	// Store, when non-nil, persists each outcome. Store failures are logged
	// and never abort the run.
	Store store.Sink
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Headless:        true,
		ContinueOnError: true,
		SingleBriefing:  true,
		FallbackFirst:   true,
		Concurrency:     defaultConcurrency,
		FolderLabel:     defaultFolderLabel,
		NavTimeout:      defaultNavTimeout,
	}
}

func (o *Options) defaults() {
	if o.Concurrency < MinConcurrency {
		o.Concurrency = MinConcurrency
	}
	if o.Concurrency > MaxConcurrency {
		o.Concurrency = MaxConcurrency
	}
	if o.FolderLabel == "" {
		o.FolderLabel = defaultFolderLabel
	}
	if o.WorkDir == "" {
		o.WorkDir = os.TempDir()
	}
	if o.NavTimeout <= 0 {
		o.NavTimeout = defaultNavTimeout
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Sink == nil {
		o.Sink = progress.NewCallback(nil)
	}
}

// fileConfig is the YAML shape of a run configuration. Pointer fields
// distinguish "absent" from an explicit false/zero so defaults survive.
type fileConfig struct {
	Projects        []string `yaml:"projects"`
	Headless        *bool    `yaml:"headless"`
	ContinueOnError *bool    `yaml:"continue_on_error"`
	KeepFiles       *bool    `yaml:"keep_files"`
	Concurrency     *int     `yaml:"concurrency"`
	SingleBriefing  *bool    `yaml:"single_briefing"`
	FallbackFirst   *bool    `yaml:"fallback_first"`
	SessionFile     string   `yaml:"session_file"`
	FolderLabel     string   `yaml:"folder_label"`
	WorkDir         string   `yaml:"work_dir"`
	RemoteURL       string   `yaml:"remote_url"`
	NavTimeout      string   `yaml:"nav_timeout"`
	Database        string   `yaml:"database"`
}

// LoadConfigFile reads a YAML run configuration. It returns the resolved
// options, the project URLs and the database path ("" disables
// persistence).
func LoadConfigFile(path string) (Options, []string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, nil, "", fmt.Errorf("harvest: read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Options{}, nil, "", fmt.Errorf("harvest: parse config: %w", err)
	}

	opts := DefaultOptions()
	if fc.Headless != nil {
		opts.Headless = *fc.Headless
	}
	if fc.ContinueOnError != nil {
		opts.ContinueOnError = *fc.ContinueOnError
	}
	if fc.KeepFiles != nil {
		opts.KeepFiles = *fc.KeepFiles
	}
	if fc.Concurrency != nil {
		opts.Concurrency = *fc.Concurrency
	}
	if fc.SingleBriefing != nil {
		opts.SingleBriefing = *fc.SingleBriefing
	}
	if fc.FallbackFirst != nil {
		opts.FallbackFirst = *fc.FallbackFirst
	}
	opts.SessionFile = fc.SessionFile
	if fc.FolderLabel != "" {
		opts.FolderLabel = fc.FolderLabel
	}
	opts.WorkDir = fc.WorkDir
	opts.RemoteURL = fc.RemoteURL
	if fc.NavTimeout != "" {
		d, err := time.ParseDuration(fc.NavTimeout)
		if err != nil {
			return Options{}, nil, "", fmt.Errorf("harvest: nav_timeout: %w", err)
		}
		opts.NavTimeout = d
	}
	return opts, fc.Projects, fc.Database, nil
}
