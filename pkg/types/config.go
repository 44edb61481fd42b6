package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "startup-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the web search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResultsPerQuery caps results returned per query (default 10).
	MaxResultsPerQuery int `json:"max_results_per_query" yaml:"max_results_per_query"`

	// EnableGoogle controls the Google Custom Search backend. Requires
	// GoogleAPIKey and GoogleEngineID.
	EnableGoogle bool `json:"enable_google" yaml:"enable_google"`

	// EnableBrave controls the Brave Web Search backend. Requires BraveAPIKey.
	EnableBrave bool `json:"enable_brave" yaml:"enable_brave"`

	// EnableDuckDuckGo controls the keyless DuckDuckGo HTML fallback.
	EnableDuckDuckGo bool `json:"enable_duckduckgo" yaml:"enable_duckduckgo"`

	GoogleAPIKey   string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleEngineID string `json:"google_engine_id,omitempty" yaml:"google_engine_id,omitempty"`
	BraveAPIKey    string `json:"brave_api_key,omitempty" yaml:"brave_api_key,omitempty"`

	// InterBackendDelay is the delay between API calls to different backends.
	InterBackendDelay time.Duration `json:"inter_backend_delay" yaml:"inter_backend_delay"`
}

// AgentProvider identifies the LLM API behind the agent runtime.
type AgentProvider string

const (
	ProviderClaude AgentProvider = "claude"
	ProviderGemini AgentProvider = "gemini"
)

// AgentConfig holds settings for the LLM agent runtime shared by all stages.
type AgentConfig struct {
	// Provider selects the LLM API: claude or gemini.
	Provider AgentProvider `json:"provider" yaml:"provider"`

	// Model is the model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// Validate reports a fatal configuration error when the agent runtime
// cannot authenticate. Checked at startup, before any network call.
func (c AgentConfig) Validate() error {
	switch c.Provider {
	case ProviderClaude, ProviderGemini:
	case "":
		return fmt.Errorf("agent provider not configured: set agent.provider to claude or gemini")
	default:
		return fmt.Errorf("unknown agent provider %q: expected claude or gemini", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("missing API key for provider %s: add the key file to .secrets/ or set agent.api_key", c.Provider)
	}
	return nil
}

// DiscoveryConfig holds settings for the discovery stage.
type DiscoveryConfig struct {
	// WindowDays is the founding-date window searched for new startups (default 30).
	WindowDays int `json:"window_days" yaml:"window_days"`

	// MaxStartups caps the startups carried into analysis per run (default 100).
	MaxStartups int `json:"max_startups" yaml:"max_startups"`

	// FuzzyThreshold is the name-similarity ratio above which two
	// startups are treated as duplicates (default 0.85).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`

	// FetchPages is the number of top search results whose pages are
	// fetched and fed to extraction as plain text (default 3, 0 disables).
	FetchPages int `json:"fetch_pages" yaml:"fetch_pages"`
}

// AnalysisConfig holds settings for the market-fit analysis stage.
type AnalysisConfig struct {
	// MinFitScore filters startups below this score out of downstream
	// stages (default 40). Filtered startups are still persisted.
	MinFitScore int `json:"min_fit_score" yaml:"min_fit_score"`

	// BatchSize is the number of startups scored per LLM call (default 8).
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// ReportConfig holds settings for report generation.
type ReportConfig struct {
	// OutputDir is the base directory for per-run report directories
	// (default "reports").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// CSVExport also writes startups.csv alongside the JSON report.
	CSVExport bool `json:"csv_export" yaml:"csv_export"`

	// TopOpportunities is the number of top startups included in the
	// report summary (default 10).
	TopOpportunities int `json:"top_opportunities" yaml:"top_opportunities"`
}

// NotifyConfig holds settings for the email notification.
type NotifyConfig struct {
	// Enabled turns on email notification after a successful run.
	Enabled bool `json:"enabled" yaml:"enabled"`

	SMTPHost   string   `json:"smtp_host" yaml:"smtp_host"`
	SMTPPort   int      `json:"smtp_port" yaml:"smtp_port"`
	Sender     string   `json:"sender" yaml:"sender"`
	Password   string   `json:"password,omitempty" yaml:"password,omitempty"`
	Recipients []string `json:"recipients" yaml:"recipients"`
}

// Configured reports whether the notifier has enough to attempt delivery.
func (c NotifyConfig) Configured() bool {
	return c.Sender != "" && c.Password != "" && len(c.Recipients) > 0
}

// StoreConfig holds settings for the SQLite store.
type StoreConfig struct {
	// DBPath is the SQLite database file (default "data/startup-scout.db").
	DBPath string `json:"db_path" yaml:"db_path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search    SearchConfig    `json:"search" yaml:"search"`
	Agent     AgentConfig     `json:"agent" yaml:"agent"`
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`
	Analysis  AnalysisConfig  `json:"analysis" yaml:"analysis"`
	Report    ReportConfig    `json:"report" yaml:"report"`
	Notify    NotifyConfig    `json:"notify" yaml:"notify"`
	Store     StoreConfig     `json:"store" yaml:"store"`
}
