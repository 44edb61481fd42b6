// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/startup-scout/pkg/types"
)

func init() {
	viper.SetDefault("agent.provider", "claude")
	viper.SetDefault("agent.model", "claude-sonnet-4-5")
	viper.SetDefault("agent.max_retries", 3)

	viper.SetDefault("search.max_results_per_query", 10)
	viper.SetDefault("search.enable_google", true)
	viper.SetDefault("search.enable_brave", false)
	viper.SetDefault("search.enable_duckduckgo", true)
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.user_agent", "startup-scout/"+version)
	viper.SetDefault("search.inter_backend_delay", "1s")

	viper.SetDefault("discovery.window_days", 30)
	viper.SetDefault("discovery.max_startups", 100)
	viper.SetDefault("discovery.fuzzy_threshold", 0.85)
	viper.SetDefault("discovery.fetch_pages", 3)

	viper.SetDefault("analysis.min_fit_score", 40)
	viper.SetDefault("analysis.batch_size", 8)

	viper.SetDefault("report.output_dir", "reports")
	viper.SetDefault("report.csv_export", true)
	viper.SetDefault("report.top_opportunities", 10)

	viper.SetDefault("notify.enabled", false)
	viper.SetDefault("notify.smtp_host", "smtp.gmail.com")
	viper.SetDefault("notify.smtp_port", 587)

	viper.SetDefault("store.db_path", "data/startup-scout.db")
}

// secretDefault returns fallback when set, otherwise the secret value
// for key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets.Get(key, "")
}

// pipelineConfig assembles the full pipeline configuration from the
// config file, environment, and loaded secrets. Secrets fill in any
// credential the config leaves empty.
func pipelineConfig() types.PipelineConfig {
	provider := types.AgentProvider(viper.GetString("agent.provider"))

	apiKey := viper.GetString("agent.api_key")
	switch provider {
	case types.ProviderClaude:
		apiKey = secretDefault("anthropic-api-key", apiKey)
	case types.ProviderGemini:
		apiKey = secretDefault("gemini-api-key", apiKey)
	}

	return types.PipelineConfig{
		Agent: types.AgentConfig{
			Provider:   provider,
			Model:      viper.GetString("agent.model"),
			APIKey:     apiKey,
			MaxRetries: viper.GetInt("agent.max_retries"),
		},
		Search: types.SearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viperDuration("search.timeout", 30*time.Second),
				UserAgent: viper.GetString("search.user_agent"),
			},
			MaxResultsPerQuery: viper.GetInt("search.max_results_per_query"),
			EnableGoogle:       viper.GetBool("search.enable_google"),
			EnableBrave:        viper.GetBool("search.enable_brave"),
			EnableDuckDuckGo:   viper.GetBool("search.enable_duckduckgo"),
			GoogleAPIKey:       secretDefault("google-search-api-key", viper.GetString("search.google_api_key")),
			GoogleEngineID:     secretDefault("google-search-engine-id", viper.GetString("search.google_engine_id")),
			BraveAPIKey:        secretDefault("brave-api-key", viper.GetString("search.brave_api_key")),
			InterBackendDelay:  viperDuration("search.inter_backend_delay", time.Second),
		},
		Discovery: types.DiscoveryConfig{
			WindowDays:     viper.GetInt("discovery.window_days"),
			MaxStartups:    viper.GetInt("discovery.max_startups"),
			FuzzyThreshold: viper.GetFloat64("discovery.fuzzy_threshold"),
			FetchPages:     viper.GetInt("discovery.fetch_pages"),
		},
		Analysis: types.AnalysisConfig{
			MinFitScore: viper.GetInt("analysis.min_fit_score"),
			BatchSize:   viper.GetInt("analysis.batch_size"),
		},
		Report: types.ReportConfig{
			OutputDir:        viper.GetString("report.output_dir"),
			CSVExport:        viper.GetBool("report.csv_export"),
			TopOpportunities: viper.GetInt("report.top_opportunities"),
		},
		Notify: types.NotifyConfig{
			Enabled:    viper.GetBool("notify.enabled"),
			SMTPHost:   viper.GetString("notify.smtp_host"),
			SMTPPort:   viper.GetInt("notify.smtp_port"),
			Sender:     viper.GetString("notify.sender"),
			Password:   secretDefault("smtp-password", viper.GetString("notify.password")),
			Recipients: viper.GetStringSlice("notify.recipients"),
		},
		Store: types.StoreConfig{
			DBPath: viper.GetString("store.db_path"),
		},
	}
}

func viperDuration(key string, fallback time.Duration) time.Duration {
	if d := viper.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}
