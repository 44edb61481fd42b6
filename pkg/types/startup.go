// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Tier classifies an Indian urban market by maturity.
type Tier string

const (
	Tier1 Tier = "Tier 1"
	Tier2 Tier = "Tier 2"
	Tier3 Tier = "Tier 3"
)

// TierCities maps each tier to the cities that define it.
var TierCities = map[Tier][]string{
	Tier1: {"Delhi", "Mumbai", "Bangalore"},
	Tier2: {"Pune", "Hyderabad", "Chennai"},
	Tier3: {"Jaipur", "Lucknow", "Chandigarh", "Ahmedabad", "Kolkata"},
}

// AllTiers lists the tiers in order.
var AllTiers = []Tier{Tier1, Tier2, Tier3}

// ValidTier reports whether s names a known tier.
func ValidTier(s string) bool {
	switch Tier(s) {
	case Tier1, Tier2, Tier3:
		return true
	}
	return false
}

// Startup holds one discovered company together with its analysis fields.
// DedupHash is derived from (name, website, founded_date) and carries the
// uniqueness constraint in the store.
type Startup struct {
	RunID       string `json:"run_id" yaml:"run_id"`
	Name        string `json:"name" yaml:"name"`
	Website     string `json:"website,omitempty" yaml:"website,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`

	// FoundedDate is kept as text (YYYY-MM-DD when known); sources report
	// it with varying precision.
	FoundedDate string `json:"founded_date,omitempty" yaml:"founded_date,omitempty"`

	Country     string `json:"country,omitempty" yaml:"country,omitempty"`
	FounderInfo string `json:"founder_info,omitempty" yaml:"founder_info,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
	SourceURL   string `json:"source_url,omitempty" yaml:"source_url,omitempty"`

	// IndiaFitScore is the 0-100 viability rating for the Indian market.
	IndiaFitScore    int    `json:"india_fit_score" yaml:"india_fit_score"`
	IndiaFitAnalysis string `json:"india_fit_analysis,omitempty" yaml:"india_fit_analysis,omitempty"`

	PrimaryTier    Tier   `json:"primary_tier,omitempty" yaml:"primary_tier,omitempty"`
	SecondaryTiers []Tier `json:"secondary_tiers,omitempty" yaml:"secondary_tiers,omitempty"`

	DedupHash string    `json:"dedup_hash,omitempty" yaml:"dedup_hash,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}
