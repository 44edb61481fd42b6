// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"fmt"
	"time"
)

// BuildQueries returns the search queries for one discovery run, scoped
// to the founding-date window ending at now.
func BuildQueries(now time.Time, windowDays int) []string {
	if windowDays <= 0 {
		windowDays = 30
	}
	from := now.AddDate(0, 0, -windowDays)

	window := fmt.Sprintf("%s to %s", from.Format("January 2006"), now.Format("January 2006"))
	year := now.Format("2006")
	month := now.Format("January 2006")

	return []string{
		fmt.Sprintf("startups founded %s funding announcement", window),
		fmt.Sprintf("new startup launch %s seed round", month),
		fmt.Sprintf("recently launched AI startups %s", month),
		fmt.Sprintf("Product Hunt new startups %s", month),
		fmt.Sprintf("YC W%s S%s batch startups", year, year),
		fmt.Sprintf("fintech healthtech edtech startups founded %s", year),
	}
}
