// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pdiddy/startup-scout/pkg/types"
)

var csvHeader = []string{
	"name", "website", "category", "founded_date", "country",
	"india_fit_score", "primary_tier", "secondary_tiers", "source", "run_id",
}

func writeCSV(path string, startups []types.Startup) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range startups {
		secondary := make([]string, len(s.SecondaryTiers))
		for i, t := range s.SecondaryTiers {
			secondary[i] = string(t)
		}
		record := []string{
			s.Name, s.Website, s.Category, s.FoundedDate, s.Country,
			strconv.Itoa(s.IndiaFitScore), string(s.PrimaryTier),
			strings.Join(secondary, ";"), s.Source, s.RunID,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
