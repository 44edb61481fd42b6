// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package discover

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Hash derives the dedup hash for a startup from its identifying triple.
// The inputs are lowercased and trimmed so source formatting differences
// do not defeat deduplication. Identical triples always produce the same
// hash.
func Hash(name, website, foundedDate string) string {
	canonical := strings.ToLower(strings.TrimSpace(name)) + "|" +
		strings.ToLower(strings.TrimSpace(website)) + "|" +
		strings.ToLower(strings.TrimSpace(foundedDate))
	sum := sha256.Sum256([]byte(canonical))
	return fmt.Sprintf("%x", sum)[:16]
}

// NameSimilarity returns the similarity of two startup names in [0, 1]
// using the Dice coefficient over character bigrams. Names are
// lowercased and whitespace-normalized first.
func NameSimilarity(a, b string) float64 {
	a = normalizeName(a)
	b = normalizeName(b)
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	counts := make(map[string]int)
	for i := 0; i+2 <= len(a); i++ {
		counts[a[i:i+2]]++
	}

	var overlap int
	for i := 0; i+2 <= len(b); i++ {
		bg := b[i : i+2]
		if counts[bg] > 0 {
			counts[bg]--
			overlap++
		}
	}
	return 2 * float64(overlap) / float64(len(a)-1+len(b)-1)
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// fuzzyMatch reports whether name is a near-duplicate of any known name
// at the given similarity threshold.
func fuzzyMatch(name string, known []string, threshold float64) bool {
	for _, k := range known {
		if NameSimilarity(name, k) >= threshold {
			return true
		}
	}
	return false
}
