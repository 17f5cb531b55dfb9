package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// CandidateItem is a single fetched content unit eligible for scoring and
// selection. Items arrive from the source ingestor already parsed; the
// engine never fetches anything itself.
type CandidateItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Summary     string    `json:"summary"`
	SourceName  string    `json:"source_name"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// CandidateBatch is the top-level wrapper the source ingestor hands over.
type CandidateBatch struct {
	Source    string           `json:"source"`
	FetchedAt time.Time        `json:"fetched_at"`
	ItemCount int              `json:"item_count"`
	Items     []*CandidateItem `json:"items"`
}

// GenerateID derives a stable identity from the item's URL, falling back
// to URL+title when the URL alone is empty or ambiguous.
func GenerateID(url, title string) string {
	input := url
	if input == "" {
		input = "title:" + title
	}
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
