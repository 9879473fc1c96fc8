package vision

import (
	"context"
	"io"
)

// SuggestPrompt is the shared prompt used by all adapters.
const SuggestPrompt = `List every household item you can clearly see in this storage photo
(shelf, cabinet, drawer, box or similar). For each item provide: name,
approximate quantity, and a one-word category (e.g. Tools, Kitchen, Toys).
Respond in plain text, one item per line, format: name | quantity | category`

// Analyzer suggests inventory entries from a storage-location photo.
type Analyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType string) (*Result, error)
}

type Result struct {
	Items       []SuggestedItem
	RawResponse string
}

// SuggestedItem is a candidate inventory entry; Quantity stays free text so
// the item pipeline can apply its usual parsing and defaulting.
type SuggestedItem struct {
	Name     string
	Quantity string
	Category string
}
