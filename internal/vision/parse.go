package vision

import "strings"

// ParseResponse parses a model response in format: name | quantity | category,
// one item per line. Preamble lines and blanks are skipped.
func ParseResponse(raw string) []SuggestedItem {
	items := make([]SuggestedItem, 0)
	for _, line := range strings.Split(raw, "\n") {
		if item := ParseLine(line); item != nil {
			items = append(items, *item)
		}
	}
	return items
}

// ParseLine parses one "name | quantity | category" line, returning nil for
// blank or non-item lines.
func ParseLine(line string) *SuggestedItem {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	// Skip common conversational headers.
	if strings.HasPrefix(line, "Here") || strings.HasPrefix(line, "I see") || strings.HasPrefix(line, "Based on") {
		return nil
	}

	// Lines without a pipe separator are indistinguishable from preamble;
	// require at least one | for a line to be treated as an item.
	if !strings.Contains(line, "|") {
		return nil
	}

	parts := strings.Split(line, "|")
	item := SuggestedItem{Name: strings.TrimSpace(parts[0])}
	if item.Name == "" {
		return nil
	}
	if len(parts) >= 2 {
		item.Quantity = strings.TrimSpace(parts[1])
	}
	if len(parts) >= 3 {
		item.Category = strings.TrimSpace(parts[2])
	}
	return &item
}
