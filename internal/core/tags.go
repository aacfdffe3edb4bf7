package core

import "strings"

// UntaggedBucket is the reserved aggregation bucket for transactions that
// carry no tags. Normalization never produces it from user input alone;
// an explicit "untagged" tag and the absence of tags land in the same
// bucket, which is the intended reading.
const UntaggedBucket = "untagged"

// NormalizeTag trims surrounding whitespace and lower-cases the tag.
// Display casing is a presentation concern and is not kept here.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags normalizes every tag and deduplicates case-insensitively,
// preserving first-seen order. Empty tags are dropped; a transaction with
// no surviving tags belongs to the UntaggedBucket at aggregation time.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := NormalizeTag(raw)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
