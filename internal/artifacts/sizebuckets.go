package artifacts

import "strings"

// SizeBucket maps any headcount up to Max onto a canonical label.
type SizeBucket struct {
	Max   int
	Label string
}

// SizeBuckets is an ordered list of bucket boundaries, smallest first. The
// boundaries are configurable policy, not business truth; confirm intended
// buckets before changing the defaults.
type SizeBuckets []SizeBucket

// DefaultSizeBuckets returns the default company-size bucket policy.
func DefaultSizeBuckets() SizeBuckets {
	return SizeBuckets{
		{Max: 10, Label: "1-10"},
		{Max: 50, Label: "11-50"},
		{Max: 200, Label: "51-200"},
		{Max: 1000, Label: "201-1000"},
		{Max: 10000, Label: "1001-10000"},
	}
}

const sizeBucketOverflow = "10000+"

// Canonical maps a free-text company size onto a bucket label. The first
// number found in the text decides the bucket; text without a number maps to
// "unknown". Empty input stays empty.
func (b SizeBuckets) Canonical(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	for _, bucket := range b {
		if trimmed == bucket.Label {
			return trimmed
		}
	}
	if trimmed == sizeBucketOverflow {
		return trimmed
	}

	n, ok := firstNumber(trimmed)
	if !ok {
		return "unknown"
	}
	for _, bucket := range b {
		if n <= bucket.Max {
			return bucket.Label
		}
	}
	return sizeBucketOverflow
}

func firstNumber(text string) (int, bool) {
	n := 0
	found := false
	for _, r := range text {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			found = true
			continue
		}
		if r == ',' && found {
			continue
		}
		if found {
			break
		}
	}
	return n, found
}
