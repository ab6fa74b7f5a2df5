package model

import "strings"

// SupposedQuality is the platform's coarse quality label for a tweet, as
// given in the captured markup.
type SupposedQuality int

const (
	QualityHigh SupposedQuality = iota
	QualityLow
	QualityAbusive
	QualityUnknown
)

// qualityMatchOrder is the order MatchQuality tries substrings in.
var qualityMatchOrder = []SupposedQuality{QualityHigh, QualityLow, QualityAbusive, QualityUnknown}

// MatchQuality maps a raw quality attribute to a SupposedQuality. The first
// variant whose match substring occurs in s (case-insensitive) wins.
func MatchQuality(s string) SupposedQuality {
	if s == "" {
		return QualityUnknown
	}
	ls := strings.ToLower(s)
	for _, q := range qualityMatchOrder {
		if strings.Contains(ls, q.MatchSubstring()) {
			return q
		}
	}
	return QualityUnknown
}

func (q SupposedQuality) Key() string {
	switch q {
	case QualityHigh:
		return "high_quality"
	case QualityLow:
		return "low_quality"
	case QualityAbusive:
		return "abusive_quality"
	default:
		return "unknown_quality"
	}
}

func (q SupposedQuality) HTMLName() string {
	switch q {
	case QualityHigh:
		return "HighQuality"
	case QualityLow:
		return "LowQuality"
	case QualityAbusive:
		return "AbusiveQuality"
	default:
		return "UnknownQuality"
	}
}

func (q SupposedQuality) MatchSubstring() string {
	switch q {
	case QualityHigh:
		return "high"
	case QualityLow:
		return "low"
	case QualityAbusive:
		return "abusive"
	default:
		return "unknown"
	}
}

// Censored reports whether the platform treats the label as demoted.
func (q SupposedQuality) Censored() bool { return q != QualityHigh }

func (q SupposedQuality) String() string { return q.Key() }
