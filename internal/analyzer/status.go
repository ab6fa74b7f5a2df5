package analyzer

import (
	"fmt"
	"strings"
)

// Status is the verdict for one reply.
type Status string

const (
	CensoredHidden   Status = "CENSORED_HIDDEN"
	CensoredNotFound Status = "CENSORED_NOTFOUND"
	SuppressedNormal Status = "SUPPRESSED_NORMAL"
	SuppressedWorse  Status = "SUPPRESSED_WORSE"
	SuppressedWorst  Status = "SUPPRESSED_WORST"
	VisibleBest      Status = "VISIBLE_BEST"
	VisibleBetter    Status = "VISIBLE_BETTER"
	VisibleNormal    Status = "VISIBLE_NORMAL"
	VisibleWorse     Status = "VISIBLE_WORSE"
	VisibleWorst     Status = "VISIBLE_WORST"
)

var allStatuses = []Status{
	CensoredHidden, CensoredNotFound,
	SuppressedNormal, SuppressedWorse, SuppressedWorst,
	VisibleBest, VisibleBetter, VisibleNormal, VisibleWorse, VisibleWorst,
}

// Statuses lists every status in declaration order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func ParseStatus(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) Censored() bool   { return strings.HasPrefix(string(s), "CENSORED_") }
func (s Status) Suppressed() bool { return strings.HasPrefix(string(s), "SUPPRESSED_") }
func (s Status) Visible() bool    { return strings.HasPrefix(string(s), "VISIBLE_") }

// Policy thresholds.
const (
	topPositions      = 2
	notFoundNormalPct = 30
	notFoundWorsePct  = 70
	betterPct         = 50
	normalPct         = 0
	worsePct          = -50

	lowQualityMarker = "low"
)

// NotFoundEvidence is what is known when the reply is missing from the page.
type NotFoundEvidence struct {
	Complete        bool
	PercentNewer    Percent
	PercentComplete Percent
}

// ClassifyNotFound rates a reply that is absent from the captured page.
// A complete capture means the platform dropped it; otherwise the more of
// the thread was seen, the worse the absence looks.
func ClassifyNotFound(e NotFoundEvidence) Status {
	switch {
	case e.Complete:
		return CensoredNotFound
	case e.PercentNewer.Below(notFoundNormalPct) && e.PercentComplete.Below(notFoundNormalPct):
		return SuppressedNormal
	case e.PercentNewer.Below(notFoundWorsePct) && e.PercentComplete.Below(notFoundWorsePct):
		return SuppressedWorse
	default:
		return SuppressedWorst
	}
}

// FoundEvidence is what is known when the reply is on the page.
type FoundEvidence struct {
	Quality       string
	PageOrder     int
	VsInteraction Percent
	VsDate        Percent
}

// ClassifyFound rates a reply that is present on the captured page. Both
// orderings must agree before a band applies.
func ClassifyFound(e FoundEvidence) Status {
	switch {
	case strings.Contains(strings.ToLower(strings.TrimSpace(e.Quality)), lowQualityMarker):
		// folded behind "show more replies"
		return CensoredHidden
	case e.PageOrder <= topPositions:
		return VisibleBest
	case e.VsInteraction.Above(betterPct) && e.VsDate.Above(betterPct):
		return VisibleBetter
	case e.VsInteraction.AtLeast(normalPct) && e.VsDate.AtLeast(normalPct):
		return VisibleNormal
	case e.VsInteraction.AtLeast(worsePct) && e.VsDate.AtLeast(worsePct):
		return VisibleWorse
	default:
		return VisibleWorst
	}
}
