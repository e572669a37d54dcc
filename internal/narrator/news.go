// Package narrator turns turn results into news headlines and, when a Gemini
// key is configured, writes a newspaper debrief of a finished run.
package narrator

import (
	"github.com/tatianab/crisis-desk/internal/i18n"
	"github.com/tatianab/crisis-desk/internal/models"
)

// Headline thresholds on the raw turn effects.
const (
	securityHeadlineThreshold = 15
	freedomHeadlineThreshold  = 15
)

// DefaultFeedSize is how many headlines a feed keeps.
const DefaultFeedSize = 10

// Headlines derives the ticker items for one resolved turn. Skipped turns
// make no news.
func Headlines(res models.TurnResult, d models.Decision, card models.ActionCard, profile string, tr *i18n.Translator) []string {
	if res.Classification == models.ClassSkip || d.Skipped {
		return nil
	}
	var out []string
	if res.Effects.SecurityChange > securityHeadlineThreshold {
		out = append(out, tr.T("news.security_up", card.Name))
	}
	if res.Effects.FreedomCost > freedomHeadlineThreshold {
		out = append(out, tr.T("news.freedom_down"))
	}
	if d.HasSafeguard(models.SafeguardTransparency) {
		out = append(out, tr.P("news.transparency", profile))
	}
	return out
}

// Counterfactual is the review-phase reflection for a turn.
func Counterfactual(class models.Classification, profile string, tr *i18n.Translator) string {
	switch class {
	case models.ClassSkip:
		return tr.T("feedback.skip_reason")
	case models.ClassActionA:
		return tr.P("feedback.counter_factual_A", profile)
	default:
		return tr.P("feedback.counter_factual_other", profile)
	}
}

// NewsFeed keeps the most recent headlines, newest first.
type NewsFeed struct {
	size  int
	items []string
}

func NewNewsFeed(size int) *NewsFeed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &NewsFeed{size: size}
}

// Push adds headlines in the order they happened.
func (f *NewsFeed) Push(items ...string) {
	for _, it := range items {
		f.items = append([]string{it}, f.items...)
	}
	if len(f.items) > f.size {
		f.items = f.items[:f.size]
	}
}

// Reset clears the feed and optionally seeds it.
func (f *NewsFeed) Reset(items ...string) {
	f.items = nil
	f.Push(items...)
}

func (f *NewsFeed) Items() []string {
	return append([]string(nil), f.items...)
}

func (f *NewsFeed) Len() int { return len(f.items) }
