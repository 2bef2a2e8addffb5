package filter

import (
	"strings"

	"github.com/amishk599/careerwatch/internal/model"
)

var _ model.JobFilter = (*KeywordFilter)(nil)

// KeywordFilter narrows candidates by case-insensitive substring matches on
// title and location. Empty keyword lists match everything, so an
// unconfigured filter lets every listing through.
type KeywordFilter struct {
	titleKeywords []string
	locations     []string
}

// NewKeywordFilter lowercases the keywords once up front.
func NewKeywordFilter(titleKeywords, locations []string) *KeywordFilter {
	return &KeywordFilter{
		titleKeywords: lowerAll(titleKeywords),
		locations:     lowerAll(locations),
	}
}

// Match reports whether job passes both keyword lists. Sources that do not
// report a location (wrapbook) are never rejected on location.
func (f *KeywordFilter) Match(job model.Job) bool {
	if !containsAny(strings.ToLower(job.Title), f.titleKeywords) {
		return false
	}
	if job.Location == "" {
		return true
	}
	return containsAny(strings.ToLower(job.Location), f.locations)
}

func containsAny(s string, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, strings.ToLower(s))
		}
	}
	return out
}
