package usecase

import (
	"net/http"
	"strings"
	"time"

	"lustroom-portal/domain/model"
)

// FilterAll disables the content type filter.
const FilterAll = "All"

// RecentWindow is how long after being added a link counts as recent.
const RecentWindow = 7 * 24 * time.Hour

// ContentFilter holds the type and search filters of the content view.
type ContentFilter struct {
	Type  string
	Query string
}

func (f ContentFilter) typeSelected() bool {
	t := strings.TrimSpace(f.Type)
	return t != "" && !strings.EqualFold(t, FilterAll)
}

// Matches reports whether link passes both filters.
func (f ContentFilter) Matches(link model.ContentLink) bool {
	if f.typeSelected() && !strings.EqualFold(link.Type(), strings.TrimSpace(f.Type)) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	haystack := strings.ToLower(link.Title + " " + link.Description)
	return strings.Contains(haystack, q)
}

// ContentCard is a link as rendered in the content view.
type ContentCard struct {
	model.ContentLink
	DisplayTitle string
	DisplayType  string
	Recent       bool
	Visible      bool
}

// ContentGroup is one tier's cards. Visible is false when no card in it is visible.
type ContentGroup struct {
	TierName string
	Cards    []ContentCard
	Visible  bool
}

// VisibleCount is the number of cards left after filtering.
func (g ContentGroup) VisibleCount() int {
	n := 0
	for _, c := range g.Cards {
		if c.Visible {
			n++
		}
	}
	return n
}

// ApplyFilter builds the grouped card list of content and marks what f hides.
// Tiers without any links are omitted entirely.
func ApplyFilter(content model.TierContent, f ContentFilter, now time.Time) []ContentGroup {
	groups := make([]ContentGroup, 0, len(content))
	for _, tier := range content {
		if len(tier.Links) == 0 {
			continue
		}
		group := ContentGroup{TierName: tier.Name, Cards: make([]ContentCard, 0, len(tier.Links))}
		for _, link := range tier.Links {
			title := link.Title
			if title == "" {
				title = "Untitled Link"
			}
			card := ContentCard{
				ContentLink:  link,
				DisplayTitle: title,
				DisplayType:  link.Type(),
				Recent:       IsRecent(link.AddedAt, now),
				Visible:      f.Matches(link),
			}
			if card.Visible {
				group.Visible = true
			}
			group.Cards = append(group.Cards, card)
		}
		groups = append(groups, group)
	}
	return groups
}

// ContentTypes lists FilterAll followed by each distinct content type in order of first appearance.
func ContentTypes(content model.TierContent) []string {
	types := []string{FilterAll}
	seen := map[string]struct{}{}
	for _, tier := range content {
		for _, link := range tier.Links {
			t := link.Type()
			key := strings.ToLower(t)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			types = append(types, t)
		}
	}
	return types
}

// IsRecent reports whether addedAt lies less than RecentWindow before now.
// A link added exactly RecentWindow ago is not recent; unparseable timestamps never are.
func IsRecent(addedAt string, now time.Time) bool {
	added, ok := ParseTimestamp(addedAt)
	if !ok {
		return false
	}
	return now.Sub(added) < RecentWindow
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	http.TimeFormat,
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

// ParseTimestamp accepts the timestamp shapes the backend has been seen to send.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
