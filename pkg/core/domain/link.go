package domain

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Link represents a curated resource entry in the directory
type Link struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory"`
	Featured    bool      `json:"featured"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LinkInput carries the mutable fields of a link for create and update
type LinkInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	URL         string `json:"url" validate:"required,http_url"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"required"`
	Subcategory string `json:"subcategory" validate:"max=100"`
	Featured    bool   `json:"featured"`
	Order       int    `json:"order"`
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (in LinkInput) Normalized() LinkInput {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Subcategory = strings.TrimSpace(in.Subcategory)
	return in
}

// Apply copies the mutable fields onto l, leaving ID and CreatedAt alone.
func (in LinkInput) Apply(l *Link) {
	in = in.Normalized()
	l.Title = in.Title
	l.URL = in.URL
	l.Description = in.Description
	l.Category = in.Category
	l.Subcategory = in.Subcategory
	l.Featured = in.Featured
	l.Order = in.Order
}

// LinkFilter narrows a listing. Zero value matches everything.
type LinkFilter struct {
	Category string
	Featured *bool
	Search   string
}

// Match reports whether l passes the filter.
func (f LinkFilter) Match(l Link) bool {
	if f.Category != "" && f.Category != AllCategoryID && l.Category != f.Category {
		return false
	}
	if f.Featured != nil && l.Featured != *f.Featured {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		haystack := strings.ToLower(strings.Join([]string{l.Title, l.Description, l.URL, l.Subcategory}, " "))
		if !strings.Contains(haystack, q) {
			return false
		}
	}
	return true
}

// FilterLinks returns the links matching f, in display order.
func FilterLinks(links []Link, f LinkFilter) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if f.Match(l) {
			out = append(out, l)
		}
	}
	SortLinks(out)
	return out
}

// FindLinkByURL returns the link whose url equals url.
func FindLinkByURL(links []Link, url string) (Link, bool) {
	for _, l := range links {
		if l.URL == url {
			return l, true
		}
	}
	return Link{}, false
}

// SortLinks orders links by Order, then by numeric id, then by id text.
func SortLinks(links []Link) {
	sort.SliceStable(links, func(i, j int) bool {
		if links[i].Order != links[j].Order {
			return links[i].Order < links[j].Order
		}
		a, okA := numericID(links[i].ID)
		b, okB := numericID(links[j].ID)
		switch {
		case okA && okB:
			return a.Cmp(b) < 0
		case okA:
			return true
		case okB:
			return false
		}
		return links[i].ID < links[j].ID
	})
}

// NextLinkID returns max(numeric ids)+1. An empty set starts at "1"; a
// non-empty set without numeric ids gets a millisecond timestamp. Ids are
// compared as arbitrary-precision integers so the result never wraps.
func NextLinkID(links []Link, now time.Time) string {
	if len(links) == 0 {
		return "1"
	}
	var maxID *big.Int
	for _, l := range links {
		id, ok := numericID(l.ID)
		if !ok {
			continue
		}
		if maxID == nil || id.Cmp(maxID) > 0 {
			maxID = id
		}
	}
	if maxID == nil {
		return strconv.FormatInt(now.UnixMilli(), 10)
	}
	return maxID.Add(maxID, big.NewInt(1)).String()
}

// numericID parses a base-10 id of any length.
func numericID(id string) (*big.Int, bool) {
	if id == "" {
		return nil, false
	}
	n, ok := new(big.Int).SetString(id, 10)
	return n, ok
}

// Touch returns a modification time strictly after prev.
func Touch(prev, now time.Time) time.Time {
	if !now.After(prev) {
		return prev.Add(time.Millisecond)
	}
	return now
}
