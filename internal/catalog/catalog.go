// Package catalog holds the curated, compiled-in brand lists: the category
// pages and the default "top" list served before any company is stored.
package catalog

import "strings"

// Entry is a curated brand. Domain is always a bare hostname.
type Entry struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
}

// Category is a named, ordered list of curated entries. The order is the
// display order and feeds the synthetic download ranking.
type Category struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Entries     []Entry `json:"-"`
}

// MaxRelated caps the related entries returned for a logo page.
const MaxRelated = 8

// Categories returns the curated categories in display order.
func Categories() []Category {
	return categories
}

// Lookup finds a category by key, ignoring case.
func Lookup(key string) (Category, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, c := range categories {
		if c.Key == key {
			return c, true
		}
	}
	return Category{}, false
}

// Top returns the first n entries of the curated top list (all of them when
// n <= 0 or n exceeds the list).
func Top(n int) []Entry {
	if n <= 0 || n > len(topCompanies) {
		n = len(topCompanies)
	}
	return topCompanies[:n]
}

// Slug turns a domain into its URL slug: dots become dashes, lower-cased.
// "Stripe.com" → "stripe-com".
func Slug(domain string) string {
	return strings.ToLower(strings.ReplaceAll(domain, ".", "-"))
}

// FindBySlug resolves a logo slug against the categories first, then the top
// list. The returned category key is empty for top-list-only entries.
func FindBySlug(slug string) (Entry, string, bool) {
	slug = strings.ToLower(slug)
	for _, c := range categories {
		for _, e := range c.Entries {
			if Slug(e.Domain) == slug {
				return e, c.Key, true
			}
		}
	}
	for _, e := range topCompanies {
		if Slug(e.Domain) == slug {
			return e, "", true
		}
	}
	return Entry{}, "", false
}

// Related returns up to MaxRelated entries from the category, excluding the
// given domain.
func Related(categoryKey, domain string) []Entry {
	c, ok := Lookup(categoryKey)
	if !ok {
		return []Entry{}
	}
	related := make([]Entry, 0, MaxRelated)
	for _, e := range c.Entries {
		if strings.EqualFold(e.Domain, domain) {
			continue
		}
		related = append(related, e)
		if len(related) == MaxRelated {
			break
		}
	}
	return related
}

// All returns every curated entry once, keyed by domain, categories first.
// The seed command uses it to populate an empty store.
func All() []Entry {
	seen := make(map[string]bool)
	var all []Entry
	add := func(e Entry) {
		d := strings.ToLower(e.Domain)
		if seen[d] {
			return
		}
		seen[d] = true
		all = append(all, e)
	}
	for _, c := range categories {
		for _, e := range c.Entries {
			add(e)
		}
	}
	for _, e := range topCompanies {
		add(e)
	}
	return all
}
