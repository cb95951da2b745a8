// Package catalog holds the fixed marketplace taxonomy and maps menu
// selections to the category values kept in storage.
package catalog

import "strings"

// Option is one numbered entry of a keypad menu.
type Option struct {
	Key   string
	Label string
}

// Transport is the main category that carries a sub-type.
const Transport = "Transport"

// Transport sub-types.
const (
	Riders  = "Riders"
	Pickups = "Pickups"
	Lorries = "Lorries"
)

// Categories are the browsable main categories, in menu order.
var Categories = []Option{
	{"1", "Shops & Daily Needs"},
	{"2", "Food & Drinks"},
	{"3", Transport},
	{"4", "Services (Fundis)"},
	{"5", "Farming & Inputs"},
	{"6", "Health & Care"},
	{"7", "Education & Community"},
}

// TransportTypes are the sub-types offered under Transport.
var TransportTypes = []Option{
	{"1", Riders},
	{"2", Pickups},
	{"3", Lorries},
}

// Villages are the villages a business can register in.
var Villages = []Option{
	{"1", "Sega"},
	{"2", "Bumala"},
	{"3", "Murende"},
}

// Lookup returns the label for a keypad choice.
func Lookup(opts []Option, key string) (string, bool) {
	key = strings.TrimSpace(key)
	for _, o := range opts {
		if o.Key == key {
			return o.Label, true
		}
	}
	return "", false
}

// HasLabel reports whether label is one of opts.
func HasLabel(opts []Option, label string) bool {
	for _, o := range opts {
		if o.Label == label {
			return true
		}
	}
	return false
}

// StorageCategory returns the category value written for a new listing.
// Transport without a sub-type falls back to the legacy bare label.
func StorageCategory(main, sub string) string {
	if main != Transport {
		return main
	}
	if sub != "" {
		return Transport + " - " + sub
	}
	return Transport
}

// QueryCategories returns the stored categories shown under a transport
// sub-type. Legacy bare "Transport" rows are listed under Pickups.
func QueryCategories(sub string) []string {
	switch sub {
	case Riders:
		return []string{StorageCategory(Transport, Riders)}
	case Pickups:
		return []string{StorageCategory(Transport, Pickups), Transport}
	case Lorries:
		return []string{StorageCategory(Transport, Lorries)}
	}
	return []string{Transport}
}

// ValidStorageCategory reports whether c is a value a listing may carry.
func ValidStorageCategory(c string) bool {
	if c == Transport {
		return true
	}
	if sub, ok := strings.CutPrefix(c, Transport+" - "); ok {
		return HasLabel(TransportTypes, sub)
	}
	return HasLabel(Categories, c)
}
