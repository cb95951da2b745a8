package dialog

import (
	"fmt"
	"strings"

	"github.com/rcliao/village-market/internal/catalog"
	"github.com/rcliao/village-market/internal/model"
)

// maxListed is the number of listings that fit on one handset screen.
const maxListed = 9

// Screen is one reply to the handset.
type Screen struct {
	Lines []string
	End   bool // terminating screen, no further input expected
}

// String renders the wire form: CON or END followed by the body.
func (s Screen) String() string {
	prefix := "CON "
	if s.End {
		prefix = "END "
	}
	return prefix + strings.Join(s.Lines, "\n")
}

func con(lines ...string) Screen { return Screen{Lines: lines} }

func end(lines ...string) Screen { return Screen{Lines: lines, End: true} }

func optionLines(opts []catalog.Option) []string {
	lines := make([]string, 0, len(opts))
	for _, o := range opts {
		lines = append(lines, o.Key+". "+o.Label)
	}
	return lines
}

func menu(header string, opts []catalog.Option, footer ...string) Screen {
	lines := append([]string{header}, optionLines(opts)...)
	return con(append(lines, footer...)...)
}

// MainMenu is the root screen.
func MainMenu() Screen {
	return menu("Village Marketplace (PILOT)", catalog.Categories,
		"8. Add / Update Business",
		"9. Recent numbers",
		"0. Help",
	)
}

// HelpMenu explains the top-level keys.
func HelpMenu() Screen {
	return con(
		"Help",
		"Use 1-7 to browse categories.",
		"Transport has sub-menu: Riders / Pickups / Lorries.",
		"Use 8 to add your business (choose village first).",
		"Use 9 to see numbers you viewed in this session.",
		"0. Back",
	)
}

// TransportMenu lists the transport sub-types for browsing.
func TransportMenu() Screen {
	return menu("Transport", catalog.TransportTypes, "0. Back")
}

func invalidTransportMenu() Screen {
	return menu("Invalid option.", catalog.TransportTypes, "0. Back")
}

// RecentScreen lists the phones viewed in this session.
func RecentScreen(recent []string) Screen {
	lines := []string{"Recent numbers (this session):"}
	if len(recent) == 0 {
		lines = append(lines, "None yet.")
	}
	for i, p := range recent {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, p))
	}
	return con(append(lines, "0. Back")...)
}

// FormatList renders up to nine listings under title.
func FormatList(title string, listings []model.Listing, showRecent bool) Screen {
	lines := []string{title}
	if len(listings) == 0 {
		lines = append(lines, "No listings yet.")
	}
	for i, l := range listings {
		if i == maxListed {
			break
		}
		lines = append(lines,
			fmt.Sprintf("%d. %s (%s)", i+1, l.Name, l.Village),
			"   Call: "+l.Phone,
		)
	}
	lines = append(lines, "0. Back")
	if showRecent {
		lines = append(lines, "9. Recent numbers")
	}
	return con(lines...)
}

func villagePrompt(invalid bool) Screen {
	header := "Choose your village:"
	if invalid {
		header = "Invalid village. Choose 1-3."
	}
	return menu(header, catalog.Villages, "0. Back")
}

func namePrompt(invalid bool) Screen {
	if invalid {
		return con("Please enter a business name:", "0. Back")
	}
	return con("Enter business name:", "0. Back")
}

func categoryPrompt(invalid bool) Screen {
	header := "Choose category:"
	if invalid {
		header = "Invalid category. Choose 1-7."
	}
	return menu(header, catalog.Categories, "0. Back")
}

func transportTypePrompt(invalid bool) Screen {
	header := "Transport type:"
	if invalid {
		header = "Invalid option."
	}
	return menu(header, catalog.TransportTypes, "0. Back")
}

func confirmPrompt(village, name, category, phone string, invalid bool) Screen {
	if invalid {
		return con("Invalid option.", "1. Confirm", "2. Cancel", "0. Back")
	}
	return con(
		"Confirm:",
		"Village: "+village,
		"Name: "+name,
		"Category: "+category,
		"Phone: "+phone,
		"1. Confirm",
		"2. Cancel",
		"0. Back",
	)
}

var (
	savedScreen       = end("Saved! You are now listed. Thank you.")
	cancelledScreen   = end("Cancelled.")
	missingDataScreen = end("Missing data. Please try again.")

	// UnavailableScreen is shown when the catalog cannot be reached.
	UnavailableScreen = end("Service unavailable. Please try again later.")
)
