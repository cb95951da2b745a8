package dialog

import (
	"strings"

	"github.com/rcliao/village-market/internal/catalog"
	"github.com/rcliao/village-market/internal/session"
)

// Step is a position in the Add/Update wizard.
type Step int

const (
	StepVillage Step = iota
	StepName
	StepCategory
	StepTransportType
	StepConfirm

	// Terminal steps absorb any further input.
	StepExited
	StepCancelled
	StepConfirmed
)

var stepNames = [...]string{
	StepVillage:       "village",
	StepName:          "name",
	StepCategory:      "category",
	StepTransportType: "transport_type",
	StepConfirm:       "confirm",
	StepExited:        "exited",
	StepCancelled:     "cancelled",
	StepConfirmed:     "confirmed",
}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Terminal reports whether the wizard has finished.
func (s Step) Terminal() bool {
	return s >= StepExited
}

// WizardState is the wizard's position after some number of entries.
type WizardState struct {
	Step  Step
	Draft session.Draft

	// Invalid is set when the most recent entry was rejected.
	Invalid bool

	// Consumed counts the entries read, including the one that reached a
	// terminal step.
	Consumed int
}

// Next applies one entry. Rejected entries leave Step and Draft unchanged.
func (w WizardState) Next(token string) WizardState {
	if w.Step.Terminal() {
		return w
	}
	w.Consumed++
	w.Invalid = false
	tok := strings.TrimSpace(token)

	if tok == "0" {
		return w.back()
	}

	switch w.Step {
	case StepVillage:
		if v, ok := catalog.Lookup(catalog.Villages, tok); ok {
			w.Draft.Village = v
			w.Step = StepName
			return w
		}
	case StepName:
		if tok != "" {
			w.Draft.Name = tok
			w.Step = StepCategory
			return w
		}
	case StepCategory:
		if c, ok := catalog.Lookup(catalog.Categories, tok); ok {
			w.Draft.CategoryMain = c
			w.Step = StepConfirm
			if c == catalog.Transport {
				w.Step = StepTransportType
			}
			return w
		}
	case StepTransportType:
		if sub, ok := catalog.Lookup(catalog.TransportTypes, tok); ok {
			w.Draft.CategorySub = sub
			w.Step = StepConfirm
			return w
		}
	case StepConfirm:
		switch tok {
		case "1":
			w.Step = StepConfirmed
			return w
		case "2":
			w.Step = StepCancelled
			return w
		}
	}

	w.Invalid = true
	return w
}

// back returns to the previous prompt and clears the answer given there.
func (w WizardState) back() WizardState {
	switch w.Step {
	case StepVillage:
		w.Step = StepExited
	case StepName:
		w.Draft.Village = ""
		w.Step = StepVillage
	case StepCategory:
		w.Draft.Name = ""
		w.Step = StepName
	case StepTransportType:
		w.Draft.CategoryMain = ""
		w.Step = StepCategory
	case StepConfirm:
		if w.Draft.CategoryMain == catalog.Transport {
			w.Draft.CategorySub = ""
			w.Step = StepTransportType
		} else {
			w.Draft.CategoryMain = ""
			w.Step = StepCategory
		}
	}
	return w
}

// ReplayWizard runs the entries that follow the wizard key from a fresh
// state and returns where they lead.
func ReplayWizard(tokens []string) WizardState {
	var w WizardState
	for _, t := range tokens {
		if w.Step.Terminal() {
			break
		}
		w = w.Next(t)
	}
	return w
}

// Category returns the storage category for the draft.
func (w WizardState) Category() string {
	sub := ""
	if w.Draft.CategoryMain == catalog.Transport {
		sub = w.Draft.CategorySub
	}
	return catalog.StorageCategory(w.Draft.CategoryMain, sub)
}

// Prompt renders the screen for a non-terminal step.
func (w WizardState) Prompt(phone string) Screen {
	switch w.Step {
	case StepName:
		return namePrompt(w.Invalid)
	case StepCategory:
		return categoryPrompt(w.Invalid)
	case StepTransportType:
		return transportTypePrompt(w.Invalid)
	case StepConfirm:
		return confirmPrompt(w.Draft.Village, w.Draft.Name, w.Category(), phone, w.Invalid)
	}
	return villagePrompt(w.Invalid)
}
