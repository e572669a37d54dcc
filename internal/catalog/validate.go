package catalog

import (
	"fmt"
	"strings"

	"github.com/tatianab/crisis-desk/internal/models"
)

// Validate lists every problem found in a content set. An empty result means
// the set is playable.
func Validate(c *Catalog) []string {
	var issues []string
	if len(c.ids) == 0 {
		issues = append(issues, "no scenarios")
	}
	for _, id := range c.ids {
		for _, issue := range ValidateScenario(c.scenarios[id]) {
			issues = append(issues, fmt.Sprintf("scenario %q: %s", id, issue))
		}
	}
	return issues
}

func ValidateScenario(s models.Scenario) []string {
	var issues []string
	if strings.TrimSpace(s.Title) == "" {
		issues = append(issues, "title is required")
	}
	if strings.TrimSpace(s.Story) == "" {
		issues = append(issues, "story is required")
	}
	if len(s.Advisors) == 0 {
		issues = append(issues, "at least one advisor is required")
	}
	if len(s.ActionCards) == 0 {
		issues = append(issues, "at least one action card is required")
	}

	seen := map[string]bool{}
	for i, card := range s.ActionCards {
		label := fmt.Sprintf("card %d", i+1)
		if card.ID == "" {
			issues = append(issues, label+": id is required")
		} else {
			label = fmt.Sprintf("card %q", card.ID)
			if seen[card.ID] {
				issues = append(issues, label+": duplicate id")
			}
			seen[card.ID] = true
		}
		if !card.Speed.Valid() {
			issues = append(issues, fmt.Sprintf("%s: speed %q must be fast, medium or slow", label, card.Speed))
		}
		if card.Cost < 0 || card.HRCost < 0 {
			issues = append(issues, label+": costs must be >= 0")
		}
		if !within(card.SecurityEffect, 0, 100) {
			issues = append(issues, fmt.Sprintf("%s: security_effect %v out of [0, 100]", label, card.SecurityEffect))
		}
		if !within(card.FreedomCost, 0, 100) {
			issues = append(issues, fmt.Sprintf("%s: freedom_cost %v out of [0, 100]", label, card.FreedomCost))
		}
		if !within(card.SideEffectRisk, 0, 1) {
			issues = append(issues, fmt.Sprintf("%s: side_effect_risk %v out of [0, 1]", label, card.SideEffectRisk))
		}
		if !within(card.SafeguardReduction, 0, 1) {
			issues = append(issues, fmt.Sprintf("%s: safeguard_reduction %v out of [0, 1]", label, card.SafeguardReduction))
		}
	}
	return issues
}

func within(v, lo, hi float64) bool { return v >= lo && v <= hi }

// NewScenarioTemplate returns the skeleton a content author starts from.
func NewScenarioTemplate(title string) models.Scenario {
	return models.Scenario{
		Icon:  "✨",
		Title: title,
		Story: "Describe the crisis here. **Mission**: Describe the player's task here.",
		Advisors: []models.Advisor{
			{Name: "Advisor 1 (e.g. Security)", Text: "Advisor opinion goes here."},
			{Name: "Advisor 2 (e.g. Legal)", Text: "Advisor opinion goes here."},
		},
		ActionCards: []models.ActionCard{
			{
				ID: "A", Name: "Action card A", Tooltip: "Fast but risky.",
				Cost: 30, HRCost: 10, Speed: models.SpeedFast,
				SecurityEffect: 40, FreedomCost: 30, SideEffectRisk: 0.4, SafeguardReduction: 0.5,
			},
			{
				ID: "B", Name: "Action card B", Tooltip: "A balanced option.",
				Cost: 20, HRCost: 15, Speed: models.SpeedMedium,
				SecurityEffect: 30, FreedomCost: 15, SideEffectRisk: 0.2, SafeguardReduction: 0.7,
			},
		},
		ImmediateText: "Immediate effect text. Use {} to show the chosen action.",
		DelayedText:   "Delayed effect text.",
	}
}
