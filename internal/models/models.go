package models

import (
	"math"
	"strings"
)

const (
	MetricMin = 0.0
	MetricMax = 100.0
)

// Metrics represents the five-dimensional state of the country being governed.
type Metrics struct {
	Security    float64 `yaml:"security"`
	Freedom     float64 `yaml:"freedom"`
	PublicTrust float64 `yaml:"public_trust"`
	Resilience  float64 `yaml:"resilience"`
	Fatigue     float64 `yaml:"fatigue"`
}

// Clamp bounds v to [MetricMin, MetricMax].
func Clamp(v float64) float64 {
	return math.Max(MetricMin, math.Min(MetricMax, v))
}

// Clamped returns a copy of m with every field clamped.
func (m Metrics) Clamped() Metrics {
	return Metrics{
		Security:    Clamp(m.Security),
		Freedom:     Clamp(m.Freedom),
		PublicTrust: Clamp(m.PublicTrust),
		Resilience:  Clamp(m.Resilience),
		Fatigue:     Clamp(m.Fatigue),
	}
}

// Score is the leadership score shown at the end of a run.
func (m Metrics) Score() float64 {
	return (m.Security + m.Freedom + m.PublicTrust) / 3
}

// Resources represents the budget and personnel pools. They are not clamped.
type Resources struct {
	Budget    int `yaml:"budget"`
	Personnel int `yaml:"personnel"`
}

// Covers reports whether the pools can pay for card.
func (r Resources) Covers(card ActionCard) bool {
	return r.Budget >= card.Cost && r.Personnel >= card.HRCost
}

type Speed string

const (
	SpeedFast   Speed = "fast"
	SpeedMedium Speed = "medium"
	SpeedSlow   Speed = "slow"
)

func (s Speed) Valid() bool {
	switch s {
	case SpeedFast, SpeedMedium, SpeedSlow:
		return true
	}
	return false
}

// ActionCard represents one selectable response to a crisis.
type ActionCard struct {
	ID                 string  `yaml:"id"`
	Name               string  `yaml:"name"`
	Tooltip            string  `yaml:"tooltip"`
	Cost               int     `yaml:"cost"`
	HRCost             int     `yaml:"hr_cost"`
	Speed              Speed   `yaml:"speed"`
	SecurityEffect     float64 `yaml:"security_effect"`
	SideEffectRisk     float64 `yaml:"side_effect_risk"`
	FreedomCost        float64 `yaml:"freedom_cost"`
	SafeguardReduction float64 `yaml:"safeguard_reduction"`
}

// Advisor is a single line of counsel shown before the decision.
type Advisor struct {
	Name string `yaml:"name"`
	Text string `yaml:"text"`
}

// Scenario represents one crisis of the content catalog.
type Scenario struct {
	ID            string       `yaml:"-"`
	Icon          string       `yaml:"icon"`
	Title         string       `yaml:"title"`
	Story         string       `yaml:"story"`
	Advisors      []Advisor    `yaml:"advisors"`
	ActionCards   []ActionCard `yaml:"action_cards"`
	ImmediateText string       `yaml:"immediate_text"`
	DelayedText   string       `yaml:"delayed_text"`
}

// Card looks up an action card by id.
func (s Scenario) Card(id string) (ActionCard, bool) {
	for _, c := range s.ActionCards {
		if c.ID == id {
			return c, true
		}
	}
	return ActionCard{}, false
}

// StorySections splits the story at the first mission marker. Without a
// marker the whole story is the report and the mission is empty.
func (s Scenario) StorySections(marker string) (report, mission string) {
	if marker == "" {
		return s.Story, ""
	}
	idx := strings.Index(s.Story, marker)
	if idx == -1 {
		return s.Story, ""
	}
	return s.Story[:idx], s.Story[idx+len(marker):]
}

// ImmediateFor fills the immediate_text template with the action name.
func (s Scenario) ImmediateFor(actionName string) string {
	return strings.Replace(s.ImmediateText, "{}", actionName, 1)
}

// Clone returns a deep copy of the scenario.
func (s Scenario) Clone() Scenario {
	out := s
	out.Advisors = append([]Advisor(nil), s.Advisors...)
	out.ActionCards = append([]ActionCard(nil), s.ActionCards...)
	return out
}

type Scope string

const (
	ScopeTargeted Scope = "targeted"
	ScopeGeneral  Scope = "general"
)

func (s Scope) Valid() bool { return s == ScopeTargeted || s == ScopeGeneral }

type Duration string

const (
	DurationShort  Duration = "short"
	DurationMedium Duration = "medium"
	DurationLong   Duration = "long"
)

func (d Duration) Valid() bool {
	return d == DurationShort || d == DurationMedium || d == DurationLong
}

type Safeguard string

const (
	SafeguardTransparency Safeguard = "transparency"
	SafeguardAppeal       Safeguard = "appeal"
	SafeguardSunset       Safeguard = "sunset"
)

// AllSafeguards lists safeguards in display order.
var AllSafeguards = []Safeguard{SafeguardTransparency, SafeguardAppeal, SafeguardSunset}

func (s Safeguard) Valid() bool {
	switch s {
	case SafeguardTransparency, SafeguardAppeal, SafeguardSunset:
		return true
	}
	return false
}

// Decision represents the player's intent at the decision phase.
type Decision struct {
	Skipped    bool        `yaml:"skipped"`
	ActionID   string      `yaml:"action_id,omitempty"`
	Scope      Scope       `yaml:"scope,omitempty"`
	Duration   Duration    `yaml:"duration,omitempty"`
	Safeguards []Safeguard `yaml:"safeguards,omitempty"`
}

// DistinctSafeguards returns the safeguards with duplicates removed, in
// first-seen order.
func DistinctSafeguards(in []Safeguard) []Safeguard {
	seen := make(map[Safeguard]bool, len(in))
	out := make([]Safeguard, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// HasSafeguard reports whether s is part of the decision.
func (d Decision) HasSafeguard(s Safeguard) bool {
	for _, x := range d.Safeguards {
		if x == s {
			return true
		}
	}
	return false
}

// Classification selects the feedback narrative for a turn.
type Classification string

const (
	ClassActionA     Classification = "A"
	ClassActionOther Classification = "other"
	ClassSkip        Classification = "skip"
)

// Effects breaks a turn down into the raw changes that produced it.
type Effects struct {
	RandomFactor      float64 `yaml:"random_factor"`
	SafeguardQuality  float64 `yaml:"safeguard_quality"`
	SecurityChange    float64 `yaml:"security_change"`
	FreedomCost       float64 `yaml:"freedom_cost"`
	PublicTrustChange float64 `yaml:"public_trust_change"`
	ResilienceChange  float64 `yaml:"resilience_change"`
	FatigueChange     float64 `yaml:"fatigue_change"`
}

// TurnResult is the outcome of one resolved turn.
type TurnResult struct {
	Metrics        Metrics        `yaml:"metrics"`
	Resources      Resources      `yaml:"resources"`
	Classification Classification `yaml:"classification"`
	Effects        Effects        `yaml:"effects"`
}

// TurnRecord represents a single resolved crisis in the run log.
type TurnRecord struct {
	ScenarioID    string     `yaml:"scenario_id"`
	ScenarioTitle string     `yaml:"scenario_title"`
	ActionName    string     `yaml:"action_name,omitempty"`
	Decision      Decision   `yaml:"decision"`
	Result        TurnResult `yaml:"result"`
}
