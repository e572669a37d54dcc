package models

import "fmt"

// Balance holds the static game-balance constants loaded once at startup.
type Balance struct {
	InitialMetrics    Metrics    `yaml:"initial_metrics"`
	InitialResources  Resources  `yaml:"initial_resources"`
	MaxCrises         int        `yaml:"max_crises"`
	ThreatSeverity    float64    `yaml:"threat_severity"`
	RandomFactorRange [2]float64 `yaml:"random_factor_range"`

	ScopeMultipliers    map[Scope]float64    `yaml:"scope_multipliers"`
	DurationMultipliers map[Duration]float64 `yaml:"duration_multipliers"`
	FatiguePerDuration  map[Scope]float64    `yaml:"fatigue_per_duration"`

	SafeguardQualityPerItem   float64 `yaml:"safeguard_quality_per_item"`
	TrustBoostForTransparency float64 `yaml:"trust_boost_for_transparency"`
}

func (b Balance) Validate() error {
	if b.MaxCrises <= 0 {
		return fmt.Errorf("max_crises must be > 0")
	}
	if b.RandomFactorRange[0] > b.RandomFactorRange[1] {
		return fmt.Errorf("invalid random_factor_range: [%v, %v]", b.RandomFactorRange[0], b.RandomFactorRange[1])
	}
	if b.InitialMetrics != b.InitialMetrics.Clamped() {
		return fmt.Errorf("initial_metrics must lie in [%v, %v]", MetricMin, MetricMax)
	}
	for _, s := range []Scope{ScopeTargeted, ScopeGeneral} {
		if _, ok := b.ScopeMultipliers[s]; !ok {
			return fmt.Errorf("scope_multipliers: missing %q", s)
		}
		if _, ok := b.FatiguePerDuration[s]; !ok {
			return fmt.Errorf("fatigue_per_duration: missing %q", s)
		}
	}
	for _, d := range []Duration{DurationShort, DurationMedium, DurationLong} {
		if _, ok := b.DurationMultipliers[d]; !ok {
			return fmt.Errorf("duration_multipliers: missing %q", d)
		}
	}
	if b.SafeguardQualityPerItem < 0 {
		return fmt.Errorf("safeguard_quality_per_item must be >= 0")
	}
	return nil
}
