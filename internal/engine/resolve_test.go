package engine

import (
	"math"
	"testing"

	"github.com/tatianab/crisis-desk/internal/models"
)

func testBalance() models.Balance {
	return models.Balance{
		InitialMetrics: models.Metrics{
			Security: 50, Freedom: 70, PublicTrust: 60, Resilience: 40, Fatigue: 10,
		},
		InitialResources:  models.Resources{Budget: 100, Personnel: 50},
		MaxCrises:         4,
		ThreatSeverity:    60,
		RandomFactorRange: [2]float64{0.5, 1.5},
		ScopeMultipliers: map[models.Scope]float64{
			models.ScopeTargeted: 0.6,
			models.ScopeGeneral:  1.2,
		},
		DurationMultipliers: map[models.Duration]float64{
			models.DurationShort:  0.6,
			models.DurationMedium: 1.0,
			models.DurationLong:   1.5,
		},
		FatiguePerDuration: map[models.Scope]float64{
			models.ScopeTargeted: 4,
			models.ScopeGeneral:  8,
		},
		SafeguardQualityPerItem:   0.3,
		TrustBoostForTransparency: 8,
	}
}

func testCard() models.ActionCard {
	return models.ActionCard{
		ID:                 "A",
		Name:               "National Traffic Inspection",
		Cost:               35,
		HRCost:             15,
		Speed:              models.SpeedFast,
		SecurityEffect:     70,
		SideEffectRisk:     0.5,
		FreedomCost:        40,
		SafeguardReduction: 0.5,
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResolveSkip(t *testing.T) {
	before := models.Metrics{Security: 50, Freedom: 50, PublicTrust: 50, Resilience: 50, Fatigue: 50}
	res := models.Resources{Budget: 20, Personnel: 5}

	got := ResolveSkip(before, res)
	want := models.Metrics{Security: 25, Freedom: 50, PublicTrust: 30, Resilience: 40, Fatigue: 65}
	if got.Metrics != want {
		t.Errorf("Expected %+v, got %+v", want, got.Metrics)
	}
	if got.Resources != res {
		t.Errorf("Expected resources untouched, got %+v", got.Resources)
	}
	if got.Classification != models.ClassSkip {
		t.Errorf("Expected skip classification, got %q", got.Classification)
	}

	// Same input, same output.
	if again := ResolveSkip(before, res); again != got {
		t.Errorf("ResolveSkip is not deterministic: %+v vs %+v", again, got)
	}
}

func TestResolveSkipClamps(t *testing.T) {
	before := models.Metrics{Security: 10, Freedom: 5, PublicTrust: 0, Resilience: 3, Fatigue: 95}
	got := ResolveSkip(before, models.Resources{}).Metrics
	want := models.Metrics{Security: 0, Freedom: 5, PublicTrust: 0, Resilience: 0, Fatigue: 100}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestResolveActionFormula(t *testing.T) {
	b := testBalance()
	rng := &FixedRand{Floats: []float64{0.5}}
	safeguards := []models.Safeguard{
		models.SafeguardTransparency, models.SafeguardAppeal, models.SafeguardTransparency,
	}

	got := ResolveAction(rng, b, b.InitialMetrics, b.InitialResources, testCard(),
		models.ScopeGeneral, models.DurationMedium, safeguards)

	checks := []struct {
		name      string
		got, want float64
	}{
		{"random factor", got.Effects.RandomFactor, 1.0},
		{"safeguard quality", got.Effects.SafeguardQuality, 0.6},
		{"security change", got.Effects.SecurityChange, 32},
		{"freedom cost", got.Effects.FreedomCost, 33.6},
		{"trust change", got.Effects.PublicTrustChange, -8.8},
		{"resilience change", got.Effects.ResilienceChange, 5},
		{"fatigue change", got.Effects.FatigueChange, 8},
		{"security", got.Metrics.Security, 82},
		{"freedom", got.Metrics.Freedom, 36.4},
		{"public trust", got.Metrics.PublicTrust, 51.2},
		{"resilience", got.Metrics.Resilience, 45},
		{"fatigue", got.Metrics.Fatigue, 18},
	}
	for _, c := range checks {
		if !near(c.got, c.want) {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}

	if got.Resources != (models.Resources{Budget: 65, Personnel: 35}) {
		t.Errorf("Expected resources 65/35, got %+v", got.Resources)
	}
	if got.Classification != models.ClassActionA {
		t.Errorf("Expected classification A, got %q", got.Classification)
	}
}

func TestResolveActionSubtractsResources(t *testing.T) {
	b := testBalance()
	card := testCard()
	card.ID = "B"
	card.Cost, card.HRCost = 10, 2

	got := ResolveAction(&FixedRand{}, b, b.InitialMetrics, models.Resources{Budget: 20, Personnel: 5},
		card, models.ScopeTargeted, models.DurationShort, nil)
	if got.Resources != (models.Resources{Budget: 10, Personnel: 3}) {
		t.Errorf("Expected 10/3, got %+v", got.Resources)
	}
	if got.Classification != models.ClassActionOther {
		t.Errorf("Expected classification other, got %q", got.Classification)
	}
}

func TestResolveActionClassification(t *testing.T) {
	b := testBalance()
	tests := []struct {
		id   string
		want models.Classification
	}{
		{"A", models.ClassActionA},
		{"B", models.ClassActionOther},
	}
	for _, tt := range tests {
		card := testCard()
		card.ID = tt.id
		for _, scope := range []models.Scope{models.ScopeTargeted, models.ScopeGeneral} {
			for _, duration := range []models.Duration{models.DurationShort, models.DurationMedium, models.DurationLong} {
				for mask := 0; mask < 1<<len(models.AllSafeguards); mask++ {
					var safeguards []models.Safeguard
					for i, sg := range models.AllSafeguards {
						if mask&(1<<i) != 0 {
							safeguards = append(safeguards, sg)
						}
					}
					got := ResolveAction(&FixedRand{}, b, b.InitialMetrics, b.InitialResources,
						card, scope, duration, safeguards)
					if got.Classification != tt.want {
						t.Errorf("card %s %s/%s %v: expected %q, got %q",
							tt.id, scope, duration, safeguards, tt.want, got.Classification)
					}
				}
			}
		}
	}
}

func TestResolveActionSlowCardResilience(t *testing.T) {
	b := testBalance()
	card := testCard()
	card.Speed = models.SpeedSlow
	card.SecurityEffect = 40

	got := ResolveAction(&FixedRand{}, b, b.InitialMetrics, b.InitialResources, card,
		models.ScopeTargeted, models.DurationLong,
		[]models.Safeguard{models.SafeguardAppeal, models.SafeguardSunset})
	// 40 * 0.6 / 2
	if !near(got.Effects.ResilienceChange, 12) {
		t.Errorf("Expected resilience change 12, got %v", got.Effects.ResilienceChange)
	}
	if got.Effects.PublicTrustChange > 0 {
		t.Errorf("Expected no trust boost without transparency, got %v", got.Effects.PublicTrustChange)
	}
}

func TestResolveActionNegativeFreedomCost(t *testing.T) {
	b := testBalance()
	b.SafeguardQualityPerItem = 0.5
	card := testCard()
	card.FreedomCost = 20
	card.SafeguardReduction = 1

	got := ResolveAction(&FixedRand{}, b, b.InitialMetrics, b.InitialResources, card,
		models.ScopeTargeted, models.DurationShort, models.AllSafeguards)

	// 20 * 0.6 * 0.6 * (1 - 1.5)
	if !near(got.Effects.FreedomCost, -3.6) {
		t.Fatalf("Expected freedom cost -3.6, got %v", got.Effects.FreedomCost)
	}
	if !near(got.Metrics.Freedom, 73.6) {
		t.Errorf("Expected freedom to rise to 73.6, got %v", got.Metrics.Freedom)
	}
	if !near(got.Effects.PublicTrustChange, 9.8) {
		t.Errorf("Expected trust change 9.8, got %v", got.Effects.PublicTrustChange)
	}
}

func TestResolveActionStaysInBounds(t *testing.T) {
	b := testBalance()
	rng := NewRand(7)
	scopes := []models.Scope{models.ScopeTargeted, models.ScopeGeneral}
	durations := []models.Duration{models.DurationShort, models.DurationMedium, models.DurationLong}
	speeds := []models.Speed{models.SpeedFast, models.SpeedMedium, models.SpeedSlow}

	m := b.InitialMetrics
	for i := 0; i < 2000; i++ {
		card := models.ActionCard{
			ID:                 "A",
			Speed:              speeds[rng.IntN(len(speeds))],
			SecurityEffect:     rng.Float64() * 100,
			SideEffectRisk:     rng.Float64(),
			FreedomCost:        rng.Float64() * 100,
			SafeguardReduction: rng.Float64(),
		}
		var sg []models.Safeguard
		for _, s := range models.AllSafeguards {
			if rng.IntN(2) == 0 {
				sg = append(sg, s)
			}
		}
		m = ResolveAction(rng, b, m, b.InitialResources, card,
			scopes[rng.IntN(len(scopes))], durations[rng.IntN(len(durations))], sg).Metrics
		for name, v := range map[string]float64{
			"security": m.Security, "freedom": m.Freedom, "trust": m.PublicTrust,
			"resilience": m.Resilience, "fatigue": m.Fatigue,
		} {
			if v < models.MetricMin || v > models.MetricMax {
				t.Fatalf("Iteration %d: %s out of bounds: %v", i, name, v)
			}
		}
		if i%7 == 0 {
			m = ResolveSkip(m, b.InitialResources).Metrics
		}
	}
}

func TestResolveActionDoesNotMutateInputs(t *testing.T) {
	b := testBalance()
	before := b.InitialMetrics
	card := testCard()
	safeguards := []models.Safeguard{models.SafeguardSunset, models.SafeguardSunset}

	_ = ResolveAction(&FixedRand{Floats: []float64{0.9}}, b, before, b.InitialResources, card,
		models.ScopeGeneral, models.DurationLong, safeguards)

	if before != b.InitialMetrics {
		t.Errorf("Metrics were mutated")
	}
	if card != testCard() {
		t.Errorf("Card was mutated")
	}
	if len(safeguards) != 2 || safeguards[1] != models.SafeguardSunset {
		t.Errorf("Safeguards were mutated: %v", safeguards)
	}
	if b.ScopeMultipliers[models.ScopeGeneral] != 1.2 {
		t.Errorf("Balance was mutated")
	}
}
