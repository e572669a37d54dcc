package engine

import "github.com/tatianab/crisis-desk/internal/models"

// Fixed penalties for a skipped turn.
const (
	skipSecurityPenalty   = -25
	skipTrustPenalty      = -20
	skipResiliencePenalty = -10
	skipFatigueIncrease   = 15
)

// resilienceForFastActions is the flat resilience gain of any non-slow card.
const resilienceForFastActions = 5

// ResolveAction computes the effect of playing card. It consumes exactly one
// Float64 draw from rng and never mutates its arguments.
//
// Affordability is the caller's precondition: an unaffordable card yields
// negative resources.
//
// freedomCost is not clamped before it is applied. With enough safeguards and
// a high safeguard_reduction it turns negative, which raises freedom and adds
// to public trust instead of taking from it.
func ResolveAction(
	rng Rand,
	b models.Balance,
	before models.Metrics,
	res models.Resources,
	card models.ActionCard,
	scope models.Scope,
	duration models.Duration,
	safeguards []models.Safeguard,
) models.TurnResult {
	lo, hi := b.RandomFactorRange[0], b.RandomFactorRange[1]
	randomFactor := lo + rng.Float64()*(hi-lo)

	scopeMultiplier := b.ScopeMultipliers[scope]
	durationMultiplier := b.DurationMultipliers[duration]

	distinct := models.DistinctSafeguards(safeguards)
	safeguardQuality := float64(len(distinct)) * b.SafeguardQualityPerItem

	securityChange := b.ThreatSeverity*card.SecurityEffect/100 -
		card.SideEffectRisk*randomFactor*20

	freedomCost := card.FreedomCost *
		scopeMultiplier *
		durationMultiplier *
		(1 - safeguardQuality*card.SafeguardReduction)

	trustBoost := 0.0
	if hasSafeguard(distinct, models.SafeguardTransparency) {
		trustBoost = b.TrustBoostForTransparency
	}
	publicTrustChange := trustBoost - freedomCost*0.5

	resilienceChange := float64(resilienceForFastActions)
	if card.Speed == models.SpeedSlow {
		resilienceChange = card.SecurityEffect * safeguardQuality / 2
	}

	fatigueChange := durationMultiplier * b.FatiguePerDuration[scope]

	next := models.Metrics{
		Security:    models.Clamp(before.Security + securityChange),
		Freedom:     models.Clamp(before.Freedom - freedomCost),
		PublicTrust: models.Clamp(before.PublicTrust + publicTrustChange),
		Resilience:  models.Clamp(before.Resilience + resilienceChange),
		Fatigue:     models.Clamp(before.Fatigue + fatigueChange),
	}

	return models.TurnResult{
		Metrics: next,
		Resources: models.Resources{
			Budget:    res.Budget - card.Cost,
			Personnel: res.Personnel - card.HRCost,
		},
		Classification: classify(card),
		Effects: models.Effects{
			RandomFactor:      randomFactor,
			SafeguardQuality:  safeguardQuality,
			SecurityChange:    securityChange,
			FreedomCost:       freedomCost,
			PublicTrustChange: publicTrustChange,
			ResilienceChange:  resilienceChange,
			FatigueChange:     fatigueChange,
		},
	}
}

// ResolveSkip applies the fixed penalty for not acting. Resources are untouched.
func ResolveSkip(before models.Metrics, res models.Resources) models.TurnResult {
	return models.TurnResult{
		Metrics: models.Metrics{
			Security:    models.Clamp(before.Security + skipSecurityPenalty),
			Freedom:     before.Freedom,
			PublicTrust: models.Clamp(before.PublicTrust + skipTrustPenalty),
			Resilience:  models.Clamp(before.Resilience + skipResiliencePenalty),
			Fatigue:     models.Clamp(before.Fatigue + skipFatigueIncrease),
		},
		Resources:      res,
		Classification: models.ClassSkip,
		Effects: models.Effects{
			SecurityChange:    skipSecurityPenalty,
			PublicTrustChange: skipTrustPenalty,
			ResilienceChange:  skipResiliencePenalty,
			FatigueChange:     skipFatigueIncrease,
		},
	}
}

func classify(card models.ActionCard) models.Classification {
	if card.ID == "A" {
		return models.ClassActionA
	}
	return models.ClassActionOther
}

func hasSafeguard(list []models.Safeguard, s models.Safeguard) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
