package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/config"
	"github.com/tatianab/crisis-desk/internal/engine"
	"github.com/tatianab/crisis-desk/internal/models"
	"github.com/tatianab/crisis-desk/internal/narrator"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

// player picks the decision for the current crisis. A zero ActionID skips.
type player interface {
	Choose(ctx context.Context, s *engine.Session) models.Decision
}

func main() {
	runs := flag.Int("runs", 1, "number of runs to simulate")
	useLLM := flag.Bool("llm", false, "let a Gemini player make the decisions")
	cfg, err := config.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	ctx := context.Background()

	lib, err := catalog.LoadEmbedded()
	if cfg.ContentDir != "" {
		lib, err = catalog.LoadDir(cfg.ContentDir)
	}
	if err != nil {
		log.Fatalf("Failed to load content: %v", err)
	}
	content, err := lib.Catalog(cfg.Profile, cfg.Language)
	if err != nil {
		log.Fatalf("Failed to select content: %v", err)
	}
	balance, err := config.LoadBalance(cfg.BalanceFile)
	if err != nil {
		log.Fatalf("Failed to load balance: %v", err)
	}

	var p player = greedyPlayer{}
	if *useLLM && cfg.NarratorEnabled() {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatalf("Failed to create player client: %v", err)
		}
		defer client.Close()
		p = llmPlayer{model: client.GenerativeModel(cfg.Model), fallback: greedyPlayer{}}
	}

	var n *narrator.Narrator
	if cfg.NarratorEnabled() {
		n, err = narrator.NewNarrator(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			log.Fatalf("Failed to create narrator: %v", err)
		}
		defer n.Close()
	}

	for run := 1; run <= *runs; run++ {
		seed := cfg.Seed
		if seed != 0 {
			seed += int64(run - 1)
		}
		s := engine.NewSession(content, balance,
			engine.WithRand(engine.NewRand(seed)),
			engine.WithContentLabels(cfg.Profile, cfg.Language),
		)
		report, err := play(ctx, s, p, cfg.Scenarios)
		if err != nil {
			log.Fatalf("Run %d failed: %v", run, err)
		}
		fmt.Printf("Run %s finished. Score: %.1f\n\n", report.RunID, report.Score)

		if cfg.ReportDir != "" {
			if _, err := report.Save(cfg.ReportDir); err != nil {
				log.Printf("Failed to save report: %v", err)
			}
		}
		if n != nil {
			d, err := n.Debrief(ctx, report)
			if err != nil {
				log.Printf("Debrief failed: %v", err)
				continue
			}
			fmt.Printf("%s\n\n%s\n%s\n\n", d.Headline, d.Column, d.Verdict)
		}
	}
}

func play(ctx context.Context, s *engine.Session, p player, selection []string) (*models.RunReport, error) {
	if err := s.Start(selection, false); err != nil {
		return nil, err
	}
	for s.Phase() != engine.PhaseEnd {
		switch s.Phase() {
		case engine.PhaseDecision:
			sc, _ := s.Scenario()
			fmt.Printf("--- Crisis %d / %d: %s ---\n", s.Index()+1, len(s.Sequence()), sc.Title)

			d := p.Choose(ctx, s)
			var (
				res models.TurnResult
				err error
			)
			if d.ActionID == "" {
				res, err = s.Skip()
			} else {
				res, err = s.Apply(d)
			}
			if err != nil {
				return nil, err
			}
			describe(d, res)
		default:
			if err := s.Continue(); err != nil {
				return nil, err
			}
		}
	}
	report, _ := s.Report()
	return report, nil
}

func describe(d models.Decision, res models.TurnResult) {
	if res.Classification == models.ClassSkip {
		fmt.Println("Decision: skipped")
	} else {
		fmt.Printf("Decision: card %s, %s, %s, safeguards %v\n", d.ActionID, d.Scope, d.Duration, d.Safeguards)
	}
	m := res.Metrics
	fmt.Printf("Metrics: security=%.1f freedom=%.1f trust=%.1f resilience=%.1f fatigue=%.1f\n",
		m.Security, m.Freedom, m.PublicTrust, m.Resilience, m.Fatigue)
	fmt.Printf("Resources: budget=%d personnel=%d\n\n", res.Resources.Budget, res.Resources.Personnel)
}

// greedyPlayer takes the affordable card with the best security to freedom
// balance, kept narrow and short with every safeguard.
type greedyPlayer struct{}

func (greedyPlayer) Choose(_ context.Context, s *engine.Session) models.Decision {
	var best *models.ActionCard
	bestValue := 0.0
	for _, card := range s.AffordableCards() {
		value := card.SecurityEffect*(1-card.SideEffectRisk) - card.FreedomCost*(1-card.SafeguardReduction)
		if best == nil || value > bestValue {
			best, bestValue = &card, value
		}
	}
	if best == nil {
		return models.Decision{Skipped: true}
	}
	return models.Decision{
		ActionID:   best.ID,
		Scope:      models.ScopeTargeted,
		Duration:   models.DurationShort,
		Safeguards: append([]models.Safeguard(nil), models.AllSafeguards...),
	}
}

type llmPlayer struct {
	model    *genai.GenerativeModel
	fallback player
}

type llmChoice struct {
	Card       string             `yaml:"card"`
	Scope      models.Scope       `yaml:"scope"`
	Duration   models.Duration    `yaml:"duration"`
	Safeguards []models.Safeguard `yaml:"safeguards"`
}

func (p llmPlayer) Choose(ctx context.Context, s *engine.Session) models.Decision {
	sc, _ := s.Scenario()
	m := s.Metrics()
	res := s.Resources()

	var cards strings.Builder
	for _, c := range s.AffordableCards() {
		fmt.Fprintf(&cards, "- %s: %s (cost %d, personnel %d, speed %s, security %+.0f, freedom cost %.0f)\n",
			c.ID, c.Name, c.Cost, c.HRCost, c.Speed, c.SecurityEffect, c.FreedomCost)
	}
	if cards.Len() == 0 {
		return models.Decision{Skipped: true}
	}

	prompt := fmt.Sprintf(`You are playing a crisis management game. Balance security, freedom and public trust.
Crisis: %s
%s

State: security %.0f, freedom %.0f, public trust %.0f, fatigue %.0f. Budget %d, personnel %d.

Cards you can afford:
%s
Answer with YAML only:
card: <id>
scope: targeted|general
duration: short|medium|long
safeguards: [transparency, appeal, sunset]  # any subset`,
		sc.Title, sc.Story, m.Security, m.Freedom, m.PublicTrust, m.Fatigue, res.Budget, res.Personnel, cards.String())

	resp, err := p.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return p.fallback.Choose(ctx, s)
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]))
	text = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(text, "```yaml"), "```"), "```")

	var choice llmChoice
	if err := yaml.Unmarshal([]byte(text), &choice); err != nil {
		return p.fallback.Choose(ctx, s)
	}
	d := models.Decision{ActionID: choice.Card, Scope: choice.Scope, Duration: choice.Duration}
	for _, sg := range models.DistinctSafeguards(choice.Safeguards) {
		if sg.Valid() {
			d.Safeguards = append(d.Safeguards, sg)
		}
	}
	card, ok := sc.Card(d.ActionID)
	if !ok || !s.CanAfford(card) || !d.Scope.Valid() || !d.Duration.Valid() {
		return p.fallback.Choose(ctx, s)
	}
	return d
}
