package narrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tatianab/crisis-desk/internal/i18n"
	"github.com/tatianab/crisis-desk/internal/models"
)

type fakeModel struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func testReport() *models.RunReport {
	start := models.Metrics{Security: 50, Freedom: 70, PublicTrust: 60, Resilience: 40, Fatigue: 10}
	final := models.Metrics{Security: 61, Freedom: 44, PublicTrust: 52, Resilience: 45, Fatigue: 26}
	return &models.RunReport{
		RunID:    "run-1",
		Profile:  "adult",
		Language: "en",
		Sequence: []string{"flood", "pandemic"},
		Turns: []models.TurnRecord{
			{
				ScenarioID: "flood", ScenarioTitle: "River Flood", ActionName: "Curfew and Checkpoints",
				Decision: models.Decision{ActionID: "A", Scope: models.ScopeGeneral, Duration: models.DurationLong,
					Safeguards: []models.Safeguard{models.SafeguardTransparency, models.SafeguardSunset}},
				Result: models.TurnResult{Metrics: final},
			},
			{
				ScenarioID: "pandemic", ScenarioTitle: "Novel Virus Cluster",
				Decision:   models.Decision{Skipped: true},
				Result:     models.TurnResult{Metrics: final, Classification: models.ClassSkip},
			},
		},
		History: []models.Metrics{start, final},
		Final:   final,
		Score:   final.Score(),
	}
}

func TestDebriefPrompt(t *testing.T) {
	prompt, err := DebriefPrompt(testReport())
	if err != nil {
		t.Fatalf("DebriefPrompt: %v", err)
	}
	for _, want := range []string{
		`1. River Flood: "Curfew and Checkpoints", scope general, duration long, safeguards transparency, sunset.`,
		"2. Novel Virus Cluster: no action was taken.",
		"Starting state: security 50, freedom 70",
		"Leadership score: 52 out of 100.",
		`language with code "en"`,
		"The readers are adults",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q\n%s", want, prompt)
		}
	}

	kids := testReport()
	kids.Profile = "kids"
	prompt, _ = DebriefPrompt(kids)
	if !strings.Contains(prompt, "children") {
		t.Errorf("Expected a kids prompt")
	}
}

func TestDebrief(t *testing.T) {
	model := &fakeModel{reply: "```yaml\nheadline: Desk holds the line\ncolumn: |\n  A tough term.\nverdict: Mixed\n```"}
	n := &Narrator{model: model}

	d, err := n.Debrief(context.Background(), testReport())
	if err != nil {
		t.Fatalf("Debrief: %v", err)
	}
	if d.Headline != "Desk holds the line" || d.Column != "A tough term." || d.Verdict != "Mixed" {
		t.Errorf("Unexpected debrief %+v", d)
	}
	if !strings.Contains(model.prompt, "River Flood") {
		t.Errorf("Prompt was not sent to the model")
	}
}

func TestDebriefErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	n := &Narrator{model: &fakeModel{err: boom}}
	if _, err := n.Debrief(context.Background(), testReport()); !errors.Is(err, boom) {
		t.Errorf("Expected model error, got %v", err)
	}

	for _, reply := range []string{"headline: [unclosed", "just: prose"} {
		n := &Narrator{model: &fakeModel{reply: reply}}
		if _, err := n.Debrief(context.Background(), testReport()); err == nil {
			t.Errorf("Expected an error for reply %q", reply)
		}
	}
}

func translator(t *testing.T, lang string) *i18n.Translator {
	t.Helper()
	b, err := i18n.LoadEmbedded()
	if err != nil {
		t.Fatalf("Failed to load locales: %v", err)
	}
	return b.Translator(lang)
}

func TestHeadlines(t *testing.T) {
	tr := translator(t, "en")
	card := models.ActionCard{ID: "A", Name: "Curfew"}

	tests := []struct {
		name    string
		effects models.Effects
		d       models.Decision
		want    []string
	}{
		{"quiet turn", models.Effects{SecurityChange: 10, FreedomCost: 5},
			models.Decision{ActionID: "A"}, nil},
		{"security only", models.Effects{SecurityChange: 15.5, FreedomCost: 15},
			models.Decision{ActionID: "A"}, []string{"📈 Security ++: 'Curfew'"}},
		{"everything", models.Effects{SecurityChange: 30, FreedomCost: 40},
			models.Decision{ActionID: "A", Safeguards: []models.Safeguard{models.SafeguardTransparency}},
			[]string{"📈 Security ++: 'Curfew'", "📉 Freedom --", "📰 Government publishes the details of its response"}},
		{"negative freedom cost", models.Effects{SecurityChange: 0, FreedomCost: -3},
			models.Decision{ActionID: "A"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := models.TurnResult{Classification: models.ClassActionA, Effects: tt.effects}
			got := Headlines(res, tt.d, card, "adult", tr)
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}

	skip := models.TurnResult{Classification: models.ClassSkip, Effects: models.Effects{SecurityChange: 99}}
	if got := Headlines(skip, models.Decision{Skipped: true}, card, "adult", tr); len(got) != 0 {
		t.Errorf("Skipped turns make no news, got %v", got)
	}
}

func TestCounterfactual(t *testing.T) {
	tr := translator(t, "tr")
	if got := Counterfactual(models.ClassSkip, "kids", tr); got != tr.T("feedback.skip_reason") {
		t.Errorf("Unexpected skip text %q", got)
	}
	if got := Counterfactual(models.ClassActionA, "kids", tr); got != tr.T("feedback.counter_factual_A_kids") {
		t.Errorf("Unexpected A text %q", got)
	}
	if got := Counterfactual(models.ClassActionOther, "adult", tr); got != tr.T("feedback.counter_factual_other_adult") {
		t.Errorf("Unexpected other text %q", got)
	}
}

func TestNewsFeed(t *testing.T) {
	f := NewNewsFeed(0)
	for i := 1; i <= 12; i++ {
		f.Push(fmt.Sprintf("item %d", i))
	}
	items := f.Items()
	if len(items) != DefaultFeedSize {
		t.Fatalf("Expected %d items, got %d", DefaultFeedSize, len(items))
	}
	if items[0] != "item 12" || items[9] != "item 3" {
		t.Errorf("Expected newest first, got %v", items)
	}

	f.Reset("welcome")
	if got := f.Items(); len(got) != 1 || got[0] != "welcome" {
		t.Errorf("Unexpected items after reset: %v", got)
	}

	f.Push("a", "b")
	if got := f.Items(); got[0] != "b" || got[1] != "a" {
		t.Errorf("Expected b before a, got %v", got)
	}
}
