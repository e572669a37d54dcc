package narrator

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/google/generative-ai-go/genai"
	"github.com/tatianab/crisis-desk/internal/models"
	"google.golang.org/api/option"
	"gopkg.in/yaml.v3"
)

//go:embed prompts/debrief.txt
var debriefPrompt string

var debriefTemplate = template.Must(template.New("debrief").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"join": func(list []models.Safeguard) string {
		parts := make([]string, len(list))
		for i, s := range list {
			parts[i] = string(s)
		}
		return strings.Join(parts, ", ")
	},
}).Parse(debriefPrompt))

// Debrief is the newspaper piece written about a finished run.
type Debrief struct {
	Headline string `yaml:"headline"`
	Column   string `yaml:"column"`
	Verdict  string `yaml:"verdict"`
}

type textModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

type geminiModel struct {
	model *genai.GenerativeModel
}

func (g geminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content returned from Gemini")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response type from Gemini")
	}
	return string(text), nil
}

// Narrator writes commentary on finished runs with a Gemini model.
type Narrator struct {
	client *genai.Client
	model  textModel
}

func NewNarrator(ctx context.Context, apiKey, modelName string) (*Narrator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &Narrator{
		client: client,
		model:  geminiModel{model: client.GenerativeModel(modelName)},
	}, nil
}

func (n *Narrator) Close() {
	if n.client != nil {
		n.client.Close()
	}
}

// DebriefPrompt renders the prompt sent for report.
func DebriefPrompt(report *models.RunReport) (string, error) {
	start := report.Final
	if len(report.History) > 0 {
		start = report.History[0]
	}
	data := struct {
		*models.RunReport
		Start models.Metrics
	}{report, start}

	var buf bytes.Buffer
	if err := debriefTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (n *Narrator) Debrief(ctx context.Context, report *models.RunReport) (*Debrief, error) {
	prompt, err := DebriefPrompt(report)
	if err != nil {
		return nil, err
	}
	text, err := n.model.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseDebrief(text)
}

func parseDebrief(text string) (*Debrief, error) {
	clean := stripFences(text)
	var d Debrief
	if err := yaml.Unmarshal([]byte(clean), &d); err != nil {
		return nil, fmt.Errorf("failed to parse debrief YAML: %v\nOutput was: %s", err, clean)
	}
	d.Headline = strings.TrimSpace(d.Headline)
	d.Column = strings.TrimSpace(d.Column)
	d.Verdict = strings.TrimSpace(d.Verdict)
	if d.Headline == "" && d.Column == "" {
		return nil, fmt.Errorf("empty debrief\nOutput was: %s", clean)
	}
	return &d, nil
}

func stripFences(text string) string {
	clean := strings.TrimSpace(text)
	clean = strings.TrimPrefix(clean, "```yaml")
	clean = strings.TrimPrefix(clean, "```")
	clean = strings.TrimSuffix(clean, "```")
	return strings.TrimSpace(clean)
}
