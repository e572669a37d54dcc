package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/models"
	"gopkg.in/yaml.v3"
)

func TestValidateEmbedded(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"validate"}, &out); err != nil {
		t.Fatalf("validate: %v\n%s", err, out.String())
	}
	for _, want := range []string{"ok   adult/en", "ok   adult/tr", "ok   kids/en", "ok   kids/tr"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Expected %q in\n%s", want, out.String())
		}
	}
}

func TestValidateReportsProblems(t *testing.T) {
	dir := t.TempDir()
	data := `profile: adult
language: en
mission_marker: "**Mission**:"
scenarios:
  broken:
    title: ""
    story: "x"
`
	if err := os.WriteFile(filepath.Join(dir, "adult_en.yaml"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := run([]string{"-content", dir, "validate"}, &out)
	if !errors.Is(err, errInvalid) {
		t.Fatalf("Expected errInvalid, got %v", err)
	}
	if !strings.Contains(out.String(), "FAIL") || !strings.Contains(out.String(), "title is required") {
		t.Errorf("Unexpected output\n%s", out.String())
	}
}

func TestScenarios(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"scenarios"}, &out); err != nil {
		t.Fatalf("scenarios: %v", err)
	}
	if !strings.Contains(out.String(), "adult/en: cyber_attack, flood") {
		t.Errorf("Unexpected output\n%s", out.String())
	}
}

func TestReports(t *testing.T) {
	dir := t.TempDir()
	r := &models.RunReport{RunID: "run-1", Profile: "kids", Language: "tr", Turns: make([]models.TurnRecord, 2), Score: 61.4}
	if _, err := r.Save(dir); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := run([]string{"-reports", dir, "reports"}, &out); err != nil {
		t.Fatalf("reports: %v", err)
	}
	if got := out.String(); got != "run-1  kids/tr  2 crises  score 61\n" {
		t.Errorf("Unexpected output %q", got)
	}
}

func TestTemplate(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"template", "Power", "Outage"}, &out); err != nil {
		t.Fatalf("template: %v", err)
	}
	var got map[string]models.Scenario
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("Template is not YAML: %v", err)
	}
	s, ok := got["power_outage"]
	if !ok || s.Title != "Power Outage" {
		t.Fatalf("Unexpected template %v", got)
	}
	if issues := catalog.ValidateScenario(s); len(issues) > 0 {
		t.Errorf("Template should be valid, got %v", issues)
	}
}

func TestUnknownCommand(t *testing.T) {
	if err := run([]string{"publish"}, &bytes.Buffer{}); err == nil {
		t.Fatal("Expected an error for an unknown command")
	}
}
