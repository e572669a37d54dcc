package models

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const reportFile = "report.yaml"

// RunReport is the exported summary of a finished run.
type RunReport struct {
	RunID      string       `yaml:"run_id"`
	Profile    string       `yaml:"profile"`
	Language   string       `yaml:"language"`
	FinishedAt time.Time    `yaml:"finished_at"`
	Sequence   []string     `yaml:"sequence"`
	Turns      []TurnRecord `yaml:"turns"`
	History    []Metrics    `yaml:"history"`
	Final      Metrics      `yaml:"final"`
	Resources  Resources    `yaml:"resources"`
	Score      float64      `yaml:"score"`
}

// Save writes the report to <dir>/<run id>/report.yaml and returns the run
// directory so callers can place other artifacts next to it.
func (r *RunReport) Save(dir string) (string, error) {
	if r.RunID == "" {
		return "", fmt.Errorf("report has no run id")
	}
	runDir := filepath.Join(dir, r.RunID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(runDir, reportFile), data, 0644); err != nil {
		return "", err
	}
	return runDir, nil
}

func LoadReport(dir, runID string) (*RunReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, runID, reportFile))
	if err != nil {
		return nil, err
	}
	var report RunReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", runID, err)
	}
	return &report, nil
}

func ListReports(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var reports []string
	for _, entry := range entries {
		if entry.IsDir() {
			// report.yaml marks a finished run
			if _, err := os.Stat(filepath.Join(dir, entry.Name(), reportFile)); err == nil {
				reports = append(reports, entry.Name())
			}
		}
	}
	sort.Strings(reports)
	return reports, nil
}
