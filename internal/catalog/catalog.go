// Package catalog loads the scenario content sets and serves read-only
// lookups by id.
//
// Every set is one YAML file holding the scenarios of a profile in one
// language. Scenario ids are the keys of the scenarios mapping and keep their
// declaration order.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/tatianab/crisis-desk/internal/models"
	"gopkg.in/yaml.v3"
)

var ErrNotFound = errors.New("not found")

const (
	ProfileAdult = "adult"
	ProfileKids  = "kids"
)

//go:embed content/*.yaml
var embeddedContent embed.FS

type contentFile struct {
	Profile       string    `yaml:"profile"`
	Language      string    `yaml:"language"`
	MissionMarker string    `yaml:"mission_marker"`
	Scenarios     yaml.Node `yaml:"scenarios"`
}

// Catalog is the content of one profile in one language.
type Catalog struct {
	Profile       string
	Language      string
	MissionMarker string

	ids       []string
	scenarios map[string]models.Scenario
}

// ScenarioIDs lists the ids in declaration order. A nil catalog has none.
func (c *Catalog) ScenarioIDs() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.ids...)
}

// Scenario returns a copy of the scenario so callers cannot alter the catalog.
func (c *Catalog) Scenario(id string) (models.Scenario, error) {
	if c == nil {
		return models.Scenario{}, fmt.Errorf("scenario %q: %w", id, ErrNotFound)
	}
	s, ok := c.scenarios[id]
	if !ok {
		if hint, ok := Suggest(id, c.ids); ok {
			return models.Scenario{}, fmt.Errorf("scenario %q: %w (did you mean %q?)", id, ErrNotFound, hint)
		}
		return models.Scenario{}, fmt.Errorf("scenario %q: %w", id, ErrNotFound)
	}
	return s.Clone(), nil
}

type setKey struct {
	profile  string
	language string
}

// Library holds every content set.
type Library struct {
	sets map[setKey]*Catalog
}

// LoadEmbedded loads the content sets shipped with the game.
func LoadEmbedded() (*Library, error) {
	sub, err := fs.Sub(embeddedContent, "content")
	if err != nil {
		return nil, err
	}
	return LoadFromFS(sub)
}

// LoadDir loads content sets from a directory of YAML files.
func LoadDir(dir string) (*Library, error) {
	return LoadFromFS(os.DirFS(dir))
}

// LoadFromFS loads every *.yaml file at the root of fsys. All validation
// problems are reported together.
func LoadFromFS(fsys fs.FS) (*Library, error) {
	paths, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob content: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no content files found")
	}
	sort.Strings(paths)

	lib := &Library{sets: map[setKey]*Catalog{}}
	var problems []error
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		c, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		for _, issue := range Validate(c) {
			problems = append(problems, fmt.Errorf("%s: %s", path.Base(p), issue))
		}
		key := setKey{c.Profile, c.Language}
		if _, dup := lib.sets[key]; dup {
			return nil, fmt.Errorf("%s: duplicate content set %s/%s", p, c.Profile, c.Language)
		}
		lib.sets[key] = c
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return lib, nil
}

// Parse decodes one content file.
func Parse(data []byte) (*Catalog, error) {
	var f contentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	f.Profile = strings.TrimSpace(f.Profile)
	f.Language = strings.TrimSpace(f.Language)
	if f.Profile == "" || f.Language == "" {
		return nil, fmt.Errorf("profile and language are required")
	}

	c := &Catalog{
		Profile:       f.Profile,
		Language:      f.Language,
		MissionMarker: f.MissionMarker,
		scenarios:     map[string]models.Scenario{},
	}
	if f.Scenarios.Kind == 0 {
		return c, nil
	}
	if f.Scenarios.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: scenarios must be a mapping", f.Scenarios.Line)
	}

	// mapping content alternates key and value nodes
	for i := 0; i+1 < len(f.Scenarios.Content); i += 2 {
		keyNode, valueNode := f.Scenarios.Content[i], f.Scenarios.Content[i+1]
		id := strings.TrimSpace(keyNode.Value)
		if id == "" {
			return nil, fmt.Errorf("line %d: blank scenario id", keyNode.Line)
		}
		if _, dup := c.scenarios[id]; dup {
			return nil, fmt.Errorf("line %d: duplicate scenario id %q", keyNode.Line, id)
		}
		var s models.Scenario
		if err := valueNode.Decode(&s); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", id, err)
		}
		s.ID = id
		c.ids = append(c.ids, id)
		c.scenarios[id] = s
	}
	return c, nil
}

// Catalog returns the set for profile and language.
func (l *Library) Catalog(profile, language string) (*Catalog, error) {
	c, ok := l.sets[setKey{profile, language}]
	if !ok {
		return nil, fmt.Errorf("content set %s/%s: %w", profile, language, ErrNotFound)
	}
	return c, nil
}

// ListScenarioIDs returns the ids of a set in declaration order.
func (l *Library) ListScenarioIDs(profile, language string) ([]string, error) {
	c, err := l.Catalog(profile, language)
	if err != nil {
		return nil, err
	}
	return c.ScenarioIDs(), nil
}

// Languages lists the languages available for profile.
func (l *Library) Languages(profile string) []string {
	var out []string
	for k := range l.sets {
		if k.profile == profile {
			out = append(out, k.language)
		}
	}
	sort.Strings(out)
	return out
}

// Profiles lists every profile with at least one language.
func (l *Library) Profiles() []string {
	seen := map[string]bool{}
	var out []string
	for k := range l.sets {
		if !seen[k.profile] {
			seen[k.profile] = true
			out = append(out, k.profile)
		}
	}
	sort.Strings(out)
	return out
}
