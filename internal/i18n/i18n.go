// Package i18n holds the interface strings of the game in every supported
// language and formats them through golang.org/x/text/message.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLanguage is used for any key or language the other locales lack.
const BaseLanguage = "en"

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type localeFile struct {
	Language string         `yaml:"language"`
	Messages map[string]any `yaml:"messages"`
}

// Bundle is every loaded locale plus the x/text catalog built from them.
type Bundle struct {
	builder   *catalog.Builder
	messages  map[string]map[string]string
	languages []string
	tags      []language.Tag
	matcher   language.Matcher
}

func LoadEmbedded() (*Bundle, error) {
	sub, err := fs.Sub(embeddedLocales, "locales")
	if err != nil {
		return nil, err
	}
	return LoadFromFS(sub)
}

// LoadFromFS reads every *.yaml locale at the root of fsys. The base
// language must be present.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	b := &Bundle{
		builder:  catalog.NewBuilder(catalog.Fallback(language.English)),
		messages: map[string]map[string]string{},
	}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", p, err)
		}
		if err := b.add(p, data); err != nil {
			return nil, err
		}
	}
	if _, ok := b.messages[BaseLanguage]; !ok {
		return nil, fmt.Errorf("base language %s is not defined", BaseLanguage)
	}

	// The base language goes first so the matcher falls back to it.
	sort.SliceStable(b.languages, func(i, j int) bool {
		return b.languages[i] == BaseLanguage && b.languages[j] != BaseLanguage
	})
	for _, lang := range b.languages {
		b.tags = append(b.tags, language.Make(lang))
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(path string, data []byte) error {
	var f localeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse locale %s: %w", path, err)
	}
	lang := strings.TrimSpace(f.Language)
	if lang == "" {
		return fmt.Errorf("locale %s: language is required", path)
	}
	if _, dup := b.messages[lang]; dup {
		return fmt.Errorf("locale %s: language %q already defined", path, lang)
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("locale %s: %w", path, err)
	}

	flat := map[string]string{}
	if err := flatten("", f.Messages, flat); err != nil {
		return fmt.Errorf("locale %s: %w", path, err)
	}
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := b.builder.SetString(tag, k, flat[k]); err != nil {
			return fmt.Errorf("locale %s: key %q: %w", path, k, err)
		}
	}

	b.messages[lang] = flat
	b.languages = append(b.languages, lang)
	return nil
}

// flatten turns nested mappings into dotted keys: {a: {b: x}} becomes a.b.
func flatten(prefix string, in map[string]any, out map[string]string) error {
	for k, v := range in {
		key := strings.TrimSpace(k)
		if key == "" {
			return fmt.Errorf("blank key under %q", prefix)
		}
		if prefix != "" {
			key = prefix + "." + key
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q: expected text or mapping, got %T", key, v)
		}
	}
	return nil
}

// Languages lists the loaded languages, base language first.
func (b *Bundle) Languages() []string {
	return append([]string(nil), b.languages...)
}

// Keys lists the keys defined for lang, sorted.
func (b *Bundle) Keys(lang string) []string {
	msgs := b.messages[lang]
	out := make([]string, 0, len(msgs))
	for k := range msgs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Match returns the loaded language closest to lang.
func (b *Bundle) Match(lang string) string {
	tag, err := language.Parse(lang)
	if err != nil {
		return BaseLanguage
	}
	_, idx, conf := b.matcher.Match(tag)
	if conf == language.No {
		return BaseLanguage
	}
	return b.languages[idx]
}

// Translator returns a translator for the language closest to lang.
func (b *Bundle) Translator(lang string) *Translator {
	matched := b.Match(lang)
	return &Translator{
		bundle:  b,
		lang:    matched,
		printer: message.NewPrinter(language.Make(matched), message.Catalog(b.builder)),
		base:    message.NewPrinter(language.Make(BaseLanguage), message.Catalog(b.builder)),
	}
}

// Translator formats messages in one language.
type Translator struct {
	bundle  *Bundle
	lang    string
	printer *message.Printer
	base    *message.Printer
}

func (t *Translator) Language() string { return t.lang }

// T formats the message for key with args. A key missing from the language
// falls back to the base language; a key missing everywhere is returned as is.
func (t *Translator) T(key string, args ...any) string {
	if _, ok := t.bundle.messages[t.lang][key]; ok {
		return t.printer.Sprintf(key, args...)
	}
	if _, ok := t.bundle.messages[BaseLanguage][key]; ok {
		return t.base.Sprintf(key, args...)
	}
	return key
}

// P formats the profile variant of key, e.g. P("phases.story_title", "kids")
// reads phases.story_title_kids.
func (t *Translator) P(key, profile string, args ...any) string {
	return t.T(key+"_"+profile, args...)
}

// Has reports whether key resolves in this language or the base language.
func (t *Translator) Has(key string) bool {
	if _, ok := t.bundle.messages[t.lang][key]; ok {
		return true
	}
	_, ok := t.bundle.messages[BaseLanguage][key]
	return ok
}
