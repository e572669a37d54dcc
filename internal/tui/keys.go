package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/tatianab/crisis-desk/internal/engine"
	"github.com/tatianab/crisis-desk/internal/i18n"
)

type keyMap struct {
	Quit    key.Binding
	Restart key.Binding
	Next    key.Binding

	// start screen
	Profile  key.Binding
	Language key.Binding
	Toggle   key.Binding
	Start    key.Binding
	Tutorial key.Binding

	// decision screen
	Card         key.Binding
	Targeted     key.Binding
	General      key.Binding
	Short        key.Binding
	Medium       key.Binding
	Long         key.Binding
	Transparency key.Binding
	Appeal       key.Binding
	Sunset       key.Binding
	Apply        key.Binding
	Skip         key.Binding

	// end screen
	Again key.Binding
	Leave key.Binding

	Scroll key.Binding
}

var numberKeys = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}

func newKeyMap(tr *i18n.Translator) keyMap {
	return keyMap{
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", tr.T("keys.quit"))),
		Restart: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", tr.T("keys.restart"))),
		Next:    key.NewBinding(key.WithKeys("enter", " ", "n"), key.WithHelp("enter", tr.T("keys.next"))),

		Profile:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", tr.T("keys.profile"))),
		Language: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", tr.T("keys.language"))),
		Toggle:   key.NewBinding(key.WithKeys(numberKeys...), key.WithHelp("1-9", tr.T("keys.toggle"))),
		Start:    key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", tr.T("keys.start"))),
		Tutorial: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", tr.T("keys.tutorial"))),

		Card:         key.NewBinding(key.WithKeys(numberKeys...), key.WithHelp("1-9", tr.T("keys.card"))),
		Targeted:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t/g", tr.T("keys.scope"))),
		General:      key.NewBinding(key.WithKeys("g")),
		Short:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s/m/l", tr.T("keys.duration"))),
		Medium:       key.NewBinding(key.WithKeys("m")),
		Long:         key.NewBinding(key.WithKeys("l")),
		Transparency: key.NewBinding(key.WithKeys("x"), key.WithHelp("x/a/u", tr.T("keys.safeguard"))),
		Appeal:       key.NewBinding(key.WithKeys("a")),
		Sunset:       key.NewBinding(key.WithKeys("u")),
		Apply:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", tr.T("keys.apply"))),
		Skip:         key.NewBinding(key.WithKeys("k"), key.WithHelp("k", tr.T("keys.skip"))),

		Again: key.NewBinding(key.WithKeys("r", "enter"), key.WithHelp("r", tr.T("keys.restart"))),
		Leave: key.NewBinding(key.WithKeys("q"), key.WithHelp("q", tr.T("keys.quit"))),

		Scroll: key.NewBinding(key.WithKeys("up", "down", "pgup", "pgdown"), key.WithHelp("↑/↓", tr.T("keys.scroll"))),
	}
}

// phaseHelp is the help.KeyMap of one screen.
type phaseHelp []key.Binding

func (h phaseHelp) ShortHelp() []key.Binding  { return h }
func (h phaseHelp) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (k keyMap) forPhase(p engine.Phase) phaseHelp {
	switch p {
	case engine.PhaseStart:
		return phaseHelp{k.Toggle, k.Profile, k.Language, k.Start, k.Tutorial, k.Quit}
	case engine.PhaseDecision:
		return phaseHelp{k.Card, k.Targeted, k.Short, k.Transparency, k.Apply, k.Skip, k.Restart, k.Quit}
	case engine.PhaseEnd:
		return phaseHelp{k.Scroll, k.Again, k.Leave}
	default:
		return phaseHelp{k.Next, k.Scroll, k.Restart, k.Quit}
	}
}

// scrollKeys limits the viewport to arrow and page keys.
func scrollKeys() viewport.KeyMap {
	return viewport.KeyMap{
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
	}
}
