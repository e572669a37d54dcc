package tui

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/chart"
	"github.com/tatianab/crisis-desk/internal/engine"
	"github.com/tatianab/crisis-desk/internal/i18n"
	"github.com/tatianab/crisis-desk/internal/models"
	"github.com/tatianab/crisis-desk/internal/narrator"
)

// Debriefer writes the end-of-run newspaper piece.
type Debriefer interface {
	Debrief(ctx context.Context, report *models.RunReport) (*narrator.Debrief, error)
}

// Options wires the TUI to its content and services.
type Options struct {
	Library   *catalog.Library
	Locales   *i18n.Bundle
	Balance   models.Balance
	Profile   string
	Language  string
	Selection []string
	Tutorial  bool
	AutoStart bool
	Seed      int64
	Rand      engine.Rand
	ReportDir string
	Narrator  Debriefer
	Logger    *log.Logger
}

const debriefTimeout = 90 * time.Second

type model struct {
	opts    Options
	session *engine.Session
	content *catalog.Catalog
	tr      *i18n.Translator
	keys    keyMap
	help    help.Model

	viewport viewport.Model
	renderer *glamour.TermRenderer
	wrap     int
	width    int
	height   int

	selected map[string]bool
	news     *narrator.NewsFeed

	// decision draft
	cardID     string
	scope      models.Scope
	duration   models.Duration
	safeguards map[models.Safeguard]bool

	status     string
	err        error
	runDir     string
	trendANSI  string

	debrief        *narrator.Debrief
	debriefErr     error
	debriefLoading bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#0F172A")).
			Background(lipgloss.Color("#10B981")).
			Bold(true).
			Padding(0, 1)

	textStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	activeChip = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#064E3B")).
			Bold(true).
			Padding(0, 1)

	chipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CBD5E1")).
			Background(lipgloss.Color("#1E293B")).
			Padding(0, 1)

	missionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#38BDF8")).
			Padding(0, 1)

	quoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94A3B8")).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
)

func newModel(opts Options) (model, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	if opts.Profile == "" {
		opts.Profile = catalog.ProfileAdult
	}
	opts.Language = opts.Locales.Match(opts.Language)

	c, err := opts.Library.Catalog(opts.Profile, opts.Language)
	if err != nil {
		return model{}, err
	}
	rng := opts.Rand
	if rng == nil {
		rng = engine.NewRand(opts.Seed)
	}
	session := engine.NewSession(c, opts.Balance,
		engine.WithRand(rng),
		engine.WithLogger(opts.Logger),
		engine.WithContentLabels(opts.Profile, opts.Language),
	)

	vp := viewport.New(56, 16)
	vp.KeyMap = scrollKeys()

	m := model{
		opts:     opts,
		session:  session,
		content:  c,
		help:     help.New(),
		viewport: vp,
		width:    80,
		height:   24,
		selected: map[string]bool{},
		news:     narrator.NewNewsFeed(narrator.DefaultFeedSize),
	}
	m.setLanguage(opts.Language)
	for _, id := range opts.Selection {
		m.selected[id] = true
	}
	m.news.Reset(m.tr.P("start_screen.welcome", m.profile()))

	if opts.AutoStart {
		m.start(opts.Tutorial)
	}
	m.refresh()
	return m, nil
}

func (m *model) setLanguage(lang string) {
	m.tr = m.opts.Locales.Translator(lang)
	m.keys = newKeyMap(m.tr)
}

func (m model) profile() string { return m.session.Profile() }

func (m model) Init() tea.Cmd {
	return nil
}

type debriefMsg struct {
	runID   string
	debrief *narrator.Debrief
	err     error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Restart) && m.session.Phase() != engine.PhaseStart {
			m.restart()
			return m, nil
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(20, msg.Width*7/10)
		m.viewport.Height = max(5, msg.Height-8)
		m.refresh()
		return m, nil

	case debriefMsg:
		if msg.runID != m.session.RunID() {
			return m, nil
		}
		m.debriefLoading = false
		m.debrief, m.debriefErr = msg.debrief, msg.err
		if msg.err != nil {
			m.opts.Logger.Printf("run %s: debrief failed: %v", msg.runID, msg.err)
		}
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch m.session.Phase() {
	case engine.PhaseStart:
		m.updateStart(msg)
	case engine.PhaseDecision:
		m.updateDecision(msg)
	case engine.PhaseEnd:
		switch {
		case key.Matches(msg, m.keys.Leave):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Again):
			m.restart()
		default:
			m.viewport, _ = m.viewport.Update(msg)
		}
		return m, nil
	default:
		if key.Matches(msg, m.keys.Next) {
			return m.advance()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	m.refresh()
	return m, nil
}

func (m *model) updateStart(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Toggle):
		ids := m.content.ScenarioIDs()
		i := int(msg.String()[0] - '1')
		if i >= 0 && i < len(ids) {
			m.selected[ids[i]] = !m.selected[ids[i]]
		}
	case key.Matches(msg, m.keys.Profile):
		next := catalog.ProfileKids
		if m.profile() == catalog.ProfileKids {
			next = catalog.ProfileAdult
		}
		m.switchContent(next, m.session.Language())
	case key.Matches(msg, m.keys.Language):
		langs := m.opts.Library.Languages(m.profile())
		if len(langs) == 0 {
			return
		}
		i := slices.Index(langs, m.session.Language())
		m.switchContent(m.profile(), langs[(i+1)%len(langs)])
	case key.Matches(msg, m.keys.Tutorial):
		m.start(true)
	case key.Matches(msg, m.keys.Start):
		m.start(false)
	}
}

func (m *model) switchContent(profile, lang string) {
	c, err := m.opts.Library.Catalog(profile, lang)
	if err != nil {
		m.err = err
		return
	}
	if err := m.session.SetCatalog(c, profile, lang); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.content = c
	m.selected = map[string]bool{}
	m.setLanguage(lang)
	m.news.Reset(m.tr.P("start_screen.welcome", profile))
}

func (m *model) start(tutorial bool) {
	var selection, unknown []string
	ids := m.content.ScenarioIDs()
	for _, id := range ids {
		if m.selected[id] {
			selection = append(selection, id)
		}
	}
	for id, on := range m.selected {
		if on && !slices.Contains(ids, id) {
			unknown = append(unknown, id)
		}
	}
	slices.Sort(unknown)
	selection = append(selection, unknown...)
	if err := m.session.Start(selection, tutorial); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.resetDraft()
}

func (m *model) resetDraft() {
	m.cardID = ""
	m.scope = models.ScopeTargeted
	m.duration = models.DurationShort
	m.safeguards = map[models.Safeguard]bool{}
}

func (m model) advance() (tea.Model, tea.Cmd) {
	if err := m.session.Continue(); err != nil {
		m.err = err
		m.refresh()
		return m, nil
	}
	m.err = nil
	var cmd tea.Cmd
	switch m.session.Phase() {
	case engine.PhaseStory:
		m.resetDraft()
	case engine.PhaseEnd:
		cmd = m.finish()
	}
	m.refresh()
	return m, cmd
}

func (m *model) updateDecision(msg tea.KeyMsg) {
	affordable := m.session.AffordableCards()
	if len(affordable) == 0 {
		if key.Matches(msg, m.keys.Skip) || key.Matches(msg, m.keys.Apply) {
			m.skip()
		}
		return
	}

	switch {
	case key.Matches(msg, m.keys.Card):
		sc, _ := m.session.Scenario()
		i := int(msg.String()[0] - '1')
		if i < 0 || i >= len(sc.ActionCards) {
			return
		}
		card := sc.ActionCards[i]
		if !m.session.CanAfford(card) {
			m.status = m.tr.T("decision.unaffordable")
			return
		}
		m.cardID = card.ID
	case key.Matches(msg, m.keys.Targeted):
		m.scope = models.ScopeTargeted
	case key.Matches(msg, m.keys.General):
		m.scope = models.ScopeGeneral
	case key.Matches(msg, m.keys.Short):
		m.duration = models.DurationShort
	case key.Matches(msg, m.keys.Medium):
		m.duration = models.DurationMedium
	case key.Matches(msg, m.keys.Long):
		m.duration = models.DurationLong
	case key.Matches(msg, m.keys.Transparency):
		m.toggleSafeguard(models.SafeguardTransparency)
	case key.Matches(msg, m.keys.Appeal):
		m.toggleSafeguard(models.SafeguardAppeal)
	case key.Matches(msg, m.keys.Sunset):
		m.toggleSafeguard(models.SafeguardSunset)
	case key.Matches(msg, m.keys.Skip):
		m.skip()
	case key.Matches(msg, m.keys.Apply):
		m.apply()
	}
}

func (m *model) toggleSafeguard(s models.Safeguard) {
	m.safeguards[s] = !m.safeguards[s]
}

func (m *model) draft() models.Decision {
	d := models.Decision{ActionID: m.cardID, Scope: m.scope, Duration: m.duration}
	for _, s := range models.AllSafeguards {
		if m.safeguards[s] {
			d.Safeguards = append(d.Safeguards, s)
		}
	}
	return d
}

func (m *model) apply() {
	if m.cardID == "" {
		m.status = m.tr.T("decision.pick_card")
		return
	}
	d := m.draft()
	sc, _ := m.session.Scenario()
	card, _ := sc.Card(d.ActionID)
	res, err := m.session.Apply(d)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.news.Push(narrator.Headlines(res, d, card, m.profile(), m.tr)...)
}

func (m *model) skip() {
	if _, err := m.session.Skip(); err != nil {
		m.err = err
	}
}

func (m *model) restart() {
	m.session.Restart()
	m.resetDraft()
	m.err = nil
	m.status = ""
	m.runDir = ""
	m.trendANSI = ""
	m.debrief, m.debriefErr, m.debriefLoading = nil, nil, false
	m.news.Reset(m.tr.P("start_screen.welcome", m.profile()))
	m.refresh()
}

// finish stores the run report and chart and asks for a debrief.
func (m *model) finish() tea.Cmd {
	report, ok := m.session.Report()
	if !ok {
		return nil
	}
	points := m.trendPoints()
	m.trendANSI = chart.ANSI(chart.Render(points, max(20, m.viewport.Width-2), 24))

	if m.opts.ReportDir != "" {
		dir, err := report.Save(m.opts.ReportDir)
		if err != nil {
			m.status = m.tr.T("report.save_failed", err)
			m.opts.Logger.Printf("run %s: save report: %v", report.RunID, err)
		} else {
			m.runDir = dir
			png := filepath.Join(dir, "trend.png")
			if err := chart.WritePNG(png, chart.Render(points, 640, 320)); err != nil {
				m.opts.Logger.Printf("run %s: write chart: %v", report.RunID, err)
			}
		}
	}

	if m.opts.Narrator == nil {
		return nil
	}
	m.debriefLoading = true
	return requestDebrief(m.opts.Narrator, report)
}

func requestDebrief(n Debriefer, report *models.RunReport) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), debriefTimeout)
		defer cancel()
		d, err := n.Debrief(ctx, report)
		return debriefMsg{runID: report.RunID, debrief: d, err: err}
	}
}

func (m model) trendPoints() []chart.Point {
	trend := m.session.Trend()
	points := make([]chart.Point, 0, len(trend))
	for _, p := range trend {
		label := m.tr.T("report.chart_step", p.Step)
		if p.Final {
			label = m.tr.T("report.chart_final")
		}
		points = append(points, chart.Point{Label: label, Security: p.Metrics.Security, Freedom: p.Metrics.Freedom})
	}
	return points
}

// refresh re-renders the phase body into the viewport.
func (m *model) refresh() {
	m.viewport.SetContent(m.body())
	if m.session.Phase() != engine.PhaseEnd {
		m.viewport.GotoTop()
	}
}

func (m model) View() string {
	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.viewport.View(),
		m.renderPanel(),
	)

	footer := ""
	if m.err != nil {
		footer = errorStyle.Render(m.tr.T("common.error", m.err)) + "\n"
	} else if m.status != "" {
		footer = dimStyle.Render(m.status) + "\n"
	}
	footer += helpStyle.Render(m.help.View(m.keys.forPhase(m.session.Phase())))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		main,
		"",
		footer,
	)
}

// Run starts the program and blocks until the player quits.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (m *model) markdown(text string) string {
	width := max(20, m.viewport.Width-2)
	if m.renderer == nil || m.wrap != width {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
		if err != nil {
			return textStyle.Width(width).Render(text)
		}
		m.renderer, m.wrap = r, width
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return textStyle.Width(width).Render(text)
	}
	return out
}

func signed(v float64) string {
	s := fmt.Sprintf("%+.1f", v)
	switch {
	case v > 0:
		return upStyle.Render(s)
	case v < 0:
		return downStyle.Render(s)
	}
	return dimStyle.Render(s)
}
