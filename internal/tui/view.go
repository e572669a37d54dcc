package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/engine"
	"github.com/tatianab/crisis-desk/internal/models"
	"github.com/tatianab/crisis-desk/internal/narrator"
)

const barWidth = 16

func (m model) renderHeader() string {
	p := m.profile()
	title := m.tr.P("header.title", p)
	if n := len(m.session.Sequence()); n > 0 && m.session.Phase() != engine.PhaseEnd && m.session.Phase() != engine.PhaseTutorial {
		title = m.tr.P("header.counter", p, m.session.Index()+1, n)
	}
	lang := dimStyle.Render(m.tr.T("header.language", strings.ToUpper(m.session.Language())))
	return lipgloss.JoinHorizontal(lipgloss.Center,
		headerStyle.Render(title),
		" ",
		badgeStyle.Render(m.tr.P("header.badge", p)),
		"  ",
		lang,
	)
}

// body renders the scrollable content of the current phase.
func (m *model) body() string {
	switch m.session.Phase() {
	case engine.PhaseStart:
		return m.startView()
	case engine.PhaseTutorial:
		return m.section(m.tr.T("tutorial.title"), m.tr.P("tutorial.desc", m.profile()))
	case engine.PhaseStory:
		return m.storyView()
	case engine.PhaseAdvisors:
		return m.advisorsView()
	case engine.PhaseDecision:
		return m.decisionView()
	case engine.PhaseImmediate:
		return m.immediateView()
	case engine.PhaseDelayed:
		return m.delayedView()
	case engine.PhaseReport:
		return m.reportView()
	case engine.PhaseEnd:
		return m.endView()
	}
	return ""
}

func (m model) section(title, text string) string {
	return titleStyle.Render(title) + "\n\n" + textStyle.Width(max(20, m.viewport.Width-2)).Render(text)
}

func (m model) startView() string {
	p := m.profile()
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.tr.P("header.title", p)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.tr.P("header.subtitle", p)))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Width(max(20, m.viewport.Width-2)).Render(m.tr.P("start_screen.intro_text", p)))
	b.WriteString("\n\n")

	b.WriteString(m.tr.T("start_screen.profile_select") + " ")
	for _, option := range []string{catalog.ProfileAdult, catalog.ProfileKids} {
		style := chipStyle
		if option == p {
			style = activeChip
		}
		b.WriteString(style.Render(m.tr.T("start_screen.profile_" + option)))
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render(m.tr.P("start_screen.scenarios_title", p)))
	b.WriteString("\n")
	picked := false
	for i, id := range m.content.ScenarioIDs() {
		sc, err := m.content.Scenario(id)
		if err != nil {
			continue
		}
		mark := "[ ]"
		if m.selected[id] {
			mark = "[x]"
			picked = true
		}
		fmt.Fprintf(&b, "%d. %s %s %s\n", i+1, mark, sc.Icon, sc.Title)
	}
	if !picked {
		b.WriteString(dimStyle.Render(m.tr.T("start_screen.none_selected")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *model) storyView() string {
	sc, _ := m.session.Scenario()
	report, mission := sc.StorySections(m.content.MissionMarker)

	var b strings.Builder
	b.WriteString(titleStyle.Render(sc.Icon + " " + sc.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.tr.P("phases.story_title", m.profile())))
	b.WriteString("\n")
	b.WriteString(m.markdown(strings.TrimSpace(report)))
	if mission = strings.TrimSpace(mission); mission != "" {
		label := m.tr.T("common.mission")
		if m.profile() == catalog.ProfileKids {
			label = m.tr.T("common.mission_yours")
		}
		box := missionStyle.Width(max(20, m.viewport.Width-4)).Render(lipgloss.NewStyle().Bold(true).Render(label) + "\n" + mission)
		b.WriteString(box)
	}
	return b.String()
}

func (m model) advisorsView() string {
	sc, _ := m.session.Scenario()
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.tr.P("phases.advisors_title", m.profile())))
	b.WriteString("\n\n")
	width := max(20, m.viewport.Width-4)
	for _, a := range sc.Advisors {
		b.WriteString(lipgloss.NewStyle().Bold(true).Render(a.Name))
		b.WriteString("\n")
		b.WriteString(quoteStyle.Width(width).Render("“" + a.Text + "”"))
		b.WriteString("\n\n")
	}
	return b.String()
}

func (m model) decisionView() string {
	p := m.profile()
	sc, _ := m.session.Scenario()
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.tr.P("phases.decision_title", p)))
	b.WriteString("\n\n")

	if len(m.session.AffordableCards()) == 0 {
		b.WriteString(errorStyle.Render(m.tr.P("decision.skip_warning", p)))
		b.WriteString("\n\n")
		b.WriteString(activeChip.Render("k " + m.tr.P("decision.btn_skip", p)))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.tr.P("decision.cards_title", p)))
	b.WriteString("\n")
	for i, card := range sc.ActionCards {
		cost := m.tr.T("decision.cost", card.Cost, card.HRCost)
		line := fmt.Sprintf("%d. %s (%s)", i+1, card.Name, cost)
		switch {
		case !m.session.CanAfford(card):
			line = dimStyle.Render(line + " · " + m.tr.T("decision.unaffordable"))
		case card.ID == m.cardID:
			line = activeChip.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
		if card.Tooltip != "" {
			b.WriteString(dimStyle.Render("   " + card.Tooltip))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.tr.P("decision.settings_title", p)))
	b.WriteString("\n")
	b.WriteString(m.chipRow("scope", []string{string(models.ScopeTargeted), string(models.ScopeGeneral)}, func(v string) bool {
		return v == string(m.scope)
	}))
	b.WriteString(m.chipRow("duration", []string{string(models.DurationShort), string(models.DurationMedium), string(models.DurationLong)}, func(v string) bool {
		return v == string(m.duration)
	}))
	var safeguards []string
	for _, s := range models.AllSafeguards {
		safeguards = append(safeguards, string(s))
	}
	b.WriteString(m.chipRow("safeguards", safeguards, func(v string) bool {
		return m.safeguards[models.Safeguard(v)]
	}))
	b.WriteString("\n")
	b.WriteString(activeChip.Render("⏎ " + m.tr.P("decision.btn_apply", p)))
	b.WriteString("  ")
	b.WriteString(chipStyle.Render("k " + m.tr.P("decision.btn_skip", p)))
	return b.String()
}

func (m model) chipRow(group string, values []string, on func(string) bool) string {
	p := m.profile()
	chipGroup := group
	if group == "safeguards" {
		chipGroup = "safeguard"
	}
	var chips []string
	for _, v := range values {
		style := chipStyle
		if on(v) {
			style = activeChip
		}
		chips = append(chips, style.Render(m.tr.P("chips."+chipGroup+"_"+v, p)))
	}
	label := lipgloss.NewStyle().Width(18).Render(m.tr.P("settings_labels."+group, p))
	return label + strings.Join(chips, " ") + "\n"
}

func (m model) diffLines(from, to models.Metrics) string {
	rows := []struct {
		key    string
		before float64
		after  float64
	}{
		{"metrics.security", from.Security, to.Security},
		{"metrics.freedom", from.Freedom, to.Freedom},
		{"metrics.public_trust", from.PublicTrust, to.PublicTrust},
	}
	var b strings.Builder
	for _, r := range rows {
		label := lipgloss.NewStyle().Width(14).Render(m.tr.T(r.key))
		fmt.Fprintf(&b, "%s %5.1f → %5.1f  %s\n", label, r.before, r.after, signed(r.after-r.before))
	}
	return b.String()
}

func (m model) immediateView() string {
	sc, _ := m.session.Scenario()
	d, _ := m.session.Decision()
	text := m.tr.T("feedback.skip_reason")
	if !d.Skipped {
		name := d.ActionID
		if card, ok := sc.Card(d.ActionID); ok {
			name = card.Name
		}
		text = sc.ImmediateFor(name)
	}
	return m.section(m.tr.P("phases.immediate_title", m.profile()), text) +
		"\n\n" + m.diffLines(m.session.MetricsBefore(), m.session.Metrics())
}

func (m model) delayedView() string {
	sc, _ := m.session.Scenario()
	d, _ := m.session.Decision()
	text := sc.DelayedText
	if d.Skipped {
		text = m.tr.T("phases.delayed_skipped")
	}
	return m.section(m.tr.P("phases.delayed_title", m.profile()), text)
}

func (m model) reportView() string {
	res, _ := m.session.Result()
	text := narrator.Counterfactual(res.Classification, m.profile(), m.tr)
	return m.section(m.tr.P("phases.report_title", m.profile()), text) +
		"\n\n" + m.diffLines(m.session.ReportBaseline(), m.session.Metrics())
}

func (m *model) endView() string {
	p := m.profile()
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.tr.P("phases.end_title", p)))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: %s\n\n", m.tr.T("phases.leadership_score"),
		badgeStyle.Render(fmt.Sprintf("%.0f", m.session.Score())))

	if m.trendANSI != "" {
		b.WriteString(dimStyle.Render(m.tr.T("report.chart_title")))
		b.WriteString("\n")
		b.WriteString(m.trendANSI)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Render("━ " + m.tr.T("metrics.security")))
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6")).Render("━ " + m.tr.T("metrics.freedom")))
		b.WriteString("\n\n")
	}
	if m.runDir != "" {
		b.WriteString(dimStyle.Render(m.tr.T("report.saved", m.runDir)))
		b.WriteString("\n\n")
	}

	switch {
	case m.debriefLoading:
		b.WriteString(dimStyle.Render(m.tr.T("report.debrief_loading")))
	case m.debriefErr != nil:
		b.WriteString(errorStyle.Render(m.tr.T("report.debrief_failed", m.debriefErr)))
	case m.debrief != nil:
		b.WriteString(titleStyle.Render(m.tr.T("report.debrief_title")))
		b.WriteString("\n")
		b.WriteString(m.markdown("## " + m.debrief.Headline + "\n\n" + m.debrief.Column))
		if m.debrief.Verdict != "" {
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.tr.T("report.verdict", m.debrief.Verdict)))
		}
	}
	return b.String()
}

func bar(value, maxValue float64) string {
	if maxValue <= 0 {
		maxValue = 1
	}
	filled := int(value / maxValue * barWidth)
	filled = min(barWidth, max(0, filled))
	color := lipgloss.Color("#10B981")
	switch {
	case value/maxValue < 0.3:
		color = lipgloss.Color("#F87171")
	case value/maxValue < 0.6:
		color = lipgloss.Color("#FBBF24")
	}
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", barWidth-filled))
}

func (m model) renderPanel() string {
	metrics := m.session.Metrics()
	res := m.session.Resources()
	initial := m.opts.Balance.InitialResources

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.tr.T("panel.metrics_title")))
	b.WriteString("\n")
	for _, row := range []struct {
		key   string
		value float64
	}{
		{"metrics.security", metrics.Security},
		{"metrics.freedom", metrics.Freedom},
		{"metrics.public_trust", metrics.PublicTrust},
		{"metrics.resilience", metrics.Resilience},
		{"metrics.fatigue", metrics.Fatigue},
	} {
		fmt.Fprintf(&b, "%-14s %s %3.0f\n", m.tr.T(row.key), bar(row.value, models.MetricMax), row.value)
	}
	if metrics.Fatigue >= 60 {
		b.WriteString(errorStyle.Width(barWidth + 20).Render(m.tr.T("panel.fatigue_warning")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.tr.T("panel.resources_title")))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-14s %s %3d\n", m.tr.T("metrics.budget"), bar(float64(res.Budget), float64(initial.Budget)), res.Budget)
	fmt.Fprintf(&b, "%-14s %s %3d\n", m.tr.T("metrics.hr"), bar(float64(res.Personnel), float64(initial.Personnel)), res.Personnel)

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.tr.T("news.title")))
	b.WriteString("\n")
	for _, item := range m.news.Items() {
		b.WriteString(lipgloss.NewStyle().Width(barWidth + 20).Render("• " + item))
		b.WriteString("\n")
	}
	return panelStyle.Render(b.String())
}
