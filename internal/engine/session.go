package engine

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/tatianab/crisis-desk/internal/catalog"
	"github.com/tatianab/crisis-desk/internal/models"
)

// Catalog is the read-only content the session plays from.
type Catalog interface {
	ScenarioIDs() []string
	Scenario(id string) (models.Scenario, error)
}

type Phase string

const (
	PhaseStart     Phase = "start"
	PhaseTutorial  Phase = "tutorial"
	PhaseStory     Phase = "story"
	PhaseAdvisors  Phase = "advisors"
	PhaseDecision  Phase = "decision"
	PhaseImmediate Phase = "immediate"
	PhaseDelayed   Phase = "delayed"
	PhaseReport    Phase = "report"
	PhaseEnd       Phase = "end"
)

// hasOutcome reports whether a decision and its result are current.
func (p Phase) hasOutcome() bool {
	return p == PhaseImmediate || p == PhaseDelayed || p == PhaseReport
}

// TrendPoint is one sample of the end-of-run chart.
type TrendPoint struct {
	Step    int
	Final   bool
	Metrics models.Metrics
}

// Session owns the state of one player's run and drives it through the
// phases. It is not safe for concurrent use; callers serialize player input.
type Session struct {
	catalog  Catalog
	balance  models.Balance
	rng      Rand
	logger   *log.Logger
	newID    func() string
	now      func() time.Time
	profile  string
	language string

	phase      Phase
	runID      string
	sequence   []string
	index      int
	scenario   models.Scenario
	metrics    models.Metrics
	resources  models.Resources
	history    []models.Metrics
	before     models.Metrics
	decision   models.Decision
	result     models.TurnResult
	turns      []models.TurnRecord
	finishedAt time.Time
}

type Option func(*Session)

func WithRand(rng Rand) Option {
	return func(s *Session) { s.rng = rng }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithContentLabels records which profile and language the catalog belongs to.
func WithContentLabels(profile, language string) Option {
	return func(s *Session) {
		s.profile = profile
		s.language = language
	}
}

func WithIDGenerator(f func() string) Option {
	return func(s *Session) { s.newID = f }
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func NewSession(c Catalog, b models.Balance, opts ...Option) *Session {
	s := &Session{
		catalog: c,
		balance: b,
		logger:  log.New(io.Discard, "", 0),
		newID:   uuid.NewString,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = NewRand(0)
	}
	s.reset()
	return s
}

func (s *Session) reset() {
	s.phase = PhaseStart
	s.runID = ""
	s.sequence = nil
	s.index = 0
	s.scenario = models.Scenario{}
	s.metrics = s.balance.InitialMetrics
	s.resources = s.balance.InitialResources
	s.history = []models.Metrics{s.balance.InitialMetrics}
	s.before = s.balance.InitialMetrics
	s.clearOutcome()
	s.turns = nil
	s.finishedAt = time.Time{}
}

func (s *Session) clearOutcome() {
	s.decision = models.Decision{}
	s.result = models.TurnResult{}
}

// SetCatalog switches content, e.g. when the player changes profile or
// language. Only allowed before a run starts.
func (s *Session) SetCatalog(c Catalog, profile, language string) error {
	if s.phase != PhaseStart {
		return fmt.Errorf("%w: cannot switch content in %s", ErrInvalidTransition, s.phase)
	}
	s.catalog = c
	s.profile = profile
	s.language = language
	s.reset()
	return nil
}

// Start seeds a new run from the selection (every scenario when empty).
// On error the session stays in the start phase.
func (s *Session) Start(selection []string, tutorial bool) error {
	if s.phase != PhaseStart {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.phase)
	}
	if s.catalog == nil {
		return ErrEmptySelection
	}

	offered := s.catalog.ScenarioIDs()
	if err := checkSelection(offered, selection); err != nil {
		return err
	}

	seq, err := Sequence(s.rng, offered, selection, s.balance.MaxCrises)
	if err != nil {
		return err
	}
	first, err := s.catalog.Scenario(seq[0])
	if err != nil {
		return err
	}

	s.reset()
	s.runID = s.newID()
	s.sequence = seq
	s.scenario = first
	if tutorial {
		s.phase = PhaseTutorial
	} else {
		s.phase = PhaseStory
	}
	s.logger.Printf("run %s: started %s/%s with %v", s.runID, s.profile, s.language, seq)
	return nil
}

func checkSelection(offered, selection []string) error {
	known := make(map[string]bool, len(offered))
	for _, id := range offered {
		known[id] = true
	}
	for _, id := range selection {
		if known[id] {
			continue
		}
		if hint, ok := catalog.Suggest(id, offered); ok {
			return fmt.Errorf("%w: %q (did you mean %q?)", catalog.ErrNotFound, id, hint)
		}
		return fmt.Errorf("%w: %q", catalog.ErrNotFound, id)
	}
	return nil
}

// Continue performs the unconditional transitions of the phase sequence.
func (s *Session) Continue() error {
	switch s.phase {
	case PhaseTutorial:
		s.phase = PhaseStory
	case PhaseStory:
		s.phase = PhaseAdvisors
	case PhaseAdvisors:
		s.phase = PhaseDecision
	case PhaseImmediate:
		s.phase = PhaseDelayed
	case PhaseDelayed:
		s.phase = PhaseReport
	case PhaseReport:
		return s.nextCrisisOrEnd()
	default:
		return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, s.phase)
	}
	return nil
}

func (s *Session) nextCrisisOrEnd() error {
	next := s.index + 1
	if next >= len(s.sequence) {
		s.phase = PhaseEnd
		s.finishedAt = s.now()
		s.logger.Printf("run %s: finished, score %.0f", s.runID, s.Score())
		return nil
	}

	sc, err := s.catalog.Scenario(s.sequence[next])
	if err != nil {
		return err
	}
	s.index = next
	s.scenario = sc
	s.history = append(s.history, s.metrics)
	s.clearOutcome()
	s.phase = PhaseStory
	return nil
}

// Apply resolves the decision against the current scenario. A skipped
// decision is the same as calling Skip.
func (s *Session) Apply(d models.Decision) (models.TurnResult, error) {
	if s.phase != PhaseDecision {
		return models.TurnResult{}, fmt.Errorf("%w: apply in %s", ErrInvalidTransition, s.phase)
	}
	if d.Skipped {
		return s.Skip()
	}
	if err := validateDecision(d); err != nil {
		return models.TurnResult{}, err
	}
	card, ok := s.scenario.Card(d.ActionID)
	if !ok {
		return models.TurnResult{}, fmt.Errorf("%w: %q in %s", ErrUnknownAction, d.ActionID, s.scenario.ID)
	}
	if !s.resources.Covers(card) {
		return models.TurnResult{}, fmt.Errorf("%w: %s costs %d/%d, have %d/%d",
			ErrUnaffordable, card.ID, card.Cost, card.HRCost, s.resources.Budget, s.resources.Personnel)
	}

	d.Safeguards = models.DistinctSafeguards(d.Safeguards)
	res := ResolveAction(s.rng, s.balance, s.metrics, s.resources, card, d.Scope, d.Duration, d.Safeguards)
	s.record(d, card.Name, res)
	s.logger.Printf("run %s: %s resolved with card %s (%s)", s.runID, s.scenario.ID, card.ID, res.Classification)
	return res, nil
}

// Skip resolves the turn without an action.
func (s *Session) Skip() (models.TurnResult, error) {
	if s.phase != PhaseDecision {
		return models.TurnResult{}, fmt.Errorf("%w: skip in %s", ErrInvalidTransition, s.phase)
	}
	res := ResolveSkip(s.metrics, s.resources)
	s.record(models.Decision{Skipped: true}, "", res)
	s.logger.Printf("run %s: %s skipped", s.runID, s.scenario.ID)
	return res, nil
}

func (s *Session) record(d models.Decision, actionName string, res models.TurnResult) {
	s.before = s.metrics
	s.metrics = res.Metrics
	s.resources = res.Resources
	s.decision = d
	s.result = res
	s.turns = append(s.turns, models.TurnRecord{
		ScenarioID:    s.scenario.ID,
		ScenarioTitle: s.scenario.Title,
		ActionName:    actionName,
		Decision:      d,
		Result:        res,
	})
	s.phase = PhaseImmediate
}

func validateDecision(d models.Decision) error {
	if d.ActionID == "" {
		return fmt.Errorf("%w: no action selected", ErrInvalidDecision)
	}
	if !d.Scope.Valid() {
		return fmt.Errorf("%w: scope %q", ErrInvalidDecision, d.Scope)
	}
	if !d.Duration.Valid() {
		return fmt.Errorf("%w: duration %q", ErrInvalidDecision, d.Duration)
	}
	for _, sg := range d.Safeguards {
		if !sg.Valid() {
			return fmt.Errorf("%w: safeguard %q", ErrInvalidDecision, sg)
		}
	}
	return nil
}

// Restart discards the run and returns to the start phase.
func (s *Session) Restart() {
	if s.runID != "" {
		s.logger.Printf("run %s: restarted from %s", s.runID, s.phase)
	}
	s.reset()
}

func (s *Session) Phase() Phase                { return s.phase }
func (s *Session) RunID() string               { return s.runID }
func (s *Session) Profile() string             { return s.profile }
func (s *Session) Language() string            { return s.language }
func (s *Session) Metrics() models.Metrics     { return s.metrics }
func (s *Session) Resources() models.Resources { return s.resources }
func (s *Session) Index() int                  { return s.index }

func (s *Session) Sequence() []string {
	return append([]string(nil), s.sequence...)
}

func (s *Session) History() []models.Metrics {
	return append([]models.Metrics(nil), s.history...)
}

func (s *Session) Turns() []models.TurnRecord {
	return append([]models.TurnRecord(nil), s.turns...)
}

// Scenario returns the crisis being played.
func (s *Session) Scenario() (models.Scenario, bool) {
	if s.phase == PhaseStart || len(s.sequence) == 0 {
		return models.Scenario{}, false
	}
	return s.scenario.Clone(), true
}

// Decision returns the decision of the current crisis once it is resolved.
func (s *Session) Decision() (models.Decision, bool) {
	if !s.phase.hasOutcome() {
		return models.Decision{}, false
	}
	return s.decision, true
}

// Result returns the turn result of the current crisis once it is resolved.
func (s *Session) Result() (models.TurnResult, bool) {
	if !s.phase.hasOutcome() {
		return models.TurnResult{}, false
	}
	return s.result, true
}

// MetricsBefore is the snapshot taken right before the last resolution.
func (s *Session) MetricsBefore() models.Metrics { return s.before }

// ReportBaseline is the snapshot taken when the current crisis began.
func (s *Session) ReportBaseline() models.Metrics {
	if s.index < len(s.history) {
		return s.history[s.index]
	}
	return s.history[len(s.history)-1]
}

func (s *Session) CanAfford(card models.ActionCard) bool {
	return s.resources.Covers(card)
}

// AffordableCards lists the cards of the current scenario the pools can pay for.
func (s *Session) AffordableCards() []models.ActionCard {
	var out []models.ActionCard
	for _, c := range s.scenario.ActionCards {
		if s.resources.Covers(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Session) Score() float64 { return s.metrics.Score() }

// Trend returns every crisis-start snapshot followed by the final state.
func (s *Session) Trend() []TrendPoint {
	out := make([]TrendPoint, 0, len(s.history)+1)
	for i, m := range s.history {
		out = append(out, TrendPoint{Step: i, Metrics: m})
	}
	return append(out, TrendPoint{Step: len(s.history), Final: true, Metrics: s.metrics})
}

// Report summarizes a finished run. It returns false before the end phase.
func (s *Session) Report() (*models.RunReport, bool) {
	if s.phase != PhaseEnd {
		return nil, false
	}
	return &models.RunReport{
		RunID:      s.runID,
		Profile:    s.profile,
		Language:   s.language,
		FinishedAt: s.finishedAt,
		Sequence:   s.Sequence(),
		Turns:      s.Turns(),
		History:    s.History(),
		Final:      s.metrics,
		Resources:  s.resources,
		Score:      s.Score(),
	}, true
}
