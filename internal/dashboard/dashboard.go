// Package dashboard is the interactive terminal front end: three numeric
// inputs, an analyze action, and a results panel with the risk status and the
// recommended retention strategy.
//
// The page has two states. Idle waits for the analyze action; Analyzed shows
// the last result. Editing any input drops back to Idle so a stale result is
// never shown next to changed numbers.
package dashboard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rewired-gh/churnoracle/internal/artifact"
	"github.com/rewired-gh/churnoracle/internal/logger"
	"github.com/rewired-gh/churnoracle/internal/models"
	"github.com/rewired-gh/churnoracle/internal/report"
)

// Analyzer is the analysis session the dashboard renders.
type Analyzer interface {
	Analyze(in models.CustomerInput) (*report.Report, error)
	Available() bool
	LoadErr() *artifact.LoadError
}

// State of the page.
type State int

const (
	StateIdle State = iota
	StateAnalyzed
)

const (
	fieldOrders = iota
	fieldSpend
	fieldItems
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Frequency (Total Orders)",
	"Monetary (Total Spend $)",
	"Product Diversity (Unique Items)",
}

// Model is the bubbletea model for the dashboard page.
type Model struct {
	session  Analyzer
	inputs   []textinput.Model
	focus    int
	state    State
	report   *report.Report
	err      error
	fieldErr string
	styles   Styles
	width    int
}

// New creates the dashboard pre-filled with defaults.
func New(session Analyzer, defaults models.CustomerInput, styles Styles) Model {
	values := [fieldCount]string{
		strconv.Itoa(defaults.OrderCount),
		strconv.FormatFloat(defaults.TotalSpend, 'f', 2, 64),
		strconv.Itoa(defaults.UniqueItems),
	}

	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 16
		ti.Width = 20
		ti.SetValue(values[i])
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{
		session: session,
		inputs:  inputs,
		styles:  styles,
		width:   100,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current page state.
func (m Model) State() State {
	return m.state
}

// Report returns the last analysis, or nil.
func (m Model) Report() *report.Report {
	return m.report
}

// Err returns the last analysis failure, or nil.
func (m Model) Err() error {
	return m.err
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case "shift+tab", "up":
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case "enter", "ctrl+a":
			m.analyze()
			return m, nil
		}
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.reset()
	}
	return m, cmd
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[m.focus].Focus()
}

func (m *Model) reset() {
	m.state = StateIdle
	m.report = nil
	m.err = nil
	m.fieldErr = ""
}

// analyze runs one analysis from scratch; nothing from a previous run survives.
func (m *Model) analyze() {
	m.reset()

	in, err := m.collect()
	if err != nil {
		m.fieldErr = err.Error()
		return
	}

	m.state = StateAnalyzed
	r, err := m.session.Analyze(in)
	if err != nil {
		logger.Warn("Dashboard analysis failed: %v", err)
		m.err = err
		return
	}
	m.report = r
}

// collect parses the three inputs and enforces their minimums.
func (m *Model) collect() (models.CustomerInput, error) {
	orders, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldOrders].Value()))
	if err != nil {
		return models.CustomerInput{}, fmt.Errorf("%s must be a whole number", fieldLabels[fieldOrders])
	}
	spend, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldSpend].Value()), 64)
	if err != nil {
		return models.CustomerInput{}, fmt.Errorf("%s must be a number", fieldLabels[fieldSpend])
	}
	items, err := strconv.Atoi(strings.TrimSpace(m.inputs[fieldItems].Value()))
	if err != nil {
		return models.CustomerInput{}, fmt.Errorf("%s must be a whole number", fieldLabels[fieldItems])
	}

	in := models.CustomerInput{OrderCount: orders, TotalSpend: spend, UniqueItems: items}
	if err := in.Validate(); err != nil {
		return models.CustomerInput{}, errors.New(capitalize(err.Error()))
	}
	return in, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("📊 Customer Churn & Retention Strategy Recommender"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Subtitle.Render("Use this tool to identify high-risk customers and get instant retention action plans."))
	sb.WriteString("\n\n")

	if !m.session.Available() {
		sb.WriteString(m.styles.Banner.Render(artifact.UnavailableMessage))
		sb.WriteString("\n\n")
	}

	sb.WriteString(m.styles.Header.Render("Step 1: Input Customer Data"))
	sb.WriteString("\n")
	for i, input := range m.inputs {
		label := m.styles.Label.Render(fieldLabels[i])
		if i == m.focus {
			label = m.styles.Focused.Render(fieldLabels[i])
		}
		sb.WriteString(label + "\n" + input.View() + "\n")
	}
	if m.fieldErr != "" {
		sb.WriteString(m.styles.FieldErr.Render(m.fieldErr) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Hint.Render("[enter] Analyze Customer Risk · [tab] next field · [esc] quit"))
	sb.WriteString("\n")

	if m.state == StateAnalyzed {
		sb.WriteString(m.divider() + "\n")
		sb.WriteString(m.results())
		sb.WriteString("\n")
	}

	sb.WriteString(m.divider() + "\n")
	sb.WriteString(m.styles.Caption.Render("Built with Go, XGBoost, and Bubble Tea | Dataset: UCI Online Retail"))
	return sb.String()
}

func (m Model) results() string {
	if m.err != nil || m.report == nil {
		return m.styles.HighRisk.Render(report.UnavailableMessage)
	}
	r := m.report

	riskStyle := m.styles.LowRisk
	if r.Prediction.Churn {
		riskStyle = m.styles.HighRisk
	}
	risk := m.styles.Card.Render(
		riskStyle.Render("RISK STATUS: "+r.RiskLabel()) + "\n" +
			"Churn Probability: " + r.ProbabilityText(),
	)

	strategyStyle := m.styles.Notice
	if r.Recommendation.Urgent {
		strategyStyle = m.styles.Urgent
	}
	action := m.styles.Card.Render(
		m.styles.Header.Render("💡 Actionable Strategy") + "\n" +
			strategyStyle.Render(r.StrategyLine()) + "\n" +
			r.Recommendation.Action,
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, risk, " ", action)
}

func (m Model) divider() string {
	w := m.width
	if w <= 0 || w > 100 {
		w = 100
	}
	return m.styles.Divider.Render(strings.Repeat("─", w))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
