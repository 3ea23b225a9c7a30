package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Timeframe is a preset date range for bill and remittance listings.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeThisFY
	TimeframeLastFY
	TimeframeAll
	TimeframeCustom
)

var timeframeLabels = [...]string{
	TimeframeThisMonth:   "This Month",
	TimeframeLastMonth:   "Last Month",
	TimeframeThisQuarter: "This Quarter",
	TimeframeThisFY:      "This Financial Year",
	TimeframeLastFY:      "Last Financial Year",
	TimeframeAll:         "All Time",
	TimeframeCustom:      "Custom Range",
}

func (t Timeframe) String() string {
	if t < 0 || int(t) >= len(timeframeLabels) {
		return "Unknown"
	}

	return timeframeLabels[t]
}

// financialYearStart is the month a financial year opens in.
const financialYearStart = time.April

func financialYear(now time.Time) time.Time {
	year := now.Year()
	if now.Month() < financialYearStart {
		year--
	}

	return time.Date(year, financialYearStart, 1, 0, 0, 0, 0, now.Location())
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// timeframeToDateRange resolves a preset against now. All and Custom resolve to zero times.
func timeframeToDateRange(tf Timeframe, now time.Time) (time.Time, time.Time) {
	switch tf {
	case TimeframeThisMonth:
		return monthStart(now), now
	case TimeframeLastMonth:
		start := monthStart(now).AddDate(0, -1, 0)
		return start, start.AddDate(0, 1, -1)
	case TimeframeThisQuarter:
		q := (int(now.Month()) - 1) / 3
		return time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, now.Location()), now
	case TimeframeThisFY:
		return financialYear(now), now
	case TimeframeLastFY:
		end := financialYear(now).AddDate(0, 0, -1)
		return financialYear(end), end
	}

	return time.Time{}, time.Time{}
}

// normalizeDateRange widens a range to whole UTC days.
func normalizeDateRange(start, end time.Time) (time.Time, time.Time) {
	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.UTC)
}

func parseDateRange(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", strings.TrimSpace(startValue))
	if err != nil {
		return start, start, errors.New("invalid start date (YYYY-MM-DD)")
	}

	end, err := time.Parse("2006-01-02", strings.TrimSpace(endValue))
	if err != nil {
		return start, end, errors.New("invalid end date (YYYY-MM-DD)")
	}

	if end.Before(start) {
		return start, end, errors.New("end date is before start date")
	}

	start, end = normalizeDateRange(start, end)

	return start, end, nil
}

// TimeframeSelectedMsg carries the chosen range. Start and End are zero when All is set.
type TimeframeSelectedMsg struct {
	Start time.Time
	End   time.Time
	All   bool
}

// TimeframePicker lets the user choose a preset or type a custom range.
type TimeframePicker struct {
	custom   bool
	cursor   int
	presets  []Timeframe
	inputs   [2]textinput.Model
	focusIdx int

	err error
}

func dateInput(prompt string) textinput.Model {
	in := textinput.New()
	in.Placeholder = "YYYY-MM-DD"
	in.CharLimit = 10
	in.Width = 12
	in.Prompt = prompt

	return in
}

// NewTimeframePicker lists every preset from first onwards.
func NewTimeframePicker(first Timeframe) TimeframePicker {
	var presets []Timeframe
	for tf := first; tf <= TimeframeCustom; tf++ {
		presets = append(presets, tf)
	}

	return TimeframePicker{
		presets: presets,
		inputs:  [2]textinput.Model{dateInput("From: "), dateInput("To:   ")},
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)

	switch {
	case isKey && !m.custom:
		return m.updatePresets(keyMsg)
	case isKey && m.custom:
		return m.updateCustom(keyMsg)
	case m.custom:
		return m.updateInputs(msg)
	}

	return m, nil
}

func (m TimeframePicker) selected() Timeframe {
	return m.presets[m.cursor]
}

func (m TimeframePicker) updatePresets(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case tea.KeyDown:
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case tea.KeyEnter:
		switch tf := m.selected(); tf {
		case TimeframeCustom:
			m.custom = true
			m.focusIdx = 0
			m.inputs[0].Focus()

			return m, textinput.Blink
		case TimeframeAll:
			return m, func() tea.Msg { return TimeframeSelectedMsg{All: true} }
		default:
			start, end := normalizeDateRange(timeframeToDateRange(tf, time.Now()))
			return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end} }
		}
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.inputs[m.focusIdx].Blur()
		m.focusIdx = 1 - m.focusIdx

		return m, m.inputs[m.focusIdx].Focus()
	case "enter":
		start, end, err := parseDateRange(m.inputs[0].Value(), m.inputs[1].Value())
		if err != nil {
			m.err = err
			return m, nil
		}

		m.err = nil

		return m, func() tea.Msg { return TimeframeSelectedMsg{Start: start, End: end} }
	case "esc":
		m.custom = false
		m.err = nil

		return m, nil
	}

	return m.updateInputs(msg)
}

func (m TimeframePicker) updateInputs(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	var cmds [2]tea.Cmd
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}

	return m, tea.Batch(cmds[:]...)
}

func (m TimeframePicker) View() string {
	var sb strings.Builder

	if m.custom {
		fmt.Fprintf(&sb, "Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)",
			m.inputs[0].View(), m.inputs[1].View())
	} else {
		sb.WriteString("Select Timeframe:\n\n")

		for i, tf := range m.presets {
			cursor := " "
			if i == m.cursor {
				cursor = ">"
			}

			fmt.Fprintf(&sb, "%s %s\n", cursor, tf)
		}

		sb.WriteString("\n(Enter to select, Esc to back)")
	}

	if m.err != nil {
		sb.WriteString(errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err)))
	}

	return sb.String()
}

// IsSelecting reports whether the preset list, not the custom range input, has focus.
func (m TimeframePicker) IsSelecting() bool {
	return !m.custom
}

// Reset returns the picker to the first preset.
func (m *TimeframePicker) Reset() {
	m.custom = false
	m.cursor = 0
	m.err = nil

	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
}
