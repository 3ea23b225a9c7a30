package view

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type remState int

const (
	remStateTimeframe remState = iota
	remStateList
)

var remStatusFilters = []*status.Remittance{
	nil,
	new(status.RemittanceNoneUtilized),
	new(status.RemittancePartUtilized),
	new(status.RemittanceUtilized),
}

// SettleMsg asks for the settlement screen of a remittance.
type SettleMsg struct {
	Remittance *remittance.Remittance
}

type remItem struct {
	rem *remittance.Remittance
}

func (i remItem) Title() string {
	st := lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("[%s]", i.rem.Status()))

	return fmt.Sprintf("%s  %s  %s %s  %s  %s",
		FormatDate(i.rem.RemDate),
		i.rem.RemRef,
		i.rem.Currency,
		FormatAmount(i.rem.Net),
		st,
		i.rem.RemitterName,
	)
}

func (i remItem) Description() string {
	return fmt.Sprintf("Available: %s | Charges: %s | Bank: %s",
		FormatAmount(i.rem.Available()),
		FormatAmount(i.rem.Charges),
		i.rem.Bank,
	)
}

func (i remItem) FilterValue() string {
	return i.rem.RemRef + " " + i.rem.RemitterName
}

type RemittancesModel struct {
	CommonModel
	remService *remittance.Service

	state           remState
	timeframePicker TimeframePicker
	list            list.Model
	rems            []*remittance.Remittance

	startDate       time.Time
	endDate         time.Time
	allTime         bool
	statusFilterIdx int

	loading bool
	status  string
}

func NewRemittancesModel(remSvc *remittance.Service) RemittancesModel {
	l := list.New([]list.Item{}, remItemDelegate{}, 0, 0)
	l.Title = "Remittances"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(true)

	return RemittancesModel{
		remService:      remSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		list:            l,
	}
}

func (m RemittancesModel) Title() string { return "Remittances" }

func (m RemittancesModel) ShortHelp() string {
	if m.state == remStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Esc: back | Enter: settle | s: status filter | /: filter"
}

func (m RemittancesModel) Init() tea.Cmd {
	return nil
}

func (m RemittancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.startDate = msg.Start
		m.endDate = msg.End
		m.allTime = msg.All
		m.loading = true
		m.state = remStateList

		return m, m.loadRemsCmd()

	case loadRemsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.rems = msg.rems
		m.status = ""
		m.refreshListItems()

		if len(msg.rems) == 0 {
			m.status = "No remittances found."
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-8)

		return m, nil
	}

	switch m.state {
	case remStateTimeframe:
		return m.updateTimeframe(msg)
	case remStateList:
		return m.updateList(msg)
	}

	return m, nil
}

func (m RemittancesModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.timeframePicker, cmd = m.timeframePicker.Update(msg)

	return m, cmd
}

func (m RemittancesModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		switch keyMsg.String() {
		case "esc":
			m.state = remStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(remStatusFilters)
			m.loading = true

			return m, m.loadRemsCmd()
		case "enter":
			selected, ok := m.list.SelectedItem().(remItem)
			if !ok {
				return m, nil
			}

			rem := selected.rem

			return m, func() tea.Msg { return SettleMsg{Remittance: rem} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m RemittancesModel) View() string {
	switch m.state {
	case remStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())

	case remStateList:
		if m.loading {
			return lipgloss.NewStyle().Padding(2).Render("Loading remittances...")
		}

		statusLabel := "All"
		if st := remStatusFilters[m.statusFilterIdx]; st != nil {
			statusLabel = st.Label()
		}

		header := fmt.Sprintf("Filter: [s] Status: %s\n", activeStyle(statusLabel))
		if m.status != "" {
			header += lipgloss.NewStyle().Faint(true).Render(m.status) + "\n"
		}

		return lipgloss.NewStyle().Padding(1).Render(header + m.list.View())
	}

	return ""
}

func (m *RemittancesModel) refreshListItems() {
	items := make([]list.Item, len(m.rems))
	for i, r := range m.rems {
		items[i] = remItem{rem: r}
	}

	m.list.SetItems(items)
}

// Messages

type loadRemsMsg struct {
	rems []*remittance.Remittance
	err  error
}

func (m RemittancesModel) loadRemsCmd() tea.Cmd {
	filter := remittance.ListFilter{Status: remStatusFilters[m.statusFilterIdx]}

	if !m.allTime {
		start, end := m.startDate, m.endDate
		filter.StartDate = &start
		filter.EndDate = &end
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rems, err := m.remService.List(ctx, filter)

		return loadRemsMsg{rems: rems, err: err}
	}
}

type remItemDelegate struct{}

func (d remItemDelegate) Height() int                             { return 2 }
func (d remItemDelegate) Spacing() int                            { return 0 }
func (d remItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d remItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(remItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", lipgloss.NewStyle().Faint(true).Render(i.Description()))
}

// Reload refreshes the list after returning from another screen.
func (m RemittancesModel) Reload() tea.Cmd {
	if m.state != remStateList {
		return nil
	}

	return m.loadRemsCmd()
}
