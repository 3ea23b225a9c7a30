package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

type billsState int

const (
	billsStateBrowse billsState = iota
	billsStateLodge
)

var billStatusFilters = []*status.Bill{
	nil,
	new(status.BillOutstanding),
	new(status.BillLodged),
	new(status.BillPartRealized),
	new(status.BillRealized),
}

type BillsModel struct {
	CommonModel
	billService *bill.Service

	state billsState
	table table.Model
	bills []*bill.ShippingBill
	form  *huh.Form

	statusFilterIdx int
	dateFilterIdx   int

	filter  bill.ListFilter
	loading bool
	err     error
	status  string
}

func NewBillsModel(billSvc *bill.Service) BillsModel {
	columns := []table.Column{
		{Title: "SB Number", Width: 14},
		{Title: "SB Date", Width: 12},
		{Title: "Buyer", Width: 24},
		{Title: "Lodgement", Width: 14},
		{Title: "FOB", Width: 14},
		{Title: "Outstanding", Width: 14},
		{Title: "Status", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return BillsModel{
		billService: billSvc,
		table:       t,
	}
}

func (m BillsModel) Title() string { return "Shipping Bills" }

func (m BillsModel) ShortHelp() string {
	if m.state == billsStateLodge {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | l: lodge | s: status filter | d: date filter | r: refresh"
}

func (m BillsModel) Init() tea.Cmd {
	return m.loadBillsCmd()
}

func (m BillsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBillsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.bills = msg.bills
		m.refreshTable()

		return m, nil

	case lodgeResultMsg:
		m.status = "Lodgement saved."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = billsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadBillsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil
	}

	switch m.state {
	case billsStateBrowse:
		return m.updateBrowse(msg)
	case billsStateLodge:
		return m.updateLodge(msg)
	}

	return m, nil
}

func (m BillsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadBillsCmd()
		case "l":
			return m.enterLodgeMode()
		case "s":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(billStatusFilters)
			m.applyFilter(time.Now())

			return m, m.loadBillsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % 3
			m.applyFilter(time.Now())

			return m, m.loadBillsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BillsModel) enterLodgeMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return m, nil
	}

	b := m.bills[idx]
	number := b.LodgementNo
	date := FormatDate(time.Now())

	if b.LodgementDate != nil {
		date = FormatDate(*b.LodgementDate)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("lodgement_no").
				Title("Lodgement Number").
				Value(&number).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("lodgement number cannot be empty")
					}

					return nil
				}),

			huh.NewInput().
				Key("lodgement_date").
				Title("Lodgement Date").
				Placeholder("YYYY-MM-DD").
				Value(&date).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("invalid date (YYYY-MM-DD)")
					}

					return nil
				}),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = billsStateLodge
	m.table.Blur()

	return m, m.form.Init()
}

func (m BillsModel) updateLodge(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = billsStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.lodgeCmd()
}

func (m BillsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading bills...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	statusLabel := "All"
	if st := billStatusFilters[m.statusFilterIdx]; st != nil {
		statusLabel = st.Label()
	}

	dateLabels := []string{"All Time", "This Month", "Last Month"}

	header := fmt.Sprintf(
		"Filter: [s] Status: %s | [d] SB Date: %s",
		activeStyle(statusLabel),
		activeStyle(dateLabels[m.dateFilterIdx]),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == billsStateLodge && m.form != nil {
		sb := ""
		if idx := m.table.Cursor(); idx >= 0 && idx < len(m.bills) {
			sb = m.bills[idx].SBNumber
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Lodge Bill %s\n\n%s", sb, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *BillsModel) applyFilter(now time.Time) {
	m.filter.Status = billStatusFilters[m.statusFilterIdx]

	switch m.dateFilterIdx {
	case 1:
		s := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	case 2:
		s := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		e := s.AddDate(0, 1, 0).Add(-time.Nanosecond)
		m.filter.StartDate = &s
		m.filter.EndDate = &e
	default:
		m.filter.StartDate = nil
		m.filter.EndDate = nil
	}
}

func billRow(b *bill.ShippingBill) table.Row {
	sum := bill.SummarizeBill(*b)

	sbNumber := b.SBNumber
	if b.Placeholder {
		sbNumber = "(placeholder)"
	}

	return table.Row{
		sbNumber,
		FormatDate(b.SBDate),
		b.BuyerName,
		b.LodgementNo,
		FormatAmount(sum.TotalFob),
		FormatAmount(sum.TotalOutstanding),
		sum.Status.Label(),
	}
}

func (m *BillsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.bills))
	for _, b := range m.bills {
		rows = append(rows, billRow(b))
	}

	m.table.SetRows(rows)
}

// Messages

type loadBillsMsg struct {
	bills []*bill.ShippingBill
	err   error
}

func (m BillsModel) loadBillsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		bills, err := m.billService.List(ctx, filter)

		return loadBillsMsg{bills: bills, err: err}
	}
}

type lodgeResultMsg struct {
	err error
}

func (m BillsModel) lodgeCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.bills) {
		return nil
	}

	id := m.bills[idx].ID
	number := strings.TrimSpace(m.form.GetString("lodgement_no"))

	date, err := time.Parse("2006-01-02", m.form.GetString("lodgement_date"))
	if err != nil {
		return func() tea.Msg { return lodgeResultMsg{err: err} }
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return lodgeResultMsg{err: m.billService.Lodge(ctx, id, number, date)}
	}
}
