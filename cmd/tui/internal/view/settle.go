package view

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/tradedesk/internal/matching"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
)

type settleState int

const (
	settleStateLoading settleState = iota
	settleStateAllocate
	settleStatePick
	settleStateForm
	settleStateResult
)

type settleForm int

const (
	settleFormRow settleForm = iota
	settleFormDetails
	settleFormCharges
)

// SettleModel maps one remittance onto outstanding invoices.
type SettleModel struct {
	CommonModel
	settleService   *settlement.Service
	matchingService *matching.Service

	rem   *remittance.Remittance
	alloc settlement.Allocation

	candidates []settlement.Candidate
	buyers     map[uuid.UUID]string

	state    settleState
	current  int
	table    table.Model
	pickList list.Model
	picked   map[int]bool
	form     *huh.Form
	formKind settleForm

	result *settlement.Result
	status string
	err    error
}

func NewSettleModel(settleSvc *settlement.Service, matchSvc *matching.Service, rem *remittance.Remittance) SettleModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Invoice", Width: 14},
			{Title: "Cur", Width: 5},
			{Title: "Value", Width: 14},
			{Title: "Utilized", Width: 14},
			{Title: "Rate", Width: 12},
			{Title: "Realized", Width: 14},
			{Title: "FB Charges", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	return SettleModel{
		settleService:   settleSvc,
		matchingService: matchSvc,
		rem:             rem,
		alloc:           settlement.NewAllocation(*rem),
		buyers:          make(map[uuid.UUID]string),
		table:           t,
		picked:          make(map[int]bool),
	}
}

func (m SettleModel) Title() string { return "Settle " + m.rem.RemRef }

func (m SettleModel) ShortHelp() string {
	switch m.state {
	case settleStatePick:
		return "Space: toggle | Enter: add | Esc: cancel"
	case settleStateForm:
		return "Navigate form | Esc: cancel"
	case settleStateResult:
		return "Esc: back"
	}

	return "a: add invoices | e: edit row | x: remove row | c: settlement | n: new settlement | D: drop settlement | f: charges | [/]: switch | s: submit | Esc: back"
}

func (m SettleModel) Init() tea.Cmd {
	return m.loadCandidatesCmd()
}

func (m SettleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case candidatesMsg:
		m.state = settleStateAllocate
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.candidates = msg.candidates
		for _, c := range msg.candidates {
			m.buyers[c.InvoiceID] = c.BuyerName
		}

		m.refresh()

		return m, nil

	case submitMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = settleStateAllocate

			return m, nil
		}

		m.result = msg.result
		m.state = settleStateResult

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	switch m.state {
	case settleStateAllocate:
		return m.updateAllocate(msg)
	case settleStatePick:
		return m.updatePick(msg)
	case settleStateForm:
		return m.updateForm(msg)
	case settleStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m SettleModel) updateAllocate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	var err error

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "[":
		if m.current > 0 {
			m.current--
		}
	case "]":
		if m.current < len(m.alloc.Settlements)-1 {
			m.current++
		}
	case "n":
		if m.alloc, err = m.alloc.AddSettlement(); err == nil {
			m.current = len(m.alloc.Settlements) - 1
		}
	case "D":
		if m.alloc, err = m.alloc.RemoveSettlement(m.current); err == nil && m.current > 0 {
			m.current--
		}
	case "x":
		m.alloc, err = m.alloc.RemoveRow(m.current, m.table.Cursor())
	case "a":
		return m.enterPick()
	case "e":
		return m.enterRowForm()
	case "c":
		return m.enterDetailsForm()
	case "f":
		return m.enterChargesForm()
	case "s":
		if err := settlement.Validate(m.alloc); err != nil {
			m.err = err
			return m, nil
		}

		m.state = settleStateLoading
		m.status = "Submitting..."

		return m, m.submitCmd()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	m.err = err
	m.refresh()

	return m, nil
}

func (m SettleModel) enterPick() (tea.Model, tea.Cmd) {
	if !m.hasSettlement() {
		return m, nil
	}

	if len(m.candidates) == 0 {
		m.err = errors.New("no outstanding invoices in " + m.rem.Currency)
		return m, nil
	}

	items := make([]list.Item, len(m.candidates))
	for i, c := range m.candidates {
		items[i] = candidateItem{candidate: c, index: i}
	}

	m.picked = make(map[int]bool)
	m.pickList = list.New(items, candidateDelegate{picked: &m.picked}, 90, 20)
	m.pickList.Title = fmt.Sprintf("Outstanding %s invoices", m.rem.Currency)
	m.pickList.SetShowStatusBar(false)
	m.pickList.SetFilteringEnabled(false)
	m.pickList.SetShowHelp(false)
	m.state = settleStatePick

	return m, nil
}

func (m SettleModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = settleStateAllocate
			return m, nil
		case " ":
			idx := m.pickList.Index()
			m.picked[idx] = !m.picked[idx]

			return m, nil
		case "enter":
			var chosen []settlement.Candidate

			for i, c := range m.candidates {
				if m.picked[i] {
					chosen = append(chosen, c)
				}
			}

			var err error
			m.alloc, err = m.alloc.AddInvoices(m.current, chosen)
			m.err = err
			m.state = settleStateAllocate
			m.refresh()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.pickList, cmd = m.pickList.Update(msg)

	return m, cmd
}

func (m SettleModel) hasSettlement() bool {
	return m.current >= 0 && m.current < len(m.alloc.Settlements)
}

func (m SettleModel) enterRowForm() (tea.Model, tea.Cmd) {
	if !m.hasSettlement() {
		return m, nil
	}

	s := m.alloc.Settlements[m.current]

	r := m.table.Cursor()
	if r < 0 || r >= len(s.Rows) {
		return m, nil
	}

	row := s.Rows[r]
	utilized := row.RemittanceUtilized.String()
	rate := ""

	if row.ConvRate != nil {
		rate = row.ConvRate.String()
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("utilized").
			Title(fmt.Sprintf("Utilized (%s)", m.alloc.Currency)).
			Value(&utilized),
	}

	if !row.RateLocked {
		fields = append(fields, huh.NewInput().
			Key("rate").
			Title(fmt.Sprintf("Conversion Rate (%s per %s)", row.InvoiceCurrency, m.alloc.Currency)).
			Value(&rate))
	}

	return m.openForm(settleFormRow, huh.NewGroup(fields...))
}

func (m SettleModel) enterDetailsForm() (tea.Model, tea.Cmd) {
	if !m.hasSettlement() {
		return m, nil
	}

	s := m.alloc.Settlements[m.current]

	credit := s.CreditAmount.String()
	account := s.CreditAccount
	code := s.PurposeCode
	desc := s.PurposeDesc

	return m.openForm(settleFormDetails, huh.NewGroup(
		huh.NewInput().Key("credit").Title("Credit Amount").Value(&credit),
		huh.NewInput().Key("account").Title("Credit Account").Value(&account),
		huh.NewInput().Key("purpose_code").Title("Purpose Code").Value(&code),
		huh.NewInput().Key("purpose_desc").Title("Purpose Description").Value(&desc),
	))
}

func (m SettleModel) enterChargesForm() (tea.Model, tea.Cmd) {
	charges := m.alloc.TotalFbCharges.String()

	return m.openForm(settleFormCharges, huh.NewGroup(
		huh.NewInput().Key("charges").Title("Total Bank Charges").Value(&charges),
	))
}

func (m SettleModel) openForm(kind settleForm, group *huh.Group) (tea.Model, tea.Cmd) {
	m.form = huh.NewForm(group).WithWidth(50).WithShowHelp(false)
	m.formKind = kind
	m.state = settleStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m SettleModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.alloc, m.err = m.applyForm()
	m.closeForm()
	m.refresh()

	return m, nil
}

func (m SettleModel) applyForm() (settlement.Allocation, error) {
	a := m.alloc

	var err error

	switch m.formKind {
	case settleFormRow:
		r := m.table.Cursor()

		a, err = a.EditCell(m.current, r, settlement.FieldUtilized, m.form.GetString("utilized"))
		if err != nil || a.Settlements[m.current].Rows[r].RateLocked {
			return a, err
		}

		return a.EditCell(m.current, r, settlement.FieldConvRate, m.form.GetString("rate"))

	case settleFormDetails:
		if a, err = a.SetCreditAmount(m.current, m.form.GetString("credit")); err != nil {
			return a, err
		}

		return a.SetDetails(m.current, settlement.Details{
			CreditAccount: m.form.GetString("account"),
			PurposeCode:   m.form.GetString("purpose_code"),
			PurposeDesc:   m.form.GetString("purpose_desc"),
		})

	case settleFormCharges:
		return a.SetTotalCharges(m.form.GetString("charges")), nil
	}

	return a, nil
}

func (m *SettleModel) closeForm() {
	m.form = nil
	m.state = settleStateAllocate
	m.table.Focus()
}

func (m *SettleModel) refresh() {
	if m.current >= len(m.alloc.Settlements) {
		m.current = len(m.alloc.Settlements) - 1
	}

	var rows []table.Row

	if m.hasSettlement() {
		for _, r := range m.alloc.Settlements[m.current].Rows {
			rows = append(rows, table.Row{
				r.InvoiceRef,
				r.InvoiceCurrency,
				FormatAmount(r.InvoiceValue),
				FormatAmount(r.RemittanceUtilized),
				FormatRate(r.ConvRate),
				FormatAmount(r.InvoiceRealized),
				FormatAmount(r.FbCharges),
			})
		}
	}

	m.table.SetRows(rows)
}

func (m SettleModel) View() string {
	switch m.state {
	case settleStateLoading:
		status := m.status
		if status == "" {
			status = "Loading outstanding invoices..."
		}

		return lipgloss.NewStyle().Padding(2).Render(status)
	case settleStatePick:
		return lipgloss.NewStyle().Padding(1).Render(m.pickList.View())
	case settleStateResult:
		return m.viewResult()
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		"",
		m.settlementsView(),
		"",
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.state == settleStateForm && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.err != nil {
		content += "\n" + errorStyle.Render(m.err.Error())
	} else if err := settlement.Validate(m.alloc); err != nil {
		content += "\n" + lipgloss.NewStyle().Faint(true).Render("Not ready: "+err.Error())
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n\n" + m.ShortHelp())
}

func (m SettleModel) headerView() string {
	return fmt.Sprintf("%s  %s  %s\nRemitter: %s\nAvailable: %s %s | Bank charges: %s | Unallocated: %s",
		m.rem.RemRef,
		FormatDate(m.rem.RemDate),
		m.rem.Bank,
		m.rem.RemitterName,
		m.alloc.Currency,
		FormatAmount(m.alloc.RemittanceNet),
		FormatAmount(m.alloc.TotalFbCharges),
		FormatAmount(m.alloc.OverallBalance()),
	)
}

func (m SettleModel) settlementsView() string {
	var sb strings.Builder

	for i, s := range m.alloc.Settlements {
		cursor := "  "
		if i == m.current {
			cursor = "> "
		}

		line := fmt.Sprintf("%s#%d  credit %s  available %s  charges %s  [%s]  %s %s",
			cursor, i+1,
			FormatAmount(s.CreditAmount),
			FormatAmount(m.alloc.Available(i)),
			FormatAmount(m.alloc.SettlementCharge(i)),
			m.alloc.SettlementStatus(i),
			s.CreditAccount,
			s.PurposeCode,
		)

		if i == m.current {
			line = activeStyle(line)
		}

		sb.WriteString(line + "\n")
	}

	return sb.String()
}

func (m SettleModel) viewResult() string {
	var sb strings.Builder

	sb.WriteString(successStyle.Render(fmt.Sprintf("Recorded %d IRM lines.", len(m.result.Lines))) + "\n\n")

	for _, l := range m.result.Lines {
		fmt.Fprintf(&sb, "%s  %s  utilized %s  realized %s  charges %s\n",
			l.IrmLine.IrmRef,
			l.InvoiceRef,
			FormatAmount(l.IrmLine.IrmUtilized),
			FormatAmount(l.IrmLine.InvRealized),
			FormatAmount(l.IrmLine.FbChargesRem),
		)
	}

	sb.WriteString("\n(Esc to go back)")

	return lipgloss.NewStyle().Padding(2).Render(sb.String())
}

// soleBuyer returns the buyer every row of the allocation belongs to, or "" when there are
// several or none.
func soleBuyer(a settlement.Allocation, buyers map[uuid.UUID]string) string {
	buyer := ""

	for _, s := range a.Settlements {
		for _, r := range s.Rows {
			b := buyers[r.InvoiceID]
			if b == "" || (buyer != "" && b != buyer) {
				return ""
			}

			buyer = b
		}
	}

	return buyer
}

// Messages

type candidatesMsg struct {
	candidates []settlement.Candidate
	err        error
}

func (m SettleModel) loadCandidatesCmd() tea.Cmd {
	id := m.rem.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		candidates, err := m.settleService.Candidates(ctx, id)

		return candidatesMsg{candidates: candidates, err: err}
	}
}

type submitMsg struct {
	result *settlement.Result
	err    error
}

func (m SettleModel) submitCmd() tea.Cmd {
	id := m.rem.ID
	remitter := m.rem.RemitterName
	draft := settlement.DraftOf(m.alloc)
	buyer := soleBuyer(m.alloc, m.buyers)

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		result, err := m.settleService.Submit(ctx, id, draft)
		if err != nil {
			return submitMsg{err: err}
		}

		if buyer != "" {
			_ = m.matchingService.Learn(ctx, remitter, buyer)
		}

		return submitMsg{result: result}
	}
}

// Candidate list

type candidateItem struct {
	candidate settlement.Candidate
	index     int
}

func (i candidateItem) Title() string       { return i.candidate.InvNumber }
func (i candidateItem) Description() string { return i.candidate.BuyerName }
func (i candidateItem) FilterValue() string { return i.candidate.InvNumber }

type candidateDelegate struct {
	picked *map[int]bool
}

func (d candidateDelegate) Height() int                             { return 1 }
func (d candidateDelegate) Spacing() int                            { return 0 }
func (d candidateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(candidateItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.picked)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	c := item.candidate

	fmt.Fprintf(w, "%s%s %-14s %-12s %-20s %s %s outstanding\n",
		cursor, checkbox,
		c.InvNumber,
		c.SBNumber,
		c.BuyerName,
		c.Currency,
		FormatAmount(c.Outstanding),
	)
}
