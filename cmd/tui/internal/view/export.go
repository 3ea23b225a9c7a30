package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	"github.com/MrJamesThe3rd/tradedesk/internal/export"
	"github.com/MrJamesThe3rd/tradedesk/internal/status"
)

const (
	exportTimeout    = 2 * time.Minute
	defaultExportDir = "./exports"
	anyStatus        = ""
)

type exportStep int

const (
	exportStepRange exportStep = iota
	exportStepOptions
	exportStepRunning
	exportStepDone
)

// ExportModel writes the realization workbook for a range of shipping bills.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	step    exportStep
	picker  TimeframePicker
	options *huh.Form
	spinner spinner.Model

	filter bill.ListFilter

	file    string
	summary string
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		picker:        NewTimeframePicker(TimeframeThisMonth),
		spinner:       s,
	}
}

func newExportOptionsForm() *huh.Form {
	statuses := []huh.Option[string]{huh.NewOption("Any", anyStatus)}
	for _, st := range []status.Bill{status.BillOutstanding, status.BillLodged, status.BillPartRealized, status.BillRealized} {
		statuses = append(statuses, huh.NewOption(st.Label(), st.Code()))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Key("status").Title("Bill Status").Options(statuses...),
			huh.NewInput().Key("buyer").Title("Buyer").Description("Leave blank for every buyer"),
			huh.NewInput().
				Key("path").
				Title("Output Directory").
				Description("Directory will be created if it doesn't exist").
				Placeholder(defaultExportDir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) Title() string { return "Export Realization Report" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportStepDone:
		return "Esc: back to menu"
	case exportStepRunning:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = bill.ListFilter{}
		if !msg.All {
			m.filter.StartDate = &msg.Start
			m.filter.EndDate = &msg.End
		}

		m.options = newExportOptionsForm()
		m.step = exportStepOptions

		return m, m.options.Init()

	case exportDoneMsg:
		m.step = exportStepDone
		m.file, m.summary, m.err = msg.file, msg.summary, msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			switch m.step {
			case exportStepRange:
				if m.picker.IsSelecting() {
					return m, Back
				}
			case exportStepOptions:
				m.step = exportStepRange
				m.picker.Reset()

				return m, nil
			case exportStepDone:
				return m, Back
			}
		}
	}

	var cmd tea.Cmd

	switch m.step {
	case exportStepRange:
		m.picker, cmd = m.picker.Update(msg)
	case exportStepOptions:
		return m.updateOptions(msg)
	case exportStepRunning:
		m.spinner, cmd = m.spinner.Update(msg)
	}

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.options.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.options = f
	}

	if m.options.State != huh.StateCompleted {
		return m, cmd
	}

	filter := m.filter

	if st, ok := status.ParseBill(m.options.GetString("status")); ok {
		filter.Status = &st
	}

	if buyer := strings.TrimSpace(m.options.GetString("buyer")); buyer != "" {
		filter.Buyer = &buyer
	}

	dir := strings.TrimSpace(m.options.GetString("path"))
	if dir == "" {
		dir = defaultExportDir
	}

	m.step = exportStepRunning

	return m, tea.Batch(m.spinner.Tick, m.exportCmd(filter, dir))
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepRange:
		return pad.Render(m.picker.View())
	case exportStepOptions:
		return pad.Render(m.options.View())
	case exportStepRunning:
		return pad.Render(m.spinner.View() + " Building realization workbook...")
	case exportStepDone:
		if m.err != nil {
			return pad.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
			successStyle.Bold(true).Render("Export Complete!"),
			"",
			"Written to "+m.file,
			"",
			m.summary,
		))
	}

	return ""
}

type exportDoneMsg struct {
	file    string
	summary string
	err     error
}

func (m ExportModel) exportCmd(filter bill.ListFilter, dir string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		items, err := m.exportService.Export(ctx, filter)
		if err != nil {
			return exportDoneMsg{err: err}
		}

		file, err := writeWorkbookFile(m.exportService, items, dir, time.Now())
		if err != nil {
			return exportDoneMsg{err: err}
		}

		return exportDoneMsg{file: file, summary: m.exportService.GenerateSummary(items)}
	}
}

func writeWorkbookFile(svc *export.Service, items []export.Item, dir string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("realization_%s.xlsx", now.Format("20060102_150405")))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating workbook file: %w", err)
	}
	defer f.Close()

	if err := svc.WriteWorkbook(items, f); err != nil {
		return "", err
	}

	return path, nil
}
