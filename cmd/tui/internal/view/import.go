package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/tradedesk/internal/importer"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
)

const importTimeout = 2 * time.Minute

type importStep int

const (
	importStepOptions importStep = iota
	importStepFile
	importStepBusy
	importStepConflicts
	importStepDone
)

const formatAuto = ""

// ImportModel loads a bank remittance file and asks which already recorded references
// should be imported again.
type ImportModel struct {
	CommonModel
	remService    *remittance.Service
	importService *importer.Service

	step    importStep
	options *huh.Form
	picker  filepicker.Model

	pending   []remittance.CreateParams
	conflicts []remittance.Conflict
	resolve   *huh.Form

	message string
	err     error
}

func NewImportModel(remSvc *remittance.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".xlsx", ".xlsm"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		remService:    remSvc,
		importService: impSvc,
		options:       newImportOptionsForm(),
		picker:        fp,
	}
}

func newImportOptionsForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("format").
				Title("File Format").
				Options(
					huh.NewOption("Detect from extension", formatAuto),
					huh.NewOption("CSV", string(importer.FormatCSV)),
					huh.NewOption("Excel", string(importer.FormatXLSX)),
				),
			huh.NewInput().
				Key("bank").
				Title("Receiving Bank").
				Description("Used for rows that do not name a bank"),
		),
	).WithWidth(50).WithShowHelp(false)
}

func newConflictForm(conflicts []remittance.Conflict) *huh.Form {
	opts := make([]huh.Option[int], len(conflicts))

	for i, c := range conflicts {
		in, ex := c.Incoming, c.Existing
		opts[i] = huh.NewOption(fmt.Sprintf("%s  %s %s %s  (recorded %s, %s)",
			in.RemRef, FormatDate(in.RemDate), in.Currency, FormatAmount(in.Instructed),
			FormatDate(ex.RemDate), ex.Status()), i)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Key("reimport").
				Title("These references are already recorded").
				Description("Checked rows are imported anyway; the rest are skipped").
				Options(opts...),
		),
	).WithWidth(100).WithShowHelp(true)
}

func (m ImportModel) Title() string { return "Import Remittances" }

func (m ImportModel) ShortHelp() string {
	if m.step == importStepConflicts {
		return "x/Space: toggle | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.options.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		if m.step == importStepOptions {
			return m, Back
		}

		m = NewImportModel(m.remService, m.importService)

		return m, m.Init()
	}

	switch msg := msg.(type) {
	case parsedMsg:
		if msg.err != nil {
			return m.finish(0, msg.err)
		}

		if len(msg.result.Conflicts) == 0 {
			return m.finish(len(msg.result.Imported), nil)
		}

		m.pending = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.resolve = newConflictForm(m.conflicts)
		m.step = importStepConflicts

		return m, m.resolve.Init()

	case createdMsg:
		return m.finish(msg.count, msg.err)
	}

	switch m.step {
	case importStepOptions:
		return m.updateOptions(msg)
	case importStepFile:
		return m.updateFile(msg)
	case importStepConflicts:
		return m.updateConflicts(msg)
	}

	return m, nil
}

func (m ImportModel) finish(count int, err error) (tea.Model, tea.Cmd) {
	m.step = importStepDone
	m.err = err
	m.message = fmt.Sprintf("Imported %d remittances.", count)

	return m, nil
}

func (m ImportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.options.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.options = f
	}

	if m.options.State != huh.StateCompleted {
		return m, cmd
	}

	m.step = importStepFile

	return m, m.picker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	didSelect, path := m.picker.DidSelectFile(msg)
	if !didSelect {
		return m, cmd
	}

	m.step = importStepBusy
	m.message = "Reading " + filepath.Base(path) + "..."

	return m, m.parseCmd(path)
}

func (m ImportModel) updateConflicts(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.resolve.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.resolve = f
	}

	if m.resolve.State != huh.StateCompleted {
		return m, cmd
	}

	chosen, _ := m.resolve.Get("reimport").([]int)

	params := append([]remittance.CreateParams(nil), m.pending...)
	for _, i := range chosen {
		params = append(params, m.conflicts[i].Incoming)
	}

	m.step = importStepBusy
	m.message = "Saving..."

	return m, m.createCmd(params)
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case importStepOptions:
		return pad.Render(m.options.View())
	case importStepFile:
		return pad.Render("Select remittance file:\n\n" + m.picker.View())
	case importStepBusy:
		return pad.Render(m.message)
	case importStepConflicts:
		return pad.Render(m.resolve.View())
	case importStepDone:
		if m.err != nil {
			return pad.Render(errorStyle.Render("Error: "+m.err.Error()) + "\n\n(Esc to start over)")
		}

		return pad.Render(successStyle.Render(m.message) + "\n\n(Esc to start over)")
	}

	return ""
}

type parsedMsg struct {
	result *remittance.ImportResult
	err    error
}

type createdMsg struct {
	count int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	format := importer.Format(m.options.GetString("format"))
	if format == formatAuto {
		format = importer.FormatFromFilename(path)
	}

	bank := strings.TrimSpace(m.options.GetString("bank"))

	return func() tea.Msg {
		if format == formatAuto {
			return parsedMsg{err: errors.New("cannot tell the format of " + filepath.Base(path))}
		}

		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(format, f)
		if err != nil {
			return parsedMsg{err: err}
		}

		for i := range params {
			if params[i].Bank == "" {
				params[i].Bank = bank
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.remService.ImportBatch(ctx, params)

		return parsedMsg{result: result, err: err}
	}
}

func (m ImportModel) createCmd(params []remittance.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		rems, err := m.remService.CreateBatch(ctx, params)

		return createdMsg{count: len(rems), err: err}
	}
}
