package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/tradedesk/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/tradedesk/internal/bill"
	billStore "github.com/MrJamesThe3rd/tradedesk/internal/bill/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/config"
	"github.com/MrJamesThe3rd/tradedesk/internal/database"
	"github.com/MrJamesThe3rd/tradedesk/internal/export"
	"github.com/MrJamesThe3rd/tradedesk/internal/importer"
	"github.com/MrJamesThe3rd/tradedesk/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/tradedesk/internal/matching/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/remittance"
	remittanceStore "github.com/MrJamesThe3rd/tradedesk/internal/remittance/store"
	"github.com/MrJamesThe3rd/tradedesk/internal/settlement"
	settlementStore "github.com/MrJamesThe3rd/tradedesk/internal/settlement/store"
)

type model struct {
	billService       *bill.Service
	remittanceService *remittance.Service
	matchingService   *matching.Service
	importService     *importer.Service
	exportService     *export.Service
	settleService     *settlement.Service

	currentView View
	width       int
	height      int

	importView      view.ImportModel
	billsView       view.BillsModel
	remittancesView view.RemittancesModel
	settleView      view.SettleModel
	exportView      view.ExportModel
}

type View int

const (
	ViewMenu        View = 0
	ViewImport      View = 1
	ViewBills       View = 2
	ViewRemittances View = 3
	ViewSettle      View = 4
	ViewExport      View = 5
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	billSvc := bill.NewService(billStore.New(db))
	remSvc := remittance.NewService(remittanceStore.New(db))
	matchSvc := matching.NewService(matchingStore.New(db))
	impSvc := importer.NewService()
	expSvc := export.NewService(billSvc)
	settleSvc := settlement.NewService(
		settlementStore.New(db),
		billSvc,
		matchSvc,
		settlement.NewRefGenerator(cfg.Settlement.IrmPrefix),
	)

	return model{
		billService:       billSvc,
		remittanceService: remSvc,
		matchingService:   matchSvc,
		importService:     impSvc,
		exportService:     expSvc,
		settleService:     settleSvc,
		currentView:       ViewMenu,
		importView:        view.NewImportModel(remSvc, impSvc),
		billsView:         view.NewBillsModel(billSvc),
		remittancesView:   view.NewRemittancesModel(remSvc),
		exportView:        view.NewExportModel(expSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) sized(cmd tea.Cmd) tea.Cmd {
	if m.width == 0 {
		return cmd
	}

	size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

	return tea.Batch(cmd, func() tea.Msg { return size })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.remittanceService, m.importService)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewBills
				m.billsView = view.NewBillsModel(m.billService)

				return m, m.sized(m.billsView.Init())
			case "3":
				m.currentView = ViewRemittances
				m.remittancesView = view.NewRemittancesModel(m.remittanceService)

				return m, m.sized(m.remittancesView.Init())
			case "4":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.SettleMsg:
		m.currentView = ViewSettle
		m.settleView = view.NewSettleModel(m.settleService, m.matchingService, msg.Remittance)

		return m, m.settleView.Init()
	case view.BackMsg:
		if m.currentView == ViewSettle {
			m.currentView = ViewRemittances
			return m, m.remittancesView.Reload()
		}

		m.currentView = ViewMenu

		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewBills:
		var newModel tea.Model
		newModel, cmd = m.billsView.Update(msg)
		m.billsView = newModel.(view.BillsModel)
	case ViewRemittances:
		var newModel tea.Model
		newModel, cmd = m.remittancesView.Update(msg)
		m.remittancesView = newModel.(view.RemittancesModel)
	case ViewSettle:
		var newModel tea.Model
		newModel, cmd = m.settleView.Update(msg)
		m.settleView = newModel.(view.SettleModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Tradedesk\n\n" +
				"1. Import Remittances\n" +
				"2. Shipping Bills\n" +
				"3. Remittances & Settlement\n" +
				"4. Export Realization Report\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewBills:
		return m.billsView.View()
	case ViewRemittances:
		return m.remittancesView.View()
	case ViewSettle:
		return m.settleView.View()
	case ViewExport:
		return m.exportView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
