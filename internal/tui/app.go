package tui

import (
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmorales/devdiary/internal/config"
	"github.com/jmorales/devdiary/internal/tui/screens"
)

type Screen int

const (
	ScreenProjects Screen = iota
	ScreenTimeline
	ScreenEditor
)

type App struct {
	db            *sql.DB
	cfg           *config.Config
	currentScreen Screen
	width         int
	height        int

	// Screen models
	projects *screens.Projects
	timeline *screens.Timeline
	editor   *screens.Editor

	// Navigation context
	selectedProjectID *int64
	selectedEntryID   *string
}

func NewApp(db *sql.DB, cfg *config.Config) *App {
	return &App{
		db:            db,
		cfg:           cfg,
		currentScreen: ScreenProjects,
	}
}

func (a *App) Init() tea.Cmd {
	a.projects = screens.NewProjects(a.db)
	a.timeline = screens.NewTimeline(a.db)
	a.editor = screens.NewEditor(a.db, a.cfg)

	return a.projects.Init()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.projects.SetSize(msg.Width, msg.Height)
		a.timeline.SetSize(msg.Width, msg.Height)
		a.editor.SetSize(msg.Width, msg.Height)

	case screens.NavigateMsg:
		return a.handleNavigation(msg)
	}

	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenProjects:
		cmd = a.projects.Update(msg)
	case ScreenTimeline:
		cmd = a.timeline.Update(msg)
	case ScreenEditor:
		cmd = a.editor.Update(msg)
	}

	return a, cmd
}

func (a *App) handleNavigation(msg screens.NavigateMsg) (tea.Model, tea.Cmd) {
	if msg.ProjectID != nil {
		a.selectedProjectID = msg.ProjectID
	}
	a.selectedEntryID = msg.EntryID

	switch msg.Screen {
	case "projects":
		a.currentScreen = ScreenProjects
		return a, a.projects.Init()

	case "timeline":
		if a.selectedProjectID == nil {
			a.currentScreen = ScreenProjects
			return a, a.projects.Init()
		}
		a.currentScreen = ScreenTimeline
		a.timeline.SetProject(*a.selectedProjectID)
		return a, a.timeline.Init()

	case "editor":
		if a.selectedProjectID == nil {
			a.currentScreen = ScreenProjects
			return a, a.projects.Init()
		}
		entryID := ""
		if a.selectedEntryID != nil {
			entryID = *a.selectedEntryID
		}
		a.currentScreen = ScreenEditor
		a.editor.SetTarget(*a.selectedProjectID, entryID)
		return a, a.editor.Init()
	}

	return a, nil
}

func (a *App) View() string {
	var content string
	switch a.currentScreen {
	case ScreenProjects:
		content = a.projects.View()
	case ScreenTimeline:
		content = a.timeline.View()
	case ScreenEditor:
		content = a.editor.View()
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// Run starts the TUI application
func Run(db *sql.DB, cfg *config.Config) error {
	app := NewApp(db, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
