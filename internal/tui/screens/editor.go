package screens

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmorales/devdiary/internal/config"
	"github.com/jmorales/devdiary/internal/github"
	"github.com/jmorales/devdiary/internal/models"
	"github.com/jmorales/devdiary/internal/progress"
	"github.com/jmorales/devdiary/internal/repository"
)

type editorFocus int

const (
	focusDate editorFocus = iota
	focusBranch
	focusFiles
	focusSummary
	focusLearnings
	focusQuestions
	focusAnswers
)

// Editor creates or edits one daily entry: it aggregates the day's commits
// into a deduplicated file list, lets the operator mark files reviewed and
// write reflections, and saves the result. When editing an existing entry the
// identity fields (date, branch) are locked and no aggregation runs.
type Editor struct {
	db     *sql.DB
	cfg    *config.Config
	width  int
	height int

	projectID int64
	entryID   string // empty = create mode
	project   *models.Project
	existing  *models.DailyEntry

	dateInput   textinput.Model
	branchInput textinput.Model
	summary     textarea.Model
	learnings   textarea.Model
	questions   textarea.Model
	answers     textarea.Model

	files      []models.ChangedFile
	fileCursor int
	focus      editorFocus

	gate     progress.Gate
	fetching bool
	fetchErr error

	saving   bool
	saveErr  error
	fieldErr string
	loading  bool
	err      error
}

func NewEditor(db *sql.DB, cfg *config.Config) *Editor {
	di := textinput.New()
	di.Placeholder = "YYYY-MM-DD"
	di.CharLimit = 10
	di.Width = 12

	bi := textinput.New()
	bi.Placeholder = "branch"
	bi.CharLimit = 100
	bi.Width = 30

	newArea := func(placeholder string) textarea.Model {
		ta := textarea.New()
		ta.Placeholder = placeholder
		ta.SetWidth(60)
		ta.SetHeight(3)
		return ta
	}

	return &Editor{
		db:          db,
		cfg:         cfg,
		dateInput:   di,
		branchInput: bi,
		summary:     newArea("What got done today? (required)"),
		learnings:   newArea("What did you learn?"),
		questions:   newArea("Open questions"),
		answers:     newArea("Answers to earlier questions"),
	}
}

func (e *Editor) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// SetTarget points the editor at a project (create mode) or an existing
// entry (edit mode, entryID non-empty).
func (e *Editor) SetTarget(projectID int64, entryID string) {
	e.projectID = projectID
	e.entryID = entryID
}

type editorLoadedMsg struct {
	project *models.Project
	entry   *models.DailyEntry
	err     error
}

type editorFilesMsg struct {
	gen   uint64
	files []models.ChangedFile
	err   error
}

type editorSavedMsg struct {
	id  string
	err error
}

func (e *Editor) Init() tea.Cmd {
	e.loading = true
	e.err = nil
	e.fetchErr = nil
	e.saveErr = nil
	e.fieldErr = ""
	e.saving = false
	e.fetching = false
	e.files = nil
	e.fileCursor = 0
	e.existing = nil
	return e.loadData
}

func (e *Editor) loadData() tea.Msg {
	project, err := repository.NewProjectRepo(e.db).GetByID(e.projectID)
	if err != nil {
		return editorLoadedMsg{err: err}
	}
	if project == nil {
		return editorLoadedMsg{err: fmt.Errorf("project %d not found", e.projectID)}
	}

	var entry *models.DailyEntry
	if e.entryID != "" {
		entry, err = repository.NewEntryRepo(e.db).GetByID(e.entryID)
		if err != nil {
			return editorLoadedMsg{err: err}
		}
		if entry == nil {
			return editorLoadedMsg{err: fmt.Errorf("entry %s not found", e.entryID)}
		}
	}

	return editorLoadedMsg{project: project, entry: entry}
}

// aggregateCmd issues a generation-tagged aggregation. The result carries
// its generation back so a superseded fetch is dropped instead of applied.
func (e *Editor) aggregateCmd(gen uint64, repoRef, branch string, day time.Time) tea.Cmd {
	token := e.cfg.GitHubToken
	baseURL := e.cfg.APIBaseURL
	return func() tea.Msg {
		ctx := context.Background()
		client, err := github.NewClient(ctx, token, baseURL)
		if err != nil {
			return editorFilesMsg{gen: gen, err: err}
		}

		files, err := progress.NewAggregator(client).AggregateDay(ctx, repoRef, branch, day)
		return editorFilesMsg{gen: gen, files: files, err: err}
	}
}

// startAggregation parses the selection inputs and supersedes any in-flight
// fetch. Invalid dates surface as a field error without issuing a request.
func (e *Editor) startAggregation() tea.Cmd {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(e.dateInput.Value()), time.Local)
	if err != nil {
		e.fieldErr = "date must be YYYY-MM-DD"
		return nil
	}
	branch := strings.TrimSpace(e.branchInput.Value())
	if branch == "" {
		e.fieldErr = "branch is required"
		return nil
	}

	e.fieldErr = ""
	e.fetchErr = nil
	e.fetching = true
	e.files = nil
	e.fileCursor = 0

	gen := e.gate.Next()
	return e.aggregateCmd(gen, e.project.RepoRef(), branch, day)
}

func (e *Editor) saveCmd() tea.Cmd {
	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(e.dateInput.Value()), time.Local)
	if err != nil {
		e.fieldErr = "date must be YYYY-MM-DD"
		return nil
	}
	if strings.TrimSpace(e.summary.Value()) == "" {
		e.fieldErr = "summary is required"
		e.setFocus(focusSummary)
		return nil
	}

	e.fieldErr = ""
	e.saving = true

	entry := &models.DailyEntry{
		ProjectID:    e.projectID,
		Date:         day,
		BranchName:   strings.TrimSpace(e.branchInput.Value()),
		ChangedFiles: e.files,
		Summary:      e.summary.Value(),
		Learnings:    e.learnings.Value(),
		Questions:    e.questions.Value(),
		Answers:      e.answers.Value(),
	}

	db := e.db
	id := e.entryID
	return func() tea.Msg {
		repo := repository.NewEntryRepo(db)
		if id != "" {
			return editorSavedMsg{id: id, err: repo.Update(id, entry)}
		}
		created, err := repo.Create(entry)
		if err != nil {
			return editorSavedMsg{err: err}
		}
		return editorSavedMsg{id: created.ID}
	}
}

func (e *Editor) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case editorLoadedMsg:
		e.loading = false
		e.err = msg.err
		if msg.err != nil {
			return nil
		}
		e.project = msg.project
		e.existing = msg.entry

		if e.existing != nil {
			e.dateInput.SetValue(e.existing.Date.Format("2006-01-02"))
			e.branchInput.SetValue(e.existing.BranchName)
			e.files = e.existing.ChangedFiles
			e.summary.SetValue(e.existing.Summary)
			e.learnings.SetValue(e.existing.Learnings)
			e.questions.SetValue(e.existing.Questions)
			e.answers.SetValue(e.existing.Answers)
			e.setFocus(focusFiles)
			return nil
		}

		e.dateInput.SetValue(time.Now().Format("2006-01-02"))
		branch := e.project.DefaultBranch
		if branch == "" {
			branch = e.cfg.DefaultBranch
		}
		e.branchInput.SetValue(branch)
		e.summary.SetValue("")
		e.learnings.SetValue("")
		e.questions.SetValue("")
		e.answers.SetValue("")
		e.setFocus(focusDate)
		return e.startAggregation()

	case editorFilesMsg:
		if !e.gate.Accept(msg.gen) {
			// A newer selection superseded this fetch.
			return nil
		}
		e.fetching = false
		e.fetchErr = msg.err
		if msg.err != nil {
			e.files = []models.ChangedFile{}
			return nil
		}
		e.files = msg.files
		return nil

	case editorSavedMsg:
		e.saving = false
		if msg.err != nil {
			// Keep the in-progress edits so a retry does not re-enter data.
			e.saveErr = msg.err
			return nil
		}
		return NavigateWithProject("timeline", e.projectID)

	case tea.KeyMsg:
		return e.handleKey(msg)
	}

	return e.updateFocused(msg)
}

func (e *Editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	if e.loading || e.project == nil {
		if msg.String() == "esc" {
			return NavigateWithProject("timeline", e.projectID)
		}
		return nil
	}

	switch msg.String() {
	case "esc":
		return NavigateWithProject("timeline", e.projectID)
	case "ctrl+s":
		if !e.saving {
			return e.saveCmd()
		}
		return nil
	case "tab":
		e.setFocus(e.nextFocus(e.focus, 1))
		return nil
	case "shift+tab":
		e.setFocus(e.nextFocus(e.focus, -1))
		return nil
	}

	switch e.focus {
	case focusDate, focusBranch:
		if msg.String() == "enter" && e.entryID == "" {
			return e.startAggregation()
		}
	case focusFiles:
		switch msg.String() {
		case "up", "k":
			if e.fileCursor > 0 {
				e.fileCursor--
			}
			return nil
		case "down", "j":
			if e.fileCursor < len(e.files)-1 {
				e.fileCursor++
			}
			return nil
		case " ":
			if e.fileCursor < len(e.files) {
				e.files = progress.ToggleReviewed(e.files, e.files[e.fileCursor].Filename)
			}
			return nil
		case "r":
			if e.entryID == "" {
				return e.startAggregation()
			}
			return nil
		}
		return nil
	}

	return e.updateFocused(msg)
}

func (e *Editor) updateFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch e.focus {
	case focusDate:
		if e.entryID == "" {
			e.dateInput, cmd = e.dateInput.Update(msg)
		}
	case focusBranch:
		if e.entryID == "" {
			e.branchInput, cmd = e.branchInput.Update(msg)
		}
	case focusSummary:
		e.summary, cmd = e.summary.Update(msg)
	case focusLearnings:
		e.learnings, cmd = e.learnings.Update(msg)
	case focusQuestions:
		e.questions, cmd = e.questions.Update(msg)
	case focusAnswers:
		e.answers, cmd = e.answers.Update(msg)
	}
	return cmd
}

// nextFocus steps through the focus ring. Answers is only reachable when
// editing an existing entry; date and branch are skipped then, since
// identity is fixed after creation.
func (e *Editor) nextFocus(cur editorFocus, dir int) editorFocus {
	order := []editorFocus{focusDate, focusBranch, focusFiles, focusSummary, focusLearnings, focusQuestions}
	if e.entryID != "" {
		order = []editorFocus{focusFiles, focusSummary, focusLearnings, focusQuestions, focusAnswers}
	}

	idx := 0
	for i, f := range order {
		if f == cur {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(order)) % len(order)
	return order[idx]
}

func (e *Editor) setFocus(f editorFocus) {
	e.focus = f

	e.dateInput.Blur()
	e.branchInput.Blur()
	e.summary.Blur()
	e.learnings.Blur()
	e.questions.Blur()
	e.answers.Blur()

	switch f {
	case focusDate:
		e.dateInput.Focus()
	case focusBranch:
		e.branchInput.Focus()
	case focusSummary:
		e.summary.Focus()
	case focusLearnings:
		e.learnings.Focus()
	case focusQuestions:
		e.questions.Focus()
	case focusAnswers:
		e.answers.Focus()
	}
}

func (e *Editor) View() string {
	var b strings.Builder

	title := "NEW ENTRY"
	if e.entryID != "" {
		title = "EDIT ENTRY"
	}
	if e.project != nil {
		title += ": " + e.project.Name
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if e.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if e.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", e.err)))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[esc] Back"))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Date    %s\n", e.dateInput.View()))
	b.WriteString(fmt.Sprintf("Branch  %s\n\n", e.branchInput.View()))

	e.viewFiles(&b)

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Summary\n%s\n\n", e.summary.View()))
	b.WriteString(fmt.Sprintf("Learnings\n%s\n\n", e.learnings.View()))
	b.WriteString(fmt.Sprintf("Questions\n%s\n", e.questions.View()))
	if e.entryID != "" {
		b.WriteString(fmt.Sprintf("\nAnswers\n%s\n", e.answers.View()))
	}

	if e.fieldErr != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(e.fieldErr))
		b.WriteString("\n")
	}
	if e.saveErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Save failed: %v", e.saveErr)))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("Your edits are kept; [ctrl+s] to retry."))
		b.WriteString("\n")
	}

	help := "[tab] Next section  [space] Toggle reviewed  [ctrl+s] Save  [esc] Cancel"
	if e.entryID == "" {
		help = "[enter] Refetch day  " + help
	}
	b.WriteString(HelpStyle.Render(help))

	return b.String()
}

func (e *Editor) viewFiles(b *strings.Builder) {
	if e.fetching {
		b.WriteString("Fetching commits...\n")
		return
	}

	if e.fetchErr != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Fetch failed: %v", e.fetchErr)))
		b.WriteString("\n")
		b.WriteString(DimStyle.Render("[r] Retry fetch (files section)"))
		b.WriteString("\n")
		return
	}

	if len(e.files) == 0 {
		b.WriteString(DimStyle.Render("No changes this day."))
		b.WriteString("\n")
		return
	}

	reviewed := 0
	for _, f := range e.files {
		if f.Reviewed {
			reviewed++
		}
	}
	b.WriteString(fmt.Sprintf("Changed files (%d/%d reviewed)\n", reviewed, len(e.files)))

	for i, f := range e.files {
		cursor := "  "
		style := NormalStyle
		if e.focus == focusFiles && i == e.fileCursor {
			cursor = "> "
			style = SelectedStyle
		}

		mark := "[ ]"
		if f.Reviewed {
			mark = SuccessStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s%s %s %s %s %s",
			cursor, mark, f.Filename, DimStyle.Render(f.Status),
			AddedStyle.Render(fmt.Sprintf("+%d", f.Additions)),
			DeletedStyle.Render(fmt.Sprintf("-%d", f.Deletions)))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
}
