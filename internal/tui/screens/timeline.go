package screens

import (
	"database/sql"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmorales/devdiary/internal/models"
	"github.com/jmorales/devdiary/internal/repository"
	"github.com/jmorales/devdiary/internal/timeline"
)

type Timeline struct {
	db     *sql.DB
	width  int
	height int

	projectID int64
	project   *models.Project
	tl        *timeline.Timeline
	cursor    int
	loading   bool
	err       error
}

func NewTimeline(db *sql.DB) *Timeline {
	return &Timeline{db: db}
}

func (t *Timeline) SetSize(width, height int) {
	t.width = width
	t.height = height
}

func (t *Timeline) SetProject(projectID int64) {
	t.projectID = projectID
}

type timelineDataMsg struct {
	project *models.Project
	tl      *timeline.Timeline
	err     error
}

func (t *Timeline) Init() tea.Cmd {
	t.loading = true
	t.cursor = 0
	return t.loadData
}

func (t *Timeline) loadData() tea.Msg {
	project, err := repository.NewProjectRepo(t.db).GetByID(t.projectID)
	if err != nil {
		return timelineDataMsg{err: err}
	}
	if project == nil {
		return timelineDataMsg{err: fmt.Errorf("project %d not found", t.projectID)}
	}

	entries, err := repository.NewEntryRepo(t.db).GetByProjectID(t.projectID)
	if err != nil {
		return timelineDataMsg{err: err}
	}

	return timelineDataMsg{project: project, tl: timeline.New(entries)}
}

func (t *Timeline) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case timelineDataMsg:
		t.loading = false
		t.err = msg.err
		t.project = msg.project
		t.tl = msg.tl
		return nil

	case RefreshMsg:
		return t.Init()

	case tea.KeyMsg:
		return t.handleKey(msg)
	}

	return nil
}

func (t *Timeline) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if t.cursor > 0 {
			t.cursor--
		}
	case "down", "j":
		if t.tl != nil && t.cursor < t.tl.Len()-1 {
			t.cursor++
		}
	case "enter", " ":
		if t.tl != nil {
			t.tl.Toggle(t.cursor)
		}
	case "n":
		return NavigateWithProject("editor", t.projectID)
	case "e":
		if t.tl != nil {
			if item := t.tl.At(t.cursor); item != nil {
				return NavigateWithEntry("editor", t.projectID, item.Entry.ID)
			}
		}
	case "q", "esc":
		return Navigate("projects")
	}
	return nil
}

func (t *Timeline) View() string {
	var b strings.Builder

	title := "TIMELINE"
	if t.project != nil {
		title = fmt.Sprintf("TIMELINE: %s", t.project.Name)
	}
	b.WriteString(TitleStyle.Render(title))
	b.WriteString("\n\n")

	if t.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if t.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", t.err)))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[q] Back"))
		return b.String()
	}

	if t.tl == nil || t.tl.Len() == 0 {
		b.WriteString(DimStyle.Render("No entries yet."))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[n] New entry  [q] Back"))
		return b.String()
	}

	for i, item := range t.tl.Items() {
		t.renderItem(&b, i, item)
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[enter] Expand/collapse  [n] New entry  [e] Edit  [q] Back"))

	return b.String()
}

func (t *Timeline) renderItem(b *strings.Builder, i int, item timeline.Item) {
	cursor := "  "
	style := NormalStyle
	if i == t.cursor {
		cursor = "> "
		style = SelectedStyle
	}

	marker := "[+]"
	if item.Expanded {
		marker = "[-]"
	}

	e := item.Entry
	header := fmt.Sprintf("%s%s %s  %s  %s",
		cursor, marker, e.Date.Format("2006-01-02"), e.BranchName,
		DimStyle.Render(fmt.Sprintf("%d files", len(e.ChangedFiles))))
	b.WriteString(style.Render(header))
	b.WriteString("\n")

	if !item.Expanded {
		return
	}

	b.WriteString(DimStyle.Render("      " + e.Summary))
	b.WriteString("\n")

	for _, f := range e.ChangedFiles {
		mark := "[ ]"
		if f.Reviewed {
			mark = SuccessStyle.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("      %s %s %s %s %s\n",
			mark, f.Filename, DimStyle.Render(f.Status),
			AddedStyle.Render(fmt.Sprintf("+%d", f.Additions)),
			DeletedStyle.Render(fmt.Sprintf("-%d", f.Deletions))))
	}

	if e.Learnings != "" {
		b.WriteString(DimStyle.Render("      Learned: " + e.Learnings))
		b.WriteString("\n")
	}
	if e.Questions != "" {
		b.WriteString(DimStyle.Render("      Questions: " + e.Questions))
		b.WriteString("\n")
	}
	if e.Answers != "" {
		b.WriteString(DimStyle.Render("      Answers: " + e.Answers))
		b.WriteString("\n")
	}
}
