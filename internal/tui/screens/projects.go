package screens

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jmorales/devdiary/internal/repository"
)

type projectsMode int

const (
	projectsModeList projectsMode = iota
	projectsModeAdd
	projectsModeEdit
	projectsModeDelete
)

const (
	fieldName = iota
	fieldOwner
	fieldRepo
	fieldBranch
	fieldCount
)

type Projects struct {
	db     *sql.DB
	width  int
	height int

	projects   []repository.ProjectWithStats
	cursor     int
	mode       projectsMode
	inputs     []textinput.Model
	inputFocus int
	loading    bool
	err        error
	message    string
}

func NewProjects(db *sql.DB) *Projects {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 100
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldName].Placeholder = "Project name"
	inputs[fieldOwner].Placeholder = "Repo owner"
	inputs[fieldRepo].Placeholder = "Repo name"
	inputs[fieldBranch].Placeholder = "Default branch (main)"

	return &Projects{
		db:     db,
		inputs: inputs,
	}
}

func (p *Projects) SetSize(width, height int) {
	p.width = width
	p.height = height
}

type projectsDataMsg struct {
	projects []repository.ProjectWithStats
	err      error
}

func (p *Projects) Init() tea.Cmd {
	p.loading = true
	p.mode = projectsModeList
	p.message = ""
	return p.loadData
}

func (p *Projects) loadData() tea.Msg {
	projects, err := repository.NewProjectRepo(p.db).GetAllWithStats()
	return projectsDataMsg{projects: projects, err: err}
}

func (p *Projects) Update(msg tea.Msg) tea.Cmd {
	// In form mode, pass messages to the focused input first
	if p.mode == projectsModeAdd || p.mode == projectsModeEdit {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "enter":
				return p.handleFormSubmit()
			case "tab", "down":
				p.focusInput((p.inputFocus + 1) % fieldCount)
				return nil
			case "shift+tab", "up":
				p.focusInput((p.inputFocus + fieldCount - 1) % fieldCount)
				return nil
			case "esc":
				p.mode = projectsModeList
				p.blurInputs()
				return nil
			}
		}
		var cmd tea.Cmd
		p.inputs[p.inputFocus], cmd = p.inputs[p.inputFocus].Update(msg)
		return cmd
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		p.loading = false
		p.err = msg.err
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = 0
		}
		return nil

	case RefreshMsg:
		return p.Init()

	case tea.KeyMsg:
		return p.handleKey(msg)
	}

	return nil
}

func (p *Projects) handleKey(msg tea.KeyMsg) tea.Cmd {
	if p.mode == projectsModeDelete {
		switch msg.String() {
		case "y":
			if p.cursor < len(p.projects) {
				if err := repository.NewProjectRepo(p.db).Delete(p.projects[p.cursor].ID); err != nil {
					p.err = err
				}
			}
			p.mode = projectsModeList
			return p.loadData
		case "n", "esc":
			p.mode = projectsModeList
		}
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case "enter":
		if p.cursor < len(p.projects) {
			return NavigateWithProject("timeline", p.projects[p.cursor].ID)
		}
	case "a":
		p.mode = projectsModeAdd
		for i := range p.inputs {
			p.inputs[i].SetValue("")
		}
		p.focusInput(fieldName)
	case "e":
		if p.cursor < len(p.projects) {
			proj := p.projects[p.cursor]
			p.mode = projectsModeEdit
			p.inputs[fieldName].SetValue(proj.Name)
			p.inputs[fieldOwner].SetValue(proj.RepoOwner)
			p.inputs[fieldRepo].SetValue(proj.RepoName)
			p.inputs[fieldBranch].SetValue(proj.DefaultBranch)
			p.focusInput(fieldName)
		}
	case "d":
		if p.cursor < len(p.projects) {
			p.mode = projectsModeDelete
		}
	}
	return nil
}

func (p *Projects) handleFormSubmit() tea.Cmd {
	name := strings.TrimSpace(p.inputs[fieldName].Value())
	owner := strings.TrimSpace(p.inputs[fieldOwner].Value())
	repo := strings.TrimSpace(p.inputs[fieldRepo].Value())
	branch := strings.TrimSpace(p.inputs[fieldBranch].Value())

	if name == "" || owner == "" || repo == "" {
		p.message = "name, owner and repo are required"
		return nil
	}

	projectRepo := repository.NewProjectRepo(p.db)

	var err error
	if p.mode == projectsModeEdit && p.cursor < len(p.projects) {
		err = projectRepo.Update(p.projects[p.cursor].ID, name, owner, repo, branch)
	} else {
		_, err = projectRepo.Create(name, owner, repo, branch)
	}

	if err != nil {
		p.message = fmt.Sprintf("save failed: %v", err)
		return nil
	}

	p.mode = projectsModeList
	p.message = ""
	p.blurInputs()
	return p.loadData
}

func (p *Projects) focusInput(i int) {
	p.inputFocus = i
	for j := range p.inputs {
		if j == i {
			p.inputs[j].Focus()
		} else {
			p.inputs[j].Blur()
		}
	}
}

func (p *Projects) blurInputs() {
	for i := range p.inputs {
		p.inputs[i].Blur()
	}
}

func (p *Projects) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("DEVDIARY"))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("Daily Progress Journal"))
	b.WriteString("\n\n")

	if p.loading {
		b.WriteString("Loading...\n")
		return b.String()
	}

	if p.err != nil {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", p.err)))
		b.WriteString("\n")
	}

	switch p.mode {
	case projectsModeAdd, projectsModeEdit:
		return p.viewForm(&b)
	case projectsModeDelete:
		return p.viewDelete(&b)
	}

	if len(p.projects) == 0 {
		b.WriteString(DimStyle.Render("No projects yet."))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[a] Add project  [ctrl+c] Quit"))
		return b.String()
	}

	for i, proj := range p.projects {
		cursor := "  "
		style := NormalStyle
		if i == p.cursor {
			cursor = "> "
			style = SelectedStyle
		}

		line := fmt.Sprintf("%s%s  %s", cursor, proj.Name, DimStyle.Render(proj.RepoRef()))
		b.WriteString(style.Render(line))
		b.WriteString("\n")

		detail := fmt.Sprintf("    %d entries", proj.EntryCount)
		if proj.LastEntryDate != "" {
			detail += fmt.Sprintf(", last %s", proj.LastEntryDate)
		}
		detail += fmt.Sprintf("  [%s/%s]", proj.Status, proj.Visibility)
		b.WriteString(DimStyle.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[enter] Timeline  [a] Add  [e] Edit  [d] Delete  [ctrl+c] Quit"))

	return b.String()
}

func (p *Projects) viewForm(b *strings.Builder) string {
	if p.mode == projectsModeAdd {
		b.WriteString("Add project:\n\n")
	} else {
		b.WriteString("Edit project:\n\n")
	}

	labels := []string{"Name", "Owner", "Repo", "Branch"}
	for i, label := range labels {
		b.WriteString(fmt.Sprintf("%-8s %s\n", label, p.inputs[i].View()))
	}

	if p.message != "" {
		b.WriteString("\n")
		b.WriteString(WarningStyle.Render(p.message))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("[tab] Next field  [enter] Save  [esc] Cancel"))
	return b.String()
}

func (p *Projects) viewDelete(b *strings.Builder) string {
	if p.cursor < len(p.projects) {
		proj := p.projects[p.cursor]
		b.WriteString(WarningStyle.Render(fmt.Sprintf("Delete %q and all its entries?", proj.Name)))
		b.WriteString("\n\n")
		b.WriteString(HelpStyle.Render("[y] Delete  [n] Cancel"))
	}
	return b.String()
}
