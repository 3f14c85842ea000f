package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/workhours/internal/aggregate"
	"github.com/sadopc/workhours/internal/store"
	"github.com/sadopc/workhours/internal/timecalc"
)

const (
	formAddEmployer    = "add_employer"
	formRenameEmployer = "rename_employer"
	formDeleteEmployer = "delete_employer"
)

type employersModel struct {
	sh     *shared
	width  int
	height int

	employers []store.Employer
	totals    map[string]aggregate.EmployerTotal
	cursor    int

	formActive bool
	form       *huh.Form
	formType   string
	editingID  int64

	// Form field pointers (survive value copies)
	formName    *string
	formConfirm *bool
}

func newEmployersModel(sh *shared) employersModel {
	name := ""
	confirm := false
	return employersModel{
		sh:          sh,
		formName:    &name,
		formConfirm: &confirm,
	}
}

func (e *employersModel) setSize(w, h int) {
	e.width = w
	e.height = h
}

func (e *employersModel) load() {
	e.employers = e.sh.ws.Employers()
	e.totals = make(map[string]aggregate.EmployerTotal)
	for _, t := range aggregate.ByEmployer(e.sh.ws.Intervals()) {
		e.totals[t.Employer] = t
	}
	e.cursor = clampCursor(e.cursor, len(e.employers))
}

func (e employersModel) selected() (store.Employer, bool) {
	if e.cursor < 0 || e.cursor >= len(e.employers) {
		return store.Employer{}, false
	}
	return e.employers[e.cursor], true
}

func (e employersModel) update(msg tea.Msg) (employersModel, tea.Cmd) {
	if e.formActive && e.form != nil {
		return e.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return e, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if e.cursor > 0 {
			e.cursor--
		}
	case key.Matches(km, keys.Down):
		if e.cursor < len(e.employers)-1 {
			e.cursor++
		}
	case key.Matches(km, keys.New):
		return e.showNameForm(formAddEmployer)
	case key.Matches(km, keys.Edit), key.Matches(km, keys.Enter):
		if _, ok := e.selected(); ok {
			return e.showNameForm(formRenameEmployer)
		}
	case key.Matches(km, keys.Delete):
		if _, ok := e.selected(); ok {
			return e.showDeleteForm()
		}
	}
	return e, nil
}

func (e employersModel) showNameForm(formType string) (employersModel, tea.Cmd) {
	e.formType = formType
	*e.formName = ""
	e.editingID = 0
	if formType == formRenameEmployer {
		emp, _ := e.selected()
		*e.formName = emp.Name
		e.editingID = emp.ID
	}

	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Employer name").Value(e.formName).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("required")
				}
				return nil
			}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	e.formActive = true
	return e, e.form.Init()
}

func (e employersModel) showDeleteForm() (employersModel, tea.Cmd) {
	emp, _ := e.selected()
	e.formType = formDeleteEmployer
	e.editingID = emp.ID
	*e.formConfirm = false

	n := e.totals[emp.Name].Entries
	e.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", emp.Name)).
				Description(fmt.Sprintf("Its %d entries will be deleted too.", n)).
				Affirmative("Delete").
				Negative("Cancel").
				Value(e.formConfirm),
		),
	).WithShowHelp(false)

	e.formActive = true
	return e, e.form.Init()
}

func (e employersModel) updateForm(msg tea.Msg) (employersModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		e.formActive = false
		e.form = nil
		return e, nil
	}

	form, cmd := e.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		e.form = f
	}

	if e.form.State == huh.StateCompleted {
		e.formActive = false
		e.form = nil
		return e, e.submit()
	}
	return e, cmd
}

func (e employersModel) submit() tea.Cmd {
	sh := e.sh
	name, id := *e.formName, e.editingID
	switch e.formType {
	case formAddEmployer:
		return mutate("Employer added", func() error {
			_, err := sh.ws.AddEmployer(sh.ctx, name)
			return err
		})
	case formRenameEmployer:
		return mutate("Employer renamed", func() error {
			_, err := sh.ws.RenameEmployer(sh.ctx, id, name)
			return err
		})
	case formDeleteEmployer:
		if !*e.formConfirm {
			return nil
		}
		return mutate("Employer deleted", func() error {
			_, err := sh.ws.RemoveEmployer(sh.ctx, id)
			return err
		})
	}
	return nil
}

func (e employersModel) view() string {
	st := e.sh.styles
	w := e.width - 4

	if e.formActive && e.form != nil {
		titles := map[string]string{
			formAddEmployer:    "New Employer",
			formRenameEmployer: "Rename Employer",
			formDeleteEmployer: "Delete Employer",
		}
		return st.panel.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, st.title.Render(titles[e.formType]), "", e.form.View()),
		)
	}

	title := st.title.Render("Employers")
	if len(e.employers) == 0 {
		return st.panel.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", st.muted.Render("No employers yet. Press n to create one."),
		))
	}

	rows := []string{title, ""}
	rows = append(rows, st.muted.Render(fmt.Sprintf("  %-24s %8s %10s", "Name", "Entries", "Total")))
	for i, emp := range e.employers {
		t := e.totals[emp.Name]
		cursor := "  "
		style := st.normalItem
		if i == e.cursor {
			cursor = "> "
			style = st.selectedItem
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-24s %8d %10s",
			cursor, truncateName(emp.Name, 24), t.Entries, timecalc.FormatDuration(t.Minutes))))
	}

	rows = append(rows, "")
	rows = append(rows, st.muted.Render("  n: new  e: rename  d: delete"))

	return st.panel.Width(w).Render(strings.Join(rows, "\n"))
}
