// Package ui implements the interactive resource picker.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Choice is one selectable resource.
type Choice struct {
	Address string
	Type    string
	Dir     string
}

type pickerModel struct {
	choices  []Choice
	selected map[int]struct{}
	cursor   int
	aborted  bool
}

func newPickerModel(choices []Choice) pickerModel {
	m := pickerModel{
		choices:  choices,
		selected: make(map[int]struct{}),
	}
	// Everything starts selected; the picker is for excluding.
	for i := range choices {
		m.selected[i] = struct{}{}
	}
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.aborted = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}
		case " ", "x":
			if _, ok := m.selected[m.cursor]; ok {
				delete(m.selected, m.cursor)
			} else {
				m.selected[m.cursor] = struct{}{}
			}
		case "a":
			for i := range m.choices {
				m.selected[i] = struct{}{}
			}
		case "n":
			m.selected = make(map[int]struct{})
		case "enter":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := strings.Builder{}
	s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("? Which resources should be imported?"))
	s.WriteString("\n\n")

	for i, choice := range m.choices {
		cursor := " "
		if m.cursor == i {
			cursor = ">"
		}
		checked := " "
		if _, ok := m.selected[i]; ok {
			checked = "x"
		}
		s.WriteString(fmt.Sprintf("%s [%s] %s\n", cursor, checked, choice.Address))
	}

	s.WriteString("\n(Press [space] to toggle, [a] all, [n] none, [enter] to confirm)\n")
	return s.String()
}

// PickResources shows the multi-select picker and returns the indices
// of the chosen resources. Quitting without confirming selects
// nothing.
func PickResources(choices []Choice) ([]int, error) {
	if len(choices) == 0 {
		return nil, nil
	}
	p := tea.NewProgram(newPickerModel(choices))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	m, ok := final.(pickerModel)
	if !ok || m.aborted {
		return nil, nil
	}
	var picked []int
	for i := range m.choices {
		if _, ok := m.selected[i]; ok {
			picked = append(picked, i)
		}
	}
	return picked, nil
}
