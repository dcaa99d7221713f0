// Package tui provides the interactive candidate picker used by
// analyze --interactive.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/haggleworks/cartwheel/internal/model"
)

// KeyMap defines the picker's keyboard shortcuts.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Skip   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the standard shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C5CFF")).
			MarginBottom(1)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// PickerModel lets the user pick one candidate match with the keyboard.
type PickerModel struct {
	analysis   model.AnalysisResult
	candidates []*model.ProductMatch
	keymap     KeyMap
	cursor     int
	choice     *model.ProductMatch
	skipped    bool
	quitting   bool
}

// NewPicker creates a picker over the given candidates.
func NewPicker(analysis model.AnalysisResult, candidates []*model.ProductMatch) PickerModel {
	return PickerModel{
		analysis:   analysis,
		candidates: candidates,
		keymap:     DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keymap.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keymap.Down):
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keymap.Select):
		if len(m.candidates) > 0 {
			m.choice = m.candidates[m.cursor]
		}
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keymap.Skip):
		m.skipped = true
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keymap.Quit):
		m.skipped = true
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Which product did they mean?"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%q (confidence %.2f)",
		m.analysis.TriggerMessage, m.analysis.Confidence)))
	b.WriteString("\n\n")

	for i, c := range m.candidates {
		label := c.Product.Name
		if c.VariantLabel != "" {
			label += " (" + c.VariantLabel + ")"
		}
		line := fmt.Sprintf("%s  %s", label,
			dimStyle.Render(fmt.Sprintf("score %.2f", c.Score)))

		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ move · enter select · s skip · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Choice returns the picked match, or nil when skipped.
func (m PickerModel) Choice() *model.ProductMatch {
	return m.choice
}

// Skipped reports whether the user declined every candidate.
func (m PickerModel) Skipped() bool {
	return m.skipped
}

// Pick runs the picker to completion and returns the chosen match, nil
// when the user skipped or quit.
func Pick(analysis model.AnalysisResult, candidates []*model.ProductMatch) (*model.ProductMatch, error) {
	program := tea.NewProgram(NewPicker(analysis, candidates))
	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}

	picker, ok := final.(PickerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	return picker.Choice(), nil
}
