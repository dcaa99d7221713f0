package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haggleworks/cartwheel/internal/model"
)

func pickerCandidates() []*model.ProductMatch {
	return []*model.ProductMatch{
		{Product: &model.Product{ID: "p1", Name: "Hoodie"}, VariantLabel: "Red / Large", Score: 0.82},
		{Product: &model.Product{ID: "p2", Name: "Baseball Hat"}, Score: 0.71},
	}
}

func keyPress(m PickerModel, key string) PickerModel {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	updated, _ := m.Update(msg)
	return updated.(PickerModel)
}

func TestPickerSelectsUnderCursor(t *testing.T) {
	m := NewPicker(model.AnalysisResult{}, pickerCandidates())

	m = keyPress(m, "down")
	m = keyPress(m, "enter")

	require.NotNil(t, m.Choice())
	assert.Equal(t, "p2", m.Choice().Product.ID)
	assert.False(t, m.Skipped())
}

func TestPickerCursorStaysInBounds(t *testing.T) {
	m := NewPicker(model.AnalysisResult{}, pickerCandidates())

	m = keyPress(m, "up")
	assert.Equal(t, 0, m.cursor)

	m = keyPress(m, "down")
	m = keyPress(m, "down")
	m = keyPress(m, "down")
	assert.Equal(t, 1, m.cursor)
}

func TestPickerSkip(t *testing.T) {
	m := NewPicker(model.AnalysisResult{}, pickerCandidates())

	m = keyPress(m, "s")

	assert.True(t, m.Skipped())
	assert.Nil(t, m.Choice())
}

func TestPickerViewListsCandidates(t *testing.T) {
	m := NewPicker(model.AnalysisResult{
		TriggerMessage: "I'll take the hoodie",
		Confidence:     0.6,
	}, pickerCandidates())

	view := m.View()
	assert.Contains(t, view, "Hoodie")
	assert.Contains(t, view, "Red / Large")
	assert.Contains(t, view, "Baseball Hat")
}

func TestPickerEmptyCandidates(t *testing.T) {
	m := NewPicker(model.AnalysisResult{}, nil)

	m = keyPress(m, "enter")
	assert.Nil(t, m.Choice())
}
