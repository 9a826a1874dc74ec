package tui

import (
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"keepsake/internal/forms"
)

const (
	fieldJar = iota
	fieldSong
	fieldArtist
	fieldURL
	fieldAddedBy
	fieldCount
)

var fieldLabels = [fieldCount]string{"Jar", "Song", "Artist", "YouTube link", "Added by"}

type addPage struct {
	width  int
	height int
	err    error
	inputs []textinput.Model
	focus  int
}

func (m addPage) Init() tea.Cmd {
	return nil
}

func (m addPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, func() tea.Msg { return goToJarsMsg{} }
		case tea.KeyEnter:
			cmd := m.submit()
			return m, cmd
		case tea.KeyTab, tea.KeyDown:
			m.setFocus((m.focus + 1) % fieldCount)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			return m, nil
		}
		if len(m.inputs) == 0 {
			return m, nil
		}
		updated, cmd := m.inputs[m.focus].Update(msg)
		m.inputs[m.focus] = updated
		return m, cmd
	case goToAddMsg:
		m.inputs = initializeInputs(msg.jar)
		m.err = nil
		if msg.jar != "" {
			m.setFocus(fieldSong)
		} else {
			m.setFocus(fieldJar)
		}
		return m, textinput.Blink
	case errMsg:
		m.err = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

func initializeInputs(jar string) []textinput.Model {
	placeholders := [fieldCount]string{
		"happy",
		"Never Gonna Give You Up",
		"Rick Astley",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		forms.DefaultAddedBy,
	}
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = placeholders[i]
		in.Width = 50
		inputs[i] = in
	}
	inputs[fieldJar].SetValue(jar)
	return inputs
}

func (m *addPage) setFocus(i int) {
	if len(m.inputs) == 0 {
		return
	}
	m.focus = i
	for j := range m.inputs {
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

func (m *addPage) form() forms.MusicForm {
	value := func(i int) string {
		if i >= len(m.inputs) {
			return ""
		}
		return strings.TrimSpace(m.inputs[i].Value())
	}
	return forms.MusicForm{
		JarType:    value(fieldJar),
		SongName:   value(fieldSong),
		ArtistName: value(fieldArtist),
		YouTubeURL: value(fieldURL),
		AddedBy:    value(fieldAddedBy),
	}
}

func (m *addPage) submit() tea.Cmd {
	f := m.form()
	if err := f.Validate(); err != nil {
		m.err = err
		return nil
	}
	m.err = nil
	req := f.Request()
	return func() tea.Msg { return submitMusicMsg{req: req} }
}

func (m addPage) View() string {
	instructions := lipgloss.NewStyle().
		MarginTop(min(m.height/6, 4)).
		MarginBottom(1).
		Render("Add a song to a jar")

	rows := []string{renderMenu(2, m.width), instructions}
	for i, in := range m.inputs {
		borderColor := lipgloss.Color("8")
		if i == m.focus {
			borderColor = lipgloss.Color("15")
		}
		box := lipgloss.NewStyle().
			Width(52).
			Border(lipgloss.NormalBorder()).
			BorderForeground(borderColor).
			Render(in.View())
		label := lipgloss.NewStyle().Width(14).Render(fieldLabels[i])
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, label, box))
	}

	rows = append(rows,
		renderError(m.err),
		lipgloss.NewStyle().MarginTop(1).Render(helpBar([]string{
			"tab/shift+tab: next/previous field",
			"enter: save",
			"esc: back to jars",
		})),
	)

	return pageLayout(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
