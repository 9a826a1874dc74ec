package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"keepsake/internal/api"
)

type jarsPage struct {
	items []api.Jar
	table *table.Table

	loading bool
	err     error
	status  string
	cursor  int

	tableWidth int
	labelWidth int
	descWidth  int
	colorWidth int
	ready      bool
}

func (m jarsPage) Init() tea.Cmd {
	return nil
}

func (m jarsPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ", "enter":
			if m.cursor < len(m.items) {
				name := m.items[m.cursor].Name
				m.err = nil
				m.status = "Picking a song from " + m.items[m.cursor].Label() + "..."
				return m, func() tea.Msg { return playJarMsg{jar: name} }
			}
			return m, nil
		case "r":
			m.err = nil
			m.status = "Picking a song from any jar..."
			return m, func() tea.Msg { return playAnyMsg{} }
		case "a":
			var selected string
			if m.cursor < len(m.items) {
				selected = m.items[m.cursor].Name
			}
			return m, func() tea.Msg { return goToAddMsg{jar: selected} }
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			m.updateTableRows()
			return m, nil
		case "j", "down":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			m.updateTableRows()
			return m, nil
		case "g":
			m.cursor = 0
			m.updateTableRows()
			return m, nil
		case "G":
			m.cursor = max(0, len(m.items)-1)
			m.updateTableRows()
			return m, nil
		}
	case jarsLoadedMsg:
		m.items = msg.jars
		m.loading = false
		m.err = nil
		m.cursor = 0
		m.updateTableRows()
		return m, nil
	case goToJarsMsg:
		m.status = msg.status
		m.err = nil
		return m, nil
	case errMsg:
		m.loading = false
		m.status = ""
		m.err = msg.err
		return m, nil
	case tea.WindowSizeMsg:
		m.configureTable(msg.Width - 2)
		m.ready = true
		return m, tea.ClearScreen
	}

	return m, nil
}

func (m jarsPage) View() string {
	if !m.ready {
		return "...Loading"
	}

	var body string
	switch {
	case m.loading:
		body = "Loading jars..."
	case len(m.items) == 0 && m.err == nil:
		body = "No jars yet"
	case m.table != nil:
		body = m.table.Render()
	}

	help := helpBar([]string{
		"j/k: move",
		"space: play jar",
		"r: random from any jar",
		"a: add song",
		"q: quit",
	})

	return pageLayout(lipgloss.JoinVertical(lipgloss.Left,
		renderMenu(0, m.tableWidth),
		body,
		renderStatus(m.status),
		renderError(m.err),
		help,
	))
}

func (m *jarsPage) updateTableRows() {
	if len(m.items) == 0 {
		m.table = nil
		return
	}

	headers := []string{
		truncateString("Jar", m.labelWidth),
		truncateString("Description", m.descWidth),
		truncateString("Colour", m.colorWidth),
	}

	var rows [][]string
	for _, j := range m.items {
		rows = append(rows, []string{
			truncateString(j.Label(), m.labelWidth),
			truncateString(j.Description, m.descWidth),
			truncateString(j.Color, m.colorWidth),
		})
	}

	m.cursor = min(max(m.cursor, 0), len(rows)-1)

	darkBlue := darkBlue()
	borderStyle := lipgloss.NewStyle().Foreground(darkBlue)
	headerStyle := lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(darkBlue).
		Align(lipgloss.Center)

	items := m.items
	cursor := m.cursor
	m.table = table.New().
		Width(m.tableWidth).
		Border(lipgloss.ThickBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row == cursor {
				return lipgloss.NewStyle().
					Padding(0, 1).
					Background(jarColor(items[row].Color)).
					Foreground(lipgloss.Color("0"))
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
}

// configureTable splits the available width between the columns.
func (m *jarsPage) configureTable(width int) {
	m.tableWidth = width
	m.colorWidth = 9
	borderPaddingWidth := 4 + (3 * 3)
	remaining := width - m.colorWidth - borderPaddingWidth

	m.labelWidth = max(16, remaining*35/100)
	m.descWidth = max(20, remaining-m.labelWidth)

	m.updateTableRows()
}
