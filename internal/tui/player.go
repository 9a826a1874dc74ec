package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"keepsake/internal/jar"
	"keepsake/internal/links"
	"keepsake/internal/youtube"
)

type playerPage struct {
	width    int
	height   int
	viewport viewport.Model
	playback *jar.Playback
	copier   links.Copier
	status   string
	err      error
}

func (m playerPage) Init() tea.Cmd {
	return nil
}

func (m playerPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return m, func() tea.Msg { return goToJarsMsg{} }
		case "n":
			m.status = "Picking another song..."
			m.err = nil
			return m, func() tea.Msg { return playAnotherMsg{} }
		case "c":
			if m.playback == nil {
				return m, nil
			}
			return m, m.copyLink(youtube.WatchURL(m.playback.VideoID))
		case "a":
			var current string
			if m.playback != nil {
				current = m.playback.Music.JarType
			}
			return m, func() tea.Msg { return goToAddMsg{jar: current} }
		case "k":
			m.viewport.ScrollUp(1)
			return m, nil
		case "j":
			m.viewport.ScrollDown(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 4
		m.height = msg.Height - 4
		if m.playback != nil {
			m.viewport = setupViewport(m.width, m.height, m.playback)
		}
		return m, nil
	case playbackMsg:
		m.playback = msg.playback
		m.status = ""
		m.err = nil
		m.viewport = setupViewport(m.width, m.height, m.playback)
		return m, nil
	case statusMsg:
		m.status = msg.text
		return m, nil
	case errMsg:
		m.status = ""
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m playerPage) copyLink(url string) tea.Cmd {
	copier := m.copier
	return func() tea.Msg {
		if err := links.Copy(&links.Link{URL: url}, copier); err != nil {
			return errMsg{err}
		}
		return statusMsg{text: "Copied " + url}
	}
}

func (m playerPage) View() string {
	if m.playback == nil {
		return pageLayout(lipgloss.JoinVertical(lipgloss.Left,
			renderMenu(1, m.width),
			"Nothing playing yet",
			renderError(m.err),
		))
	}

	music := m.playback.Music
	accent := darkBlue()

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(accent)

	titleStyle := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		MarginBottom(1).
		Width(max(10, m.width-8))

	metadataStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")).
		MarginBottom(1)

	title := titleStyle.Render(fmt.Sprintf("♪ %s · %s", music.SongName, music.ArtistName))

	var meta []string
	if m.playback.JarLabel != "" {
		meta = append(meta, "Jar: "+m.playback.JarLabel)
	}
	meta = append(meta, fmt.Sprintf("Plays: %d", m.playback.Plays))
	metadata := metadataStyle.Render(strings.Join(meta, " • "))

	help := helpBar([]string{
		"n: another song",
		"c: copy link",
		"a: add song",
		"j/k: scroll",
		"esc: back to jars",
	})

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		metadata,
		m.viewport.View(),
		renderStatus(m.status),
		renderError(m.err),
	)

	return pageLayout(lipgloss.JoinVertical(lipgloss.Left,
		renderMenu(1, m.width),
		borderStyle.Render(content),
		help,
	))
}

func setupViewport(width, height int, pb *jar.Playback) viewport.Model {
	contentWidth := max(width-4, 20)
	viewportHeight := max(height-12, 5)

	vp := viewport.New(contentWidth, viewportHeight)
	vp.SetContent(renderMarkdown(songCard(pb), contentWidth))
	return vp
}

// songCard describes the playing song as markdown.
func songCard(pb *jar.Playback) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", pb.Music.SongName)
	fmt.Fprintf(&sb, "by **%s**\n\n", pb.Music.ArtistName)
	fmt.Fprintf(&sb, "- Watch: %s\n", youtube.WatchURL(pb.VideoID))
	fmt.Fprintf(&sb, "- Embed: %s\n", pb.EmbedURL)
	fmt.Fprintf(&sb, "- Video ID: `%s`\n", pb.VideoID)
	sb.WriteString("\nOpen the watch link in a browser to listen.\n")
	return sb.String()
}

// renderMarkdown uses Glamour to render markdown content with terminal styling
func renderMarkdown(content string, width int) string {
	if strings.TrimSpace(content) == "" {
		return "No content available"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithWordWrap(width),
		glamour.WithStandardStyle("dark"),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return rendered
}
