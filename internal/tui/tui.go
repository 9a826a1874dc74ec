package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"keepsake/internal/api"
	"keepsake/internal/jar"
	"keepsake/internal/links"
)

type viewMode int

const (
	jarsView viewMode = iota
	playerView
	addView
)

// MusicAdder submits a new song to a jar.
type MusicAdder interface {
	AddMusic(ctx context.Context, req api.MusicRequest) error
}

// Navigation messages
type goToJarsMsg struct {
	status string
}
type goToAddMsg struct {
	jar string
}

// Requests raised by pages and served by the root page.
type playJarMsg struct {
	jar string
}
type playAnyMsg struct{}
type playAnotherMsg struct{}
type submitMusicMsg struct {
	req api.MusicRequest
}

// Results
type jarsLoadedMsg struct {
	jars []api.Jar
}
type playbackMsg struct {
	playback *jar.Playback
}
type statusMsg struct {
	text string
}
type errMsg struct {
	err error
}

type rootPage struct {
	ctx     context.Context
	session *jar.Session
	adder   MusicAdder

	startJar   string
	viewMode   viewMode
	jarsPage   jarsPage
	playerPage playerPage
	addPage    addPage
	width      int
	height     int
}

// Run opens the music jar player. When startJar is set that jar starts playing right away.
func Run(ctx context.Context, session *jar.Session, adder MusicAdder, startJar string) error {
	m := newRootPage(ctx, session, adder, links.SystemClipboard)
	m.startJar = startJar

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("music jar player: %w", err)
	}
	return nil
}

func newRootPage(ctx context.Context, session *jar.Session, adder MusicAdder, copier links.Copier) rootPage {
	return rootPage{
		ctx:        ctx,
		session:    session,
		adder:      adder,
		jarsPage:   jarsPage{loading: true},
		playerPage: playerPage{copier: copier},
	}
}

func (m rootPage) Init() tea.Cmd {
	if m.startJar == "" {
		return m.loadJars
	}
	start := m.startJar
	return tea.Sequence(m.loadJars, func() tea.Msg { return playJarMsg{jar: start} })
}

func (m rootPage) loadJars() tea.Msg {
	jars, err := m.session.Load(m.ctx)
	if err != nil {
		return errMsg{err}
	}
	return jarsLoadedMsg{jars: jars}
}

func (m rootPage) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case playJarMsg:
		return m, m.play(func(ctx context.Context) (*jar.Playback, error) { return m.session.Select(ctx, msg.jar) })
	case playAnyMsg:
		return m, m.play(m.session.Any)
	case playAnotherMsg:
		return m, m.play(m.session.Another)
	case submitMusicMsg:
		return m, m.submit(msg.req)
	case playbackMsg:
		m.viewMode = playerView
		m.playerPage, cmd = update[playerPage](m.playerPage, msg)
		return m, cmd
	case goToJarsMsg:
		m.viewMode = jarsView
		m.jarsPage, cmd = update[jarsPage](m.jarsPage, msg)
		return m, cmd
	case goToAddMsg:
		m.viewMode = addView
		m.addPage, cmd = update[addPage](m.addPage, msg)
		return m, cmd
	case jarsLoadedMsg:
		m.jarsPage, cmd = update[jarsPage](m.jarsPage, msg)
		return m, cmd
	case tea.WindowSizeMsg:
		var cmds []tea.Cmd

		m.jarsPage, cmd = update[jarsPage](m.jarsPage, msg)
		cmds = append(cmds, cmd)

		m.playerPage, cmd = update[playerPage](m.playerPage, msg)
		cmds = append(cmds, cmd)

		m.addPage, cmd = update[addPage](m.addPage, msg)
		cmds = append(cmds, cmd)

		m.width = msg.Width - 4
		m.height = msg.Height - 4

		return m, tea.Batch(cmds...)
	}

	switch m.viewMode {
	case jarsView:
		m.jarsPage, cmd = update[jarsPage](m.jarsPage, msg)
	case playerView:
		m.playerPage, cmd = update[playerPage](m.playerPage, msg)
	case addView:
		m.addPage, cmd = update[addPage](m.addPage, msg)
	}

	return m, cmd
}

func (m rootPage) play(fn func(ctx context.Context) (*jar.Playback, error)) tea.Cmd {
	return func() tea.Msg {
		pb, err := fn(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		return playbackMsg{playback: pb}
	}
}

func (m rootPage) submit(req api.MusicRequest) tea.Cmd {
	return func() tea.Msg {
		if err := m.adder.AddMusic(m.ctx, req); err != nil {
			return errMsg{err}
		}
		return goToJarsMsg{status: fmt.Sprintf("Added %q to %s", req.SongName, m.session.JarLabel(req.JarType))}
	}
}

func (m rootPage) View() string {
	switch m.viewMode {
	case playerView:
		return m.playerPage.View()
	case addView:
		return m.addPage.View()
	case jarsView:
		return m.jarsPage.View()
	default:
		return "Unknown View"
	}
}

func update[T any](model tea.Model, msg tea.Msg) (T, tea.Cmd) {
	newModel, cmd := model.Update(msg)
	return newModel.(T), cmd
}
