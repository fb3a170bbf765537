package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"lingua/audio"
	"lingua/capture"
	"lingua/log"
	"lingua/session"
)

// TUI message types
type captureUpdateMsg struct {
	Transcript string
	Warning    string
}
type captureDoneMsg struct {
	Transcript string
	Err        error
}
type translationMsg struct {
	Text string
	Err  error
}
type audioLevelMsg struct{ Level float64 }
type statusMsg struct{ Text string }
type tickMsg time.Time

type tuiState int

const (
	tuiStateIdle tuiState = iota
	tuiStateCapturing
	tuiStateTranslating
)

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Bold(true)
	recStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	idleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	translatedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	helpStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	helpKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Bold(true)
)

type tuiModel struct {
	app *app
	run *captureRun

	state         tuiState
	frame         int
	audioLevel    float64
	warning       string
	status        string
	width, height int
}

func runTUI(a *app, dev audio.CaptureDevice) {
	m := tuiModel{app: a}

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Route the mic level into the model so the meter moves while capturing.
	a.newSource = func() (capture.Source, error) {
		return capture.NewMicSource(dev, func(level float64) {
			p.Send(audioLevelMsg{Level: level})
		})
	}

	if _, err := p.Run(); err != nil {
		log.Errorf("TUI error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// nextUpdate delivers the next loop update, or the final result once the
// update stream closes.
func (m tuiModel) nextUpdate() tea.Cmd {
	run := m.run
	return func() tea.Msg {
		u, ok := <-run.loop.Updates()
		if ok {
			return captureUpdateMsg{Transcript: u.Transcript, Warning: u.Warning}
		}
		res := <-run.result
		return captureDoneMsg{Transcript: res.Transcript, Err: res.Err}
	}
}

func (m tuiModel) translateCmd() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		start := time.Now()
		out, err := a.st.Translate(context.Background(), a.tr)
		if err == nil {
			log.TranslationDone(a.st.Target(), len(out), time.Since(start))
		}
		return translationMsg{Text: out, Err: err}
	}
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case audioLevelMsg:
		if m.state == tuiStateCapturing {
			m.audioLevel = m.audioLevel*0.6 + msg.Level*0.4
		}

	case captureUpdateMsg:
		m.app.st.SetRecognized(msg.Transcript)
		m.warning = msg.Warning
		return m, m.nextUpdate()

	case captureDoneMsg:
		m.state = tuiStateIdle
		m.run = nil
		m.audioLevel = 0
		m.app.st.SetRecognized(msg.Transcript)
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.warning = "Capture ended: " + msg.Err.Error()
		}

	case translationMsg:
		m.state = tuiStateIdle
		if msg.Err != nil {
			m.warning = "Translation failed: " + msg.Err.Error()
		} else {
			m.warning = ""
			m.status = "translated"
		}

	case statusMsg:
		m.status = msg.Text
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.run != nil {
			m.run.stop()
		}
		return m, tea.Quit

	case "r":
		if m.state == tuiStateCapturing {
			m.run.stop()
			return m, nil
		}
		run, err := m.app.startCapture()
		if err != nil {
			m.warning = "Capture failed: " + err.Error()
			return m, nil
		}
		m.run = run
		m.state = tuiStateCapturing
		m.warning = ""
		m.status = ""
		m.audioLevel = 0
		return m, m.nextUpdate()

	case "t":
		if m.state != tuiStateIdle {
			return m, nil
		}
		m.state = tuiStateTranslating
		m.warning = ""
		return m, m.translateCmd()

	case "l":
		if m.state == tuiStateTranslating {
			return m, nil
		}
		m.cycleLanguage()

	case "c":
		if translated := m.app.st.Translated(); translated != "" {
			if err := clipboard.WriteAll(translated); err != nil {
				m.warning = "Copy failed: " + err.Error()
			} else {
				m.status = "copied to clipboard"
			}
		}

	case "e":
		docName, txtName, err := exportFiles(m.app.st)
		if err != nil {
			m.warning = "Export failed: " + err.Error()
		} else {
			m.status = fmt.Sprintf("saved %s and %s", docName, txtName)
		}
	}
	return m, nil
}

func (m *tuiModel) cycleLanguage() {
	langs := session.Languages()
	current := m.app.st.Target()
	next := langs[0]
	for i, l := range langs {
		if l.Code == current {
			next = langs[(i+1)%len(langs)]
			break
		}
	}
	m.app.st.SetTarget(next.Code)
}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	wrapWidth := m.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("lingua "+version) + "\n\n")

	switch m.state {
	case tuiStateCapturing:
		b.WriteString(recStyle.Render("● LISTENING") + " " + levelMeter(m.audioLevel) + "\n")
		b.WriteString(idleStyle.Render("say \""+m.stopPhrase()+"\" or press r to finish") + "\n")
	case tuiStateTranslating:
		b.WriteString(idleStyle.Render("… translating") + "\n")
	default:
		b.WriteString(idleStyle.Render("○ IDLE") + "\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Recognized") + "\n")
	recognized := m.app.st.Recognized()
	if recognized == "" {
		b.WriteString(idleStyle.Render("(nothing yet)") + "\n")
	} else {
		for _, line := range wrapText(recognized, wrapWidth) {
			b.WriteString(textStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n")

	target := m.app.st.Target()
	b.WriteString(titleStyle.Render("Translation ("+session.LanguageName(target)+")") + "\n")
	translated := m.app.st.Translated()
	if translated == "" {
		b.WriteString(idleStyle.Render("(press t to translate)") + "\n")
	} else {
		for _, line := range wrapText(translated, wrapWidth) {
			b.WriteString(translatedStyle.Render(line) + "\n")
		}
	}
	b.WriteString("\n")

	if n := m.app.st.HistoryLen(); n > 0 {
		b.WriteString(idleStyle.Render(fmt.Sprintf("%d translation(s) in history", n)) + "\n")
	}
	if m.warning != "" {
		b.WriteString(warnStyle.Render("⚠ "+m.warning) + "\n")
	}
	if m.status != "" {
		b.WriteString(idleStyle.Render(m.status) + "\n")
	}
	b.WriteString("\n")

	help := []struct{ key, desc string }{
		{"r", "record"},
		{"t", "translate"},
		{"l", "language"},
		{"c", "copy"},
		{"e", "export"},
		{"q", "quit"},
	}
	var hb strings.Builder
	for i, h := range help {
		if i > 0 {
			hb.WriteString(helpStyle.Render("  "))
		}
		hb.WriteString(helpKeyStyle.Render(h.key) + helpStyle.Render(" "+h.desc))
	}
	b.WriteString(hb.String() + "\n")

	return b.String()
}

func (m tuiModel) stopPhrase() string {
	if m.app.cfg.StopPhrase != "" {
		return m.app.cfg.StopPhrase
	}
	return capture.DefaultStopPhrase
}

func levelMeter(level float64) string {
	const width = 20
	filled := int(level * 3 * width)
	if filled > width {
		filled = width
	}
	return textStyle.Render(strings.Repeat("▮", filled) + strings.Repeat("▯", width-filled))
}

func wrapText(text string, width int) []string {
	if len(text) == 0 {
		return []string{""}
	}
	if width <= 0 {
		width = 1
	}

	var lines []string
	for len(text) > width {
		splitAt := width
		for i := width; i > 0; i-- {
			if text[i] == ' ' {
				splitAt = i
				break
			}
		}
		lines = append(lines, text[:splitAt])
		text = strings.TrimLeft(text[splitAt:], " ")
	}
	if len(text) > 0 {
		lines = append(lines, text)
	}
	return lines
}
