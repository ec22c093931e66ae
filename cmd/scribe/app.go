package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scribehq/scribe/pkg/engine"
	"github.com/scribehq/scribe/pkg/modelclient"
	"github.com/scribehq/scribe/pkg/research"
	"github.com/scribehq/scribe/pkg/websearch"
)

type appState int

const (
	stateInput appState = iota
	stateRunning
)

// Messages flowing from the research goroutine into the program.
type (
	deltaMsg  string
	sourceMsg websearch.Result
	doneMsg   struct {
		report  research.Report
		err     error
		elapsed time.Duration
	}
)

type appModel struct {
	ctx      context.Context
	engine   *engine.Engine
	provider string
	deep     bool

	state    appState
	input    textinput.Model
	spin     spinner.Model
	thinking string
	started  time.Time

	// events carries research progress from the run goroutine.
	events chan tea.Msg

	scrollback []string
	streamed   string
	width      int
}

func newAppModel(ctx context.Context, eng *engine.Engine, provider string, deep bool) appModel {
	in := textinput.New()
	in.Placeholder = "topic to research, or /help"
	in.Prompt = topicPrefixStyle.Render("research > ")
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = spinnerStyle

	return appModel{
		ctx:      ctx,
		engine:   eng,
		provider: provider,
		deep:     deep,
		state:    stateInput,
		input:    in,
		spin:     sp,
		events:   make(chan tea.Msg, 64),
		scrollback: []string{
			dimStyle.Render("scribe " + version + " - type a topic to research, /help for commands"),
		},
	}
}

func (m appModel) Init() tea.Cmd {
	return textinput.Blink
}

// waitForEvent returns a command that delivers the next research event.
func (m appModel) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		initMarkdownRenderer(msg.Width - 2)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			if m.state != stateInput {
				return m, nil
			}
			return m.submit(strings.TrimSpace(m.input.Value()))
		}

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case deltaMsg:
		m.streamed += string(msg)
		return m, m.waitForEvent()

	case sourceMsg:
		line := sourceStyle.Render("• " + truncate(msg.URL, 76))
		m.scrollback = append(m.scrollback, line)
		return m, m.waitForEvent()

	case doneMsg:
		return m.finishRun(msg)
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) submit(line string) (tea.Model, tea.Cmd) {
	if line == "" {
		return m, nil
	}
	m.input.Reset()

	if strings.HasPrefix(line, "/") {
		return m.runCommand(line)
	}

	return m.startResearch(line)
}

func (m appModel) startResearch(topic string) (tea.Model, tea.Cmd) {
	m.state = stateRunning
	m.thinking = randomThinkingMessage()
	m.started = time.Now()
	m.streamed = ""
	m.scrollback = append(m.scrollback, topicBlockStyle.Render(topicPrefixStyle.Render("topic: ")+topic))

	deep := m.deep
	go func() {
		start := time.Now()
		report, err := m.engine.Research(m.ctx, topic, engine.ResearchOptions{
			Provider: m.provider,
			Deep:     &deep,
			OnDelta:  func(d string) { m.events <- deltaMsg(d) },
		})
		m.events <- doneMsg{report: report, err: err, elapsed: time.Since(start)}
	}()

	sub := m.engine.Events().Subscribe(64)
	go func() {
		defer m.engine.Events().Unsubscribe(sub)
		for e := range sub.C {
			if e.Kind == engine.EventSourceFound {
				if r, ok := e.Data.(websearch.Result); ok {
					m.events <- sourceMsg(r)
				}
			}
			if e.Kind == engine.EventResearchEnd {
				return
			}
		}
	}()

	return m, tea.Batch(m.spin.Tick, m.waitForEvent())
}

func (m appModel) finishRun(msg doneMsg) (tea.Model, tea.Cmd) {
	m.state = stateInput
	m.streamed = ""

	if msg.err != nil {
		m.scrollback = append(m.scrollback, errorBlockStyle.Render(msg.err.Error()))
		return m, nil
	}

	m.scrollback = append(m.scrollback, renderMarkdown(msg.report.Report))

	status := fmt.Sprintf("saved %s in %s", msg.report.ID, fmtDuration(msg.elapsed))
	if model, _, err := m.engine.Model(m.provider); err == nil {
		if ur, ok := model.(modelclient.UsageReporter); ok {
			status += fmt.Sprintf(", %s tokens", fmtTokens(ur.UsageTracker().Total().Total()))
		}
	}
	m.scrollback = append(m.scrollback, statusStyle.Render(status), "")

	return m, nil
}

func (m appModel) runCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		m.scrollback = append(m.scrollback, dimStyle.Render(strings.Join([]string{
			"commands:",
			"  <topic>         research a topic",
			"  /topics         list previously researched topics",
			"  /reports        list saved reports",
			"  /open <id>      render a saved report",
			"  /diff <topic>   diff the two most recent reports on a topic",
			"  /quit           exit",
		}, "\n")))

	case "/topics":
		topics, err := m.engine.Store().Topics()
		if err != nil {
			m.scrollback = append(m.scrollback, errorBlockStyle.Render(err.Error()))
			break
		}
		if len(topics) == 0 {
			m.scrollback = append(m.scrollback, dimStyle.Render("no topics researched yet"))
			break
		}
		for _, t := range topics {
			m.scrollback = append(m.scrollback, "  "+t)
		}

	case "/reports":
		all, err := m.engine.Store().List()
		if err != nil {
			m.scrollback = append(m.scrollback, errorBlockStyle.Render(err.Error()))
			break
		}
		if len(all) == 0 {
			m.scrollback = append(m.scrollback, dimStyle.Render("no reports saved yet"))
			break
		}
		for _, r := range all {
			line := fmt.Sprintf("  %s  %s  %s", r.ID, r.CreatedAt.Format("2006-01-02 15:04"), truncate(r.Topic, 40))
			m.scrollback = append(m.scrollback, line)
		}

	case "/open":
		if len(args) != 1 {
			m.scrollback = append(m.scrollback, dimStyle.Render("usage: /open <id>"))
			break
		}
		r, err := m.engine.Store().Get(args[0])
		if err != nil {
			m.scrollback = append(m.scrollback, errorBlockStyle.Render(err.Error()))
			break
		}
		m.scrollback = append(m.scrollback, renderMarkdown(r.Report))

	case "/diff":
		if len(args) == 0 {
			m.scrollback = append(m.scrollback, dimStyle.Render("usage: /diff <topic>"))
			break
		}
		diff, err := m.engine.Store().Diff(strings.Join(args, " "))
		if err != nil {
			m.scrollback = append(m.scrollback, errorBlockStyle.Render(err.Error()))
			break
		}
		m.scrollback = append(m.scrollback, dimStyle.Render(diff))

	default:
		m.scrollback = append(m.scrollback, dimStyle.Render("unknown command "+cmd+", /help lists commands"))
	}

	return m, nil
}

func (m appModel) View() string {
	var b strings.Builder

	for _, line := range m.scrollback {
		b.WriteString(line)
		b.WriteString("\n")
	}

	switch m.state {
	case stateRunning:
		if text := m.streamed; text != "" {
			b.WriteString(deltaStyle.Render(tailLines(text, 12)))
			b.WriteString("\n")
		}
		b.WriteString(m.spin.View())
		b.WriteString(" ")
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s (%s)", m.thinking, fmtDuration(time.Since(m.started)))))
		b.WriteString("\n")
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	return b.String()
}

// tailLines returns the last n lines of text, to keep the streaming preview
// from pushing the prompt off screen.
func tailLines(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) <= n {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines[len(lines)-n:], "\n")
}
