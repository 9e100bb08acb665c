// Package tui is the terminal front end over app.Controller. It only reads
// controller state and turns key presses into actions.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"spice-theory/internal/app"
	"spice-theory/internal/card"
	"spice-theory/internal/domain"
)

// CardRenderer produces the downloadable result card.
type CardRenderer interface {
	Render(ctx context.Context, req card.Request) (card.Output, error)
}

// Options configures a Model.
type Options struct {
	Renderer CardRenderer
	OutDir   string
	// Rand shuffles option order each time a question is shown.
	Rand app.Rand
	Log  *zap.Logger
}

// renderedMsg reports a finished card render for the session it was requested for.
type renderedMsg struct {
	session string
	path    string
	err     error
}

type Model struct {
	ctx    context.Context
	ctrl   *app.Controller
	opts   Options
	styles styles
	width  int

	shownKey string
	order    []int

	rendering bool
	status    string
	err       error
}

func New(ctx context.Context, ctrl *app.Controller, opts Options) Model {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = app.NewRand(0)
	}
	m := Model{ctx: ctx, ctrl: ctrl, opts: opts, styles: defaultStyles(), width: 80}
	m.reshuffle()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Presented returns the current question's options in display order.
func (m Model) Presented() []domain.Option {
	q := m.ctrl.State().Active().Current()
	opts := make([]domain.Option, 0, len(m.order))
	for _, i := range m.order {
		if i < len(q.Options) {
			opts = append(opts, q.Options[i])
		}
	}
	return opts
}

// Status is the last user-facing status line.
func (m Model) Status() string { return m.status }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case renderedMsg:
		return m.applyRendered(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter", "n":
		m.dispatch(app.Advance{})
	case "b", "left":
		m.dispatch(app.Retreat{})
	case "s":
		m.dispatch(app.Skip{})
	case "r":
		if _, err := m.ctrl.Retake(m.ctx); err != nil {
			m.err = err
		}
		m.rendering, m.status = false, ""
		m.reshuffle()
	case "p":
		return m.startRender()
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.choose(int(key[0] - '1'))
		}
	}
	return m, nil
}

func (m *Model) dispatch(a app.Action) {
	m.ctrl.Dispatch(m.ctx, a)
	m.reshuffle()
}

func (m *Model) choose(i int) {
	s := m.ctrl.State()
	if s.Phase == app.PhaseDone {
		return
	}
	opts := m.Presented()
	if i < 0 || i >= len(opts) {
		return
	}
	m.ctrl.Dispatch(m.ctx, app.Select{Index: s.Active().Index, Category: opts[i].Category})
}

// reshuffle draws a new option order whenever a different question comes on screen.
func (m *Model) reshuffle() {
	s := m.ctrl.State()
	key := fmt.Sprintf("%s/%s/%d", s.SessionID, s.Phase, s.Active().Index)
	if key == m.shownKey {
		return
	}
	m.shownKey = key
	n := len(s.Active().Current().Options)
	m.order = make([]int, n)
	for i := range m.order {
		m.order[i] = i
	}
	app.Shuffle(m.opts.Rand, m.order)
}

func (m Model) startRender() (tea.Model, tea.Cmd) {
	sum, err := m.ctrl.Summary()
	if err != nil || m.opts.Renderer == nil || m.rendering {
		return m, nil
	}
	m.rendering = true
	m.status = "Rendering card..."
	session := m.ctrl.State().SessionID
	ctx, renderer, outDir, log := m.ctx, m.opts.Renderer, m.opts.OutDir, m.opts.Log

	return m, func() tea.Msg {
		out, err := renderer.Render(ctx, card.Request{SessionID: session, Summary: sum})
		if err != nil {
			log.Error("render card", zap.String("session", session), zap.Error(err))
			return renderedMsg{session: session, err: err}
		}
		path, err := card.Save(outDir, out)
		return renderedMsg{session: session, path: path, err: err}
	}
}

func (m Model) applyRendered(msg renderedMsg) Model {
	if msg.session != m.ctrl.State().SessionID {
		m.opts.Log.Debug("dropping stale card render", zap.String("session", msg.session))
		return m
	}
	m.rendering = false
	if msg.err != nil {
		m.status = "Could not save card: " + msg.err.Error()
		return m
	}
	m.status = "Saved " + msg.path
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Brand.Render("Spice Theory"))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
		return b.String()
	}

	s := m.ctrl.State()
	if s.Phase == app.PhaseDone {
		b.WriteString(m.resultView())
	} else {
		b.WriteString(m.questionView(s))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Status.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) questionView(s app.State) string {
	var b strings.Builder
	prog := s.Progress()
	b.WriteString(m.styles.Progress.Render(fmt.Sprintf("%s  %s", prog.Label, bar(prog.Percent, 20))))
	if s.Phase == app.PhaseBonus {
		b.WriteString("  ")
		b.WriteString(m.styles.Bonus.Render("Tie-breaker"))
	}
	b.WriteString("\n")

	round := s.Active()
	b.WriteString(m.styles.Question.Width(m.width).Render(round.Current().Text))
	b.WriteString("\n")

	chosen := round.Answer(round.Index)
	for i, opt := range m.Presented() {
		line := fmt.Sprintf("%d) %s", i+1, opt.Label)
		if opt.Category == chosen {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(m.styles.Option.Render("  " + line))
		}
		b.WriteString("\n")
	}

	help := "1-9 choose · enter next · b back · s skip · q quit"
	if s.Phase == app.PhaseBonus {
		help = "1-9 choose · enter next · b back · q quit"
	}
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func (m Model) resultView() string {
	sum, err := m.ctrl.Summary()
	if err != nil {
		return m.styles.Error.Render(err.Error())
	}
	var b strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(hex(sum.Accent)))
	b.WriteString(title.Render(sum.Title))
	b.WriteString("\n")

	badges := make([]string, 0, len(sum.Badges))
	for _, badge := range sum.Badges {
		st := m.styles.Badge
		if badge.Emphasis {
			st = st.Bold(true)
		}
		badges = append(badges, st.Render(badge.Text))
	}
	b.WriteString(strings.Join(badges, " "))
	b.WriteString("\n")

	body := m.styles.Body.Width(m.width)
	if sum.Blurb != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Blurb.Width(m.width).Render(sum.Blurb))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Heading.Render(fmt.Sprintf("%s: %s", sum.PrimaryHeading, sum.Primary.DisplayName())))
	b.WriteString("\n")
	b.WriteString(body.Render(sum.PrimaryText))
	b.WriteString("\n")
	if !sum.Result.Pure {
		b.WriteString(m.styles.Heading.Render(fmt.Sprintf("%s: %s", sum.SecondaryHeading, sum.Secondary.DisplayName())))
		b.WriteString("\n")
		b.WriteString(body.Render(sum.SecondaryText))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Help.Render("p save card · r retake · q quit"))
	return b.String()
}

func bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func hex(c color.Color) string {
	r, g, bl, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, bl>>8)
}
