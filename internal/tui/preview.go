package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avaldr/deckforge/internal/anim"
)

// tickInterval is how often the terminal is repainted. Playback position
// comes from wall-clock time, so a slow terminal drops frames instead of
// slowing the animation down.
const tickInterval = 33 * time.Millisecond

type tickMsg time.Time

// Preview plays a single clip in the terminal.
type Preview struct {
	animator *anim.Animator
	clip     *anim.Clip
	bar      progress.Model

	last   time.Time
	paused bool
	cols   int
	rows   int
}

// NewPreview builds the preview model for one clip.
func NewPreview(clip *anim.Clip) (*Preview, error) {
	animator, err := anim.NewAnimator(clip)
	if err != nil {
		return nil, err
	}
	return &Preview{
		animator: animator,
		clip:     clip,
		bar:      progress.New(progress.WithDefaultGradient()),
		cols:     48,
		rows:     24,
	}, nil
}

func (p *Preview) Init() tea.Cmd {
	p.last = time.Now()
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (p *Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		now := time.Time(msg)
		if !p.paused {
			p.animator.Advance(now.Sub(p.last).Seconds())
		}
		p.last = now
		return p, tick()

	case tea.WindowSizeMsg:
		// Leave room for the border, the status lines, and the bar.
		p.cols = msg.Width - 4
		p.rows = msg.Height - 7
		if p.cols > 2*p.clip.Frames[0].Bounds().Dx() {
			p.cols = 2 * p.clip.Frames[0].Bounds().Dx()
		}
		if p.cols < 8 {
			p.cols = 8
		}
		if p.rows < 4 {
			p.rows = 4
		}
		p.bar.Width = p.cols
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return p, tea.Quit
		case " ":
			p.paused = !p.paused
			return p, nil
		case "r":
			p.animator.Reset()
			p.last = time.Now()
			return p, nil
		}
	}
	return p, nil
}

func (p *Preview) View() string {
	frame := frameBoxStyle.Render(RenderHalfBlocks(p.animator.CurrentFrame(), p.cols, p.rows))

	status := fmt.Sprintf("%s / %s  frame %d/%d",
		p.clip.Entity, p.clip.Action,
		p.animator.FrameIndex()+1, p.clip.Len(),
	)
	if p.paused {
		status += "  [paused]"
	}

	fraction := 0.0
	if p.clip.Len() > 1 {
		fraction = float64(p.animator.FrameIndex()) / float64(p.clip.Len()-1)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("deckforge preview"),
		frame,
		statusStyle.Render(status),
		p.bar.ViewAs(fraction),
		helpStyle.Render("space pause · r restart · q quit"),
	)
}
