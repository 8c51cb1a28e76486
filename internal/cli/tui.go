package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/hanoi/pkg/hanoi"
	"github.com/matzehuels/hanoi/pkg/pipeline"
)

// progressInterval is how often the move counter is redrawn.
const progressInterval = 100 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// =============================================================================
// ProgressModel - Live move counter
// =============================================================================

type tickMsg time.Time

// solveDoneMsg carries the runner's result back into the program.
type solveDoneMsg struct {
	res *pipeline.Result
	err error
}

// ProgressModel is the bubbletea model for a running solve. The solve
// goroutine publishes its move count through Done; the model only reads it.
type ProgressModel struct {
	Done  *atomic.Uint64
	Total uint64
	Rings int

	Result *pipeline.Result
	Err    error
	Quit   bool

	frame   int
	started time.Time
}

// NewProgressModel creates a progress model for a tower of rings.
func NewProgressModel(done *atomic.Uint64, rings int) ProgressModel {
	total, _ := hanoi.MovesRequired(rings)
	return ProgressModel{
		Done:    done,
		Total:   total,
		Rings:   rings,
		started: time.Now(),
	}
}

func tick() tea.Cmd {
	return tea.Tick(progressInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ProgressModel) Init() tea.Cmd {
	return tick()
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quit = true
			return m, tea.Quit
		}
	case tickMsg:
		m.frame++
		return m, tick()
	case solveDoneMsg:
		m.Result = msg.res
		m.Err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	if m.Result != nil || m.Err != nil || m.Quit {
		return ""
	}

	done := m.Done.Load()
	var b strings.Builder
	b.WriteString(styleIconSpinner.Render(spinnerFrames[m.frame%len(spinnerFrames)]))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("Moving %d rings ", m.Rings))
	b.WriteString(StyleNumber.Render(formatCount(done)))
	b.WriteString(StyleDim.Render(" / " + formatCount(m.Total)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %5.1f%%  %s", percent(done, m.Total), time.Since(m.started).Round(time.Second))))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	return b.String()
}

func percent(done, total uint64) float64 {
	if total == 0 {
		return 100
	}
	return float64(done) / float64(total) * 100
}

// runWithProgress solves in a goroutine while a bubbletea program draws the
// move counter on w. Quitting the program cancels the solve's context, so
// the abandoned result is never written to the cache.
func runWithProgress(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, w io.Writer) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var done atomic.Uint64
	opts.Observer = func(m hanoi.Move[int]) { done.Store(m.Seq) }

	p := tea.NewProgram(NewProgressModel(&done, opts.Rings),
		tea.WithContext(ctx),
		tea.WithOutput(w),
	)

	go func() {
		res, err := runner.Solve(ctx, opts)
		p.Send(solveDoneMsg{res: res, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress display: %w", err)
	}

	m := final.(ProgressModel)
	if m.Quit {
		return nil, context.Canceled
	}
	return m.Result, m.Err
}
