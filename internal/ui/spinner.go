package ui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type spinDoneMsg struct{}

// spinModel shows a spinner until its job finishes
type spinModel struct {
	spinner spinner.Model
	title   string
	job     func()
	done    bool
}

func (m spinModel) Init() tea.Cmd {
	job := m.job
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		job()
		return spinDoneMsg{}
	})
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

// Spin runs fn while showing a spinner with title. On a non-interactive
// writer it just prints the title and runs fn.
//
// fn runs exactly once, even if the spinner program fails to start; the
// returned error only reports the spinner failure. The spinner installs no
// signal handlers, so SIGINT and SIGTERM still terminate the process.
func (p *Printer) Spin(title string, fn func()) error {
	if !p.interactive {
		p.Muted("%s", title)
		fn()
		return nil
	}

	var once sync.Once
	job := func() { once.Do(fn) }

	_, err := p.runSpinner(title, job)
	job()
	if err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	return nil
}

func (p *Printer) runSpinner(title string, job func()) (spinModel, error) {
	m := spinModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(p.s.spinner),
		),
		title: title,
		job:   job,
	}

	prog := tea.NewProgram(m,
		tea.WithOutput(p.w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	final, err := prog.Run()
	if fm, ok := final.(spinModel); ok {
		m = fm
	}
	return m, err
}
