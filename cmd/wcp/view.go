package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/spf13/cobra"

	"github.com/wippyai/wcp-tools/hierarchy"
	"github.com/wippyai/wcp-tools/store"
	"github.com/wippyai/wcp-tools/waveform"
)

func newViewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Browse scopes, signals and changes in a terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(int(os.Stdout.Fd()), &stdoutIsTerminal) {
				return fmt.Errorf("view needs an interactive terminal")
			}
			p := tea.NewProgram(newViewModel(args[0]), tea.WithAltScreen())
			_, err := p.Run()
			return err
		},
	}
}

// row is one line of the signal browser: a scope header or a signal.
type row struct {
	label  string
	path   string
	depth  int
	signal int
	scope  bool
}

type viewModel struct {
	err      error
	wf       *waveform.Waveform
	filename string
	rows     []row
	visible  []int
	filter   textinput.Model
	changes  viewport.Model
	selected int
	width    int
	height   int
	filterOn bool
}

type loadedMsg struct {
	err  error
	wf   *waveform.Waveform
	tree *hierarchy.Root
}

func newViewModel(filename string) *viewModel {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "filter signals"
	ti.Width = 30

	return &viewModel{
		filename: filename,
		filter:   ti,
		changes:  viewport.New(40, 10),
		width:    80,
		height:   24,
	}
}

func (m *viewModel) Init() tea.Cmd {
	return m.load
}

func (m *viewModel) load() tea.Msg {
	st := store.New()
	info, err := st.OpenFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	wf, _ := st.Get(info.Name)
	tree, _ := st.Hierarchy(info.Name)
	return loadedMsg{wf: wf, tree: tree}
}

// flatten lists root signals first, then every scope in pre-order followed
// by its signals.
func flatten(tree *hierarchy.Root, wf *waveform.Waveform) []row {
	var rows []row
	for _, v := range tree.Vars {
		rows = append(rows, row{label: v.Name, path: wf.Signals[v.Ref].Path, signal: v.Ref})
	}
	tree.Walk(func(depth int, s *hierarchy.Scope) bool {
		rows = append(rows, row{label: s.Name, path: s.Path, depth: depth, scope: true, signal: -1})
		for _, v := range s.Vars {
			rows = append(rows, row{label: v.Name, path: wf.Signals[v.Ref].Path, depth: depth + 1, signal: v.Ref})
		}
		return true
	})
	return rows
}

// applyFilter recomputes the visible rows. An empty query shows everything;
// otherwise only signals whose path fuzzy-matches are shown, best first.
func (m *viewModel) applyFilter() {
	m.visible = m.visible[:0]
	q := strings.TrimSpace(m.filter.Value())
	if q == "" {
		for i := range m.rows {
			m.visible = append(m.visible, i)
		}
	} else {
		var paths []string
		var idx []int
		for i, r := range m.rows {
			if !r.scope {
				paths = append(paths, r.path)
				idx = append(idx, i)
			}
		}
		ranks := fuzzy.RankFindFold(q, paths)
		sort.Stable(ranks)
		for _, rk := range ranks {
			m.visible = append(m.visible, idx[rk.OriginalIndex])
		}
	}
	m.selected = 0
	m.skipScopes(1)
	m.refreshChanges()
}

// skipScopes moves the cursor off scope headers in direction dir.
func (m *viewModel) skipScopes(dir int) {
	for m.selected >= 0 && m.selected < len(m.visible) && m.rows[m.visible[m.selected]].scope {
		m.selected += dir
	}
	if m.selected < 0 || m.selected >= len(m.visible) {
		m.selected = m.firstSignal()
	}
}

func (m *viewModel) firstSignal() int {
	for i, ri := range m.visible {
		if !m.rows[ri].scope {
			return i
		}
	}
	return 0
}

func (m *viewModel) current() (row, bool) {
	if m.selected < 0 || m.selected >= len(m.visible) {
		return row{}, false
	}
	r := m.rows[m.visible[m.selected]]
	return r, !r.scope
}

func (m *viewModel) refreshChanges() {
	r, ok := m.current()
	if !ok || m.wf == nil {
		m.changes.SetContent("")
		return
	}
	var b strings.Builder
	for _, c := range m.wf.ChangesFor(r.signal, 0, m.wf.EndTime()) {
		fmt.Fprintf(&b, "%10d  %s\n", c.Time, valueStyle.Render(c.Value))
	}
	m.changes.SetContent(b.String())
	m.changes.GotoTop()
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.changes.Width = msg.Width / 2
		m.changes.Height = max(msg.Height-6, 3)
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.wf = msg.wf
		m.rows = flatten(msg.tree, msg.wf)
		m.applyFilter()
		return m, nil

	case tea.KeyMsg:
		if m.filterOn {
			switch msg.String() {
			case "enter":
				m.filterOn = false
				m.filter.Blur()
				return m, nil
			case "esc":
				m.filterOn = false
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				prev := m.selected
				m.selected--
				m.skipScopes(-1)
				if _, ok := m.current(); !ok {
					m.selected = prev
				}
				m.refreshChanges()
			}
		case "down", "j":
			if m.selected < len(m.visible)-1 {
				prev := m.selected
				m.selected++
				m.skipScopes(1)
				if m.selected < prev {
					m.selected = prev
				}
				m.refreshChanges()
			}
		case "/":
			m.filterOn = true
			return m, m.filter.Focus()
		case "esc":
			if m.filter.Value() != "" {
				m.filter.SetValue("")
				m.applyFilter()
			}
		default:
			var cmd tea.Cmd
			m.changes, cmd = m.changes.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *viewModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.wf == nil {
		return "Loading waveform..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("WCP Viewer"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	h := m.wf.Header
	fmt.Fprintf(&b, "  version %s  timescale %s\n\n", h.Version, h.Timescale)

	var left strings.Builder
	if m.filterOn || m.filter.Value() != "" {
		left.WriteString(m.filter.View())
		left.WriteString("\n")
	}
	for i, ri := range m.visible {
		r := m.rows[ri]
		line := strings.Repeat("  ", r.depth)
		switch {
		case r.scope:
			line += scopeStyle.Render(r.label + "/")
		case i == m.selected:
			line = selectedStyle.Render("> " + line + r.label)
		default:
			line = "  " + line + signalStyle.Render(r.label)
		}
		left.WriteString(line)
		left.WriteString("\n")
	}

	right := m.changes.View()
	if r, ok := m.current(); ok {
		s := m.wf.Signals[r.signal]
		right = fmt.Sprintf("%s  width %d  %s\n%s", signalStyle.Render(s.Path), s.Width, s.Type, right)
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.width/2).Render(left.String()),
		right))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • / filter • pgup/pgdn scroll • q quit"))
	return b.String()
}
