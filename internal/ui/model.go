package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbru/taxi/internal/timesheet"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	ignoredStyle  = lipgloss.NewStyle().Faint(true)
	pushedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	helpStyle     = lipgloss.NewStyle().Faint(true)
)

// Model owns Bubble Tea state for the timesheet browser.
type Model struct {
	ctx  context.Context
	ts   *timesheet.Timesheet
	save func() error

	dates    []time.Time
	dateIdx  int
	selected int

	mode  mode
	input textinput.Model

	statusLine string
	errorLine  string
}

type mode uint8

const (
	modeNormal mode = iota
	modeAdd
)

type savedMsg struct {
	err error
}

// NewModel seeds a Bubble Tea model with the loaded timesheet and a
// callback writing it back to disk.
func NewModel(ctx context.Context, ts *timesheet.Timesheet, save func() error) Model {
	input := textinput.New()
	input.Placeholder = "alias duration description"
	input.CharLimit = 120

	m := Model{
		ctx:   ctx,
		ts:    ts,
		save:  save,
		dates: ts.Entries.Dates(),
		input: input,
	}
	if len(m.dates) > 0 {
		m.dateIdx = len(m.dates) - 1
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case savedMsg:
		if msg.err != nil {
			m.errorLine = fmt.Sprintf("Save failed: %v", msg.err)
			m.statusLine = ""
		} else {
			m.statusLine = "Saved."
			m.errorLine = ""
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeAdd {
		return m.handleAddKey(msg)
	}

	entries := m.currentEntries()

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "down", "j":
		if m.selected < len(entries)-1 {
			m.selected++
		}
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "left", "h":
		if m.dateIdx > 0 {
			m.dateIdx--
			m.selected = 0
			m.statusLine = ""
			m.errorLine = ""
		}
	case "right", "l":
		if m.dateIdx < len(m.dates)-1 {
			m.dateIdx++
			m.selected = 0
			m.statusLine = ""
			m.errorLine = ""
		}
	case "i":
		if m.selected < len(entries) {
			entry := entries[m.selected]
			entry.SetIgnored(!entry.Ignored())
			return m, m.saveCmd()
		}
	case "a":
		m.mode = modeAdd
		m.input.SetValue("")
		m.input.Focus()
		m.statusLine = ""
		m.errorLine = ""
		return m, textinput.Blink
	}

	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		m.statusLine = "Cancelled."
		return m, nil
	case tea.KeyEnter:
		return m.submitAdd()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submitAdd() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		m.errorLine = "Entry cannot be empty."
		return m, nil
	}

	entry, err := timesheet.ParseEntryLine(line)
	if err != nil {
		m.errorLine = err.Error()
		return m, nil
	}

	if len(m.dates) == 0 {
		m.dates = append(m.dates, today())
	}
	date := m.dates[m.dateIdx]
	m.ts.Entries.Add(date, entry)
	m.dates = m.ts.Entries.Dates()

	m.mode = modeNormal
	m.input.Blur()
	m.selected = len(m.currentEntries()) - 1
	m.statusLine = "Entry added."
	m.errorLine = ""
	return m, m.saveCmd()
}

func (m Model) saveCmd() tea.Cmd {
	save := m.save
	return func() tea.Msg {
		if save == nil {
			return savedMsg{}
		}
		return savedMsg{err: save()}
	}
}

func (m Model) currentEntries() []*timesheet.EntryLine {
	if len(m.dates) == 0 {
		return nil
	}
	return m.ts.Entries.Entries(m.dates[m.dateIdx])
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	if len(m.dates) == 0 {
		b.WriteString(headerStyle.Render("Empty timesheet"))
		b.WriteString("\n\n(no entries)\n")
	} else {
		date := m.dates[m.dateIdx]
		b.WriteString(headerStyle.Render(date.Format("Monday, 02 January 2006")))
		b.WriteString(fmt.Sprintf("  [%d/%d]\n\n", m.dateIdx+1, len(m.dates)))

		entries := m.currentEntries()
		if len(entries) == 0 {
			b.WriteString("(no entries)\n")
		}
		var total float64
		for i, entry := range entries {
			line := fmt.Sprintf("%-20s %-12s %s",
				entry.Alias(), entry.Duration().String(), entry.Description())
			switch {
			case i == m.selected && m.mode == modeNormal:
				line = selectedStyle.Render(line)
			case entry.Ignored():
				line = ignoredStyle.Render(line)
			case entry.Pushed():
				line = pushedStyle.Render(line)
			}
			b.WriteString(line)
			b.WriteByte('\n')
			if !entry.Ignored() {
				total += entry.Hours()
			}
		}
		b.WriteString(fmt.Sprintf("\nTotal: %.2f hours\n", total))
	}

	if m.errorLine != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("! " + m.errorLine))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(m.statusLine)
		b.WriteByte('\n')
	}

	if m.mode == modeAdd {
		b.WriteString("\nNew entry (Enter to save, Esc to cancel):\n")
		b.WriteString(m.input.View())
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("h/l switch date  j/k select  a add  i toggle ignored  q quit"))
	b.WriteByte('\n')

	return b.String()
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
