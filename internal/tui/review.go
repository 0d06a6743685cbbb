// Package tui is a terminal review surface over the discovery queue:
// browse analyzed items, import the good ones into the topic bank,
// dismiss the rest.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/store"
)

type model struct {
	eng      *discovery.Engine
	list     list.Model
	items    []store.Discovery
	newOnly  bool
	status   string
	width    int
	height   int
	err      error
}

type discoveryItem struct {
	d store.Discovery
}

func (i discoveryItem) Title() string {
	return fmt.Sprintf("%s [%d/10] %s", statusIcon(i.d.Status), i.d.LatamScore, firstLine(i.d.SuggestedTopic, i.d.CoreIdea, i.d.OriginalTitle))
}

func (i discoveryItem) Description() string {
	if i.d.RepurposeAngle != "" {
		angle := i.d.RepurposeAngle
		if len(angle) > 80 {
			angle = angle[:80] + "..."
		}
		return angle
	}
	return i.d.ViralReason
}

func (i discoveryItem) FilterValue() string {
	return i.d.SuggestedTopic + " " + i.d.CoreIdea + " " + strings.Join(i.d.Tags, " ")
}

func statusIcon(status string) string {
	switch status {
	case store.StatusNew:
		return "[N]"
	case store.StatusReviewed:
		return "[R]"
	case store.StatusImported:
		return "[I]"
	case store.StatusDismissed:
		return "[D]"
	case store.StatusGenerated:
		return "[G]"
	default:
		return "[?]"
	}
}

func firstLine(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return "(untitled)"
}

func initialModel(eng *discovery.Engine) model {
	delegate := list.NewDefaultDelegate()
	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Discoveries"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return model{eng: eng, list: l}
}

type loadedMsg struct {
	items []store.Discovery
	err   error
}

type actionMsg struct {
	status string
	err    error
}

func (m model) Init() tea.Cmd {
	return m.load
}

func (m model) load() tea.Msg {
	filter := discovery.Filter{}
	if m.newOnly {
		filter.Status = store.StatusNew
	}
	result, err := m.eng.List(filter)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{items: result.Items}
}

func (m model) importSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(discoveryItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		result, err := m.eng.Import(item.d.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		if result == nil {
			return actionMsg{err: fmt.Errorf("discovery %s not found", item.d.ID)}
		}
		return actionMsg{status: "imported: " + result.Topic.Idea}
	}
}

func (m model) dismissSelected() tea.Cmd {
	item, ok := m.list.SelectedItem().(discoveryItem)
	if !ok {
		return nil
	}
	return func() tea.Msg {
		ok, err := m.eng.Dismiss(item.d.ID)
		if err != nil {
			return actionMsg{err: err}
		}
		if !ok {
			return actionMsg{err: fmt.Errorf("discovery %s not found", item.d.ID)}
		}
		return actionMsg{status: "dismissed"}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "j", "down":
			m.list.CursorDown()
			return m, nil
		case "k", "up":
			m.list.CursorUp()
			return m, nil
		case "g":
			m.list.Select(0)
			return m, nil
		case "G":
			if n := len(m.list.Items()); n > 0 {
				m.list.Select(n - 1)
			}
			return m, nil
		case "i":
			return m, m.importSelected()
		case "d":
			return m, m.dismissSelected()
		case "n":
			m.newOnly = !m.newOnly
			return m, m.load
		case "r":
			return m, m.load
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.items = msg.items
		m.list.SetItems(discoveriesToItems(msg.items))

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = msg.status
		return m, m.load
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func discoveriesToItems(items []store.Discovery) []list.Item {
	out := make([]list.Item, 0, len(items))
	for _, d := range items {
		out = append(out, discoveryItem{d: d})
	}
	return out
}

func (m model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	var b strings.Builder
	b.WriteString(m.list.View())

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("86"))
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		MarginTop(1)

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}
	b.WriteString(helpStyle.Render("\n[j/k]nav [i]mport [d]ismiss [n]ew-only [r]eload [q]uit"))

	return b.String()
}

// Run starts the review TUI.
func Run(ctx context.Context, eng *discovery.Engine) error {
	p := tea.NewProgram(initialModel(eng), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
