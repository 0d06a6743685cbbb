package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/gateway"
	"github.com/user/pluma/internal/store"
)

type nilGen struct{}

func (nilGen) Generate(ctx context.Context, prompt string, opts gateway.Options) (string, error) {
	return "", nil
}

type nilSearcher struct{}

func (nilSearcher) Probe(ctx context.Context) bool { return false }
func (nilSearcher) Search(ctx context.Context, query string, count int) []map[string]any {
	return nil
}

func seededModel(t *testing.T, items ...store.Discovery) model {
	t.Helper()
	st := store.NewStore(t.TempDir())
	err := st.MutateDiscoveries(func(l *store.DiscoveryList) (bool, error) {
		l.Prepend(items...)
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	eng := discovery.NewEngine(st, nilSearcher{}, nilGen{})

	m := initialModel(eng)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(model)
	updated, _ = m.Update(m.load())
	return updated.(model)
}

func sampleItems() []store.Discovery {
	now := time.Now().UTC()
	return []store.Discovery{
		{ID: "d-1-0", Status: store.StatusNew, LatamScore: 9, SuggestedTopic: "automatiza reportes", RepurposeAngle: "hazlo para LATAM", DiscoveredAt: now},
		{ID: "d-1-1", Status: store.StatusDismissed, LatamScore: 3, CoreIdea: "otra idea", DiscoveredAt: now},
	}
}

func TestLoadPopulatesList(t *testing.T) {
	m := seededModel(t, sampleItems()...)
	if got := len(m.list.Items()); got != 2 {
		t.Fatalf("list has %d items, want 2", got)
	}
}

func TestNewOnlyToggleFilters(t *testing.T) {
	m := seededModel(t, sampleItems()...)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
	m = updated.(model)
	if !m.newOnly {
		t.Fatal("toggle did not enable new-only")
	}
	if cmd == nil {
		t.Fatal("toggle did not trigger a reload")
	}
	updated, _ = m.Update(cmd())
	m = updated.(model)
	if got := len(m.list.Items()); got != 1 {
		t.Errorf("new-only list has %d items, want 1", got)
	}
}

func TestImportKeyUpdatesStore(t *testing.T) {
	m := seededModel(t, sampleItems()...)
	m.list.Select(0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	if cmd == nil {
		t.Fatal("import key produced no command")
	}
	msg, ok := cmd().(actionMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if msg.err != nil {
		t.Fatalf("import failed: %v", msg.err)
	}
	if !strings.Contains(msg.status, "imported") {
		t.Errorf("status = %q", msg.status)
	}

	bank, err := m.eng.Store().Topics()
	if err != nil {
		t.Fatal(err)
	}
	if len(bank.Topics) != 1 || bank.Topics[0].Idea != "automatiza reportes" {
		t.Errorf("bank = %+v", bank.Topics)
	}
}

func TestDismissKeyUpdatesStore(t *testing.T) {
	m := seededModel(t, sampleItems()...)
	m.list.Select(0)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if cmd == nil {
		t.Fatal("dismiss key produced no command")
	}
	if msg := cmd().(actionMsg); msg.err != nil {
		t.Fatalf("dismiss failed: %v", msg.err)
	}

	d, err := m.eng.Get("d-1-0")
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != store.StatusDismissed {
		t.Errorf("status = %q", d.Status)
	}
}

func TestQuitKey(t *testing.T) {
	m := seededModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q produced no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("q produced %v, want quit", msg)
	}
}

func TestItemRendering(t *testing.T) {
	item := discoveryItem{d: store.Discovery{
		Status:         store.StatusNew,
		LatamScore:     8,
		SuggestedTopic: "automatiza reportes",
		RepurposeAngle: strings.Repeat("a", 100),
	}}
	title := item.Title()
	if !strings.Contains(title, "[N]") || !strings.Contains(title, "[8/10]") || !strings.Contains(title, "automatiza reportes") {
		t.Errorf("title = %q", title)
	}
	desc := item.Description()
	if len(desc) != 83 || !strings.HasSuffix(desc, "...") {
		t.Errorf("description = %q (len %d)", desc, len(desc))
	}

	untitled := discoveryItem{d: store.Discovery{Status: "weird"}}
	if !strings.Contains(untitled.Title(), "[?]") || !strings.Contains(untitled.Title(), "(untitled)") {
		t.Errorf("title = %q", untitled.Title())
	}
}

func TestViewShowsHelpAndStatus(t *testing.T) {
	m := seededModel(t, sampleItems()...)
	m.status = "imported: tema"
	view := m.View()
	if !strings.Contains(view, "imported: tema") {
		t.Error("view missing status line")
	}
	if !strings.Contains(view, "[i]mport") {
		t.Error("view missing help line")
	}
}
