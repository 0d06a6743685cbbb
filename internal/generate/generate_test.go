package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/pluma/internal/config"
	"github.com/user/pluma/internal/discovery"
	"github.com/user/pluma/internal/gateway"
	"github.com/user/pluma/internal/store"
	"github.com/user/pluma/internal/topics"
)

type fakeGen struct {
	reply      string
	err        error
	lastPrompt string
	lastSystem string
}

func (g *fakeGen) Generate(ctx context.Context, prompt string, opts gateway.Options) (string, error) {
	g.lastPrompt = prompt
	g.lastSystem = opts.System
	return g.reply, g.err
}

type noSearch struct{}

func (noSearch) Probe(ctx context.Context) bool { return false }
func (noSearch) Search(ctx context.Context, query string, count int) []map[string]any {
	return nil
}

func newTestService(t *testing.T, gen *fakeGen) (*Service, *topics.Bank, *discovery.Engine) {
	t.Helper()
	base := t.TempDir()
	cfg := &config.Config{
		DataDir:   filepath.Join(base, "data"),
		OutputDir: filepath.Join(base, "output"),
	}
	st := store.NewStore(cfg.DataDir)
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		t.Fatal(err)
	}
	bank := topics.NewBank(st, gen)
	eng := discovery.NewEngine(st, noSearch{}, gen)
	return NewService(cfg, gen, bank, eng), bank, eng
}

func TestFromTopicFreeText(t *testing.T) {
	gen := &fakeGen{reply: "# Guía\n\nHola, esta semana vamos a automatizar reportes con Claude."}
	svc, _, _ := newTestService(t, gen)

	res, err := svc.FromTopic(context.Background(), "", "automatiza reportes", "guia_practica", "keep it short")
	if err != nil {
		t.Fatalf("FromTopic() error: %v", err)
	}
	if !res.Success || res.Guide != gen.reply {
		t.Fatalf("result = %+v", res)
	}
	if res.WordCount == 0 {
		t.Error("word count not computed")
	}
	if !strings.HasPrefix(res.Filename, "guide-") || !strings.HasSuffix(res.Filename, ".md") {
		t.Errorf("filename = %q", res.Filename)
	}

	if !strings.Contains(gen.lastPrompt, "automatiza reportes") {
		t.Error("prompt missing the topic")
	}
	if !strings.Contains(gen.lastPrompt, "keep it short") {
		t.Error("prompt missing the instructions")
	}

	// The guide lands in ready/ with a metadata header.
	content := readOutputFile(t, svc, "ready", res.Filename)
	if !strings.Contains(content, "# Topic: automatiza reportes") {
		t.Errorf("header missing from output:\n%s", content)
	}
	if !strings.Contains(content, gen.reply) {
		t.Error("guide body missing from output")
	}
}

func TestFromTopicBankEntryLifecycle(t *testing.T) {
	gen := &fakeGen{reply: "guide body"}
	svc, bank, _ := newTestService(t, gen)

	topic, err := bank.Add("prompts para emails", "manual", "")
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.FromTopic(context.Background(), topic.ID, "", "experimento", "")
	if err != nil {
		t.Fatalf("FromTopic() error: %v", err)
	}

	got, err := bank.Get(topic.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != store.TopicDone {
		t.Errorf("topic status = %q, want done", got.Status)
	}
	if got.OutputFile != res.Filename {
		t.Errorf("topic output file = %q, want %q", got.OutputFile, res.Filename)
	}

	doc, err := bank.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Generated) != 1 || doc.Generated[0].TopicID != topic.ID {
		t.Errorf("generation log = %+v", doc.Generated)
	}
}

func TestFromTopicPrefersBriefTitle(t *testing.T) {
	gen := &fakeGen{reply: "{\"title\":\"Automatiza tus reportes en 20 minutos\"}"}
	svc, bank, _ := newTestService(t, gen)

	topic, _ := bank.Add("automatizar reportes", "manual", "")
	if _, err := bank.Expand(context.Background(), topic.ID); err != nil {
		t.Fatal(err)
	}

	gen.reply = "guide body"
	if _, err := svc.FromTopic(context.Background(), topic.ID, "", "guia_practica", ""); err != nil {
		t.Fatalf("FromTopic() error: %v", err)
	}
	if !strings.Contains(gen.lastPrompt, "Automatiza tus reportes en 20 minutos") {
		t.Error("prompt used the raw idea instead of the brief title")
	}
}

func TestFromTopicMissing(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGen{})

	_, err := svc.FromTopic(context.Background(), "", "", "guia_practica", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// An unknown id with no free-text fallback is the same failure.
	_, err = svc.FromTopic(context.Background(), "nope", "", "guia_practica", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestFromDiscovery(t *testing.T) {
	gen := &fakeGen{reply: "guide body"}
	svc, _, eng := newTestService(t, gen)

	seedDiscovery(t, eng, store.Discovery{
		ID:             "d-1-0",
		OriginalTitle:  "I automated my whole newsletter",
		CoreIdea:       "automation stack",
		ViralReason:    "relatable pain",
		LatamScore:     9,
		RepurposeAngle: "adapt for LATAM freelancers",
		SuggestedTopic: "automatiza tu newsletter",
		SuggestedHook:  "¿Cuántas horas pierdes cada semana?",
		Tags:           []string{"automation"},
		Raw:            map[string]any{"text": "I built a pipeline...", "author": "alice", "likes": float64(1200), "retweets": float64(300)},
		Status:         store.StatusNew,
	})

	res, err := svc.FromDiscovery(context.Background(), "d-1-0", "")
	if err != nil {
		t.Fatalf("FromDiscovery() error: %v", err)
	}
	if !res.Success || res.Discovery == nil || res.Discovery.ID != "d-1-0" {
		t.Fatalf("result = %+v", res)
	}
	if !strings.HasPrefix(res.Filename, "guide-disc-") {
		t.Errorf("filename = %q", res.Filename)
	}

	for _, want := range []string{
		"I automated my whole newsletter",
		"I built a pipeline...",
		"relatable pain",
		"adapt for LATAM freelancers",
		"1200 likes",
		"300 RTs",
	} {
		if !strings.Contains(gen.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	// The source discovery is marked generated with the output file.
	d, err := eng.Get("d-1-0")
	if err != nil {
		t.Fatal(err)
	}
	if d.Status != store.StatusGenerated || d.OutputFile != res.Filename {
		t.Errorf("discovery = %+v", d)
	}

	content := readOutputFile(t, svc, "ready", res.Filename)
	if !strings.Contains(content, "# Source: Discovery d-1-0") || !strings.Contains(content, "# LATAM Score: 9/10") {
		t.Errorf("header missing from output:\n%s", content)
	}
}

func TestFromDiscoveryUnknownID(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGen{})
	_, err := svc.FromDiscovery(context.Background(), "d-9-9", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestPolishDraft(t *testing.T) {
	gen := &fakeGen{reply: "polished body\n\n## Cambios Realizados\n- mejor hook"}
	svc, _, _ := newTestService(t, gen)

	res, err := svc.PolishDraft(context.Background(), "my rough draft", "más directo")
	if err != nil {
		t.Fatalf("PolishDraft() error: %v", err)
	}
	if res.Polished != gen.reply {
		t.Errorf("polished = %q", res.Polished)
	}
	if !strings.HasPrefix(res.Filename, "draft-polished-") {
		t.Errorf("filename = %q", res.Filename)
	}
	if !strings.Contains(gen.lastPrompt, "---DRAFT START---") || !strings.Contains(gen.lastPrompt, "my rough draft") {
		t.Error("prompt missing the draft")
	}

	// Polished drafts land in review/, not ready/.
	listing, err := svc.ListOutputs()
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Review) != 1 || listing.Review[0] != res.Filename {
		t.Errorf("review listing = %v", listing.Review)
	}
	if len(listing.Ready) != 0 {
		t.Errorf("ready listing = %v", listing.Ready)
	}
}

func TestPolishDraftRequiresDraft(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGen{})
	if _, err := svc.PolishDraft(context.Background(), "   ", ""); err == nil {
		t.Fatal("expected error for blank draft")
	}
}

func TestApproveMovesFileToReady(t *testing.T) {
	gen := &fakeGen{reply: "polished"}
	svc, _, _ := newTestService(t, gen)

	res, err := svc.PolishDraft(context.Background(), "draft", "")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Approve(res.Filename); err != nil {
		t.Fatalf("Approve() error: %v", err)
	}

	listing, err := svc.ListOutputs()
	if err != nil {
		t.Fatal(err)
	}
	if len(listing.Review) != 0 || len(listing.Ready) != 1 {
		t.Errorf("listing = %+v", listing)
	}

	if _, err := svc.ReadOutput("ready", res.Filename); err != nil {
		t.Errorf("approved file unreadable: %v", err)
	}
}

func TestReadOutputRejectsBadFolder(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeGen{})
	if _, err := svc.ReadOutput("secrets", "x.md"); err == nil {
		t.Fatal("expected error for unknown folder")
	}
}

func TestReadOutputStripsPathTraversal(t *testing.T) {
	gen := &fakeGen{reply: "guide"}
	svc, _, _ := newTestService(t, gen)

	res, err := svc.FromTopic(context.Background(), "", "tema", "guia_practica", "")
	if err != nil {
		t.Fatal(err)
	}

	// A traversal prefix is stripped down to the base name.
	content, err := svc.ReadOutput("ready", "../../ready/"+res.Filename)
	if err != nil {
		t.Fatalf("ReadOutput() error: %v", err)
	}
	if !strings.Contains(content, "guide") {
		t.Errorf("content = %q", content)
	}

	if _, err := svc.ReadOutput("ready", "../../../etc/passwd"); err == nil {
		t.Error("expected not-found for traversal outside the output tree")
	}
}

func readOutputFile(t *testing.T, svc *Service, folder, filename string) string {
	t.Helper()
	content, err := svc.ReadOutput(folder, filename)
	if err != nil {
		t.Fatalf("read output %s/%s: %v", folder, filename, err)
	}
	return content
}

func seedDiscovery(t *testing.T, eng *discovery.Engine, d store.Discovery) {
	t.Helper()
	if d.DiscoveredAt.IsZero() {
		d.DiscoveredAt = time.Now().UTC()
	}
	err := eng.Store().MutateDiscoveries(func(l *store.DiscoveryList) (bool, error) {
		l.Prepend(d)
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
}
