package cmd

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"testing"
	"time"

	"polypost/internal/config"
	"polypost/internal/input"
	"polypost/internal/markdown"
	"polypost/internal/recovery"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const cmdTestIndex = `<!DOCTYPE html>
<html>
<head>
    <title>Chez moi</title>
</head>
<body>
    <main>
    </main>
</body>
</html>
`

const cmdTestPost = `2024-1-15

# Bonjour le monde

Premier paragraphe.

---

# Hello world

First paragraph.

---

<div class="isso">comments</div>
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := t.TempDir()

	var cfg config.Config
	cfg.FillDefaults()
	cfg.Site.Dir = dir
	cfg.Site.Index = filepath.Join(dir, "index.html")
	cfg.Recovery.Path = filepath.Join(dir, "backup.md")
	cfg.Post.SelfLink = true

	if err := os.WriteFile(cfg.Site.Index, []byte(cmdTestIndex), 0o644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func indexArticleIDs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	doc.Find("main > article > a").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("id", ""))
	})
	return ids
}

func TestRunPostInsertsAndClears(t *testing.T) {
	cfg := testConfig(t)
	rec := recovery.NewStore(cfg.Recovery.Path)

	frag, warnings, err := runPost(cfg, rec, cmdTestPost, time.Now())
	if err != nil {
		t.Fatalf("runPost: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if frag.ID != "20240115-hello-world" {
		t.Errorf("frag.ID = %q, want %q", frag.ID, "20240115-hello-world")
	}
	if ids := indexArticleIDs(t, cfg.Site.Index); len(ids) != 1 || ids[0] != frag.ID {
		t.Errorf("index article ids = %v, want [%s]", ids, frag.ID)
	}
	if rec.Exists() {
		t.Error("recovery file still present after a successful run")
	}
}

func TestRunPostUnknownLexerKeepsEverything(t *testing.T) {
	cfg := testConfig(t)
	rec := recovery.NewStore(cfg.Recovery.Path)
	raw := "2024-1-15\n\n# Bonjour\n\n```klingon\nnuqneH\n```\n\n---\n\n# Hello\n\nText.\n"

	before, err := os.ReadFile(cfg.Site.Index)
	if err != nil {
		t.Fatal(err)
	}

	_, _, err = runPost(cfg, rec, raw, time.Now())
	if err == nil {
		t.Fatal("runPost succeeded with an unknown fence language")
	}
	var lexErr *markdown.LexerNotFoundError
	if !errors.As(err, &lexErr) {
		t.Fatalf("error = %v, want a LexerNotFoundError", err)
	}
	if !strings.Contains(err.Error(), "backed up in "+rec.Path) {
		t.Errorf("error %q does not point at the recovery file", err)
	}

	after, err := os.ReadFile(cfg.Site.Index)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("index changed on a failed run")
	}
	got, err := rec.Read()
	if err != nil {
		t.Fatalf("recovery file unreadable after failure: %v", err)
	}
	if got != strings.TrimSpace(raw)+"\n" {
		t.Errorf("recovery content = %q, want the raw input", got)
	}
}

func TestRunPostResumeInsertsExactlyOnce(t *testing.T) {
	cfg := testConfig(t)
	rec := recovery.NewStore(cfg.Recovery.Path)

	// A run that died after the backup write leaves only the recovery
	// file behind.
	if err := rec.Write(cmdTestPost); err != nil {
		t.Fatal(err)
	}

	reader := &input.Reader{
		Recovery: rec,
		Stdin:    strings.NewReader("must not be read"),
		Prompt:   io.Discard,
	}
	raw, src, err := reader.Read("")
	if err != nil {
		t.Fatal(err)
	}
	if src != input.SourceRecovery {
		t.Fatalf("input source = %v, want recovery", src)
	}

	if _, _, err := runPost(cfg, rec, raw, time.Now()); err != nil {
		t.Fatalf("runPost: %v", err)
	}
	if ids := indexArticleIDs(t, cfg.Site.Index); len(ids) != 1 {
		t.Errorf("index article ids = %v, want exactly one", ids)
	}
	if rec.Exists() {
		t.Error("recovery file still present after the resumed run")
	}
}

func TestRunPostMissingDateWarnsAndInserts(t *testing.T) {
	cfg := testConfig(t)
	rec := recovery.NewStore(cfg.Recovery.Path)
	now := time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)
	raw := "# Sans date\n\nTexte.\n\n---\n\n# Undated\n\nText.\n"

	frag, warnings, err := runPost(cfg, rec, raw, now)
	if err != nil {
		t.Fatalf("runPost: %v", err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want exactly one", warnings)
	}
	if warnings[0].Message != "Can't parse post date, will use today's." {
		t.Errorf("warning message = %q", warnings[0].Message)
	}
	if want := "20260303-undated"; frag.ID != want {
		t.Errorf("frag.ID = %q, want %q", frag.ID, want)
	}
}

func TestPostCommandEmptyInputIsNoOp(t *testing.T) {
	cfg := testConfig(t)

	before, err := os.ReadFile(cfg.Site.Index)
	if err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetIn(strings.NewReader("   \n\t\n"))
	c.SetOut(&out)
	c.SetErr(&errOut)

	if err := runPostCommand(c, cfg, "", true); err != nil {
		t.Fatalf("runPostCommand: %v", err)
	}
	if !strings.Contains(errOut.String(), "No Markdown code given. No post.") {
		t.Errorf("stderr = %q, want the no-post notice", errOut.String())
	}
	if recovery.NewStore(cfg.Recovery.Path).Exists() {
		t.Error("empty input left a recovery file behind")
	}
	after, err := os.ReadFile(cfg.Site.Index)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("index changed on an empty-input run")
	}
}

func TestPostCommandConsumesEmptyRecoveryFile(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Recovery.Path, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetIn(strings.NewReader("must not be read"))
	c.SetOut(&out)
	c.SetErr(&errOut)

	if err := runPostCommand(c, cfg, "", true); err != nil {
		t.Fatalf("runPostCommand: %v", err)
	}
	if !strings.Contains(errOut.String(), "No Markdown code given. No post.") {
		t.Errorf("stderr = %q, want the no-post notice", errOut.String())
	}
	if recovery.NewStore(cfg.Recovery.Path).Exists() {
		t.Error("unusable recovery file was not consumed")
	}
}

func TestPostCommandFromFile(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "post.md")
	if err := os.WriteFile(src, []byte(cmdTestPost), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	c := &cobra.Command{}
	c.SetIn(strings.NewReader("must not be read"))
	c.SetOut(&out)
	c.SetErr(&errOut)

	if err := runPostCommand(c, cfg, src, true); err != nil {
		t.Fatalf("runPostCommand: %v", err)
	}
	if !strings.Contains(out.String(), "=== Taking Markdown code from file "+src+" ===") {
		t.Errorf("stdout = %q, want the file notice", out.String())
	}
	if ids := indexArticleIDs(t, cfg.Site.Index); len(ids) != 1 || ids[0] != "20240115-hello-world" {
		t.Errorf("index article ids = %v", ids)
	}
}

func TestInspectSummary(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "post.md")
	if err := os.WriteFile(src, []byte(cmdTestPost), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	if err := runInspect(c, cfg, src, false); err != nil {
		t.Fatalf("runInspect: %v", err)
	}

	var got inspectSummary
	if err := yaml.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("summary is not valid YAML: %v\n%s", err, out.String())
	}
	if got.Date != "2024-01-15" {
		t.Errorf("date = %q, want %q", got.Date, "2024-01-15")
	}
	if got.ID != "20240115-hello-world" {
		t.Errorf("id = %q, want %q", got.ID, "20240115-hello-world")
	}
	if got.SectionBytes.Primary == 0 || got.SectionBytes.Secondary == 0 || got.SectionBytes.Suffix == 0 {
		t.Errorf("section_bytes = %+v, want all three nonzero", got.SectionBytes)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("warnings = %v, want none", got.Warnings)
	}
}

func TestInspectHTMLLeavesIndexAlone(t *testing.T) {
	cfg := testConfig(t)
	src := filepath.Join(t.TempDir(), "post.md")
	if err := os.WriteFile(src, []byte(cmdTestPost), 0o644); err != nil {
		t.Fatal(err)
	}
	before, err := os.ReadFile(cfg.Site.Index)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	c := &cobra.Command{}
	c.SetOut(&out)

	if err := runInspect(c, cfg, src, true); err != nil {
		t.Fatalf("runInspect: %v", err)
	}
	if !strings.Contains(out.String(), `<a id="20240115-hello-world"></a>`) {
		t.Errorf("html output = %q, want the anchor", out.String())
	}
	if !strings.Contains(out.String(), `<div class="polyglot">`) {
		t.Errorf("html output = %q, want the polyglot wrapper", out.String())
	}

	after, err := os.ReadFile(cfg.Site.Index)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("inspect modified the index")
	}
}

func TestGatherInputInterrupt(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("self-delivered SIGINT is not a thing on windows")
	}

	// Keep the process alive even if the signal lands before
	// gatherInput installs its own handler.
	guard := make(chan os.Signal, 1)
	signal.Notify(guard, syscall.SIGINT)
	defer signal.Stop(guard)

	pr, pw := io.Pipe()
	defer pw.Close()

	c := &cobra.Command{}
	c.SetIn(pr)
	c.SetOut(io.Discard)
	c.SetErr(io.Discard)

	cfg := testConfig(t)
	rec := recovery.NewStore(cfg.Recovery.Path)

	errc := make(chan error, 1)
	go func() {
		_, _, err := gatherInput(c, "", rec)
		errc <- err
	}()

	time.Sleep(100 * time.Millisecond)
	if err := syscall.Kill(os.Getpid(), syscall.SIGINT); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errc:
		if !errors.Is(err, errInterrupted) {
			t.Fatalf("gatherInput error = %v, want errInterrupted", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("gatherInput did not return after SIGINT")
	}
}
