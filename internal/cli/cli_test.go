package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/cardmatch/internal/card"
	"github.com/ironsheep/cardmatch/internal/config"
	"github.com/ironsheep/cardmatch/internal/pipeline"
	"github.com/ironsheep/cardmatch/internal/rank"
)

var testInfo = BuildInfo{Version: "1.2.3", BuildTime: "today", GitCommit: "abc123"}

// isolate points the default config lookup at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvLogLevel, "")
}

// run executes the command line with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(testInfo)
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(""))
	err := cmd.Execute()
	return out.String(), err
}

// writeSharpConfig writes a config file that disables blurring.
func writeSharpConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("blur_radius = 0.0\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// writeScene writes a black PNG with one white card carrying a black rank
// mark in its top-left corner.
func writeScene(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.Black}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(50, 40, 111, 116), &image.Uniform{color.White}, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(56, 46, 64, 56), &image.Uniform{color.Black}, image.Point{}, draw.Src)

	path := filepath.Join(t.TempDir(), "scene.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create scene: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode scene: %v", err)
	}
	return path
}

// writeBlankTemplates fills dir with an empty glyph for every rank.
func writeBlankTemplates(t *testing.T, dir string) {
	t.Helper()
	blank := image.NewGray(image.Rect(0, 0, card.GlyphWidth, card.GlyphHeight))
	for _, name := range card.Ranks {
		if _, err := rank.SaveTemplate(dir, name, blank); err != nil {
			t.Fatalf("SaveTemplate %s: %v", name, err)
		}
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	for _, want := range []string{"cardmatch 1.2.3", "today", "abc123", "Backend:    " + pipeline.Backend()} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCaptureThenDetect(t *testing.T) {
	isolate(t)
	cfgPath := writeSharpConfig(t)
	scene := writeScene(t)
	dir := t.TempDir()
	writeBlankTemplates(t, dir)

	out, err := run(t, "--config", cfgPath, "templates", "capture", "--rank", "King", "--out", dir, scene)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if !strings.Contains(out, "King.png") {
		t.Errorf("capture output: %s", out)
	}

	out, err = run(t, "--config", cfgPath, "detect", "--templates", dir, "--format", "json", scene)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	var report pipeline.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("detect output is not JSON: %v\n%s", err, out)
	}
	if len(report.Cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(report.Cards))
	}
	c := report.Cards[0]
	if c.Rank != "King" || !c.Recognized || c.Score > 1 {
		t.Errorf("got %s/%v recognized=%v, want King", c.Rank, c.Score, c.Recognized)
	}
	if report.Image != scene || report.Width != 200 {
		t.Errorf("unexpected report header %+v", report)
	}
}

func TestDetect_Annotate(t *testing.T) {
	isolate(t)
	scene := writeScene(t)
	dir := t.TempDir()
	writeBlankTemplates(t, dir)
	annotated := filepath.Join(t.TempDir(), "out.png")

	out, err := run(t, "--config", writeSharpConfig(t), "detect", "-t", dir, "-f", "yaml", "-a", annotated, scene)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !strings.Contains(out, "cards:") {
		t.Errorf("expected YAML report, got:\n%s", out)
	}
	if _, err := os.Stat(annotated); err != nil {
		t.Errorf("annotated image not written: %v", err)
	}
}

func TestDetect_Errors(t *testing.T) {
	isolate(t)
	scene := writeScene(t)
	templates := t.TempDir()
	writeBlankTemplates(t, templates)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing templates", []string{"detect", "--templates", t.TempDir(), scene}, "failed to load templates"},
		{"missing image", []string{"detect", "--templates", templates, "/nonexistent/scene.png"}, "failed to open image"},
		{"bad format", []string{"detect", "--templates", templates, "--format", "xml", scene}, "unknown format"},
		{"bad threshold", []string{"detect", "--templates", templates, "--threshold=-1", scene}, "rank_reject_threshold"},
		{"bad log level", []string{"--log-level", "loud", "detect", scene}, "log_level"},
		{"no image", []string{"detect"}, "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestTemplatesCheck(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeBlankTemplates(t, dir)

	out, err := run(t, "templates", "check", dir)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "All 13 templates are usable") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if err := os.Remove(filepath.Join(dir, "Seven.png")); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "templates", "check", dir)
	if err == nil {
		t.Fatal("expected failure with a missing template")
	}
	if !strings.Contains(err.Error(), "1 of 13") || !strings.Contains(out, "Seven") {
		t.Errorf("error %v, output:\n%s", err, out)
	}
}

func TestTemplatesCapture_Errors(t *testing.T) {
	isolate(t)
	scene := writeScene(t)

	_, err := run(t, "templates", "capture", "--rank", "Joker", "--out", t.TempDir(), scene)
	if err == nil || !strings.Contains(err.Error(), "unknown rank name") {
		t.Errorf("expected unknown rank error, got %v", err)
	}

	_, err = run(t, "templates", "capture", "--out", t.TempDir(), scene)
	if err == nil || !strings.Contains(err.Error(), "rank") {
		t.Errorf("expected required flag error, got %v", err)
	}
}

// writeStaleJPEG puts a blank JPEG template for name into dir.
func writeStaleJPEG(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".jpg")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, image.NewGray(image.Rect(0, 0, card.GlyphWidth, card.GlyphHeight)), nil); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestTemplatesCapture_StaleJPEG(t *testing.T) {
	isolate(t)
	cfgPath := writeSharpConfig(t)
	scene := writeScene(t)
	dir := t.TempDir()
	stale := writeStaleJPEG(t, dir, "King")

	_, err := run(t, "--config", cfgPath, "templates", "capture", "--rank", "King", "--out", dir, scene)
	if !errors.Is(err, rank.ErrTemplateShadowed) || !strings.Contains(err.Error(), "--replace") {
		t.Fatalf("expected shadowed template error, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "King.png")); !os.IsNotExist(err) {
		t.Error("refused capture should not write King.png")
	}

	out, err := run(t, "--config", cfgPath, "templates", "capture", "--rank", "King", "--replace", "--out", dir, scene)
	if err != nil {
		t.Fatalf("capture --replace: %v", err)
	}
	if !strings.Contains(out, "Removed "+stale) || !strings.Contains(out, "King.png") {
		t.Errorf("capture output: %s", out)
	}
	if path, err := rank.TemplatePath(dir, "King"); err != nil || filepath.Base(path) != "King.png" {
		t.Errorf("TemplatePath after replace: %s, %v", path, err)
	}
}

func TestTemplatesCheck_ReportsIgnoredFiles(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeBlankTemplates(t, dir)
	writeStaleJPEG(t, dir, "Five")

	out, err := run(t, "templates", "check", dir)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Five.jpg") || !strings.Contains(out, "Five.png is ignored") {
		t.Errorf("check should name the loaded file and the ignored one:\n%s", out)
	}
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "cardmatch", "config.toml")

	if _, err := run(t, "config", "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := run(t, "config", "init", path); err == nil {
		t.Error("init should refuse to overwrite")
	}
	if _, err := run(t, "config", "init", "--force", path); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := run(t, "--config", path, "--log-level", "debug", "config", "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, `log_level = "debug"`) || !strings.Contains(out, "card_min_area") {
		t.Errorf("unexpected config output:\n%s", out)
	}
}

func TestServe(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeBlankTemplates(t, dir)

	var out bytes.Buffer
	cmd := NewRootCmd(testInfo)
	cmd.SetArgs([]string{"serve", "--templates", dir})
	cmd.SetIn(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize"}` + "\n"))
	cmd.SetOut(&out)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if !strings.Contains(out.String(), `"cardmatch"`) || !strings.Contains(out.String(), "1.2.3") {
		t.Errorf("unexpected initialize response: %s", out.String())
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"table", "table", false},
		{"json", "json", false},
		{"yaml", "yaml", false},
		{"", "yaml", false}, // a buffer is not a terminal
		{"csv", "", true},
	}

	for _, tt := range tests {
		got, err := resolveFormat(tt.in, &bytes.Buffer{})
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveFormat(%q): err %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("resolveFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteTable(t *testing.T) {
	report := pipeline.Report{
		Image:  "table.jpg",
		Width:  640,
		Height: 480,
		Cards: []pipeline.CardReport{
			{Index: 0, Rank: "Queen", Score: 4.5, Recognized: true, Orientation: "vertical", Area: 40000, OCR: "Queen"},
			{Index: 1, Rank: card.Unrecognized, Score: 48, Orientation: "horizontal", Area: 38000},
		},
	}

	var buf bytes.Buffer
	if err := writeReport(&buf, formatTable, report); err != nil {
		t.Fatalf("writeReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"640x480", "2 cards, 1 recognized", "Queen", "unrecognized", "ocr=Queen", "horizontal"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
