package installer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPromptPickerAcceptsDirectory(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	p := &PromptPicker{In: strings.NewReader(dir + "\n"), Out: &out}

	got, ok, err := p.Prompt(".")
	if err != nil || !ok {
		t.Fatalf("Prompt=%q,%t,%v", got, ok, err)
	}
	if got != dir {
		t.Fatalf("dir=%q want=%q", got, dir)
	}
}

func TestPromptPickerResolvesRelativeToInitial(t *testing.T) {
	base := t.TempDir()
	if err := os.Mkdir(filepath.Join(base, "Neos"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	p := &PromptPicker{In: strings.NewReader("Neos\n"), Out: &bytes.Buffer{}}

	got, ok, err := p.Prompt(base)
	if err != nil || !ok || got != filepath.Join(base, "Neos") {
		t.Fatalf("Prompt=%q,%t,%v", got, ok, err)
	}
}

func TestPromptPickerBlankCancels(t *testing.T) {
	p := &PromptPicker{In: strings.NewReader("\n"), Out: &bytes.Buffer{}}
	if got, ok, err := p.Prompt("."); ok || err != nil || got != "" {
		t.Fatalf("Prompt=%q,%t,%v", got, ok, err)
	}
}

func TestPromptPickerEOFCancels(t *testing.T) {
	p := &PromptPicker{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	if _, ok, err := p.Prompt("."); ok || err != nil {
		t.Fatalf("Prompt ok=%t err=%v", ok, err)
	}
}

func TestPromptPickerRetriesInvalidDirectory(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	p := &PromptPicker{In: strings.NewReader("/no/such/dir\n" + dir + "\n"), Out: &out}

	got, ok, err := p.Prompt(".")
	if err != nil || !ok || got != dir {
		t.Fatalf("Prompt=%q,%t,%v", got, ok, err)
	}
	if !strings.Contains(out.String(), "Not a directory: /no/such/dir") {
		t.Fatalf("missing rejection message: %q", out.String())
	}
}
