package installer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const maxPromptAttempts = 3

// PromptPicker asks for a directory on a terminal. A blank answer or end of
// input cancels.
type PromptPicker struct {
	In  io.Reader
	Out io.Writer
}

// Prompt reads a directory path, resolving relative answers against initial.
// Answers that are not existing directories are rejected and asked again.
func (p *PromptPicker) Prompt(initial string) (string, bool, error) {
	r := bufio.NewReader(p.In)
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		fmt.Fprint(p.Out, "Neos directory (blank to cancel): ")

		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", false, err
		}
		answer := strings.TrimSpace(line)
		if answer == "" {
			if errors.Is(err, io.EOF) && line == "" {
				fmt.Fprintln(p.Out)
			}
			return "", false, nil
		}

		dir := answer
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(initial, dir)
		}
		dir, absErr := filepath.Abs(dir)
		if absErr != nil {
			return "", false, absErr
		}
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			return dir, true, nil
		}

		fmt.Fprintf(p.Out, "Not a directory: %s\n", dir)
		if errors.Is(err, io.EOF) {
			return "", false, nil
		}
	}
	return "", false, nil
}
