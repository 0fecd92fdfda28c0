// Package process starts detached child processes from a single argument
// string.
package process

import (
	"fmt"
	"strings"

	"github.com/neosplus/neosplus-launcher/internal/logging"
)

// Starter launches processes and forgets about them.
type Starter struct{}

// Start runs executable with args in dir and returns once the process has
// been created. The child is not waited on.
func (Starter) Start(executable, args, dir string) error {
	cmd := command(executable, args)
	cmd.Dir = dir

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", executable, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		logging.Debugf("Verbose: releasing pid=%d: %v\n", pid, err)
	}
	logging.Debugf("Verbose: started pid=%d exe=%q\n", pid, executable)
	return nil
}

// SplitArgs splits a command-line string using the Windows/.NET rules that
// the argument strings are written for: whitespace separates arguments,
// double quotes group, 2n backslashes before a quote yield n backslashes and
// toggle quoting, 2n+1 yield n backslashes and a literal quote, and
// backslashes elsewhere are literal. Single quotes have no meaning.
func SplitArgs(s string) []string {
	var (
		args     []string
		cur      strings.Builder
		inArg    bool
		inQuotes bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\':
			n := 0
			for i < len(s) && s[i] == '\\' {
				n++
				i++
			}
			inArg = true
			if i < len(s) && s[i] == '"' {
				cur.WriteString(strings.Repeat(`\`, n/2))
				if n%2 == 1 {
					cur.WriteByte('"')
					continue
				}
			} else {
				cur.WriteString(strings.Repeat(`\`, n))
			}
			i--
		case c == '"':
			inArg = true
			if inQuotes && i+1 < len(s) && s[i+1] == '"' {
				cur.WriteByte('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case (c == ' ' || c == '\t') && !inQuotes:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			inArg = true
			cur.WriteByte(c)
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}
