package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	if _, err := fmt.Fprintf(a.out, "%s: ", label); err != nil {
		return "", err
	}
	line, err := a.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptSecret reads without echo when stdin is a terminal and falls back to
// a plain line read otherwise.
func (a *App) promptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !a.forceLineInput && term.IsTerminal(fd) {
		if _, err := fmt.Fprintf(a.out, "%s: ", label); err != nil {
			return "", err
		}
		pw, err := readPassword(fd)
		fmt.Fprintln(a.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	return a.prompt(label)
}

// orPrompt returns value when set and asks for it otherwise.
func (a *App) orPrompt(value, label string, secret bool) (string, error) {
	if value != "" {
		return value, nil
	}
	if secret {
		return a.promptSecret(label)
	}
	return a.prompt(label)
}

func newReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
