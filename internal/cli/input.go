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

// terminalPassword reads from the controlling terminal without echo.
func terminalPassword() ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal: pass --password")
	}
	return term.ReadPassword(fd)
}

// prompter reads answers from one buffered reader so successive prompts do
// not lose input.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (a *app) prompter() *prompter {
	return &prompter{r: bufio.NewReader(a.in), w: a.errOut}
}

// line prints label and reads one trimmed line. A final line without a
// newline still counts.
func (p *prompter) line(label string) (string, error) {
	fmt.Fprintf(p.w, "%s: ", label)
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(s), nil
}

// secret prompts through read and prints the newline the terminal swallowed.
func (p *prompter) secret(label string, read func() ([]byte, error)) (string, error) {
	fmt.Fprintf(p.w, "%s: ", label)
	b, err := read()
	fmt.Fprintln(p.w)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", strings.ToLower(label), err)
	}
	return string(b), nil
}
