package consent

import (
	"errors"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Prompter is the terminal capability the consent protocol needs.
type Prompter interface {
	// IsInteractive reports whether a human can answer.
	IsInteractive() bool
	// Confirm asks a yes/no question, preselecting def.
	Confirm(title string, def bool) (bool, error)
}

// TerminalPrompter asks questions on the controlling terminal.
type TerminalPrompter struct {
	in  *os.File
	out *os.File
}

// NewTerminalPrompter creates a TerminalPrompter bound to stdin and stdout.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{in: os.Stdin, out: os.Stdout}
}

// IsInteractive checks that both stdin and stdout are terminals, so a prompt
// can neither hang a pipeline nor be answered by piped input.
func (p *TerminalPrompter) IsInteractive() bool {
	return term.IsTerminal(int(p.in.Fd())) && term.IsTerminal(int(p.out.Fd()))
}

// Confirm shows a yes/no confirmation. Aborting the form with Ctrl-C counts as no.
func (p *TerminalPrompter) Confirm(title string, def bool) (bool, error) {
	answer := def
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(&answer),
		),
	)

	err := form.Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return answer, nil
}
