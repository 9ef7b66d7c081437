package consent

import (
	"errors"

	"github.com/fatih/color"
)

func init() {
	// Keep rendered output free of escape codes in assertions.
	color.NoColor = true
}

// scriptedPrompter answers Confirm from a fixed list and records every question.
type scriptedPrompter struct {
	interactive bool
	answers     []bool
	err         error

	titles   []string
	defaults []bool
}

func (p *scriptedPrompter) IsInteractive() bool { return p.interactive }

func (p *scriptedPrompter) Confirm(title string, def bool) (bool, error) {
	p.titles = append(p.titles, title)
	p.defaults = append(p.defaults, def)
	if p.err != nil {
		return false, p.err
	}
	if len(p.answers) == 0 {
		return false, errors.New("unexpected prompt: " + title)
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}
