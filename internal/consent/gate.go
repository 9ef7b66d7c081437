package consent

import (
	"fmt"
	"io"

	"github.com/extkit-dev/extkit/internal/manifest"
)

// Gate runs the consent protocol for install, overwrite, and run decisions.
type Gate struct {
	prompter Prompter
	out      io.Writer
}

// NewGate creates a Gate that asks through prompter and renders to out.
func NewGate(prompter Prompter, out io.Writer) *Gate {
	return &Gate{prompter: prompter, out: out}
}

// OverwriteRequest describes a pending replacement of an installed extension.
// Versions may be empty when unknown.
type OverwriteRequest struct {
	Name             string
	InstalledVersion string
	NewVersion       string
}

// Title is the question put to the operator.
func (r OverwriteRequest) Title() string {
	title := fmt.Sprintf("Another version of the '%s' extension is already installed.", r.Name)
	if change := r.change(); change != "" {
		title += " " + change
	}
	return title + " Overwrite?"
}

func (r OverwriteRequest) change() string {
	if r.InstalledVersion == "" || r.NewVersion == "" {
		return ""
	}
	cmp, err := manifest.CompareVersions(r.InstalledVersion, r.NewVersion)
	if err != nil {
		return ""
	}
	switch cmp {
	case -1:
		return fmt.Sprintf("This upgrades %s to %s.", r.InstalledVersion, r.NewVersion)
	case 1:
		return fmt.Sprintf("This downgrades %s to %s.", r.InstalledVersion, r.NewVersion)
	default:
		return fmt.Sprintf("Both copies are version %s but their contents differ.", r.NewVersion)
	}
}

// ConfirmOverwrite asks before replacing an installed extension. The default
// answer is yes.
func (g *Gate) ConfirmOverwrite(req OverwriteRequest, preapproved bool) error {
	switch Decide(true, preapproved, g.prompter.IsInteractive()) {
	case Skip:
		return nil
	case FailClosed:
		return fmt.Errorf("%w: refusing to overwrite %s", ErrNonInteractive, req.Name)
	}

	ok, err := g.prompter.Confirm(req.Title(), true)
	if err != nil {
		return fmt.Errorf("asking to overwrite %s: %w", req.Name, err)
	}
	if !ok {
		return fmt.Errorf("%w: install of %s aborted", ErrDeclined, req.Name)
	}
	return nil
}

// ConfirmPermissions asks the operator to grant perms to the named extension.
// Nothing is asked when no category is requested. The default answer is no.
func (g *Gate) ConfirmPermissions(name string, perms manifest.Permissions, preapproved bool) error {
	switch Decide(!perms.IsAllowNone(), preapproved, g.prompter.IsInteractive()) {
	case Skip:
		return nil
	case FailClosed:
		RenderPermissions(g.out, name, perms)
		fmt.Fprintln(g.out)
		return fmt.Errorf("%w: cannot ask to grant permissions to %s", ErrNonInteractive, name)
	}

	RenderPermissions(g.out, name, perms)
	fmt.Fprintln(g.out)

	ok, err := g.prompter.Confirm("Do you accept?", false)
	if err != nil {
		return fmt.Errorf("asking for permissions of %s: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("%w: permissions not granted to %s", ErrDeclined, name)
	}
	return nil
}
