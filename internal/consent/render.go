package consent

import (
	"fmt"
	"io"

	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/fatih/color"
)

var (
	wildcardStyle = color.New(color.FgYellow, color.Bold)
	labelStyle    = color.New(color.FgBlue, color.Bold)
)

// RenderPermissions writes the human-readable permission request for an
// extension. Categories that are not requested are left out; wildcards are
// highlighted as warnings and allow-list entries are quoted one per line.
func RenderPermissions(w io.Writer, name string, perms manifest.Permissions) {
	fmt.Fprintf(w, "The `%s` extension requires the following permissions:\n", name)

	for _, c := range perms.Categories() {
		list, ok := c.Permission.Get()
		if !ok {
			continue
		}

		if len(list) == 0 {
			fmt.Fprintf(w, "\n  %s\n", wildcardStyle.Sprintf("%s any %s", c.Label, c.Resource))
			continue
		}

		fmt.Fprintf(w, "\n  %s the following %ss:\n", labelStyle.Sprint(c.Label), c.Resource)
		for _, pattern := range list {
			fmt.Fprintf(w, "    '%s'\n", pattern)
		}
	}
}
