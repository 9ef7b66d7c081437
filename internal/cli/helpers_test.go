package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/fatih/color"
	"github.com/spf13/viper"
)

func init() {
	color.NoColor = true
}

// scriptedPrompter answers Confirm from a fixed list and records each title.
type scriptedPrompter struct {
	interactive bool
	answers     []bool
	titles      []string
}

func (p *scriptedPrompter) IsInteractive() bool { return p.interactive }

func (p *scriptedPrompter) Confirm(title string, def bool) (bool, error) {
	p.titles = append(p.titles, title)
	if len(p.answers) == 0 {
		return def, nil
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

type testEnv struct {
	home     string
	root     string
	grants   string
	prompter *scriptedPrompter
}

// setupEnv points the registry and grant store into a temp home and installs
// a non-interactive prompter.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	env := &testEnv{
		home:     home,
		root:     filepath.Join(home, "extensions"),
		grants:   filepath.Join(home, "grants.yaml"),
		prompter: &scriptedPrompter{},
	}
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("EXTKIT_EXTENSIONS", env.root)
	t.Setenv("EXTKIT_GRANTS", env.grants)
	t.Setenv("EXTKIT_API_TOKEN", "")

	prev := newPrompter
	newPrompter = func() consent.Prompter { return env.prompter }
	t.Cleanup(func() {
		newPrompter = prev
		viper.Reset()
	})
	return env
}

func (e *testEnv) grantStore() *consent.GrantStore {
	return consent.NewGrantStore(e.grants)
}

func resetFlags() {
	verbose = false
	installYes = false
	installAcceptPermissions = false
	installOverwrite = false
	runYes = false
	listJSON = false
	newRuntime = manifest.RuntimeJS
	versionShort = false
	versionJSON = false
}

// executeCommand runs rootCmd with args and returns what it wrote.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeExtension creates an extension source directory under parent.
func writeExtension(t *testing.T, parent, name, version, permissions, script string) string {
	t.Helper()
	dir := filepath.Join(parent, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	body := fmt.Sprintf("name = %q\nversion = %q\ndescription = \"The %s extension\"\n", name, version, name)
	if permissions != "" {
		body += "\n[permissions]\n" + permissions + "\n"
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.FileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.DefaultEntryPoint), []byte(script), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func installedVersion(t *testing.T, env *testEnv, name string) string {
	t.Helper()
	m, err := manifest.ParseFile(filepath.Join(env.root, name, manifest.FileName))
	if err != nil {
		t.Fatalf("reading installed manifest: %v", err)
	}
	return m.Version
}
