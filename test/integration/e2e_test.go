//go:build integration

package integration_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/extkit-dev/extkit/internal/api"
	"github.com/extkit-dev/extkit/internal/consent"
	"github.com/extkit-dev/extkit/internal/extension"
	"github.com/extkit-dev/extkit/internal/manifest"
	"github.com/extkit-dev/extkit/internal/registry"
	"github.com/extkit-dev/extkit/internal/runtime"
	"github.com/extkit-dev/extkit/internal/scaffold"
)

// TestFullFlow covers the lifecycle of one extension:
// scaffold -> consent -> install -> run by name -> upgrade -> uninstall.
func TestFullFlow(t *testing.T) {
	env := setupTestEnv(t)
	reg := env.registry()
	grants := env.grants()

	// Step 1: Scaffold a new extension and give it a permission.
	src := filepath.Join(env.SourceDir, "greeter")
	if _, err := scaffold.New(src, manifest.RuntimeJS); err != nil {
		t.Fatalf("scaffold.New: %v", err)
	}
	writeFile(t, filepath.Join(src, manifest.FileName), `name = "greeter"
version = "1.0.0"
description = "Says hello"

[permissions]
net = ["api.example.com"]
`)
	writeFile(t, filepath.Join(src, manifest.DefaultEntryPoint), `console.log("hello", host.args.join(" "));`)

	ext, err := extension.Load(src)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Step 2: Consent fails closed without a terminal, then succeeds when accepted.
	var rendered bytes.Buffer
	gate := consent.NewGate(&fixedPrompter{}, &rendered)
	if err := gate.ConfirmPermissions(ext.Name(), ext.Permissions(), false); !errors.Is(err, consent.ErrNonInteractive) {
		t.Fatalf("expected ErrNonInteractive, got %v", err)
	}
	if !strings.Contains(rendered.String(), "'api.example.com'") {
		t.Errorf("permissions not rendered:\n%s", rendered.String())
	}

	prompter := &fixedPrompter{interactive: true, answer: true}
	if err := consent.NewGate(prompter, &bytes.Buffer{}).ConfirmPermissions(ext.Name(), ext.Permissions(), false); err != nil {
		t.Fatalf("ConfirmPermissions: %v", err)
	}

	// Step 3: Install and record the grant.
	result, err := reg.Install(ext, false)
	if err != nil {
		t.Fatalf("Install: %v", err)
	}
	if result != registry.Installed {
		t.Errorf("result = %v, want Installed", result)
	}
	if err := grants.Record(ext.Name(), ext.Version(), ext.Permissions()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	assertFileExists(t, filepath.Join(env.ExtensionsDir, "greeter", manifest.FileName))
	assertFileExists(t, filepath.Join(env.ExtensionsDir, "greeter", "README.md"))
	assertFileContains(t, env.GrantsFile, "api.example.com")

	// Step 4: Run by name through the registry.
	installed, err := reg.Resolve(extension.FromName("greeter"))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	covered, err := grants.Covers(installed.Name(), installed.Permissions())
	if err != nil || !covered {
		t.Fatalf("grant should cover installed copy: covered=%v err=%v", covered, err)
	}
	var out bytes.Buffer
	rt := runtime.DispatchRuntime(installed.Runtime(), runtime.Options{HostVersion: "test", Stdout: &out})
	if err := rt.Run(context.Background(), installed, api.Lazy(api.FromConfig()), []string{"world"}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out.String()) != "hello world" {
		t.Errorf("output = %q", out.String())
	}

	// Step 5: A new version differs and needs overwrite.
	writeFile(t, filepath.Join(src, manifest.FileName), `name = "greeter"
version = "1.1.0"
description = "Says hello"

[permissions]
net = ["api.example.com"]
`)
	upgraded, err := extension.Load(src)
	if err != nil {
		t.Fatalf("Load upgraded: %v", err)
	}
	status, prior, err := reg.Status(upgraded)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status != registry.Differs || prior.Version() != "1.0.0" {
		t.Errorf("status = %v prior = %s", status, prior.Version())
	}
	if _, err := reg.Install(upgraded, false); !errors.Is(err, registry.ErrAlreadyInstalled) {
		t.Errorf("expected ErrAlreadyInstalled, got %v", err)
	}
	if result, err := reg.Install(upgraded, true); err != nil || result != registry.Replaced {
		t.Fatalf("Install overwrite: result=%v err=%v", result, err)
	}
	assertFileContains(t, filepath.Join(env.ExtensionsDir, "greeter", manifest.FileName), "1.1.0")
	assertFileNotExists(t, filepath.Join(env.ExtensionsDir, ".greeter.backup"))

	// Step 6: Uninstall removes the directory and the grant.
	if err := reg.Uninstall("greeter"); err != nil {
		t.Fatalf("Uninstall: %v", err)
	}
	if err := grants.Forget("greeter"); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	assertFileNotExists(t, filepath.Join(env.ExtensionsDir, "greeter"))
	exts, err := reg.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(exts) != 0 {
		t.Errorf("expected empty registry, got %d extensions", len(exts))
	}
}
