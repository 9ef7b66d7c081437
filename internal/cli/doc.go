// Package cli defines the Cobra command tree for the extkit CLI. Built-in
// commands live under `extension`, `config` and `version`; every installed
// extension is also mounted as a top-level command at startup. Command
// implementations delegate to internal packages and only handle flag parsing,
// output formatting, and consent prompts.
package cli
