// Package consent decides when the operator has to approve an extension
// action and asks them. The decision itself is pure (Decide); terminal I/O
// sits behind the Prompter interface so callers can script answers. Granted
// permission sets are remembered in a YAML grant store so a run by name only
// prompts again when an extension's permissions change.
package consent
