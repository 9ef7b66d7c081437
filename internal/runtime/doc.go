// Package runtime executes extensions. The default runtime embeds a JavaScript
// engine and exposes a small host object to the script; the node runtime runs
// the entrypoint with a Node.js subprocess. DispatchRuntime selects one based
// on the manifest's runtime field.
package runtime
