// Package manifest handles parsing, validation, and serialization of extension
// manifests (extkit.toml). Manifests are checked against an embedded JSON
// Schema before they are decoded, and each permission category is modeled as
// a three-state value so that "not requested", "anything", and an explicit
// allow-list stay distinct.
package manifest
