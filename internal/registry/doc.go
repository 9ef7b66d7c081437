// Package registry manages the directory of installed extensions. Each
// extension lives in a subdirectory named after it; entries starting with a
// dot hold in-flight staging and backup copies and are never listed. Installs
// are copied into a staging directory first and then swapped into place.
package registry
