// Package userdata resolves the on-disk locations extkit keeps under
// ~/.extkit/: the installed extensions root and the permission grant record.
package userdata
