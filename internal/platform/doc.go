// Package platform provides cross-platform filesystem operations: permission
// management and the backup/rename/rollback directory swap used to replace an
// installed extension without leaving a half-written copy behind.
package platform
