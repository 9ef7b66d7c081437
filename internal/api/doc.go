// Package api provides the authenticated handle extensions use to reach the
// extkit API. Handles are obtained through a Provider so that commands which
// never touch the API never need credentials.
package api
