// Package types holds the data model shared across the module: messages,
// session state, and checkpoints.
package types
