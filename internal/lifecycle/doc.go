// Package lifecycle decides which invoice actions are offered for a given
// status. Actions are plain data: each descriptor carries an eligibility rule
// (a status set plus an IN/OUT membership mode) and the resolver only tests
// the current status against that rule. It never changes a status; applying
// an action is left to the caller.
//
// A Registry is built once and never mutated, so it can be shared across
// goroutines without locking.
package lifecycle
