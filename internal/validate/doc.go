// Package validate checks a cue timeline against delivery rules and applies
// the subset of fixes that are safe to do mechanically.
//
// Findings are never dropped: each check reports at error or warning level,
// and the fixer keeps a separate list of conditions it recognized but could
// not repair, which need a human pass.
package validate
