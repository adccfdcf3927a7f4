// Package pkgroutine runs bounded background work.
//
// A Manager caps how many tasks run at once, turns panics into errors and
// hands every failure back from Wait, so shutdown can report what went wrong.
package pkgroutine
