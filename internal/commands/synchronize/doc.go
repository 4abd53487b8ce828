// Package synchronize implements the "sync" command: one reconciliation
// pass over the extensions root, launch-argument derivation and an
// optional container restart.
package synchronize
