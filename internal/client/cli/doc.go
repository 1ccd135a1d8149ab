// Package cli provides the interactive Vignaraja command-line client.
//
// It wires configuration, the remote document store and the community
// services into a REPL. Members log in (or register) with name, password,
// phone and photo; the admin signs in with the configured credential and
// manages payments, the vault override and the gallery. While signed in,
// the member list, vault total and gallery size are re-rendered whenever
// any client changes them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
