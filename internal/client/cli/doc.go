// Package cli is the passvault command-line client.
//
// A cobra root command wires configuration, the profile database, the
// key manager and the services, then either runs one subcommand or drops
// into an interactive REPL (the default). Both paths call the same App
// methods.
//
// The profile key is created on first use and never leaves the profile
// database. If it is corrupt the client says so loudly and refuses vault
// operations instead of showing an empty vault.
package cli
