// Package services contains the client application services: account and
// session handling, vault operations over encrypted records, and backup
// export/import.
//
// Every operation takes the *session.Profile it acts on. Server calls go
// through small interfaces so tests can substitute fakes for *api.Client.
package services
