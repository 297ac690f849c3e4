// Package preflight provides readiness checks for the filesystem paths and
// settings tunefolder depends on.
//
// The CLI "tunefolder config validate" command runs RunAll and prints one
// status line per result. Checks never modify anything on disk.
package preflight
