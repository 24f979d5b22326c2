// Package player streams tracks through an external media player process
// and checks that the required executables are installed.
package player
