// Package app wires the catalog client, history store, external player and the pms
// service together and runs them for each command line entry point.
package app
