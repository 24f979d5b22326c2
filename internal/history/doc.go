// Package history records searches, playbacks and downloads in a local SQLite database
// so they can be listed later with "pms history".
package history
