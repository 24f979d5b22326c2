// Package utils holds small helpers shared by the catalog client, the download
// pipeline and the interactive session: filename sanitizing, query normalization,
// duration formatting, randomized pauses and content type checks.
package utils
