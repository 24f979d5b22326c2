// Package pleer implements the client of the remote music catalog: track search,
// resolution of short-lived play and download links, and fetching of audio and cover data.
// Search pages and resolved links are kept in LRU caches.
package pleer
