// Package pms implements the search, stream and download workflow on top of the catalog client,
// the external player and the history store, together with the interactive console session.
package pms
