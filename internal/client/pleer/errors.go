package pleer

import "errors"

// Static error definitions for better error handling.
var (
	// ErrUnexpectedHTTPStatus indicates an unexpected HTTP status code was received.
	ErrUnexpectedHTTPStatus = errors.New("unexpected HTTP status")
	// ErrEmptyQuery indicates that a search was requested without a search term.
	ErrEmptyQuery = errors.New("search query cannot be empty")
	// ErrSearchFailed indicates that the service reported an unsuccessful search.
	ErrSearchFailed = errors.New("search failed")
	// ErrEmptyTrackID indicates that a link was requested without a track id.
	ErrEmptyTrackID = errors.New("track id cannot be empty")
	// ErrTrackURLNotFound indicates that the service returned no link for a track.
	ErrTrackURLNotFound = errors.New("track link not found")
	// ErrInvalidFlexibleValue indicates a JSON value that is neither a number nor a numeric string.
	ErrInvalidFlexibleValue = errors.New("invalid numeric value")
)
