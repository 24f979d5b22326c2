package pleer

import "time"

const (
	// searchURI is the URI path of the search endpoint.
	searchURI = "browser-extension/search"
	// trackURLURI is the URI path of the link resolution endpoint.
	trackURLURI = "site_api/files/get_url"
)

const (
	// searchCacheSize is the number of search pages kept in memory.
	searchCacheSize = 256
	// trackURLCacheSize is the number of resolved links kept in memory.
	trackURLCacheSize = 1024
	// trackURLCacheTTL is how long a resolved link is reused. The service expires links after a while.
	trackURLCacheTTL = 10 * time.Minute
)
