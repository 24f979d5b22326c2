package pleer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// fetchJSON sends params to uri and decodes the JSON answer.
// GET requests carry params in the query string, POST requests as a form body.
//
//nolint:revive // Has no sense, it's cause Go doesn't allow struct methods to be generic.
func fetchJSON[T any](
	ctx context.Context,
	c *ClientImpl,
	method string,
	uri string,
	params url.Values,
) (*T, error) {
	route, err := url.JoinPath(c.baseURL, uri)
	if err != nil {
		return nil, err
	}

	var request *http.Request

	switch method {
	case http.MethodPost:
		request, err = http.NewRequestWithContext(ctx, method, route, strings.NewReader(params.Encode()))
		if err != nil {
			return nil, err
		}

		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		request.Header.Set("X-Requested-With", "XMLHttpRequest")
	default:
		request, err = http.NewRequestWithContext(ctx, method, route, http.NoBody)
		if err != nil {
			return nil, err
		}

		request.URL.RawQuery = params.Encode()
	}

	request.Header.Set("Accept", "application/json")

	response, err := c.apiClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer response.Body.Close() //nolint:errcheck // Error on close is not critical here.

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedHTTPStatus, response.StatusCode)
	}

	var result T
	if err = json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}
