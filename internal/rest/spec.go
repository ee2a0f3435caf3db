// Package rest implements the REST adapter protocol: per-exchange
// endpoint specs, response adapters, and a runner with retries, circuit
// breaking, rate limiting, and chunked OHLCV pagination.
//
// Grounded on original_source/laakhay/data/connectors/okx/rest/endpoints/
// futures/open_interest_hist.py (EndpointSpec/ResponseAdapter shape) and
// an HTTP client/guard idiom of retry, circuit breaking, and rate
// limiting composed around a single *http.Client.
package rest

// Params is the loosely-typed argument bag an endpoint spec's builders
// consume; it mirrors the router's post-normalization keyword arguments
// (internal/router).
type Params map[string]any

// EndpointSpec declares how to build one REST request. All public
// endpoints in scope are GET.
type EndpointSpec struct {
	ID         string
	Method     string
	BuildPath  func(p Params) (string, error)
	BuildQuery func(p Params) (map[string]string, error)
}

// ResponseAdapter parses a raw HTTP response body into canonical domain
// record(s), performing any exchange-specific envelope unwrapping and error
// surfacing.
type ResponseAdapter interface {
	Parse(body []byte, p Params) (any, error)
}

// ResponseAdapterFunc adapts a plain function to ResponseAdapter.
type ResponseAdapterFunc func(body []byte, p Params) (any, error)

func (f ResponseAdapterFunc) Parse(body []byte, p Params) (any, error) { return f(body, p) }
