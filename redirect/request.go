package redirect

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Request describes the part of an incoming HTTP request the resolver uses.
type Request struct {
	// URI is the request path, without query string. Empty when the host did
	// not provide one.
	URI string
}

type edgeEvent struct {
	Request *struct {
		URI *string `json:"uri"`
	} `json:"request"`
}

// ParseEvent decodes an edge viewer-request event into a Request. A missing
// request object or uri field decodes to an empty URI. Only malformed JSON is
// an error.
func ParseEvent(data []byte) (Request, error) {
	var ev edgeEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return Request{}, errors.Wrap(err, "decode edge event")
	}
	if ev.Request == nil || ev.Request.URI == nil {
		return Request{}, nil
	}
	return Request{URI: *ev.Request.URI}, nil
}
