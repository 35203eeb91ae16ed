package redirect

import (
	"encoding/json"
	"net/http"
)

// Kind tags the variant of a Response.
type Kind int

const (
	// KindNotFound answers with 404 Not Found.
	KindNotFound Kind = iota
	// KindRedirect answers with 302 Found and a Location header.
	KindRedirect
)

func (k Kind) String() string {
	switch k {
	case KindRedirect:
		return "redirect"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Response is what the host turns into an HTTP response. Build it with
// [Redirect] or [NotFound].
type Response struct {
	Kind              Kind
	StatusCode        int
	StatusDescription string
	// Location is only set for KindRedirect.
	Location string
}

// Redirect returns a 302 response pointing at target. The target is used
// verbatim.
func Redirect(target string) Response {
	return Response{
		Kind:              KindRedirect,
		StatusCode:        http.StatusFound,
		StatusDescription: "Found",
		Location:          target,
	}
}

// NotFound returns a 404 response.
func NotFound() Response {
	return Response{
		Kind:              KindNotFound,
		StatusCode:        http.StatusNotFound,
		StatusDescription: "Not Found",
	}
}

type headerValue struct {
	Value string `json:"value"`
}

type hostResponse struct {
	StatusCode        int                    `json:"statusCode"`
	StatusDescription string                 `json:"statusDescription"`
	Headers           map[string]headerValue `json:"headers,omitempty"`
}

// MarshalJSON encodes the response in the CloudFront function response shape.
func (r Response) MarshalJSON() ([]byte, error) {
	out := hostResponse{
		StatusCode:        r.StatusCode,
		StatusDescription: r.StatusDescription,
	}
	if r.Kind == KindRedirect {
		out.Headers = map[string]headerValue{"location": {Value: r.Location}}
	}
	return json.Marshal(out)
}

// WriteHTTP writes the response to an HTTP response writer.
func (r Response) WriteHTTP(w http.ResponseWriter) {
	if r.Kind == KindRedirect {
		w.Header().Set("Location", r.Location)
	}
	w.WriteHeader(r.StatusCode)
}
