package sitelwa

import (
	"context"
	"net/http"

	"github.com/advdv/bhttp"
)

// Mux routes requests to handlers that return errors.
type Mux = bhttp.ServeMux[context.Context]

// HandlerFunc is the handler signature accepted by Mux.
type HandlerFunc = func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error

// NewMux creates a Mux with an unlimited response buffer.
func NewMux() *Mux {
	return bhttp.NewCustomServeMux(
		bhttp.StdContextInit,
		-1,
		bhttp.NewStdLogger(nil),
		http.NewServeMux(),
		bhttp.NewReverser(),
	)
}
