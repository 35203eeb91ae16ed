package redirect_test

import (
	"context"
	"fmt"

	"github.com/dev0psfyi/website/redirect"
)

func ExampleResolver_Resolve() {
	store := redirect.StoreFunc(func(_ context.Context, key string) (string, error) {
		if key == "/talks" {
			return "https://talks.example.com/", nil
		}
		return "", redirect.ErrKeyNotFound
	})
	r := redirect.NewResolver(redirect.StaticMap{"/cv": "/about/"}, store)

	for _, uri := range []string{"/cv", "/talks", "/nope"} {
		resp := r.Resolve(context.Background(), redirect.Request{URI: uri})
		fmt.Println(uri, resp.StatusCode, resp.Location)
	}
	// Output:
	// /cv 302 /about/
	// /talks 302 https://talks.example.com/
	// /nope 404
}
