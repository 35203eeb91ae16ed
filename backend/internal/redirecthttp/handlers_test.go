package redirecthttp_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/backend/internal/redirecthttp"
	"github.com/dev0psfyi/website/internal/logscan"
	"github.com/dev0psfyi/website/redirect"
	"github.com/dev0psfyi/website/sitelwa"
)

type noObjects struct{}

func (noObjects) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return nil, errors.New("no objects")
}

type oneObject struct{ data []byte }

func (o oneObject) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(o.data))}, nil
}

func newServer(t *testing.T, objects logscan.ObjectGetter) http.Handler {
	t.Helper()

	store := redirect.StoreFunc(func(_ context.Context, key string) (string, error) {
		if key == "/b" {
			return "https://y.example/", nil
		}
		return "", redirect.ErrKeyNotFound
	})
	resolver := redirect.NewResolver(redirect.StaticMap{"/a": "https://x.example/"}, store)
	h := redirecthttp.NewHandlers(resolver, logscan.NewProcessor(objects, nil), "/r")

	mux := sitelwa.NewMux()
	redirecthttp.Register(mux, h)
	return mux
}

func TestResolve_HTTP(t *testing.T) {
	t.Parallel()
	srv := newServer(t, noObjects{})

	tests := []struct {
		path     string
		code     int
		location string
	}{
		{"/a", http.StatusFound, "https://x.example/"},
		{"/b", http.StatusFound, "https://y.example/"},
		{"/c", http.StatusNotFound, ""},
		{"/r/a", http.StatusFound, "https://x.example/"},
		{"/r/b", http.StatusFound, "https://y.example/"},
		{"/r/c", http.StatusNotFound, ""},
		{"/rb", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		if rec.Code != tt.code {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.code, rec.Code)
		}
		if got := rec.Header().Get("Location"); got != tt.location {
			t.Errorf("%s: expected location %q, got %q", tt.path, tt.location, got)
		}
	}
}

func TestResolveEvent(t *testing.T) {
	t.Parallel()
	srv := newServer(t, noObjects{})

	tests := []struct {
		name string
		body string
		want string
	}{
		{"static hit", `{"request":{"uri":"/a"}}`, `{"statusCode":302,"statusDescription":"Found","headers":{"location":{"value":"https://x.example/"}}}`},
		{"miss", `{"request":{"uri":"/c"}}`, `{"statusCode":404,"statusDescription":"Not Found"}`},
		{"missing uri", `{"request":{}}`, `{"statusCode":404,"statusDescription":"Not Found"}`},
		{"malformed", `{"request"`, `{"statusCode":404,"statusDescription":"Not Found"}`},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/l/resolve", strings.NewReader(tt.body)))
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", tt.name, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestProcessLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte("#Fields: date time x-edge-location sc-bytes c-ip cs-method cs(Host) cs-uri-stem sc-status\n" +
		"2026-01-02\t10:00:00\tFRA56-C1\t512\t192.0.2.1\tGET\td111.cloudfront.net\t/gone\t404\n"))
	_ = zw.Close()
	srv := newServer(t, oneObject{data: buf.Bytes()})

	ev := events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "m1", Body: `{"Records":[{"s3":{"bucket":{"name":"logs"},"object":{"key":"CloudFrontAccessLogs/a.gz"}}}]}`},
		{MessageId: "m2", Body: "garbage"},
	}}
	body, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/l/process-logs", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp events.SQSEventResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.BatchItemFailures) != 1 || resp.BatchItemFailures[0].ItemIdentifier != "m2" {
		t.Errorf("unexpected failures: %+v", resp.BatchItemFailures)
	}
}

func TestProcessLogs_BadRequest(t *testing.T) {
	t.Parallel()
	srv := newServer(t, noObjects{})

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/l/process-logs", strings.NewReader("nope")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestResolve_HTTPPrefixWithTrailingSlash(t *testing.T) {
	t.Parallel()

	store := redirect.StoreFunc(func(_ context.Context, key string) (string, error) {
		if key == "/talk" {
			return "https://talks.example.com/", nil
		}
		return "", redirect.ErrKeyNotFound
	})
	h := redirecthttp.NewHandlers(redirect.NewResolver(nil, store), logscan.NewProcessor(noObjects{}, nil), "/r/")
	mux := sitelwa.NewMux()
	redirecthttp.Register(mux, h)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/r/talk", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "https://talks.example.com/" {
		t.Errorf("expected redirect to talks, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
