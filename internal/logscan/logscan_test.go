package logscan_test

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/internal/logscan"
)

const accessLog = "#Version: 1.0\n" +
	"#Fields: date time x-edge-location sc-bytes c-ip cs-method cs(Host) cs-uri-stem sc-status cs(Referer)\n" +
	"2026-01-02\t10:00:00\tFRA56-C1\t512\t192.0.2.1\tGET\td111.cloudfront.net\t/old%20page\t404\t-\n" +
	"2026-01-02\t10:00:01\tFRA56-C1\t512\t192.0.2.1\tGET\td111.cloudfront.net\t/old%20page\t404\t-\n" +
	"2026-01-02\t10:00:02\tFRA56-C1\t512\t192.0.2.1\tGET\td111.cloudfront.net\t/index.html\t200\t-\n" +
	"2026-01-02\t10:00:03\tFRA56-C1\t512\t192.0.2.1\tGET\td111.cloudfront.net\t/gone\t404\t-\n"

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestScan(t *testing.T) {
	t.Parallel()

	report, err := logscan.Scan(strings.NewReader(accessLog))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Lines != 4 {
		t.Errorf("Lines = %d, want 4", report.Lines)
	}
	if report.Misses["/old page"] != 2 || report.Misses["/gone"] != 1 {
		t.Errorf("unexpected misses: %v", report.Misses)
	}

	top := report.TopMisses()
	if len(top) != 2 || top[0].Path != "/old page" || top[1].Path != "/gone" {
		t.Errorf("unexpected ordering: %v", top)
	}
}

func TestScan_CustomFieldOrder(t *testing.T) {
	t.Parallel()

	log := "#Fields: sc-status cs-uri-stem\n404\t/a\n200\t/b\n"
	report, err := logscan.Scan(strings.NewReader(log))
	if err != nil {
		t.Fatal(err)
	}
	if report.Misses["/a"] != 1 || len(report.Misses) != 1 {
		t.Errorf("unexpected misses: %v", report.Misses)
	}
}

func TestScanGzip(t *testing.T) {
	t.Parallel()

	report, err := logscan.ScanGzip(bytes.NewReader(gzipped(t, accessLog)))
	if err != nil {
		t.Fatal(err)
	}
	if report.Lines != 4 {
		t.Errorf("Lines = %d, want 4", report.Lines)
	}

	if _, err := logscan.ScanGzip(strings.NewReader("plain text")); err == nil {
		t.Error("expected error for non-gzip input")
	}
}

type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, errors.Newf("no such key %q", aws.ToString(in.Key))
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func notification(bucket, key string) string {
	return `{"Records":[{"eventSource":"aws:s3","eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"` +
		bucket + `"},"object":{"key":"` + key + `"}}}]}`
}

func TestProcessor_ProcessNotification(t *testing.T) {
	t.Parallel()

	objects := &fakeObjects{objects: map[string][]byte{
		"logs/CloudFrontAccessLogs/E1.2026-01-02-10.abc.gz": gzipped(t, accessLog),
	}}
	p := logscan.NewProcessor(objects, nil)

	report, err := p.ProcessNotification(context.Background(),
		notification("logs", "CloudFrontAccessLogs/E1.2026-01-02-10.abc.gz"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Misses["/gone"] != 1 {
		t.Errorf("unexpected misses: %v", report.Misses)
	}
}

func TestProcessor_TestEvent(t *testing.T) {
	t.Parallel()

	p := logscan.NewProcessor(&fakeObjects{}, nil)
	report, err := p.ProcessNotification(context.Background(),
		`{"Service":"Amazon S3","Event":"s3:TestEvent","Bucket":"logs"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Lines != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestProcessor_ProcessSQSReportsFailures(t *testing.T) {
	t.Parallel()

	objects := &fakeObjects{objects: map[string][]byte{"logs/a.gz": gzipped(t, accessLog)}}
	p := logscan.NewProcessor(objects, nil)

	resp, report := p.ProcessSQS(context.Background(), events.SQSEvent{Records: []events.SQSMessage{
		{MessageId: "ok", Body: notification("logs", "a.gz")},
		{MessageId: "missing", Body: notification("logs", "b.gz")},
		{MessageId: "garbage", Body: "not json"},
	}})

	if len(resp.BatchItemFailures) != 2 {
		t.Fatalf("expected 2 failures, got %v", resp.BatchItemFailures)
	}
	if resp.BatchItemFailures[0].ItemIdentifier != "missing" || resp.BatchItemFailures[1].ItemIdentifier != "garbage" {
		t.Errorf("unexpected failures: %v", resp.BatchItemFailures)
	}
	if report.Lines != 4 {
		t.Errorf("expected lines from the successful message, got %d", report.Lines)
	}
}
