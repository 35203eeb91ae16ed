// Package logscan reads CloudFront standard access logs and reports requests
// that ended in a 404, which are candidates for new redirects.
package logscan

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Default column positions of the CloudFront standard log format, used when
// a log has no #Fields header.
const (
	defaultURIColumn    = 7
	defaultStatusColumn = 8
)

// Report aggregates the outcome of scanning one or more logs.
type Report struct {
	Lines  int
	Misses map[string]int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Misses: map[string]int{}}
}

// Merge adds the counts of other to r.
func (r *Report) Merge(other *Report) {
	r.Lines += other.Lines
	for path, n := range other.Misses {
		r.Misses[path] += n
	}
}

// Miss is a path and the number of times it was not found.
type Miss struct {
	Path  string
	Count int
}

// TopMisses returns the misses ordered by count, then path.
func (r *Report) TopMisses() []Miss {
	out := make([]Miss, 0, len(r.Misses))
	for _, path := range slices.Sorted(maps.Keys(r.Misses)) {
		out = append(out, Miss{Path: path, Count: r.Misses[path]})
	}
	slices.SortStableFunc(out, func(a, b Miss) int { return b.Count - a.Count })
	return out
}

// Scan parses an uncompressed CloudFront access log.
func Scan(r io.Reader) (*Report, error) {
	report := NewReport()
	uriCol, statusCol := defaultURIColumn, defaultStatusColumn

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if fields, ok := strings.CutPrefix(line, "#Fields:"); ok {
			uriCol, statusCol = columns(strings.Fields(fields))
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Split(line, "\t")
		if len(cols) <= max(uriCol, statusCol) {
			continue
		}
		report.Lines++

		status, err := strconv.Atoi(cols[statusCol])
		if err != nil || status != 404 {
			continue
		}
		path, err := url.PathUnescape(cols[uriCol])
		if err != nil {
			path = cols[uriCol]
		}
		report.Misses[path]++
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "scan access log")
	}
	return report, nil
}

// ScanGzip parses a gzip compressed CloudFront access log.
func ScanGzip(r io.Reader) (*Report, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "open gzip stream")
	}
	defer zr.Close()
	return Scan(zr)
}

func columns(names []string) (uriCol, statusCol int) {
	uriCol, statusCol = defaultURIColumn, defaultStatusColumn
	for i, name := range names {
		switch name {
		case "cs-uri-stem":
			uriCol = i
		case "sc-status":
			statusCol = i
		}
	}
	return uriCol, statusCol
}

// ObjectGetter reads log objects from S3.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Processor turns S3 object-created notifications for access logs into
// reports.
type Processor struct {
	objects ObjectGetter
	logger  *zap.Logger
}

// NewProcessor creates a Processor.
func NewProcessor(objects ObjectGetter, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{objects: objects, logger: logger}
}

// ProcessNotification handles the body of one queue message, which holds an
// S3 event notification. S3 test events produce an empty report.
func (p *Processor) ProcessNotification(ctx context.Context, body string) (*Report, error) {
	var notification events.S3Event
	if err := json.Unmarshal([]byte(body), &notification); err != nil {
		return nil, errors.Wrap(err, "decode s3 notification")
	}

	report := NewReport()
	for _, record := range notification.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, errors.Wrapf(err, "decode object key %q", record.S3.Object.Key)
		}
		objReport, err := p.scanObject(ctx, record.S3.Bucket.Name, key)
		if err != nil {
			return nil, err
		}
		report.Merge(objReport)
	}
	return report, nil
}

func (p *Processor) scanObject(ctx context.Context, bucket, key string) (*Report, error) {
	out, err := p.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get s3://%s/%s", bucket, key)
	}
	defer out.Body.Close()

	scan := Scan
	if strings.HasSuffix(key, ".gz") {
		scan = ScanGzip
	}
	report, err := scan(out.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "s3://%s/%s", bucket, key)
	}

	p.logger.Info("scanned access log",
		zap.String("bucket", bucket),
		zap.String("key", key),
		zap.Int("lines", report.Lines),
		zap.Int("distinct_misses", len(report.Misses)))
	return report, nil
}

// ProcessSQS processes a batch of queue messages and reports the ones that
// failed, so only those are retried.
func (p *Processor) ProcessSQS(ctx context.Context, ev events.SQSEvent) (events.SQSEventResponse, *Report) {
	var resp events.SQSEventResponse
	total := NewReport()
	for _, msg := range ev.Records {
		report, err := p.ProcessNotification(ctx, msg.Body)
		if err != nil {
			p.logger.Error("failed to process log notification",
				zap.String("message_id", msg.MessageId),
				zap.Error(err))
			resp.BatchItemFailures = append(resp.BatchItemFailures, events.SQSBatchItemFailure{
				ItemIdentifier: msg.MessageId,
			})
			continue
		}
		total.Merge(report)
	}

	for _, miss := range total.TopMisses() {
		p.logger.Info("redirect candidate",
			zap.String("path", miss.Path),
			zap.Int("count", miss.Count))
	}
	return resp, total
}
