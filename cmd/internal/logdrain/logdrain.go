// Package logdrain empties the log-processing queue from the command line,
// for deployments that run without the queue-triggered processor.
package logdrain

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/internal/logscan"
	"go.uber.org/zap"
)

// Receive settings. SQS caps both.
const (
	WaitTimeSeconds     = 20
	MaxNumberOfMessages = 10
)

// QueueAPI is the subset of the SQS client used for draining.
type QueueAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput,
		optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput,
		optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// NotificationProcessor turns one queue message body into a report.
type NotificationProcessor interface {
	ProcessNotification(ctx context.Context, body string) (*logscan.Report, error)
}

// Result summarizes a drain.
type Result struct {
	Report    *logscan.Report
	Processed int
	Failed    int
}

// Drainer receives, processes and deletes queue messages.
type Drainer struct {
	queue     QueueAPI
	processor NotificationProcessor
	queueURL  string
	logger    *zap.Logger
}

// New creates a Drainer for queueURL.
func New(queue QueueAPI, processor NotificationProcessor, queueURL string, logger *zap.Logger) *Drainer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drainer{queue: queue, processor: processor, queueURL: queueURL, logger: logger}
}

// Drain receives batches until one comes back empty or maxBatches were
// received. maxBatches <= 0 means no limit. Messages that fail processing
// stay on the queue and become visible again after the visibility timeout.
func (d *Drainer) Drain(ctx context.Context, maxBatches int) (*Result, error) {
	result := &Result{Report: logscan.NewReport()}
	for batch := 0; maxBatches <= 0 || batch < maxBatches; batch++ {
		out, err := d.queue.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(d.queueURL),
			WaitTimeSeconds:     WaitTimeSeconds,
			MaxNumberOfMessages: MaxNumberOfMessages,
		})
		if err != nil {
			return result, errors.Wrap(err, "receive messages")
		}
		if len(out.Messages) == 0 {
			return result, nil
		}

		for _, msg := range out.Messages {
			report, err := d.processor.ProcessNotification(ctx, aws.ToString(msg.Body))
			if err != nil {
				result.Failed++
				d.logger.Warn("failed to process log notification",
					zap.String("message_id", aws.ToString(msg.MessageId)),
					zap.Error(err))
				continue
			}
			if _, err := d.queue.DeleteMessage(ctx, &sqs.DeleteMessageInput{
				QueueUrl:      aws.String(d.queueURL),
				ReceiptHandle: msg.ReceiptHandle,
			}); err != nil {
				return result, errors.Wrapf(err, "delete message %s", aws.ToString(msg.MessageId))
			}
			result.Report.Merge(report)
			result.Processed++
		}
	}
	return result, nil
}
