package logdrain_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/dev0psfyi/website/cmd/internal/logdrain"
	"github.com/dev0psfyi/website/internal/logscan"
)

type fakeQueue struct {
	batches  [][]types.Message
	received int
	deleted  []string
	inputs   []*sqs.ReceiveMessageInput
}

func (f *fakeQueue) ReceiveMessage(_ context.Context, in *sqs.ReceiveMessageInput,
	_ ...func(*sqs.Options),
) (*sqs.ReceiveMessageOutput, error) {
	f.inputs = append(f.inputs, in)
	if f.received >= len(f.batches) {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	batch := f.batches[f.received]
	f.received++
	return &sqs.ReceiveMessageOutput{Messages: batch}, nil
}

func (f *fakeQueue) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput,
	_ ...func(*sqs.Options),
) (*sqs.DeleteMessageOutput, error) {
	f.deleted = append(f.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

// fakeProcessor reports one miss per message whose body is a path, and fails
// on the body "bad".
type fakeProcessor struct{}

func (fakeProcessor) ProcessNotification(_ context.Context, body string) (*logscan.Report, error) {
	if body == "bad" {
		return nil, errors.New("corrupt notification")
	}
	report := logscan.NewReport()
	report.Lines = 1
	report.Misses[body] = 1
	return report, nil
}

func message(id, body string) types.Message {
	return types.Message{
		MessageId:     aws.String(id),
		ReceiptHandle: aws.String("rh-" + id),
		Body:          aws.String(body),
	}
}

func TestDrain(t *testing.T) {
	t.Parallel()

	queue := &fakeQueue{batches: [][]types.Message{
		{message("1", "/old"), message("2", "bad")},
		{message("3", "/old"), message("4", "/other")},
	}}
	d := logdrain.New(queue, fakeProcessor{}, "https://sqs.us-east-1.amazonaws.com/1/q", nil)

	result, err := d.Drain(context.Background(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if result.Processed != 3 || result.Failed != 1 {
		t.Errorf("processed=%d failed=%d, want 3 and 1", result.Processed, result.Failed)
	}
	if got := result.Report.Misses["/old"]; got != 2 {
		t.Errorf("misses[/old] = %d, want 2", got)
	}
	if len(queue.deleted) != 3 {
		t.Errorf("deleted = %v, the failed message must stay on the queue", queue.deleted)
	}
	if queue.received != 2 || len(queue.inputs) != 3 {
		t.Errorf("expected two batches and a final empty receive, got %d inputs", len(queue.inputs))
	}

	in := queue.inputs[0]
	if in.WaitTimeSeconds != logdrain.WaitTimeSeconds || in.MaxNumberOfMessages != logdrain.MaxNumberOfMessages {
		t.Errorf("receive input = %+v", in)
	}
}

func TestDrain_MaxBatches(t *testing.T) {
	t.Parallel()

	queue := &fakeQueue{batches: [][]types.Message{
		{message("1", "/a")},
		{message("2", "/b")},
	}}
	d := logdrain.New(queue, fakeProcessor{}, "q", nil)

	result, err := d.Drain(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if result.Processed != 1 || len(queue.inputs) != 1 {
		t.Errorf("processed=%d receives=%d, want 1 and 1", result.Processed, len(queue.inputs))
	}
}
