package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"recruit-backend/internal/shared/telemetry"
)

// sqsAPI is the subset of the SQS client the transport uses.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSTransport sends and receives job messages through AWS SQS. Job retry
// state lives in the jobs repo, so received messages are deleted up front and
// redelivery happens via explicit re-sends.
type SQSTransport struct {
	client   sqsAPI
	queueURL string

	mu     sync.Mutex
	buffer []Message
}

// NewSQSTransport constructs an SQS-backed transport.
func NewSQSTransport(ctx context.Context, region, queueURL string) (*SQSTransport, error) {
	if strings.TrimSpace(queueURL) == "" {
		return nil, fmt.Errorf("sqs queue url is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SQSTransport{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Send delivers a message, postponed by delay. SQS caps DelaySeconds at 900.
func (t *SQSTransport) Send(ctx context.Context, msg Message, delay time.Duration) error {
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode sqs message: %w", err)
	}

	delaySeconds := int32(delay / time.Second)
	if delaySeconds < 0 {
		delaySeconds = 0
	}
	if delaySeconds > 900 {
		delaySeconds = 900
	}

	_, err = t.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:     aws.String(t.queueURL),
		MessageBody:  aws.String(string(payload)),
		DelaySeconds: delaySeconds,
	})
	if err != nil {
		return fmt.Errorf("sqs send message: %w", err)
	}
	return nil
}

// Receive long-polls SQS and returns one message at a time, draining batches
// from an internal buffer between polls.
func (t *SQSTransport) Receive(ctx context.Context) (Message, error) {
	for {
		if msg, ok := t.pop(); ok {
			return msg, nil
		}
		if err := ctx.Err(); err != nil {
			return Message{}, err
		}

		out, err := t.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(t.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
		})
		if err != nil {
			if ctx.Err() != nil {
				return Message{}, ctx.Err()
			}
			telemetry.Error("sqs receive failed", map[string]any{"err": err.Error()})
			select {
			case <-time.After(2 * time.Second):
			case <-ctx.Done():
				return Message{}, ctx.Err()
			}
			continue
		}

		for _, raw := range out.Messages {
			msg, err := DecodeMessage([]byte(aws.ToString(raw.Body)))
			if err != nil {
				telemetry.Error("sqs message decode failed", map[string]any{"err": err.Error()})
			} else {
				t.push(msg)
			}
			t.delete(ctx, aws.ToString(raw.ReceiptHandle))
		}
	}
}

func (t *SQSTransport) delete(ctx context.Context, receiptHandle string) {
	if receiptHandle == "" {
		return
	}
	_, err := t.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(t.queueURL),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		telemetry.Error("sqs delete failed", map[string]any{"err": err.Error()})
	}
}

func (t *SQSTransport) pop() (Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.buffer) == 0 {
		return Message{}, false
	}
	msg := t.buffer[0]
	t.buffer = t.buffer[1:]
	return msg, true
}

func (t *SQSTransport) push(msg Message) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buffer = append(t.buffer, msg)
}

var (
	_ Transport = (*SQSTransport)(nil)
	_ Receiver  = (*SQSTransport)(nil)
)
