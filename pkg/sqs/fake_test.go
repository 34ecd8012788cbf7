package sqs

import (
	"context"
	"sync"

	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

type receiveResponse struct {
	messages []types.Message
	err      error
}

// fakeAPI scripts ReceiveMessage responses and records sends/deletes.
// Once the script is exhausted, receives return empty batches.
type fakeAPI struct {
	mu       sync.Mutex
	sent     []*awssqs.SendMessageInput
	sendErr  error
	script   []receiveResponse
	deleted  []string
	received int
}

func (f *fakeAPI) SendMessage(_ context.Context, params *awssqs.SendMessageInput, _ ...func(*awssqs.Options)) (*awssqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.sendErr != nil {
		return nil, f.sendErr
	}

	f.sent = append(f.sent, params)
	return &awssqs.SendMessageOutput{}, nil
}

func (f *fakeAPI) ReceiveMessage(_ context.Context, _ *awssqs.ReceiveMessageInput, _ ...func(*awssqs.Options)) (*awssqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.received >= len(f.script) {
		return &awssqs.ReceiveMessageOutput{}, nil
	}

	resp := f.script[f.received]
	f.received++

	if resp.err != nil {
		return nil, resp.err
	}

	return &awssqs.ReceiveMessageOutput{Messages: resp.messages}, nil
}

func (f *fakeAPI) DeleteMessage(_ context.Context, params *awssqs.DeleteMessageInput, _ ...func(*awssqs.Options)) (*awssqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, *params.ReceiptHandle)
	return &awssqs.DeleteMessageOutput{}, nil
}

func (f *fakeAPI) deletedReceipts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.deleted...)
}

func (f *fakeAPI) sentMessages() []*awssqs.SendMessageInput {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*awssqs.SendMessageInput(nil), f.sent...)
}
