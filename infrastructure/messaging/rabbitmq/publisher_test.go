package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/leverads/meta-sync-api/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	exchange  string
	key       string
	published []amqp.Publishing
	err       error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.exchange = exchange
	f.key = key
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestPublisher_PublishSyncCompleted(t *testing.T) {
	ch := &fakeChannel{}
	fixed := time.Date(2024, 5, 2, 3, 0, 0, 0, time.UTC)
	p := &Publisher{
		channel:    ch,
		exchange:   "leverads.sync",
		routingKey: "sync.completed",
		now:        func() time.Time { return fixed },
	}

	report := &domain.SyncReport{
		RunID:    "abc123",
		Results:  []domain.SyncResult{{Account: "act_1", Status: domain.SyncStatusSynced}},
		SyncedAt: fixed,
	}

	err := p.PublishSyncCompleted(context.Background(), report)

	require.NoError(t, err)
	require.Len(t, ch.published, 1)
	assert.Equal(t, "leverads.sync", ch.exchange)
	assert.Equal(t, "sync.completed", ch.key)

	msg := ch.published[0]
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "abc123", msg.MessageId)

	var decoded SyncCompletedMessage
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, EventSyncCompleted, decoded.Event)
	assert.Equal(t, fixed, decoded.Timestamp)
	require.Len(t, decoded.Report.Results, 1)
	assert.Equal(t, "act_1", decoded.Report.Results[0].Account)
}

func TestPublisher_PublishSyncCompleted_Erro(t *testing.T) {
	p := &Publisher{
		channel: &fakeChannel{err: errors.New("channel closed")},
		now:     time.Now,
	}

	err := p.PublishSyncCompleted(context.Background(), &domain.SyncReport{RunID: "x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}
