package log

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (Logger, *test.Hook) {
	base, hook := test.NewNullLogger()
	return &logger{entry: logrus.NewEntry(base)}, hook
}

func TestWithFields(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		expected logrus.Fields
	}{
		{
			name: "Desenvolvimento omite campos verbosos",
			env:  "development",
			expected: logrus.Fields{
				"account_id": "act_1",
				"method":     "POST",
			},
		},
		{
			name: "Produção mantém todos os campos",
			env:  "production",
			expected: logrus.Fields{
				"account_id": "act_1",
				"method":     "POST",
				"user_agent": "curl",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			l, hook := newTestLogger()

			l.WithFields(Fields{
				"account_id": "act_1",
				"method":     "POST",
				"user_agent": "curl",
			}).Info("mensagem")

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.expected, entry.Data)
		})
	}
}

func TestWithContext(t *testing.T) {
	l, hook := newTestLogger()

	ctx, correlationID := WithCorrelationID(context.Background())
	ctx = WithRunID(ctx, "run01")

	l.WithContext(ctx).Info("mensagem")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, correlationID, entry.Data["correlation_id"])
	assert.Equal(t, "run01", entry.Data["run_id"])
	assert.Equal(t, "run01", GetRunID(ctx))
}

func TestWithContext_SemIDs(t *testing.T) {
	l, hook := newTestLogger()

	l.WithContext(context.Background()).Warn("mensagem")

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Empty(t, entry.Data)
	assert.Equal(t, "", GetCorrelationID(context.Background()))
}
