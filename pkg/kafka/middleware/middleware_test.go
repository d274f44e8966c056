package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you-humble/asset-tracker/pkg/kafka"
)

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Info(_ context.Context, msg string, _ ...zap.Field) {
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(_ context.Context, msg string, _ ...zap.Field) {
	l.errors = append(l.errors, msg)
}

func TestRecoveryConvertsPanic(t *testing.T) {
	t.Parallel()

	log := &recordingLogger{}
	h := kafka.Chain(func(context.Context, kafka.Message) error {
		panic("boom")
	}, Recovery(log))

	err := h(context.Background(), kafka.Message{Topic: "assignments", Offset: 7})
	require.Error(t, err)
	assert.ErrorContains(t, err, "assignments/7")
	assert.Len(t, log.errors, 1)
}

func TestLoggingPassesThrough(t *testing.T) {
	t.Parallel()

	log := &recordingLogger{}
	want := errors.New("handler failed")
	h := kafka.Chain(func(context.Context, kafka.Message) error {
		return want
	}, Recovery(log), Logging(log))

	err := h(context.Background(), kafka.Message{Topic: "assignments"})
	require.ErrorIs(t, err, want)
	assert.Equal(t, []string{"kafka message handled"}, log.infos)
	assert.Empty(t, log.errors)
}
