package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsRequestIDAndError(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })

	ctx := WithRequestID(context.Background(), "abc-123")

	func() (err error) {
		defer Time(ctx, "materialize")(&err)
		return errors.New("boom")
	}()

	entries := logs.FilterField(zap.String("op", "materialize")).All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
	require.Equal(t, "abc-123", entries[0].ContextMap()["req_id"])
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	_, err := Init("development", "loud")
	require.Error(t, err)
}
