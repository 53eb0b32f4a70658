package testutil

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/ctxlog"
)

// LogsEnv dumps the captured log output of every test when set to "true".
const LogsEnv = "FTD_TEST_LOGS"

// Context returns a context carrying a debug-level text logger that writes to
// the returned buffer. The buffer is dumped through t.Logf at cleanup when
// FTD_TEST_LOGS=true.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv(LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}
