package app

import (
	"bytes"
	"os"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/config"
	"github.com/specialistvlad/ftdgo/internal/registry"
	"github.com/specialistvlad/ftdgo/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Rendered
// documents go to the returned output buffer, logs to the log buffer. The app
// is closed when the test ends.
func SetupAppTest(t *testing.T, appConfig *Config, loader config.Loader, modules ...registry.Module) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()

	out := &bytes.Buffer{}
	logBuffer := &testutil.SafeBuffer{}
	appConfig.LogLevel = "debug"
	if appConfig.WorkerCount == 0 {
		appConfig.WorkerCount = 2
	}
	testApp := NewApp(out, logBuffer, appConfig, loader, modules...)

	t.Cleanup(func() {
		_ = testApp.Close()
		if os.Getenv(testutil.LogsEnv) == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
