package testutil

import (
	"fmt"
	"os"
	"testing"

	"github.com/specialistvlad/ftdgo/internal/executor"
	"github.com/specialistvlad/ftdgo/internal/interpreter"
)

// HarnessResult holds the outcome of interpreting and executing one document.
type HarnessResult struct {
	Document  *interpreter.Document
	Result    *executor.Result
	LogOutput string
	Err       error
}

// Render interprets source as the document "main" using lib (an empty
// Library when nil) and executes it. Interpretation and execution errors are
// returned in the result, never fail the test.
func Render(t *testing.T, source string, lib *Library) *HarnessResult {
	t.Helper()
	if lib == nil {
		lib = &Library{}
	}
	ctx, logs := Context(t)

	res := &HarnessResult{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv(LogsEnv) == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				res.Err = fmt.Errorf("render panicked | %v", r)
			}
		}()
		doc, err := interpreter.Interpret(ctx, "main", source, lib)
		if err != nil {
			res.Err = err
			return
		}
		res.Document = doc
		res.Result, res.Err = executor.Execute(ctx, doc)
	}()
	res.LogOutput = logs.String()
	return res
}
