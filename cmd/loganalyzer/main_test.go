package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleLog = `api (session-1) | 2026-02-25T18:34:01.220Z [INFO] Request "fetch-user" [req--1] will be sent with body {"id": 1}
api (session-1) | 2026-02-25T18:34:01.400Z [INFO] Request "fetch-user" [req--1] finished successfully with body {"id": 1}
`

type fakeLogger struct{}

func (fakeLogger) Infof(format string, args ...interface{}) {}

func writeSampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.log")
	require.NoError(t, os.WriteFile(path, []byte(sampleLog), 0o644))
	return path
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = orig

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestRunSearchPrintsJSONRows(t *testing.T) {
	path := writeSampleFile(t)
	var outErr error
	out := captureStdout(t, func() {
		outErr = runSearch([]string{path, "fetch-user"}, fakeLogger{})
	})
	require.NoError(t, outErr)
	require.Contains(t, out, "\"Idx\"")
}

func TestRunCompareRequiresTwoArgs(t *testing.T) {
	path := writeSampleFile(t)
	err := runCompare([]string{path}, fakeLogger{})
	require.Error(t, err)
}

func TestRunPerfPrintsOperations(t *testing.T) {
	path := writeSampleFile(t)
	out := captureStdout(t, func() {
		require.NoError(t, runPerf([]string{path}, fakeLogger{}))
	})
	require.Contains(t, out, "fetch-user")
}

func TestRunErrorsJoinsOrphanedSession(t *testing.T) {
	raw := `api (session-1) | 2026-02-25T18:34:01.220Z [INFO] Request "fetch-user" [req--1] will be sent with body {"id": 1}
api (session-1) | 2026-02-25T18:34:01.300Z [ERROR] Request "fetch-user" [req--1] failed with status 500
api (session-2) | 2026-02-25T18:34:01.220Z [INFO] Request "fetch-user" [req--2] will be sent with body {"id": 2}
api (session-2) | 2026-02-25T18:34:01.300Z [ERROR] Request "fetch-user" [req--2] failed with status 500
api (session-2) | 2026-02-25T18:34:01.400Z [INFO] Request "fetch-user" [req--2] finished successfully with body {"id": 2}
`
	path := filepath.Join(t.TempDir(), "errors.log")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	out := captureStdout(t, func() {
		require.NoError(t, runErrors([]string{path}, fakeLogger{}))
	})
	// session-1's request never received a response, so C7 reports it as an
	// orphan and the cluster's session breakdown must carry that through.
	require.Contains(t, out, "\"Outcome\": \"Orphaned\"")
	require.Contains(t, out, "\"Outcome\": \"Completed\"")
}
