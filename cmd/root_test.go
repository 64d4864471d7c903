package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/musichub/internal/config"
	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/presentation"
	"github.com/zjrosen/musichub/internal/recent"
	"github.com/zjrosen/musichub/internal/submission"
	"github.com/zjrosen/musichub/internal/testutil"
	"github.com/zjrosen/musichub/internal/tracing"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// isolate keeps config lookup away from the developer's own files.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()
	t.Chdir(work)
	return work
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	isolate(t)

	out, err := run(t, "validate", "fr-la1-24-00001", "--json")
	require.NoError(t, err)

	var dtos []presentation.ValidationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dtos))
	require.Len(t, dtos, 1)
	require.True(t, dtos[0].Valid)
	require.Equal(t, "FRLA12400001", dtos[0].Normalized)
}

func TestValidate_InvalidExitsNonZero(t *testing.T) {
	isolate(t)

	out, err := run(t, "validate", "FRLA12400001", "FRLA124")
	require.EqualError(t, err, "1 of 2 inputs are not valid ISRCs")
	require.Contains(t, out, "invalid")
}

func TestValidate_IgnoresBrokenConfig(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [oops"), 0o644))

	_, err := run(t, "--config", path, "validate", "FRLA12400001")
	require.NoError(t, err)
}

func TestRegister_Accepted(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)
	b.QueueRegister(testutil.Accepted("GBUM71029604", "Bohemian Rhapsody", "Queen"))

	out, err := run(t, "--api-url", b.URL(), "register", "gb-um7-10-29604")
	require.NoError(t, err)
	require.Contains(t, out, submission.MsgAccepted)
	require.Contains(t, out, "Track 'Bohemian Rhapsody' by 'Queen' has been registered and is being processed.")
	require.Equal(t, []string{"GBUM71029604"}, b.Registrations())
}

func TestRegister_RejectedExitsNonZero(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)
	b.QueueRegister(testutil.Rejected(http.StatusBadRequest, "InvalidIsrc", ""))

	out, err := run(t, "--api-url", b.URL(), "register", "FRLA12400001", "--json")
	require.Error(t, err)
	require.Contains(t, err.Error(), submission.MsgInvalidISRC)

	var dto presentation.OutcomeDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	require.Equal(t, "failed", dto.State)
	require.Equal(t, "Invalid ISRC Format", dto.Title)
}

func TestRegister_FailureStillFlushesTraces(t *testing.T) {
	work := isolate(t)
	b := testutil.NewBackend(t)
	b.QueueRegister(testutil.Rejected(http.StatusBadRequest, "InvalidIsrc", ""))

	traces := filepath.Join(work, "traces.jsonl")
	cfg := filepath.Join(work, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("tracing:\n  enabled: true\n  exporter: file\n  file_path: "+traces+"\n"), 0o644))

	_, err := run(t, "--config", cfg, "--api-url", b.URL(), "register", "FRLA12400001")
	require.Error(t, err)

	data, err := os.ReadFile(traces)
	require.NoError(t, err)

	var names []string
	for _, line := range bytes.Split(bytes.TrimSpace(data), []byte("\n")) {
		var rec tracing.SpanRecord
		require.NoError(t, json.Unmarshal(line, &rec))
		names = append(names, rec.Name)
	}
	require.Contains(t, names, tracing.SpanSubmitRegistration)
}

func TestRegister_InvalidInputSendsNothing(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)

	_, err := run(t, "--api-url", b.URL(), "register", "nope")
	require.Error(t, err)
	require.Empty(t, b.Registrations())
}

func TestRegister_NetworkError(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)
	url := b.URL()
	b.Close()

	out, err := run(t, "--api-url", url, "register", "FRLA12400001")
	require.Error(t, err)
	require.Contains(t, out, submission.MsgNetwork)
	require.Contains(t, out, "Network Error")
}

func TestRecent(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)
	b.QueueRecent(testutil.Response{Status: http.StatusOK, Body: testutil.RecentTracks(12)})

	out, err := run(t, "--api-url", b.URL(), "recent", "--json")
	require.NoError(t, err)

	var dtos []presentation.TrackDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dtos))
	require.Len(t, dtos, recent.MaxItems)
	require.Equal(t, "FRLA12400001", dtos[0].ISRC)
	require.Equal(t, "Provisional", dtos[0].Status)
}

func TestRecent_Empty(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)

	out, err := run(t, "--api-url", b.URL(), "recent")
	require.NoError(t, err)
	require.Contains(t, out, recent.EmptyText)
}

func TestRecent_Error(t *testing.T) {
	isolate(t)
	b := testutil.NewBackend(t)
	b.QueueRecent(testutil.Response{Status: http.StatusInternalServerError, Raw: "not json"})

	_, err := run(t, "--api-url", b.URL(), "recent")
	require.EqualError(t, err, recent.FallbackError)
}

func TestConfigFileSetsBaseURL(t *testing.T) {
	work := isolate(t)
	b := testutil.NewBackend(t)

	_, err := run(t, "config", "init")
	require.NoError(t, err)
	_, err = run(t, "config", "set", "api.base_url", b.URL())
	require.NoError(t, err)

	_, err = run(t, "recent")
	require.NoError(t, err)
	require.Equal(t, 1, b.RecentCalls())
	require.FileExists(t, filepath.Join(work, config.LocalConfigPath))
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "custom.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, "Wrote "+path)

	_, err = run(t, "config", "init", path)
	require.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", path, "--force")
	require.NoError(t, err)
}

func TestConfigSet_InvalidValueRejected(t *testing.T) {
	isolate(t)
	_, err := run(t, "config", "init")
	require.NoError(t, err)

	_, err = run(t, "config", "set", "theme.mode", "sepia")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestInvalidConfigFailsBackendCommands(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  timeout: 1ms\n"), 0o644))

	_, err := run(t, "--config", path, "recent")
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestConfigKeys(t *testing.T) {
	isolate(t)
	out, err := run(t, "config", "keys")
	require.NoError(t, err)
	require.Contains(t, out, "api.base_url")
}

func TestReloadConfig_AppliesNotificationDuration(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "config.yaml")
	require.NoError(t, config.WriteDefaultConfig(path))

	e := &env{configPath: path}
	queue := notify.NewQueue()
	t.Cleanup(queue.Close)

	require.NoError(t, config.SetValue(path, "notifications.default_duration", "9s"))
	require.NoError(t, reloadConfig(e, queue))

	id := queue.Enqueue(notify.Options{Title: "x"})
	entry, _ := queue.Get(id)
	require.Equal(t, 9*time.Second, entry.Duration)
	require.Equal(t, 9*time.Second, e.cfg.Notifications.DefaultDuration)
}

func TestReloadConfig_InvalidFileKeepsSettings(t *testing.T) {
	work := isolate(t)
	path := filepath.Join(work, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme:\n  mode: sepia\n"), 0o644))

	e := &env{configPath: path}
	queue := notify.NewQueue()
	t.Cleanup(queue.Close)

	require.ErrorIs(t, reloadConfig(e, queue), config.ErrInvalid)
	id := queue.Enqueue(notify.Options{Title: "x"})
	entry, _ := queue.Get(id)
	require.Equal(t, notify.DefaultDuration, entry.Duration)
}
