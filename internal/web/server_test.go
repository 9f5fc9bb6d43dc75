package web

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"git.sr.ht/~jakintosh/tempo/internal/store"
	"git.sr.ht/~jakintosh/tempo/internal/timer"
	"git.sr.ht/~jakintosh/tempo/internal/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, opts widget.Options) (*Server, *widget.Widget) {
	t.Helper()
	if opts.TickInterval == 0 {
		opts.TickInterval = time.Hour
	}
	w := widget.New(store.NewInMemoryStore(), opts)
	t.Cleanup(w.Close)

	s, err := NewServer(w, nil)
	require.NoError(t, err)
	return s, w
}

func do(s *Server, method, target string, form url.Values, htmx bool) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t, widget.Options{})

	rec := do(s, http.MethodGet, "/", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Tempo</title>")
	assert.Contains(t, body, "25:00")
	assert.Contains(t, body, `id="clock"`)
	assert.Contains(t, body, "No tasks yet.")
	assert.Contains(t, body, `value="45"`)
	assert.NotContains(t, body, "hx-swap-oob")
}

func TestCreateTask(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})

	rec := do(s, http.MethodPost, "/tasks", url.Values{"text": {"Buy milk"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Buy milk")
	assert.Contains(t, body, `id="stats"`)
	assert.Contains(t, body, `hx-swap-oob="true"`)
	assert.Contains(t, body, "0/1")

	require.Len(t, w.State().Tasks, 1)
}

func TestCreateTask_PlainFormRedirects(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})

	rec := do(s, http.MethodPost, "/tasks", url.Values{"text": {"Call mom"}}, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Len(t, w.State().Tasks, 1)
}

func TestCreateTask_BlankIsRejected(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})

	rec := do(s, http.MethodPost, "/tasks", url.Values{"text": {"   "}}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, w.State().Tasks)
}

func TestToggleAndDeleteTask(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})
	res, err := w.Dispatch(widget.Command{Kind: widget.AddTask, Text: "Write report"})
	require.NoError(t, err)
	id := res.Task.ID
	path := "/tasks/" + strconv.FormatInt(id, 10)

	rec := do(s, http.MethodPatch, path+"/toggle", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "task completed")
	assert.Contains(t, rec.Body.String(), "100%")
	assert.True(t, w.State().Tasks[0].Completed)

	rec = do(s, http.MethodDelete, path, nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No tasks yet.")
	assert.Empty(t, w.State().Tasks)
}

func TestTaskErrors(t *testing.T) {
	s, _ := newTestServer(t, widget.Options{})

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"toggle bad id", http.MethodPatch, "/tasks/abc/toggle", http.StatusBadRequest},
		{"toggle unknown", http.MethodPatch, "/tasks/999/toggle", http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/tasks/999", http.StatusNotFound},
		{"ack unknown", http.MethodPost, "/notifications/nope/ack", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, tt.method, tt.path, nil, true)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestTimerRoutes(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})

	rec := do(s, http.MethodPost, "/timer/start", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Focusing")
	assert.Contains(t, rec.Body.String(), "/timer/pause")
	assert.Equal(t, timer.StatusRunning, w.State().Timer.Status)

	rec = do(s, http.MethodPost, "/timer/duration", url.Values{"minutes": {"15"}}, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(s, http.MethodPost, "/timer/toggle", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, timer.StatusPaused, w.State().Timer.Status)

	rec = do(s, http.MethodPost, "/timer/duration", url.Values{"minutes": {"15"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "15:00")
	assert.Equal(t, timer.StatusIdle, w.State().Timer.Status)

	rec = do(s, http.MethodPost, "/timer/reset", nil, false)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSetDuration_Invalid(t *testing.T) {
	s, _ := newTestServer(t, widget.Options{})

	for _, minutes := range []string{"abc", "0", "-5", ""} {
		rec := do(s, http.MethodPost, "/timer/duration", url.Values{"minutes": {minutes}}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "minutes=%q", minutes)
	}
}

func TestFragments(t *testing.T) {
	s, _ := newTestServer(t, widget.Options{})

	rec := do(s, http.MethodGet, "/timer", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="timer"`)
	assert.Contains(t, rec.Body.String(), `id="notifications"`)

	rec = do(s, http.MethodGet, "/clock", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `id="clock"`)

	rec = do(s, http.MethodGet, "/static/app.js", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestState(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})
	w.Dispatch(widget.Command{Kind: widget.AddTask, Text: "a"})

	rec := do(s, http.MethodGet, "/state", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var view widget.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "25:00", view.Timer.Display)
	require.Len(t, view.Tasks, 1)
	assert.Equal(t, "a", view.Tasks[0].Text)
	assert.Equal(t, 1, view.Stats.TotalTasks)
}

func TestCompletionNotification(t *testing.T) {
	s, w := newTestServer(t, widget.Options{DefaultMinutes: 1, TickInterval: 20 * time.Microsecond})

	do(s, http.MethodPost, "/timer/start", nil, true)
	require.Eventually(t, func() bool {
		return len(w.State().Notifications) == 1
	}, 10*time.Second, 5*time.Millisecond)
	note := w.State().Notifications[0]

	rec := do(s, http.MethodGet, "/timer", nil, true)
	body := rec.Body.String()
	assert.Contains(t, body, `data-id="`+note.ID+`"`)
	assert.Contains(t, body, widget.CompletionMessage)
	assert.Contains(t, body, "Session complete")

	rec = do(s, http.MethodPost, "/notifications/"+note.ID+"/ack", nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(s, http.MethodPost, "/notifications/"+note.ID+"/ack", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEvents(t *testing.T) {
	s, w := newTestServer(t, widget.Options{})
	srv := httptest.NewServer(s)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	first := readEvent(t, reader)
	assert.Empty(t, first.Tasks)

	w.Dispatch(widget.Command{Kind: widget.AddTask, Text: "streamed"})
	next := readEvent(t, reader)
	require.Len(t, next.Tasks, 1)
	assert.Equal(t, "streamed", next.Tasks[0].Text)
}

func readEvent(t *testing.T, reader *bufio.Reader) widget.View {
	t.Helper()
	for {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if data, ok := strings.CutPrefix(line, "data: "); ok {
			var view widget.View
			require.NoError(t, json.Unmarshal([]byte(data), &view))
			return view
		}
	}
}
