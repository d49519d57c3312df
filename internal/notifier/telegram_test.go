package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipbergman6-glitch/Mirror-Market/internal/logging"
)

type fakeBotAPI struct {
	mu       sync.Mutex
	sent     []string
	failures int
	// failCalls fails these sendMessage calls, counted from 1.
	failCalls map[int]bool
	calls     int
	updates   string
}

func (f *fakeBotAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.HasSuffix(r.URL.Path, "/sendMessage"):
		f.calls++
		if f.failCalls[f.calls] {
			http.Error(w, `{"ok":false}`, http.StatusBadGateway)
			return
		}
		if f.failures > 0 {
			f.failures--
			http.Error(w, `{"ok":false}`, http.StatusTooManyRequests)
			return
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.sent = append(f.sent, payload["text"])
		_, _ = w.Write([]byte(`{"ok":true}`))
	case strings.HasSuffix(r.URL.Path, "/getUpdates"):
		body := f.updates
		f.updates = `{"ok":true,"result":[]}`
		_, _ = w.Write([]byte(body))
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeBotAPI) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestNotifier(t *testing.T, api *fakeBotAPI) *TelegramNotifier {
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("token", "42", "", logging.Discard())
	n.BaseURL = srv.URL
	return n
}

func TestSend(t *testing.T) {
	api := &fakeBotAPI{}
	n := newTestNotifier(t, api)
	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, []string{"hello"}, api.messages())
}

func TestSend_APIError(t *testing.T) {
	api := &fakeBotAPI{failures: 1}
	n := newTestNotifier(t, api)
	err := n.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}

func TestSendWithRetry(t *testing.T) {
	api := &fakeBotAPI{failures: 1}
	n := newTestNotifier(t, api)
	require.NoError(t, n.SendWithRetry(context.Background(), "retry me", 2))
	assert.Equal(t, []string{"retry me"}, api.messages())
}

func TestSendWithRetry_ResumesAtFailedPart(t *testing.T) {
	api := &fakeBotAPI{failCalls: map[int]bool{2: true}}
	n := newTestNotifier(t, api)

	first := strings.Repeat("a", 3000) + "\n"
	second := strings.Repeat("b", 3000)
	require.NoError(t, n.SendWithRetry(context.Background(), first+second, 1))

	assert.Equal(t, []string{first, second}, api.messages())
	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Equal(t, 3, api.calls)
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	api := &fakeBotAPI{failures: 10}
	n := newTestNotifier(t, api)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := n.SendWithRetry(ctx, "x", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))
	assert.Equal(t, []string{"aaaa\n", "bbbb\n", "cc"}, splitMessage("aaaa\nbbbb\ncc", 6))
	assert.Equal(t, []string{"abcdef", "ghij"}, splitMessage("abcdefghij", 6))
}

func TestSplitMessage_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("a", MaxMessageLen-1) + "📈📈"
	parts := splitMessage(text, MaxMessageLen)
	require.Len(t, parts, 2)
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p))
		assert.LessOrEqual(t, len(p), MaxMessageLen)
	}
	assert.Equal(t, text, strings.Join(parts, ""))
}

func TestSplitMessage_AvoidsCuttingMarkup(t *testing.T) {
	assert.Equal(t, []string{"aaaa", "<b>bb", "</b>"}, splitMessage("aaaa<b>bb</b>", 6))
	assert.Equal(t, []string{"abc", "&amp;x"}, splitMessage("abc&amp;x", 6))
}

func TestStartPolling(t *testing.T) {
	api := &fakeBotAPI{updates: `{"ok":true,"result":[
		{"update_id":1,"message":{"text":" /crush ","chat":{"id":42}}},
		{"update_id":2,"message":{"text":"/scan","chat":{"id":7}}}
	]}`}
	n := newTestNotifier(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu   sync.Mutex
		seen []string
	)
	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			mu.Lock()
			seen = append(seen, cmd)
			mu.Unlock()
			return "reply to " + cmd
		})
		close(done)
	}()

	assert.Eventually(t, func() bool { return len(api.messages()) == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"/crush"}, seen)
	assert.Equal(t, []string{"reply to /crush"}, api.messages())
}
