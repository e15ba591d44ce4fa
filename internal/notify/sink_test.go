package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fired = Request{ID: "m1", FireAt: t0, Payload: Payload{Title: "SmartMemo", Body: "buy milk"}}

func TestLogSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLogSink(zap.New(core))

	require.NoError(t, s.Deliver(context.Background(), fired))
	entries := logs.FilterMessage("notification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "buy milk", entries[0].ContextMap()["body"])
}

func TestTelegramSink(t *testing.T) {
	var mu sync.Mutex
	var sent []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if strings.HasSuffix(r.URL.Path, "/sendMessage") {
			mu.Lock()
			sent = append(sent, r.FormValue("chat_id")+":"+r.FormValue("text"))
			mu.Unlock()
		}
		w.Header().Set("Content-Type", "application/json")
		// one body that decodes as both a User (getMe) and a Message
		w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"memo","username":"memo_bot",` +
			`"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	}))
	defer srv.Close()

	s, err := newTelegramSink("token", 42, srv.URL+"/bot%s/%s")
	require.NoError(t, err)
	require.NoError(t, s.Deliver(context.Background(), fired))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Equal(t, "42:SmartMemo\nbuy milk", sent[0])
}

func TestTelegramSinkRequiresToken(t *testing.T) {
	_, err := NewTelegramSink("", 1)
	assert.Error(t, err)
}

func TestSlackSink(t *testing.T) {
	var got struct {
		Text string `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := NewSlackSink(srv.URL)
	require.NoError(t, err)
	require.NoError(t, s.Deliver(context.Background(), fired))
	assert.Equal(t, "SmartMemo\nbuy milk", got.Text)
}

func TestSlackSinkReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewSlackSink(srv.URL)
	require.NoError(t, err)
	assert.Error(t, s.Deliver(context.Background(), fired))
}
