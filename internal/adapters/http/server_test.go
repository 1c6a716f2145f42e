package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	aloha "github.com/hamchowderr/ncr-aloha"
	"github.com/hamchowderr/ncr-aloha/pkg/adapters/memory"
	"github.com/hamchowderr/ncr-aloha/pkg/domain"
	"github.com/hamchowderr/ncr-aloha/pkg/flow"
	"github.com/hamchowderr/ncr-aloha/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	mu          sync.Mutex
	submitCalls int
	recordCalls int
}

func (b *stubBackend) FetchMenu(ctx context.Context) (domain.Menu, error) {
	return domain.Menu{Categories: []string{"wings", "ribs"}}, nil
}

func (b *stubBackend) SubmitOrder(ctx context.Context, order domain.VoiceOrder) (domain.OrderResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitCalls++
	return domain.OrderResult{Success: true, OrderID: "ORD-HTTP-1"}, nil
}

func (b *stubBackend) SubmitCallRecord(ctx context.Context, record domain.CallRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.recordCalls++
	return nil
}

func (b *stubBackend) records() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recordCalls
}

type testEnv struct {
	srv      *httptest.Server
	backend  *stubBackend
	registry *memory.Registry
	server   *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := flow.DefaultConfig()
	cfg.HangupDelay = flow.Duration(10 * time.Millisecond)

	backend := &stubBackend{}
	registry := memory.NewRegistry()
	svc, err := aloha.New(cfg, backend,
		aloha.WithRegistry(registry),
		aloha.WithCollector(observability.NewCollector()),
	)
	require.NoError(t, err)
	server := NewServer(svc)

	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, backend: backend, registry: registry, server: server}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) createSession(t *testing.T) createSessionResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/sessions", createSessionRequest{
		FromNumber: "+14165550001",
		ToNumber:   "+14165550002",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[createSessionResponse](t, resp)
}

func (e *testEnv) postIntent(t *testing.T, sessionID string, intent domain.Intent) flow.Reply {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/sessions/"+sessionID+"/intents", intent)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decode[flow.Reply](t, resp)
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	e := newTestEnv(t)

	created := e.createSession(t)
	require.NotEmpty(t, created.SessionID)
	assert.Equal(t, domain.NodeGreeting, created.Reply.Node)
	require.Len(t, created.Reply.EntryUtterances, 1)

	// The call shows up in the live registry.
	resp := e.do(t, http.MethodGet, "/calls", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	calls := decode[[]domain.CallInfo](t, resp)
	require.Len(t, calls, 1)
	assert.Equal(t, created.SessionID, calls[0].SessionID)

	// Record what the caller said.
	uResp := e.do(t, http.MethodPost, "/sessions/"+created.SessionID+"/utterances", utteranceRequest{Content: "hi, wings please"})
	assert.Equal(t, http.StatusNoContent, uResp.StatusCode)
	uResp.Body.Close()

	// Drive the order to completion.
	e.postIntent(t, created.SessionID, domain.Intent{Name: domain.IntentSetReadyToOrder})
	e.postIntent(t, created.SessionID, domain.Intent{
		Name: domain.IntentAddItem,
		Args: map[string]any{"item_name": "Wings", "size": "1 lb"},
	})
	e.postIntent(t, created.SessionID, domain.Intent{Name: domain.IntentCompleteOrder})
	e.postIntent(t, created.SessionID, domain.Intent{Name: domain.IntentConfirmOrder})
	reply := e.postIntent(t, created.SessionID, domain.Intent{
		Name: domain.IntentSetCustomerInfo,
		Args: map[string]any{"name": "Dana", "phone": "+14165550123"},
	})
	assert.Equal(t, domain.NodeCompletion, reply.Node)

	reply = e.postIntent(t, created.SessionID, domain.Intent{Name: domain.IntentEndCall})
	assert.True(t, reply.EndOfCall)

	// The hangup timer flushes the call record and removes the session.
	require.Eventually(t, func() bool {
		return e.backend.records() == 1
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		resp := e.do(t, http.MethodGet, "/sessions/"+created.SessionID, nil)
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 5*time.Millisecond)
}

func TestIntentProtocolViolationOverHTTP(t *testing.T) {
	e := newTestEnv(t)
	created := e.createSession(t)

	// Out-of-node intents come back as a reprompt, not an error status.
	reply := e.postIntent(t, created.SessionID, domain.Intent{Name: domain.IntentConfirmOrder})
	assert.Equal(t, flow.DefaultConfig().Reprompt, reply.Utterance)
	assert.Equal(t, domain.NodeGreeting, reply.Node)
}

func TestSessionRecordEndpoint(t *testing.T) {
	e := newTestEnv(t)
	created := e.createSession(t)

	resp := e.do(t, http.MethodGet, "/sessions/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rec := decode[domain.CallRecord](t, resp)
	assert.Equal(t, created.SessionID, rec.SessionID)
	assert.Equal(t, "+14165550001", rec.FromNumber)
	assert.NotEmpty(t, rec.Transcript)
}

func TestDisconnectFlushesRecord(t *testing.T) {
	e := newTestEnv(t)
	created := e.createSession(t)

	resp := e.do(t, http.MethodDelete, "/sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	assert.Equal(t, 1, e.backend.records())

	// A second disconnect is a 404; the record is not re-submitted.
	resp = e.do(t, http.MethodDelete, "/sessions/"+created.SessionID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, e.backend.records())
}

func TestUnknownSession(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/sessions/nope/intents", domain.Intent{Name: domain.IntentGetMenu})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestIntentRequiresName(t *testing.T) {
	e := newTestEnv(t)
	created := e.createSession(t)

	resp := e.do(t, http.MethodPost, "/sessions/"+created.SessionID+"/intents", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	e.createSession(t)

	resp := e.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "voiceorder_calls_started_total 1")
}

func TestShutdownFlushesLiveCalls(t *testing.T) {
	e := newTestEnv(t)
	e.createSession(t)
	e.createSession(t)

	e.server.Shutdown(context.Background())
	assert.Equal(t, 2, e.backend.records())
}
