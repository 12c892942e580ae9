package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/internal/model/persona"
	assistantService "github.com/zhouzirui/z-style/backend/internal/service/assistant"
	"github.com/zhouzirui/z-style/backend/internal/service/audit"
)

type stubProvider struct {
	reply string
}

func (s stubProvider) Complete(_ context.Context, system, user string, _ int) (string, error) {
	return s.reply, nil
}

func setupRouter(reply string) (*chi.Mux, *audit.Service) {
	turns := audit.NewService(0)
	svc := assistantService.NewService(persona.DefaultLoader(), stubProvider{reply: reply}, turns)
	svc.Initialize(context.Background())

	handler := New(svc, catalog.NewMemoryStore(catalog.Seed()), turns)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, turns
}

func postJSON(r http.Handler, target string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatEndpoint(t *testing.T) {
	r, turns := setupRouter("Pair it with white sneakers.")

	resp := postJSON(r, "/assistant/chat", map[string]string{"message": "How do I style a leather jacket?"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var reply assistantService.Reply
	if err := json.Unmarshal(resp.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if reply.Message != "Pair it with white sneakers." || reply.AgentID != "fashion" || reply.Fallback != "" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if got := turns.List(context.Background(), 0); len(got) != 1 {
		t.Fatalf("expected one audited turn, got %d", len(got))
	}
}

func TestChatEndpointRequiresMessage(t *testing.T) {
	r, _ := setupRouter("unused")

	if resp := postJSON(r, "/assistant/chat", map[string]string{"message": "  "}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestRouteEndpoint(t *testing.T) {
	r, _ := setupRouter("unused")

	req := httptest.NewRequest(http.MethodGet, "/assistant/route?message=I+want+to+return+a+sweater", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var route assistantService.Route
	if err := json.Unmarshal(resp.Body.Bytes(), &route); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if route.PersonaID != "support" {
		t.Fatalf("expected support persona, got %+v", route)
	}

	req = httptest.NewRequest(http.MethodGet, "/assistant/route", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSuggestionsEndpointFallback(t *testing.T) {
	r, _ := setupRouter("no array here")

	resp := postJSON(r, "/assistant/suggestions", map[string]string{"context": "browsing knitwear"})
	var result assistantService.Suggestions
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if strings.Join(result.Items, "|") != "Show me more|Similar items|Style tips" {
		t.Fatalf("unexpected suggestions: %+v", result)
	}
}

func TestStylistSuggestionsEndpoint(t *testing.T) {
	r, _ := setupRouter("1. Add a belt - defines the waist")

	resp := postJSON(r, "/assistant/stylist-suggestions", map[string]any{"skus": []string{"JKT-001", "missing"}, "occasion": "brunch"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var result assistantService.StylistResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(result.Suggestions) != 1 || result.Suggestions[0].Text != "Add a belt" {
		t.Fatalf("unexpected suggestions: %+v", result)
	}
}

func TestTurnsEndpoint(t *testing.T) {
	r, _ := setupRouter("Sure thing.")
	postJSON(r, "/assistant/chat", map[string]string{"message": "first"})
	postJSON(r, "/assistant/chat", map[string]string{"message": "second"})

	req := httptest.NewRequest(http.MethodGet, "/assistant/turns?limit=1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	var body struct {
		Turns []audit.Turn `json:"turns"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Turns) != 1 || body.Turns[0].UserMessage != "second" {
		t.Fatalf("unexpected turns: %+v", body.Turns)
	}
}

func TestWebSocketChat(t *testing.T) {
	r, _ := setupRouter("Try a silk scarf.")
	server := httptest.NewServer(r)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/assistant/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var connected outgoingMessage
	if err := conn.ReadJSON(&connected); err != nil {
		t.Fatalf("read connected err: %v", err)
	}
	if connected.Type != "connected" || connected.SessionID == "" {
		t.Fatalf("unexpected greeting: %+v", connected)
	}

	if err := conn.WriteJSON(map[string]any{
		"type":      "chat",
		"requestId": "r1",
		"data":      map[string]string{"message": "what goes with navy?"},
	}); err != nil {
		t.Fatalf("write err: %v", err)
	}

	var reply struct {
		Type      string                 `json:"type"`
		RequestID string                 `json:"requestId"`
		Data      assistantService.Reply `json:"data"`
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read reply err: %v", err)
	}
	if reply.Type != "reply" || reply.RequestID != "r1" || reply.Data.Message != "Try a silk scarf." {
		t.Fatalf("unexpected reply frame: %+v", reply)
	}

	if err := conn.WriteJSON(map[string]any{"type": "dance"}); err != nil {
		t.Fatalf("write err: %v", err)
	}
	var errFrame outgoingMessage
	if err := conn.ReadJSON(&errFrame); err != nil {
		t.Fatalf("read error frame err: %v", err)
	}
	if errFrame.Type != "error" {
		t.Fatalf("expected error frame, got %+v", errFrame)
	}
}
