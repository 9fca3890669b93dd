package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/server"
)

type rpcResult struct {
	Result struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
		Contents []struct {
			URI  string `json:"uri"`
			Text string `json:"text"`
		} `json:"contents"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func rpc(t *testing.T, srv *server.MCPServer, id int, method string, params any) rpcResult {
	t.Helper()
	p, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	msg := fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"method":%q,"params":%s}`, id, method, p)
	resp := srv.HandleMessage(context.Background(), json.RawMessage(msg))

	b, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var out rpcResult
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("decode response %s: %v", b, err)
	}
	if out.Error != nil {
		t.Fatalf("%s failed: %s", method, out.Error.Message)
	}
	return out
}

func newTestServer(t *testing.T) *server.MCPServer {
	t.Helper()
	svc, _ := newTestService(t)
	srv := newServer("", "", svc)
	rpc(t, srv, 0, "initialize", map[string]any{
		"protocolVersion": "2025-03-26",
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "0"},
	})
	return srv
}

func TestServerListsTools(t *testing.T) {
	srv := newTestServer(t)
	out := rpc(t, srv, 1, "tools/list", map[string]any{})

	got := map[string]bool{}
	for _, tool := range out.Result.Tools {
		got[tool.Name] = true
	}
	for _, name := range []string{
		"get_session", "edit_session", "new_entry", "save_entry", "open_entry",
		"list_entries", "get_entry", "get_report", "get_calendar", "assist",
	} {
		if !got[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestServerEditSaveAndRead(t *testing.T) {
	srv := newTestServer(t)

	out := rpc(t, srv, 1, "tools/call", map[string]any{
		"name": "edit_session",
		"arguments": map[string]any{
			"book":       "Ruth",
			"chapter":    2,
			"reflection": "gleaning",
			"add_tags":   []string{"harvest"},
		},
	})
	if out.Result.IsError || len(out.Result.Content) == 0 {
		t.Fatalf("edit_session failed: %+v", out.Result)
	}
	var session SessionDTO
	if err := json.Unmarshal([]byte(out.Result.Content[0].Text), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	if session.Book != "룻기" || session.Chapter != 2 || session.Reflection != "gleaning" {
		t.Fatalf("unexpected session %+v", session.Fields)
	}

	out = rpc(t, srv, 2, "tools/call", map[string]any{"name": "save_entry", "arguments": map[string]any{}})
	if out.Result.IsError {
		t.Fatalf("save_entry failed: %s", out.Result.Content[0].Text)
	}
	var saved EntryDTO
	if err := json.Unmarshal([]byte(out.Result.Content[0].Text), &saved); err != nil {
		t.Fatalf("decode entry: %v", err)
	}
	if saved.ID == "" || saved.Title != "룻기 2" {
		t.Fatalf("unexpected entry %+v", saved)
	}

	out = rpc(t, srv, 3, "resources/read", map[string]any{"uri": "gracelog://entries/" + saved.ID})
	if len(out.Result.Contents) != 1 || !strings.Contains(out.Result.Contents[0].Text, "gleaning") {
		t.Fatalf("unexpected resource contents %+v", out.Result.Contents)
	}

	out = rpc(t, srv, 4, "resources/read", map[string]any{"uri": "gracelog://entries"})
	if len(out.Result.Contents) != 1 || !strings.Contains(out.Result.Contents[0].Text, `"count":1`) {
		t.Fatalf("unexpected resource contents %+v", out.Result.Contents)
	}
}

func TestServerToolErrors(t *testing.T) {
	srv := newTestServer(t)

	out := rpc(t, srv, 1, "tools/call", map[string]any{"name": "get_report", "arguments": map[string]any{}})
	if !out.Result.IsError || !strings.Contains(out.Result.Content[0].Text, "premium") {
		t.Fatalf("expected premium error, got %+v", out.Result)
	}

	out = rpc(t, srv, 2, "tools/call", map[string]any{"name": "get_entry", "arguments": map[string]any{}})
	if !out.Result.IsError {
		t.Fatal("expected error for missing id")
	}

	out = rpc(t, srv, 3, "tools/call", map[string]any{"name": "assist", "arguments": map[string]any{}})
	if !out.Result.IsError {
		t.Fatal("expected assist to fail for a free profile")
	}
}

func TestRunnerRequiresService(t *testing.T) {
	if err := (Runner{}).Do(context.Background()); err == nil {
		t.Fatal("expected error without a service")
	}
}

func TestRunnerHTTPShutsDownOnCancel(t *testing.T) {
	svc, _ := newTestService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listening := make(chan net.Addr, 1)
	r := Runner{
		Service:         svc.app,
		Transport:       TransportHTTP,
		HTTPListenAddr:  "127.0.0.1:0",
		OnHTTPListening: func(a net.Addr) { listening <- a },
	}
	done := make(chan error, 1)
	go func() { done <- r.Do(ctx) }()

	select {
	case <-listening:
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not start listening")
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerRejectsHalfTLS(t *testing.T) {
	svc, _ := newTestService(t)
	r := Runner{Service: svc.app, Transport: TransportHTTP, HTTPServerCert: "cert.pem"}
	if err := r.Do(context.Background()); err == nil {
		t.Fatal("expected error when only a certificate is given")
	}
}
