package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestRequestAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("user", srv.URL, srv.Client(), zaptest.NewLogger(t),
		WithToken(func() string { return "tok-123" }))

	if _, err := client.Do(context.Background(), http.MethodGet, "/ping", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("got %q", gotAuth)
	}
}

func TestEmptyTokenSendsAnonymously(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("public", srv.URL, srv.Client(), zaptest.NewLogger(t),
		WithToken(func() string { return "" }))

	if _, err := client.Do(context.Background(), http.MethodGet, "/ping", nil, nil); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestUnauthorizedRunsHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	hookCalls := 0
	client := NewClient("user", srv.URL, srv.Client(), zaptest.NewLogger(t),
		WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.Do(context.Background(), http.MethodGet, "/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("hook ran %d times", hookCalls)
	}
}

func TestForbiddenDoesNotRunHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"insufficient role"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	hookCalls := 0
	client := NewClient("user", srv.URL, srv.Client(), zaptest.NewLogger(t),
		WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.Do(context.Background(), http.MethodGet, "/admin", nil, nil)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if hookCalls != 0 {
		t.Fatal("403 must not run the unauthorized hook")
	}
}

func TestErrorMessageResolution(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"bad input"}`, "bad input"},
		{"error field", `{"error":"broken"}`, "broken"},
		{"message wins", `{"message":"msg","error":"err"}`, "msg"},
		{"no body", ``, "Bad Request"},
		{"non-json body", `oops`, "Bad Request"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			client := NewClient("user", srv.URL, srv.Client(), zaptest.NewLogger(t))
			_, err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Message != tc.want {
				t.Fatalf("got %q, want %q", apiErr.Message, tc.want)
			}
		})
	}
}

func TestNetworkFailureIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	client := NewClient("user", srv.URL, http.DefaultClient, zaptest.NewLogger(t))
	_, err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil)
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestNoRetries(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.Error(w, `{"message":"down"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("user", srv.URL, srv.Client(), zaptest.NewLogger(t))
	if _, err := client.Do(context.Background(), http.MethodGet, "/x", nil, nil); err == nil {
		t.Fatal("expected error")
	}
	if requests != 1 {
		t.Fatalf("expected exactly one request, got %d", requests)
	}
}

func TestWithBearerOverridesScopeToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		http.Error(w, `{}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	hookCalls := 0
	client := NewClient("public", srv.URL, srv.Client(), zaptest.NewLogger(t),
		WithToken(func() string { return "stale" }),
		WithUnauthorizedHook(func() { hookCalls++ }))

	_, err := client.WithBearer("fresh").Do(context.Background(), http.MethodGet, "/me", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if gotAuth != "Bearer fresh" {
		t.Fatalf("got %q", gotAuth)
	}
	if hookCalls != 0 {
		t.Fatal("bearer-bound copy must not inherit the 401 hook")
	}
}

func TestUnwrapData(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}

	if err := UnwrapData([]byte(`{"data":{"name":"wrapped"}}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "wrapped" {
		t.Fatalf("got %q", out.Name)
	}

	if err := UnwrapData([]byte(`{"name":"bare"}`), &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "bare" {
		t.Fatalf("got %q", out.Name)
	}

	var b bool
	if err := UnwrapData([]byte(`{"data":true}`), &b); err != nil {
		t.Fatal(err)
	}
	if !b {
		t.Fatal("expected true")
	}

	if err := UnwrapData([]byte(`not json`), &out); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
