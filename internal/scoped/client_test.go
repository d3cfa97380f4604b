package scoped

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func newTestClient(ts *httptest.Server) *Client {
	return &Client{
		baseURL:    ts.URL,
		token:      "secret-token",
		httpClient: ts.Client(),
	}
}

func TestClient_Headers(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q, want application/json", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Authorization = %q, want bearer token", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	if _, nerr := c.Get("/v1/icon-sets", nil); nerr != nil {
		t.Fatalf("Get error: %v", nerr)
	}
}

func TestClient_NoTokenNoAuthHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Errorf("Authorization = %q, want unset", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := &Client{baseURL: ts.URL, httpClient: ts.Client()}
	if _, nerr := c.Get("/v1/themes", nil); nerr != nil {
		t.Fatalf("Get error: %v", nerr)
	}
}

func TestClient_QueryParams(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("stage"); got != "draft" {
			t.Errorf("stage = %q, want draft", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	params := url.Values{"stage": {"draft"}}
	if _, nerr := c.Get("/v1/icon-sets/a/bundle", params); nerr != nil {
		t.Fatalf("Get error: %v", nerr)
	}
}

func TestClient_NonOKIsNormalized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"not_found","message":"no such icon set"}}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	_, nerr := c.Get("/v1/icon-sets/missing", nil)
	if nerr == nil {
		t.Fatal("Get should fail for 404")
	}
	if nerr.Status != http.StatusNotFound || nerr.Message != "no such icon set" || nerr.Code != "not_found" {
		t.Errorf("got %+v", nerr)
	}
}

func TestClient_TransportFailureIsNormalized(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse connections

	c := &Client{baseURL: ts.URL, httpClient: http.DefaultClient}
	_, nerr := c.Get("/v1/icon-sets", nil)
	if nerr == nil {
		t.Fatal("Get against a closed server should fail")
	}
	if nerr.Fields[RootErrorField] == "" {
		t.Errorf("transport failures should carry the root field, got %v", nerr.Fields)
	}
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"iconSetId":"icons-alpha"}`))
	}))
	defer ts.Close()

	c := newTestClient(ts)
	body, nerr := c.Post("/v1/icon-sets", IconSetWrite{Name: "Alpha"})
	if nerr != nil {
		t.Fatalf("Post error: %v", nerr)
	}
	if string(body) != `{"iconSetId":"icons-alpha"}` {
		t.Errorf("body = %q", string(body))
	}
}

func TestNewClient(t *testing.T) {
	c := NewClient("https://settings.example.com", "tok", ClientOptions{})
	if c.baseURL != "https://settings.example.com" || c.token != "tok" {
		t.Errorf("client = %+v", c)
	}
}
