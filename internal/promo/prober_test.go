package promo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestProbeKeepsOnlyReachable(t *testing.T) {
	var methods []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methods = append(methods, r.Method)
		if r.URL.Path == "/b.jpg" || r.URL.Path == "/d.jpg" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	prober := NewProber(server.URL, 100, 10)
	got := prober.Probe(context.Background(), []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"})

	if len(got) != 2 || got[0] != "b.jpg" || got[1] != "d.jpg" {
		t.Errorf("Probe = %v, want [b.jpg d.jpg] in candidate order", got)
	}
	for _, m := range methods {
		if m != http.MethodHead {
			t.Errorf("probe used %s, want HEAD only", m)
		}
	}
}

func TestProbeAllUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	prober := NewProber(server.URL, 100, 10)
	if got := prober.Probe(context.Background(), []string{"a.jpg", "b.jpg"}); len(got) != 0 {
		t.Errorf("Probe = %v, want empty", got)
	}
}

func TestResolve(t *testing.T) {
	prober := NewProber("http://host/assets/", 100, 10)

	tests := []struct {
		candidate string
		want      string
	}{
		{"promo1.jpg", "http://host/assets/promo1.jpg"},
		{"/promo2.jpg", "http://host/assets/promo2.jpg"},
		{"https://cdn/img.jpg", "https://cdn/img.jpg"},
	}
	for _, tt := range tests {
		if got := prober.Resolve(tt.candidate); got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.candidate, got, tt.want)
		}
	}

	bare := NewProber("", 100, 10)
	if got := bare.Resolve("promo1.jpg"); got != "promo1.jpg" {
		t.Errorf("Resolve without base = %q", got)
	}
}

func TestPreload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ok.jpg" {
			w.Write([]byte("imagedata"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	prober := NewProber(server.URL, 100, 10)

	if err := prober.Preload(context.Background(), server.URL+"/ok.jpg"); err != nil {
		t.Errorf("Preload ok.jpg failed: %v", err)
	}
	if err := prober.Preload(context.Background(), server.URL+"/missing.jpg"); err == nil {
		t.Error("Preload of missing image should fail")
	}
}
