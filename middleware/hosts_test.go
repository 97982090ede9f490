package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHostAllowed(t *testing.T) {
	patterns := []string{"127.0.0.1", "localhost", ".ku.ac.th"}

	testCases := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"LOCALHOST", true},
		{"127.0.0.1", true},
		{"ku.ac.th", true},
		{"polls.ku.ac.th", true},
		{"evilku.ac.th", false},
		{"example.com", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.host, func(t *testing.T) {
			if got := HostAllowed(tc.host, patterns); got != tc.want {
				t.Errorf("HostAllowed(%q) = %v, want %v", tc.host, got, tc.want)
			}
		})
	}

	if !HostAllowed("anything.example", []string{"*"}) {
		t.Error("wildcard should allow any host")
	}
}

func TestAllowedHosts(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := AllowedHosts([]string{"127.0.0.1", "localhost"}, next)

	testCases := []struct {
		name     string
		host     string
		expected int
	}{
		{"allowed with port", "localhost:8000", http.StatusOK},
		{"allowed ip", "127.0.0.1", http.StatusOK},
		{"disallowed", "attacker.example:8000", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/polls", nil)
			req.Host = tc.host
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tc.expected {
				t.Errorf("Expected status %d for host %s, got %d", tc.expected, tc.host, w.Code)
			}
		})
	}
}

func TestAllowedHosts_EmptyListAllowsLocal(t *testing.T) {
	handler := AllowedHosts(nil, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for host, expected := range map[string]int{
		"localhost":      http.StatusOK,
		"app.localhost":  http.StatusOK,
		"[::1]:8000":     http.StatusOK,
		"polls.ku.ac.th": http.StatusBadRequest,
	} {
		req := httptest.NewRequest("GET", "/", nil)
		req.Host = host
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != expected {
			t.Errorf("host %s: expected %d, got %d", host, expected, w.Code)
		}
	}
}
