// Copyright (c) 2025 niichapats.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/niichapats/ku-polls/cliparse"
	"github.com/niichapats/ku-polls/middleware"
	"github.com/niichapats/ku-polls/models"
	"github.com/niichapats/ku-polls/testutil"
)

type fixedLifecycle struct{ serving bool }

func (f fixedLifecycle) Serving() bool { return f.serving }
func (f fixedLifecycle) Phase() string {
	if f.serving {
		return "serving"
	}
	return "migrating"
}

// testConfig allows httptest's default Host header
func testConfig() cliparse.Config {
	cfg := testutil.GetTestConfig()
	cfg.AllowedHosts = append(cfg.AllowedHosts, "example.com")
	return cfg
}

func TestHealthEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testConfig(), fixedLifecycle{true})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestReadyEndpoint(t *testing.T) {
	db := testutil.SetupTestDB(t)

	for _, tc := range []struct {
		serving  bool
		expected int
	}{
		{true, http.StatusOK},
		{false, http.StatusServiceUnavailable},
	} {
		mux := NewRouter(db, testConfig(), fixedLifecycle{tc.serving})

		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest("GET", "/ready", nil))

		if w.Code != tc.expected {
			t.Errorf("serving=%v: expected %d, got %d", tc.serving, tc.expected, w.Code)
		}
	}
}

func TestRootRedirect(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testConfig(), fixedLifecycle{true})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusFound {
		t.Errorf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/polls" {
		t.Errorf("Expected redirect to /polls, got %q", loc)
	}
}

func TestRouteExistence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testConfig(), fixedLifecycle{true})

	// 400, 401, 404 are all valid responses depending on handler logic
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/ready"},
		{"GET", "/polls"},
		{"GET", "/polls/test-id"},
		{"GET", "/polls/test-id/results"},
		{"POST", "/polls/test-id/vote"},
		{"GET", "/polls/test-id/my-vote"},
		{"POST", "/accounts/login"},
		{"POST", "/accounts/logout"},
		{"POST", "/admin/questions"},
		{"POST", "/admin/questions/test-id/choices"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testConfig(), fixedLifecycle{true})

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"GET to vote endpoint", "GET", "/polls/test-id/vote", http.StatusMethodNotAllowed},
		{"DELETE question", "DELETE", "/polls/test-id", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestDisallowedHost(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testutil.GetTestConfig(), fixedLifecycle{true})

	req := httptest.NewRequest("GET", "/polls", nil)
	req.Host = "evil.example.org"
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for disallowed host, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/polls", nil)
	req.Host = "localhost:8000"
	w = httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for localhost, got %d", w.Code)
	}
}

func TestVoteFlowThroughRouter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mux := NewRouter(db, testConfig(), fixedLifecycle{true})

	testutil.CreateTestUser(t, db, "demo1", "Hackme22", false)
	questionID := testutil.CreateTestQuestion(t, db, "Routed question", -1)
	choiceID := testutil.AddTestChoice(t, db, questionID, "Only")

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/accounts/login", models.LoginRequest{Username: "demo1", Password: "Hackme22"}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var login models.LoginResponse
	testutil.AssertJSON(t, w, &login)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/polls/"+questionID+"/vote", models.VoteRequest{Choice: choiceID}, testutil.BearerHeader(login.Token)))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/polls/"+questionID+"/results", nil, nil))
	testutil.AssertStatus(t, w, http.StatusOK)
	var results models.ResultsResponse
	testutil.AssertJSON(t, w, &results)
	if results.TotalVotes != 1 {
		t.Errorf("Expected 1 vote, got %d", results.TotalVotes)
	}
}
