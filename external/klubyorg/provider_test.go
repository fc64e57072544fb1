package klubyorg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
)

type stubAuthenticator struct {
	ok  bool
	err error
}

func (s stubAuthenticator) EnsureAuthenticated(context.Context) (bool, error) {
	return s.ok, s.err
}

func TestProvider_LoginWithoutCookieFailsEveryDate(t *testing.T) {
	t.Parallel()

	var scheduleCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logowanie" {
			w.WriteHeader(http.StatusOK)
			return
		}
		scheduleCalls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	p, err := New(Config{BaseURL: srv.URL + "/", Username: "u", Password: "bad"}, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result := p.FetchAvailability(context.Background(), testClub, testDate, testDate.AddDate(0, 0, 2))
	if len(result.Slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(result.Slots))
	}
	if len(result.Failures) != 3 {
		t.Fatalf("unexpected failure count: got=%d want=3", len(result.Failures))
	}
	for _, f := range result.Failures {
		if f.Reason != availability.ReasonAuthenticationFailed || f.Message != "Failed to authenticate to kluby.org" {
			t.Fatalf("unexpected failure: %+v", f)
		}
	}
	if scheduleCalls.Load() != 0 {
		t.Fatalf("schedule must not be fetched without a session")
	}
}

func TestProvider_AuthErrorFailsEveryDate(t *testing.T) {
	t.Parallel()

	p := newProvider(nil, stubAuthenticator{err: errors.New("dial tcp: refused")}, newTestParser("2024-01-15 08:00"), 1, logging.NewNop())
	result := p.FetchAvailability(context.Background(), testClub, testDate, testDate)
	if len(result.Failures) != 1 || result.Failures[0].Message != "Error authenticating to kluby.org" {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
}

func TestProvider_FetchesEveryPageAfterLogin(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort 1"},
		row("09:00", open),
		row("09:30", open),
	)
	var loginCalls, scheduleCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/logowanie":
			loginCalls.Add(1)
			http.SetCookie(w, &http.Cookie{Name: "kluby_autolog", Value: "token", Path: "/"})
			w.WriteHeader(http.StatusOK)
		case "/test-club/grafik":
			scheduleCalls.Add(1)
			if r.URL.Query().Get("dyscyplina") != "4" {
				t.Errorf("unexpected query: %s", r.URL.RawQuery)
			}
			if r.URL.Query().Get("strona") == "1" {
				_, _ = w.Write([]byte(`<html><body>brak grafiku</body></html>`))
				return
			}
			_, _ = w.Write(html)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	p, err := New(Config{BaseURL: srv.URL + "/", Username: "u", Password: "p", DayWorkers: 2}, logging.NewNop())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	p.parser = NewScheduleParser(srv.URL+"/", fixedNow("2024-01-15 08:00"))

	pages := 2
	c := testClub
	c.PagesCount = &pages

	result := p.FetchAvailability(context.Background(), c, testDate, testDate)
	if loginCalls.Load() != 1 {
		t.Fatalf("unexpected login count: %d", loginCalls.Load())
	}
	if scheduleCalls.Load() != 2 {
		t.Fatalf("unexpected schedule fetch count: %d", scheduleCalls.Load())
	}
	if len(result.Slots) != 1 {
		t.Fatalf("unexpected slot count: got=%d want=1", len(result.Slots))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("unexpected failure count: got=%d want=1", len(result.Failures))
	}
	f := result.Failures[0]
	if f.Page != 1 || f.Reason != availability.ReasonMalformedPayload || f.Message != "booking schedule table not found" {
		t.Fatalf("unexpected failure: %+v", f)
	}

	// a second sync reuses the session cookie
	_ = p.FetchAvailability(context.Background(), testClub, testDate, testDate)
	if loginCalls.Load() != 1 {
		t.Fatalf("expected session reuse, login count=%d", loginCalls.Load())
	}
}
