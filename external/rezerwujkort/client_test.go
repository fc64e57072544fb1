package rezerwujkort

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
)

var testClub = club.Club{ID: "club-rk", Name: "Test Club", Provider: club.ProviderRezerwujKort, TimeZone: "Europe/Warsaw"}

const calendarBody = `{
  "Date": "2025-07-11",
  "Courts": [
    {"CourtId": 1, "CourtName": "Indoor Court 1", "CourtDescription": "Indoor court", "OnlineReservation": true, "Hours": [
      {"HourId": 1, "HourName": "05:00", "HourStatus": "OPEN", "PossibleHalfHourSlots": [2, 3, 4]},
      {"HourId": 2, "HourName": "08:00", "HourStatus": "OPEN", "PossibleHalfHourSlots": [2, 3, 4, 5]},
      {"HourId": 3, "HourName": "23:00", "HourStatus": "OPEN", "PossibleHalfHourSlots": [2]},
      {"HourId": 4, "HourName": "10:00", "HourStatus": "CLOSED", "PossibleHalfHourSlots": [2]}
    ]},
    {"courtId": 2, "courtName": "Kort odkryty", "courtDescription": "Kort odkryty z oświetleniem", "onlineReservation": true, "hours": [
      {"hourId": 7, "hourName": "09:00", "hourStatus": "OPEN", "possibleHalfHourSlots": [2]}
    ]},
    {"CourtId": 3, "CourtName": "Offline Court", "OnlineReservation": false, "Hours": [
      {"HourId": 9, "HourName": "12:00", "HourStatus": "OPEN", "PossibleHalfHourSlots": [2]}
    ]}
  ]
}`

func newTestProvider(baseURL string, now time.Time) *Provider {
	p := New(Config{BaseURL: baseURL, EarliestHour: 6, LatestHour: 22}, logging.NewNop())
	p.now = func() time.Time { return now }
	return p
}

func TestProvider_ExpandsOpenHours(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/reservation/one_day_client_reservation_calendar/test_club/2025-07-11/1/2" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(calendarBody))
	}))
	defer srv.Close()

	date := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	result := newTestProvider(srv.URL, date.Add(-24*time.Hour)).FetchAvailability(context.Background(), testClub, date, date)

	if len(result.Failures) != 0 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	// 08:00 yields 60/90/120 (150 dropped); odkryty 09:00 yields 60.
	if len(result.Slots) != 4 {
		t.Fatalf("unexpected slot count: got=%d want=4 (%+v)", len(result.Slots), result.Slots)
	}

	for _, s := range result.Slots {
		if s.Duration() > 2*time.Hour {
			t.Fatalf("slot longer than two hours: %s", s.Duration())
		}
		if s.CourtName == "Offline Court" {
			t.Fatalf("offline court must be skipped")
		}
		if s.StartTime.Location() != time.UTC {
			t.Fatalf("start must be UTC: %s", s.StartTime)
		}
		if !strings.HasPrefix(s.BookingURL, srv.URL+"/klub/test_club/rezerwacja_online?day=2025-07-11&court=") {
			t.Fatalf("unexpected booking url: %s", s.BookingURL)
		}
		switch s.CourtName {
		case "Indoor Court 1":
			if s.CourtType != availability.CourtIndoor || !s.StartTime.Equal(time.Date(2025, 7, 11, 6, 0, 0, 0, time.UTC)) {
				t.Fatalf("unexpected indoor slot: %+v", s)
			}
		case "Kort odkryty":
			if s.CourtType != availability.CourtOutdoor || s.Duration() != time.Hour {
				t.Fatalf("unexpected outdoor slot: %+v", s)
			}
		default:
			t.Fatalf("unexpected court: %s", s.CourtName)
		}
	}
}

func TestProvider_SkipsPastHours(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(calendarBody))
	}))
	defer srv.Close()

	date := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	// 06:30 UTC is 08:30 in Warsaw: the 08:00 hour is gone, 09:00 remains.
	result := newTestProvider(srv.URL, date.Add(6*time.Hour+30*time.Minute)).FetchAvailability(context.Background(), testClub, date, date)
	if len(result.Slots) != 1 || result.Slots[0].CourtName != "Kort odkryty" {
		t.Fatalf("unexpected slots: %+v", result.Slots)
	}
}

func TestProvider_InvalidJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{ invalid json content }`))
	}))
	defer srv.Close()

	date := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	result := newTestProvider(srv.URL, date).FetchAvailability(context.Background(), testClub, date, date)
	if len(result.Failures) != 1 || result.Failures[0].Message != "Invalid JSON response from RezerwujKort API" {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
}

func TestProvider_NetworkError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	date := time.Date(2025, 7, 11, 0, 0, 0, 0, time.UTC)
	result := newTestProvider(baseURL, date).FetchAvailability(context.Background(), testClub, date, date)
	if len(result.Failures) != 1 {
		t.Fatalf("unexpected failures: %+v", result.Failures)
	}
	if f := result.Failures[0]; f.Reason != availability.ReasonNetworkError || f.Message != "Network error calling RezerwujKort API" {
		t.Fatalf("unexpected failure: %+v", f)
	}
}
