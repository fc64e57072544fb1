package klubyorg

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

const open = `<td><a href="/rezerwuj/123">Rezerwuj</a></td>`
const taken = `<td class="zajete">Zajęte</td>`

var testClub = club.Club{ID: "club-1", Name: "Test Club", Provider: club.ProviderKlubyOrg, TimeZone: "Europe/Warsaw"}
var testDate = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func fixedNow(local string) func() time.Time {
	loc, _ := time.LoadLocation("Europe/Warsaw")
	t, _ := time.ParseInLocation("2006-01-02 15:04", local, loc)
	return func() time.Time { return t }
}

func grid(headers []string, rows ...string) []byte {
	var b strings.Builder
	b.WriteString(`<html><body><table id="grafik"><thead><tr><th>Godzina</th>`)
	for _, h := range headers {
		b.WriteString("<th>" + h + "</th>")
	}
	b.WriteString("</tr></thead><tbody>")
	for _, r := range rows {
		b.WriteString("<tr>" + r + "</tr>")
	}
	b.WriteString("</tbody></table></body></html>")
	return []byte(b.String())
}

func row(label string, cells ...string) string {
	return "<td>" + label + "</td>" + strings.Join(cells, "")
}

func newTestParser(now string) *ScheduleParser {
	return NewScheduleParser("https://kluby.org/", fixedNow(now))
}

func TestParse_MissingTable(t *testing.T) {
	t.Parallel()

	_, err := newTestParser("2024-01-15 08:00").Parse([]byte(`<html><body><p>maintenance</p></body></html>`), testDate, testClub, "x")
	var scheduleErr *ScheduleError
	if !errors.As(err, &scheduleErr) || scheduleErr.Message != "booking schedule table not found" {
		t.Fatalf("unexpected error: %v", err)
	}
	if !errors.Is(err, provider.ErrMalformedPayload) {
		t.Fatalf("schedule errors must classify as malformed payload")
	}
}

func TestParse_NoRows(t *testing.T) {
	t.Parallel()

	_, err := newTestParser("2024-01-15 08:00").Parse(grid([]string{"Kort 1", "Kort 2"}), testDate, testClub, "x")
	var scheduleErr *ScheduleError
	if !errors.As(err, &scheduleErr) || scheduleErr.Message != "no half-hour rows found" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_TwoOpenRowsYieldOneHour(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort 1"},
		row("09:00", open),
		row("09:30", open),
	)
	slots, err := newTestParser("2024-01-15 08:00").Parse(html, testDate, testClub, "test-club/grafik?data_grafiku=2024-01-15&dyscyplina=4&strona=0")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("unexpected slot count: got=%d want=1", len(slots))
	}

	s := slots[0]
	wantStart := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	if !s.StartTime.Equal(wantStart) || s.Duration() != time.Hour {
		t.Fatalf("unexpected slot window: %s + %s", s.StartTime, s.Duration())
	}
	if s.StartTime.Location() != time.UTC {
		t.Fatalf("start time must be UTC, got %s", s.StartTime.Location())
	}
	if s.CourtName != "Kort 1" || s.CourtType != availability.CourtOutdoor {
		t.Fatalf("unexpected court: %s %s", s.CourtName, s.CourtType)
	}
	if s.Price != 0 || s.Currency != "PLN" || s.Provider != club.ProviderKlubyOrg {
		t.Fatalf("unexpected pricing/provider: %+v", s)
	}
	if s.BookingURL != "https://kluby.org/test-club/grafik?data_grafiku=2024-01-15&dyscyplina=4&strona=0" {
		t.Fatalf("unexpected booking url: %s", s.BookingURL)
	}
	if s.ClubID != "club-1" || s.ClubName != "Test Club" {
		t.Fatalf("unexpected club fields: %+v", s)
	}
}

func TestParse_SingleOpenRowIsDiscarded(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort 1"},
		row("09:00", taken),
		row("09:30", open),
		row("10:00", taken),
	)
	slots, err := newTestParser("2024-01-15 08:00").Parse(html, testDate, testClub, "x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots, got %d", len(slots))
	}
}

func TestParse_FourOpenRowsExpandEveryOption(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Hala A"},
		row("09:00", open),
		row("09:30", open),
		row("10:00", open),
		row("10:30", open),
	)
	slots, err := newTestParser("2024-01-15 08:00").Parse(html, testDate, testClub, "x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	got := map[string]bool{}
	for _, s := range slots {
		got[s.StartTime.Format("15:04")+"/"+s.Duration().String()] = true
		if s.CourtType != availability.CourtIndoor {
			t.Fatalf("hala court must be indoor: %+v", s)
		}
	}
	want := []string{"08:00/2h0m0s", "08:00/1h30m0s", "08:00/1h0m0s", "08:30/1h30m0s", "08:30/1h0m0s", "09:00/1h0m0s"}
	if len(slots) != len(want) {
		t.Fatalf("unexpected slot count: got=%d want=%d (%v)", len(slots), len(want), got)
	}
	for _, key := range want {
		if !got[key] {
			t.Fatalf("missing slot %s in %v", key, got)
		}
	}
}

func TestParse_RowspanFlushesRunBeforeBlock(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort A", "Kort B"},
		row("09:00", open, open),
		row("09:30", open, open),
		row("10:00", `<td rowspan="2">Jan K.</td>`, taken),
		row("10:30", open),
		row("11:00", open, open),
	)
	slots, err := newTestParser("2024-01-15 08:00").Parse(html, testDate, testClub, "x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	got := map[string]bool{}
	for _, s := range slots {
		if s.Duration() != time.Hour {
			t.Fatalf("only one-hour slots expected, got %s", s.Duration())
		}
		got[s.CourtName+"@"+s.StartTime.Format("15:04")] = true
	}
	want := []string{"Kort A@08:00", "Kort B@08:00", "Kort B@09:30"}
	if len(slots) != len(want) {
		t.Fatalf("unexpected slots: %v", got)
	}
	for _, key := range want {
		if !got[key] {
			t.Fatalf("missing %s in %v", key, got)
		}
	}
}

func TestParse_RowspanFourBlocksThreeRows(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort A", "Kort B"},
		row("09:00", open, taken),
		row("09:30", open, taken),
		row("10:00", `<td rowspan="4">Turniej</td>`, taken),
		row("10:30", open),
		row("11:00", open),
		row("11:30", open),
		row("12:00", open, taken),
		row("12:30", open, taken),
	)
	slots, err := newTestParser("2024-01-15 08:00").Parse(html, testDate, testClub, "x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	got := map[string]bool{}
	for _, s := range slots {
		got[s.CourtName+"@"+s.StartTime.Format("15:04")+"/"+s.Duration().String()] = true
	}
	want := []string{
		"Kort A@08:00/1h0m0s",
		"Kort A@11:00/1h0m0s",
		"Kort B@09:30/1h30m0s",
		"Kort B@09:30/1h0m0s",
		"Kort B@10:00/1h0m0s",
	}
	if len(slots) != len(want) {
		t.Fatalf("unexpected slot count: got=%d want=%d (%v)", len(slots), len(want), got)
	}
	for _, key := range want {
		if !got[key] {
			t.Fatalf("missing %s in %v", key, got)
		}
	}
}

func TestParse_StopsAtPastStarts(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort 1"},
		row("09:00", open),
		row("09:30", open),
		row("10:00", open),
		row("10:30", open),
	)
	slots, err := newTestParser("2024-01-15 09:40").Parse(html, testDate, testClub, "x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("unexpected slot count: got=%d want=1", len(slots))
	}
	if got := slots[0].StartTime; !got.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)) || slots[0].Duration() != time.Hour {
		t.Fatalf("unexpected slot: %s %s", got, slots[0].Duration())
	}
}

func TestParse_SkipsUnparsableTimeRows(t *testing.T) {
	t.Parallel()

	html := grid([]string{"Kort 1"},
		row("09:00", open),
		row("przerwa", open),
		row("09:30", open),
	)
	slots, err := newTestParser("2024-01-15 08:00").Parse(html, testDate, testClub, "x")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("unexpected slot count: got=%d want=1", len(slots))
	}
}

func TestCourtNameFromHeader(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Kort 1":                         "Kort 1",
		"\tKort 2 hala\t\n   Extra info": "Kort 2 hala",
		"   Kort 3   \n  ":               "Kort 3",
		"\n   \n":                        availability.UnknownCourtName,
		"":                               availability.UnknownCourtName,
	}
	for raw, want := range cases {
		if got := courtNameFromHeader(raw); got != want {
			t.Fatalf("courtNameFromHeader(%q): got=%q want=%q", raw, got, want)
		}
	}
}

func TestSchedulePath(t *testing.T) {
	t.Parallel()

	got := SchedulePath("Padel Arena Warszawa", testDate, 2)
	if got != "padel-arena-warszawa/grafik?data_grafiku=2024-01-15&dyscyplina=4&strona=2" {
		t.Fatalf("unexpected path: %s", got)
	}
}
