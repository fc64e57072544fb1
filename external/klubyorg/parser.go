package klubyorg

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

const (
	minRowsForOneHour      = 2
	minRowsForNinetyMins   = 3
	minRowsForTwoHours     = 4
	bookLinkSelector       = "a[href*='rezerwuj']"
	scheduleTableSelector  = "#grafik"
	indoorCourtNameMarker  = "hala"
	msgTableNotFound       = "booking schedule table not found"
	msgNoHalfHourRowsFound = "no half-hour rows found"
)

// ScheduleError is a structural problem with a schedule document.
type ScheduleError struct {
	Message string
}

func (e *ScheduleError) Error() string {
	return e.Message
}

func (e *ScheduleError) Unwrap() error {
	return provider.ErrMalformedPayload
}

// gridColumnState tracks one court column while rows are scanned.
type gridColumnState struct {
	courtName      string
	pendingStart   time.Duration
	hasPending     bool
	consecutive    int
	blockedRemains int
}

func (s *gridColumnState) reset() {
	s.pendingStart = 0
	s.hasPending = false
	s.consecutive = 0
}

// ScheduleParser turns one kluby.org daily schedule page into slots.
type ScheduleParser struct {
	baseURL string
	now     func() time.Time
}

func NewScheduleParser(baseURL string, now func() time.Time) *ScheduleParser {
	if now == nil {
		now = time.Now
	}
	return &ScheduleParser{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     now,
	}
}

// Parse scans the grid in html for date. schedulePath is the page the html came from
// and becomes the slots' booking link.
func (p *ScheduleParser) Parse(html []byte, date time.Time, c club.Club, schedulePath string) ([]availability.Slot, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", provider.ErrMalformedPayload, err)
	}

	table := doc.Find(scheduleTableSelector).First()
	if table.Length() == 0 {
		return nil, &ScheduleError{Message: msgTableNotFound}
	}

	var columns []*gridColumnState
	table.Find("thead tr th").Each(func(i int, th *goquery.Selection) {
		if i == 0 {
			return
		}
		columns = append(columns, &gridColumnState{courtName: courtNameFromHeader(th.Text())})
	})

	rows := table.Find("tbody tr")
	if rows.Length() == 0 {
		rows = table.Find("tr").Not("thead tr")
	}
	if rows.Length() == 0 {
		return nil, &ScheduleError{Message: msgNoHalfHourRowsFound}
	}

	g := slotGenerator{
		club:       c,
		loc:        loc,
		date:       date,
		bookingURL: p.baseURL + "/" + strings.TrimLeft(schedulePath, "/"),
		nowLocal:   p.now().In(loc),
	}
	var out []availability.Slot

	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}
		rowTime, ok := parseTimeOfDay(cells.First().Text())
		if !ok {
			return
		}

		cellIndex := 1
		for _, col := range columns {
			if col.blockedRemains > 0 {
				col.blockedRemains--
				continue
			}
			if cellIndex >= cells.Length() {
				break
			}

			cell := cells.Eq(cellIndex)
			cellIndex++

			if rowspan := rowspanOf(cell); rowspan > 1 {
				if col.consecutive >= minRowsForOneHour {
					out = append(out, g.flush(col)...)
				}
				col.reset()
				col.blockedRemains = rowspan - 1
				continue
			}

			if cell.Find(bookLinkSelector).Length() > 0 {
				if col.consecutive == 0 {
					col.pendingStart = rowTime
					col.hasPending = true
				}
				col.consecutive++
				continue
			}

			if col.consecutive >= minRowsForOneHour {
				out = append(out, g.flush(col)...)
			}
			col.reset()
		}
	})

	for _, col := range columns {
		if col.consecutive >= minRowsForOneHour {
			out = append(out, g.flush(col)...)
		}
	}
	return out, nil
}

type slotGenerator struct {
	club       club.Club
	loc        *time.Location
	date       time.Time
	bookingURL string
	nowLocal   time.Time
}

// flush emits every 60/90/120 minute option inside the column's open run.
// Starts are walked from the end of the run so the past cut-off can stop early.
func (g slotGenerator) flush(col *gridColumnState) []availability.Slot {
	if !col.hasPending {
		return nil
	}

	runStart := time.Date(g.date.Year(), g.date.Month(), g.date.Day(), 0, 0, 0, 0, g.loc).Add(col.pendingStart)
	var out []availability.Slot
	for i := col.consecutive - 1; i >= 0; i-- {
		start := runStart.Add(time.Duration(i) * availability.HalfHour)
		if start.Before(g.nowLocal) {
			break
		}
		remaining := col.consecutive - i
		if remaining >= minRowsForTwoHours {
			out = append(out, g.slot(col.courtName, start, 120*time.Minute))
		}
		if remaining >= minRowsForNinetyMins {
			out = append(out, g.slot(col.courtName, start, 90*time.Minute))
		}
		if remaining >= minRowsForOneHour {
			out = append(out, g.slot(col.courtName, start, 60*time.Minute))
		}
	}
	return out
}

func (g slotGenerator) slot(courtName string, localStart time.Time, length time.Duration) availability.Slot {
	start := localStart.UTC()
	return availability.Slot{
		ClubID:     g.club.ID,
		ClubName:   g.club.Name,
		CourtName:  courtName,
		CourtType:  courtTypeOf(courtName),
		StartTime:  start,
		EndTime:    start.Add(length),
		Price:      0,
		Currency:   availability.DefaultCurrency,
		BookingURL: g.bookingURL,
		Provider:   club.ProviderKlubyOrg,
	}
}

func courtNameFromHeader(text string) string {
	text = strings.ReplaceAll(text, "\t", "")
	for _, line := range strings.Split(text, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			return name
		}
	}
	return availability.UnknownCourtName
}

func courtTypeOf(courtName string) availability.CourtType {
	if strings.Contains(strings.ToLower(courtName), indoorCourtNameMarker) {
		return availability.CourtIndoor
	}
	return availability.CourtOutdoor
}

func parseTimeOfDay(text string) (time.Duration, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range []string{"15:04", "15:04:05"} {
		t, err := time.Parse(layout, text)
		if err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute + time.Duration(t.Second())*time.Second, true
		}
	}
	return 0, false
}

func rowspanOf(cell *goquery.Selection) int {
	raw, ok := cell.Attr("rowspan")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return n
}
