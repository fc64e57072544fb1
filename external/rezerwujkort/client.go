package rezerwujkort

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/platform/resilience"
)

const (
	DefaultBaseURL      = "https://www.rezerwujkort.pl"
	label               = "RezerwujKort API"
	hourStatusOpen      = "OPEN"
	outdoorMarker       = "odkryt"
	maxSlotLength       = 120 * time.Minute
	defaultEarliestHour = 6
	defaultLatestHour   = 22
)

type Config struct {
	BaseURL        string
	EarliestHour   int
	LatestHour     int
	Timeout        time.Duration
	MaxRetries     int
	DayWorkers     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Provider reads the rezerwujkort.pl daily reservation calendar.
type Provider struct {
	client       *provider.Client
	baseURL      string
	earliestHour int
	latestHour   int
	dayWorkers   int
	now          func() time.Time
	messages     provider.Messages
	logger       *logging.Logger
}

func New(cfg Config, logger *logging.Logger) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.EarliestHour == 0 && cfg.LatestHour == 0 {
		cfg.EarliestHour, cfg.LatestHour = defaultEarliestHour, defaultLatestHour
	}
	if logger == nil {
		logger = logging.Default()
	}

	messages := provider.DefaultMessages(label)
	messages[availability.ReasonTimeout] = "Timeout when calling RezerwujKort API"
	messages[availability.ReasonMalformedPayload] = "Invalid JSON response from RezerwujKort API"
	messages[availability.ReasonUnexpectedError] = "Unexpected error when syncing court availabilities from RezerwujKort provider"

	return &Provider{
		client: provider.NewClient(provider.ClientConfig{
			Name:           "RezerwujKort",
			BaseURL:        cfg.BaseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		earliestHour: cfg.EarliestHour,
		latestHour:   cfg.LatestHour,
		dayWorkers:   cfg.DayWorkers,
		now:          time.Now,
		messages:     messages,
		logger:       logger.Named("rezerwujkort"),
	}
}

func (p *Provider) Kind() club.ProviderKind {
	return club.ProviderRezerwujKort
}

func (p *Provider) FetchAvailability(ctx context.Context, c club.Club, start, end time.Time) availability.ClubResult {
	loc, err := c.Location()
	if err != nil {
		return availability.FailAll(start, end, availability.ReasonUnexpectedError, p.messages[availability.ReasonUnexpectedError], err)
	}
	return provider.FetchDays(ctx, p.messages, provider.Requests(start, end, 0), p.dayWorkers,
		func(ctx context.Context, req provider.DayRequest) availability.DayOutcome {
			return p.fetchDay(ctx, c, loc, req.Date)
		})
}

func (p *Provider) fetchDay(ctx context.Context, c club.Club, loc *time.Location, date time.Time) availability.DayOutcome {
	raw, err := p.client.Get(ctx, CalendarPath(c.Name, date), "application/json")
	if err != nil {
		return p.messages.FailedOutcome(date, 0, err)
	}

	var calendar dailyCalendar
	if err := sonic.Unmarshal(raw, &calendar); err != nil {
		return p.messages.FailedOutcome(date, 0, fmt.Errorf("%w: decode calendar: %w", provider.ErrMalformedPayload, err))
	}

	nowLocal := p.now().In(loc)
	var slots []availability.Slot
	for _, ct := range calendar.Courts {
		if !ct.OnlineReservation {
			continue
		}
		courtType := availability.CourtIndoor
		if strings.Contains(strings.ToLower(ct.CourtDescription), outdoorMarker) {
			courtType = availability.CourtOutdoor
		}

		for _, h := range ct.Hours {
			if !strings.EqualFold(h.HourStatus, hourStatusOpen) {
				continue
			}
			clock, err := time.Parse("15:04", strings.TrimSpace(h.HourName))
			if err != nil {
				continue
			}
			if clock.Hour() < p.earliestHour || clock.Hour() > p.latestHour {
				continue
			}
			localStart := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, loc)
			if localStart.Before(nowLocal) {
				continue
			}

			bookingURL := p.bookingURL(c.Name, date, ct.CourtID, h.HourName)
			for _, halfHours := range h.PossibleHalfHourSlots {
				length := time.Duration(halfHours) * availability.HalfHour
				if length <= 0 || length > maxSlotLength {
					continue
				}
				startUTC := localStart.UTC()
				slots = append(slots, availability.Slot{
					ClubID:     c.ID,
					ClubName:   c.Name,
					CourtName:  ct.CourtName,
					CourtType:  courtType,
					StartTime:  startUTC,
					EndTime:    startUTC.Add(length),
					Price:      0,
					Currency:   availability.DefaultCurrency,
					BookingURL: bookingURL,
					Provider:   club.ProviderRezerwujKort,
				})
			}
		}
	}
	return availability.Success(date, 0, slots)
}

func (p *Provider) bookingURL(clubName string, date time.Time, courtID int, hourName string) string {
	return fmt.Sprintf("%s/klub/%s/rezerwacja_online?day=%s&court=%d&hour=%s",
		p.baseURL, provider.Slug(clubName, '_'), date.Format(time.DateOnly), courtID, url.QueryEscape(hourName))
}

// CalendarPath is the one-day client reservation calendar for a club.
func CalendarPath(clubName string, date time.Time) string {
	return fmt.Sprintf("/rest/reservation/one_day_client_reservation_calendar/%s/%s/1/2",
		provider.Slug(clubName, '_'), date.Format(time.DateOnly))
}
