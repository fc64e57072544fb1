package playtomic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/platform/resilience"
)

const (
	DefaultAPIBaseURL   = "https://playtomic.com"
	DefaultWebBaseURL   = "https://playtomic.com"
	label               = "Playtomic API"
	availabilityPath    = "/api/clubs/availability"
	sportID             = "PADEL"
	defaultEarliestHour = 6
	defaultLatestHour   = 22

	deserializeFailedMessage = "Failed to deserialize response from Playtomic API"
)

type Config struct {
	APIBaseURL     string
	WebBaseURL     string
	APITimeZone    string
	EarliestHour   int
	LatestHour     int
	Timeout        time.Duration
	MaxRetries     int
	DayWorkers     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

// CourtCatalog returns the Playtomic resources registered for a club.
type CourtCatalog interface {
	ListByClub(ctx context.Context, clubID string) ([]playtomiccourt.Court, error)
}

// Provider reads the public Playtomic availability API, one request per date.
type Provider struct {
	client       *provider.Client
	catalog      CourtCatalog
	apiLoc       *time.Location
	webBaseURL   string
	earliestHour int
	latestHour   int
	dayWorkers   int
	messages     provider.Messages
	logger       *logging.Logger
}

func New(cfg Config, catalog CourtCatalog, logger *logging.Logger) (*Provider, error) {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.WebBaseURL == "" {
		cfg.WebBaseURL = DefaultWebBaseURL
	}
	if cfg.EarliestHour == 0 && cfg.LatestHour == 0 {
		cfg.EarliestHour, cfg.LatestHour = defaultEarliestHour, defaultLatestHour
	}
	apiLoc := time.UTC
	if tz := strings.TrimSpace(cfg.APITimeZone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load playtomic api timezone %q: %w", tz, err)
		}
		apiLoc = loc
	}
	if logger == nil {
		logger = logging.Default()
	}

	messages := provider.DefaultMessages(label)
	messages[availability.ReasonMalformedPayload] = "Invalid JSON response from Playtomic API"
	messages[availability.ReasonUnexpectedError] = "Unexpected error processing Playtomic API response for club"

	return &Provider{
		client: provider.NewClient(provider.ClientConfig{
			Name:           "Playtomic",
			BaseURL:        cfg.APIBaseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		catalog:      catalog,
		apiLoc:       apiLoc,
		webBaseURL:   strings.TrimRight(cfg.WebBaseURL, "/"),
		earliestHour: cfg.EarliestHour,
		latestHour:   cfg.LatestHour,
		dayWorkers:   cfg.DayWorkers,
		messages:     messages,
		logger:       logger.Named("playtomic"),
	}, nil
}

func (p *Provider) Kind() club.ProviderKind {
	return club.ProviderPlaytomic
}

func (p *Provider) FetchAvailability(ctx context.Context, c club.Club, start, end time.Time) availability.ClubResult {
	loc, err := c.Location()
	if err != nil {
		return availability.FailAll(start, end, availability.ReasonUnexpectedError, p.messages[availability.ReasonUnexpectedError], err)
	}
	courts, err := p.catalog.ListByClub(ctx, c.ID)
	if err != nil {
		return availability.FailAll(start, end, provider.Classify(err), "Failed to load Playtomic court catalog", err)
	}
	byID := make(map[string]playtomiccourt.Court, len(courts))
	for _, court := range courts {
		byID[court.ID] = court
	}

	return provider.FetchDays(ctx, p.messages, provider.Requests(start, end, 0), p.dayWorkers,
		func(ctx context.Context, req provider.DayRequest) availability.DayOutcome {
			return p.fetchDay(ctx, c, loc, byID, req.Date)
		})
}

func (p *Provider) fetchDay(ctx context.Context, c club.Club, loc *time.Location, courts map[string]playtomiccourt.Court, date time.Time) availability.DayOutcome {
	raw, err := p.client.Get(ctx, AvailabilityPath(c.ID, date), "application/json")
	if err != nil {
		return p.messages.FailedOutcome(date, 0, err)
	}

	var tenants []tenantAvailability
	if err := sonic.Unmarshal(raw, &tenants); err != nil {
		return p.messages.FailedOutcome(date, 0, fmt.Errorf("%w: decode availability: %w", provider.ErrMalformedPayload, err))
	}
	if tenants == nil {
		return availability.Failure(date, 0, availability.ReasonMalformedPayload, deserializeFailedMessage,
			fmt.Errorf("%w: null availability payload", provider.ErrMalformedPayload))
	}

	bookingURL := p.webBaseURL + "/clubs/" + provider.Slug(c.Name, '-')
	var slots []availability.Slot
	for _, tenant := range tenants {
		court, ok := courts[tenant.ResourceID]
		if !ok {
			continue
		}
		day := date
		if parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(tenant.StartDate)); err == nil {
			day = parsed
		}
		for _, ts := range tenant.Slots {
			start, ok := p.slotStart(day, ts.StartTime)
			if !ok || ts.Duration <= 0 {
				continue
			}
			if hour := start.In(loc).Hour(); hour < p.earliestHour || hour > p.latestHour {
				continue
			}
			price, currency := parsePrice(ts.Price)
			slots = append(slots, availability.Slot{
				ClubID:     c.ID,
				ClubName:   c.Name,
				CourtName:  court.Name,
				CourtType:  court.Type,
				StartTime:  start,
				EndTime:    start.Add(time.Duration(ts.Duration) * time.Minute),
				Price:      price,
				Currency:   currency,
				BookingURL: bookingURL,
				Provider:   club.ProviderPlaytomic,
			})
		}
	}
	return availability.Success(date, 0, slots)
}

// slotStart reads a "HH:MM[:SS]" time-of-day in the API timezone and returns it in UTC.
func (p *Provider) slotStart(date time.Time, clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	for _, layout := range []string{"15:04:05", "15:04"} {
		t, err := time.Parse(layout, clock)
		if err != nil {
			continue
		}
		local := time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), t.Second(), 0, p.apiLoc)
		return local.UTC(), true
	}
	return time.Time{}, false
}

// AvailabilityPath is the per-date availability query for a tenant.
func AvailabilityPath(tenantID string, date time.Time) string {
	q := url.Values{}
	q.Set("tenant_id", tenantID)
	q.Set("date", date.Format(time.DateOnly))
	q.Set("sport_id", sportID)
	return availabilityPath + "?" + q.Encode()
}

// parsePrice splits "<amount> <currency>"; anything unreadable is free with no currency.
func parsePrice(raw string) (float64, string) {
	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return 0, ""
	}
	amount, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		amount, err = strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", "."), 64)
		if err != nil {
			return 0, ""
		}
	}
	return amount, parts[1]
}
