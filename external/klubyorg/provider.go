package klubyorg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
	"github.com/riskibarqy/court-spotter/internal/platform/resilience"
)

const (
	DefaultBaseURL  = "https://kluby.org/"
	label           = "KlubyOrg"
	padelDiscipline = 4
)

type Config struct {
	BaseURL        string
	Username       string
	Password       string
	Timeout        time.Duration
	MaxRetries     int
	DayWorkers     int
	CircuitBreaker resilience.CircuitBreakerConfig
}

type authenticator interface {
	EnsureAuthenticated(ctx context.Context) (bool, error)
}

// Provider fetches kluby.org schedule pages, one request per (date, page).
type Provider struct {
	client     *provider.Client
	auth       authenticator
	parser     *ScheduleParser
	dayWorkers int
	messages   provider.Messages
	logger     *logging.Logger
}

func New(cfg Config, logger *logging.Logger) (*Provider, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	client := provider.NewClient(provider.ClientConfig{
		Name:           label,
		BaseURL:        cfg.BaseURL,
		HTTPClient:     &http.Client{Jar: jar, Timeout: cfg.Timeout},
		MaxRetries:     cfg.MaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.CircuitBreaker,
	})
	auth, err := NewAuthenticator(client, cfg.Username, cfg.Password, logger)
	if err != nil {
		return nil, err
	}
	return newProvider(client, auth, NewScheduleParser(cfg.BaseURL, nil), cfg.DayWorkers, logger), nil
}

func newProvider(client *provider.Client, auth authenticator, parser *ScheduleParser, dayWorkers int, logger *logging.Logger) *Provider {
	if logger == nil {
		logger = logging.Default()
	}
	messages := provider.DefaultMessages(label)
	messages[availability.ReasonAuthenticationFailed] = "Failed to authenticate to kluby.org"
	return &Provider{
		client:     client,
		auth:       auth,
		parser:     parser,
		dayWorkers: dayWorkers,
		messages:   messages,
		logger:     logger.Named("klubyorg"),
	}
}

func (p *Provider) Kind() club.ProviderKind {
	return club.ProviderKlubyOrg
}

func (p *Provider) FetchAvailability(ctx context.Context, c club.Club, start, end time.Time) availability.ClubResult {
	ok, err := p.auth.EnsureAuthenticated(ctx)
	if err != nil {
		return availability.FailAll(start, end, availability.ReasonAuthenticationFailed, "Error authenticating to kluby.org", err)
	}
	if !ok {
		return availability.FailAll(start, end, availability.ReasonAuthenticationFailed, p.messages[availability.ReasonAuthenticationFailed], provider.ErrAuthentication)
	}

	return provider.FetchDays(ctx, p.messages, provider.Requests(start, end, c.Pages()), p.dayWorkers,
		func(ctx context.Context, req provider.DayRequest) availability.DayOutcome {
			return p.fetchDay(ctx, c, req)
		})
}

func (p *Provider) fetchDay(ctx context.Context, c club.Club, req provider.DayRequest) availability.DayOutcome {
	path := SchedulePath(c.Name, req.Date, req.Page)

	html, err := p.client.Get(ctx, path, "text/html")
	if err != nil {
		return p.messages.FailedOutcome(req.Date, req.Page, err)
	}

	slots, err := p.parser.Parse(html, req.Date, c, path)
	if err != nil {
		var scheduleErr *ScheduleError
		if errors.As(err, &scheduleErr) {
			p.logger.WarnContext(ctx, "kluby.org schedule rejected", "club", c.Name, "date", req.Date.Format(time.DateOnly), "page", req.Page, "error", err)
			return availability.Failure(req.Date, req.Page, availability.ReasonMalformedPayload, scheduleErr.Message, err)
		}
		return p.messages.FailedOutcome(req.Date, req.Page, err)
	}
	return availability.Success(req.Date, req.Page, slots)
}

// SchedulePath is the club's daily padel grid, relative to the base url.
func SchedulePath(clubName string, date time.Time, page int) string {
	return fmt.Sprintf("%s/grafik?data_grafiku=%s&dyscyplina=%d&strona=%d",
		provider.Slug(clubName, '-'), date.Format(time.DateOnly), padelDiscipline, page)
}
