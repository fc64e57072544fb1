package playtomic

import (
	"bytes"
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/riskibarqy/court-spotter/external/provider"
	"github.com/riskibarqy/court-spotter/internal/domain/availability"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"github.com/riskibarqy/court-spotter/internal/domain/playtomiccourt"
	"github.com/riskibarqy/court-spotter/internal/platform/logging"
)

const singleCourtSize = "single"

// CourtFetcher scrapes a club's public Playtomic page for its doubles courts.
type CourtFetcher struct {
	client     *provider.Client
	webBaseURL string
	logger     *logging.Logger
}

func NewCourtFetcher(cfg Config, logger *logging.Logger) *CourtFetcher {
	if cfg.WebBaseURL == "" {
		cfg.WebBaseURL = DefaultWebBaseURL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CourtFetcher{
		client: provider.NewClient(provider.ClientConfig{
			Name:           "PlaytomicWeb",
			BaseURL:        cfg.WebBaseURL,
			Timeout:        cfg.Timeout,
			MaxRetries:     cfg.MaxRetries,
			Logger:         logger,
			CircuitBreaker: cfg.CircuitBreaker,
		}),
		webBaseURL: strings.TrimRight(cfg.WebBaseURL, "/"),
		logger:     logger.Named("playtomic"),
	}
}

// FetchCourts returns the club's courts. A page without readable court data yields
// an empty list; only transport failures are returned as errors.
func (f *CourtFetcher) FetchCourts(ctx context.Context, c club.Club) ([]playtomiccourt.Court, error) {
	raw, err := f.client.Get(ctx, f.webBaseURL+"/clubs/"+provider.Slug(c.Name, '-'), "text/html")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		f.logger.WarnContext(ctx, "playtomic club page is not html", "club", c.Name, "error", err)
		return nil, nil
	}
	script := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if script == "" {
		f.logger.WarnContext(ctx, "playtomic club page has no court data", "club", c.Name)
		return nil, nil
	}

	var data nextData
	if err := sonic.UnmarshalString(script, &data); err != nil {
		f.logger.WarnContext(ctx, "playtomic court data is not valid json", "club", c.Name, "error", err)
		return nil, nil
	}

	out := make([]playtomiccourt.Court, 0, len(data.Props.PageProps.Tenant.Resources))
	for _, res := range data.Props.PageProps.Tenant.Resources {
		if res.Properties.ResourceSize == singleCourtSize || strings.TrimSpace(res.ResourceID) == "" {
			continue
		}
		out = append(out, playtomiccourt.Court{
			ID:     res.ResourceID,
			ClubID: c.ID,
			Name:   res.Name,
			Type:   courtTypeOf(res.Properties.ResourceType),
		})
	}
	return out, nil
}

func courtTypeOf(resourceType string) availability.CourtType {
	if t, ok := availability.ParseCourtType(resourceType); ok {
		return t
	}
	return availability.CourtIndoor
}
