package club

import (
	"fmt"
	"strings"
	"time"
)

type ProviderKind string

const (
	ProviderPlaytomic    ProviderKind = "Playtomic"
	ProviderKlubyOrg     ProviderKind = "KlubyOrg"
	ProviderRezerwujKort ProviderKind = "RezerwujKort"
	ProviderCourtMe      ProviderKind = "CourtMe"
)

// DefaultTimeZone is used for clubs registered without an explicit zone.
const DefaultTimeZone = "Europe/Warsaw"

// Club is one physical venue and the booking site that publishes its schedule.
type Club struct {
	ID         string       `yaml:"id" validate:"required"`
	Name       string       `yaml:"name" validate:"required"`
	Provider   ProviderKind `yaml:"provider" validate:"required,oneof=Playtomic KlubyOrg RezerwujKort CourtMe"`
	TimeZone   string       `yaml:"timezone"`
	PagesCount *int         `yaml:"pages_count" validate:"omitempty,gte=0"`
}

// Location resolves the club's IANA zone, falling back to DefaultTimeZone.
func (c Club) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.TimeZone)
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q for club %s: %w", name, c.ID, err)
	}
	return loc, nil
}

// Pages returns the number of paginated schedule pages, zero when unpaginated.
func (c Club) Pages() int {
	if c.PagesCount == nil || *c.PagesCount < 0 {
		return 0
	}
	return *c.PagesCount
}

func ParseProviderKind(v string) (ProviderKind, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "playtomic":
		return ProviderPlaytomic, nil
	case "klubyorg", "kluby.org", "kluby":
		return ProviderKlubyOrg, nil
	case "rezerwujkort", "rezerwujkort.pl":
		return ProviderRezerwujKort, nil
	case "courtme", "courtbookingme":
		return ProviderCourtMe, nil
	default:
		return "", fmt.Errorf("unknown provider kind %q", v)
	}
}
