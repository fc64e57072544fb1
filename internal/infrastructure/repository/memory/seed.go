package memory

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/court-spotter/internal/domain/club"
	"gopkg.in/yaml.v3"
)

type clubSeed struct {
	Clubs []club.Club `yaml:"clubs"`
}

// LoadClubSeed reads a YAML club list:
//
//	clubs:
//	  - id: "1234"
//	    name: Padel Arena
//	    provider: KlubyOrg
//	    pages_count: 2
func LoadClubSeed(path string) ([]club.Club, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read club seed %s: %w", path, err)
	}
	clubs, err := ParseClubSeed(raw)
	if err != nil {
		return nil, fmt.Errorf("club seed %s: %w", path, err)
	}
	return clubs, nil
}

func ParseClubSeed(raw []byte) ([]club.Club, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var seed clubSeed
	if err := decoder.Decode(&seed); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	seen := make(map[string]struct{}, len(seed.Clubs))
	for i := range seed.Clubs {
		c := &seed.Clubs[i]
		if kind, err := club.ParseProviderKind(string(c.Provider)); err == nil {
			c.Provider = kind
		}
		if err := validate.Struct(c); err != nil {
			return nil, fmt.Errorf("club %d (%s): %w", i, c.Name, err)
		}
		if _, err := c.Location(); err != nil {
			return nil, err
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("duplicate club id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return seed.Clubs, nil
}
