package courtme

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/court-spotter/internal/domain/club"
)

func TestProvider_ReturnsEmptySuccess(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	result := New().FetchAvailability(context.Background(), club.Club{ID: "c1"}, now, now.AddDate(0, 0, 3))
	if len(result.Slots) != 0 || len(result.Failures) != 0 {
		t.Fatalf("expected empty success, got %+v", result)
	}
}
