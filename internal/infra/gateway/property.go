package gateway

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bradfitz/gomemcache/memcache"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/usecase"
)

const propertyCacheTTL = 300 // seconds

// PropertyGateway serves listing lookups from memcached before falling back to the repository.
type PropertyGateway struct {
	repo usecase.PropertyRepository
	mc   *memcache.Client
}

func NewPropertyGateway(repo usecase.PropertyRepository, mc *memcache.Client) *PropertyGateway {
	return &PropertyGateway{repo: repo, mc: mc}
}

func propertyKey(id string) string {
	return "sp:property:" + id
}

func (g *PropertyGateway) Get(ctx context.Context, id string) (domain.Property, error) {
	if g.mc != nil {
		item, err := g.mc.Get(propertyKey(id))
		if err == nil {
			var p domain.Property
			if err := json.Unmarshal(item.Value, &p); err == nil {
				return p, nil
			}
		} else if err != memcache.ErrCacheMiss {
			slog.DebugContext(ctx, "memcached get failed", slog.String("error", err.Error()), slog.String("module", "gateway"))
		}
	}

	p, err := g.repo.Get(ctx, id)
	if err != nil {
		return domain.Property{}, err
	}

	if g.mc != nil {
		if value, err := json.Marshal(p); err == nil {
			err = g.mc.Set(&memcache.Item{Key: propertyKey(id), Value: value, Expiration: propertyCacheTTL})
			if err != nil {
				slog.DebugContext(ctx, "memcached set failed", slog.String("error", err.Error()), slog.String("module", "gateway"))
			}
		}
	}
	return p, nil
}

// ListByOwner is not cached; a seller's listings change as they publish.
func (g *PropertyGateway) ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error) {
	return g.repo.ListByOwner(ctx, ownerID)
}
