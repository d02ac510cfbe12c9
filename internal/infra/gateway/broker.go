package gateway

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/saudapakka/saudapakka-mandate/internal/domain"
	"github.com/saudapakka/saudapakka-mandate/internal/usecase"
)

// BrokerGateway memoizes broker lookups in process. Misses are not cached so a
// broker who activates their profile is found immediately.
type BrokerGateway struct {
	directory usecase.BrokerDirectory
	cache     *cache.Cache
}

func NewBrokerGateway(directory usecase.BrokerDirectory) *BrokerGateway {
	return &BrokerGateway{
		directory: directory,
		cache:     cache.New(10*time.Minute, 15*time.Minute),
	}
}

func (g *BrokerGateway) FindByMobile(ctx context.Context, mobile string) (domain.BrokerProfile, error) {
	return g.lookup(ctx, "mobile:"+mobile, func() (domain.BrokerProfile, error) {
		return g.directory.FindByMobile(ctx, mobile)
	})
}

func (g *BrokerGateway) Get(ctx context.Context, id string) (domain.BrokerProfile, error) {
	return g.lookup(ctx, "id:"+id, func() (domain.BrokerProfile, error) {
		return g.directory.Get(ctx, id)
	})
}

func (g *BrokerGateway) lookup(_ context.Context, key string, fetch func() (domain.BrokerProfile, error)) (domain.BrokerProfile, error) {
	if cached, found := g.cache.Get(key); found {
		return cached.(domain.BrokerProfile), nil
	}
	profile, err := fetch()
	if err != nil {
		return domain.BrokerProfile{}, err
	}
	g.cache.Set(key, profile, cache.DefaultExpiration)
	return profile, nil
}
