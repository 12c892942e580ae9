package inventory

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	"github.com/zhouzirui/z-style/backend/pkg/logger"
)

// DefaultSubstituteLimit applies when callers pass a non-positive limit.
const DefaultSubstituteLimit = 3

// Similarity weights.
const (
	colorWeight    = 3
	materialWeight = 2
	priceWeight    = 2
	sustainWeight  = 1

	// candidates priced within this fraction of the reference earn priceWeight
	priceBand = 0.3
)

// Service classifies stock and ranks substitutes over a catalog.Store.
// Every public method is total: store failures degrade to the not-found answer.
type Service struct {
	store catalog.Store
	log   zerolog.Logger
}

// NewService wires the advisor to its catalog store.
func NewService(store catalog.Store) *Service {
	return &Service{store: store, log: logger.Component("inventory")}
}

// GetStockStatus reports the availability tier; unknown SKUs are out of stock.
func (s *Service) GetStockStatus(ctx context.Context, sku string) catalog.StockStatus {
	p, ok, err := s.store.Get(ctx, sku)
	if err != nil {
		s.log.Error().Err(err).Str("sku", sku).Msg("stock lookup failed")
		return catalog.StatusFor(0)
	}
	if !ok {
		return catalog.StatusFor(0)
	}
	return catalog.StatusFor(p.Stock)
}

type scored struct {
	product catalog.Product
	score   int
}

// FindSubstitutes ranks in-stock products by similarity to sku, best first.
func (s *Service) FindSubstitutes(ctx context.Context, sku string, limit int) []catalog.Product {
	if limit <= 0 {
		limit = DefaultSubstituteLimit
	}

	ref, ok, err := s.store.Get(ctx, sku)
	if err != nil {
		s.log.Error().Err(err).Str("sku", sku).Msg("reference lookup failed")
		return []catalog.Product{}
	}
	if !ok {
		return []catalog.Product{}
	}

	all, err := s.store.List(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("catalog listing failed")
		return []catalog.Product{}
	}

	candidates := make([]scored, 0, len(all))
	for _, p := range all {
		if p.SKU == ref.SKU || p.Stock <= 0 {
			continue
		}
		candidates = append(candidates, scored{product: p, score: Similarity(ref, p)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]catalog.Product, len(candidates))
	for i, c := range candidates {
		out[i] = c.product
	}
	return out
}

// Similarity scores a candidate against a reference product, from 0 to 8.
func Similarity(ref, candidate catalog.Product) int {
	score := 0
	if strings.EqualFold(ref.Color, candidate.Color) {
		score += colorWeight
	}
	if strings.EqualFold(ref.Material, candidate.Material) {
		score += materialWeight
	}
	if math.Abs(candidate.Price-ref.Price) < ref.Price*priceBand {
		score += priceWeight
	}
	if ref.HasSustainTags() && candidate.HasSustainTags() {
		score += sustainWeight
	}
	return score
}

// ReserveStock decrements stock by quantity when enough is on hand.
// Non-positive quantities reserve one unit. The check and decrement are a
// single atomic store operation.
func (s *Service) ReserveStock(ctx context.Context, sku string, quantity int) bool {
	if quantity <= 0 {
		quantity = 1
	}
	ok, err := s.store.TryReserve(ctx, sku, quantity)
	if err != nil {
		s.log.Error().Err(err).Str("sku", sku).Int("quantity", quantity).Msg("reservation failed")
		return false
	}
	if ok {
		s.log.Debug().Str("sku", sku).Int("quantity", quantity).Msg("stock reserved")
	}
	return ok
}
