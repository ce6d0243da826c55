// AngelaMos | 2026
// meta.go

// Package meta serves platform-wide aggregates.
package meta

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/templates/marketplace-api/internal/access"
	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

const cacheKey = "meta:base-info"

type Stats struct {
	ReviewCount          int64               `db:"review_count"`
	AverageRating        decimal.NullDecimal `db:"average_rating"`
	BusinessProfileCount int64               `db:"business_profile_count"`
	OfferCount           int64               `db:"offer_count"`
}

type Repository interface {
	Stats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM reviews) AS review_count,
			(SELECT AVG(rating) FROM reviews) AS average_rating,
			(SELECT COUNT(*) FROM profiles WHERE type = $1) AS business_profile_count,
			(SELECT COUNT(*) FROM offers) AS offer_count`

	var s Stats
	if err := r.db.GetContext(ctx, &s, query, string(access.RoleBusiness)); err != nil {
		return nil, fmt.Errorf("load base info: %w", err)
	}
	return &s, nil
}

type BaseInfoResponse struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

// ToBaseInfoResponse rounds the average rating to one decimal. No reviews
// reads as 0.
func ToBaseInfoResponse(s *Stats) BaseInfoResponse {
	var avg float64
	if s.AverageRating.Valid {
		avg = s.AverageRating.Decimal.Round(1).InexactFloat64()
	}
	return BaseInfoResponse{
		ReviewCount:          s.ReviewCount,
		AverageRating:        avg,
		BusinessProfileCount: s.BusinessProfileCount,
		OfferCount:           s.OfferCount,
	}
}

// Cache is the subset of core.Redis the aggregates need.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
}

// NewService caches results for ttl. A nil cache or a non-positive ttl
// queries the database on every call.
func NewService(repo Repository, cache Cache, ttl time.Duration) *Service {
	if ttl <= 0 {
		cache = nil
	}
	return &Service{repo: repo, cache: cache, ttl: ttl}
}

func (s *Service) BaseInfo(ctx context.Context) (BaseInfoResponse, error) {
	var resp BaseInfoResponse

	if s.cache != nil {
		found, err := s.cache.GetJSON(ctx, cacheKey, &resp)
		if err != nil {
			slog.WarnContext(ctx, "base info cache read failed", "error", err)
		}
		if found {
			return resp, nil
		}
	}

	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return resp, err
	}
	resp = ToBaseInfoResponse(stats)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, resp, s.ttl); err != nil {
			slog.WarnContext(ctx, "base info cache write failed", "error", err)
		}
	}

	return resp, nil
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/base-info", h.BaseInfo)
}

func (h *Handler) BaseInfo(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.BaseInfo(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, resp)
}
