// AngelaMos | 2026
// repository.go

package offer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/marketplace-api/internal/core"
)

const constraintTierType = "offer_details_offer_id_offer_type_key"

const msgDuplicateTier = "The fields offer, offer_type must make a unique set."

type Repository interface {
	Create(ctx context.Context, o *Offer, tiers []Tier) error
	Get(ctx context.Context, id int64) (*Summary, error)
	List(ctx context.Context, params ListParams) ([]Summary, int, error)
	Tiers(ctx context.Context, offerID int64) ([]Tier, error)
	GetTier(ctx context.Context, id int64) (*Tier, error)
	Update(ctx context.Context, id int64, c Changes) error
	SetImage(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const summaryCTE = `
	WITH summary AS (
		SELECT o.id, o.user_id, o.title, o.description, o.image,
		       o.created_at, o.updated_at,
		       MIN(d.price) AS min_price,
		       MIN(d.delivery_time_in_days) AS min_delivery_time
		FROM offers o
		LEFT JOIN offer_details d ON d.offer_id = o.id
		GROUP BY o.id
	)`

const tierColumns = `id, offer_id, title, revisions, delivery_time_in_days, price, features, offer_type`

// Create writes the offer and all of its tiers in one transaction.
func (r *repository) Create(ctx context.Context, o *Offer, tiers []Tier) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO offers (user_id, title, description)
			VALUES ($1, $2, $3)
			RETURNING id, image, created_at, updated_at`

		err := tx.QueryRowxContext(ctx, query, o.UserID, o.Title, o.Description).
			Scan(&o.ID, &o.Image, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return fmt.Errorf("create offer: %w", err)
		}

		for i := range tiers {
			t := &tiers[i]
			t.OfferID = o.ID

			err := tx.QueryRowxContext(ctx, `
				INSERT INTO offer_details
				    (offer_id, title, revisions, delivery_time_in_days, price, features, offer_type)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING id`,
				t.OfferID,
				t.Title,
				t.Revisions,
				t.DeliveryTimeInDays,
				t.Price,
				t.Features,
				string(t.OfferType),
			).Scan(&t.ID)
			if err != nil {
				return fmt.Errorf("create offer detail %s: %w", t.OfferType, mapTierConstraint(err))
			}
		}

		return nil
	})
}

func mapTierConstraint(err error) error {
	if core.IsDuplicateKey(err) && core.ConstraintName(err) == constraintTierType {
		return core.DuplicateFieldError("details", msgDuplicateTier)
	}
	return err
}

func (r *repository) Get(ctx context.Context, id int64) (*Summary, error) {
	query := summaryCTE + `
		SELECT * FROM summary WHERE id = $1`

	var s Summary
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get offer: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}

	links, err := r.tierIDs(ctx, []int64{s.ID})
	if err != nil {
		return nil, err
	}
	s.TierIDs = links[s.ID]

	return &s, nil
}

// filterBuilder accumulates a WHERE clause with numbered placeholders.
type filterBuilder struct {
	conds []string
	args  []any
}

func (f *filterBuilder) add(cond string, args ...any) {
	for _, a := range args {
		f.args = append(f.args, a)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(f.args)), 1)
	}
	f.conds = append(f.conds, cond)
}

func (f *filterBuilder) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

func (f *filterBuilder) next() string {
	return "$" + strconv.Itoa(len(f.args)+1)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

var orderClauses = map[Ordering]string{
	OrderUpdatedAsc:   "updated_at ASC, id ASC",
	OrderUpdatedDesc:  "updated_at DESC, id DESC",
	OrderMinPriceAsc:  "min_price ASC NULLS LAST, id ASC",
	OrderMinPriceDesc: "min_price DESC NULLS LAST, id DESC",
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Summary, int, error) {
	var f filterBuilder
	if params.CreatorID != nil {
		f.add("user_id = ?", *params.CreatorID)
	}
	if params.MinPrice != nil {
		f.add("min_price >= ?", *params.MinPrice)
	}
	if params.MaxDeliveryTime != nil {
		f.add("min_delivery_time <= ?", *params.MaxDeliveryTime)
	}
	if params.Search != "" {
		pattern := "%" + likeEscaper.Replace(params.Search) + "%"
		f.add("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
	}

	var total int
	countQuery := summaryCTE + ` SELECT COUNT(*) FROM summary` + f.where()
	if err := r.db.GetContext(ctx, &total, countQuery, f.args...); err != nil {
		return nil, 0, fmt.Errorf("count offers: %w", err)
	}

	order, ok := orderClauses[params.Ordering]
	if !ok {
		order = orderClauses[DefaultOrdering]
	}

	limit := f.next()
	offset := "$" + strconv.Itoa(len(f.args)+2)
	query := summaryCTE + ` SELECT * FROM summary` + f.where() +
		` ORDER BY ` + order + ` LIMIT ` + limit + ` OFFSET ` + offset

	args := append(f.args, params.PageSize, params.offset())

	summaries := []Summary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list offers: %w", err)
	}

	if len(summaries) == 0 {
		return summaries, total, nil
	}

	ids := make([]int64, len(summaries))
	for i, s := range summaries {
		ids[i] = s.ID
	}
	links, err := r.tierIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range summaries {
		summaries[i].TierIDs = links[summaries[i].ID]
	}

	return summaries, total, nil
}

func (r *repository) tierIDs(ctx context.Context, offerIDs []int64) (map[int64][]int64, error) {
	query, args, err := sqlx.In(
		`SELECT id, offer_id FROM offer_details WHERE offer_id IN (?) ORDER BY id`,
		offerIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("build tier id query: %w", err)
	}

	var rows []struct {
		ID      int64 `db:"id"`
		OfferID int64 `db:"offer_id"`
	}
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list tier ids: %w", err)
	}

	out := make(map[int64][]int64, len(offerIDs))
	for _, row := range rows {
		out[row.OfferID] = append(out[row.OfferID], row.ID)
	}
	return out, nil
}

func (r *repository) Tiers(ctx context.Context, offerID int64) ([]Tier, error) {
	query := `SELECT ` + tierColumns + `
		FROM offer_details
		WHERE offer_id = $1
		ORDER BY id`

	tiers := []Tier{}
	if err := r.db.SelectContext(ctx, &tiers, query, offerID); err != nil {
		return nil, fmt.Errorf("list offer details: %w", err)
	}
	return tiers, nil
}

func (r *repository) GetTier(ctx context.Context, id int64) (*Tier, error) {
	query := `SELECT ` + tierColumns + ` FROM offer_details WHERE id = $1`

	var t Tier
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get offer detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get offer detail: %w", err)
	}
	return &t, nil
}

// Update applies c in one transaction. Each tier change is matched by
// offer_type and bumps that tier's revision counter.
func (r *repository) Update(ctx context.Context, id int64, c Changes) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, t := range c.Tiers {
			query := `
				UPDATE offer_details
				SET title                 = COALESCE($3, title),
				    delivery_time_in_days = COALESCE($4, delivery_time_in_days),
				    price                 = COALESCE($5, price),
				    features              = COALESCE($6, features),
				    revisions             = revisions + 1
				WHERE offer_id = $1 AND offer_type = $2`

			var features any
			if t.Features != nil {
				features = t.Features
			}

			res, err := tx.ExecContext(ctx, query, id, string(t.OfferType),
				t.Title, t.DeliveryTimeInDays, t.Price, features)
			if err != nil {
				return fmt.Errorf("update offer detail %s: %w", t.OfferType, err)
			}
			rows, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("update offer detail %s: %w", t.OfferType, err)
			}
			if rows == 0 {
				return core.FieldError("details",
					fmt.Sprintf("No detail with offer_type %s exists for this offer.", t.OfferType))
			}
		}

		query := `
			UPDATE offers
			SET title       = COALESCE($2, title),
			    description = COALESCE($3, description),
			    updated_at  = NOW()
			WHERE id = $1`

		res, err := tx.ExecContext(ctx, query, id, c.Title, c.Description)
		if err != nil {
			return fmt.Errorf("update offer: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update offer: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("update offer: %w", core.ErrNotFound)
		}

		return nil
	})
}

func (r *repository) SetImage(ctx context.Context, id int64, key string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE offers SET image = $2, updated_at = NOW() WHERE id = $1`, id, key)
	if err != nil {
		return fmt.Errorf("set offer image: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set offer image: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set offer image: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM offers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete offer: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete offer: %w", core.ErrNotFound)
	}
	return nil
}
