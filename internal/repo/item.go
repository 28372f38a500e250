package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/meta"
)

// ItemRepo defines the persistence operations for Items.
// Deletes are scoped by tripID to enforce ownership.
type ItemRepo interface {
	// Create inserts a new item with its serialized metadata and returns the
	// persisted record.
	Create(ctx context.Context, item domain.Item) (domain.Item, error)

	// ListByTripID returns all items of a trip ordered by created_at ascending.
	// Always returns a non-nil slice.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error)

	// Delete removes an item by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no item with that ID exists under that trip.
	Delete(ctx context.Context, tripID, itemID uuid.UUID) error
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

const itemColumns = `id, trip_id, category, title, item_date, url, notes, cost, meta_json, created_at`

func (r *pgItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		INSERT INTO trip_items (trip_id, category, title, item_date, url, notes, cost, meta_json)
		VALUES (@trip_id, @category, @title, @item_date, @url, @notes, @cost, @meta_json)
		RETURNING ` + itemColumns

	metaJSON, err := meta.Encode(item.Meta)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: encode meta: %w", err)
	}

	var itemDate pgtype.Date
	if item.Date != nil {
		itemDate = pgDate(*item.Date)
	}

	args := pgx.NamedArgs{
		"trip_id":   item.TripID,
		"category":  string(item.Category),
		"title":     item.Title,
		"item_date": itemDate, // invalid date becomes NULL
		"url":       nullString(item.URL),
		"notes":     nullString(item.Notes),
		"cost":      item.Cost, // nil becomes NULL
		"meta_json": nullString(metaJSON),
	}

	result, err := scanItem(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM trip_items
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByTripID: scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByTripID: rows: %w", err)
	}
	return items, nil
}

func (r *pgItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	const q = `DELETE FROM trip_items WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": itemID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanItem maps a single database row into a domain.Item, decoding the
// metadata column for the item's category.
func scanItem(s scanner) (domain.Item, error) {
	var (
		it       domain.Item
		id       pgtype.UUID
		tripID   pgtype.UUID
		category string
		itemDate pgtype.Date
		url      pgtype.Text
		notes    pgtype.Text
		cost     pgtype.Int8
		metaJSON pgtype.Text
	)

	err := s.Scan(&id, &tripID, &category, &it.Title, &itemDate, &url, &notes, &cost, &metaJSON, &it.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}

	it.ID = uuid.UUID(id.Bytes)
	it.TripID = uuid.UUID(tripID.Bytes)
	it.Category = domain.Category(category)
	if itemDate.Valid {
		d := domain.DateOnly(itemDate.Time)
		it.Date = &d
	}
	it.URL = url.String
	it.Notes = notes.String
	if cost.Valid {
		c := cost.Int64
		it.Cost = &c
	}
	it.Meta = meta.Decode(it.Category, metaJSON.String)
	return it, nil
}

// nullString maps "" to NULL for optional text columns.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
