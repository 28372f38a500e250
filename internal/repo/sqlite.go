package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/meta"
)

// sqlDB is the minimal interface satisfied by *sql.DB and *sql.Tx.
type sqlDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLite stores dates and timestamps as TEXT. Timestamps use a fixed-width
// layout so that ORDER BY created_at sorts chronologically.
const (
	sqliteDateLayout = "2006-01-02"
	sqliteTimeLayout = "2006-01-02 15:04:05.000000000"
)

// now is the clock used for created_at on SQLite, where there is no
// database-side default.
var now = func() time.Time { return time.Now().UTC() }

// ---- trips -----------------------------------------------------------------

type sqliteTripRepo struct {
	db sqlDB
}

// NewSQLiteTripRepo constructs a TripRepo backed by an embedded SQLite database.
func NewSQLiteTripRepo(db sqlDB) TripRepo {
	return &sqliteTripRepo{db: db}
}

func (r *sqliteTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (id, token, title, destination, start_date, end_date, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + tripColumns

	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(), trip.Token, trip.Title, trip.Destination,
		sqliteDate(trip.StartDate), sqliteDate(trip.EndDate), trip.Currency,
		now().Format(sqliteTimeLayout),
	)
	result, err := scanSQLiteTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE token = ?`

	result, err := scanSQLiteTrip(r.db.QueryRowContext(ctx, q, token))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByToken: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title = ?, destination = ?, start_date = ?, end_date = ?, currency = ?
		WHERE id = ?
		RETURNING ` + tripColumns

	row := r.db.QueryRowContext(ctx, q,
		trip.Title, trip.Destination, sqliteDate(trip.StartDate), sqliteDate(trip.EndDate),
		trip.Currency, trip.ID.String(),
	)
	result, err := scanSQLiteTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *sqliteTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	return requireAffected(res, "repo.TripRepo.Delete")
}

func scanSQLiteTrip(s scanner) (domain.Trip, error) {
	var (
		t                    domain.Trip
		id, start, end, made string
	)
	err := s.Scan(&id, &t.Token, &t.Title, &t.Destination, &start, &end, &t.Currency, &made)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	if t.ID, err = uuid.Parse(id); err != nil {
		return domain.Trip{}, fmt.Errorf("parse id: %w", err)
	}
	if t.StartDate, err = time.Parse(sqliteDateLayout, start); err != nil {
		return domain.Trip{}, fmt.Errorf("parse start_date: %w", err)
	}
	if t.EndDate, err = time.Parse(sqliteDateLayout, end); err != nil {
		return domain.Trip{}, fmt.Errorf("parse end_date: %w", err)
	}
	if t.CreatedAt, err = time.Parse(sqliteTimeLayout, made); err != nil {
		return domain.Trip{}, fmt.Errorf("parse created_at: %w", err)
	}
	return t, nil
}

// ---- items -----------------------------------------------------------------

type sqliteItemRepo struct {
	db sqlDB
}

// NewSQLiteItemRepo constructs an ItemRepo backed by an embedded SQLite database.
func NewSQLiteItemRepo(db sqlDB) ItemRepo {
	return &sqliteItemRepo{db: db}
}

func (r *sqliteItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		INSERT INTO trip_items (id, trip_id, category, title, item_date, url, notes, cost, meta_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + itemColumns

	metaJSON, err := meta.Encode(item.Meta)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: encode meta: %w", err)
	}

	var itemDate *string
	if item.Date != nil {
		d := sqliteDate(*item.Date)
		itemDate = &d
	}

	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(), item.TripID.String(), string(item.Category), item.Title,
		itemDate, nullString(item.URL), nullString(item.Notes), item.Cost,
		nullString(metaJSON), now().Format(sqliteTimeLayout),
	)
	result, err := scanSQLiteItem(row)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", err)
	}
	return result, nil
}

func (r *sqliteItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	const q = `
		SELECT ` + itemColumns + `
		FROM trip_items
		WHERE trip_id = ?
		ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, q, tripID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		it, err := scanSQLiteItem(rows)
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

func (r *sqliteItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_items WHERE id = ? AND trip_id = ?`,
		itemID.String(), tripID.String())
	if err != nil {
		return fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	return requireAffected(res, "repo.ItemRepo.Delete")
}

func scanSQLiteItem(s scanner) (domain.Item, error) {
	var (
		it                  domain.Item
		id, tripID, made    string
		category            string
		itemDate, url, note sql.NullString
		metaJSON            sql.NullString
		cost                sql.NullInt64
	)
	err := s.Scan(&id, &tripID, &category, &it.Title, &itemDate, &url, &note, &cost, &metaJSON, &made)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}
	if it.ID, err = uuid.Parse(id); err != nil {
		return domain.Item{}, fmt.Errorf("parse id: %w", err)
	}
	if it.TripID, err = uuid.Parse(tripID); err != nil {
		return domain.Item{}, fmt.Errorf("parse trip_id: %w", err)
	}
	if it.CreatedAt, err = time.Parse(sqliteTimeLayout, made); err != nil {
		return domain.Item{}, fmt.Errorf("parse created_at: %w", err)
	}
	if itemDate.Valid {
		d, err := time.Parse(sqliteDateLayout, itemDate.String)
		if err != nil {
			return domain.Item{}, fmt.Errorf("parse item_date: %w", err)
		}
		it.Date = &d
	}
	it.Category = domain.Category(category)
	it.URL = url.String
	it.Notes = note.String
	if cost.Valid {
		c := cost.Int64
		it.Cost = &c
	}
	it.Meta = meta.Decode(it.Category, metaJSON.String)
	return it, nil
}

// ---- participants ----------------------------------------------------------

type sqliteParticipantRepo struct {
	db sqlDB
}

// NewSQLiteParticipantRepo constructs a ParticipantRepo backed by an embedded
// SQLite database.
func NewSQLiteParticipantRepo(db sqlDB) ParticipantRepo {
	return &sqliteParticipantRepo{db: db}
}

func (r *sqliteParticipantRepo) Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	const q = `
		INSERT INTO trip_participants (id, trip_id, name, email, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (trip_id, email) DO UPDATE SET name = excluded.name
		RETURNING ` + participantColumns

	row := r.db.QueryRowContext(ctx, q,
		uuid.NewString(), p.TripID.String(), p.Name, nullString(p.Email),
		now().Format(sqliteTimeLayout),
	)
	result, err := scanSQLiteParticipant(row)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *sqliteParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	const q = `
		SELECT ` + participantColumns + `
		FROM trip_participants
		WHERE trip_id = ?
		ORDER BY created_at, rowid`

	rows, err := r.db.QueryContext(ctx, q, tripID.String())
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	out := []domain.Participant{}
	for rows.Next() {
		p, err := scanSQLiteParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: rows: %w", err)
	}
	return out, nil
}

func (r *sqliteParticipantRepo) Delete(ctx context.Context, tripID, participantID uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trip_participants WHERE id = ? AND trip_id = ?`,
		participantID.String(), tripID.String())
	if err != nil {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", err)
	}
	return requireAffected(res, "repo.ParticipantRepo.Delete")
}

func scanSQLiteParticipant(s scanner) (domain.Participant, error) {
	var (
		p                domain.Participant
		id, tripID, made string
		email            sql.NullString
	)
	err := s.Scan(&id, &tripID, &p.Name, &email, &made)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	if p.ID, err = uuid.Parse(id); err != nil {
		return domain.Participant{}, fmt.Errorf("parse id: %w", err)
	}
	if p.TripID, err = uuid.Parse(tripID); err != nil {
		return domain.Participant{}, fmt.Errorf("parse trip_id: %w", err)
	}
	if p.CreatedAt, err = time.Parse(sqliteTimeLayout, made); err != nil {
		return domain.Participant{}, fmt.Errorf("parse created_at: %w", err)
	}
	p.Email = email.String
	return p, nil
}

// ---- helpers ---------------------------------------------------------------

func sqliteDate(t time.Time) string {
	return domain.DateOnly(t).Format(sqliteDateLayout)
}

// requireAffected turns a zero-row delete into domain.ErrNotFound.
func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}
	return nil
}
