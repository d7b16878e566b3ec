package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/unispace-app/unispace-backend/internal/schedule"
)

// Repository defines methods for accessing booking data from storage.
//
// Create and UpdateWithConflictCheck run the overlap re-check and the write
// in a single transaction, so the advisory in-process check in the service
// cannot race another writer into a double booking. The bookings table also
// carries an exclusion constraint over (facility, date, time range) as the
// final guard; its violation is reported as a conflict.
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListByUser(ctx context.Context, userID string) ([]*Booking, error)
	Update(ctx context.Context, b *Booking) error
	UpdateWithConflictCheck(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error

	// ListActiveRanges returns the non-cancelled time ranges booked for the
	// facility on the given date, ordered by start time. excludeID, when
	// non-empty, omits that booking's own row (used by updates).
	ListActiveRanges(ctx context.Context, facilityID string, date time.Time, excludeID string) ([]schedule.TimeRange, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// timeOfDayFromPg converts a Postgres TIME value to a TimeOfDay.
func timeOfDayFromPg(t pgtype.Time) schedule.TimeOfDay {
	return schedule.TimeOfDay(t.Microseconds / int64(time.Minute/time.Microsecond))
}

func conflictAsDomainError(err error, b *Booking) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
		return &ConflictError{FacilityID: b.FacilityID, Date: b.Date, Range: b.Range()}
	}
	return err
}

// hasOverlapTx runs the strict-inequality overlap test inside tx. The SQL
// mirrors schedule.TimeRange.Overlaps: half-open ranges, boundary touches do
// not collide.
func hasOverlapTx(ctx context.Context, tx pgx.Tx, facilityID string, date time.Time, start, end schedule.TimeOfDay, excludeID string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sub := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"facility_id": facilityID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"start_time": end.String()}).
		Where(squirrel.Gt{"end_time": start.String()})

	if excludeID != "" {
		sub = sub.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := sub.ToSql()
	if err != nil {
		return false, fmt.Errorf("build overlap query failed: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS ("+sql+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check overlap failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		overlap, err := hasOverlapTx(ctx, tx, b.FacilityID, b.Date, b.Start, b.End, "")
		if err != nil {
			return err
		}
		if overlap {
			return &ConflictError{FacilityID: b.FacilityID, Date: b.Date, Range: b.Range()}
		}

		psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
		query, args, err := psql.Insert("public.bookings").
			Columns("facility_id", "user_id", "date", "start_time", "end_time", "status").
			Values(b.FacilityID, b.UserID, b.Date, b.Start.String(), b.End.String(), b.Status).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create booking query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, query, args...).
			Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return conflictAsDomainError(err, b)
		}
		return nil
	})
}

const bookingColumns = `
	b.id, b.facility_id, f.name, b.user_id, u.name, u.email,
	b.date, b.start_time, b.end_time, b.status, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var start, end pgtype.Time

	if err := row.Scan(
		&b.ID, &b.FacilityID, &b.FacilityName, &b.UserID, &b.UserName, &b.UserEmail,
		&b.Date, &start, &end, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan booking failed: %w", err)
	}

	b.Start = timeOfDayFromPg(start)
	b.End = timeOfDayFromPg(end)
	return &b, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM public.bookings b
		JOIN public.facilities f ON b.facility_id = f.id
		JOIN public.users u ON b.user_id = u.id
		WHERE b.id = $1
	`
	return scanBooking(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"b.id", "b.facility_id", "f.name", "b.user_id", "u.name", "u.email",
		"b.date", "b.start_time", "b.end_time", "b.status", "b.created_at", "b.updated_at",
		"count(*) OVER() AS total_count",
	).
		From("public.bookings b").
		Join("public.facilities f ON b.facility_id = f.id").
		Join("public.users u ON b.user_id = u.id")

	if filter.FacilityID != "" {
		query = query.Where(squirrel.Eq{"b.facility_id": filter.FacilityID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	if filter.DateFrom != nil {
		query = query.Where(squirrel.GtOrEq{"b.date": filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(squirrel.LtOrEq{"b.date": filter.DateTo})
	}

	orderBy := "b.date"
	switch filter.SortBy {
	case "start_time", "created_at", "status":
		orderBy = "b." + filter.SortBy
	}
	orderDir := "ASC"
	if filter.SortOrder == "desc" {
		orderDir = "DESC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "b.start_time ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int

	for rows.Next() {
		var b Booking
		var start, end pgtype.Time
		if err := rows.Scan(
			&b.ID, &b.FacilityID, &b.FacilityName, &b.UserID, &b.UserName, &b.UserEmail,
			&b.Date, &start, &end, &b.Status, &b.CreatedAt, &b.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		b.Start = timeOfDayFromPg(start)
		b.End = timeOfDayFromPg(end)
		bookings = append(bookings, &b)
	}

	return bookings, total, nil
}

func (r *pgxRepository) ListByUser(ctx context.Context, userID string) ([]*Booking, error) {
	query := `
		SELECT` + bookingColumns + `
		FROM public.bookings b
		JOIN public.facilities f ON b.facility_id = f.id
		JOIN public.users u ON b.user_id = u.id
		WHERE b.user_id = $1
		ORDER BY b.date DESC, b.start_time DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		var start, end pgtype.Time
		if err := rows.Scan(
			&b.ID, &b.FacilityID, &b.FacilityName, &b.UserID, &b.UserName, &b.UserEmail,
			&b.Date, &start, &end, &b.Status, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		b.Start = timeOfDayFromPg(start)
		b.End = timeOfDayFromPg(end)
		bookings = append(bookings, &b)
	}

	return bookings, nil
}

// execer is satisfied by both pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (r *pgxRepository) updateTx(ctx context.Context, q execer, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("facility_id", b.FacilityID).
		Set("date", b.Date).
		Set("start_time", b.Start.String()).
		Set("end_time", b.End.String()).
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := q.Exec(ctx, query, args...)
	if err != nil {
		return conflictAsDomainError(err, b)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	return r.updateTx(ctx, r.pool, b)
}

func (r *pgxRepository) UpdateWithConflictCheck(ctx context.Context, b *Booking) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		overlap, err := hasOverlapTx(ctx, tx, b.FacilityID, b.Date, b.Start, b.End, b.ID)
		if err != nil {
			return err
		}
		if overlap {
			return &ConflictError{FacilityID: b.FacilityID, Date: b.Date, Range: b.Range()}
		}
		return r.updateTx(ctx, tx, b)
	})
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, "DELETE FROM public.bookings WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) ListActiveRanges(ctx context.Context, facilityID string, date time.Time, excludeID string) ([]schedule.TimeRange, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("start_time", "end_time").
		From("public.bookings").
		Where(squirrel.Eq{"facility_id": facilityID}).
		Where(squirrel.Eq{"date": date}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		OrderBy("start_time ASC")

	if excludeID != "" {
		query = query.Where(squirrel.NotEq{"id": excludeID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active ranges query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list active ranges failed: %w", err)
	}
	defer rows.Close()

	var ranges []schedule.TimeRange
	for rows.Next() {
		var start, end pgtype.Time
		if err := rows.Scan(&start, &end); err != nil {
			return nil, fmt.Errorf("scan active range failed: %w", err)
		}
		ranges = append(ranges, schedule.NewTimeRange(timeOfDayFromPg(start), timeOfDayFromPg(end)))
	}

	return ranges, nil
}
