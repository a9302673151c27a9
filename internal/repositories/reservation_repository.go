package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_backend/internal/models"

	"github.com/lib/pq"
)

// ReservationRepository defines the interface for reservation database operations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error)
	GetReservationByID(id int64) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
	UpdateReservation(executor SQLExecutor, reservation *models.Reservation) error
	DeleteReservation(executor SQLExecutor, id int64) error
	// CountOverlapping counts pending/confirmed reservations on the table whose
	// reservation_time falls inside [start, end).
	CountOverlapping(tableID int64, start, end time.Time) (int, error)
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, customer_name, customer_phone, reservation_time, number_of_guests,
	status, table_id, created_at, updated_at`

func scanReservation(row scanner) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := row.Scan(&res.ID, &res.CustomerName, &res.CustomerPhone, &res.ReservationTime,
		&res.NumberOfGuests, &res.Status, &res.TableID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
	}
	return res, nil
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, reservation *models.Reservation) (int64, error) {
	if executor == nil {
		executor = r.db
	}
	query := `INSERT INTO reservations
	            (customer_name, customer_phone, reservation_time, number_of_guests, status, table_id,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	currentTime := time.Now()
	if reservation.Status == "" {
		reservation.Status = models.ReservationStatusPending
	}
	reservation.CreatedAt = currentTime
	reservation.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		reservation.CustomerName, reservation.CustomerPhone, reservation.ReservationTime,
		reservation.NumberOfGuests, reservation.Status, reservation.TableID,
		reservation.CreatedAt, reservation.UpdatedAt,
	).Scan(&reservation.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating reservation (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating reservation: %v", ErrDatabaseError, err)
	}
	return reservation.ID, nil
}

func (r *reservationRepository) GetReservationByID(id int64) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return scanReservation(r.db.QueryRow(query, id))
}

func (r *reservationRepository) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations := []models.Reservation{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + reservationColumns + `, COUNT(*) OVER() AS total_count FROM reservations`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.TableID != nil {
		conditions = append(conditions, fmt.Sprintf("table_id = $%d", argCount))
		args = append(args, *filters.TableID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
		argCount++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: date %s, expected YYYY-MM-DD", ErrBadFilter, *filters.Date)
		}
		startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
		endOfDay := startOfDay.AddDate(0, 0, 1)
		conditions = append(conditions, fmt.Sprintf("reservation_time >= $%d AND reservation_time < $%d", argCount, argCount+1))
		args = append(args, startOfDay, endOfDay)
		argCount += 2
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY reservation_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.CustomerName, &res.CustomerPhone, &res.ReservationTime,
			&res.NumberOfGuests, &res.Status, &res.TableID, &res.CreatedAt, &res.UpdatedAt,
			&totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating reservation rows: %v", ErrDatabaseError, err)
	}
	return reservations, totalCount, nil
}

func (r *reservationRepository) UpdateReservation(executor SQLExecutor, reservation *models.Reservation) error {
	if executor == nil {
		executor = r.db
	}
	query := `UPDATE reservations SET
	            customer_name = $1, customer_phone = $2, reservation_time = $3,
	            number_of_guests = $4, status = $5, table_id = $6, updated_at = $7
	          WHERE id = $8`
	reservation.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		reservation.CustomerName, reservation.CustomerPhone, reservation.ReservationTime,
		reservation.NumberOfGuests, reservation.Status, reservation.TableID,
		reservation.UpdatedAt, reservation.ID)
	if err != nil {
		return fmt.Errorf("%w: updating reservation ID %d: %v", ErrDatabaseError, reservation.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) DeleteReservation(executor SQLExecutor, id int64) error {
	if executor == nil {
		executor = r.db
	}
	result, err := executor.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting reservation ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) CountOverlapping(tableID int64, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM reservations
	          WHERE table_id = $1
	          AND status IN ($2, $3)
	          AND reservation_time >= $4 AND reservation_time < $5`
	var count int
	err := r.db.QueryRow(query, tableID,
		models.ReservationStatusPending, models.ReservationStatusConfirmed,
		start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting overlapping reservations for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return count, nil
}
