package services

import (
	"errors"
	"fmt"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

var (
	ErrReservationNotFound      = errors.New("reservation not found")
	ErrReservationSlotTaken     = errors.New("table is already reserved for that time")
	ErrInvalidReservationStatus = errors.New("invalid reservation status")
)

// ReservationService manages booked table slots. Overlap against other
// reservations is checked on create; availability against live orders is the
// job of AvailabilityService.
type ReservationService interface {
	CreateReservation(reservation *models.Reservation) (*models.Reservation, error)
	GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error)
	GetReservationByID(reservationID int64) (*models.Reservation, error)
	UpdateReservation(reservationID int64, reservation *models.Reservation) (*models.Reservation, error)
	UpdateReservationStatus(reservationID int64, status string) (*models.Reservation, error)
	DeleteReservation(reservationID int64) error
}

type reservationService struct {
	reservationRepo repositories.ReservationRepository
	tableRepo       repositories.TableRepository
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(rr repositories.ReservationRepository, tr repositories.TableRepository) ReservationService {
	return &reservationService{reservationRepo: rr, tableRepo: tr}
}

func (s *reservationService) CreateReservation(reservation *models.Reservation) (*models.Reservation, error) {
	if reservation.NumberOfGuests <= 0 {
		return nil, fmt.Errorf("%w: number of guests must be positive", ErrValidation)
	}
	if reservation.Status == "" {
		reservation.Status = models.ReservationStatusPending
	}
	if !models.IsValidReservationStatus(reservation.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReservationStatus, reservation.Status)
	}

	table, err := s.tableRepo.GetTableByID(nil, reservation.TableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: table ID %d", ErrTableNotFound, reservation.TableID)
		}
		return nil, fmt.Errorf("failed to fetch table %d: %w", reservation.TableID, err)
	}
	if table.Capacity < reservation.NumberOfGuests {
		return nil, fmt.Errorf("%w: table %d seats %d, party of %d requested",
			ErrValidation, table.TableNumber, table.Capacity, reservation.NumberOfGuests)
	}

	windowStart := reservation.ReservationTime.Add(-DefaultDiningDuration)
	windowEnd := reservation.ReservationTime.Add(DefaultDiningDuration)
	overlapping, err := s.reservationRepo.CountOverlapping(reservation.TableID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to check reservation overlap: %w", err)
	}
	if overlapping > 0 {
		return nil, fmt.Errorf("%w: table %d at %s", ErrReservationSlotTaken,
			table.TableNumber, reservation.ReservationTime.Format(time.RFC3339))
	}

	now := time.Now()
	reservation.CreatedAt = now
	reservation.UpdatedAt = now
	id, err := s.reservationRepo.CreateReservation(nil, reservation)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	reservation.ID = id
	return reservation, nil
}

func (s *reservationService) GetReservations(filters models.ReservationFilters) ([]models.Reservation, int, error) {
	reservations, total, err := s.reservationRepo.GetReservations(filters)
	if err != nil {
		if errors.Is(err, repositories.ErrBadFilter) {
			return nil, 0, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		return nil, 0, fmt.Errorf("failed to get reservations: %w", err)
	}
	return reservations, total, nil
}

func (s *reservationService) GetReservationByID(reservationID int64) (*models.Reservation, error) {
	reservation, err := s.reservationRepo.GetReservationByID(reservationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation %d: %w", reservationID, err)
	}
	return reservation, nil
}

func (s *reservationService) UpdateReservation(reservationID int64, reservation *models.Reservation) (*models.Reservation, error) {
	existing, err := s.GetReservationByID(reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.NumberOfGuests <= 0 {
		return nil, fmt.Errorf("%w: number of guests must be positive", ErrValidation)
	}
	if reservation.Status == "" {
		reservation.Status = existing.Status
	}
	if !models.IsValidReservationStatus(reservation.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReservationStatus, reservation.Status)
	}

	reservation.ID = existing.ID
	reservation.CreatedAt = existing.CreatedAt
	reservation.UpdatedAt = time.Now()
	if err := s.reservationRepo.UpdateReservation(nil, reservation); err != nil {
		return nil, fmt.Errorf("failed to update reservation %d: %w", reservationID, err)
	}
	return reservation, nil
}

func (s *reservationService) UpdateReservationStatus(reservationID int64, status string) (*models.Reservation, error) {
	if !models.IsValidReservationStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReservationStatus, status)
	}
	existing, err := s.GetReservationByID(reservationID)
	if err != nil {
		return nil, err
	}
	existing.Status = status
	existing.UpdatedAt = time.Now()
	if err := s.reservationRepo.UpdateReservation(nil, existing); err != nil {
		return nil, fmt.Errorf("failed to update reservation %d: %w", reservationID, err)
	}
	return existing, nil
}

func (s *reservationService) DeleteReservation(reservationID int64) error {
	if err := s.reservationRepo.DeleteReservation(nil, reservationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("failed to delete reservation %d: %w", reservationID, err)
	}
	return nil
}
