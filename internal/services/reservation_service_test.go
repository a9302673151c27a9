package services

import (
	"errors"
	"testing"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

func TestCreateReservation(t *testing.T) {
	slot := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)

	baseTableRepo := func(capacity int) *fakeTableRepo {
		return &fakeTableRepo{
			GetTableByIDFn: func(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
				return &models.Table{ID: id, TableNumber: 5, Capacity: capacity}, nil
			},
		}
	}

	t.Run("creates with a defaulted pending status", func(t *testing.T) {
		var windowStart, windowEnd time.Time
		reservationRepo := &fakeReservationRepo{
			CountOverlappingFn: func(_ int64, start, end time.Time) (int, error) {
				windowStart, windowEnd = start, end
				return 0, nil
			},
			CreateReservationFn: func(_ repositories.SQLExecutor, _ *models.Reservation) (int64, error) {
				return 12, nil
			},
		}
		svc := NewReservationService(reservationRepo, baseTableRepo(4))

		created, err := svc.CreateReservation(&models.Reservation{
			CustomerName:    "Aliya",
			TableID:         1,
			ReservationTime: slot,
			NumberOfGuests:  2,
		})
		if err != nil {
			t.Fatalf("CreateReservation: %v", err)
		}
		if created.ID != 12 {
			t.Errorf("ID = %d, want 12", created.ID)
		}
		if created.Status != models.ReservationStatusPending {
			t.Errorf("status = %s, want pending", created.Status)
		}
		if !windowStart.Equal(slot.Add(-DefaultDiningDuration)) || !windowEnd.Equal(slot.Add(DefaultDiningDuration)) {
			t.Errorf("overlap window = [%v, %v), want slot +/- %v", windowStart, windowEnd, DefaultDiningDuration)
		}
	})

	t.Run("rejects an overlapping slot", func(t *testing.T) {
		reservationRepo := &fakeReservationRepo{
			CountOverlappingFn: func(_ int64, _, _ time.Time) (int, error) { return 1, nil },
		}
		svc := NewReservationService(reservationRepo, baseTableRepo(4))

		_, err := svc.CreateReservation(&models.Reservation{
			CustomerName: "Aliya", TableID: 1, ReservationTime: slot, NumberOfGuests: 2,
		})
		if !errors.Is(err, ErrReservationSlotTaken) {
			t.Fatalf("err = %v, want ErrReservationSlotTaken", err)
		}
	})

	t.Run("rejects a party bigger than the table", func(t *testing.T) {
		svc := NewReservationService(&fakeReservationRepo{}, baseTableRepo(2))
		_, err := svc.CreateReservation(&models.Reservation{
			CustomerName: "Aliya", TableID: 1, ReservationTime: slot, NumberOfGuests: 6,
		})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects non-positive guest counts", func(t *testing.T) {
		svc := NewReservationService(&fakeReservationRepo{}, baseTableRepo(4))
		_, err := svc.CreateReservation(&models.Reservation{TableID: 1, ReservationTime: slot})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects an unknown table", func(t *testing.T) {
		svc := NewReservationService(&fakeReservationRepo{}, &fakeTableRepo{})
		_, err := svc.CreateReservation(&models.Reservation{TableID: 99, ReservationTime: slot, NumberOfGuests: 2})
		if !errors.Is(err, ErrTableNotFound) {
			t.Fatalf("err = %v, want ErrTableNotFound", err)
		}
	})
}

func TestUpdateReservationStatus(t *testing.T) {
	t.Run("moves a reservation to confirmed", func(t *testing.T) {
		var saved *models.Reservation
		reservationRepo := &fakeReservationRepo{
			GetReservationByIDFn: func(id int64) (*models.Reservation, error) {
				return &models.Reservation{ID: id, Status: models.ReservationStatusPending}, nil
			},
			UpdateReservationFn: func(_ repositories.SQLExecutor, r *models.Reservation) error {
				saved = r
				return nil
			},
		}
		svc := NewReservationService(reservationRepo, &fakeTableRepo{})

		updated, err := svc.UpdateReservationStatus(1, models.ReservationStatusConfirmed)
		if err != nil {
			t.Fatalf("UpdateReservationStatus: %v", err)
		}
		if updated.Status != models.ReservationStatusConfirmed || saved.Status != models.ReservationStatusConfirmed {
			t.Errorf("status = %s / %s, want confirmed", updated.Status, saved.Status)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := NewReservationService(&fakeReservationRepo{}, &fakeTableRepo{})
		_, err := svc.UpdateReservationStatus(1, "tentative")
		if !errors.Is(err, ErrInvalidReservationStatus) {
			t.Fatalf("err = %v, want ErrInvalidReservationStatus", err)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		svc := NewReservationService(&fakeReservationRepo{}, &fakeTableRepo{})
		_, err := svc.UpdateReservationStatus(99, models.ReservationStatusCancelled)
		if !errors.Is(err, ErrReservationNotFound) {
			t.Fatalf("err = %v, want ErrReservationNotFound", err)
		}
	})
}
