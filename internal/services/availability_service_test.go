package services

import (
	"errors"
	"testing"
	"time"

	"restaurant_backend/internal/models"
	"restaurant_backend/internal/repositories"
)

func newAvailabilityService(tableRepo *fakeTableRepo, reservationRepo *fakeReservationRepo) AvailabilityService {
	return NewAvailabilityService(tableRepo, reservationRepo)
}

func TestCheckTableAvailability(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		tableStatus  string
		activeOrders int
		reservations int
		wantOK       bool
		wantReasons  int
	}{
		{name: "free table", tableStatus: models.TableStatusAvailable, wantOK: true},
		{name: "occupied table", tableStatus: models.TableStatusOccupied, wantOK: false, wantReasons: 1},
		{name: "active order", tableStatus: models.TableStatusAvailable, activeOrders: 1, wantOK: false, wantReasons: 1},
		{name: "reserved in window", tableStatus: models.TableStatusAvailable, reservations: 1, wantOK: false, wantReasons: 1},
		{name: "everything wrong at once", tableStatus: models.TableStatusOccupied, activeOrders: 2, reservations: 1, wantOK: false, wantReasons: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tableRepo := &fakeTableRepo{
				GetTableByIDFn: func(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
					return &models.Table{ID: id, TableNumber: 9, Capacity: 4, Status: tt.tableStatus}, nil
				},
				CountActiveOrdersFn: func(_ repositories.SQLExecutor, _ int64) (int, error) {
					return tt.activeOrders, nil
				},
			}
			reservationRepo := &fakeReservationRepo{
				CountOverlappingFn: func(_ int64, start, end time.Time) (int, error) {
					if !start.Equal(at) || !end.Equal(at.Add(time.Hour)) {
						t.Errorf("overlap window = [%v, %v), want [%v, %v)", start, end, at, at.Add(time.Hour))
					}
					return tt.reservations, nil
				},
			}
			svc := newAvailabilityService(tableRepo, reservationRepo)

			result, err := svc.CheckTableAvailability(1, at, time.Hour)
			if err != nil {
				t.Fatalf("CheckTableAvailability: %v", err)
			}
			if result.Available != tt.wantOK {
				t.Errorf("available = %v, want %v", result.Available, tt.wantOK)
			}
			if len(result.Reasons) != tt.wantReasons {
				t.Errorf("reasons = %v, want %d of them", result.Reasons, tt.wantReasons)
			}
		})
	}

	t.Run("non-positive duration falls back to the default window", func(t *testing.T) {
		tableRepo := &fakeTableRepo{
			GetTableByIDFn: func(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
				return &models.Table{ID: id, Status: models.TableStatusAvailable}, nil
			},
		}
		var windowEnd time.Time
		reservationRepo := &fakeReservationRepo{
			CountOverlappingFn: func(_ int64, _, end time.Time) (int, error) {
				windowEnd = end
				return 0, nil
			},
		}
		svc := newAvailabilityService(tableRepo, reservationRepo)

		result, err := svc.CheckTableAvailability(1, at, 0)
		if err != nil {
			t.Fatalf("CheckTableAvailability: %v", err)
		}
		if want := at.Add(DefaultDiningDuration); !windowEnd.Equal(want) {
			t.Errorf("window end = %v, want %v", windowEnd, want)
		}
		if !result.WindowEnd.Equal(at.Add(DefaultDiningDuration)) {
			t.Errorf("result window end = %v, want %v", result.WindowEnd, at.Add(DefaultDiningDuration))
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		svc := newAvailabilityService(&fakeTableRepo{}, &fakeReservationRepo{})
		_, err := svc.CheckTableAvailability(99, at, time.Hour)
		if !errors.Is(err, ErrTableNotFound) {
			t.Fatalf("err = %v, want ErrTableNotFound", err)
		}
	})
}

func TestFindAvailableTables(t *testing.T) {
	at := time.Date(2026, 8, 28, 19, 0, 0, 0, time.UTC)

	tables := []models.Table{
		{ID: 1, TableNumber: 1, Capacity: 4, Status: models.TableStatusAvailable},
		{ID: 2, TableNumber: 2, Capacity: 6, Status: models.TableStatusAvailable},
		{ID: 3, TableNumber: 3, Capacity: 4, Status: models.TableStatusAvailable},
	}
	var minCapacitySeen int
	tableRepo := &fakeTableRepo{
		GetTablesByMinCapacityFn: func(minCapacity int, status string) ([]models.Table, error) {
			minCapacitySeen = minCapacity
			if status != models.TableStatusAvailable {
				t.Errorf("candidate status filter = %q, want available", status)
			}
			return tables, nil
		},
		GetTableByIDFn: func(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
			for i := range tables {
				if tables[i].ID == id {
					return &tables[i], nil
				}
			}
			return nil, repositories.ErrNotFound
		},
		CountActiveOrdersFn: func(_ repositories.SQLExecutor, tableID int64) (int, error) {
			if tableID == 2 {
				return 1, nil
			}
			return 0, nil
		},
	}
	reservationRepo := &fakeReservationRepo{
		CountOverlappingFn: func(tableID int64, _, _ time.Time) (int, error) {
			if tableID == 3 {
				return 1, nil
			}
			return 0, nil
		},
	}
	svc := newAvailabilityService(tableRepo, reservationRepo)

	results, err := svc.FindAvailableTables(FindTablesRequest{PartySize: 4, Time: &at})
	if err != nil {
		t.Fatalf("FindAvailableTables: %v", err)
	}
	if minCapacitySeen != 4 {
		t.Errorf("min capacity = %d, want 4", minCapacitySeen)
	}
	if len(results) != 1 || results[0].TableID != 1 {
		t.Fatalf("results = %+v, want only table 1", results)
	}

	t.Run("rejects non-positive party size", func(t *testing.T) {
		_, err := svc.FindAvailableTables(FindTablesRequest{PartySize: 0})
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}
	})
}

func TestGetTableStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		activeOrders int
		wantActive   bool
		wantFree     bool
	}{
		{name: "idle available table", status: models.TableStatusAvailable, wantFree: true},
		{name: "available status but order still open", status: models.TableStatusAvailable, activeOrders: 1, wantActive: true},
		{name: "occupied", status: models.TableStatusOccupied, activeOrders: 1, wantActive: true},
		{name: "reserved", status: models.TableStatusReserved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tableRepo := &fakeTableRepo{
				GetTableByIDFn: func(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
					return &models.Table{ID: id, TableNumber: 4, Capacity: 2, Status: tt.status}, nil
				},
				CountActiveOrdersFn: func(_ repositories.SQLExecutor, _ int64) (int, error) {
					return tt.activeOrders, nil
				},
			}
			svc := newAvailabilityService(tableRepo, &fakeReservationRepo{})

			info, err := svc.GetTableStatus(1)
			if err != nil {
				t.Fatalf("GetTableStatus: %v", err)
			}
			if info.HasActiveOrder != tt.wantActive {
				t.Errorf("has active order = %v, want %v", info.HasActiveOrder, tt.wantActive)
			}
			if info.IsAvailable != tt.wantFree {
				t.Errorf("is available = %v, want %v", info.IsAvailable, tt.wantFree)
			}
		})
	}
}

func TestUpdateTableStatusOverride(t *testing.T) {
	t.Run("sets a valid status", func(t *testing.T) {
		var setStatus string
		tableRepo := &fakeTableRepo{
			GetTableByIDFn: func(_ repositories.SQLExecutor, id int64) (*models.Table, error) {
				return &models.Table{ID: id, Status: models.TableStatusAvailable}, nil
			},
			UpdateTableStatusFn: func(_ repositories.SQLExecutor, _ int64, status string, _ time.Time) error {
				setStatus = status
				return nil
			},
		}
		svc := newAvailabilityService(tableRepo, &fakeReservationRepo{})

		table, err := svc.UpdateTableStatus(1, UpdateTableStatusRequest{Status: models.TableStatusReserved})
		if err != nil {
			t.Fatalf("UpdateTableStatus: %v", err)
		}
		if setStatus != models.TableStatusReserved || table.Status != models.TableStatusReserved {
			t.Errorf("status = %q / %q, want reserved", setStatus, table.Status)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := newAvailabilityService(&fakeTableRepo{}, &fakeReservationRepo{})
		_, err := svc.UpdateTableStatus(1, UpdateTableStatusRequest{Status: "smoking"})
		if !errors.Is(err, ErrInvalidTableStatusValue) {
			t.Fatalf("err = %v, want ErrInvalidTableStatusValue", err)
		}
	})
}
