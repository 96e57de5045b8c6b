package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"tripease/config"
	"tripease/internal/status"
	"tripease/models"
)

// manualTransitions are the staff-initiated status changes allowed from
// each non-terminal state.
var manualTransitions = map[models.TripStatus][]models.TripStatus{
	models.TripPreparing: {models.TripOnTrip, models.TripCancelled},
	models.TripFull:      {models.TripOnTrip, models.TripCancelled},
	models.TripOnTrip:    {models.TripCompleted, models.TripCancelled},
}

type TripService struct {
	app        core.App
	notifier   *Notifier
	config     *config.Config
	reconciler *Reconciler
}

func NewTripService(app core.App, notifier *Notifier, cfg *config.Config, reconciler *Reconciler) *TripService {
	return &TripService{
		app:        app,
		notifier:   notifier,
		config:     cfg,
		reconciler: reconciler,
	}
}

type PostTripRequest struct {
	OriginName    string  `json:"origin_name"`
	OriginDesc    string  `json:"origin_desc"`
	DestName      string  `json:"dest_name"`
	DestDesc      string  `json:"dest_desc"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Price         float64 `json:"price"`
	Seats         int     `json:"seats"`
	VehicleInfo   string  `json:"vehicle_info"`
}

// ListTrips returns every trip ordered by departure, with driver names
// and a display status derived from the current clock.
func (s *TripService) ListTrips(ctx context.Context) ([]*models.Trip, error) {
	records, err := s.app.FindRecordsByFilter("trips", "id != ''", "+departure_time", 0, 0)
	if err != nil {
		return nil, err
	}
	return s.decorate(records), nil
}

// ListManagedTrips returns the trips the staff profile may manage.
func (s *TripService) ListManagedTrips(ctx context.Context, staff *models.Profile) ([]*models.Trip, error) {
	filter, params, err := ManagedTripsFilter(staff)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		filter = "id != ''"
	}
	records, err := s.app.FindRecordsByFilter("trips", filter, "+departure_time", 0, 0, params)
	if err != nil {
		return nil, err
	}
	return s.decorate(records), nil
}

// PostTrips creates one or more trips for the driver in a single batch.
// All rows are written or none are.
func (s *TripService) PostTrips(ctx context.Context, driver *models.Profile, reqs []PostTripRequest) ([]*models.Trip, error) {
	if !CanManageTrips(driver) {
		return nil, status.ErrNotAuthorized
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("at least one trip is required")
	}

	type parsed struct {
		req       PostTripRequest
		departure time.Time
		arrival   *time.Time
	}
	parsedReqs := make([]parsed, 0, len(reqs))
	for i, req := range reqs {
		if req.OriginName == "" || req.DestName == "" {
			return nil, fmt.Errorf("trip %d: origin and destination are required", i+1)
		}
		if req.Seats < 1 {
			return nil, fmt.Errorf("trip %d: at least one seat is required", i+1)
		}
		if req.Price < 0 {
			return nil, fmt.Errorf("trip %d: price must not be negative", i+1)
		}
		departure, err := time.Parse(time.RFC3339, req.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("trip %d: invalid departure time: %w", i+1, err)
		}
		if departure.Before(time.Now()) {
			return nil, fmt.Errorf("trip %d: departure time is in the past", i+1)
		}
		p := parsed{req: req, departure: departure}
		if req.ArrivalTime != "" {
			arrival, err := time.Parse(time.RFC3339, req.ArrivalTime)
			if err != nil {
				return nil, fmt.Errorf("trip %d: invalid arrival time: %w", i+1, err)
			}
			if !arrival.After(departure) {
				return nil, fmt.Errorf("trip %d: arrival must be after departure", i+1)
			}
			p.arrival = &arrival
		}
		parsedReqs = append(parsedReqs, p)
	}

	trips := make([]*models.Trip, 0, len(parsedReqs))
	err := s.app.RunInTransaction(func(txApp core.App) error {
		collection, err := txApp.FindCollectionByNameOrId("trips")
		if err != nil {
			return err
		}
		for _, p := range parsedReqs {
			record := core.NewRecord(collection)
			record.Set("driver", driver.ID)
			record.Set("origin_name", p.req.OriginName)
			record.Set("origin_desc", p.req.OriginDesc)
			record.Set("dest_name", p.req.DestName)
			record.Set("dest_desc", p.req.DestDesc)
			record.Set("departure_time", p.departure)
			if p.arrival != nil {
				record.Set("arrival_time", *p.arrival)
			}
			record.Set("price", p.req.Price)
			record.Set("seats", p.req.Seats)
			record.Set("available_seats", p.req.Seats)
			record.Set("vehicle_info", p.req.VehicleInfo)
			record.Set("status", string(models.TripPreparing))
			if err := txApp.Save(record); err != nil {
				return err
			}

			trip := models.TripFromRecord(record)
			trip.DriverName = driver.FullName
			trips = append(trips, trip)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.TripsChanged("create")
	s.reconciler.Kick()
	slog.Info("trips posted", "driver", driver.ID, "count", len(trips))
	return trips, nil
}

// UpdateTripStatus applies a manual staff transition (start, complete,
// cancel). Transitions outside the allowed set are refused.
func (s *TripService) UpdateTripStatus(ctx context.Context, actor *models.Profile, tripID string, newStatus models.TripStatus) (*models.Trip, error) {
	record, err := s.app.FindRecordById("trips", tripID)
	if err != nil {
		return nil, err
	}
	trip := models.TripFromRecord(record)

	if !CanModerateTrip(actor, trip) {
		return nil, status.ErrNotAuthorized
	}

	allowed := false
	for _, target := range manualTransitions[trip.Status] {
		if target == newStatus {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, status.ErrInvalidTransition
	}

	record.Set("status", string(newStatus))
	if err := s.app.Save(record); err != nil {
		return nil, err
	}
	trip.Status = newStatus

	s.notifier.TripsChanged("update")
	slog.Info("trip status changed", "trip", trip.TripCode, "status", newStatus, "by", actor.ID)
	return trip, nil
}

// UserStats counts the trips driven and bookings made by a profile.
func (s *TripService) UserStats(ctx context.Context, userID string) (tripsCount, bookingsCount int64, err error) {
	tripsCount, err = s.app.CountRecords("trips", dbx.HashExp{"driver": userID})
	if err != nil {
		return 0, 0, err
	}
	bookingsCount, err = s.app.CountRecords("bookings", dbx.HashExp{"passenger": userID})
	if err != nil {
		return 0, 0, err
	}
	return tripsCount, bookingsCount, nil
}

// decorate attaches driver names and clock-derived display statuses.
func (s *TripService) decorate(records []*core.Record) []*models.Trip {
	now := time.Now()
	driverNames := map[string]string{}
	trips := make([]*models.Trip, 0, len(records))

	for _, record := range records {
		trip := models.TripFromRecord(record)

		name, ok := driverNames[trip.DriverID]
		if !ok {
			name = "Tài xế ẩn danh"
			if driver, err := s.app.FindRecordById("users", trip.DriverID); err == nil {
				if n := driver.GetString("name"); n != "" {
					name = n
				}
			}
			driverNames[trip.DriverID] = name
		}
		trip.DriverName = name
		trip.DisplayStatus = trip.Display(now, s.config.TripDuration, s.config.DepartureSoonWindow)

		trips = append(trips, trip)
	}
	return trips
}
