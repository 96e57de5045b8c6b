package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"tripease/config"
	"tripease/models"
	"tripease/monitoring"
)

const nonTerminalFilter = "status != 'COMPLETED' && status != 'CANCELLED'"

// Reconciler keeps stored trip statuses in step with wall-clock reality.
// The store is the only source of truth; a failed write for one trip is
// logged and retried naturally on the next tick.
type Reconciler struct {
	app      core.App
	notifier *Notifier
	config   *config.Config
	monitor  *monitoring.Monitor

	stopChan chan struct{}
	kickChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

func NewReconciler(app core.App, notifier *Notifier, cfg *config.Config, monitor *monitoring.Monitor) *Reconciler {
	return &Reconciler{
		app:      app,
		notifier: notifier,
		config:   cfg,
		monitor:  monitor,
		stopChan: make(chan struct{}),
		kickChan: make(chan struct{}, 1),
	}
}

// Start launches the reconciliation loop. All passes run on this single
// goroutine, so passes never overlap in-process.
func (r *Reconciler) Start(ctx context.Context) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(r.config.ReconcileInterval)
		defer ticker.Stop()

		slog.Info("trip status reconciler started", "interval", r.config.ReconcileInterval)

		for {
			select {
			case <-ticker.C:
				r.runPass(ctx)
			case <-r.kickChan:
				r.runPass(ctx)
			case <-r.stopChan:
				slog.Info("trip status reconciler stopping")
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Kick requests an immediate pass on the loop goroutine. Requests
// coalesce while a pass is pending.
func (r *Reconciler) Kick() {
	select {
	case r.kickChan <- struct{}{}:
	default:
	}
}

// Stop terminates the loop and waits for an in-flight pass to finish.
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
	r.wg.Wait()
}

func (r *Reconciler) runPass(ctx context.Context) {
	started := time.Now()
	changed, err := r.ReconcilePass(ctx, started)
	if err != nil {
		slog.Error("reconciler pass failed", "error", err)
		return
	}
	r.monitor.TrackReconcilePass(changed, time.Since(started))
}

// ReconcilePass evaluates every non-terminal trip against now and writes
// back corrected statuses. It returns the number of trips updated.
func (r *Reconciler) ReconcilePass(ctx context.Context, now time.Time) (int, error) {
	records, err := r.app.FindRecordsByFilter("trips", nonTerminalFilter, "+departure_time", 0, 0)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, record := range records {
		trip := models.TripFromRecord(record)
		target := trip.TargetStatus(now, r.config.TripDuration, r.config.DepartureSoonWindow)
		if target == trip.Status {
			continue
		}

		record.Set("status", string(target))
		if err := r.app.Save(record); err != nil {
			slog.Error("failed to update trip status",
				"trip", trip.TripCode, "from", trip.Status, "to", target, "error", err)
			continue
		}

		r.monitor.TrackStatusTransition(string(target))
		slog.Info("trip status reconciled", "trip", trip.TripCode, "from", trip.Status, "to", target)
		changed++
	}

	if changed > 0 {
		r.notifier.TripsChanged("reconciled")
	}
	return changed, nil
}
