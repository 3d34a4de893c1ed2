package state

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gudangops/wardeck/internal/store"
	"github.com/gudangops/wardeck/pkg/models"
	"go.uber.org/zap"
)

// Forecast caches the latest forecast result set, mirrored to the
// durable store. The forecaster page produces it, the home page
// consumes it.
type Forecast struct {
	mu     sync.Mutex
	data   models.ForecastResult
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// ForecastPatch is a partial update; nil fields are left untouched.
type ForecastPatch struct {
	Chart       *[]models.ChartPoint
	BestSellers *[]models.BestSeller
	StockAlerts *[]models.StockAlert
	HasData     *bool
}

func NewForecast(s store.Store, logger *zap.Logger) *Forecast {
	f := &Forecast{store: s, logger: logger, now: time.Now}
	f.hydrate()
	return f
}

func (f *Forecast) hydrate() {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, ok, err := f.store.Get(store.KeyForecastData)
	if err == nil && ok {
		var data models.ForecastResult
		if jsonErr := json.Unmarshal(raw, &data); jsonErr == nil {
			f.data = data
			return
		}
		f.logger.Warn("failed to parse stored forecast data, starting empty")
	} else if err != nil {
		f.logger.Warn("failed to read stored forecast data", zap.Error(err))
	}
	f.data = models.EmptyForecastResult()
}

// Reload rehydrates from the store, dropping in-memory state.
func (f *Forecast) Reload() {
	f.hydrate()
}

// Data returns the current result set.
func (f *Forecast) Data() models.ForecastResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Replace commits a whole new result set, stamping the update time.
// Used by the upload client after a successful analysis.
func (f *Forecast) Replace(result models.ForecastResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.now()
	result.LastUpdated = &now
	f.data = result
	f.persistLocked()
}

// Merge applies a partial update. Even partial updates stamp a new
// last-updated time.
func (f *Forecast) Merge(patch ForecastPatch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if patch.Chart != nil {
		f.data.Chart = *patch.Chart
	}
	if patch.BestSellers != nil {
		f.data.BestSellers = *patch.BestSellers
	}
	if patch.StockAlerts != nil {
		f.data.StockAlerts = *patch.StockAlerts
	}
	if patch.HasData != nil {
		f.data.HasData = *patch.HasData
	}
	now := f.now()
	f.data.LastUpdated = &now
	f.persistLocked()
}

// Reset restores the canonical empty set and removes the durable copy.
func (f *Forecast) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = models.EmptyForecastResult()
	if err := f.store.Delete(store.KeyForecastData); err != nil {
		f.logger.Warn("failed to remove stored forecast data", zap.Error(err))
	}
}

func (f *Forecast) persistLocked() {
	raw, err := json.Marshal(f.data)
	if err != nil {
		f.logger.Error("failed to serialize forecast data", zap.Error(err))
		return
	}
	if err := f.store.Set(store.KeyForecastData, raw); err != nil {
		f.logger.Warn("failed to persist forecast data", zap.Error(err))
	}
}
