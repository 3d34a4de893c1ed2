package models

import (
	"encoding/json"
	"time"
)

// Role identifies the author of a transcript turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in the assistant transcript.
type Turn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChartPoint is one point of the forecast series, already shaped for display.
type ChartPoint struct {
	Label string `json:"date"`
	Value int    `json:"value"`
}

// BestSeller is a product ranked by forecast demand.
type BestSeller struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

// Stock alert statuses as reported by the forecasting service.
const (
	StatusCritical = "CRITICAL"
	StatusWarning  = "WARNING"
	StatusSafe     = "SAFE"
)

// StockAlert describes the supply situation of a single product.
type StockAlert struct {
	Product      string  `json:"product"`
	CurrentStock int     `json:"current_stock"`
	Status       string  `json:"status"`
	DaysLeft     float64 `json:"days_left"`
	ReorderPoint float64 `json:"rop"`
}

// ForecastResult is the bundle produced by one forecasting run.
// HasData is true only after a successful upload since the last reset.
type ForecastResult struct {
	Chart       []ChartPoint `json:"forecastChart"`
	BestSellers []BestSeller `json:"bestSellers"`
	StockAlerts []StockAlert `json:"stockAlerts"`
	HasData     bool         `json:"hasData"`
	LastUpdated *time.Time   `json:"lastUpdated"`
}

// EmptyForecastResult returns the canonical reset state.
func EmptyForecastResult() ForecastResult {
	return ForecastResult{
		Chart:       []ChartPoint{},
		BestSellers: []BestSeller{},
		StockAlerts: []StockAlert{},
	}
}

// HistoryKind distinguishes timeline entry types.
type HistoryKind string

const (
	HistoryForecast HistoryKind = "forecast"
	HistoryChat     HistoryKind = "chat"
)

// HistoryMetadata carries optional per-item stats.
type HistoryMetadata struct {
	Accuracy float64 `json:"accuracy,omitempty"`
	Messages int     `json:"messages,omitempty"`
	Products int     `json:"products,omitempty"`
}

// HistoryItem is a server-recorded summary of a past forecast run or chat
// exchange. Owned entirely by the remote history service.
type HistoryItem struct {
	ID          string           `json:"id"`
	Kind        HistoryKind      `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Status      string           `json:"status"`
	Metadata    *HistoryMetadata `json:"metadata,omitempty"`
}

// HistoryStats is the aggregate summary shown above the timeline.
type HistoryStats struct {
	TotalPredictions   int    `json:"total_predictions"`
	TotalConsultations int    `json:"total_consultations"`
	AvgAccuracy        string `json:"avg_accuracy"`
	ResponseTime       string `json:"response_time"`
}

// ChatDetail is the per-item detail of a recorded consultation.
type ChatDetail struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// PlotPoint is a raw forecast point as stored by the history service.
type PlotPoint struct {
	DS   string  `json:"ds"`
	Yhat float64 `json:"yhat"`
}

// PlotData is the recorded forecast series. Older records store a bare
// array of points, newer ones wrap it as {"chart": [...]}. Both shapes
// decode to the same slice.
type PlotData struct {
	Chart []PlotPoint
}

func (p *PlotData) UnmarshalJSON(data []byte) error {
	var points []PlotPoint
	if err := json.Unmarshal(data, &points); err == nil {
		p.Chart = points
		return nil
	}
	var wrapped struct {
		Chart []PlotPoint `json:"chart"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	p.Chart = wrapped.Chart
	return nil
}

func (p PlotData) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Chart []PlotPoint `json:"chart"`
	}{Chart: p.Chart})
}

// ForecastDetail is the per-item detail of a recorded forecast run.
type ForecastDetail struct {
	Filename string   `json:"filename"`
	PlotData PlotData `json:"plotData"`
}

// User is the authenticated identity exposed by the session store.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}
