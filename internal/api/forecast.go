package api

import (
	"bytes"
	"context"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"sort"
	"time"

	"github.com/gudangops/wardeck/pkg/models"
	"go.uber.org/zap"
)

// forecastResponse is the wire shape of a successful analysis.
type forecastResponse struct {
	ForecastChart []models.PlotPoint  `json:"forecast_chart"`
	BestSellers   map[string]float64  `json:"best_sellers"`
	StockAlerts   []models.StockAlert `json:"stock_alerts"`
}

// Forecast uploads a sales CSV to the one-year forecasting endpoint and
// returns the result already shaped for the forecast cache: dates become
// short month/year labels, predictions are rounded, and the best-seller
// map is flattened into a ranking.
func (c *Client) Forecast(ctx context.Context, filename string, file io.Reader) (*models.ForecastResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/forecast/365"), &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp forecastResponse
	if err := c.do(req, &resp); err != nil {
		return nil, err
	}

	result := shapeForecast(resp)
	c.logger.Info("forecast analysis complete",
		zap.String("file", filename),
		zap.Int("points", len(result.Chart)),
		zap.Int("products", len(result.BestSellers)),
		zap.Int("alerts", len(result.StockAlerts)))
	return result, nil
}

func shapeForecast(resp forecastResponse) *models.ForecastResult {
	result := models.EmptyForecastResult()

	for _, point := range resp.ForecastChart {
		result.Chart = append(result.Chart, models.ChartPoint{
			Label: FormatChartLabel(point.DS),
			Value: int(math.Round(point.Yhat)),
		})
	}

	for name, qty := range resp.BestSellers {
		result.BestSellers = append(result.BestSellers, models.BestSeller{
			Name: name,
			Qty:  int(math.Round(qty)),
		})
	}
	sort.Slice(result.BestSellers, func(i, j int) bool {
		if result.BestSellers[i].Qty != result.BestSellers[j].Qty {
			return result.BestSellers[i].Qty > result.BestSellers[j].Qty
		}
		return result.BestSellers[i].Name < result.BestSellers[j].Name
	})

	if resp.StockAlerts != nil {
		result.StockAlerts = resp.StockAlerts
	}

	result.HasData = true
	return &result
}

// FormatChartLabel turns an ISO date into the short axis label used by
// the projection charts, e.g. "Mar 26". Unparseable values pass through.
func FormatChartLabel(isoDate string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, isoDate); err == nil {
			return t.Format("Jan 06")
		}
	}
	return isoDate
}
