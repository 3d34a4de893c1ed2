package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gudangops/wardeck/pkg/models"
)

// Timeline fetches the merged activity timeline.
func (c *Client) Timeline(ctx context.Context) ([]models.HistoryItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/history/all"), nil)
	if err != nil {
		return nil, err
	}
	var items []models.HistoryItem
	if err := c.do(req, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Stats fetches the aggregate history KPIs.
func (c *Client) Stats(ctx context.Context) (*models.HistoryStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/history/stats"), nil)
	if err != nil {
		return nil, err
	}
	var stats models.HistoryStats
	if err := c.do(req, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ForecastDetail fetches the recorded snapshot of one forecast run.
func (c *Client) ForecastDetail(ctx context.Context, id string) (*models.ForecastDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.url("/history/forecast/"+url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	var detail models.ForecastDetail
	if err := c.do(req, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ChatDetail fetches the recorded question/answer pair of one consultation.
func (c *Client) ChatDetail(ctx context.Context, id string) (*models.ChatDetail, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.url("/history/chat/"+url.PathEscape(id)), nil)
	if err != nil {
		return nil, err
	}
	var detail models.ChatDetail
	if err := c.do(req, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
