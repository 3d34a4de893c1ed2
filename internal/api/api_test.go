package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, zap.NewNop()), server
}

// TestChatSendsMultipartFields tests the chat request shape
func TestChatSendsMultipartFields(t *testing.T) {
	var gotQuestion, gotFilename string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("Expected multipart form: %v", err)
		}
		gotQuestion = r.FormValue("question")
		if _, header, err := r.FormFile("file"); err == nil {
			gotFilename = header.Filename
		}
		w.Write([]byte(`{"response":"Here is the SOP summary."}`))
	})

	attachment := &Attachment{Name: "sop.pdf", Reader: strings.NewReader("pdf bytes")}
	reply, err := client.Chat(context.Background(), "Summarize the SOP", attachment)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != "Here is the SOP summary." {
		t.Errorf("Unexpected reply: %q", reply)
	}
	if gotQuestion != "Summarize the SOP" {
		t.Errorf("Question field mismatch: %q", gotQuestion)
	}
	if gotFilename != "sop.pdf" {
		t.Errorf("File field mismatch: %q", gotFilename)
	}
}

// TestChatDefaultQuestion tests that a file-only send gets the default
// question
func TestChatDefaultQuestion(t *testing.T) {
	var gotQuestion string
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		gotQuestion = r.FormValue("question")
		w.Write([]byte(`{"response":"ok"}`))
	})

	attachment := &Attachment{Name: "doc.pdf", Reader: strings.NewReader("x")}
	if _, err := client.Chat(context.Background(), "", attachment); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if gotQuestion != DefaultQuestion {
		t.Errorf("Expected default question, got %q", gotQuestion)
	}
}

// TestChatFallbackReply tests the missing-response-field fallback
func TestChatFallbackReply(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	reply, err := client.Chat(context.Background(), "hello", nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if reply != FallbackReply {
		t.Errorf("Expected fallback reply, got %q", reply)
	}
}

// TestForecastShapesResult tests label formatting, rounding and
// best-seller ranking
func TestForecastShapesResult(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/forecast/365" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"forecast_chart": [
				{"ds": "2026-03-01", "yhat": 120.6},
				{"ds": "2026-04-01", "yhat": 98.2}
			],
			"best_sellers": {"Pulpen": 80.4, "Kertas A4": 120.9, "Spidol": 80.4},
			"stock_alerts": [
				{"product": "Kertas A4", "current_stock": 10, "status": "CRITICAL", "days_left": 2.5, "rop": 40}
			]
		}`))
	})

	result, err := client.Forecast(context.Background(), "sales.csv", strings.NewReader("date,qty\n"))
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if !result.HasData {
		t.Error("Successful analysis should set HasData")
	}
	if len(result.Chart) != 2 {
		t.Fatalf("Expected 2 chart points, got %d", len(result.Chart))
	}
	if result.Chart[0].Label != "Mar 26" {
		t.Errorf("Expected short month/year label, got %q", result.Chart[0].Label)
	}
	if result.Chart[0].Value != 121 {
		t.Errorf("Expected rounded prediction 121, got %d", result.Chart[0].Value)
	}

	if len(result.BestSellers) != 3 {
		t.Fatalf("Expected 3 best sellers, got %d", len(result.BestSellers))
	}
	if result.BestSellers[0].Name != "Kertas A4" {
		t.Errorf("Expected highest quantity first, got %q", result.BestSellers[0].Name)
	}
	// Equal quantities rank by name for a stable order
	if result.BestSellers[1].Name != "Pulpen" || result.BestSellers[2].Name != "Spidol" {
		t.Errorf("Expected name tiebreak, got %q then %q",
			result.BestSellers[1].Name, result.BestSellers[2].Name)
	}
}

// TestForecastServerDetailSurfaces tests that the {"detail": ...} body of
// a failed upload reaches the caller
func TestForecastServerDetailSurfaces(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"detail":"CSV is missing a date column"}`))
	})

	_, err := client.Forecast(context.Background(), "bad.csv", strings.NewReader("x"))
	if err == nil {
		t.Fatal("Expected an error for a 500 response")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("Unexpected status: %d", apiErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "CSV is missing a date column") {
		t.Errorf("Server detail should surface in the error, got %q", err.Error())
	}
}

// TestFormatChartLabel tests the axis label conversion
func TestFormatChartLabel(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"2026-03-01", "Mar 26"},
		{"2026-12-15T00:00:00Z", "Dec 26"},
		{"not-a-date", "not-a-date"},
	}
	for _, c := range cases {
		if got := FormatChartLabel(c.in); got != c.want {
			t.Errorf("FormatChartLabel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

// TestTimelineAndStats tests the history list endpoints
func TestTimelineAndStats(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/history/all":
			w.Write([]byte(`[
				{"id": "f1", "type": "forecast", "title": "sales.csv", "status": "success", "timestamp": "2026-02-01T10:00:00Z"},
				{"id": "c1", "type": "chat", "title": "Return policy", "status": "success", "timestamp": "2026-02-02T11:00:00Z"}
			]`))
		case "/history/stats":
			w.Write([]byte(`{"total_predictions": 12, "total_consultations": 30, "avg_accuracy": "92%", "response_time": "1.2s"}`))
		default:
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
	})

	items, err := client.Timeline(context.Background())
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if len(items) != 2 || items[0].ID != "f1" {
		t.Errorf("Unexpected timeline: %+v", items)
	}

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalPredictions != 12 || stats.AvgAccuracy != "92%" {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

// TestForecastDetailBothShapes tests that the recorded plot data decodes
// from both the bare-array and wrapped shapes
func TestForecastDetailBothShapes(t *testing.T) {
	bodies := map[string]string{
		"bare":    `{"filename": "a.csv", "plotData": [{"ds": "2026-01-01", "yhat": 10}]}`,
		"wrapped": `{"filename": "b.csv", "plotData": {"chart": [{"ds": "2026-01-01", "yhat": 10}]}}`,
	}

	for name, body := range bodies {
		payload := body
		client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(payload))
		})
		detail, err := client.ForecastDetail(context.Background(), "id-1")
		if err != nil {
			t.Fatalf("%s: ForecastDetail failed: %v", name, err)
		}
		if len(detail.PlotData.Chart) != 1 || detail.PlotData.Chart[0].Yhat != 10 {
			t.Errorf("%s: plot data did not decode: %+v", name, detail.PlotData)
		}
	}
}

// TestChatDetail tests the consultation detail endpoint
func TestChatDetail(t *testing.T) {
	client, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history/chat/c9" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"question": "How do returns work?", "answer": "Within 14 days."}`))
	})

	detail, err := client.ChatDetail(context.Background(), "c9")
	if err != nil {
		t.Fatalf("ChatDetail failed: %v", err)
	}
	if detail.Question != "How do returns work?" || detail.Answer != "Within 14 days." {
		t.Errorf("Unexpected detail: %+v", detail)
	}
}
