package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMLClient_Predict(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/predict", r.URL.Path)

		var req PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Hanwella", req.Station)
		assert.Equal(t, 7.0, req.AlertLevel)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predicted_level": 8.2, "status": "Alert", "confidence": 0.88, "message_en": "Rising water level expected", "message_si": "..."}`))
	}))
	defer ts.Close()

	client := NewMLClient(ts.URL)
	result, err := client.Predict(context.Background(), PredictRequest{
		Station:            "Hanwella",
		WaterLevelPrevious: 6.5,
		Rainfall:           40,
		AlertLevel:         7.0,
		MinorFloodLevel:    9.0,
		MajorFloodLevel:    10.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.2, result.PredictedLevel)
	assert.Equal(t, "Alert", result.Status)
	assert.Equal(t, 0.88, result.Confidence)
}

func TestMLClient_ForecastDefaultsDays(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ForecastRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 7, req.Days)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"date": "2026-08-30", "predicted_level": 6.8, "status": "Normal", "confidence": 0.8}]`))
	}))
	defer ts.Close()

	client := NewMLClient(ts.URL)
	results, err := client.Forecast(context.Background(), ForecastRequest{Station: "Hanwella", CurrentLevel: 6.5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "2026-08-30", results[0].Date)
}

func TestMLClient_PredictUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewMLClient(ts.URL)
	_, err := client.Predict(context.Background(), PredictRequest{Station: "Hanwella"})
	assert.Error(t, err)
}

func TestMessagingClient_SendWhatsApp(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "whatsapp:+94771234567", r.PostForm.Get("To"))
		assert.NotEmpty(t, r.PostForm.Get("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"sid": "SM123", "status": "queued"}`))
	}))
	defer ts.Close()

	client := NewMessagingClient(ts.URL, "AC123", "secret", "")
	sid, err := client.SendWhatsApp(context.Background(), "+94771234567", "Engine oil change - Status: OVERDUE")
	require.NoError(t, err)
	assert.Equal(t, "SM123", sid)
}

func TestMessagingClient_SendWhatsAppUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewMessagingClient(ts.URL, "AC123", "wrong", "")
	_, err := client.SendWhatsApp(context.Background(), "+94771234567", "hello")
	assert.Error(t, err)
}
