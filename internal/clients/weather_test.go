package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeatherClient_FetchCurrent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"coord": {"lat": 6.9271, "lon": 79.8612},
			"main": {"temp": 29.4, "feels_like": 33.1, "humidity": 78, "pressure": 1009},
			"wind": {"speed": 3.6, "deg": 240},
			"clouds": {"all": 75},
			"rain": {"1h": 2.5},
			"weather": [{"main": "Rain", "description": "moderate rain"}],
			"dt": 1717000000
		}`))
	}))
	defer ts.Close()

	client := NewWeatherClient(ts.URL, "test-key")
	obs, err := client.FetchCurrent(context.Background())
	require.NoError(t, err)

	assert.Equal(t, BasinName, obs.Location)
	assert.Equal(t, 29.4, obs.Temperature)
	assert.Equal(t, 78.0, obs.Humidity)
	assert.Equal(t, 2.5, obs.Rainfall1h)
	assert.Equal(t, "Rain", obs.WeatherMain)
	assert.Equal(t, "moderate rain", obs.WeatherDesc)
	assert.Equal(t, int64(1717000000), obs.RecordedAt.Unix())
}

func TestWeatherClient_FetchCurrentUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewWeatherClient(ts.URL, "bad-key")
	_, err := client.FetchCurrent(context.Background())
	assert.Error(t, err)
}

func TestFloodMonitorClient_SimulatedWithoutToken(t *testing.T) {
	client := NewFloodMonitorClient("https://gfms.gsfc.nasa.gov", "")

	obs, note := client.FetchBasinStatus(context.Background())
	require.NotNil(t, obs)
	assert.NotEmpty(t, note)
	assert.Equal(t, "NASA GFMS (Simulated)", obs.Source)
	assert.Equal(t, "Normal", obs.Status)
	assert.GreaterOrEqual(t, obs.FloodIntensity, 0.0)
	assert.Less(t, obs.FloodIntensity, 0.3)
}

func TestFloodMonitorClient_Live(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/flood", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"flood_intensity": 0.42, "flood_depth": 0.8, "status": "Warning", "confidence": 0.91}`))
	}))
	defer ts.Close()

	client := NewFloodMonitorClient(ts.URL, "test-token")
	obs, note := client.FetchBasinStatus(context.Background())

	assert.Empty(t, note)
	assert.Equal(t, "NASA GFMS", obs.Source)
	assert.Equal(t, 0.42, obs.FloodIntensity)
	assert.Equal(t, "Warning", obs.Status)
	assert.Equal(t, 0.91, obs.Confidence)
}

func TestFloodMonitorClient_FallbackOnUpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "server error", http.StatusInternalServerError)
	}))
	defer ts.Close()

	client := NewFloodMonitorClient(ts.URL, "test-token")
	obs, note := client.FetchBasinStatus(context.Background())

	require.NotNil(t, obs)
	assert.Contains(t, note, "fallback")
	assert.Equal(t, "NASA GFMS (Fallback)", obs.Source)
}
