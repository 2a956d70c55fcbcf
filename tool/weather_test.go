package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/tools"
)

var _ tools.Tool = (*Weather)(nil)

func TestWeatherCall(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"q":     q.Get("q"),
			"appid": q.Get("appid"),
			"units": q.Get("units"),
			"lang":  q.Get("lang"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Taipei",
			"sys": {"country": "TW"},
			"main": {"temp": 28.4, "humidity": 78},
			"wind": {"speed": 3.2},
			"weather": [{"description": "scattered clouds"}]
		}`))
	}))
	defer srv.Close()

	weather, err := NewWeather("test-key", WithWeatherBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := weather.Call(context.Background(), "Taipei")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"q":     "Taipei",
		"appid": "test-key",
		"units": "metric",
		"lang":  "en",
	}, gotQuery)
	assert.Contains(t, out, "🌍 Taipei, TW")
	assert.Contains(t, out, "Temperature: 28.4°C")
	assert.Contains(t, out, "Humidity: 78%")
	assert.Contains(t, out, "Wind Speed: 3.2 m/s")
	assert.Contains(t, out, "scattered clouds")
}

func TestWeatherCallUnknownCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"cod":"404","message":"city not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	weather, err := NewWeather("test-key", WithWeatherBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := weather.Call(context.Background(), "Nowhere")
	require.NoError(t, err, "lookup failures are reported as tool output")
	assert.Contains(t, out, `"Nowhere"`)
	assert.Contains(t, out, "status 404")
}

func TestNewWeatherRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := NewWeather("")
	assert.ErrorContains(t, err, "OPENWEATHER_API_KEY")
}

func TestNewWeatherReadsEnv(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "env-key")

	weather, err := NewWeather("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", weather.APIKey)
}
