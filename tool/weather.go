package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
)

// Weather is a tool that queries current conditions via the OpenWeather API.
type Weather struct {
	APIKey  string
	BaseURL string
	Units   string
	Lang    string

	client *http.Client
}

type WeatherOption func(*Weather)

// WithWeatherBaseURL sets the base URL for the OpenWeather API.
func WithWeatherBaseURL(baseURL string) WeatherOption {
	return func(w *Weather) {
		w.BaseURL = baseURL
	}
}

// WithWeatherUnits sets the unit system ("metric" or "imperial").
func WithWeatherUnits(units string) WeatherOption {
	return func(w *Weather) {
		w.Units = units
	}
}

// WithWeatherLang sets the language of the condition description.
func WithWeatherLang(lang string) WeatherOption {
	return func(w *Weather) {
		w.Lang = lang
	}
}

// WithWeatherHTTPClient sets a custom HTTP client.
func WithWeatherHTTPClient(client *http.Client) WeatherOption {
	return func(w *Weather) {
		w.client = client
	}
}

// NewWeather creates a new Weather tool.
// If apiKey is empty, it tries to read from OPENWEATHER_API_KEY.
func NewWeather(apiKey string, opts ...WeatherOption) (*Weather, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENWEATHER_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY not set")
	}

	w := &Weather{
		APIKey:  apiKey,
		BaseURL: "https://api.openweathermap.org/data/2.5/weather",
		Units:   "metric",
		Lang:    "en",
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Name returns the name of the tool.
func (w *Weather) Name() string {
	return "query_weather"
}

// Description returns the description of the tool.
func (w *Weather) Description() string {
	return "Query current weather for a city: temperature, humidity, wind speed and conditions. " +
		"Input should be the city name in English, e.g. \"Taipei\" or \"New York\"."
}

type weatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
}

// Call executes the weather lookup.
func (w *Weather) Call(ctx context.Context, input string) (string, error) {
	params := url.Values{}
	params.Set("q", input)
	params.Set("appid", w.APIKey)
	params.Set("units", w.Units)
	params.Set("lang", w.Lang)

	reqURL := fmt.Sprintf("%s?%s", w.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Lookup failures (unknown city, bad key) come back as readable
	// output so the model can relay them instead of aborting the turn.
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("Could not retrieve weather for %q: the weather service returned status %d.", input, resp.StatusCode), nil
	}

	var data weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	description := "Unknown"
	if len(data.Weather) > 0 {
		description = data.Weather[0].Description
	}

	return fmt.Sprintf(
		"🌍 %s, %s\n🌡 Temperature: %.1f°C\n💧 Humidity: %d%%\n🌬 Wind Speed: %.1f m/s\n🌤 Weather: %s\n",
		data.Name, data.Sys.Country, data.Main.Temp, data.Main.Humidity, data.Wind.Speed, description,
	), nil
}
