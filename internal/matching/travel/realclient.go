package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/andreypavlenko/jobmatch/internal/matching/canonical"
)

// RealClient calls the external routing API's Directions-shaped contract
// (§6.3) directly over net/http. The provider carries no generated SDK: the
// query/response shape is small and fixed, and a generated client surface
// can't be verified without running the Go toolchain.
type RealClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewRealClient constructs a RealClient with the given hard per-call
// timeout (default 5s per §4.2).
func NewRealClient(baseURL, apiKey string, timeout time.Duration) *RealClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &RealClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		apiKey:     apiKey,
	}
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			StartAddress string `json:"start_address"`
			EndAddress   string `json:"end_address"`
			Steps        []struct {
				TravelMode     string `json:"travel_mode"`
				TransitDetails struct {
					Line struct {
						ShortName string `json:"short_name"`
						Vehicle   struct {
							Type string `json:"type"`
						} `json:"vehicle"`
					} `json:"line"`
				} `json:"transit_details"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

// Resolve implements Client. A non-OK status or network/timeout error is a
// soft failure: it returns (Unreachable result, error) so the hybrid path
// can fall back; it never panics or blocks past the configured timeout.
func (c *RealClient) Resolve(ctx context.Context, q canonical.TravelQuery) (canonical.TravelResult, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return canonical.TravelResult{Unreachable: true}, fmt.Errorf("routing API not configured")
	}

	reqURL := c.buildURL(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return canonical.TravelResult{Unreachable: true}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return canonical.TravelResult{Unreachable: true}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return canonical.TravelResult{Unreachable: true}, fmt.Errorf("routing API returned status %d", resp.StatusCode)
	}

	var parsed directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return canonical.TravelResult{Unreachable: true}, err
	}
	if parsed.Status != "OK" || len(parsed.Routes) == 0 || len(parsed.Routes[0].Legs) == 0 {
		return canonical.TravelResult{Unreachable: true}, fmt.Errorf("routing API non-OK status: %s", parsed.Status)
	}

	leg := parsed.Routes[0].Legs[0]
	result := canonical.TravelResult{
		DurationMinutes: float64(leg.Duration.Value) / 60.0,
		DistanceKM:      float64(leg.Distance.Value) / 1000.0,
		Mode:            q.Mode,
		TextualSummary:  fmt.Sprintf("%s → %s", leg.StartAddress, leg.EndAddress),
	}

	if q.Mode == canonical.ModeTransit {
		for _, step := range leg.Steps {
			if step.TravelMode == "TRANSIT" {
				result.TransitLegs = append(result.TransitLegs, canonical.TravelLeg{
					LineShortName: step.TransitDetails.Line.ShortName,
					VehicleType:   step.TransitDetails.Line.Vehicle.Type,
				})
			}
		}
	}

	return result, nil
}

func (c *RealClient) buildURL(q canonical.TravelQuery) string {
	v := url.Values{}
	v.Set("origin", q.Origin)
	v.Set("destination", q.Destination)
	v.Set("mode", string(q.Mode))
	v.Set("key", c.apiKey)
	v.Set("language", "fr")
	v.Set("region", "FR")
	if q.DepartureLocal != "" {
		v.Set("departure_time", q.DepartureLocal)
	}
	return fmt.Sprintf("%s/directions?%s", c.baseURL, v.Encode())
}
