package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// IPLocation is the subset of ip-api.com's response we keep.
type IPLocation struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
}

var geoHTTPClient = &http.Client{Timeout: 2 * time.Second}

func geoEndpoint() string {
	if base := strings.TrimSpace(os.Getenv("GEOIP_ENDPOINT")); base != "" {
		return strings.TrimRight(base, "/")
	}
	return "http://ip-api.com/json"
}

func isPrivateIP(ip string) bool {
	return ip == "" || ip == "unknown" ||
		strings.HasPrefix(ip, "127.") ||
		strings.HasPrefix(ip, "192.168.") ||
		strings.HasPrefix(ip, "10.") ||
		strings.HasPrefix(ip, "172.") ||
		ip == "::1"
}

// LookupIPLocation resolves a country for a public IP. Callers treat failures
// as best-effort and continue without a location.
func LookupIPLocation(ctx context.Context, ip string) (*IPLocation, error) {
	if isPrivateIP(ip) {
		return nil, errors.New("ip is private or unknown")
	}

	url := fmt.Sprintf("%s/%s?fields=status,country,countryCode", geoEndpoint(), ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := geoHTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo lookup returned %d", resp.StatusCode)
	}

	var body struct {
		Status      string `json:"status"`
		Country     string `json:"country"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status != "success" || body.Country == "" {
		return nil, errors.New("geo lookup failed")
	}
	return &IPLocation{Country: body.Country, CountryCode: body.CountryCode}, nil
}
