package utils

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	ua "github.com/mileusna/useragent"
)

type geoIPResponse struct {
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
}

var geoClient = &http.Client{Timeout: 3 * time.Second}

// ParseUserAgent extracts browser, OS and device type from a User-Agent string.
func ParseUserAgent(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "Unknown Browser", "Unknown OS", "Desktop"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}

	os = parsed.OS
	if os == "" {
		os = "Unknown OS"
	}

	device = "Desktop"
	switch {
	case parsed.Mobile && strings.Contains(userAgent, "iPhone"):
		device = "iPhone"
	case parsed.Mobile:
		device = "Mobile"
	case parsed.Tablet:
		device = "Tablet"
	}

	return strings.TrimSpace(browser), strings.TrimSpace(os), device
}

// GetLocationFromIP resolves a rough location for an IP address. Lookups are
// best effort; failures fall back to a placeholder rather than an error so
// session creation never blocks on geolocation.
func GetLocationFromIP(ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "Unknown Location", nil
	}
	if parsed.IsLoopback() || parsed.IsPrivate() {
		return "Local Network", nil
	}

	resp, err := geoClient.Get(fmt.Sprintf("https://ipapi.co/%s/json/", ip))
	if err != nil {
		return "Unknown Location", nil
	}
	defer resp.Body.Close()

	var geo geoIPResponse
	if err := json.NewDecoder(resp.Body).Decode(&geo); err != nil {
		return "Unknown Location", nil
	}

	switch {
	case geo.City != "" && geo.Country != "":
		return fmt.Sprintf("%s, %s", geo.City, geo.Country), nil
	case geo.Country != "":
		return geo.Country, nil
	default:
		return "Unknown Location", nil
	}
}

// GenerateSessionName builds a display name like "Firefox on Linux (Berlin, DE)".
func GenerateSessionName(userAgent string, location string) string {
	browser, os, _ := ParseUserAgent(userAgent)

	name := fmt.Sprintf("%s on %s", browser, os)
	if location == "" {
		location = "Unknown Location"
	}
	return fmt.Sprintf("%s (%s)", name, location)
}
