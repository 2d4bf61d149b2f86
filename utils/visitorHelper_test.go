package utils

import (
	"testing"
	"time"
)

func TestClassifyTrafficSource(t *testing.T) {
	cases := []struct {
		name     string
		referer  string
		host     string
		expected string
	}{
		{"search engine", "https://www.google.com/search", "acme.com", TrafficSourceSearch},
		{"bing", "https://www.bing.com/search?q=acme", "acme.com", TrafficSourceSearch},
		{"same domain", "https://acme.com/page", "acme.com", TrafficSourceDirect},
		{"www variant", "https://www.acme.com/page", "acme.com", TrafficSourceDirect},
		{"subdomain", "https://blog.acme.com/post", "acme.com", TrafficSourceDirect},
		{"no referer", "", "acme.com", TrafficSourceDirect},
		{"invalid referer", "://not-a-url", "acme.com", TrafficSourceDirect},
		{"social", "https://www.facebook.com/share", "acme.com", TrafficSourceSocial},
		{"x.com", "https://x.com/status/1", "acme.com", TrafficSourceSocial},
		{"external site", "https://partnersite.io", "acme.com", TrafficSourceReferral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyTrafficSource(tc.referer, tc.host)
			if got != tc.expected {
				t.Errorf("referer=%q host=%q: expected %s, got %s", tc.referer, tc.host, tc.expected, got)
			}
		})
	}
}

func TestClassifyDeviceType(t *testing.T) {
	cases := []struct {
		name     string
		ua       string
		expected string
	}{
		{"empty", "", DeviceTypeDesktop},
		{"desktop chrome", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0", DeviceTypeDesktop},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X)", DeviceTypeTablet},
		{"android tablet", "Mozilla/5.0 (Linux; Android 13; SM-X700) Safari/537.36", DeviceTypeTablet},
		{"android phone", "Mozilla/5.0 (Linux; Android 13; Pixel 7) Mobile Safari/537.36", DeviceTypeMobile},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X)", DeviceTypeMobile},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyDeviceType(tc.ua)
			if got != tc.expected {
				t.Errorf("ua=%q: expected %s, got %s", tc.ua, tc.expected, got)
			}
		})
	}
}

func TestVisitorFingerprint(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	a := VisitorFingerprint("203.0.113.9", "Mozilla/5.0", now)
	b := VisitorFingerprint("203.0.113.9", "Mozilla/5.0", now.Add(time.Hour))
	if a != b {
		t.Errorf("fingerprint with IP must not depend on time: %s != %s", a, b)
	}
	if a == "" {
		t.Fatal("fingerprint must not be empty")
	}
	for _, r := range a {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'z') {
			t.Errorf("fingerprint %q is not base-36", a)
		}
	}

	c := VisitorFingerprint("203.0.113.10", "Mozilla/5.0", now)
	if a == c {
		t.Error("different IPs should produce different fingerprints")
	}

	// Without an IP the key is truncated to second resolution: views in the
	// same second collapse, views a second apart do not have to.
	d1 := VisitorFingerprint("unknown", "Mozilla/5.0", now.Add(100*time.Millisecond))
	d2 := VisitorFingerprint("", "Mozilla/5.0", now.Add(900*time.Millisecond))
	if d1 != d2 {
		t.Errorf("same-second fallback fingerprints differ: %s != %s", d1, d2)
	}
}
