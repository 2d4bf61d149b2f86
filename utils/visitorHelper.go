package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"
)

// Traffic source buckets for analytics ingestion.
const (
	TrafficSourceDirect   = "Direct"
	TrafficSourceSearch   = "Search"
	TrafficSourceSocial   = "Social Media"
	TrafficSourceReferral = "Referral"
)

const (
	DeviceTypeDesktop = "Desktop"
	DeviceTypeMobile  = "Mobile"
	DeviceTypeTablet  = "Tablet"
)

var searchEngineHosts = []string{"google", "bing", "yahoo", "duckduckgo"}

var socialHosts = []string{
	"facebook", "twitter", "x.com", "linkedin",
	"instagram", "tiktok", "pinterest", "reddit",
}

// ClassifyTrafficSource buckets a request by its referrer hostname.
// Same-domain referrers (including www. and subdomain variants) are internal
// navigation and stay Direct; a missing or unparseable referrer is Direct.
func ClassifyTrafficSource(referer string, currentHost string) string {
	referer = strings.TrimSpace(referer)
	if referer == "" {
		return TrafficSourceDirect
	}

	refererURL, err := url.Parse(referer)
	if err != nil || refererURL.Hostname() == "" {
		return TrafficSourceDirect
	}

	refererHost := strings.ToLower(refererURL.Hostname())
	currentHost = strings.ToLower(strings.TrimSpace(currentHost))

	if isSameDomain(refererHost, currentHost) {
		return TrafficSourceDirect
	}
	for _, h := range searchEngineHosts {
		if strings.Contains(refererHost, h) {
			return TrafficSourceSearch
		}
	}
	for _, h := range socialHosts {
		if strings.Contains(refererHost, h) {
			return TrafficSourceSocial
		}
	}
	return TrafficSourceReferral
}

func isSameDomain(refererHost, currentHost string) bool {
	if currentHost == "" {
		return false
	}
	return refererHost == currentHost ||
		refererHost == "www."+currentHost ||
		currentHost == "www."+refererHost ||
		strings.HasSuffix(refererHost, "."+currentHost) ||
		strings.HasSuffix(currentHost, "."+refererHost)
}

var tabletMarkers = []string{"tablet", "ipad", "playbook", "silk"}

var mobileMarkers = []string{
	"mobile", "android", "iphone", "ipod", "iemobile", "blackberry",
	"kindle", "silk-accelerated", "hpwos", "webos", "opera mobi", "opera mini",
}

// ClassifyDeviceType derives a coarse device class from the user agent.
// Android without a mobile marker is a tablet.
func ClassifyDeviceType(userAgent string) string {
	ua := strings.ToLower(strings.TrimSpace(userAgent))
	if ua == "" {
		return DeviceTypeDesktop
	}
	for _, m := range tabletMarkers {
		if strings.Contains(ua, m) {
			return DeviceTypeTablet
		}
	}
	if strings.Contains(ua, "android") && !strings.Contains(ua, "mobi") {
		return DeviceTypeTablet
	}
	for _, m := range mobileMarkers {
		if strings.Contains(ua, m) {
			return DeviceTypeMobile
		}
	}
	return DeviceTypeDesktop
}

// VisitorFingerprint is a non-cryptographic visitor key: order-dependent
// 32-bit string hash of "ip-userAgent", base-36 encoded. When the IP is
// unknown it falls back to the user agent plus the request timestamp
// truncated to seconds, so repeat views inside the same second still
// collapse to one visitor.
func VisitorFingerprint(ip string, userAgent string, now time.Time) string {
	if userAgent == "" {
		userAgent = "unknown"
	}

	var fingerprint string
	if ip != "" && ip != "unknown" {
		fingerprint = ip + "-" + userAgent
	} else {
		millis := strconv.FormatInt(now.UnixMilli(), 10)
		if len(millis) > 3 {
			millis = millis[:len(millis)-3]
		}
		fingerprint = userAgent + "-" + millis
	}

	var hash int32
	for _, c := range utf16.Encode([]rune(fingerprint)) {
		hash = (hash << 5) - hash + int32(c)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return strconv.FormatInt(abs, 36)
}
