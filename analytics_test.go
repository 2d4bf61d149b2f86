package main

import "testing"

func TestBuildTrackEvent(t *testing.T) {
	cases := []struct {
		name    string
		req     trackRequest
		wantErr bool
	}{
		{
			name: "page view with data payload",
			req: trackRequest{
				Domain:    "demo-studio.example.com",
				EventType: "page_view",
				Data:      trackLookup{"pagePath": "/schedule", "referer": "https://google.com"},
			},
		},
		{
			name: "interaction without data",
			req:  trackRequest{Domain: "demo-studio.example.com", EventType: "booking_started"},
		},
		{
			name:    "missing domain",
			req:     trackRequest{EventType: "page_view"},
			wantErr: true,
		},
		{
			name:    "missing event type",
			req:     trackRequest{Domain: "demo-studio.example.com"},
			wantErr: true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			event, err := buildTrackEvent(c.req)
			if c.wantErr {
				if err == nil {
					t.Fatal("expected a validation error")
				}
				if err.Error() != "Domain and eventType are required" {
					t.Errorf("unexpected error message %q", err.Error())
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if event.EventType != c.req.EventType {
				t.Errorf("event type = %q, want %q", event.EventType, c.req.EventType)
			}
			if want := c.req.Data.str("pagePath"); event.PagePath != want {
				t.Errorf("page path = %q, want %q", event.PagePath, want)
			}
			if want := c.req.Data.str("referer"); event.Referer != want {
				t.Errorf("referer = %q, want %q", event.Referer, want)
			}
		})
	}
}

func TestTrackLookupStr(t *testing.T) {
	d := trackLookup{"pagePath": "/schedule", "count": 3}
	if got := d.str("pagePath"); got != "/schedule" {
		t.Errorf("str(pagePath) = %q", got)
	}
	// Non-string and absent values both read as empty.
	if got := d.str("count"); got != "" {
		t.Errorf("str(count) = %q, want empty", got)
	}
	if got := d.str("missing"); got != "" {
		t.Errorf("str(missing) = %q, want empty", got)
	}
}
