package services

import "testing"

func TestExtractLooseJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantOK  bool
		wantKey string
	}{
		{
			name:    "bare object",
			in:      `{"is_complete": true}`,
			wantOK:  true,
			wantKey: "is_complete",
		},
		{
			name:    "object wrapped in prose",
			in:      "Sure, here you go:\n{\"message\": \"done\"}\nLet me know!",
			wantOK:  true,
			wantKey: "message",
		},
		{
			name:   "no object at all",
			in:     "just a friendly sentence",
			wantOK: false,
		},
		{
			name:   "braces but invalid json",
			in:     "{not json}",
			wantOK: false,
		},
		{
			name:   "closing brace before opening",
			in:     "} {",
			wantOK: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := ExtractLooseJSON(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if tt.wantOK {
				if _, present := doc[tt.wantKey]; !present {
					t.Fatalf("expected key %q in %v", tt.wantKey, doc)
				}
			}
		})
	}
}

func TestIsRetryableHTTP(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503} {
		if !isRetryableHTTP(code) {
			t.Fatalf("status %d should be retryable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 404, 422} {
		if isRetryableHTTP(code) {
			t.Fatalf("status %d should not be retryable", code)
		}
	}
}
