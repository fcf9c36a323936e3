package types

import (
	"encoding/json"
	"testing"
)

func TestTrackingRuleUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TrackingRule
		wantErr bool
	}{
		{
			"Percentage rule",
			`{"type":"percentage_below_avg","value":10}`,
			PercentageBelowAvg(10),
			false,
		},
		{
			"Absolute rule",
			`{"type":"below_absolute","currency":"GBP","value":250}`,
			BelowAbsolute(CurrencyGBP, 250),
			false,
		},
		{
			"Percentage rule drops stray currency",
			`{"type":"percentage_below_avg","value":10,"currency":"USD"}`,
			PercentageBelowAvg(10),
			false,
		},
		{
			"Absolute rule without currency rejected",
			`{"type":"below_absolute","value":250}`,
			TrackingRule{},
			true,
		},
		{
			"Unknown type rejected",
			`{"type":"above_absolute","value":1}`,
			TrackingRule{},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rule TrackingRule
			err := json.Unmarshal([]byte(tt.input), &rule)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Unmarshal(%s) expected error, got %+v", tt.input, rule)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) unexpected error: %v", tt.input, err)
			}
			if rule != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.input, rule, tt.want)
			}
		})
	}
}

func TestTrackingRuleRoundTrip(t *testing.T) {
	rules := []TrackingRule{
		PercentageBelowAvg(15),
		BelowAbsolute(CurrencyEUR, 99.99),
	}
	for _, rule := range rules {
		raw, err := json.Marshal(rule)
		if err != nil {
			t.Fatalf("Marshal(%+v): %v", rule, err)
		}
		var decoded TrackingRule
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		if decoded != rule {
			t.Errorf("round trip %+v -> %s -> %+v", rule, raw, decoded)
		}
	}
}

func TestDomainFromURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Plain host", "https://example.com/p/1", "example.com"},
		{"Strips www", "https://www.Amazon.co.uk/dp/x", "amazon.co.uk"},
		{"Empty is manual", "", "manual"},
		{"Garbage is manual", "::not a url::", "manual"},
		{"No host is manual", "/relative/path", "manual"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DomainFromURL(tt.input)
			if result != tt.expected {
				t.Errorf("DomainFromURL(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
