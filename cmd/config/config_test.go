package config

import (
	"testing"

	"github.com/klytics/bidkit/internal/config"
)

func TestEveryKeyIsDescribed(t *testing.T) {
	for k := range config.Defaults {
		if descriptions[k] == "" {
			t.Errorf("key %q has no description", k)
		}
	}
	for k := range descriptions {
		if _, ok := config.Defaults[k]; !ok {
			t.Errorf("description for unknown key %q", k)
		}
	}
}

func TestCheckKey(t *testing.T) {
	if err := checkKey("rates.vat"); err != nil {
		t.Errorf("rates.vat: %v", err)
	}
	if err := checkKey("rates.vta"); err == nil {
		t.Error("expected an error for an unknown key")
	}
}

func TestCompleteKeys(t *testing.T) {
	got, _ := completeKeys(nil, nil, "")
	if len(got) != len(config.Defaults) {
		t.Errorf("got %d completions, want %d", len(got), len(config.Defaults))
	}
	if more, _ := completeKeys(nil, []string{"bidder"}, ""); len(more) != 0 {
		t.Errorf("value position should not complete keys, got %v", more)
	}
}
