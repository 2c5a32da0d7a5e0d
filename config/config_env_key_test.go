package config

import "testing"

func TestCanonicalizeEnvKey_UsesExistingCamelCaseKeys(t *testing.T) {
	existing := map[string]any{
		"isochrone": map[string]any{
			"defaultSpeedKmh": 4.5,
			"bandMinutes":     []any{5, 10, 15, 20},
		},
		"network": map[string]any{
			"segmentsPath": "",
			"walkableOnly": true,
		},
	}

	tests := []struct {
		envKey string
		want   string
	}{
		{envKey: "ISOCHRONE_DEFAULTSPEEDKMH", want: "isochrone.defaultSpeedKmh"},
		{envKey: "ISOCHRONE_BANDMINUTES", want: "isochrone.bandMinutes"},
		{envKey: "NETWORK_SEGMENTSPATH", want: "network.segmentsPath"},
		{envKey: "NETWORK_WALKABLEONLY", want: "network.walkableOnly"},
		{envKey: "NEW_FEATURE_FLAG", want: "new.feature.flag"},
	}

	for _, tt := range tests {
		t.Run(tt.envKey, func(t *testing.T) {
			if got := canonicalizeEnvKey(tt.envKey, existing); got != tt.want {
				t.Fatalf("canonicalizeEnvKey(%q) = %q, want %q", tt.envKey, got, tt.want)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Isochrone.DefaultSpeedKmh != 4.5 {
		t.Fatalf("DefaultSpeedKmh = %v, want 4.5", cfg.Isochrone.DefaultSpeedKmh)
	}
	if cfg.Isochrone.DefaultWalkMinutes != 15 {
		t.Fatalf("DefaultWalkMinutes = %v, want 15", cfg.Isochrone.DefaultWalkMinutes)
	}
	if len(cfg.Isochrone.BandMinutes) != 4 {
		t.Fatalf("BandMinutes = %v, want 4 defaults", cfg.Isochrone.BandMinutes)
	}
}
