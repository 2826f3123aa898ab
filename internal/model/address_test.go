package model

import "testing"

// TestNormalizeAddress tests canonicalization of host/port input.
func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		rawHost      string
		explicitPort string
		defaultPort  uint16
		want         Address
	}{
		{
			name:        "bare host gets default port",
			rawHost:     "10.0.0.1",
			defaultPort: 51235,
			want:        "10.0.0.1:51235",
		},
		{
			name:        "embedded port wins over default",
			rawHost:     "10.0.0.1:6561",
			defaultPort: 51235,
			want:        "10.0.0.1:6561",
		},
		{
			name:         "explicit port wins over embedded",
			rawHost:      "10.0.0.1:6561",
			explicitPort: "8080",
			defaultPort:  51235,
			want:         "10.0.0.1:8080",
		},
		{
			name:         "explicit port wins over default",
			rawHost:      "10.0.0.1",
			explicitPort: "8080",
			defaultPort:  51235,
			want:         "10.0.0.1:8080",
		},
		{
			name:        "hostname with embedded port",
			rawHost:     "s1.ripple.com:443",
			defaultPort: 51235,
			want:        "s1.ripple.com:443",
		},
		{
			name:        "empty host yields zero address",
			rawHost:     "",
			defaultPort: 51235,
			want:        "",
		},
		{
			name:        "trailing colon uses default port",
			rawHost:     "10.0.0.1:",
			defaultPort: 51235,
			want:        "10.0.0.1:51235",
		},
		{
			// Malformed input is not rejected; it produces an opaque
			// address whose fetch will simply fail.
			name:        "garbage input passes through",
			rawHost:     "not a host:???",
			defaultPort: 51235,
			want:        "not a host:???",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeAddress(tt.rawHost, tt.explicitPort, tt.defaultPort)
			if got != tt.want {
				t.Errorf("NormalizeAddress(%q, %q, %d) = %q, want %q",
					tt.rawHost, tt.explicitPort, tt.defaultPort, got, tt.want)
			}
		})
	}
}

// TestAddressAccessors tests the host/port split helpers.
func TestAddressAccessors(t *testing.T) {
	t.Parallel()

	addr := NormalizeAddress("10.0.0.1", "", 51235)

	if addr.IsZero() {
		t.Fatal("expected non-zero address")
	}
	if got := addr.Host(); got != "10.0.0.1" {
		t.Errorf("Host() = %q, want %q", got, "10.0.0.1")
	}
	if got := addr.Port(); got != "51235" {
		t.Errorf("Port() = %q, want %q", got, "51235")
	}
	if got := addr.String(); got != "10.0.0.1:51235" {
		t.Errorf("String() = %q, want %q", got, "10.0.0.1:51235")
	}

	var zero Address
	if !zero.IsZero() {
		t.Error("expected zero address to report IsZero")
	}
	if got := zero.Port(); got != "" {
		t.Errorf("zero Port() = %q, want empty", got)
	}
}
