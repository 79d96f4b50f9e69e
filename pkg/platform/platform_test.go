package platform

import (
	"testing"

	"github.com/arc-language/venvod/pkg/core"
)

func TestChoosePreferred(t *testing.T) {
	tests := []struct {
		name      string
		available []string
		want      string
	}{
		{"none", nil, ""},
		{"all", []string{BackendVirtualenv, BackendVenv, BackendUV}, BackendUV},
		{"venv over virtualenv", []string{BackendVirtualenv, BackendVenv}, BackendVenv},
		{"virtualenv only", []string{BackendVirtualenv}, BackendVirtualenv},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := choosePreferred(tt.available); got != tt.want {
				t.Errorf("choosePreferred(%v) = %q, want %q", tt.available, got, tt.want)
			}
		})
	}
}

func TestResolveBackend(t *testing.T) {
	p := &Platform{Available: []string{BackendVenv, BackendVirtualenv}, Preferred: BackendVenv}

	tests := []struct {
		name    string
		cfg     *core.Config
		want    string
		wantErr bool
	}{
		{"nil config", nil, BackendVenv, false},
		{"auto", &core.Config{Builder: "auto"}, BackendVenv, false},
		{"explicit", &core.Config{Builder: BackendVirtualenv}, BackendVirtualenv, false},
		{"unavailable", &core.Config{Builder: BackendUV}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBackend(p, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveBackend() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveBackend() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := ResolveBackend(&Platform{}, nil); err == nil {
		t.Error("ResolveBackend() with nothing available should fail")
	}
}
