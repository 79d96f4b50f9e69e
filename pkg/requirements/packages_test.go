package requirements

import (
	"errors"
	"slices"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		pkgs Packages
		want string
	}{
		{name: "nil", pkgs: nil, want: ""},
		{name: "raw", pkgs: Raw("requests>=2\n# comment"), want: "requests>=2\n# comment"},
		{name: "list", pkgs: List{"IndexedRedis", "redis==4.0.0"}, want: "IndexedRedis\nredis==4.0.0"},
		{name: "empty list", pkgs: List{}, want: ""},
		{name: "mapping", pkgs: Mapping{"redis": "4.0.0", "AdvancedHTMLParser": ""}, want: "AdvancedHTMLParser\nredis==4.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.pkgs)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMappingMissingName(t *testing.T) {
	_, err := Mapping{"": "1.0"}.Requirements()
	if !errors.Is(err, ErrMissingName) {
		t.Fatalf("expected ErrMissingName, got %v", err)
	}
}

func TestNames(t *testing.T) {
	text := "requests>=2.0\n\n# pinned\nPyYAML==6.0\n-r other.txt\nuvicorn[standard]\nfoo ; python_version < '3.8'\nbar"
	want := []string{"requests", "PyYAML", "uvicorn", "foo", "bar"}
	if got := Names(text); !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
