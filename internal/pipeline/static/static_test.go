package static

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
)

func TestExampleConfig(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(ExampleConfig)); err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}
	tests := []struct {
		key  string
		want string
	}{
		{"source.repo", "PathOfBuildingCommunity/PathOfBuilding"},
		{"database.driver", "sqlite"},
		{"download.retries", "3"},
	}
	for _, tt := range tests {
		if got := v.GetString(tt.key); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
}
