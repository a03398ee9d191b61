package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GITHUB_API_TOKEN", "secret")

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.Set("data-dir", dir)
	viper.Set("database.driver", "sqlite")

	c, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"data dir", c.DataDir, dir},
		{"manifest", c.Manifest, filepath.Join(dir, "manifest.json")},
		{"output", c.Output, filepath.Join(dir, "lut.json")},
		{"db path", c.Database.Path, filepath.Join(dir, "tjlut.db")},
		{"repo", c.Source.Repo, "PathOfBuildingCommunity/PathOfBuilding"},
		{"token", c.GithubToken, "secret"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if c.Download.Retries != 3 || c.Database.BatchSize != 1000 {
		t.Errorf("defaults = %+v / %+v", c.Download, c.Database)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{DataDir: "/tmp/x"}, false},
		{"memory", Config{DataDir: "/tmp/x", Database: database{Driver: "memory"}}, false},
		{"postgres without dsn", Config{DataDir: "/tmp/x", Database: database{Driver: "postgres"}}, true},
		{"postgres", Config{DataDir: "/tmp/x", Database: database{Driver: "postgres", Path: "host=db"}}, false},
		{"bad driver", Config{DataDir: "/tmp/x", Database: database{Driver: "mysql"}}, true},
		{"negative retries", Config{DataDir: "/tmp/x", Download: download{Retries: -1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.verify(); (err != nil) != tt.wantErr {
				t.Errorf("verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	c := &Config{DataDir: "/data", GithubToken: "secret"}
	if err := c.verify(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "cfg", "config.yaml")
	if err := c.Write(path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	dat, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v\n%s", err, dat)
	}
	if viper.GetString("data-dir") != "/data" || viper.GetString("database.driver") != "none" {
		t.Errorf("written config = %s", dat)
	}
	if viper.IsSet("githubtoken") {
		t.Errorf("written config leaked the token: %s", dat)
	}
}
