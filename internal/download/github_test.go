package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

const commitsJSON = `[{
	"sha": "0123abcd",
	"html_url": "https://github.com/o/r/commit/0123abcd",
	"commit": {
		"message": "Update timeless jewel data\n\nfor 3.25",
		"author": {"name": "dev", "email": "dev@example.com", "date": "2025-01-02T03:04:05Z"}
	}
}]`

func newTestGitHub(t *testing.T, handler http.HandlerFunc, token string) *GitHub {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGitHub(&GitHubConfig{
		Token:      token,
		APIURL:     srv.URL,
		GraphQLURL: srv.URL + "/graphql",
	})
}

func TestLatestCommit(t *testing.T) {
	var hits atomic.Int32
	gh := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/repos/o/r/commits" || r.URL.Query().Get("path") != "src/Data" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, commitsJSON)
	}, "")

	c, err := gh.LatestCommit(context.Background(), "o/r", "src/Data")
	if err != nil {
		t.Fatalf("LatestCommit() error = %v", err)
	}
	if c.SHA != "0123abcd" || c.Author != "dev" || c.Date.Year() != 2025 {
		t.Errorf("LatestCommit() = %+v", c)
	}
	if c.Headline() != "Update timeless jewel data" {
		t.Errorf("Headline() = %q", c.Headline())
	}

	if _, err := gh.LatestCommit(context.Background(), "o/r", "src/Data"); err != nil {
		t.Fatal(err)
	}
	if hits.Load() != 1 {
		t.Errorf("LatestCommit() hit the api %d times, want 1 (cached)", hits.Load())
	}
}

func TestLatestCommitErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty", http.StatusOK, `[]`, ErrNoCommits},
		{"rate limited", http.StatusForbidden, `{}`, nil},
		{"bad json", http.StatusOK, `{`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gh := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}, "")
			_, err := gh.LatestCommit(context.Background(), "o/r", "p")
			if err == nil {
				t.Fatal("LatestCommit() error = nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("LatestCommit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFileInfo(t *testing.T) {
	gh := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/repos/o/r/contents/data/LethalPride.zip" || r.URL.Query().Get("ref") != "master" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"name":"LethalPride.zip","path":"data/LethalPride.zip","sha":"feed","size":1234,"download_url":"https://raw/LethalPride.zip"}`)
	}, "secret")

	info, err := gh.FileInfo(context.Background(), "o/r", "data/LethalPride.zip", "master")
	if err != nil {
		t.Fatalf("FileInfo() error = %v", err)
	}
	if info.SHA != "feed" || info.Size != 1234 || info.DownloadURL == "" {
		t.Errorf("FileInfo() = %+v", info)
	}
}

func TestLatestCommitGraphQL(t *testing.T) {
	gh := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/graphql" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"repository":{"ref":{"target":{"history":{"nodes":[
			{"oid":"beef","message":"bump data","committedDate":"2025-03-04T05:06:07Z","author":{"name":"dev","email":"dev@example.com"}}
		]}}}}}}`)
	}, "secret")

	c, err := gh.LatestCommitGraphQL(context.Background(), "o/r", "master", "data")
	if err != nil {
		t.Fatalf("LatestCommitGraphQL() error = %v", err)
	}
	if c.SHA != "beef" || c.Message != "bump data" || c.Date.Month() != 3 {
		t.Errorf("LatestCommitGraphQL() = %+v", c)
	}

	if _, err := NewGitHub(nil).LatestCommitGraphQL(context.Background(), "o/r", "master", "data"); err == nil {
		t.Error("LatestCommitGraphQL() without a token error = nil")
	}
	if _, err := gh.LatestCommitGraphQL(context.Background(), "no-slash", "master", "data"); err == nil || !strings.Contains(err.Error(), "owner/name") {
		t.Errorf("LatestCommitGraphQL(no-slash) error = %v", err)
	}
}

func TestLatestFallsBackToREST(t *testing.T) {
	gh := newTestGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/graphql" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, commitsJSON)
	}, "secret")

	c, err := gh.Latest(context.Background(), "o/r", "master", "data")
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if c.SHA != "0123abcd" {
		t.Errorf("Latest() = %+v, want REST commit", c)
	}
}
