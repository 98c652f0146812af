package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/guttosm/vitipulse/internal/domain/models"
)

func TestFetchRange_DownloadsAllPages(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("<html>" + r.URL.RawQuery + "</html>"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	f := New(srv.URL, 100, 2, 5)
	cats := []models.Category{models.CategoryExport, models.CategoryImport}

	if err := f.FetchRange(context.Background(), dir, 2020, 2021, cats, false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hits != 4 {
		t.Fatalf("want 4 requests, got %d", hits)
	}
	for _, name := range []string{"2020_export.html", "2020_import.html", "2021_export.html", "2021_import.html"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestFetchRange_SkipsExistingUnlessForced(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "2020_export.html")
	if err := os.WriteFile(existing, []byte("stale"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	f := New(srv.URL, 100, 1, 5)
	cats := []models.Category{models.CategoryExport}

	if err := f.FetchRange(context.Background(), dir, 2020, 2020, cats, false); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hits != 0 {
		t.Fatalf("existing file should be skipped, got %d requests", hits)
	}

	if err := f.FetchRange(context.Background(), dir, 2020, 2020, cats, true); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if hits != 1 {
		t.Fatalf("force should re-download, got %d requests", hits)
	}
	data, _ := os.ReadFile(existing)
	if string(data) != "fresh" {
		t.Fatalf("force did not overwrite: %q", data)
	}
}

func TestFetchRange_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(srv.URL, 100, 1, 5)
	err := f.FetchRange(context.Background(), t.TempDir(), 2020, 2020, []models.Category{models.CategoryExport}, false)
	if !errors.Is(err, models.ErrSourceUnavailable) {
		t.Fatalf("want ErrSourceUnavailable, got %v", err)
	}
}

func TestFetchRange_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // immediately canceled

	f := New(srv.URL, 100, 1, 5)
	if err := f.FetchRange(ctx, t.TempDir(), 2020, 2020, []models.Category{models.CategoryExport}, false); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNew_Clamps(t *testing.T) {
	f := New("http://example.invalid", -1, 99, 5)
	if f.maxPar != 4 {
		t.Fatalf("parallel clamp: got %d", f.maxPar)
	}
	f = New("http://example.invalid", 0, 0, 5)
	if f.maxPar != 1 {
		t.Fatalf("parallel floor: got %d", f.maxPar)
	}
}
