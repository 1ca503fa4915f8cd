package romm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/romdeck/romdeck/internal/domain"
	"github.com/romdeck/romdeck/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-token", log.NullLogger())
}

func TestGetPlatforms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/platforms" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`[{"id":1,"slug":"snes","name":"SNES","rom_count":120}]`))
	})

	platforms, err := client.GetPlatforms(context.Background())
	if err != nil {
		t.Fatalf("GetPlatforms: %v", err)
	}
	if len(platforms) != 1 || platforms[0].Slug != "snes" || platforms[0].RomCount != 120 {
		t.Fatalf("platforms = %+v", platforms)
	}
}

func TestGetRomsCursorHandling(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("platform_id") != "3" {
			t.Errorf("platform_id = %q", q.Get("platform_id"))
		}
		switch q.Get("cursor") {
		case "":
			w.Write([]byte(`{"items":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"next_page":"tok2"}`))
		case "tok2":
			w.Write([]byte(`{"items":[{"id":3,"name":"C"}]}`))
		default:
			t.Errorf("unexpected cursor %q", q.Get("cursor"))
		}
	})

	page, err := client.GetRoms(context.Background(), 3, "", "", 72)
	if err != nil {
		t.Fatalf("GetRoms: %v", err)
	}
	if len(page.Roms) != 2 {
		t.Fatalf("first page has %d roms", len(page.Roms))
	}
	if page.NextCursor != domain.Cursor("tok2") {
		t.Fatalf("NextCursor = %q", page.NextCursor)
	}

	// Absent next_page marks the traversal exhausted.
	page, err = client.GetRoms(context.Background(), 3, page.NextCursor, "", 72)
	if err != nil {
		t.Fatalf("GetRoms(tok2): %v", err)
	}
	if !page.NextCursor.Exhausted() {
		t.Fatalf("NextCursor = %q, want done", page.NextCursor)
	}
}

func TestGetRomsSearchTerm(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_term"); got != "mario" {
			t.Errorf("search_term = %q", got)
		}
		w.Write([]byte(`{"items":[]}`))
	})

	if _, err := client.GetRoms(context.Background(), 1, "", "mario", 10); err != nil {
		t.Fatalf("GetRoms: %v", err)
	}
}

func TestErrorDetailExtraction(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"invalid cursor token"}`))
	})

	_, err := client.GetRoms(context.Background(), 1, "", "", 10)
	if err == nil {
		t.Fatalf("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Error() != "invalid cursor token" {
		t.Fatalf("Error() = %q, want the server detail", apiErr.Error())
	}
}

func TestErrorFallsBackToStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	})

	_, err := client.GetPlatforms(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *APIError", err)
	}
	if apiErr.Detail != "" {
		t.Fatalf("Detail = %q, want empty", apiErr.Detail)
	}
	if apiErr.Error() == "" || apiErr.Error() == "unable to fetch data from the server" {
		t.Fatalf("Error() = %q, want status text", apiErr.Error())
	}
}

func TestAuthFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetPlatforms(context.Background())
	if !errors.Is(err, domain.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
}

func TestNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetRom(context.Background(), 99)
	if !errors.Is(err, domain.ErrItemNotFound) {
		t.Fatalf("err = %v, want ErrItemNotFound", err)
	}
}

func TestServerOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // kill it so the dial fails

	client := NewClient(srv.URL, "", log.NullLogger())
	_, err := client.GetPlatforms(context.Background())
	if !errors.Is(err, domain.ErrServerOffline) {
		t.Fatalf("err = %v, want ErrServerOffline", err)
	}
}

func TestUploadAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/saves" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("rom_id"); got != "42" {
			t.Errorf("rom_id = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart: %v", err)
		}
		if _, ok := r.MultipartForm.File["saves"]; !ok {
			t.Errorf("missing saves field, got %v", r.MultipartForm.File)
		}
		w.Write([]byte(`[{"id":5,"rom_id":42,"file_name":"chrono.srm","download_path":"/assets/5"}]`))
	})

	batch, err := client.UploadAsset(context.Background(), domain.AssetSave, 42, "chrono.srm", []byte("data"))
	if err != nil {
		t.Fatalf("UploadAsset: %v", err)
	}
	if len(batch) != 1 || batch[0].ID != 5 {
		t.Fatalf("batch = %+v", batch)
	}
}

func TestUpdateAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/states/9" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"id":9,"rom_id":42,"file_name":"chrono.state.auto","download_path":"/assets/9","screenshot_id":3}`))
	})

	asset := domain.Asset{ID: 9, FileName: "chrono.state.auto"}
	updated, err := client.UpdateAsset(context.Background(), domain.AssetState, asset, []byte("data"))
	if err != nil {
		t.Fatalf("UpdateAsset: %v", err)
	}
	if updated.ScreenshotID != 3 {
		t.Fatalf("updated = %+v", updated)
	}
}

func TestDownloadAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/assets/7" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte("binary-content"))
	})

	data, err := client.DownloadAsset(context.Background(), "/assets/7")
	if err != nil {
		t.Fatalf("DownloadAsset: %v", err)
	}
	if string(data) != "binary-content" {
		t.Fatalf("data = %q", data)
	}
}

func TestDeleteRoms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/roms/delete" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{}`))
	})

	if err := client.DeleteRoms(context.Background(), []int{1, 2}, false); err != nil {
		t.Fatalf("DeleteRoms: %v", err)
	}
}

func TestMapRomAssets(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":1,"name":"Chrono Trigger","file_name":"chrono.sfc",
			"user_saves":[{"id":10,"file_name":"chrono.srm"}],
			"user_states":[{"id":11,"file_name":"chrono.state.auto"}]}`))
	})

	rom, err := client.GetRom(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetRom: %v", err)
	}
	if len(rom.Saves) != 1 || rom.Saves[0].ID != 10 {
		t.Fatalf("Saves = %+v", rom.Saves)
	}
	if len(rom.States) != 1 || rom.States[0].ID != 11 {
		t.Fatalf("States = %+v", rom.States)
	}
}
