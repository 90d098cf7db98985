package gatehouse

import (
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/core"
	"github.com/gatehouse/gatehouse/db/mock"
)

func newTestApp(t *testing.T) (*core.App, *config.Config) {
	t.Helper()

	cfg := config.NewDefaultConfig()
	app, err := core.NewApp(
		core.WithConfigProvider(config.NewProvider(cfg)),
		core.WithDbApp(&mock.Db{}),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRouterServeMux(),
	)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app, cfg
}

func TestRouteRegistersEndpoints(t *testing.T) {
	app, cfg := newTestApp(t)

	if err := route(cfg, app); err != nil {
		t.Fatalf("route failed: %v", err)
	}

	// Status works without a session and proves dispatch through the
	// configured endpoint table.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/status", nil)
	rr := httptest.NewRecorder()
	app.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status endpoint returned %d, want %d", rr.Code, http.StatusOK)
	}
	var body struct {
		Code string `json:"code"`
		Data struct {
			Authenticated bool `json:"authenticated"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != core.CodeOkAuthStatus {
		t.Errorf("code = %q, want %q", body.Code, core.CodeOkAuthStatus)
	}
	if body.Data.Authenticated {
		t.Error("anonymous request reported as authenticated")
	}

	// Wrong content type on a JSON endpoint is rejected before any
	// handler logic runs.
	req = httptest.NewRequest(http.MethodPost, "/api/auth/register", nil)
	req.Header.Set("Content-Type", "text/plain")
	rr = httptest.NewRecorder()
	app.Router().ServeHTTP(rr, req)

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("register with text/plain returned %d, want %d", rr.Code, http.StatusUnsupportedMediaType)
	}
}

func TestFrontendAssetsPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>dev</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index: %v", err)
	}

	assets, err := frontendAssets(dir)
	if err != nil {
		t.Fatalf("frontendAssets failed: %v", err)
	}
	data, err := fs.ReadFile(assets, "index.html")
	if err != nil {
		t.Fatalf("failed to read index.html: %v", err)
	}
	if string(data) != "<html>dev</html>" {
		t.Errorf("got %q, want the on-disk copy", data)
	}
}

func TestFrontendAssetsFallsBackToEmbedded(t *testing.T) {
	assets, err := frontendAssets(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("frontendAssets failed: %v", err)
	}
	if _, err := fs.Stat(assets, "index.html"); err != nil {
		t.Errorf("embedded assets missing index.html: %v", err)
	}
	if _, err := fs.Stat(assets, "js/gatehouse.min.js"); err != nil {
		t.Errorf("embedded assets missing frontend script: %v", err)
	}
}
