package gatehouse

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/core"
)

// route binds the configured endpoints to their handlers and mounts the
// embedded frontend at the root.
func route(cfg *config.Config, app *core.App) error {
	r := app.Router()

	r.HandleFunc(cfg.Endpoints.Register, app.RegisterWithPasswordHandler)
	r.HandleFunc(cfg.Endpoints.Verify, app.VerifyEmailHandler)
	r.HandleFunc(cfg.Endpoints.ResendVerification, app.ResendVerificationHandler)
	r.HandleFunc(cfg.Endpoints.Login, app.AuthWithPasswordHandler)
	r.HandleFunc(cfg.Endpoints.Logout, app.LogoutHandler)
	r.HandleFunc(cfg.Endpoints.Status, app.StatusHandler)
	r.HandleFunc(cfg.Endpoints.AuthWithOAuth2, app.AuthWithOAuth2Handler)
	r.HandleFunc(cfg.Endpoints.ListOAuth2Providers, app.ListOAuth2ProvidersHandler)

	assets, err := frontendAssets(cfg.PublicDir)
	if err != nil {
		return err
	}
	r.Handle("/", core.StaticHandler(assets))

	return nil
}

// frontendAssets prefers built assets on disk over the embedded copy,
// so frontend edits show up without rebuilding the binary.
func frontendAssets(publicDir string) (fs.FS, error) {
	if st, err := os.Stat(publicDir); err == nil && st.IsDir() {
		return os.DirFS(publicDir), nil
	}

	assets, err := fs.Sub(EmbeddedAssets, "public/dist")
	if err != nil {
		return nil, fmt.Errorf("failed to mount embedded assets: %w", err)
	}
	return assets, nil
}
