//go:generate go run scripts/gogenerate-assets.go

package gatehouse

import "embed"

// EmbeddedAssets holds the built frontend. Regenerate with go generate
// after changing anything under public/src.
//
//go:embed public/dist
var EmbeddedAssets embed.FS
