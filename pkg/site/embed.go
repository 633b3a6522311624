package site

import (
	"embed"
	"io/fs"
)

//go:embed manifest.yaml
var defaultManifest []byte

//go:embed theme
var embeddedTheme embed.FS

//go:embed partials/*.tpl
var embeddedPartials embed.FS

// DefaultManifestName is how the embedded manifest identifies itself in
// errors and logs.
const DefaultManifestName = "embedded:manifest.yaml"

// DefaultManifest returns the embedded manifest describing the bundled
// landing page.
func DefaultManifest() (Manifest, error) {
	return ParseManifest(defaultManifest, DefaultManifestName)
}

// DefaultManifestBytes returns a copy of the embedded manifest source so
// callers can use it as a starting point.
func DefaultManifestBytes() []byte {
	return append([]byte(nil), defaultManifest...)
}

// ThemeFS exposes the bundled base and section templates.
func ThemeFS() fs.FS {
	sub, err := fs.Sub(embeddedTheme, "theme")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// PartialsFS exposes the bundled list item partials.
func PartialsFS() fs.FS {
	sub, err := fs.Sub(embeddedPartials, "partials")
	if err != nil {
		panic(err)
	}
	return sub
}
