package schema

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*
var embeddedDefaults embed.FS

// DefaultsFS returns the bundled default onboarding documents. Pass it to
// LoadFS when the host does not supply its own schema.
func DefaultsFS() fs.FS {
	sub, err := fs.Sub(embeddedDefaults, "defaults")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

// DefaultOnboarding parses the embedded tenant onboarding flow.
func DefaultOnboarding() (Document, error) {
	return LoadFS(DefaultsFS(), "onboarding.yaml")
}
