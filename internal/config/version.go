package config

// Version is the lattice binary version.
// Set at build time via: -ldflags "-X github.com/latticekb/lattice/internal/config.Version=<tag>"
// Defaults to "dev" when built without ldflags.
var Version = "dev"
