package cli

// Version is overridden at build time via
// -ldflags "-X github.com/promptkeeper/promptkeeper/internal/cli.Version=...".
var Version = "dev"
