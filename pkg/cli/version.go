package cli

// Version is the running release. Overridden at build time with
// -ldflags "-X github.com/Fepozopo/imgarith/pkg/cli.Version=x.y.z".
var Version = "0.1.0"
