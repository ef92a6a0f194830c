package common

// Version is set at build time via -ldflags.
var Version = "dev"

// PackageName identifies this module in logs and metrics.
const PackageName = "objstore-encryption"
