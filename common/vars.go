package common

// Version is the build version, set with
// -ldflags "-X github.com/ruteri/pv-attest-crypto/common.Version=..."
var Version = "dev"
