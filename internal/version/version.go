package version

// Version is the bitinsight release. It is set at build time with
// -ldflags "-X github.com/KryptoMuratLive/bit-insight-sub000/internal/version.Version=1.2.3".
var Version = "main"

// GetVersion returns the release, or "main" for a development build.
func GetVersion() string {
	return Version
}
