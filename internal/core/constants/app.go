package constants

// Version is stamped into the wakatime plugin identifier and the
// --version output.
const Version = "0.1.0"

const (
	AppName = "go-kicad-wakatime"

	// DefaultAPIURL is wakatime-cli's own default endpoint; it is only
	// passed explicitly when overridden.
	DefaultAPIURL = "https://api.wakatime.com/api/v1"

	// HeartbeatLanguage is the language reported for every entity. KiCad
	// files are design documents, not source code in a wakatime-known
	// language, so the tracker names the suite itself.
	HeartbeatLanguage = "KiCad"
)
