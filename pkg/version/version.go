package version

var (
	Version   = "0.3.0"
	GitCommit = "dev"
	BuildDate = "20261019120000"
)

// Disclaimer is embedded in every generated package manifest.
const Disclaimer = "Generated artifacts are drafts. Review and test them in a non-production environment before deployment."

// String returns a human-readable version string.
func String() string {
	return "hardenkit " + Version + " (" + GitCommit + ", " + BuildDate + ")"
}
