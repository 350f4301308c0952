package cli

import (
	"fmt"

	"github.com/blang/semver"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "0.3.0"

// CurrentVersion parses Version. A malformed build version is reported as
// 0.0.0 with an error so callers can still run.
func CurrentVersion() (semver.Version, error) {
	v, err := semver.ParseTolerant(Version)
	if err != nil {
		return semver.Version{}, fmt.Errorf("could not parse current version %q: %w", Version, err)
	}
	return v, nil
}

// compatible reports whether a report written by version other can be read by
// this build: same major version, and not newer than us.
func compatible(other string) error {
	cur, err := CurrentVersion()
	if err != nil {
		return err
	}
	v, err := semver.ParseTolerant(other)
	if err != nil {
		return fmt.Errorf("invalid report version %q: %w", other, err)
	}
	if v.Major != cur.Major {
		return fmt.Errorf("report version %s is incompatible with %s", v, cur)
	}
	if v.GT(cur) {
		return fmt.Errorf("report version %s is newer than %s", v, cur)
	}
	return nil
}
