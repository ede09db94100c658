package config

import (
	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1.0.0"

// supportedVersions is the range of config schema versions Load accepts.
const supportedVersions = "^1"

// ErrUnsupportedVersion marks config files written for an incompatible schema.
var ErrUnsupportedVersion = errors.New("unsupported config version")

// CheckVersion validates a config schema version. An empty version is
// treated as current.
func CheckVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid config version %q", version), ErrUnsupportedVersion)
	}
	c, err := semver.NewConstraint(supportedVersions)
	if err != nil {
		return errors.Wrap(err, "parsing version constraint")
	}
	if !c.Check(v) {
		err := errors.Newf("config version %s is not supported (want %s)", version, supportedVersions)
		return errors.WithHint(errors.Mark(err, ErrUnsupportedVersion), "regenerate the file with `autodocs config init`")
	}
	return nil
}
