package repository

import "time"

const (
	// DefaultProbeTimeout bounds the remote reachability check.
	DefaultProbeTimeout = 30 * time.Second

	// DefaultGitTimeout bounds a single git clone or pull invocation.
	DefaultGitTimeout = 10 * time.Minute
)

// Config represents the config for the local mirror of the given remote.
type Config struct {
	// Remote is the web URL of the repository to mirror. It must point
	// at one of the known hosting services (github.com, gitlab.com or
	// a recognised GitLab based forge). Links to files or branches
	// inside a repository are accepted and resolve to the owning repo.
	Remote string `yaml:"remote"`

	// Root is the absolute path to the root dir under which the
	// host/owner/repo directory tree will be created
	Root string `yaml:"root"`

	// CloneOnly skips the refresh of mirrors which already exist on
	// disk, only missing mirrors are cloned. used by batch tooling that
	// only wants to seed missing mirrors
	CloneOnly bool `yaml:"clone_only"`

	// ProbeTimeout is the max time allowed for the remote reachability
	// check. zero means DefaultProbeTimeout
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// GitTimeout is the max time allowed for a single git clone or pull.
	// zero means DefaultGitTimeout
	GitTimeout time.Duration `yaml:"git_timeout"`
}
