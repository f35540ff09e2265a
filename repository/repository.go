package repository

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/repocrawl/git-digger/forge"
	"github.com/repocrawl/git-digger/internal/utils"
)

const defaultDirMode fs.FileMode = os.FileMode(0755) // 'rwxr-xr-x'

// Outcome describes the result of a single Sync call.
type Outcome string

const (
	// OutcomeCloned means the mirror did not exist and was cloned.
	OutcomeCloned Outcome = "cloned"
	// OutcomePulled means the existing mirror was refreshed.
	OutcomePulled Outcome = "pulled"
	// OutcomeSkipped means the mirror already exists and clone-only
	// mode was set, nothing was done.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnreachable means the remote failed the reachability probe
	// and the git operation was not attempted.
	OutcomeUnreachable Outcome = "unreachable"
	// OutcomeFailed means the git clone or pull could not be launched
	// or exited non-zero.
	OutcomeFailed Outcome = "failed"
)

// Repository represents the local mirror of the given remote.
// Repositories for distinct remotes share no mutable state, Sync calls
// for them can run concurrently.
type Repository struct {
	id         forge.Identity // resolved remote identity
	remote     string         // canonical https URL of the remote
	root       string         // absolute path to the root dir
	ownerDir   string         // absolute path to the host/owner dir
	dir        string         // absolute path to the mirror dir
	cloneOnly  bool           // never refresh existing mirrors
	gitTimeout time.Duration  // the total time allowed for a git operation
	probe      Probe          // remote reachability check
	gitExec    string         // git binary to invoke
	envs       []string       // envs which will be passed to git commands
	log        *slog.Logger
}

// New creates a repository mirror from the given config. The remote URL
// is resolved to its identity up front, a *forge.ParseError is returned
// for URLs of unknown hosting services. The remote will not be mirrored
// until Sync is called.
func New(conf Config, gitExec string, envs []string, log *slog.Logger) (*Repository, error) {
	if log == nil {
		log = slog.Default()
	}

	id, err := forge.Resolve(conf.Remote)
	if err != nil {
		log.Warn("no match for repository url", "url", conf.Remote)
		return nil, err
	}

	if !filepath.IsAbs(conf.Root) {
		return nil, fmt.Errorf("repository root '%s' must be absolute", conf.Root)
	}

	if conf.ProbeTimeout == 0 {
		conf.ProbeTimeout = DefaultProbeTimeout
	}
	if conf.GitTimeout == 0 {
		conf.GitTimeout = DefaultGitTimeout
	}
	if gitExec == "" {
		gitExec = "git"
	}

	log = log.With("repo", id.String())

	return &Repository{
		id:         id,
		remote:     id.CanonicalURL(),
		root:       conf.Root,
		ownerDir:   id.OwnerDir(conf.Root),
		dir:        id.Dir(conf.Root),
		cloneOnly:  conf.CloneOnly,
		gitTimeout: conf.GitTimeout,
		probe:      NewHTTPProbe(&http.Client{Timeout: conf.ProbeTimeout}, log),
		gitExec:    gitExec,
		envs:       envs,
		log:        log,
	}, nil
}

// Identity returns the resolved identity of the remote.
func (r *Repository) Identity() forge.Identity { return r.id }

// Remote returns the canonical URL of the remote.
func (r *Repository) Remote() string { return r.remote }

// Directory returns the absolute path of the mirror directory.
func (r *Repository) Directory() string { return r.dir }

// SetProbe overrides the default HTTP reachability probe.
func (r *Repository) SetProbe(p Probe) { r.probe = p }

// Sync makes sure the local mirror of the remote exists and is up to
// date. The mirror is cloned if its directory is missing and pulled
// otherwise. An unreachable remote or a failing git operation is logged
// and reported via the Outcome without an error, no retries are made
// within a single call. Only failures to prepare the directory tree
// return an error.
func (r *Repository) Sync(ctx context.Context) (Outcome, error) {
	start := time.Now()
	defer updateSyncLatency(r.id.String(), start)

	outcome, err := r.sync(ctx)
	recordSync(r.id.String(), outcome)
	return outcome, err
}

func (r *Repository) sync(ctx context.Context) (Outcome, error) {
	start := time.Now()

	if err := os.MkdirAll(r.ownerDir, defaultDirMode); err != nil {
		return OutcomeFailed, fmt.Errorf("unable to create owner dir '%s' err:%w", r.ownerDir, err)
	}

	present, err := utils.DirExists(r.dir)
	if err != nil {
		return OutcomeFailed, fmt.Errorf("unable to verify mirror dir err:%w", err)
	}

	if present && r.cloneOnly {
		r.log.Debug("mirror already exists, skipping refresh", "path", r.dir)
		return OutcomeSkipped, nil
	}

	// the probe is an optimisation to avoid slow hangs on moved or
	// deleted remotes, not a correctness gate. the clone or pull can
	// still fail after a successful probe
	if !r.probe(ctx, r.remote) {
		r.log.Error("remote is not reachable", "url", r.remote)
		return OutcomeUnreachable, nil
	}

	gCtx, cancel := context.WithTimeout(ctx, r.gitTimeout)
	defer cancel()

	if present {
		// git pull
		if _, err := utils.RunCommand(gCtx, r.log, r.envs, r.dir, r.gitExec, "pull"); err != nil {
			r.log.Warn("unable to refresh mirror", "url", r.remote, "path", r.dir, "err", err)
			return OutcomeFailed, nil
		}
		r.log.Info("mirror refreshed", "path", r.dir, "time", time.Since(start))
		return OutcomePulled, nil
	}

	// git clone <canonical-url> <repo>
	if _, err := utils.RunCommand(gCtx, r.log, r.envs, r.ownerDir, r.gitExec, "clone", r.remote, r.id.Repo()); err != nil {
		r.log.Warn("unable to clone repository", "url", r.remote, "path", r.dir, "err", err)
		return OutcomeFailed, nil
	}
	r.log.Info("mirror created", "path", r.dir)
	return OutcomeCloned, nil
}
