package repopool

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/repocrawl/git-digger/forge"
	"github.com/repocrawl/git-digger/internal/lock"
	"github.com/repocrawl/git-digger/repository"
)

var (
	ErrExist    = errors.New("repo already exist")
	ErrNotExist = errors.New("repo does not exist")
)

// Pool represents the collection of mirrored repositories under one
// root. It provides a simple wrapper around Repository methods.
// A Pool is safe for concurrent use by multiple goroutines.
type Pool struct {
	lock    lock.RWMutex
	log     *slog.Logger
	repos   []*repository.Repository
	gitExec string
	envs    []string
	workers int
}

// Summary counts sync outcomes across one SyncAll pass of the pool.
type Summary map[repository.Outcome]int

// New will create a repository pool based on the given config.
// Remote repos will not be mirrored until SyncAll is called.
func New(conf Config, log *slog.Logger, gitExec string, envs []string) (*Pool, error) {
	if err := conf.ValidateAndApplyDefaults(); err != nil {
		return nil, err
	}

	if log == nil {
		log = slog.Default()
	}

	pool := &Pool{
		log:     log,
		gitExec: gitExec,
		envs:    envs,
		workers: conf.Defaults.Workers,
	}

	for _, repoConf := range conf.Repositories {
		if err := pool.AddRepository(repoConf); err != nil {
			return nil, err
		}
	}

	return pool, nil
}

// AddRepository will add the given repository to the pool. Two configs
// whose remote URLs resolve to the same identity count as duplicates.
func (p *Pool) AddRepository(repoConf repository.Config) error {
	if repo, _ := p.Repository(repoConf.Remote); repo != nil {
		return ErrExist
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	repo, err := repository.New(repoConf, p.gitExec, p.envs, p.log)
	if err != nil {
		return err
	}
	p.repos = append(p.repos, repo)

	return nil
}

// Repository will return the Repository object based on given remote URL
func (p *Pool) Repository(remote string) (*repository.Repository, error) {
	id, err := forge.Resolve(remote)
	if err != nil {
		return nil, err
	}

	p.lock.RLock()
	defer p.lock.RUnlock()

	for _, repo := range p.repos {
		if repo.Identity() == id {
			return repo, nil
		}
	}
	return nil, ErrNotExist
}

// RepositoriesRemote returns canonical remote URLs of all the repositories
func (p *Pool) RepositoriesRemote() []string {
	p.lock.RLock()
	defer p.lock.RUnlock()

	var urls []string
	for _, repo := range p.repos {
		urls = append(urls, repo.Remote())
	}
	return urls
}

// RepositoriesDirPath returns local paths of all the mirrored repositories
func (p *Pool) RepositoriesDirPath() []string {
	p.lock.RLock()
	defer p.lock.RUnlock()

	var paths []string
	for _, repo := range p.repos {
		paths = append(paths, repo.Directory())
	}
	return paths
}

// SyncAll syncs every repository of the pool once, fanning out over the
// configured number of workers. Soft failures (unreachable remotes,
// failing git operations) only show up in the summary counts. Hard
// errors are collected and returned joined after all repositories have
// been attempted, one broken root never aborts the whole batch half way.
func (p *Pool) SyncAll(ctx context.Context) (Summary, error) {
	p.lock.RLock()
	repos := make([]*repository.Repository, len(p.repos))
	copy(repos, p.repos)
	workers := p.workers
	p.lock.RUnlock()

	if workers < 1 {
		workers = 1
	}

	queue := make(chan *repository.Repository)

	var mu sync.Mutex
	summary := Summary{}
	var errs []error

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range queue {
				outcome, err := repo.Sync(ctx)

				mu.Lock()
				summary[outcome]++
				if err != nil {
					errs = append(errs, err)
				}
				mu.Unlock()

				if err != nil {
					p.log.Error("repository sync failed", "remote", repo.Remote(), "err", err)
				}
			}
		}()
	}

	for _, repo := range repos {
		queue <- repo
	}
	close(queue)
	wg.Wait()

	return summary, errors.Join(errs...)
}
