package repopool

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/repocrawl/git-digger/repository"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    *Config
		wantErr bool
	}{
		{
			"valid",
			`
defaults:
  root: /tmp/mirrors
  probe_timeout: 10s
  git_timeout: 5m
  workers: 4
repositories:
  - remote: https://github.com/org/repo-a
  - remote: https://gitlab.com/org/repo-b
    clone_only: true
`,
			&Config{
				Defaults: DefaultConfig{
					Root:         "/tmp/mirrors",
					ProbeTimeout: 10 * time.Second,
					GitTimeout:   5 * time.Minute,
					Workers:      4,
				},
				Repositories: []repository.Config{
					{Remote: "https://github.com/org/repo-a"},
					{Remote: "https://gitlab.com/org/repo-b", CloneOnly: true},
				},
			},
			false,
		},
		{
			"no_defaults",
			`
repositories:
  - remote: https://github.com/org/repo-a
`,
			&Config{
				Repositories: []repository.Config{
					{Remote: "https://github.com/org/repo-a"},
				},
			},
			false,
		},
		{
			"missing_repositories",
			`
defaults:
  root: /tmp/mirrors
`,
			nil,
			true,
		},
		{
			"unexpected_top_level_key",
			`
repos:
  - remote: https://github.com/org/repo-a
repositories: []
`,
			nil,
			true,
		},
		{
			"unexpected_defaults_key",
			`
defaults:
  rooot: /tmp/mirrors
repositories:
  - remote: https://github.com/org/repo-a
`,
			nil,
			true,
		},
		{
			"unexpected_repo_key",
			`
repositories:
  - remote: https://github.com/org/repo-a
    interval: 30s
`,
			nil,
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestValidateAndApplyDefaults(t *testing.T) {
	tests := []struct {
		name    string
		conf    Config
		want    Config
		wantErr bool
	}{
		{
			"defaults_applied",
			Config{
				Defaults: DefaultConfig{
					Root:         "/tmp/mirrors",
					CloneOnly:    true,
					ProbeTimeout: 10 * time.Second,
					GitTimeout:   5 * time.Minute,
				},
				Repositories: []repository.Config{
					{Remote: "https://github.com/org/repo-a"},
					{Remote: "https://gitlab.com/org/repo-b", Root: "/data/mirrors", GitTimeout: time.Minute},
				},
			},
			Config{
				Defaults: DefaultConfig{
					Root:         "/tmp/mirrors",
					CloneOnly:    true,
					ProbeTimeout: 10 * time.Second,
					GitTimeout:   5 * time.Minute,
					Workers:      1,
				},
				Repositories: []repository.Config{
					{
						Remote:       "https://github.com/org/repo-a",
						Root:         "/tmp/mirrors",
						CloneOnly:    true,
						ProbeTimeout: 10 * time.Second,
						GitTimeout:   5 * time.Minute,
					},
					{
						Remote:       "https://gitlab.com/org/repo-b",
						Root:         "/data/mirrors",
						CloneOnly:    true,
						ProbeTimeout: 10 * time.Second,
						GitTimeout:   time.Minute,
					},
				},
			},
			false,
		},
		{
			"relative_root",
			Config{Defaults: DefaultConfig{Root: "mirrors"}},
			Config{},
			true,
		},
		{
			"negative_workers",
			Config{Defaults: DefaultConfig{Root: "/tmp/mirrors", Workers: -1}},
			Config{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.ValidateAndApplyDefaults()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAndApplyDefaults() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, tt.conf); diff != "" {
				t.Errorf("ValidateAndApplyDefaults() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
