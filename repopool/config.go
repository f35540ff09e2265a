package repopool

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"time"

	"github.com/repocrawl/git-digger/repository"
	"gopkg.in/yaml.v3"
)

// Config is the configuration to create a pool of mirrored repositories
type Config struct {
	// default config for all the repositories if not set
	Defaults DefaultConfig `yaml:"defaults"`
	// List of mirrored repositories.
	Repositories []repository.Config `yaml:"repositories"`
}

// DefaultConfig is the default config for repositories if not set at repo level
type DefaultConfig struct {
	// Root is the absolute path to the root dir under which all
	// host/owner/repo mirror trees will be created
	Root string `yaml:"root"`

	// CloneOnly makes the whole pool only seed missing mirrors,
	// existing mirrors are never refreshed
	CloneOnly bool `yaml:"clone_only"`

	// ProbeTimeout is the max time allowed for a remote reachability check
	ProbeTimeout time.Duration `yaml:"probe_timeout"`

	// GitTimeout is the max time allowed for a single git clone or pull
	GitTimeout time.Duration `yaml:"git_timeout"`

	// Workers is the number of repositories synced concurrently
	Workers int `yaml:"workers"`
}

// validateDefaults will verify default config
func (conf *Config) validateDefaults() error {
	dc := conf.Defaults

	var errs []error

	if dc.Root != "" {
		if !filepath.IsAbs(dc.Root) {
			errs = append(errs, fmt.Errorf("repository root '%s' must be absolute", dc.Root))
		}
	}

	if dc.ProbeTimeout < 0 {
		errs = append(errs, fmt.Errorf("probe timeout must not be negative (%s)", dc.ProbeTimeout))
	}

	if dc.GitTimeout < 0 {
		errs = append(errs, fmt.Errorf("git timeout must not be negative (%s)", dc.GitTimeout))
	}

	if dc.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must not be negative (%d)", dc.Workers))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", errs)
	}

	return nil
}

// applyDefaults will add given default config to repository config where needed
func (conf *Config) applyDefaults() {
	if conf.Defaults.Workers == 0 {
		conf.Defaults.Workers = 1
	}

	for i := range conf.Repositories {
		repo := &conf.Repositories[i]
		if repo.Root == "" {
			repo.Root = conf.Defaults.Root
		}

		if repo.ProbeTimeout == 0 {
			repo.ProbeTimeout = conf.Defaults.ProbeTimeout
		}

		if repo.GitTimeout == 0 {
			repo.GitTimeout = conf.Defaults.GitTimeout
		}

		if conf.Defaults.CloneOnly {
			repo.CloneOnly = true
		}
	}
}

// ValidateAndApplyDefaults will validate the defaults and apply them to
// all the repository configs
func (conf *Config) ValidateAndApplyDefaults() error {
	if err := conf.validateDefaults(); err != nil {
		return err
	}

	conf.applyDefaults()

	return nil
}

// Parse parses and validates the yaml pool config.
func Parse(yamlData []byte) (*Config, error) {
	if err := validateKeys(yamlData); err != nil {
		return nil, err
	}

	conf := &Config{}
	if err := yaml.Unmarshal(yamlData, conf); err != nil {
		return nil, err
	}

	return conf, nil
}

// ParseFile reads and parses the yaml pool config from the given path.
func ParseFile(path string) (*Config, error) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(yamlFile)
}

// validateKeys checks config sections for unexpected keys, a typo in a
// key would otherwise silently fall back to the default value
func validateKeys(yamlData []byte) error {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(yamlData, &raw); err != nil {
		return err
	}

	// repositories section is mandatory
	if _, ok := raw["repositories"]; !ok {
		return fmt.Errorf("repositories config section is missing")
	}

	allowedConfig := getAllowedKeys(Config{})
	if key := findUnexpectedKey(raw, allowedConfig); key != "" {
		return fmt.Errorf("unexpected key: .%v", key)
	}

	// check "defaults" section
	if defaultsMap, ok := raw["defaults"].(map[string]interface{}); ok {
		allowedDefaults := getAllowedKeys(DefaultConfig{})
		if key := findUnexpectedKey(defaultsMap, allowedDefaults); key != "" {
			return fmt.Errorf("unexpected key: .defaults.%v", key)
		}
	}

	// check each repository in "repositories" section
	repos, ok := raw["repositories"].([]interface{})
	if !ok {
		return fmt.Errorf("repositories config section is not valid")
	}

	allowedRepoKeys := getAllowedKeys(repository.Config{})
	for _, repoInterface := range repos {
		repoMap, ok := repoInterface.(map[string]interface{})
		if !ok {
			return fmt.Errorf("repositories config section is not valid")
		}

		if key := findUnexpectedKey(repoMap, allowedRepoKeys); key != "" {
			return fmt.Errorf("unexpected key: .repositories[%v].%v", repoMap["remote"], key)
		}
	}

	return nil
}

// getAllowedKeys retrieves a list of allowed keys from the specified struct
func getAllowedKeys(config interface{}) []string {
	var allowedKeys []string
	val := reflect.ValueOf(config)
	typ := reflect.TypeOf(config)

	for i := 0; i < val.NumField(); i++ {
		field := typ.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag != "" {
			allowedKeys = append(allowedKeys, yamlTag)
		}
	}
	return allowedKeys
}

func findUnexpectedKey(raw map[string]interface{}, allowedKeys []string) string {
	for key := range raw {
		if !slices.Contains(allowedKeys, key) {
			return key
		}
	}

	return ""
}
