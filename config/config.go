// Package config loads the audit configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/ossvet/ghc/internal/model"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration: the company organizations whose members
// count as employees, the repositories and organizations to audit, manual
// login overrides, and logins to exclude outright. Loaded once per run and
// read-only afterward.
type Config struct {
	CompanyOrganizations []string       `yaml:"company_organizations"`
	Repos                []RepoConfig   `yaml:"repos,omitempty"`
	Orgs                 []OrgConfig    `yaml:"orgs,omitempty"`
	UserOverrides        []UserOverride `yaml:"user_overrides,omitempty"`
	UsersExclude         []string       `yaml:"users_exclude,omitempty"`
}

// RepoConfig is one tracked repository with its company exclusion list.
type RepoConfig struct {
	model.Repo       `yaml:",inline"`
	CompaniesExclude []string `yaml:"companies_exclude,omitempty"`
}

// OrgConfig tracks every repository of an organization; the exclusion list
// applies to each expanded repository.
type OrgConfig struct {
	Name             string   `yaml:"name"`
	CompaniesExclude []string `yaml:"companies_exclude,omitempty"`
}

// UserOverride assigns a company to a login without consulting the API.
type UserOverride struct {
	Login   string `yaml:"login"`
	Company string `yaml:"company"`
}

// DefaultPath is the config file looked up when --config is not given.
const DefaultPath = "ghc.yaml"

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Repos) == 0 && len(c.Orgs) == 0 {
		return fmt.Errorf("no repos or orgs configured")
	}
	for _, repo := range c.Repos {
		if repo.Org == "" || repo.Name == "" {
			return fmt.Errorf("repo entries need both org and name")
		}
	}
	for _, org := range c.Orgs {
		if org.Name == "" {
			return fmt.Errorf("org entries need a name")
		}
	}
	for _, override := range c.UserOverrides {
		if override.Login == "" {
			return fmt.Errorf("user_overrides entries need a login")
		}
	}
	return nil
}

// OverrideMap returns the login to company override mapping.
func (c *Config) OverrideMap() map[string]string {
	overrides := make(map[string]string, len(c.UserOverrides))
	for _, override := range c.UserOverrides {
		overrides[override.Login] = override.Company
	}
	return overrides
}

// GitHubToken returns the GitHub token from the GITHUB_TOKEN environment
// variable. Tokens are never stored in config files.
func GitHubToken() string {
	return os.Getenv("GITHUB_TOKEN")
}

// MinimalConfig returns a starter config file template.
func MinimalConfig() string {
	return `# ghc configuration file

# Organizations whose members count as company employees
company_organizations:
  - acme

# Repositories to audit
repos:
  - org: acme
    name: widget
    companies_exclude:
      - Acme

# Track every repository of an organization (optional)
# orgs:
#   - name: acme
#     companies_exclude:
#       - Acme

# Manually assign a company to a login (optional)
# user_overrides:
#   - login: alice
#     company: Acme

# Drop these logins from the report entirely (optional)
# users_exclude:
#   - dependabot[bot]
`
}
