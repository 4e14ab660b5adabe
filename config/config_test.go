package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ossvet/ghc/internal/model"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ghc.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
company_organizations:
  - acme
repos:
  - org: acme
    name: widget
    companies_exclude:
      - Acme
      - Initech
orgs:
  - name: acme-labs
    companies_exclude:
      - Acme
user_overrides:
  - login: alice
    company: Acme
users_exclude:
  - dependabot[bot]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if len(cfg.CompanyOrganizations) != 1 || cfg.CompanyOrganizations[0] != "acme" {
		t.Errorf("unexpected company organizations: %v", cfg.CompanyOrganizations)
	}

	if len(cfg.Repos) != 1 {
		t.Fatalf("expected 1 repo, got %d", len(cfg.Repos))
	}
	repo := cfg.Repos[0]
	if repo.Repo != (model.Repo{Org: "acme", Name: "widget"}) {
		t.Errorf("unexpected repo: %+v", repo.Repo)
	}
	if len(repo.CompaniesExclude) != 2 {
		t.Errorf("unexpected exclusions: %v", repo.CompaniesExclude)
	}

	if len(cfg.Orgs) != 1 || cfg.Orgs[0].Name != "acme-labs" {
		t.Errorf("unexpected orgs: %+v", cfg.Orgs)
	}

	overrides := cfg.OverrideMap()
	if overrides["alice"] != "Acme" {
		t.Errorf("unexpected overrides: %v", overrides)
	}

	if len(cfg.UsersExclude) != 1 || cfg.UsersExclude[0] != "dependabot[bot]" {
		t.Errorf("unexpected users_exclude: %v", cfg.UsersExclude)
	}
}

func TestLoadRejectsEmptyTargetList(t *testing.T) {
	path := writeConfig(t, `
company_organizations:
  - acme
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a config without repos or orgs")
	}
}

func TestLoadRejectsIncompleteRepoEntry(t *testing.T) {
	path := writeConfig(t, `
repos:
  - org: acme
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a repo entry without a name")
	}
}

func TestLoadRejectsOverrideWithoutLogin(t *testing.T) {
	path := writeConfig(t, `
repos:
  - org: acme
    name: widget
user_overrides:
  - company: Acme
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an override without a login")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestMinimalConfigIsLoadable(t *testing.T) {
	path := writeConfig(t, MinimalConfig())
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Repos) != 1 {
		t.Errorf("expected the template to track 1 repo, got %d", len(cfg.Repos))
	}
}
