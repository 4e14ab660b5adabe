package model

import (
	"fmt"
	"strings"
)

// Repo identifies a tracked repository by its owning organization and name.
// It is comparable and used as a map key when scoping exclusion rules and
// building the per-repository report.
type Repo struct {
	Org  string `json:"org" yaml:"org"`
	Name string `json:"name" yaml:"name"`
}

// ParseRepo parses an "org/name" reference.
func ParseRepo(s string) (Repo, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Repo{}, fmt.Errorf("invalid repository reference %q (want org/name)", s)
	}
	return Repo{Org: parts[0], Name: parts[1]}, nil
}

func (r Repo) String() string {
	return r.Org + "/" + r.Name
}
