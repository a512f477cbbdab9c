package project

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/spycner/brix/pkg/cfgerr"
	"gopkg.in/yaml.v3"
)

// Package source kinds.
const (
	KindHub   = "hub"
	KindGit   = "git"
	KindLocal = "local"
)

// Hub package names are org/name pairs, e.g. "dbt-labs/dbt_utils".
var hubNamePattern = regexp.MustCompile(`^[\w-]+/[\w-]+$`)

type (
	// Package is one dependency entry in packages.yml. It is a closed sum over
	// the three dbt package sources; the variant is determined on decode by
	// which key the entry carries (package, git or local).
	Package interface {
		// Identity is the value operations match a package by: the hub name,
		// the git URL or the local path.
		Identity() string

		// Kind returns the source kind constant.
		Kind() string

		// Validate checks field presence and format.
		Validate() error
	}

	// HubPackage references a package on the dbt package hub.
	HubPackage struct {
		Name    string `yaml:"package"`
		Version string `yaml:"version"`
	}

	// GitPackage references a package in a git repository, pinned to a
	// revision (tag, branch or commit).
	GitPackage struct {
		Git          string `yaml:"git"`
		Revision     string `yaml:"revision"`
		Subdirectory string `yaml:"subdirectory,omitempty"`
	}

	// LocalPackage references a package by filesystem path.
	LocalPackage struct {
		Local string `yaml:"local"`
	}

	// Packages is the ordered dependency list. Duplicate identities are
	// permitted; operations that match by identity take the first hit.
	Packages []Package
)

func (p *HubPackage) Identity() string   { return p.Name }
func (p *GitPackage) Identity() string   { return p.Git }
func (p *LocalPackage) Identity() string { return p.Local }

func (p *HubPackage) Kind() string   { return KindHub }
func (p *GitPackage) Kind() string   { return KindGit }
func (p *LocalPackage) Kind() string { return KindLocal }

func (p *HubPackage) Validate() error {
	if p.Name == "" {
		return cfgerr.NewValidation("package", "required")
	}
	if !hubNamePattern.MatchString(p.Name) {
		return cfgerr.NewValidation("package", `must be an "org/name" hub identifier`)
	}
	if p.Version == "" {
		return cfgerr.NewValidation("version", "required")
	}
	return validateConstraint("version", p.Version)
}

func (p *GitPackage) Validate() error {
	if p.Git == "" {
		return cfgerr.NewValidation("git", "required")
	}
	if p.Revision == "" {
		return cfgerr.NewValidation("revision", "required")
	}
	return nil
}

func (p *LocalPackage) Validate() error {
	if p.Local == "" {
		return cfgerr.NewValidation("local", "required")
	}
	return nil
}

// Validate checks every entry in order.
func (ps Packages) Validate() error {
	for _, p := range ps {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML decodes the package list, resolving each entry's variant by
// the key it carries.
func (ps *Packages) UnmarshalYAML(value *yaml.Node) error {
	*ps = nil

	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	if value.Kind != yaml.SequenceNode {
		return cfgerr.NewValidation("packages", "must be a sequence of package entries")
	}

	for _, item := range value.Content {
		pkg, err := decodePackage(item)
		if err != nil {
			return err
		}
		*ps = append(*ps, pkg)
	}

	return nil
}

// packageEntryKeys is the closed key set each variant accepts. Entries fail
// closed on anything else, so typos aren't silently dropped on rewrite.
var packageEntryKeys = map[string][]string{
	KindHub:   {"package", "version"},
	KindGit:   {"git", "revision", "subdirectory"},
	KindLocal: {"local"},
}

func decodePackage(node *yaml.Node) (Package, error) {
	if node.Kind != yaml.MappingNode {
		return nil, cfgerr.NewValidation("packages", "entries must be mappings")
	}

	switch {
	case hasKey(node, "package"):
		var pkg HubPackage
		if err := decodeEntry(node, KindHub, &pkg); err != nil {
			return nil, err
		}
		return &pkg, pkg.Validate()

	case hasKey(node, "git"):
		var pkg GitPackage
		if err := decodeEntry(node, KindGit, &pkg); err != nil {
			return nil, err
		}
		return &pkg, pkg.Validate()

	case hasKey(node, "local"):
		var pkg LocalPackage
		if err := decodeEntry(node, KindLocal, &pkg); err != nil {
			return nil, err
		}
		return &pkg, pkg.Validate()

	default:
		return nil, cfgerr.NewValidation("packages",
			`entries must carry a "package", "git" or "local" key`)
	}
}

func decodeEntry(node *yaml.Node, kind string, into any) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if key := node.Content[i].Value; !slices.Contains(packageEntryKeys[kind], key) {
			return cfgerr.NewValidation("packages",
				fmt.Sprintf("unknown key %q in %s package entry", key, kind))
		}
	}
	if err := node.Decode(into); err != nil {
		return cfgerr.NewValidation("packages", err.Error())
	}
	return nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}
