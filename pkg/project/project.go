package project

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"gopkg.in/yaml.v3"
)

// Project name and profile references share the dbt identifier grammar.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PathFieldNames is the fixed set of path-array fields a dbt project carries.
// Editor operations address them by these YAML names.
var PathFieldNames = []string{
	"model-paths",
	"seed-paths",
	"macro-paths",
	"snapshot-paths",
	"test-paths",
	"analysis-paths",
}

// Project models the dbt_project.yml file. Only the fields this tool manages
// are typed; dbt accepts many more (models, vars, seeds, clean-targets, ...),
// and those are carried verbatim in extras so a rewrite never drops them.
type Project struct {
	Name              string   `yaml:"name"`
	Version           string   `yaml:"version"`
	ConfigVersion     int      `yaml:"config-version"`
	Profile           string   `yaml:"profile"`
	RequireDbtVersion string   `yaml:"require-dbt-version,omitempty"`
	ModelPaths        []string `yaml:"model-paths"`
	SeedPaths         []string `yaml:"seed-paths"`
	MacroPaths        []string `yaml:"macro-paths"`
	SnapshotPaths     []string `yaml:"snapshot-paths"`
	TestPaths         []string `yaml:"test-paths"`
	AnalysisPaths     []string `yaml:"analysis-paths"`

	// extras holds the key/value node pairs of every top-level key this tool
	// doesn't manage, in document order. They are re-emitted after the managed
	// fields on encode.
	extras []*yaml.Node
}

// managedProjectKeys mirrors the yaml tags above.
var managedProjectKeys = map[string]bool{
	"name":                true,
	"version":             true,
	"config-version":      true,
	"profile":             true,
	"require-dbt-version": true,
	"model-paths":         true,
	"seed-paths":          true,
	"macro-paths":         true,
	"snapshot-paths":      true,
	"test-paths":          true,
	"analysis-paths":      true,
}

// UnmarshalYAML decodes the managed fields and captures every other top-level
// key verbatim.
func (p *Project) UnmarshalYAML(value *yaml.Node) error {
	type plain Project
	if err := value.Decode((*plain)(p)); err != nil {
		return err
	}

	p.extras = nil
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if managedProjectKeys[value.Content[i].Value] {
			continue
		}
		p.extras = append(p.extras, value.Content[i], value.Content[i+1])
	}
	return nil
}

// MarshalYAML emits the managed fields followed by the preserved extras.
func (p *Project) MarshalYAML() (any, error) {
	type plain Project
	var node yaml.Node
	if err := node.Encode((*plain)(p)); err != nil {
		return nil, errors.Wrap(err, "failed to encode project")
	}
	node.Content = append(node.Content, p.extras...)
	return &node, nil
}

// NewProject returns a project with the conventional dbt directory layout.
// The profile reference defaults to the project name when empty.
func NewProject(name, profileName string) *Project {
	if profileName == "" {
		profileName = name
	}
	return &Project{
		Name:          name,
		Version:       consts.DefaultProjectVersion,
		ConfigVersion: consts.ProjectConfigVersion,
		Profile:       profileName,
		ModelPaths:    []string{"models"},
		SeedPaths:     []string{"seeds"},
		MacroPaths:    []string{"macros"},
		SnapshotPaths: []string{"snapshots"},
		TestPaths:     []string{"tests"},
		AnalysisPaths: []string{"analyses"},
	}
}

// applyDefaults fills fields the on-disk file may omit.
func (p *Project) applyDefaults() {
	if p.Version == "" {
		p.Version = consts.DefaultProjectVersion
	}
	if p.ConfigVersion == 0 {
		p.ConfigVersion = consts.ProjectConfigVersion
	}
}

// Validate checks the project is fit to be written to disk. The profile
// reference is validated for shape only; whether a matching profile exists in
// profiles.yml is deliberately not checked, the two files are independent
// artifacts.
func (p *Project) Validate() error {
	if err := validateIdentifier("name", p.Name); err != nil {
		return err
	}
	if err := validateIdentifier("profile", p.Profile); err != nil {
		return err
	}
	if err := validateVersion("version", p.Version); err != nil {
		return err
	}
	if p.ConfigVersion != consts.ProjectConfigVersion {
		return cfgerr.NewValidation("config-version",
			fmt.Sprintf("must be %d", consts.ProjectConfigVersion))
	}
	if p.RequireDbtVersion != "" {
		if err := validateConstraint("require-dbt-version", p.RequireDbtVersion); err != nil {
			return err
		}
	}
	for _, field := range PathFieldNames {
		for _, value := range *p.pathField(field) {
			if value == "" {
				return cfgerr.NewValidation(field, "entries must be non-empty")
			}
		}
	}
	return nil
}

// PathField returns a copy of the named path array. The second return is
// false when field is not one of PathFieldNames.
func (p *Project) PathField(field string) ([]string, bool) {
	if !slices.Contains(PathFieldNames, field) {
		return nil, false
	}
	return slices.Clone(*p.pathField(field)), true
}

func (p *Project) pathField(field string) *[]string {
	switch field {
	case "model-paths":
		return &p.ModelPaths
	case "seed-paths":
		return &p.SeedPaths
	case "macro-paths":
		return &p.MacroPaths
	case "snapshot-paths":
		return &p.SnapshotPaths
	case "test-paths":
		return &p.TestPaths
	case "analysis-paths":
		return &p.AnalysisPaths
	}
	panic("unknown path field " + field)
}

func validateIdentifier(field, value string) error {
	if value == "" {
		return cfgerr.NewValidation(field, "required")
	}
	if !identifierPattern.MatchString(value) {
		return cfgerr.NewValidation(field,
			"must contain only letters, digits and underscores, and must not start with a digit")
	}
	return nil
}

func validateVersion(field, value string) error {
	if value == "" {
		return cfgerr.NewValidation(field, "required")
	}
	if _, err := semver.NewVersion(value); err != nil {
		return cfgerr.NewValidation(field, fmt.Sprintf("%q is not a semantic version", value))
	}
	return nil
}

func validateConstraint(field, value string) error {
	if _, err := semver.NewConstraint(value); err != nil {
		return cfgerr.NewValidation(field, fmt.Sprintf("%q is not a version constraint", value))
	}
	return nil
}
