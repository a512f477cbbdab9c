package project

import (
	"bytes"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/utils"
	"gopkg.in/yaml.v3"
)

// Document is the in-memory form of a dbt project directory's two managed
// files: dbt_project.yml and the packages.yml manifest. The pair is read and
// written in lockstep so edits never leave the two out of sync.
type Document struct {
	Project  *Project
	Packages Packages
}

// packagesFile is the on-disk shape of packages.yml.
type packagesFile struct {
	Packages Packages `yaml:"packages"`
}

// NewDocument returns a document with conventional defaults and no packages.
func NewDocument(name, profileName string) *Document {
	return &Document{Project: NewProject(name, profileName)}
}

// Validate checks both halves of the document.
func (d *Document) Validate() error {
	if err := d.Project.Validate(); err != nil {
		return err
	}
	return d.Packages.Validate()
}

// DecodeProject parses a dbt_project.yml document from r, applying defaults
// for omitted version and config-version fields.
func DecodeProject(r io.Reader) (*Project, error) {
	var p Project
	if err := yamlDecode(r, &p); err != nil {
		return nil, err
	}
	p.applyDefaults()
	return &p, nil
}

// EncodeProject writes the project as YAML to w.
func EncodeProject(w io.Writer, p *Project) error {
	return yamlEncode(w, p, "project")
}

// DecodePackages parses a packages.yml document from r. An empty stream
// decodes to an empty list.
func DecodePackages(r io.Reader) (Packages, error) {
	var f packagesFile
	if err := yamlDecode(r, &f); err != nil {
		return nil, err
	}
	return f.Packages, nil
}

// EncodePackages writes the package list as YAML to w.
func EncodePackages(w io.Writer, ps Packages) error {
	return yamlEncode(w, packagesFile{Packages: ps}, "packages")
}

// Load reads the project document from dir. A missing dbt_project.yml is a
// NotFoundError; a missing packages.yml is tolerated as an empty package
// list, matching dbt's treatment of the manifest as optional.
func Load(dir string) (*Document, error) {
	projectPath := filepath.Join(dir, consts.ProjectFileName)

	proj, err := loadYAML(projectPath, DecodeProject)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, &cfgerr.NotFoundError{Kind: "dbt project", Name: dir}
		}
		return nil, err
	}

	pkgs, err := loadYAML(filepath.Join(dir, consts.PackagesFileName), DecodePackages)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return &Document{Project: proj}, nil
		}
		return nil, err
	}

	return &Document{Project: proj, Packages: pkgs}, nil
}

// Save validates the document and writes both files to dir as whole-file
// atomic replaces. The project file is written first; a failure on either
// write leaves that file's previous content intact.
func Save(dir string, d *Document) error {
	if err := d.Validate(); err != nil {
		return err
	}

	var projBuf bytes.Buffer
	if err := EncodeProject(&projBuf, d.Project); err != nil {
		return err
	}
	var pkgBuf bytes.Buffer
	if err := EncodePackages(&pkgBuf, d.Packages); err != nil {
		return err
	}

	if err := utils.WriteFileAtomic(filepath.Join(dir, consts.ProjectFileName), projBuf.Bytes(), consts.ModeFile); err != nil {
		return err
	}
	return utils.WriteFileAtomic(filepath.Join(dir, consts.PackagesFileName), pkgBuf.Bytes(), consts.ModeFile)
}

// loadYAML opens path and decodes it with decode, attaching the path to any
// malformed-document error.
func loadYAML[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path)
	if err != nil {
		return zero, errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	v, err := decode(f)
	if err != nil {
		var malformed *cfgerr.MalformedDocumentError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return zero, err
	}
	return v, nil
}

func yamlDecode(r io.Reader, v any) error {
	if err := yaml.NewDecoder(r).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if cfgerr.IsConfigError(err) {
			return err
		}
		return cfgerr.NewMalformed(err)
	}
	return nil
}

func yamlEncode(w io.Writer, v any, what string) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		_ = enc.Close()
		return errors.Wrapf(err, "failed to encode %s", what)
	}
	return errors.Wrapf(enc.Close(), "failed to finalize %s encoding", what)
}
