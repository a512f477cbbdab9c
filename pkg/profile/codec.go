package profile

import (
	"bytes"
	_ "embed"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/utils"
	"gopkg.in/yaml.v3"
)

//go:embed embed/profiles.yml
var starterProfiles []byte

// Decode parses a profiles.yml document from r. YAML syntax errors surface as
// *cfgerr.MalformedDocumentError (with the line number when the parser
// supplies one); schema violations surface as errors from the cfgerr
// taxonomy. An empty stream decodes to an empty document.
func Decode(r io.Reader) (*Document, error) {
	doc := NewDocument()
	if err := yamlDecode(r, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode writes the document as YAML to w. The output is deterministic for a
// given in-memory value: mapping keys appear in insertion order, so
// Decode(Encode(d)) is structurally equal to d for any valid d.
func Encode(w io.Writer, d *Document) error {
	return yamlEncode(w, d, "profiles")
}

// LoadFile reads and decodes the profile file at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &cfgerr.NotFoundError{Kind: "profiles file", Name: path}
		}
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f)
	if err != nil {
		var malformed *cfgerr.MalformedDocumentError
		if errors.As(err, &malformed) && malformed.Path == "" {
			malformed.Path = path
		}
		return nil, err
	}
	return doc, nil
}

// SaveFile validates the document and writes it to path as a whole-file
// atomic replace. A validation or write failure leaves any existing file
// content intact.
func SaveFile(path string, d *Document) error {
	if err := d.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, d); err != nil {
		return err
	}

	return utils.WriteFileAtomic(path, buf.Bytes(), consts.ModeFile)
}

// Init writes the embedded starter profile (a duckdb dev target) to path.
// An existing file is only overwritten when force is set.
func Init(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return &cfgerr.DuplicateNameError{Kind: "profiles file", Name: path}
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat %s", path)
		}
	}

	return utils.WriteFileAtomic(path, starterProfiles, consts.ModeFile)
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
