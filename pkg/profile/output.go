package profile

import (
	"fmt"

	"github.com/spycner/brix/pkg/cfgerr"
	"github.com/spycner/brix/pkg/consts"
	"gopkg.in/yaml.v3"
)

// Adapter type discriminators. The Output sum is closed: decoding any other
// `type` value fails rather than silently dropping the output.
const (
	TypeDuckDB     = "duckdb"
	TypeDatabricks = "databricks"
)

// Databricks authentication methods.
const (
	AuthOAuthU2M = "oauth-u2m"
	AuthOAuthM2M = "oauth-m2m"
	AuthToken    = "token"
)

type (
	// Output is one concrete adapter configuration within a profile. It is a
	// closed sum over the adapter kinds above; every consumption site switches
	// exhaustively so a new adapter becomes a compile-time exercise.
	Output interface {
		// AdapterType returns the discriminator written to the `type` field.
		AdapterType() string

		// Validate checks field presence and format. loc is the dotted
		// location prefix used in error field names (e.g.
		// "analytics.outputs.dev").
		Validate(loc string) error
	}

	// DuckDBOutput configures a local embedded DuckDB database. Path may be a
	// file path or the "memory" sentinel; it is stored verbatim.
	DuckDBOutput struct {
		Path       string            `yaml:"path"`
		Threads    int               `yaml:"threads"`
		Extensions []string          `yaml:"extensions,omitempty"`
		Settings   map[string]string `yaml:"settings,omitempty"`
	}

	// DatabricksOutput configures a Databricks SQL warehouse connection.
	// Credential fields depend on AuthType: token auth carries Token,
	// oauth-m2m carries ClientID/ClientSecret, oauth-u2m carries none.
	DatabricksOutput struct {
		Host         string `yaml:"host"`
		HTTPPath     string `yaml:"http_path"`
		Catalog      string `yaml:"catalog"`
		Schema       string `yaml:"schema"`
		AuthType     string `yaml:"auth_type"`
		Token        string `yaml:"token,omitempty"`
		ClientID     string `yaml:"client_id,omitempty"`
		ClientSecret string `yaml:"client_secret,omitempty"`
	}
)

func (o *DuckDBOutput) AdapterType() string     { return TypeDuckDB }
func (o *DatabricksOutput) AdapterType() string { return TypeDatabricks }

// MarshalYAML emits the discriminator first, then the adapter fields.
func (o *DuckDBOutput) MarshalYAML() (any, error) {
	type plain DuckDBOutput
	return struct {
		Type  string `yaml:"type"`
		plain `yaml:",inline"`
	}{Type: TypeDuckDB, plain: plain(*o)}, nil
}

func (o *DatabricksOutput) MarshalYAML() (any, error) {
	type plain DatabricksOutput
	return struct {
		Type  string `yaml:"type"`
		plain `yaml:",inline"`
	}{Type: TypeDatabricks, plain: plain(*o)}, nil
}

func (o *DuckDBOutput) Validate(loc string) error {
	if o.Path == "" {
		return cfgerr.NewValidation(fieldAt(loc, "path"), "required")
	}
	if o.Threads < 1 {
		return cfgerr.NewValidation(fieldAt(loc, "threads"), "must be a positive integer")
	}
	return nil
}

func (o *DatabricksOutput) Validate(loc string) error {
	for _, f := range []struct{ name, value string }{
		{"host", o.Host},
		{"http_path", o.HTTPPath},
		{"catalog", o.Catalog},
		{"schema", o.Schema},
		{"auth_type", o.AuthType},
	} {
		if f.value == "" {
			return cfgerr.NewValidation(fieldAt(loc, f.name), "required")
		}
	}

	switch o.AuthType {
	case AuthToken:
		if o.Token == "" {
			return cfgerr.NewValidation(fieldAt(loc, "token"), `required when auth_type is "token"`)
		}
		if o.ClientID != "" {
			return cfgerr.NewValidation(fieldAt(loc, "client_id"), `must be absent unless auth_type is "oauth-m2m"`)
		}
		if o.ClientSecret != "" {
			return cfgerr.NewValidation(fieldAt(loc, "client_secret"), `must be absent unless auth_type is "oauth-m2m"`)
		}
	case AuthOAuthM2M:
		if o.ClientID == "" {
			return cfgerr.NewValidation(fieldAt(loc, "client_id"), `required when auth_type is "oauth-m2m"`)
		}
		if o.ClientSecret == "" {
			return cfgerr.NewValidation(fieldAt(loc, "client_secret"), `required when auth_type is "oauth-m2m"`)
		}
		if o.Token != "" {
			return cfgerr.NewValidation(fieldAt(loc, "token"), `must be absent unless auth_type is "token"`)
		}
	case AuthOAuthU2M:
		if o.Token != "" {
			return cfgerr.NewValidation(fieldAt(loc, "token"), `must be absent unless auth_type is "token"`)
		}
		if o.ClientID != "" {
			return cfgerr.NewValidation(fieldAt(loc, "client_id"), `must be absent unless auth_type is "oauth-m2m"`)
		}
		if o.ClientSecret != "" {
			return cfgerr.NewValidation(fieldAt(loc, "client_secret"), `must be absent unless auth_type is "oauth-m2m"`)
		}
	default:
		return cfgerr.NewValidation(fieldAt(loc, "auth_type"),
			fmt.Sprintf("must be one of %q, %q, %q", AuthOAuthU2M, AuthOAuthM2M, AuthToken))
	}

	return nil
}

// decodeOutput resolves the adapter variant by inspecting the `type`
// discriminator before constructing the strongly-typed value.
func decodeOutput(node *yaml.Node, loc string) (Output, error) {
	if node.Kind != yaml.MappingNode {
		return nil, cfgerr.NewValidation(loc, "must be a mapping")
	}

	var probe struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&probe); err != nil {
		return nil, cfgerr.NewValidation(fieldAt(loc, "type"), "must be a string")
	}

	switch probe.Type {
	case TypeDuckDB:
		var out DuckDBOutput
		if err := node.Decode(&out); err != nil {
			return nil, cfgerr.NewValidation(loc, err.Error())
		}
		if out.Threads == 0 {
			out.Threads = consts.DefaultThreads
		}
		if err := out.Validate(loc); err != nil {
			return nil, err
		}
		return &out, nil

	case TypeDatabricks:
		var out DatabricksOutput
		if err := node.Decode(&out); err != nil {
			return nil, cfgerr.NewValidation(loc, err.Error())
		}
		if err := out.Validate(loc); err != nil {
			return nil, err
		}
		return &out, nil

	case "":
		return nil, cfgerr.NewValidation(fieldAt(loc, "type"), "required")

	default:
		return nil, cfgerr.NewValidation(fieldAt(loc, "type"),
			fmt.Sprintf("unknown adapter type %q (expected %q or %q)", probe.Type, TypeDuckDB, TypeDatabricks))
	}
}

func fieldAt(loc, name string) string {
	if loc == "" {
		return name
	}
	return loc + "." + name
}
