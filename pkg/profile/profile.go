package profile

import (
	"fmt"
	"slices"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/cfgerr"
	"gopkg.in/yaml.v3"
)

type (
	// Document is the in-memory form of a profiles.yml file: a mapping from
	// profile name to connection profile. Iteration and serialization follow
	// insertion order, which keeps encoding deterministic and round-trip
	// stable. The top-level "config" key is not a profile; dbt reserves it
	// for global flags, so it is carried verbatim and re-emitted first.
	Document struct {
		names    []string
		profiles map[string]*Profile
		config   *yaml.Node
	}

	// Profile is a named connection configuration holding one or more outputs
	// and the name of the default target among them. Profile-level keys this
	// tool doesn't manage (e.g. a config block) are carried verbatim in
	// extras.
	Profile struct {
		target      string
		outputNames []string
		outputs     map[string]Output
		extras      []*yaml.Node
	}
)

// reservedTopLevelKey is the profiles.yml key dbt treats as global flags
// rather than a profile.
const reservedTopLevelKey = "config"

// NewDocument returns an empty profile document.
func NewDocument() *Document {
	return &Document{profiles: map[string]*Profile{}}
}

// Len returns the number of profiles in the document.
func (d *Document) Len() int { return len(d.names) }

// Names returns the profile names in insertion order.
func (d *Document) Names() []string { return slices.Clone(d.names) }

// Get returns the named profile, if present.
func (d *Document) Get(name string) (*Profile, bool) {
	p, ok := d.profiles[name]
	return p, ok
}

func newProfile() *Profile {
	return &Profile{outputs: map[string]Output{}}
}

// Target returns the profile's default target name. Empty until set.
func (p *Profile) Target() string { return p.target }

// OutputNames returns the output names in insertion order.
func (p *Profile) OutputNames() []string { return slices.Clone(p.outputNames) }

// Output returns the named output, if present.
func (p *Profile) Output(name string) (Output, bool) {
	o, ok := p.outputs[name]
	return o, ok
}

// Validate checks the document is fit to be written to disk. In particular it
// enforces the soft invariant that each profile's default target names an
// existing output once both are populated; the invariant may be violated in
// memory mid-edit, but never on disk.
func (d *Document) Validate() error {
	for _, name := range d.names {
		p := d.profiles[name]

		for _, outName := range p.outputNames {
			if err := p.outputs[outName].Validate(name + ".outputs." + outName); err != nil {
				return err
			}
		}

		if p.target != "" && len(p.outputNames) > 0 {
			if _, ok := p.outputs[p.target]; !ok {
				return cfgerr.NewValidation(name+".target",
					fmt.Sprintf("default target %q does not exist in outputs", p.target))
			}
		}
	}
	return nil
}

// UnmarshalYAML decodes a profiles.yml document, resolving each output's
// adapter variant through its discriminator.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	d.names = nil
	d.profiles = map[string]*Profile{}
	d.config = nil

	if isNullNode(value) {
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return cfgerr.NewValidation("profiles", "must be a mapping of profile names")
	}

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		name := keyNode.Value

		if name == reservedTopLevelKey {
			d.config = valNode
			continue
		}

		if _, ok := d.profiles[name]; ok {
			return &cfgerr.DuplicateNameError{Kind: "profile", Name: name}
		}

		p := newProfile()
		if err := p.unmarshal(valNode, name); err != nil {
			return err
		}

		d.names = append(d.names, name)
		d.profiles[name] = p
	}

	return nil
}

func (p *Profile) unmarshal(node *yaml.Node, loc string) error {
	if isNullNode(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return cfgerr.NewValidation(loc, "must be a mapping")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		switch keyNode.Value {
		case "target":
			if err := valNode.Decode(&p.target); err != nil {
				return cfgerr.NewValidation(fieldAt(loc, "target"), "must be a string")
			}
		case "outputs":
			if err := p.unmarshalOutputs(valNode, loc); err != nil {
				return err
			}
		default:
			// Keys this tool doesn't manage (e.g. a profile-level config
			// block) are carried verbatim and re-emitted on encode.
			p.extras = append(p.extras, keyNode, valNode)
		}
	}

	return nil
}

func (p *Profile) unmarshalOutputs(node *yaml.Node, loc string) error {
	if isNullNode(node) {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return cfgerr.NewValidation(fieldAt(loc, "outputs"), "must be a mapping of output names")
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		name := keyNode.Value

		if _, ok := p.outputs[name]; ok {
			return &cfgerr.DuplicateNameError{Kind: "output", Name: name}
		}

		out, err := decodeOutput(valNode, loc+".outputs."+name)
		if err != nil {
			return err
		}

		p.outputNames = append(p.outputNames, name)
		p.outputs[name] = out
	}

	return nil
}

// MarshalYAML encodes the document as a mapping in insertion order, with the
// preserved config block first.
func (d *Document) MarshalYAML() (any, error) {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	if d.config != nil {
		root.Content = append(root.Content, scalarNode(reservedTopLevelKey), d.config)
	}

	for _, name := range d.names {
		profileNode, err := d.profiles[name].marshalNode()
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, scalarNode(name), profileNode)
	}

	return root, nil
}

func (p *Profile) marshalNode() (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	if p.target != "" {
		node.Content = append(node.Content, scalarNode("target"), scalarNode(p.target))
	}

	outputs := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range p.outputNames {
		var outNode yaml.Node
		if err := outNode.Encode(p.outputs[name]); err != nil {
			return nil, errors.Wrapf(err, "failed to encode output %q", name)
		}
		outputs.Content = append(outputs.Content, scalarNode(name), &outNode)
	}
	node.Content = append(node.Content, scalarNode("outputs"), outputs)
	node.Content = append(node.Content, p.extras...)

	return node, nil
}

func scalarNode(s string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(s)
	return n
}

func isNullNode(n *yaml.Node) bool {
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}
