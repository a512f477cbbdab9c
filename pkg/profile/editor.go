package profile

import (
	"fmt"
	"slices"

	"github.com/spycner/brix/pkg/cfgerr"
)

// Result describes the outcome of a successful editor operation.
type Result struct {
	// Summary is a human-readable record of what changed.
	Summary string

	// Changed is false for lenient no-op outcomes.
	Changed bool
}

// Editor operations validate their arguments fully before mutating the
// document: when an operation returns an error the document is unchanged.

// AddProfile creates a new, empty profile. The profile starts with no outputs
// and no default target.
func (d *Document) AddProfile(name string) (Result, error) {
	if name == "" {
		return Result{}, cfgerr.NewValidation("profile", "name is required")
	}
	if name == reservedTopLevelKey {
		return Result{}, cfgerr.NewValidation("profile", `"config" is reserved for dbt global flags`)
	}
	if _, ok := d.profiles[name]; ok {
		return Result{}, &cfgerr.DuplicateNameError{Kind: "profile", Name: name}
	}

	d.names = append(d.names, name)
	d.profiles[name] = newProfile()
	return Result{Summary: fmt.Sprintf("added profile %q", name), Changed: true}, nil
}

// DeleteProfile removes a profile. Deleting a profile that still has outputs
// requires force; without it the operation signals ConfirmationRequired and
// performs no mutation.
func (d *Document) DeleteProfile(name string, force bool) (Result, error) {
	p, ok := d.profiles[name]
	if !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "profile", Name: name}
	}

	if !force && len(p.outputNames) > 0 {
		return Result{}, &cfgerr.ConfirmationRequired{
			Action: fmt.Sprintf("delete profile %q with %d output(s)", name, len(p.outputNames)),
		}
	}

	d.names = slices.DeleteFunc(d.names, func(n string) bool { return n == name })
	delete(d.profiles, name)
	return Result{Summary: fmt.Sprintf("deleted profile %q", name), Changed: true}, nil
}

// AddOutput adds a named output to an existing profile.
func (d *Document) AddOutput(profileName, outputName string, out Output) (Result, error) {
	p, ok := d.profiles[profileName]
	if !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "profile", Name: profileName}
	}
	if outputName == "" {
		return Result{}, cfgerr.NewValidation("output", "name is required")
	}
	if _, ok := p.outputs[outputName]; ok {
		return Result{}, &cfgerr.DuplicateNameError{Kind: "output", Name: outputName}
	}
	if err := out.Validate(profileName + ".outputs." + outputName); err != nil {
		return Result{}, err
	}

	p.outputNames = append(p.outputNames, outputName)
	p.outputs[outputName] = out
	return Result{
		Summary: fmt.Sprintf("added %s output %q to profile %q", out.AdapterType(), outputName, profileName),
		Changed: true,
	}, nil
}

// EditOutput replaces an existing output in place, preserving its position.
func (d *Document) EditOutput(profileName, outputName string, out Output) (Result, error) {
	p, ok := d.profiles[profileName]
	if !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "profile", Name: profileName}
	}
	if _, ok := p.outputs[outputName]; !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "output", Name: outputName}
	}
	if err := out.Validate(profileName + ".outputs." + outputName); err != nil {
		return Result{}, err
	}

	p.outputs[outputName] = out
	return Result{
		Summary: fmt.Sprintf("updated %s output %q in profile %q", out.AdapterType(), outputName, profileName),
		Changed: true,
	}, nil
}

// DeleteOutput removes a named output from a profile.
func (d *Document) DeleteOutput(profileName, outputName string) (Result, error) {
	p, ok := d.profiles[profileName]
	if !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "profile", Name: profileName}
	}
	if _, ok := p.outputs[outputName]; !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "output", Name: outputName}
	}

	p.outputNames = slices.DeleteFunc(p.outputNames, func(n string) bool { return n == outputName })
	delete(p.outputs, outputName)
	return Result{
		Summary: fmt.Sprintf("deleted output %q from profile %q", outputName, profileName),
		Changed: true,
	}, nil
}

// SetTarget sets a profile's default target. The target may name an output
// that doesn't exist yet (multi-step interactive edits build profiles
// incrementally); the invariant is enforced at save time by Validate.
func (d *Document) SetTarget(profileName, target string) (Result, error) {
	p, ok := d.profiles[profileName]
	if !ok {
		return Result{}, &cfgerr.NotFoundError{Kind: "profile", Name: profileName}
	}
	if target == "" {
		return Result{}, cfgerr.NewValidation(profileName+".target", "target name is required")
	}

	p.target = target

	summary := fmt.Sprintf("set default target of profile %q to %q", profileName, target)
	if _, ok := p.outputs[target]; !ok {
		summary += " (output not yet defined)"
	}
	return Result{Summary: summary, Changed: true}, nil
}
