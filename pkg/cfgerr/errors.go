package cfgerr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// Sentinel errors for programmatic matching via errors.Is. Every typed error
// in this package unwraps to exactly one of these.
var (
	// ErrValidation indicates a schema or field-level violation in a
	// configuration document.
	ErrValidation = errors.New("validation failed")

	// ErrMalformedDocument indicates YAML that could not be parsed at all.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrNotFound indicates a referenced entity (profile, output, package,
	// project file) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName indicates an attempt to create a named entity that
	// already exists.
	ErrDuplicateName = errors.New("already exists")

	// ErrWrongPackageKind indicates an operation applied to an incompatible
	// package variant (e.g. updating the version of a git package).
	ErrWrongPackageKind = errors.New("wrong package kind")

	// ErrConfirmationRequired is a control signal, not a true failure: a
	// destructive operation was attempted without the force flag.
	ErrConfirmationRequired = errors.New("confirmation required")
)

type (
	// ValidationError reports a single field that violated a schema rule.
	ValidationError struct {
		// Field names the offending field, using dotted paths for nested
		// locations (e.g. "analytics.outputs.dev.threads").
		Field string

		// Rule describes the violated rule in user-facing terms.
		Rule string
	}

	// MalformedDocumentError reports YAML that failed to parse. Line and
	// Column are zero when the underlying parser did not supply a position.
	MalformedDocumentError struct {
		Path   string
		Line   int
		Column int
		Err    error
	}

	// NotFoundError reports a missing named entity.
	NotFoundError struct {
		Kind string
		Name string
	}

	// DuplicateNameError reports an attempt to create an entity under a name
	// that is already taken.
	DuplicateNameError struct {
		Kind string
		Name string
	}

	// WrongPackageKindError reports a package operation applied to the wrong
	// variant. Kind holds the actual kind of the matched package.
	WrongPackageKindError struct {
		Name string
		Kind string
	}

	// ConfirmationRequired signals that a destructive operation needs the
	// force flag (or an interactive confirmation) before it will proceed.
	ConfirmationRequired struct {
		Action string
	}
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: field %q: %s", ErrValidation.Error(), e.Field, e.Rule)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func (e *MalformedDocumentError) Error() string {
	msg := ErrMalformedDocument.Error()
	if e.Path != "" {
		msg += ": " + e.Path
	}
	if e.Line > 0 {
		if e.Column > 0 {
			msg += fmt.Sprintf(": line %d, column %d", e.Line, e.Column)
		} else {
			msg += fmt.Sprintf(": line %d", e.Line)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedDocumentError) Unwrap() error { return ErrMalformedDocument }

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Kind, e.Name, ErrNotFound.Error())
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q %s", e.Kind, e.Name, ErrDuplicateName.Error())
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateName }

func (e *WrongPackageKindError) Error() string {
	return fmt.Sprintf("package %q is a %s package, not a hub package", e.Name, e.Kind)
}

func (e *WrongPackageKindError) Unwrap() error { return ErrWrongPackageKind }

func (e *ConfirmationRequired) Error() string {
	return fmt.Sprintf("%s: %s (use --force to proceed)", ErrConfirmationRequired.Error(), e.Action)
}

func (e *ConfirmationRequired) Unwrap() error { return ErrConfirmationRequired }

// NewValidation is shorthand for constructing a *ValidationError.
func NewValidation(field, rule string) error {
	return &ValidationError{Field: field, Rule: rule}
}

// yaml.v3 reports syntax error positions only inside the message text.
var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// NewMalformed wraps a YAML parse failure, recovering the line number from
// the parser's message when present.
func NewMalformed(err error) *MalformedDocumentError {
	malformed := &MalformedDocumentError{Err: err}
	if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
		malformed.Line, _ = strconv.Atoi(m[1])
	}
	return malformed
}

// IsConfigError reports whether err belongs to the configuration error
// taxonomy. The CLI maps these to a distinct exit code family.
func IsConfigError(err error) bool {
	for _, sentinel := range []error{
		ErrValidation,
		ErrMalformedDocument,
		ErrNotFound,
		ErrDuplicateName,
		ErrWrongPackageKind,
		ErrConfirmationRequired,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
