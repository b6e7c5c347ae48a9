package entity

import (
	"errors"
	"fmt"
)

// Stage classifies where in the construct/serialize/validate pipeline an
// error occurred. Stages double as the failure buckets of the report.
type Stage string

const (
	// StageParse indicates a malformed input file.
	StageParse Stage = "parse"

	// StageResolve indicates that no builder is registered for the kind.
	StageResolve Stage = "resolve"

	// StageConstruct indicates a builder-level semantic rejection of the spec.
	StageConstruct Stage = "construct"

	// StageSerialize indicates a serialization failure of a successfully
	// constructed instance. This is an internal invariant violation, not
	// user error.
	StageSerialize Stage = "serialize"

	// StageSchemaMissing indicates that no schema is loaded for the kind.
	StageSchemaMissing Stage = "schema-missing"

	// StageSchemaInvalid indicates that the serialized instance violates
	// the schema contract for its kind.
	StageSchemaInvalid Stage = "schema-invalid"
)

// Configuration errors raised before any objects are processed. Both are
// fatal for the run: they indicate a wiring bug or a corrupt schema
// directory, and must not be swallowed.
var (
	// ErrDuplicateRegistration reports two plugins registering the same kind.
	ErrDuplicateRegistration = errors.New("kind already registered")

	// ErrRegistryFrozen reports a registration after the init barrier.
	ErrRegistryFrozen = errors.New("registry is frozen")

	// ErrDuplicateSchema reports two schema documents mapping to one kind.
	ErrDuplicateSchema = errors.New("duplicate schema for kind")
)

// ValidationError is a per-object failure, classified by pipeline stage.
type ValidationError struct {
	// Stage is the pipeline stage that failed.
	Stage Stage `json:"stage"`

	// Kind is the entity kind of the object, when known.
	Kind Kind `json:"kind,omitempty"`

	// Message is the human-readable failure description.
	Message string `json:"message"`

	// Violations lists every schema constraint violation for
	// schema-invalid failures, not just the first.
	Violations []string `json:"violations,omitempty"`

	// Err is the underlying error, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Kind != "" {
		return fmt.Sprintf("[%s] kind=%s: %s", e.Stage, e.Kind, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Stage, msg)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewParseError reports a malformed input file.
func NewParseError(err error) *ValidationError {
	return &ValidationError{Stage: StageParse, Message: "cannot parse object file", Err: err}
}

// NewUnknownKindError reports a kind with no registered builder.
func NewUnknownKindError(kind Kind) *ValidationError {
	return &ValidationError{Stage: StageResolve, Kind: kind, Message: "no builder registered for kind"}
}

// NewConstructionError reports a builder-level rejection of a spec.
func NewConstructionError(kind Kind, err error) *ValidationError {
	return &ValidationError{Stage: StageConstruct, Kind: kind, Message: "builder rejected spec", Err: err}
}

// NewSerializeError reports a serialization failure of a constructed instance.
func NewSerializeError(kind Kind, err error) *ValidationError {
	return &ValidationError{Stage: StageSerialize, Kind: kind, Message: "instance serialization failed", Err: err}
}

// NewMissingSchemaError reports a kind without a loaded schema.
func NewMissingSchemaError(kind Kind) *ValidationError {
	return &ValidationError{Stage: StageSchemaMissing, Kind: kind, Message: "no schema loaded for kind"}
}

// NewSchemaInvalidError reports schema constraint violations, carrying the
// full accumulated list.
func NewSchemaInvalidError(kind Kind, violations []string) *ValidationError {
	return &ValidationError{
		Stage:      StageSchemaInvalid,
		Kind:       kind,
		Message:    fmt.Sprintf("%d schema violation(s)", len(violations)),
		Violations: violations,
	}
}

// StageOf extracts the pipeline stage from an error chain, or "" if the
// error is not a ValidationError.
func StageOf(err error) Stage {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Stage
	}
	return ""
}
