// Package profile models the dbt profiles.yml document: a mapping of named
// connection profiles, each holding a default target and a set of
// adapter-tagged outputs (duckdb or databricks).
//
// The package has three layers. The schema model (Document, Profile, Output)
// validates field presence and format at construction time and fails closed
// on unknown adapter types. The codec (Decode/Encode, LoadFile/SaveFile)
// round-trips the model to YAML text, preserving the insertion order of
// mapping keys so output is deterministic. The editor (AddProfile, AddOutput,
// ...) applies named mutations, returning a Result summary on success and an
// error from the cfgerr taxonomy on failure, leaving the document untouched.
//
// Nothing here prompts, logs, or reads the environment; callers supply
// explicit paths and arguments.
package profile
