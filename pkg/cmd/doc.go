// Package cmd implements the brix command line interface: the `dbt profile`
// and `dbt project` management commands, the passthrough to the dbt binary,
// and the plumbing that turns editor results and errors into output and exit
// codes. All document semantics live in the profile and project packages;
// this package only gathers arguments (from flags or interactive prompts)
// and reports outcomes.
package cmd
