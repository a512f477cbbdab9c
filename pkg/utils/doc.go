// Package utils provides small file-handling helpers shared across the
// codebase, most notably the atomic whole-file write used for every YAML and
// cache save.
package utils
