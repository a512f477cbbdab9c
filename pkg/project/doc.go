// Package project models the two managed files of a dbt project directory:
// dbt_project.yml and the packages.yml dependency manifest. The two are read
// and written in lockstep through a single Document.
//
// The layering mirrors package profile: a schema model with closed-sum
// package variants, a deterministic YAML codec with atomic file writes, and
// editor methods that validate fully before mutating. Find locates a project
// directory by walking upward from a starting point; Scaffold creates a
// fresh project with the conventional dbt layout.
package project
