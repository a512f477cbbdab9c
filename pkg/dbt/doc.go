// Package dbt is the boundary to the external dbt binary. Everything brix
// does not understand is forwarded here verbatim; output and exit codes pass
// through untouched.
package dbt
