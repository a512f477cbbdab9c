package consts

import (
	"os"
	"path/filepath"
)

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ProjectFileName is the project definition file dbt looks for
	ProjectFileName = "dbt_project.yml"

	// PackagesFileName is the package manifest kept alongside the project file
	PackagesFileName = "packages.yml"

	// ProfilesFileName is the connection profile file
	ProfilesFileName = "profiles.yml"

	// DefaultDbtBinary is the executable passthrough commands are forwarded to
	DefaultDbtBinary = "dbt"

	// DefaultThreads is the thread count applied to duckdb outputs that don't set one
	DefaultThreads = 4

	// DefaultProjectVersion is the version stamped on newly scaffolded projects
	DefaultProjectVersion = "1.0.0"

	// ProjectConfigVersion is the dbt_project.yml config-version this tool writes
	ProjectConfigVersion = 2

	// DefaultHubPackage is seeded into new projects unless opted out
	DefaultHubPackage = "dbt-labs/dbt_utils"

	// DefaultHubPackageVersion is the constraint stamped on the seeded package
	DefaultHubPackageVersion = ">=1.0.0, <2.0.0"
)

// Environment overrides consumed by the CLI layer. Core packages never read
// these; they always take explicit paths.
const (
	EnvProfilePath    = "BRIX_DBT_PROFILE_PATH"
	EnvProjectDir     = "BRIX_DBT_PROJECT_DIR"
	EnvProjectBaseDir = "BRIX_DBT_PROJECT_BASE_DIR"
	EnvDbtBinary      = "BRIX_DBT_BIN"
	EnvLogLevel       = "BRIX_LOG_LEVEL"
	EnvLogFile        = "BRIX_LOG_FILE"
	EnvJSONLogs       = "BRIX_JSON_LOGS"
)

// DefaultProfilesPath returns the conventional dbt profile location,
// ~/.dbt/profiles.yml. Falls back to a relative path when the home directory
// cannot be determined.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".dbt", ProfilesFileName)
	}
	return filepath.Join(home, ".dbt", ProfilesFileName)
}
