package constants

// ProjectName is used for the binary name, config dirs and the env prefix.
const ProjectName = "recipemenu"

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "RECIPEMENU"

// UnsetInt marks an integer that has not been assigned yet.
const UnsetInt = -1
