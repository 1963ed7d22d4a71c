package common

const (
	// SrcFileExtension is the conventional extension for C11 source files
	// the driver will accept on its command line.
	SrcFileExtension = ".c"

	// ConfigFileName is the project-level defaults file config.Load looks
	// for in the current working directory.
	ConfigFileName = "cc11.toml"

	// Version is the compiler driver's own version string, distinct from
	// any C standard it implements.
	Version = "0.1.0"
)
