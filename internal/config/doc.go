// Package config holds the generator configuration.
//
// A Config starts from Default, is optionally read from an extras.yaml,
// extras.yml or extras.toml file, and is then adjusted with functional
// options (the CLI turns its flags into options). Validate is run last.
package config
