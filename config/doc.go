// Package config loads the YAML configuration used by the autogen command.
// Every field has a default so an absent file is valid; command line flags
// override file values.
package config
