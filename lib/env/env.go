// Package env expands the paths given in options and flags
package env

import (
	"os"

	homedir "github.com/mitchellh/go-homedir"
)

// ShellExpand expands a leading "~" to the home directory then any
// $VAR or ${VAR} references.
//
// It is applied to the config file and the auth_file paths.
func ShellExpand(s string) string {
	if s == "" {
		return s
	}
	if s[0] == '~' {
		if expanded, err := homedir.Expand(s); err == nil {
			s = expanded
		}
	}
	return os.ExpandEnv(s)
}
