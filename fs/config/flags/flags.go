// Package flags contains helpers for spf13/pflag flags which may
// also be set from the environment.
package flags

import (
	"os"
	"strings"

	"github.com/myboxcli/mybox/fs"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// FlagName converts a config name, e.g. "otp_timeout", into a flag
// name, e.g. "otp-timeout"
func FlagName(name string) string {
	return strings.Replace(name, "_", "-", -1)
}

// SetFromEnv sets any flag in flags which wasn't given on the command
// line from its environment variable, e.g. --log-level from
// MYBOX_LOG_LEVEL.
//
// It must be called after the environment has been loaded and after
// the command line has been parsed.
func SetFromEnv(flags *pflag.FlagSet) (err error) {
	flags.VisitAll(func(flag *pflag.Flag) {
		if err != nil || flag.Changed {
			return
		}
		envKey := fs.OptionToEnv(flag.Name)
		envValue, found := os.LookupEnv(envKey)
		if !found {
			return
		}
		if setErr := flags.Set(flag.Name, envValue); setErr != nil {
			err = errors.Wrapf(setErr, "invalid value when setting --%s from environment variable %s=%q", flag.Name, envKey, envValue)
			return
		}
		fs.Debugf(nil, "Setting --%s %q from environment variable %s", flag.Name, flag.Value, envKey)
	})
	return err
}

// Getter is a configmap.Getter which returns the values of the flags
// in a FlagSet which have been set, looking config names up by their
// flag name.
type Getter struct {
	flags *pflag.FlagSet
}

// NewGetter makes a Getter for flags
func NewGetter(flags *pflag.FlagSet) Getter {
	return Getter{flags: flags}
}

// Get the value of the flag for the config key
func (g Getter) Get(key string) (value string, ok bool) {
	flag := g.flags.Lookup(FlagName(key))
	if flag == nil || !flag.Changed {
		return "", false
	}
	return flag.Value.String(), true
}
