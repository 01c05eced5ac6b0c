// Package configflags defines the global flags used by mybox.  It is
// decoupled into a separate package so it can be replaced.
package configflags

// Options set by command line flags
import (
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/config/configfile"
	"github.com/myboxcli/mybox/fs/fshttp"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

var (
	// these will get interpreted into fs.Config via SetFlags() below
	verbose int
	quiet   bool

	// ConfigPath is the config file in use
	ConfigPath = configfile.DefaultPath()

	// EnvFile is the .env file loaded before the environment is read
	EnvFile = ".env"
)

// AddFlags adds the non backend specific flags to the command
func AddFlags(flagSet *pflag.FlagSet) {
	// NB defaults which aren't the zero for the type should be set in fs/config.go NewConfig
	flagSet.CountVarP(&verbose, "verbose", "v", "Print lots more stuff (repeat for more)")
	flagSet.BoolVarP(&quiet, "quiet", "q", false, "Print as little stuff as possible")
	flagSet.StringVarP(&ConfigPath, "config", "", ConfigPath, "Config file")
	flagSet.StringVarP(&EnvFile, "env-file", "", EnvFile, "Load environment variables from this file if it exists")
	flagSet.VarP(&fs.Config.LogLevel, "log-level", "", "Log level DEBUG|INFO|NOTICE|ERROR")
	flagSet.BoolVarP(&fs.Config.UseJSONLog, "use-json-log", "", fs.Config.UseJSONLog, "Use json log format")
	flagSet.DurationVarP(&fs.Config.ConnectTimeout, "contimeout", "", fs.Config.ConnectTimeout, "Connect timeout")
	flagSet.DurationVarP(&fs.Config.Timeout, "timeout", "", fs.Config.Timeout, "IO idle timeout")
	flagSet.VarP(&fs.Config.Dump, "dump", "", "List of items to dump from: "+fs.DumpFlagsList)
	flagSet.BoolVarP(&fs.Config.InsecureSkipVerify, "no-check-certificate", "", fs.Config.InsecureSkipVerify, "Do not verify the server SSL certificate. Insecure.")
	flagSet.BoolVarP(&fs.Config.NoGzip, "no-gzip-encoding", "", fs.Config.NoGzip, "Don't set Accept-Encoding: gzip")
	flagSet.Float64VarP(&fs.Config.TPSLimit, "tpslimit", "", fs.Config.TPSLimit, "Limit HTTP transactions per second to this")
	flagSet.IntVarP(&fs.Config.TPSLimitBurst, "tpslimit-burst", "", fs.Config.TPSLimitBurst, "Max burst of transactions for --tpslimit")
}

// SetFlags converts any flags into config which weren't straight forward
func SetFlags(flagSet *pflag.FlagSet) error {
	if verbose >= 2 {
		fs.Config.LogLevel = fs.LogLevelDebug
	} else if verbose >= 1 {
		fs.Config.LogLevel = fs.LogLevelInfo
	}
	if quiet {
		if verbose > 0 {
			return errors.New("can't set -v and -q")
		}
		fs.Config.LogLevel = fs.LogLevelError
	}
	logLevelFlag := flagSet.Lookup("log-level")
	if logLevelFlag != nil && logLevelFlag.Changed {
		if verbose > 0 {
			return errors.New("can't set -v and --log-level")
		}
		if quiet {
			return errors.New("can't set -q and --log-level")
		}
	}

	// Start the transaction limiter
	fshttp.StartHTTPTokenBucket(fs.Config)
	return nil
}
