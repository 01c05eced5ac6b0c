// Package cmd implements the mybox command
//
// It is in a sub package so it's internals can be re-used elsewhere
package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/myboxcli/mybox/backend/mybox"
	"github.com/myboxcli/mybox/backend/mybox/api"
	"github.com/myboxcli/mybox/backend/mybox/nidlogin"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/config/configflags"
	"github.com/myboxcli/mybox/fs/config/configstruct"
	"github.com/myboxcli/mybox/fs/config/flags"
	"github.com/myboxcli/mybox/fs/fshttp"
	fslog "github.com/myboxcli/mybox/fs/log"
	"github.com/myboxcli/mybox/fs/log/logflags"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Globals
var (
	// Flags
	metricsAddr string
	version     bool
	// Errors
	errorNotEnoughArguments = errors.New("not enough arguments")
	errorTooManyArguments   = errors.New("too many arguments")
	// closeLog closes the log file if there is one
	closeLog = func() error { return nil }
)

const (
	exitCodeSuccess = iota
	exitCodeUsageError
	exitCodeUncategorizedError
	exitCodeNotFound
	exitCodeLoginError
	exitCodeUnsupportedLogin
	exitCodeAPIError
)

// Root is the main mybox command
var Root = &cobra.Command{
	Use:   "mybox",
	Short: "Command line client for NAVER MYBOX",
	Long: `
mybox logs in to NAVER and manages the files in your MYBOX.

Options may be given on the command line, as MYBOX_<OPTION>
environment variables (optionally from a .env file) or in the
[mybox] section of the config file.
`,
	Run: func(command *cobra.Command, args []string) {
		if version {
			ShowVersion()
			resolveExitCode(nil)
		}
		_ = command.Usage()
	},
}

// ShowVersion prints the version to stdout
func ShowVersion() {
	fmt.Printf("mybox %s\n", fs.Version)
	fmt.Printf("- os/type: %s\n", runtime.GOOS)
	fmt.Printf("- os/arch: %s\n", runtime.GOARCH)
	fmt.Printf("- go/version: %s\n", runtime.Version())
}

// Run the function with a context which is cancelled on interrupt,
// then exit with a code describing the error
func Run(command *cobra.Command, f func(ctx context.Context) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	cmdErr := f(ctx)
	stop()
	if cmdErr != nil {
		log.Printf("Failed to %s: %v", command.Name(), cmdErr)
	}
	resolveExitCode(cmdErr)
}

// CheckArgs checks there are enough arguments and prints a message if not
func CheckArgs(MinArgs, MaxArgs int, cmd *cobra.Command, args []string) {
	if len(args) < MinArgs {
		_ = cmd.Usage()
		_, _ = fmt.Fprintf(os.Stderr, "Command %s needs %d arguments minimum: you provided %d non flag arguments: %q\n", cmd.Name(), MinArgs, len(args), args)
		resolveExitCode(errorNotEnoughArguments)
	} else if len(args) > MaxArgs {
		_ = cmd.Usage()
		_, _ = fmt.Fprintf(os.Stderr, "Command %s needs %d arguments maximum: you provided %d non flag arguments: %q\n", cmd.Name(), MaxArgs, len(args), args)
		resolveExitCode(errorTooManyArguments)
	}
}

// initConfig is run by cobra after initialising the flags
func initConfig() {
	// Load the .env file so it can set flags and options
	if configflags.EnvFile != "" {
		err := godotenv.Load(configflags.EnvFile)
		if err != nil && !os.IsNotExist(errors.Cause(err)) {
			log.Fatalf("Failed to load %s: %v", configflags.EnvFile, err)
		}
	}

	// Finish parsing any command line flags
	if err := flags.SetFromEnv(Root.PersistentFlags()); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
	if err := configflags.SetFlags(Root.PersistentFlags()); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}

	// Start the logger
	var err error
	closeLog, err = fslog.InitLogging()
	if err != nil {
		log.Fatalf("Failed to start logging: %v", err)
	}

	// Write the args for debug purposes
	fs.Debugf("mybox", "Version %q starting with parameters %q", fs.Version, os.Args)

	// Start the metrics server if configured
	if metricsAddr != "" {
		startMetrics(metricsAddr)
	}
}

// startMetrics registers the HTTP metrics and serves them on addr
func startMetrics(addr string) {
	fshttp.DefaultMetrics = fshttp.NewMetrics("mybox")
	registry := prometheus.NewRegistry()
	registry.MustRegister(fshttp.DefaultMetrics.Collectors()...)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	go func() {
		err := http.ListenAndServe(addr, mux)
		if err != nil {
			fs.Errorf(nil, "Metrics server failed: %v", err)
		}
	}()
	fs.Infof(nil, "Serving metrics on http://%s/metrics", addr)
}

// exitCode works out the exit code for err
func exitCode(err error) int {
	if err == nil {
		return exitCodeSuccess
	}
	var (
		unsupported *nidlogin.UnsupportedMethodError
		parseErr    *nidlogin.ParseError
		cryptoErr   *nidlogin.CryptoError
		transport   *nidlogin.TransportError
		streamErr   *nidlogin.StreamDecodeError
		apiErr      *api.Error
	)
	cause := errors.Cause(err)
	switch {
	case cause == errorNotEnoughArguments, cause == errorTooManyArguments:
		return exitCodeUsageError
	case cause == mybox.ErrorNotFound:
		return exitCodeNotFound
	case errors.As(err, &unsupported):
		return exitCodeUnsupportedLogin
	case cause == nidlogin.ErrOTPTimeout, cause == nidlogin.ErrOTPRejected,
		errors.As(err, &parseErr), errors.As(err, &cryptoErr),
		errors.As(err, &transport), errors.As(err, &streamErr):
		return exitCodeLoginError
	case errors.As(err, &apiErr):
		return exitCodeAPIError
	}
	return exitCodeUncategorizedError
}

func resolveExitCode(err error) {
	if closeErr := closeLog(); closeErr != nil {
		fs.Errorf(nil, "Failed to close log file: %v", closeErr)
	}
	os.Exit(exitCode(err))
}

// AddBackendFlags creates flags for all the backend options
func AddBackendFlags(flagSet *pflag.FlagSet) {
	defaults := map[string]interface{}{}
	items, err := configstruct.Items(mybox.DefaultOptions())
	if err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
	for _, item := range items {
		defaults[item.Name] = item.Value
	}
	for _, opt := range mybox.OptionsInfo {
		name := flags.FlagName(opt.Name)
		if flagSet.Lookup(name) != nil {
			fs.Errorf(nil, "Not adding duplicate flag --%s", name)
			continue
		}
		help := opt.Help
		if opt.IsPassword {
			help += " (obscured)"
		}
		def := ""
		if value, ok := defaults[opt.Name]; ok {
			def = fmt.Sprint(value)
			if def == "false" {
				def = ""
			}
		}
		flagSet.String(name, def, help)
		if _, isBool := defaults[opt.Name].(bool); isBool {
			flagSet.Lookup(name).NoOptDefVal = "true"
		}
	}
}

// setupRootCommand adds the global flags to rootCmd
func setupRootCommand(rootCmd *cobra.Command) {
	flagSet := rootCmd.PersistentFlags()
	configflags.AddFlags(flagSet)
	logflags.AddFlags(flagSet)
	AddBackendFlags(flagSet)
	flagSet.StringVarP(&metricsAddr, "metrics-addr", "", "", "Serve prometheus HTTP metrics on this address, e.g. localhost:9090")
	rootCmd.Flags().BoolVarP(&version, "version", "V", false, "Print the version number")
	cobra.OnInitialize(initConfig)
}

// Main runs mybox interpreting flags and commands out of os.Args
func Main() {
	setupRootCommand(Root)
	if err := Root.Execute(); err != nil {
		if strings.HasPrefix(err.Error(), "unknown command") {
			Root.PrintErrf("Use '%s --help' to list the commands.\n\n", Root.CommandPath())
		}
		log.Fatalf("Fatal error: %v", err)
	}
}
