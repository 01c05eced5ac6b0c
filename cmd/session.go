package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/myboxcli/mybox/backend/mybox"
	"github.com/myboxcli/mybox/backend/mybox/authstore"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/backend/mybox/nidlogin"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/config/configfile"
	"github.com/myboxcli/mybox/fs/config/configflags"
	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/myboxcli/mybox/fs/config/flags"
	"github.com/myboxcli/mybox/fs/config/obscure"
	"github.com/myboxcli/mybox/lib/env"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

// ConfigSection is the section of the config file holding the options
const ConfigSection = "mybox"

// Session holds everything a command needs to talk to MYBOX
type Session struct {
	Opt     *mybox.Options
	Config  *configfile.Storage
	Store   *credential.Store
	Persist nidlogin.Persister

	// Prompt and Out are used to ask for a missing password and to
	// tell the user about OTP pushes
	Prompt func(prompt string) (string, error)
	Out    io.Writer
}

// newConfigMap layers the command line over the environment over the
// config file section
func newConfigMap(flagSet *pflag.FlagSet, section configmap.Mapper) *configmap.Map {
	m := configmap.New()
	if flagSet != nil {
		m.AddGetter(flags.NewGetter(flagSet))
	}
	m.AddGetter(configmap.NewEnvironment(fs.ConfigPrefix))
	m.AddGetter(section)
	m.AddSetter(section)
	return m
}

// NewSession reads the config and makes a Session from it
func NewSession() (*Session, error) {
	return newSession(env.ShellExpand(configflags.ConfigPath), Root.PersistentFlags())
}

func newSession(configPath string, flagSet *pflag.FlagSet) (*Session, error) {
	storage := configfile.New(configPath)
	err := storage.Load()
	if err == configfile.ErrorConfigFileNotFound {
		fs.Debugf(nil, "Config file %q not found - using defaults", configPath)
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to load config file")
	}
	section := storage.Section(ConfigSection)
	m := newConfigMap(flagSet, section)
	opt, err := mybox.ParseOptions(m)
	if err != nil {
		return nil, err
	}
	persist, err := mybox.NewPersister(opt, section, storage.Save)
	if err != nil {
		return nil, err
	}
	return &Session{
		Opt:     opt,
		Config:  storage,
		Store:   credential.NewStore(),
		Persist: persist,
		Prompt:  ReadPassword,
		Out:     os.Stderr,
	}, nil
}

// ReadPassword reads a password from the terminal without echoing it
func ReadPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("no password configured and stdin is not a terminal")
	}
	_, _ = fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read password")
	}
	return string(password), nil
}

// onOTP tells the user to approve the push
func (s *Session) onOTP(challenge nidlogin.Challenge) {
	_, _ = fmt.Fprintf(s.Out, "A login confirmation has been sent to your NAVER app - approve it within %v\n", s.Opt.OTPTimeout)
}

// Login logs in, asking for the password if it isn't configured.
//
// In offline mode the new credentials are saved with the Persister
// and also loaded into the Store.
func (s *Session) Login(ctx context.Context) (*nidlogin.Result, error) {
	if s.Opt.Username == "" {
		return nil, errors.New("no username configured - set --username or MYBOX_USERNAME")
	}
	if s.Opt.Password == "" && s.Prompt != nil {
		password, err := s.Prompt(fmt.Sprintf("NAVER password for %s: ", s.Opt.Username))
		if err != nil {
			return nil, err
		}
		s.Opt.Password = password
	}
	res, err := mybox.Login(ctx, s.Opt, nil, s.Store, s.Persist, s.onOTP)
	if err != nil {
		return res, err
	}
	if s.Opt.OfflineMode {
		s.Store.SetTriple(res.Credentials)
	}
	return res, nil
}

// Client returns a logged in MYBOX client.
//
// In offline mode stored credentials are used if there are any,
// otherwise a login is made first.
func (s *Session) Client(ctx context.Context) (*mybox.Client, error) {
	if s.Opt.OfflineMode {
		err := mybox.LoadCredentials(ctx, s.Store, s.Persist)
		switch {
		case err == nil:
			fs.Debugf(nil, "Using stored credentials")
		case errors.Cause(err) == authstore.ErrNotFound:
			fs.Infof(nil, "No stored credentials - logging in")
		default:
			return nil, errors.Wrap(err, "failed to load stored credentials")
		}
	}
	if s.Store.IsEmpty() {
		if _, err := s.Login(ctx); err != nil {
			return nil, err
		}
	}
	return mybox.NewClient(s.Opt, s.Store), nil
}

// SavePassword obscures password and saves it with the username in
// the config file
func (s *Session) SavePassword(username, password string) error {
	section := s.Config.Section(ConfigSection)
	if username != "" {
		section.Set("username", username)
	}
	obscured, err := obscure.Obscure(password)
	if err != nil {
		return err
	}
	section.Set("password", obscured)
	return s.Config.Save()
}
