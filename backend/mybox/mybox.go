// Package mybox is a client for NAVER MYBOX.
//
// It logs in with nidlogin and talks to the MYBOX web API using the
// resulting session cookies.
package mybox

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/myboxcli/mybox/backend/mybox/authstore"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/backend/mybox/nidlogin"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/myboxcli/mybox/fs/config/configstruct"
	"github.com/myboxcli/mybox/fs/config/obscure"
	"github.com/myboxcli/mybox/lib/env"
	"github.com/pkg/errors"
)

// Constants
const (
	DefaultAPIURL    = "https://api.mybox.naver.com"
	DefaultFilesURL  = "https://files.mybox.naver.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/113.0.0.0 Safari/537.36 Edg/113.0.1774.50"
	svcType          = "NHN/ND-WEB Ver"
	rootKey          = "root"
	defaultPagingRow = 200
	pathCacheExpiry  = time.Minute
)

// Ways of persisting credentials in offline mode
const (
	AuthStoreConfig = "config"
	AuthStoreBolt   = "bolt"
	AuthStoreJSON   = "json"
)

// Options defines the configuration for the client
type Options struct {
	Username    string        `config:"username"`
	Password    string        `config:"password"`
	OfflineMode bool          `config:"offline_mode"`
	AuthStore   string        `config:"auth_store"`
	AuthFile    string        `config:"auth_file"`
	OTPTimeout  time.Duration `config:"otp_timeout"`
	UserAgent   string        `config:"user_agent"`
	LoginURL    string        `config:"login_url"`
	OTPURL      string        `config:"otp_url"`
	APIURL      string        `config:"api_url"`
	FilesURL    string        `config:"files_url"`
}

// OptionInfo describes one of the Options
type OptionInfo struct {
	Name       string
	Help       string
	IsPassword bool // value must be obscured
}

// OptionsInfo describes the Options in the order they are shown
var OptionsInfo = []OptionInfo{
	{Name: "username", Help: "NAVER ID"},
	{Name: "password", Help: "NAVER password", IsPassword: true},
	{Name: "offline_mode", Help: "Keep credentials in the auth store between runs"},
	{Name: "auth_store", Help: "Where offline credentials are kept: config, bolt or json"},
	{Name: "auth_file", Help: "File used by the bolt and json auth stores, ~ and $VARS are expanded"},
	{Name: "otp_timeout", Help: "How long to wait for the OTP push to be approved"},
	{Name: "user_agent", Help: "User agent sent to the MYBOX API"},
	{Name: "login_url", Help: "NID login endpoint"},
	{Name: "otp_url", Help: "NID OTP push event stream endpoint"},
	{Name: "api_url", Help: "MYBOX API root"},
	{Name: "files_url", Help: "MYBOX file transfer root"},
}

// DefaultOptions returns the options with all the defaults set
func DefaultOptions() *Options {
	return &Options{
		AuthStore:  AuthStoreConfig,
		OTPTimeout: nidlogin.DefaultOTPTimeout,
		UserAgent:  DefaultUserAgent,
		LoginURL:   nidlogin.DefaultLoginURL,
		OTPURL:     nidlogin.DefaultOTPURL,
		APIURL:     DefaultAPIURL,
		FilesURL:   DefaultFilesURL,
	}
}

// ParseOptions reads the Options out of m, revealing the password
func ParseOptions(m configmap.Getter) (*Options, error) {
	opt := DefaultOptions()
	err := configstruct.Set(m, opt)
	if err != nil {
		return nil, err
	}
	if opt.Password != "" {
		opt.Password, err = obscure.Reveal(opt.Password)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't decrypt password")
		}
	}
	opt.APIURL = strings.TrimSuffix(opt.APIURL, "/")
	opt.FilesURL = strings.TrimSuffix(opt.FilesURL, "/")
	return opt, nil
}

// NewPersister returns the credential persister chosen by
// opt.AuthStore. m is the config section used by the "config" store
// and save persists it.
func NewPersister(opt *Options, m configmap.Mapper, save func() error) (nidlogin.Persister, error) {
	switch opt.AuthStore {
	case "", AuthStoreConfig:
		if m == nil {
			return nil, errors.New("auth_store config needs a config section")
		}
		return authstore.NewConfigStore(m, save), nil
	case AuthStoreBolt:
		file := opt.AuthFile
		if file == "" {
			file = "auth.db"
		}
		return authstore.NewBoltStore(env.ShellExpand(file)), nil
	case AuthStoreJSON:
		return authstore.NewJSONStore(env.ShellExpand(opt.AuthFile)), nil
	}
	return nil, errors.Errorf("unknown auth_store %q - use %q, %q or %q", opt.AuthStore, AuthStoreConfig, AuthStoreBolt, AuthStoreJSON)
}

// LoginOptions returns the nidlogin options for opt
func (opt *Options) LoginOptions() nidlogin.Options {
	return nidlogin.Options{
		LoginURL:    opt.LoginURL,
		OTPURL:      opt.OTPURL,
		OTPTimeout:  opt.OTPTimeout,
		OfflineMode: opt.OfflineMode,
	}
}

// Login logs in with the configured username and password.
//
// client may be nil in which case a new one is made. On success the
// credentials end up in store (or persist in offline mode).
func Login(ctx context.Context, opt *Options, client *http.Client, store *credential.Store, persist nidlogin.Persister, onOTP func(nidlogin.Challenge)) (*nidlogin.Result, error) {
	if opt.Username == "" {
		return nil, errors.New("no username configured")
	}
	if opt.Password == "" {
		return nil, errors.New("no password configured")
	}
	lopt := opt.LoginOptions()
	lopt.OnOTPPending = onOTP
	a := nidlogin.New(lopt, client, store, persist)
	res, err := a.Login(ctx, opt.Username, opt.Password)
	if err != nil {
		return res, err
	}
	if !res.OK() {
		return res, res.Err()
	}
	fs.Infof(nil, "Logged in as %q", opt.Username)
	return res, nil
}

// LoadCredentials fills store from persist if it is empty
func LoadCredentials(ctx context.Context, store *credential.Store, persist nidlogin.Persister) error {
	if !store.IsEmpty() {
		return nil
	}
	t, err := persist.Load(ctx)
	if err != nil {
		return err
	}
	store.SetTriple(t)
	return nil
}
