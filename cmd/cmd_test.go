package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/myboxcli/mybox/backend/mybox"
	"github.com/myboxcli/mybox/backend/mybox/api"
	"github.com/myboxcli/mybox/backend/mybox/authstore"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/backend/mybox/nidlogin"
	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/myboxcli/mybox/fs/config/flags"
	"github.com/myboxcli/mybox/fs/config/obscure"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	for _, test := range []struct {
		err  error
		want int
	}{
		{nil, exitCodeSuccess},
		{errorNotEnoughArguments, exitCodeUsageError},
		{errors.Wrap(mybox.ErrorNotFound, "/potato"), exitCodeNotFound},
		{&nidlogin.UnsupportedMethodError{Method: "captcha"}, exitCodeUnsupportedLogin},
		{nidlogin.ErrOTPTimeout, exitCodeLoginError},
		{errors.Wrap(&nidlogin.TransportError{Op: "fetch keys", Err: errors.New("refused")}, "login"), exitCodeLoginError},
		{&nidlogin.ParseError{Element: "input#key"}, exitCodeLoginError},
		{errors.Wrap(&api.Error{Code: 9001, Message: "no session"}, "list failed"), exitCodeAPIError},
		{errors.New("potato"), exitCodeUncategorizedError},
	} {
		assert.Equal(t, test.want, exitCode(test.err), "%v", test.err)
	}
}

func newTestFlags(t *testing.T, args ...string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddBackendFlags(flagSet)
	require.NoError(t, flagSet.Parse(args))
	return flagSet
}

func TestAddBackendFlags(t *testing.T) {
	flagSet := newTestFlags(t, "--offline-mode")
	for _, opt := range mybox.OptionsInfo {
		assert.NotNil(t, flagSet.Lookup(flags.FlagName(opt.Name)), opt.Name)
	}
	assert.Equal(t, "3m0s", flagSet.Lookup("otp-timeout").DefValue)
	assert.Equal(t, mybox.DefaultAPIURL, flagSet.Lookup("api-url").DefValue)
	assert.Contains(t, flagSet.Lookup("password").Usage, "(obscured)")
	assert.Equal(t, "true", flagSet.Lookup("offline-mode").Value.String())

	// adding twice doesn't panic
	AddBackendFlags(flagSet)
}

func TestNewConfigMap(t *testing.T) {
	section := configmap.Simple{"username": "file", "auth_store": "json", "otp_timeout": "1m"}
	flagSet := newTestFlags(t, "--username", "flag")
	require.NoError(t, os.Setenv("MYBOX_AUTH_STORE", "bolt"))
	defer func() { _ = os.Unsetenv("MYBOX_AUTH_STORE") }()

	m := newConfigMap(flagSet, section)
	value, _ := m.Get("username")
	assert.Equal(t, "flag", value)
	value, _ = m.Get("auth_store")
	assert.Equal(t, "bolt", value)
	value, _ = m.Get("otp_timeout")
	assert.Equal(t, "1m", value)

	m.Set("nid_aut", "x")
	assert.Equal(t, "x", section["nid_aut"])
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "mybox.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewSession(t *testing.T) {
	path := writeConfig(t, "[mybox]\nusername = bob\npassword = "+obscure.MustObscure("pw")+"\notp_timeout = 10s\n")
	s, err := newSession(path, newTestFlags(t))
	require.NoError(t, err)
	assert.Equal(t, "bob", s.Opt.Username)
	assert.Equal(t, "pw", s.Opt.Password)
	assert.Equal(t, 10*time.Second, s.Opt.OTPTimeout)
	assert.IsType(t, &authstore.ConfigStore{}, s.Persist)
	assert.True(t, s.Store.IsEmpty())

	// missing config file is fine
	s, err = newSession(filepath.Join(t.TempDir(), "missing.conf"), nil)
	require.NoError(t, err)
	assert.Equal(t, "", s.Opt.Username)

	_, err = newSession(path, newTestFlags(t, "--auth-store", "potato"))
	assert.Error(t, err)
}

func TestSessionClientOfflineStored(t *testing.T) {
	ctx := context.Background()
	path := writeConfig(t, "[mybox]\noffline_mode = true\n")
	s, err := newSession(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Persist.Save(ctx, credential.Triple{AUT: "aut", SES: "ses"}))

	c, err := s.Client(ctx)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Equal(t, "aut", s.Store.Get().AUT)

	// the credentials were saved to the config file
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "nid_aut")
}

func TestSessionClientNeedsLogin(t *testing.T) {
	ctx := context.Background()
	s, err := newSession(writeConfig(t, ""), nil)
	require.NoError(t, err)
	s.Prompt = nil
	_, err = s.Client(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no username configured")

	s.Opt.Username = "bob"
	s.Prompt = func(prompt string) (string, error) {
		assert.Contains(t, prompt, "bob")
		return "", errors.New("no terminal")
	}
	_, err = s.Login(ctx)
	assert.EqualError(t, err, "no terminal")
}

func TestSessionOnOTP(t *testing.T) {
	s, err := newSession(writeConfig(t, ""), nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	s.Out = &buf
	s.onOTP(nidlogin.Challenge{TokenPush: "T", Key: "K"})
	assert.Contains(t, buf.String(), "approve it within 3m0s")
}

func TestSavePassword(t *testing.T) {
	path := writeConfig(t, "")
	s, err := newSession(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.SavePassword("bob", "secret"))

	s, err = newSession(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "bob", s.Opt.Username)
	assert.Equal(t, "secret", s.Opt.Password)
}

func TestPrintItems(t *testing.T) {
	date := time.Date(2023, 7, 4, 9, 44, 23, 0, time.Local)
	items := []*api.Item{
		{ResourceKey: "D", Path: "/photos/", Name: "photos", Type: api.TypeFolder, UpdateDate: date},
		{ResourceKey: "F", Path: "/photos/cat.jpg", Name: "cat.jpg", Type: api.TypeFile, Size: 2048, CreateDate: date},
	}
	var buf bytes.Buffer
	require.NoError(t, PrintItems(&buf, items, ListFormat{}))
	assert.Equal(t, ""+
		"d        -1 2023-07-04 09:44:23 /photos/\n"+
		"-      2048 2023-07-04 09:44:23 /photos/cat.jpg\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintItems(&buf, items[1:], ListFormat{Human: true, Keys: true}))
	assert.Equal(t, "-   2.0 KiB 2023-07-04 09:44:23 F /photos/cat.jpg\n", buf.String())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	d, err = ParseDate("2023-07-04")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())
	assert.Equal(t, time.July, d.Month())

	_, err = ParseDate("04/07/2023")
	assert.Error(t, err)
}
