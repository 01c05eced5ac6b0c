package mybox

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/myboxcli/mybox/backend/mybox/authstore"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/myboxcli/mybox/fs/config/obscure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptions(t *testing.T) {
	opt, err := ParseOptions(configmap.Simple{})
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions(), opt)

	m := configmap.Simple{
		"username":     "bob",
		"password":     obscure.MustObscure("pw"),
		"offline_mode": "true",
		"otp_timeout":  "30s",
		"api_url":      "http://127.0.0.1:1234/",
	}
	opt, err = ParseOptions(m)
	require.NoError(t, err)
	assert.Equal(t, "bob", opt.Username)
	assert.Equal(t, "pw", opt.Password)
	assert.True(t, opt.OfflineMode)
	assert.Equal(t, 30*time.Second, opt.OTPTimeout)
	assert.Equal(t, "http://127.0.0.1:1234", opt.APIURL)
	assert.Equal(t, DefaultFilesURL, opt.FilesURL)

	_, err = ParseOptions(configmap.Simple{"password": "not obscured!"})
	assert.Error(t, err)

	_, err = ParseOptions(configmap.Simple{"offline_mode": "potato"})
	assert.Error(t, err)
}

func TestLoginOptions(t *testing.T) {
	opt := DefaultOptions()
	opt.OfflineMode = true
	lopt := opt.LoginOptions()
	assert.Equal(t, opt.LoginURL, lopt.LoginURL)
	assert.Equal(t, opt.OTPURL, lopt.OTPURL)
	assert.Equal(t, opt.OTPTimeout, lopt.OTPTimeout)
	assert.True(t, lopt.OfflineMode)
}

func TestNewPersister(t *testing.T) {
	dir := t.TempDir()
	opt := DefaultOptions()

	p, err := NewPersister(opt, configmap.Simple{}, nil)
	require.NoError(t, err)
	assert.IsType(t, &authstore.ConfigStore{}, p)

	_, err = NewPersister(opt, nil, nil)
	assert.Error(t, err)

	opt.AuthStore = AuthStoreBolt
	opt.AuthFile = filepath.Join(dir, "auth.db")
	p, err = NewPersister(opt, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &authstore.BoltStore{}, p)

	opt.AuthStore = AuthStoreJSON
	opt.AuthFile = filepath.Join(dir, "auth.json")
	p, err = NewPersister(opt, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &authstore.JSONStore{}, p)

	opt.AuthStore = "potato"
	_, err = NewPersister(opt, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown auth_store")
}

func TestLoginNeedsCredentials(t *testing.T) {
	ctx := context.Background()
	opt := DefaultOptions()
	_, err := Login(ctx, opt, nil, credential.NewStore(), nil, nil)
	assert.EqualError(t, err, "no username configured")

	opt.Username = "bob"
	_, err = Login(ctx, opt, nil, credential.NewStore(), nil, nil)
	assert.EqualError(t, err, "no password configured")
}

func TestLoadCredentials(t *testing.T) {
	ctx := context.Background()
	m := configmap.Simple{}
	persist := authstore.NewConfigStore(m, nil)

	store := credential.NewStore()
	err := LoadCredentials(ctx, store, persist)
	assert.ErrorIs(t, err, authstore.ErrNotFound)
	assert.True(t, store.IsEmpty())

	require.NoError(t, persist.Save(ctx, credential.Triple{JKL: "jkl", AUT: "aut", SES: "ses"}))
	require.NoError(t, LoadCredentials(ctx, store, persist))
	assert.Equal(t, "aut", store.Get().AUT)

	// a filled store is left alone
	store.Set("j2", "a2", "s2")
	require.NoError(t, LoadCredentials(ctx, store, persist))
	assert.Equal(t, "a2", store.Get().AUT)
}
