package configstruct_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/myboxcli/mybox/fs/config/configmap"
	"github.com/myboxcli/mybox/fs/config/configstruct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conf struct {
	A string
	B string
}

type conf2 struct {
	UserName    string `config:"username"`
	OfflineMode bool
	RetryCount  int
	ChunkSize   int64
	PageSize    uint
	OTPTimeout  time.Duration `config:"otp_timeout"`
}

func TestItemsError(t *testing.T) {
	_, err := configstruct.Items(nil)
	assert.EqualError(t, err, "argument must be a pointer")
	_, err = configstruct.Items(new(int))
	assert.EqualError(t, err, "argument must be a pointer to a struct")
}

func TestItems(t *testing.T) {
	in := &conf2{
		UserName:    "bob",
		OfflineMode: true,
		RetryCount:  42,
		ChunkSize:   101,
		PageSize:    6,
		OTPTimeout:  42 * time.Second,
	}
	got, err := configstruct.Items(in)
	require.NoError(t, err)
	want := []configstruct.Item{
		{Name: "username", Field: "UserName", Num: 0, Value: string("bob")},
		{Name: "offline_mode", Field: "OfflineMode", Num: 1, Value: true},
		{Name: "retry_count", Field: "RetryCount", Num: 2, Value: int(42)},
		{Name: "chunk_size", Field: "ChunkSize", Num: 3, Value: int64(101)},
		{Name: "page_size", Field: "PageSize", Num: 4, Value: uint(6)},
		{Name: "otp_timeout", Field: "OTPTimeout", Num: 5, Value: 42 * time.Second},
	}
	assert.Equal(t, want, got)
}

func TestSetBasics(t *testing.T) {
	c := &conf{A: "one", B: "two"}
	err := configstruct.Set(configmap.Simple{}, c)
	require.NoError(t, err)
	assert.Equal(t, &conf{A: "one", B: "two"}, c)
}

func TestSetMore(t *testing.T) {
	c := &conf{A: "one", B: "two"}
	m := configmap.Simple{
		"a": "ONE",
	}
	err := configstruct.Set(m, c)
	require.NoError(t, err)
	assert.Equal(t, &conf{A: "ONE", B: "two"}, c)
}

func TestSetFull(t *testing.T) {
	in := &conf2{
		UserName:    "bob",
		OfflineMode: true,
		RetryCount:  42,
		ChunkSize:   101,
		PageSize:    6,
		OTPTimeout:  42 * time.Second,
	}
	m := configmap.Simple{
		"username":     "alice",
		"offline_mode": "FALSE",
		"retry_count":  "43 ",
		"chunk_size":   " 102 ",
		"page_size":    "0x7",
		"otp_timeout":  "3m",
	}
	want := &conf2{
		UserName:    "alice",
		OfflineMode: false,
		RetryCount:  43,
		ChunkSize:   102,
		PageSize:    7,
		OTPTimeout:  3 * time.Minute,
	}
	err := configstruct.Set(m, in)
	require.NoError(t, err)
	assert.Equal(t, want, in)
}

func TestSetEmptyIsUnset(t *testing.T) {
	in := &conf2{OTPTimeout: time.Minute, RetryCount: 3}
	err := configstruct.Set(configmap.Simple{"otp_timeout": "", "retry_count": ""}, in)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, in.OTPTimeout)
	assert.Equal(t, 3, in.RetryCount)
}

func TestSetError(t *testing.T) {
	in := &conf2{}
	err := configstruct.Set(configmap.Simple{"otp_timeout": "soon"}, in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `couldn't parse config item "otp_timeout" = "soon"`)
}

func TestStringToInterface(t *testing.T) {
	item := struct{ A int }{2}
	for _, test := range []struct {
		in   string
		def  interface{}
		want interface{}
		err  string
	}{
		{"", string(""), "", ""},
		{"   string   ", string(""), "   string   ", ""},
		{"123", int(0), int(123), ""},
		{"0x123", int(0), int(0x123), ""},
		{"   0x123   ", int(0), int(0x123), ""},
		{"-123", int(0), int(-123), ""},
		{"0", false, false, ""},
		{"1", false, true, ""},
		{"FALSE", false, false, ""},
		{"true", false, true, ""},
		{" true ", false, true, ""},
		{"7", false, nil, `parsing "7" as bool failed`},
		{"123", uint(0), uint(123), ""},
		{"123", int64(0), int64(123), ""},
		{"123x", int64(0), nil, `parsing "123x" as int64 failed`},
		{"struct", item, nil, `parsing "struct" as struct { A int } failed`},
		{"1s", time.Duration(0), time.Second, ""},
		{"1m1s", time.Duration(0), 61 * time.Second, ""},
		{"1potato", time.Duration(0), nil, `parsing "1potato" as duration failed`},
	} {
		what := fmt.Sprintf("parse %q as %T", test.in, test.def)
		got, err := configstruct.StringToInterface(test.def, test.in)
		if test.err == "" {
			require.NoError(t, err, what)
			assert.Equal(t, test.want, got, what)
		} else {
			assert.Nil(t, got, what)
			require.Error(t, err, what)
			assert.Contains(t, err.Error(), test.err, what)
		}
	}
}
