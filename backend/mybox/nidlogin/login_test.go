package nidlogin

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/lib/lzstring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testKeyOnce sync.Once
	testKey     *rsa.PrivateKey
)

func getTestKey(t *testing.T) *rsa.PrivateKey {
	testKeyOnce.Do(func() {
		var err error
		testKey, err = rsa.GenerateKey(rand.Reader, 1024)
		require.NoError(t, err)
	})
	return testKey
}

// fakeNID emulates the parts of the NID login server we talk to
type fakeNID struct {
	t          *testing.T
	key        *rsa.PrivateKey
	keysPage   string // returned for the form GET, generated if empty
	submitPage string // returned for the credentials POST
	events     string // OTP event stream
	otpBlock   bool   // block the OTP stream until the client gives up
	otpAccept  bool   // issue session cookies on the OTP acknowledgement
	mu         sync.Mutex
	plaintext  []byte
	submitted  map[string]string
	acked      map[string]string
	otpSession string
	userAgent  string
}

func newFakeNID(t *testing.T) *fakeNID {
	return &fakeNID{t: t, key: getTestKey(t)}
}

func (f *fakeNID) setSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "NID_AUT", Value: "aut", Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: "NID_SES", Value: "ses", Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: "NID_JKL", Value: "jkl", Path: "/"})
}

func formMap(r *http.Request) map[string]string {
	out := map[string]string{}
	for k, v := range r.PostForm {
		out[k] = v[0]
	}
	return out
}

func (f *fakeNID) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t := f.t
	switch {
	case r.URL.Path == "/nidlogin.login" && r.Method == "GET":
		f.mu.Lock()
		f.userAgent = r.Header.Get("User-Agent")
		f.mu.Unlock()
		assert.Equal(t, "form", r.URL.Query().Get("mode"))
		assert.Equal(t, "262144", r.URL.Query().Get("svctype"))
		page := f.keysPage
		if page == "" {
			page = fmt.Sprintf(`<html><body><form>
<input type="hidden" id="session_keys" value="S1,KEYNAME,%x,%s">
<input type="hidden" id="dynamicKey" value="DYN">
</form></body></html>`, f.key.E, f.key.N.Text(16))
		}
		_, _ = w.Write([]byte(page))
	case r.URL.Path == "/nidlogin.login" && r.Method == "POST" && r.URL.Query().Get("mode") == "form":
		require.NoError(t, r.ParseForm())
		ciphertext, err := hex.DecodeString(r.PostForm.Get("encpw"))
		require.NoError(t, err)
		plaintext, err := rsa.DecryptPKCS1v15(nil, f.key, ciphertext)
		require.NoError(t, err)
		f.mu.Lock()
		f.plaintext = plaintext
		f.submitted = formMap(r)
		f.mu.Unlock()
		if strings.Contains(f.submitPage, "location") {
			f.setSession(w)
		}
		_, _ = w.Write([]byte(f.submitPage))
	case r.URL.Path == "/nidlogin.login" && r.Method == "POST":
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.acked = formMap(r)
		f.mu.Unlock()
		if f.otpAccept {
			f.setSession(w)
		}
		_, _ = w.Write([]byte("<html></html>"))
	case r.URL.Path == "/push/otp":
		f.mu.Lock()
		f.otpSession = r.URL.Query().Get("session")
		f.mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(f.events))
		w.(http.Flusher).Flush()
		if f.otpBlock {
			<-r.Context().Done()
		}
	default:
		http.NotFound(w, r)
	}
}

const otpPage = `<html><body><form>
<input type="hidden" id="otp" value="">
<input type="hidden" id="token_push" value="TOKEN">
<input type="hidden" id="key" value="OTPKEY">
</form></body></html>`

func newTestAuthenticator(t *testing.T, f *fakeNID, opt Options, persist Persister) (*Authenticator, *credential.Store, func()) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return newTestAuthenticatorClient(t, f, opt, persist, &http.Client{Jar: jar})
}

func newTestAuthenticatorClient(t *testing.T, f *fakeNID, opt Options, persist Persister, client *http.Client) (*Authenticator, *credential.Store, func()) {
	srv := httptest.NewServer(f)
	opt.LoginURL = srv.URL + "/nidlogin.login"
	opt.OTPURL = srv.URL + "/push/otp"
	opt.NewID = func() string { return "corr" }
	store := credential.NewStore()
	a := New(opt, client, store, persist)
	return a, store, srv.Close
}

// seedJar puts session cookies from an earlier login into the jar
func seedJar(t *testing.T, a *Authenticator, value string) {
	u, err := url.Parse(a.opt.LoginURL)
	require.NoError(t, err)
	var cookies []*http.Cookie
	for _, name := range credential.CookieNames {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	a.client.Jar.SetCookies(u, cookies)
}

type memPersister struct {
	t     credential.Triple
	saved int
}

func (m *memPersister) Load(ctx context.Context) (credential.Triple, error) {
	return m.t, nil
}

func (m *memPersister) Save(ctx context.Context, t credential.Triple) error {
	m.t = t
	m.saved++
	return nil
}

var wantTriple = credential.Triple{JKL: "jkl", AUT: "aut", SES: "ses"}

func TestLoginSuccess(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = `<script>location.replace("https://www.naver.com");</script>`
	a, store, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.NoError(t, res.Err())
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, StateSuccess, a.State())
	assert.Equal(t, wantTriple, res.Credentials)
	assert.Equal(t, wantTriple, store.Get())
	assert.Nil(t, res.Challenge)

	assert.Equal(t, "\x02S1\x03bob\x02pw", string(f.plaintext))
	assert.Equal(t, DefaultUserAgent, f.userAgent)
	for k, v := range map[string]string{
		"dynamicKey":  "DYN",
		"enctp":       "1",
		"svctype":     "1",
		"smart_LEVEL": "-1",
		"encnm":       "KEYNAME",
		"locale":      "ko_KR",
		"url":         DefaultReturnURL,
	} {
		assert.Equal(t, v, f.submitted[k], k)
	}
	var got bvsd
	require.NoError(t, json.Unmarshal([]byte(f.submitted["bvsd"]), &got))
	assert.Equal(t, "corr", got.UUID)
}

func TestLoginOTP(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = "event: otp\ndata: {\"result\":\"ok\"}\n\ndata: not json\n\n"
	f.otpAccept = true
	var challenges []Challenge
	a, store, cleanup := newTestAuthenticator(t, f, Options{
		OnOTPPending: func(c Challenge) {
			challenges = append(challenges, c)
		},
	}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, wantTriple, store.Get())
	require.NotNil(t, res.Challenge)
	assert.Equal(t, Challenge{TokenPush: "TOKEN", Key: "OTPKEY"}, *res.Challenge)
	assert.Equal(t, []Challenge{{TokenPush: "TOKEN", Key: "OTPKEY"}}, challenges)

	assert.Equal(t, "TOKEN", f.otpSession)
	assert.Equal(t, map[string]string{
		"mode":       "otp",
		"auto":       "",
		"token_push": "TOKEN",
		"locale":     "ko_KR",
		"key":        "OTPKEY",
		"otp":        "",
	}, f.acked)
}

func TestLoginOTPRejected(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = "data: {}\n\n"
	a, store, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	assert.Equal(t, ErrOTPRejected, err)
	assert.Equal(t, StateFailure, res.State)
	assert.Equal(t, StateFailure, a.State())
	assert.True(t, store.IsEmpty())
	assert.Error(t, res.Err())
}

func TestLoginOTPRejectedOldCookies(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = "data: {}\n\n"
	a, store, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()
	seedJar(t, a, "old")

	res, err := a.Login(context.Background(), "bob", "pw")
	assert.Equal(t, ErrOTPRejected, err)
	assert.Equal(t, StateFailure, res.State)
	assert.Equal(t, credential.Triple{}, res.Credentials)
	assert.True(t, store.IsEmpty())
}

func TestLoginOTPReplacesOldCookies(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = "data: {}\n\n"
	f.otpAccept = true
	a, store, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()
	seedJar(t, a, "old")

	res, err := a.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, res.State)
	assert.Equal(t, wantTriple, store.Get())
}

func TestSessionCookiesFromJar(t *testing.T) {
	f := newFakeNID(t)
	a, _, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()
	seedJar(t, a, "old")
	before := a.jarSession(nil)
	assert.Equal(t, credential.Triple{JKL: "old", AUT: "old", SES: "old"}, before)

	// cookies set on a redirect only show up in the jar
	u, err := url.Parse(a.opt.LoginURL)
	require.NoError(t, err)
	a.client.Jar.SetCookies(u, []*http.Cookie{{Name: "NID_AUT", Value: "new", Path: "/"}})
	resp := &http.Response{
		Header:  http.Header{"Set-Cookie": {"NID_SES=fresh; Path=/"}},
		Request: &http.Request{URL: u},
	}
	got := a.sessionCookies(resp, before)
	assert.Equal(t, credential.Triple{AUT: "new", SES: "fresh"}, got)
}

func TestLoginOTPTimeout(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = ": waiting\n\n"
	f.otpBlock = true
	a, store, cleanup := newTestAuthenticator(t, f, Options{OTPTimeout: 100 * time.Millisecond}, nil)
	defer cleanup()

	start := time.Now()
	res, err := a.Login(context.Background(), "bob", "pw")
	assert.Equal(t, ErrOTPTimeout, err)
	assert.Equal(t, StateFailure, res.State)
	assert.True(t, store.IsEmpty())
	assert.Less(t, int64(time.Since(start)), int64(10*time.Second))
	assert.Nil(t, f.acked)
}

func TestLoginOTPIdleTimeout(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = ": waiting\n\n"
	f.otpBlock = true
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar, Timeout: 500 * time.Millisecond}
	a, store, cleanup := newTestAuthenticatorClient(t, f, Options{OTPTimeout: time.Minute}, nil, client)
	defer cleanup()

	// the connection gives up before OTPTimeout does
	res, err := a.Login(context.Background(), "bob", "pw")
	assert.Equal(t, ErrOTPTimeout, err)
	assert.Equal(t, StateFailure, res.State)
	assert.True(t, store.IsEmpty())
}

func TestNewStreamClient(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte("data: ok\n\n"))
	}))
	defer ts.Close()

	ci := fs.NewConfig()
	ci.Timeout = 100 * time.Millisecond
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := newStreamClient(ci, jar, time.Second)
	assert.Equal(t, 100*time.Millisecond, ci.Timeout, "config not modified")
	assert.Equal(t, jar, c.Jar)

	// idle for longer than ci.Timeout but within the OTP timeout
	resp, err := c.Get(ts.URL)
	require.NoError(t, err)
	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "data: ok\n\n", string(body))
}

func TestLoginOTPBadStream(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = otpPage
	f.events = "data: \xff\xfe\n\n"
	a, _, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	var decodeErr *StreamDecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, StateFailure, res.State)
	assert.Nil(t, f.acked)
}

func TestLoginOTPMissingToken(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = `<input id="otp"><input id="key" value="K">`
	a, _, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "input#token_push", parseErr.Element)
	assert.Equal(t, StateFailure, res.State)
}

func TestLoginUnsupported(t *testing.T) {
	for _, test := range []struct {
		page   string
		method string
	}{
		{`<div id="captcha_area"></div>`, "captcha"},
		{`<img class="qrcode">`, "qr"},
		{`<input id="otn" type="text">`, "otn"},
		{`<html>something else</html>`, "unknown"},
	} {
		f := newFakeNID(t)
		f.submitPage = test.page
		a, store, cleanup := newTestAuthenticator(t, f, Options{}, nil)

		res, err := a.Login(context.Background(), "bob", "pw")
		require.NoError(t, err, test.page)
		assert.Equal(t, StateUnsupported, res.State, test.page)
		assert.Equal(t, test.method, res.Method, test.page)
		var unsupported *UnsupportedMethodError
		require.ErrorAs(t, res.Err(), &unsupported, test.page)
		assert.Equal(t, test.method, unsupported.Method)
		assert.True(t, store.IsEmpty())
		cleanup()
	}
}

func TestLoginMissingKeys(t *testing.T) {
	for _, test := range []struct {
		page    string
		element string
	}{
		{`<html></html>`, "input#session_keys"},
		{`<input id="session_keys">`, "input#session_keys"},
		{`<input id="session_keys" value="a,b,c">`, "input#session_keys"},
		{`<input id="session_keys" value="a,b,10001,ff">`, "input#dynamicKey"},
	} {
		f := newFakeNID(t)
		f.keysPage = test.page
		a, _, cleanup := newTestAuthenticator(t, f, Options{}, nil)

		res, err := a.Login(context.Background(), "bob", "pw")
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr, test.page)
		assert.Equal(t, test.element, parseErr.Element, test.page)
		assert.Equal(t, StateFailure, res.State)
		assert.Nil(t, f.submitted)
		cleanup()
	}
}

func TestLoginBadKeyHex(t *testing.T) {
	f := newFakeNID(t)
	f.keysPage = `<input id="session_keys" value="S1,KEYNAME,10001,xyz"><input id="dynamicKey" value="D">`
	a, _, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	var cryptoErr *CryptoError
	require.ErrorAs(t, err, &cryptoErr)
	assert.Equal(t, "parse modulus", cryptoErr.Op)
	assert.Equal(t, StateFailure, res.State)
	assert.Nil(t, f.submitted)
}

func TestLoginTooLong(t *testing.T) {
	f := newFakeNID(t)
	a, _, cleanup := newTestAuthenticator(t, f, Options{}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", strings.Repeat("x", 256))
	var cryptoErr *CryptoError
	require.ErrorAs(t, err, &cryptoErr)
	assert.Equal(t, StateFailure, res.State)
	assert.Nil(t, f.submitted)
}

func TestLoginTransportError(t *testing.T) {
	a := New(Options{LoginURL: "http://127.0.0.1:1/nidlogin.login"}, &http.Client{}, nil, nil)
	res, err := a.Login(context.Background(), "bob", "pw")
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "fetch keys", transportErr.Op)
	assert.Equal(t, StateFailure, res.State)
}

func TestLoginOffline(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = `location.href = "/"`
	persist := &memPersister{t: credential.Triple{AUT: "old-aut", SES: "old-ses"}}
	a, store, cleanup := newTestAuthenticator(t, f, Options{OfflineMode: true}, persist)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	require.NoError(t, err)
	assert.True(t, res.OK())
	assert.Equal(t, 1, persist.saved)
	assert.Equal(t, wantTriple, persist.t)
	// the store only sees what was loaded before the attempt
	assert.Equal(t, credential.Triple{AUT: "old-aut", SES: "old-ses"}, store.Get())
}

func TestLoginOfflineNoPersister(t *testing.T) {
	f := newFakeNID(t)
	f.submitPage = `location.href = "/"`
	a, _, cleanup := newTestAuthenticator(t, f, Options{OfflineMode: true}, nil)
	defer cleanup()

	res, err := a.Login(context.Background(), "bob", "pw")
	require.Error(t, err)
	assert.Equal(t, StateFailure, res.State)
}

func TestStateString(t *testing.T) {
	for _, test := range []struct {
		in   State
		want string
	}{
		{StateInit, "INIT"},
		{StateKeysFetched, "KEYS_FETCHED"},
		{StateEncrypted, "ENCRYPTED"},
		{StateSubmitted, "SUBMITTED"},
		{StateSuccess, "SUCCESS"},
		{StateOTPPending, "OTP_PENDING"},
		{StateUnsupported, "UNSUPPORTED"},
		{StateFailure, "FAILURE"},
		{State(42), "State(42)"},
	} {
		assert.Equal(t, test.want, test.in.String())
	}
}

func TestCredentialPayload(t *testing.T) {
	got, err := credentialPayload("S1", "bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, "\x02S1\x03bob\x02pw", string(got))

	// lengths count characters, not bytes
	got, err = credentialPayload("키")
	require.NoError(t, err)
	assert.Equal(t, "\x01키", string(got))

	// the longest component gets a two byte prefix once UTF-8 encoded
	got, err = credentialPayload(strings.Repeat("a", 255))
	require.NoError(t, err)
	assert.Equal(t, "ÿ"+strings.Repeat("a", 255), string(got))

	_, err = credentialPayload(strings.Repeat("a", 256))
	var cryptoErr *CryptoError
	require.ErrorAs(t, err, &cryptoErr)
}

// decodePayload splits a credential payload back into its components
func decodePayload(payload []byte) (components []string, err error) {
	runes := []rune(string(payload))
	for len(runes) > 0 {
		n := int(runes[0])
		if n > len(runes)-1 {
			return nil, fmt.Errorf("component of %d characters overruns payload", n)
		}
		components = append(components, string(runes[1:1+n]))
		runes = runes[1+n:]
	}
	return components, nil
}

func TestCredentialPayloadDecodes(t *testing.T) {
	for _, unit := range []string{"a", "키", "é", "a키"} {
		for _, n := range []int{0, 1, 2, 63, 127, 128, 200, 254, 255} {
			var text []rune
			for len(text) < n {
				text = append(text, []rune(unit)...)
			}
			text = text[:n]
			for _, parts := range [][]string{
				{"S1", string(text), "pw"},
				{"S1", "bob", string(text)},
				{"S1", string(text), string(text)},
			} {
				payload, err := credentialPayload(parts...)
				require.NoError(t, err)
				got, err := decodePayload(payload)
				require.NoError(t, err)
				assert.Equal(t, parts, got, "unit %q length %d", unit, n)
			}
		}
	}
}

func TestEncryptCredentials(t *testing.T) {
	key := getTestKey(t)
	out, err := encryptCredentials(rand.Reader, &key.PublicKey, "S1", "bob", "pw")
	require.NoError(t, err)
	ciphertext, err := hex.DecodeString(out)
	require.NoError(t, err)
	assert.Equal(t, key.Size(), len(ciphertext))
	plaintext, err := rsa.DecryptPKCS1v15(nil, key, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "\x02S1\x03bob\x02pw", string(plaintext))
}

func TestNewPublicKey(t *testing.T) {
	pub, err := newPublicKey("10001", "c0ffee")
	require.NoError(t, err)
	assert.Equal(t, 65537, pub.E)
	assert.Equal(t, "c0ffee", pub.N.Text(16))

	for _, test := range []struct {
		e, n string
		op   string
	}{
		{"10001", "", "parse modulus"},
		{"10001", "zz", "parse modulus"},
		{"", "ff", "parse exponent"},
		{"q", "ff", "parse exponent"},
		{"1", "ff", "parse exponent"},
		{"100000000", "ff", "parse exponent"},
	} {
		_, err := newPublicKey(test.e, test.n)
		var cryptoErr *CryptoError
		require.ErrorAs(t, err, &cryptoErr, test)
		assert.Equal(t, test.op, cryptoErr.Op, test)
	}
}

func TestMakeBVSD(t *testing.T) {
	out, err := makeBVSD("bob", "pw", "corr")
	require.NoError(t, err)
	var got bvsd
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "corr", got.UUID)
	encData, err := lzstring.DecompressFromEncodedURIComponent(got.EncData)
	require.NoError(t, err)
	assert.Equal(t, `{"a": "corr-4", "b": "1.3.4", "d": [{"i": "id", "b": {"a": ["0", "bob"]}, "d": "bob", "e": "false", "f": "false"}, {"i": "pw", "e": "true", "f": "false"}], "h": "1f", "i": {"a": "Mozilla/5.0"}}`, encData)
	assert.True(t, strings.HasPrefix(out, `{"uuid": "corr", "encData": "`), out)
}

func TestMarshal(t *testing.T) {
	out, err := marshal(map[string]interface{}{"a": []string{}, "b": "x, y: <z>", "c": map[string]int{"d": 1}})
	require.NoError(t, err)
	assert.Equal(t, `{"a": [], "b": "x, y: <z>", "c": {"d": 1}}`, out)
}

func TestSniffMethod(t *testing.T) {
	assert.Equal(t, "captcha", sniffMethod("<div>CAPTCHA</div>"))
	assert.Equal(t, "qr", sniffMethod(`<div id="qr_code">`))
	assert.Equal(t, "otn", sniffMethod("enter your one time number"))
	assert.Equal(t, "unknown", sniffMethod(""))
}
