// Package nidlogin logs in to NAVER (NID) the way the mobile web login
// form does, including the OTP push confirmation.
//
// A login attempt moves through these states
//
//	INIT -> KEYS_FETCHED -> ENCRYPTED -> SUBMITTED -> SUCCESS
//	                                              \-> OTP_PENDING -> SUCCESS | FAILURE
//	                                              \-> UNSUPPORTED
//
// and any error on the way ends in FAILURE.
package nidlogin

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/fs/fshttp"
	"github.com/myboxcli/mybox/lib/rest"
	"github.com/pkg/errors"
)

// Defaults for Options
const (
	DefaultLoginURL   = "https://nid.naver.com/nidlogin.login"
	DefaultOTPURL     = "https://nid.naver.com/push/otp"
	DefaultReturnURL  = "https://www.naver.com"
	DefaultUserAgent  = "Mozilla/5.0 (iPod; CPU iPhone OS 14_5 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/87.0.4280.163 Mobile/15E148 Safari/604.1"
	DefaultOTPTimeout = 3 * time.Minute
)

// State of a login attempt
type State int

// Login states
const (
	StateInit State = iota
	StateKeysFetched
	StateEncrypted
	StateSubmitted
	StateSuccess
	StateOTPPending
	StateUnsupported
	StateFailure
)

var stateToString = []string{
	StateInit:        "INIT",
	StateKeysFetched: "KEYS_FETCHED",
	StateEncrypted:   "ENCRYPTED",
	StateSubmitted:   "SUBMITTED",
	StateSuccess:     "SUCCESS",
	StateOTPPending:  "OTP_PENDING",
	StateUnsupported: "UNSUPPORTED",
	StateFailure:     "FAILURE",
}

// String turns a State into a string
func (s State) String() string {
	if s < 0 || int(s) >= len(stateToString) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateToString[s]
}

// Persister saves and loads credentials outside the process. It is
// used instead of the credential.Store in offline mode.
type Persister interface {
	Load(ctx context.Context) (credential.Triple, error)
	Save(ctx context.Context, t credential.Triple) error
}

// Challenge is the OTP push the server is waiting on
type Challenge struct {
	TokenPush string
	Key       string
}

// Options configure an Authenticator
type Options struct {
	LoginURL    string        // login form endpoint
	OTPURL      string        // OTP push event stream endpoint
	ReturnURL   string        // where the login form says to go afterwards
	UserAgent   string        // browser user agent to present
	OTPTimeout  time.Duration // how long to wait for the push confirmation
	OfflineMode bool          // persist credentials with the Persister instead of the Store

	// OnOTPPending, if set, is called when the server sends an OTP
	// push so the user can be told to approve it
	OnOTPPending func(Challenge)

	// Rand is the entropy source for encryption, crypto/rand if nil
	Rand io.Reader

	// NewID returns the fingerprint correlation id, a random UUID if nil
	NewID func() string
}

// setDefaults fills in any unset options
func (opt *Options) setDefaults() {
	if opt.LoginURL == "" {
		opt.LoginURL = DefaultLoginURL
	}
	if opt.OTPURL == "" {
		opt.OTPURL = DefaultOTPURL
	}
	if opt.ReturnURL == "" {
		opt.ReturnURL = DefaultReturnURL
	}
	if opt.UserAgent == "" {
		opt.UserAgent = DefaultUserAgent
	}
	if opt.OTPTimeout <= 0 {
		opt.OTPTimeout = DefaultOTPTimeout
	}
	if opt.Rand == nil {
		opt.Rand = rand.Reader
	}
	if opt.NewID == nil {
		opt.NewID = func() string {
			return uuid.New().String()
		}
	}
}

// Result is the outcome of a login attempt
type Result struct {
	State       State
	Method      string            // login method the server asked for when UNSUPPORTED
	Credentials credential.Triple // session cookies on SUCCESS
	Challenge   *Challenge        // OTP push if one was issued
}

// OK returns true if the login succeeded
func (r *Result) OK() bool {
	return r != nil && r.State == StateSuccess
}

// Err returns an error describing why the login didn't succeed, or nil
func (r *Result) Err() error {
	switch {
	case r == nil:
		return errors.New("nid login: no result")
	case r.State == StateSuccess:
		return nil
	case r.State == StateUnsupported:
		return &UnsupportedMethodError{Method: r.Method}
	}
	return errors.Errorf("nid login: ended in state %v", r.State)
}

// Authenticator runs login attempts
type Authenticator struct {
	opt     Options
	client  *http.Client
	srv     *rest.Client
	stream  *rest.Client // for the OTP event stream
	store   *credential.Store
	persist Persister
	state   State
}

// New makes an Authenticator.
//
// client should have a cookie jar. If nil a new client is made from
// the global config. store receives the credentials in runtime mode
// and persist in offline mode.
func New(opt Options, client *http.Client, store *credential.Store, persist Persister) *Authenticator {
	opt.setDefaults()
	streamClient := client
	if client == nil {
		client = fshttp.NewClient(fs.Config)
		streamClient = newStreamClient(fs.Config, client.Jar, opt.OTPTimeout)
	}
	if store == nil {
		store = credential.NewStore()
	}
	return &Authenticator{
		opt:     opt,
		client:  client,
		srv:     rest.NewClient(client).SetHeader("User-Agent", opt.UserAgent),
		stream:  rest.NewClient(streamClient).SetHeader("User-Agent", opt.UserAgent),
		store:   store,
		persist: persist,
	}
}

// newStreamClient makes a client sharing jar whose idle and response
// header timeouts outlast otpTimeout, so only otpTimeout can end the
// wait for the push confirmation.
func newStreamClient(ci *fs.ConfigInfo, jar http.CookieJar, otpTimeout time.Duration) *http.Client {
	if ci.Timeout > 0 && ci.Timeout <= otpTimeout {
		ci = ci.Copy()
		ci.Timeout = otpTimeout + time.Minute
	}
	return &http.Client{
		Transport: fshttp.NewTransport(ci),
		Jar:       jar,
	}
}

// State returns the state the last attempt reached
func (a *Authenticator) State() State {
	return a.state
}

// transition moves to the new state
func (a *Authenticator) transition(to State) {
	fs.Debugf(nil, "NID login: %v -> %v", a.state, to)
	a.state = to
}

// fail ends the attempt with err
func (a *Authenticator) fail(res *Result, err error) (*Result, error) {
	a.transition(StateFailure)
	res.State = StateFailure
	return res, err
}

// Login attempts to log in with id and secret.
//
// On success the session cookies are committed to the Store (or the
// Persister in offline mode). If the server asks for an unsupported
// login method the Result has State StateUnsupported and the error is
// nil - use Result.Err for details. All other failures return an error.
func (a *Authenticator) Login(ctx context.Context, id, secret string) (*Result, error) {
	a.state = StateInit
	res := &Result{State: StateInit}

	if a.opt.OfflineMode {
		a.loadPersisted(ctx)
	}

	keys, err := a.fetchKeys(ctx)
	if err != nil {
		return a.fail(res, err)
	}
	a.transition(StateKeysFetched)

	pub, err := newPublicKey(keys.e, keys.n)
	if err != nil {
		return a.fail(res, err)
	}
	encpw, err := encryptCredentials(a.opt.Rand, pub, keys.sessionKey, id, secret)
	if err != nil {
		return a.fail(res, err)
	}
	a.transition(StateEncrypted)

	fingerprint, err := makeBVSD(id, secret, a.opt.NewID())
	if err != nil {
		return a.fail(res, errors.Wrap(err, "nid login: failed to make fingerprint"))
	}
	form := url.Values{
		"dynamicKey":  {keys.dynamicKey},
		"encpw":       {encpw},
		"enctp":       {"1"},
		"svctype":     {"1"},
		"smart_LEVEL": {"-1"},
		"bvsd":        {fingerprint},
		"encnm":       {keys.keyName},
		"locale":      {"ko_KR"},
		"url":         {a.opt.ReturnURL},
	}
	fs.Debugf(nil, "Sending encrypted credentials to %s", a.opt.LoginURL)
	before := a.jarSession(nil)
	resp, body, err := a.postForm(ctx, url.Values{"mode": {"form"}}, form)
	if err != nil {
		return a.fail(res, &TransportError{Op: "submit", URL: a.opt.LoginURL, Err: err})
	}
	a.transition(StateSubmitted)

	switch {
	case strings.Contains(body, "location"):
		res.Credentials = a.sessionCookies(resp, before)
		if err := a.commit(ctx, res.Credentials); err != nil {
			return a.fail(res, err)
		}
		a.transition(StateSuccess)
		res.State = StateSuccess
		return res, nil
	case strings.Contains(body, `id="otp"`):
		return a.otp(ctx, res, body)
	}

	res.Method = sniffMethod(body)
	fs.Logf(nil, "NID login: login method %q is not supported", res.Method)
	a.transition(StateUnsupported)
	res.State = StateUnsupported
	return res, nil
}

// postForm posts form to the login endpoint returning the body as text
func (a *Authenticator) postForm(ctx context.Context, params, form url.Values) (resp *http.Response, body string, err error) {
	opts := rest.Opts{
		Method:     "POST",
		RootURL:    a.opt.LoginURL,
		Parameters: params,
		Form:       form,
	}
	resp, err = a.srv.Call(ctx, &opts)
	if err != nil {
		return resp, "", err
	}
	buf, err := rest.ReadBody(resp)
	if err != nil {
		return resp, "", errors.Wrap(err, "failed to read body")
	}
	return resp, string(buf), nil
}

// jarSession reads the session cookies the jar holds for the login
// endpoint, or for the final URL of resp if set
func (a *Authenticator) jarSession(resp *http.Response) (t credential.Triple) {
	if a.client.Jar == nil {
		return t
	}
	var u *url.URL
	if resp != nil && resp.Request != nil {
		u = resp.Request.URL
	}
	if u == nil {
		var err error
		u, err = url.Parse(a.opt.LoginURL)
		if err != nil {
			return t
		}
	}
	for _, c := range a.client.Jar.Cookies(u) {
		t.Set(c.Name, c.Value)
	}
	return t
}

// sessionCookies reads the session cookies issued by the request
// which produced resp.
//
// Cookies set on resp itself are always used. The jar catches those
// set on redirects, but a jar value is only taken if it differs from
// before, the jar contents from before the request was sent, so
// cookies left over from an earlier session are never mistaken for
// new ones.
func (a *Authenticator) sessionCookies(resp *http.Response, before credential.Triple) (t credential.Triple) {
	for _, c := range resp.Cookies() {
		t.Set(c.Name, c.Value)
	}
	after := a.jarSession(resp)
	for _, name := range credential.CookieNames {
		if t.Get(name) != "" {
			continue
		}
		if value := after.Get(name); value != "" && value != before.Get(name) {
			t.Set(name, value)
		}
	}
	if t.IsEmpty() {
		fs.Logf(nil, "NID login: no session cookies were issued")
	} else {
		var names []string
		for _, name := range credential.CookieNames {
			if t.Get(name) != "" {
				names = append(names, name)
			}
		}
		fs.Debugf(nil, "NID login: received session cookies%v", fs.LogValueHide("cookies", names))
	}
	return t
}

// commit stores the credentials according to the mode
func (a *Authenticator) commit(ctx context.Context, t credential.Triple) error {
	if !a.opt.OfflineMode {
		a.store.SetTriple(t)
		return nil
	}
	if a.persist == nil {
		return errors.New("nid login: offline mode needs somewhere to persist credentials")
	}
	if err := a.persist.Save(ctx, t); err != nil {
		return errors.Wrap(err, "nid login: failed to persist credentials")
	}
	fs.Infof(nil, "Persisted credentials")
	return nil
}

// loadPersisted loads any persisted credentials into the Store
func (a *Authenticator) loadPersisted(ctx context.Context) {
	if a.persist == nil {
		return
	}
	t, err := a.persist.Load(ctx)
	if err != nil {
		fs.Debugf(nil, "No persisted credentials: %v", err)
		return
	}
	if !t.IsEmpty() {
		a.store.SetTriple(t)
	}
}

// sniffMethod guesses which login method the server wants from the page
func sniffMethod(body string) string {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "captcha"):
		return "captcha"
	case strings.Contains(lower, "qrcode"), strings.Contains(lower, "qr_code"):
		return "qr"
	case strings.Contains(lower, `"otn`), strings.Contains(lower, "one time number"):
		return "otn"
	}
	return "unknown"
}
