package nidlogin

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/myboxcli/mybox/backend/mybox/credential"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/lib/rest"
	"github.com/myboxcli/mybox/lib/sse"
	"github.com/pkg/errors"
)

// otp handles the OTP_PENDING state: it reads the push challenge out
// of the page, waits on the push event stream and then acknowledges
func (a *Authenticator) otp(ctx context.Context, res *Result, body string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return a.fail(res, errors.Wrap(err, "nid login: failed to parse OTP page"))
	}
	tokenPush, err := inputValue(doc, "token_push")
	if err != nil {
		return a.fail(res, err)
	}
	key, err := inputValue(doc, "key")
	if err != nil {
		return a.fail(res, err)
	}
	challenge := Challenge{TokenPush: tokenPush, Key: key}
	res.Challenge = &challenge
	a.transition(StateOTPPending)
	res.State = StateOTPPending
	fs.Logf(nil, "NID login: approve the login on your OTP device")
	if a.opt.OnOTPPending != nil {
		a.opt.OnOTPPending(challenge)
	}

	t, err := a.confirmOTP(ctx, challenge)
	if err != nil {
		return a.fail(res, err)
	}
	res.Credentials = t
	if err := a.commit(ctx, t); err != nil {
		return a.fail(res, err)
	}
	a.transition(StateSuccess)
	res.State = StateSuccess
	return res, nil
}

// confirmOTP drains the push event stream then sends the acknowledgement
func (a *Authenticator) confirmOTP(ctx context.Context, challenge Challenge) (credential.Triple, error) {
	if err := a.drainOTPStream(ctx, challenge.TokenPush); err != nil {
		return credential.Triple{}, err
	}

	fs.Debugf(nil, "token_push: %s", challenge.TokenPush)
	form := url.Values{
		"mode":       {"otp"},
		"auto":       {""},
		"token_push": {challenge.TokenPush},
		"locale":     {"ko_KR"},
		"key":        {challenge.Key},
		"otp":        {""},
	}
	before := a.jarSession(nil)
	resp, _, err := a.postForm(ctx, nil, form)
	if err != nil {
		return credential.Triple{}, &TransportError{Op: "acknowledge OTP", URL: a.opt.LoginURL, Err: err}
	}
	t := a.sessionCookies(resp, before)
	if t.AUT == "" || t.SES == "" {
		return credential.Triple{}, ErrOTPRejected
	}
	return t, nil
}

// drainOTPStream reads every event from the push stream for token
// until the server closes it or OTPTimeout expires
func (a *Authenticator) drainOTPStream(ctx context.Context, token string) (err error) {
	streamCtx, cancel := context.WithTimeout(ctx, a.opt.OTPTimeout)
	defer cancel()

	opts := rest.Opts{
		Method:     "GET",
		RootURL:    a.opt.OTPURL,
		Parameters: url.Values{"session": {token}},
	}
	resp, err := a.stream.Call(streamCtx, &opts)
	if err != nil {
		if streamCtx.Err() != nil || isTimeout(err) {
			return ErrOTPTimeout
		}
		return &TransportError{Op: "open OTP stream", URL: a.opt.OTPURL, Err: err}
	}
	fs.Debugf(nil, "OTP stream opened: %s", resp.Status)

	events := sse.NewReader(resp.Body)
	defer fs.CheckClose(events, &err)
	for {
		ev, err := events.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			var decodeErr *sse.StreamDecodeError
			if errors.As(err, &decodeErr) {
				return err
			}
			if streamCtx.Err() != nil || isTimeout(err) {
				return ErrOTPTimeout
			}
			return &TransportError{Op: "read OTP stream", URL: a.opt.OTPURL, Err: err}
		}
		var payload interface{}
		if jsonErr := json.Unmarshal([]byte(ev.Data), &payload); jsonErr == nil {
			fs.Debugf(nil, "OTP %v: %v", ev, fs.LogValue("otp_event", payload))
		} else {
			fs.Debugf(nil, "OTP %v: %q", ev, ev.Data)
		}
	}
}

// isTimeout reports whether err is a network timeout, such as an idle
// connection deadline expiring while waiting on the stream
func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
