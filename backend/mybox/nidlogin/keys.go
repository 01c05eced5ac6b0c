package nidlogin

import (
	"context"
	"crypto/rsa"
	"math/big"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/myboxcli/mybox/fs"
	"github.com/myboxcli/mybox/lib/rest"
	"github.com/pkg/errors"
)

// keyMaterial is what the login form hands out for one attempt
type keyMaterial struct {
	sessionKey string
	keyName    string
	e          string // hex
	n          string // hex
	dynamicKey string
}

// fetchKeys loads the login form and extracts the key material
func (a *Authenticator) fetchKeys(ctx context.Context) (*keyMaterial, error) {
	opts := rest.Opts{
		Method:     "GET",
		RootURL:    a.opt.LoginURL,
		Parameters: url.Values{"mode": {"form"}, "svctype": {"262144"}},
	}
	doc, err := a.callHTML(ctx, &opts)
	if err != nil {
		return nil, &TransportError{Op: "fetch keys", URL: a.opt.LoginURL, Err: err}
	}
	return parseKeys(doc)
}

// callHTML makes the call and parses the reply as HTML
func (a *Authenticator) callHTML(ctx context.Context, opts *rest.Opts) (doc *goquery.Document, err error) {
	var resp *http.Response
	resp, err = a.srv.Call(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer fs.CheckClose(resp.Body, &err)
	doc, err = goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse HTML")
	}
	return doc, nil
}

// inputValue returns the value attribute of the input with the id
func inputValue(doc *goquery.Document, id string) (string, error) {
	selector := "input#" + id
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", &ParseError{Element: selector}
	}
	value, ok := sel.Attr("value")
	if !ok {
		return "", &ParseError{Element: selector, Attr: "value"}
	}
	return value, nil
}

// parseKeys extracts the key material from the login form
//
// session_keys holds "sessionKey,keyName,e,n" with e and n in hex
func parseKeys(doc *goquery.Document) (*keyMaterial, error) {
	sessionKeys, err := inputValue(doc, "session_keys")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(sessionKeys, ",")
	if len(parts) != 4 {
		return nil, &ParseError{Element: "input#session_keys", Attr: "value", Reason: "want 4 comma separated keys"}
	}
	dynamicKey, err := inputValue(doc, "dynamicKey")
	if err != nil {
		return nil, err
	}
	return &keyMaterial{
		sessionKey: parts[0],
		keyName:    parts[1],
		e:          parts[2],
		n:          parts[3],
		dynamicKey: dynamicKey,
	}, nil
}

// newPublicKey makes an RSA public key from hex exponent and modulus
func newPublicKey(eHex, nHex string) (*rsa.PublicKey, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(nHex), 16)
	if !ok || n.Sign() <= 0 {
		return nil, &CryptoError{Op: "parse modulus", Err: errors.Errorf("bad hex %q", nHex)}
	}
	e, ok := new(big.Int).SetString(strings.TrimSpace(eHex), 16)
	if !ok || e.Sign() <= 0 {
		return nil, &CryptoError{Op: "parse exponent", Err: errors.Errorf("bad hex %q", eHex)}
	}
	if !e.IsInt64() || e.Int64() > 1<<31-1 || e.Int64() < 2 {
		return nil, &CryptoError{Op: "parse exponent", Err: errors.Errorf("exponent %s out of range", e)}
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
