package nidlogin

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/myboxcli/mybox/lib/lzstring"
)

// protocolVersion of the fingerprint script being emulated
const protocolVersion = "1.3.4"

// fingerprintAgent is the user agent tag put in the fingerprint
const fingerprintAgent = "Mozilla/5.0"

type fingerprintKeys struct {
	A []string `json:"a"`
}

type fingerprintInput struct {
	I string           `json:"i"`
	B *fingerprintKeys `json:"b,omitempty"`
	D string           `json:"d,omitempty"`
	E string           `json:"e"`
	F string           `json:"f"`
}

type fingerprintAgentInfo struct {
	A string `json:"a"`
}

// fingerprint is the device description the login form script sends
type fingerprint struct {
	A string               `json:"a"` // correlation id
	B string               `json:"b"` // script version
	D []fingerprintInput   `json:"d"` // form inputs typed into
	H string               `json:"h"`
	I fingerprintAgentInfo `json:"i"`
}

// bvsd is the form value carrying the compressed fingerprint
type bvsd struct {
	UUID    string `json:"uuid"`
	EncData string `json:"encData"`
}

// marshal encodes v as JSON without escaping HTML characters, laid
// out with a space after each ':' and ',' as the login form's own
// fingerprint is
func marshal(v interface{}) (string, error) {
	var compact bytes.Buffer
	enc := json.NewEncoder(&compact)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// One element per line with ": " after keys. Encoded strings
	// hold no raw newlines so joining the lines is safe.
	var spaced bytes.Buffer
	if err := json.Indent(&spaced, bytes.TrimSuffix(compact.Bytes(), []byte("\n")), "", ""); err != nil {
		return "", err
	}
	out := strings.Replace(spaced.String(), ",\n", ", ", -1)
	return strings.Replace(out, "\n", "", -1), nil
}

// makeBVSD builds the bvsd form value for a login attempt
func makeBVSD(id, secret, correlationID string) (string, error) {
	fp := fingerprint{
		A: correlationID + "-4",
		B: protocolVersion,
		D: []fingerprintInput{
			{
				I: "id",
				B: &fingerprintKeys{A: []string{"0", id}},
				D: id,
				E: "false",
				F: "false",
			},
			{
				I: secret,
				E: "true",
				F: "false",
			},
		},
		H: "1f",
		I: fingerprintAgentInfo{A: fingerprintAgent},
	}
	encData, err := marshal(fp)
	if err != nil {
		return "", err
	}
	return marshal(bvsd{
		UUID:    correlationID,
		EncData: lzstring.CompressToEncodedURIComponent(encData),
	})
}
