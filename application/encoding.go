// Defines how the registry's HTTP responses are decoded into
// protocol.Response values. The registry answers with a JSON body:
// a JSON string describing the outcome, or an object for a successful
// get_site.

package application

import (
	"bytes"
	"encoding/json"

	"github.com/asokol123/yggdrasil-dns/protocol"
)

// UnmarshalResponse decodes the body the registry answered cmd with.
// The status and body are always kept verbatim. An empty body is
// accepted for any status; a body that is not JSON, or a successful
// get_site without an address, yields a malformed response.
func UnmarshalResponse(cmd protocol.Command, status int, statusText string,
	body []byte) *protocol.Response {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &protocol.Response{Status: status, StatusText: statusText, Body: body}
	}
	if !json.Valid(trimmed) {
		return protocol.NewMalformedResponse(status, statusText, body)
	}

	res := &protocol.Response{Status: status, StatusText: statusText, Body: body}
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &res.Message); err != nil {
			return protocol.NewMalformedResponse(status, statusText, body)
		}
		return res
	}

	if cmd == protocol.GetSiteCommand && res.Success() {
		site := new(protocol.SiteRecord)
		if err := json.Unmarshal(trimmed, site); err != nil || site.Address == "" {
			return protocol.NewMalformedResponse(status, statusText, body)
		}
		res.Site = site
	}
	return res
}

// MarshalSiteRecord returns the JSON encoding of site, as the registry
// would answer a get_site with it.
func MarshalSiteRecord(site *protocol.SiteRecord) ([]byte, error) {
	return json.Marshal(site)
}
