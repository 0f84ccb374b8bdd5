package protocol

import (
	"errors"
	"net/http"
	"testing"
)

func TestCommandTable(t *testing.T) {
	for _, tc := range []struct {
		cmd      Command
		method   string
		auth     AuthKind
		required []string
	}{
		{RegisterCommand, http.MethodPost, AuthIdentity, []string{FieldName}},
		{SetSiteCommand, http.MethodPost, AuthSignature,
			[]string{FieldSite, FieldAddress, FieldExpires, FieldOwner}},
		{GetSiteCommand, http.MethodGet, AuthNone, []string{FieldSite}},
	} {
		if !tc.cmd.Valid() {
			t.Fatalf("%s must be valid", tc.cmd)
		}
		if tc.cmd.Method() != tc.method {
			t.Errorf("%s: method %s, want %s", tc.cmd, tc.cmd.Method(), tc.method)
		}
		if tc.cmd.Auth() != tc.auth {
			t.Errorf("%s: auth %d, want %d", tc.cmd, tc.cmd.Auth(), tc.auth)
		}
		got := tc.cmd.RequiredFields()
		if len(got) != len(tc.required) {
			t.Fatalf("%s: required %v, want %v", tc.cmd, got, tc.required)
		}
		for i := range got {
			if got[i] != tc.required[i] {
				t.Errorf("%s: required %v, want %v", tc.cmd, got, tc.required)
			}
		}
	}
	if len(Commands()) != 3 {
		t.Fatal("Expect exactly three commands")
	}
}

func TestParseCommand(t *testing.T) {
	c, err := ParseCommand(" set_site ")
	if err != nil || c != SetSiteCommand {
		t.Fatal("Cannot parse set_site", err)
	}
	if _, err := ParseCommand("delete_site"); !errors.Is(err, ErrUnknownCommand) {
		t.Fatal("Expect", ErrUnknownCommand, "got", err)
	}
}

func TestRequiredFieldsIsACopy(t *testing.T) {
	f := SetSiteCommand.RequiredFields()
	f[0] = "mutated"
	if SetSiteCommand.RequiredFields()[0] != FieldSite {
		t.Fatal("RequiredFields must not expose the command table")
	}
}

func TestSigningMessage(t *testing.T) {
	p := Params{
		FieldOwner:     "alice",
		FieldSite:      "alice.example",
		FieldAddress:   "10.0.0.1",
		FieldExpires:   int64(1999999999),
		FieldTimestamp: int64(1700000000),
	}
	msg, err := SigningMessage(SetSiteCommand, p)
	if err != nil {
		t.Fatal(err)
	}
	if string(msg) != "alicealice.example1700000000" {
		t.Fatalf("Unexpected message %q", msg)
	}

	// neither nonce nor signature are covered
	p[FieldNonce] = uint64(12345)
	p[FieldSignature] = "abcd"
	again, err := SigningMessage(SetSiteCommand, p)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(msg) {
		t.Fatal("Signing message must not depend on nonce or signature")
	}

	delete(p, FieldTimestamp)
	if _, err := SigningMessage(SetSiteCommand, p); !errors.Is(err, ErrMissingField) {
		t.Fatal("Expect", ErrMissingField, "got", err)
	}

	for _, cmd := range []Command{RegisterCommand, GetSiteCommand} {
		msg, err := SigningMessage(cmd, p)
		if err != nil || msg != nil {
			t.Fatalf("%s has no signing message", cmd)
		}
	}
}

func TestParamsInt64(t *testing.T) {
	p := Params{"a": 1, "b": uint64(1 << 63), "c": "1", "d": int32(-2)}
	if v, ok := p.Int64("a"); !ok || v != 1 {
		t.Error("int must convert")
	}
	if _, ok := p.Int64("b"); ok {
		t.Error("uint64 overflowing int64 must not convert")
	}
	if _, ok := p.Int64("c"); ok {
		t.Error("strings must not convert")
	}
	if v, ok := p.Int64("d"); !ok || v != -2 {
		t.Error("int32 must convert")
	}
}

func TestResponseErr(t *testing.T) {
	ok := &Response{Status: http.StatusOK}
	if !ok.Success() || ok.Err() != nil {
		t.Fatal("200 must be a success")
	}

	for status, want := range map[int]error{
		http.StatusBadRequest:   ErrBadRequest,
		http.StatusUnauthorized: ErrUnauthorized,
		http.StatusForbidden:    ErrForbidden,
		http.StatusNotFound:     ErrSiteNotFound,
		http.StatusConflict:     ErrNameExisted,
		http.StatusGone:         ErrSiteExpired,
		http.StatusTeapot:       ErrUnexpectedStatus,
	} {
		res := &Response{Status: status, Body: []byte(`"nope"`)}
		err := res.Err()
		var srvErr *ServerError
		if !errors.As(err, &srvErr) {
			t.Fatalf("Expect a ServerError for %d, got %v", status, err)
		}
		if srvErr.Status != status || string(srvErr.Body) != `"nope"` {
			t.Error("ServerError must carry status and body verbatim")
		}
		if !errors.Is(err, want) {
			t.Errorf("Expect %v for %d, got %v", want, status, err)
		}
	}

	malformed := NewMalformedResponse(http.StatusOK, "200 OK", []byte("{"))
	if !errors.Is(malformed.Err(), ErrMalformedResponse) {
		t.Fatal("Expect", ErrMalformedResponse, "got", malformed.Err())
	}
}
