package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestEncodeGolden(t *testing.T) {
	p := Params{
		"site":      "alice.example",
		"address":   "10.0.0.1",
		"expires":   int64(1999999999),
		"owner":     "alice",
		"timestamp": int64(1700000000),
		"nonce":     uint64(7),
		"ok":        true,
	}
	want := `{"address":"10.0.0.1","expires":1999999999,"nonce":7,"ok":true,` +
		`"owner":"alice","site":"alice.example","timestamp":1700000000}`
	got, err := Encode(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		t.Fatalf("Unexpected encoding\n got %s\nwant %s", got, want)
	}
	if !json.Valid(got) {
		t.Fatal("Encoding is not valid JSON")
	}
}

func TestEncodeOrderIndependent(t *testing.T) {
	keys := []string{"name", "pubkey", "timestamp", "nonce", "Zeta", "alpha", "ä", "a b"}
	values := map[string]interface{}{
		"name":      "alice",
		"pubkey":    "-----BEGIN PUBLIC KEY-----\n...\n-----END PUBLIC KEY-----\n",
		"timestamp": 1700000000,
		"nonce":     uint64(42),
		"Zeta":      false,
		"alpha":     int32(-5),
		"ä":         "<&>",
		"a b":       uint8(3),
	}

	var reference []byte
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		p := make(Params)
		for _, k := range keys {
			p[k] = values[k]
		}
		got, err := Encode(p)
		if err != nil {
			t.Fatal(err)
		}
		if reference == nil {
			reference = got
		} else if !bytes.Equal(reference, got) {
			t.Fatalf("Encoding depends on insertion order:\n%s\n%s", reference, got)
		}
	}
}

func TestEncodeSortsBytewise(t *testing.T) {
	got, err := Encode(Params{"b": 1, "B": 2, "a": 3, "ä": 4, "_": 5})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"B":2,"_":5,"a":3,"b":1,"ä":4}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestEncodeNoHTMLEscaping(t *testing.T) {
	got, err := Encode(Params{"k": "<a&b>\"\n"})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"k":"<a&b>\"\n"}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestEncodeIntegers(t *testing.T) {
	got, err := Encode(Params{
		"a": math.MinInt64,
		"b": uint64(math.MaxUint64),
		"c": 0,
		"d": int16(-1),
	})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"a":-9223372036854775808,"b":18446744073709551615,"c":0,"d":-1}`
	if string(got) != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestEncodeEmpty(t *testing.T) {
	got, err := Encode(Params{})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "{}" {
		t.Fatalf("got %s", got)
	}
}

func TestEncodeRejectsUnsupported(t *testing.T) {
	for _, tc := range []struct {
		value interface{}
		want  error
	}{
		{1.5, ErrFloatField},
		{float32(2), ErrFloatField},
		{nil, ErrUnsupportedType},
		{[]byte("x"), ErrUnsupportedType},
		{map[string]string{}, ErrUnsupportedType},
		{"\xff", ErrInvalidUTF8},
	} {
		_, err := Encode(Params{"field": tc.value, "other": "ok"})
		var encErr *EncodingError
		if !errors.As(err, &encErr) {
			t.Fatalf("Expect an EncodingError for %#v, got %v", tc.value, err)
		}
		if encErr.Field != "field" || !errors.Is(err, tc.want) {
			t.Errorf("Expect %v on field, got %v", tc.want, err)
		}
	}

	if _, err := Encode(Params{"\xff": "x"}); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatal("Expect", ErrInvalidUTF8, "for an invalid key, got", err)
	}
}

func TestTemplateMatchesEncode(t *testing.T) {
	for _, p := range []Params{
		{},
		{"name": "alice"},
		{"a": 1, "z": 2},
		{"name": "alice", "pubkey": "k", "timestamp": 1},
		{"address": "x", "expires": 3, "owner": "o", "signature": "ab", "site": "s", "timestamp": 1},
		{"nonce": 99, "site": "s"},
	} {
		tmpl, err := NewTemplate(p, FieldNonce)
		if err != nil {
			t.Fatal(err)
		}
		for _, n := range []uint64{0, 1, 10, math.MaxUint64} {
			q := p.Clone()
			q[FieldNonce] = n
			want, err := Encode(q)
			if err != nil {
				t.Fatal(err)
			}
			if got := tmpl.Render(nil, n); !bytes.Equal(got, want) {
				t.Fatalf("Template renders %s, Encode gives %s", got, want)
			}
		}
	}
}

func TestTemplateRejectsUnsupported(t *testing.T) {
	if _, err := NewTemplate(Params{"f": 0.1}, FieldNonce); !errors.Is(err, ErrFloatField) {
		t.Fatal("Expect", ErrFloatField, "got", err)
	}
}

func TestFormatValue(t *testing.T) {
	for _, tc := range []struct {
		value interface{}
		want  string
	}{
		{"alice", "alice"},
		{int64(-3), "-3"},
		{uint64(12), "12"},
		{true, "true"},
	} {
		got, err := FormatValue("f", tc.value)
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
	if _, err := FormatValue("f", 1.0); !errors.Is(err, ErrFloatField) {
		t.Fatal("Expect", ErrFloatField, "got", err)
	}
}
