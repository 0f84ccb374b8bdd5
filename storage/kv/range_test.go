package kv

import (
	"bytes"
	"testing"
)

func TestIncrementKey(t *testing.T) {
	for _, tc := range []struct {
		prefix []byte
		want   []byte
	}{
		{[]byte("site/"), []byte("site0")},
		{[]byte("a"), []byte("b")},
		{[]byte{'a', 0xff}, []byte("b")},
		{[]byte{0xff, 0xff}, nil},
		{nil, nil},
	} {
		if got := IncrementKey(tc.prefix); !bytes.Equal(got, tc.want) {
			t.Error("Expect", tc.want, "got", got)
		}
	}
}

func TestBytesPrefix(t *testing.T) {
	prefix := []byte("site/")
	rg := BytesPrefix(prefix)
	if !bytes.Equal(rg.Start, prefix) {
		t.Fatal("Expect start", prefix, "got", rg.Start)
	}
	for _, k := range []string{"site/", "site/a", "site/\xff"} {
		if bytes.Compare([]byte(k), rg.Limit) >= 0 {
			t.Error("Expect", k, "inside the range")
		}
	}
	if bytes.Compare([]byte("site0"), rg.Limit) < 0 {
		t.Error("Expect site0 outside the range")
	}
}
