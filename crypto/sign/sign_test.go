package sign

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/asokol123/yggdrasil-dns/crypto"
)

func staticKey(t *testing.T) *PrivateKey {
	k, err := NewPrivateKey(crypto.NewStaticTestSigningKey())
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func TestVerifySignature(t *testing.T) {
	key, err := GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}

	message := []byte("alicealice.example1700000000")
	sig, err := key.Sign(message)
	if err != nil {
		t.Fatal(err)
	}

	pk := key.Public()
	if !pk.Verify(message, sig) {
		t.Fatal("valid signature rejected")
	}

	for i := range message {
		wrong := append([]byte(nil), message...)
		wrong[i] ^= 0x01
		if pk.Verify(wrong, sig) {
			t.Fatalf("signature of message mutated at byte %d accepted", i)
		}
	}
	for i := range sig {
		wrong := append([]byte(nil), sig...)
		wrong[i] ^= 0x01
		if pk.Verify(message, wrong) {
			t.Fatalf("signature mutated at byte %d accepted", i)
		}
	}
}

// The server parses the PEM identity as PKIX and verifies the DER
// signature over SHA-256 of the message. Do the same with the
// standard library only.
func TestSignatureVerifiesAgainstIdentity(t *testing.T) {
	key := staticKey(t)
	id, ok := key.Identity()
	if !ok {
		t.Fatal("ECDSA key must expose an identity")
	}
	block, _ := pem.Decode(id)
	if block == nil || block.Type != "PUBLIC KEY" {
		t.Fatal("identity must be a PEM public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		t.Fatal(err)
	}

	message := []byte("hello")
	sig, err := key.Sign(message)
	if err != nil {
		t.Fatal(err)
	}
	if !ecdsa.VerifyASN1(pub.(*ecdsa.PublicKey), crypto.Digest(message), sig) {
		t.Fatal("signature does not verify against the published identity")
	}
}

func TestPEMRoundTrip(t *testing.T) {
	key := staticKey(t)
	dir := t.TempDir()

	priv, err := key.MarshalPEM()
	if err != nil {
		t.Fatal(err)
	}
	pub, err := key.Public().MarshalPEM()
	if err != nil {
		t.Fatal(err)
	}
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	if err := os.WriteFile(privPath, priv, 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(pubPath, pub, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadPrivateKey(privPath)
	if err != nil {
		t.Fatal(err)
	}
	loadedPub, err := LoadPublicKey(pubPath)
	if err != nil {
		t.Fatal(err)
	}
	id, _ := loaded.Identity()
	if !bytes.Equal(id, pub) {
		t.Fatal("identity of the loaded key differs from public.pem")
	}

	sig, err := loaded.Sign([]byte("msg"))
	if err != nil {
		t.Fatal(err)
	}
	if !loadedPub.Verify([]byte("msg"), sig) {
		t.Fatal("loaded public key rejects signature of loaded private key")
	}
}

func TestParsePKCS8PrivateKey(t *testing.T) {
	der, err := x509.MarshalPKCS8PrivateKey(crypto.NewStaticTestSigningKey())
	if err != nil {
		t.Fatal(err)
	}
	data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	key, err := ParsePrivateKey(data)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := staticKey(t).Identity()
	got, _ := key.Identity()
	if !bytes.Equal(got, want) {
		t.Fatal("PKCS #8 and SEC 1 encodings yield different keys")
	}
}

func TestParseMalformedKeys(t *testing.T) {
	for _, data := range [][]byte{
		nil,
		[]byte("not a pem"),
		pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: []byte("junk")}),
		pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: []byte("junk")}),
	} {
		if _, err := ParsePrivateKey(data); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("Expect %v, got %v", ErrMalformedKey, err)
		}
		if _, err := ParsePublicKey(data); !errors.Is(err, ErrMalformedKey) {
			t.Errorf("Expect %v, got %v", ErrMalformedKey, err)
		}
	}
	if _, err := LoadPrivateKey(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Fatal("Expect an error for a missing key file")
	}
}

func TestNewPrivateKeyRejectsNil(t *testing.T) {
	if _, err := NewPrivateKey(nil); err != ErrUnsupportedCurve {
		t.Fatal("Expect", ErrUnsupportedCurve, "got", err)
	}
}

// RFC 4231, test case 2.
func TestHMACVector(t *testing.T) {
	sk, err := NewSecretKey([]byte("Jefe"))
	if err != nil {
		t.Fatal(err)
	}
	tag, err := sk.Sign([]byte("what do ya want for nothing?"))
	if err != nil {
		t.Fatal(err)
	}
	want := "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"
	if hex.EncodeToString(tag) != want {
		t.Fatalf("Unexpected tag %x", tag)
	}
	if _, ok := sk.Identity(); ok {
		t.Fatal("Shared secrets have no public identity")
	}
}

func TestHMACDeterministic(t *testing.T) {
	message := []byte("alicealice.example1700000000")
	a, _ := NewSecretKey([]byte("secret"))
	b, _ := NewSecretKey([]byte("secret"))
	c, _ := NewSecretKey([]byte("secreT"))

	ta, _ := a.Sign(message)
	tb, _ := b.Sign(message)
	tc, _ := c.Sign(message)
	if !bytes.Equal(ta, tb) {
		t.Fatal("same secret and message must give the same tag")
	}
	if bytes.Equal(ta, tc) {
		t.Fatal("different secrets must give different tags")
	}
	if !a.Verify(message, tb) || a.Verify(message, tc) {
		t.Fatal("Verify disagrees with Sign")
	}
}

func TestEmptySecret(t *testing.T) {
	if _, err := NewSecretKey(nil); err != ErrEmptySecret {
		t.Fatal("Expect", ErrEmptySecret, "got", err)
	}
	if _, err := SecretKey(nil).Sign([]byte("m")); err != ErrEmptySecret {
		t.Fatal("Expect", ErrEmptySecret, "got", err)
	}
}

func TestNewSecretKeyCopies(t *testing.T) {
	secret := []byte("secret")
	sk, _ := NewSecretKey(secret)
	secret[0] = 'S'
	if sk[0] != 's' {
		t.Fatal("NewSecretKey must copy its input")
	}
}
