package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"math/big"
)

// NewStaticTestSigningKey returns a static P-256 private key for _tests_.
func NewStaticTestSigningKey() *ecdsa.PrivateKey {
	curve := elliptic.P256()
	d := new(big.Int).SetBytes(Digest([]byte("deterministic tests need 256 bit")))
	d.Mod(d, new(big.Int).Sub(curve.Params().N, big.NewInt(1)))
	d.Add(d, big.NewInt(1))
	k := &ecdsa.PrivateKey{D: d}
	k.PublicKey.Curve = curve
	k.PublicKey.X, k.PublicKey.Y = curve.ScalarBaseMult(d.FillBytes(make([]byte, 32)))
	return k
}
