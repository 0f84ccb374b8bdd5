// Package crypto contains the hashing routines shared by the registry
// client, to:
// - hash arbitrary data (`Digest`) using SHA-256
// - render and test hexadecimal digests for proof-of-work.
//
// Credential handling (ECDSA P-256 signatures and HMAC-SHA256
// authentication codes) lives in the sign subpackage.
package crypto
