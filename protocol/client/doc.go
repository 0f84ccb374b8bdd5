/*
Package client builds ready-to-send registry request envelopes.

A Builder turns a command and its business fields into a
protocol.Envelope by running the same pipeline for every command:

- check that exactly the command's required fields are present and that
  they can be canonically encoded;

- check that a credential suitable for the command is configured;

- stamp the envelope with the current timestamp;

- attach the authentication field: the credential's public identity for
  register, a signature over owner || site || timestamp for set_site,
  nothing for get_site;

- mine a nonce over the full field set, signature included.

Signing happens before mining, so changing the nonce never invalidates
the signature. Any failure aborts the build before a nonce is mined and
no partial envelope is ever returned.
*/
package client
