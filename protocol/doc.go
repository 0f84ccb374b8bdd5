/*
Package protocol is a library for building requests that a name
registration service accepts.

protocol implements the client-side request envelope of the registry:
every request is a flat set of scalar fields, stamped with a timestamp,
authenticated (for mutating commands) and made costly to mass-produce
by a proof-of-work nonce.

Message

This module defines the commands the registry understands (register,
set_site, get_site), the fields each of them requires, the HTTP verb it
is sent with, and the message a credential signs for it.

Encoding

This module implements the canonical encoding of request parameters:
a compact JSON object whose keys are sorted byte-wise. Two parameter
sets with the same key-value pairs always encode to the same bytes,
which is what gets hashed by the proof-of-work and sent on the wire.

Error

This module defines the errors a request build or dispatch may fail
with, and the errors corresponding to the registry's status codes.

Response

This module defines the registry's answer to a request: the HTTP status
and body kept verbatim, plus the message or site record decoded from it.
*/
package protocol
