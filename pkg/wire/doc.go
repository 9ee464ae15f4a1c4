// Package wire defines the binary encoding of negotiated attribute records.
//
// Records are CBOR (RFC 8949) maps with integer keys. fabric.Info and its
// attribute groups carry their own integer keys, so a record nests them
// directly:
//
//	{1: format, 2: provider, 3: negotiation id, 4: layered, 5: info}
//
// Encoding is deterministic. Decoding ignores unknown keys so newer writers
// stay readable, but rejects records of an unknown format version.
//
// # Absent vs Zero
//
// An absent attribute group decodes as nil ("no constraint"), which differs
// from a present group whose fields are all zero.
package wire
