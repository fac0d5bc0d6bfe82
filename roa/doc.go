// Package roa decodes DER-encoded Route Origin Authorization objects into a
// structured result: the origin AS plus the declared IPv4 and IPv6 prefixes.
//
// Decoding is lenient about the outer framing (a bare RFC 6482 attestation
// and a CMS SignedData envelope are both accepted, trailing bytes are
// ignored) and strict about the attestation itself: any structural or
// semantic violation fails the whole decode. Beyond the single file read in
// ParseFile the package is a pure transform and safe for concurrent use.
package roa
