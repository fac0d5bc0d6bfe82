package roa

import (
	"encoding/asn1"
	"fmt"
	"net/netip"
	"os"

	"github.com/dadepo/rpki-mcp/rp"
)

// ParsedRoa is the structured form of a decoded Route Origin Authorization.
// Prefixes are rendered in address/length form, split by address family.
// The per-prefix maxLength qualifier is validated during decode but not
// carried into the result.
type ParsedRoa struct {
	ASN        string   `json:"asn"`
	V4Prefixes []string `json:"v4Prefixes"`
	V6Prefixes []string `json:"v6Prefixes"`
}

// RFC 6482 RouteOriginAttestation and the CMS envelope it usually ships in.
type routeOriginAttestation struct {
	Version      int `asn1:"optional,explicit,tag:0,default:0"`
	ASID         int64
	IPAddrBlocks []roaIPAddressFamily
}

type roaIPAddressFamily struct {
	AddressFamily []byte
	Addresses     []roaIPAddress
}

type roaIPAddress struct {
	Address   asn1.BitString
	MaxLength int `asn1:"optional,default:-1"`
}

type contentInfo struct {
	ContentType asn1.ObjectIdentifier
	Content     asn1.RawValue `asn1:"optional,explicit,tag:0"`
}

type signedData struct {
	Version          int
	DigestAlgorithms asn1.RawValue `asn1:"set"`
	EncapContentInfo encapContentInfo
	Certificates     asn1.RawValue `asn1:"optional,tag:0"`
	CRLs             asn1.RawValue `asn1:"optional,tag:1"`
	SignerInfos      asn1.RawValue `asn1:"set"`
}

type encapContentInfo struct {
	EContentType asn1.ObjectIdentifier
	EContent     []byte `asn1:"optional,explicit,tag:0"`
}

var (
	oidSignedData     = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
	oidRouteOriginAut = asn1.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 1, 24}
)

const (
	afiIPv4 = 1
	afiIPv6 = 2
)

// ParseFile reads a DER-encoded ROA object from path and decodes it.
// An unreadable path maps to an io error, anything else to Parse's contract.
func ParseFile(path string) (*ParsedRoa, error) {
	der, err := os.ReadFile(path)
	if err != nil {
		return nil, rp.NewError(rp.KindIO, rp.CodeNone, err.Error())
	}
	return Parse(der)
}

// Parse decodes a DER-encoded ROA in lenient mode: the bytes may be either a
// bare RouteOriginAttestation or a CMS SignedData envelope whose eContent is
// the attestation. Trailing bytes after a well-formed object are ignored.
// Structural or semantic violations of the encoding fail with a decode error
// and never yield a partial result.
func Parse(der []byte) (*ParsedRoa, error) {
	content, err := unwrapContent(der)
	if err != nil {
		return nil, rp.NewError(rp.KindDecode, rp.CodeNone, err.Error())
	}

	var attestation routeOriginAttestation
	if _, err := asn1.Unmarshal(content, &attestation); err != nil {
		return nil, rp.NewError(rp.KindDecode, rp.CodeNone,
			fmt.Sprintf("route origin attestation: %v", err))
	}
	if attestation.Version != 0 {
		return nil, rp.NewError(rp.KindDecode, rp.CodeNone,
			fmt.Sprintf("unsupported attestation version %d", attestation.Version))
	}

	parsed := &ParsedRoa{
		ASN:        fmt.Sprintf("AS%d", attestation.ASID),
		V4Prefixes: []string{},
		V6Prefixes: []string{},
	}

	for _, family := range attestation.IPAddrBlocks {
		afi, err := addressFamily(family.AddressFamily)
		if err != nil {
			return nil, rp.NewError(rp.KindDecode, rp.CodeNone, err.Error())
		}
		for _, addr := range family.Addresses {
			prefix, err := renderPrefix(afi, addr)
			if err != nil {
				return nil, rp.NewError(rp.KindDecode, rp.CodeNone, err.Error())
			}
			if afi == afiIPv4 {
				parsed.V4Prefixes = append(parsed.V4Prefixes, prefix)
			} else {
				parsed.V6Prefixes = append(parsed.V6Prefixes, prefix)
			}
		}
	}

	return parsed, nil
}

// unwrapContent returns the RouteOriginAttestation bytes, peeling a CMS
// SignedData envelope when one is present. Detection is structural: bytes
// that do not form a signed-data ContentInfo are treated as a bare
// attestation and handed back unchanged.
func unwrapContent(der []byte) ([]byte, error) {
	var info contentInfo
	if _, err := asn1.Unmarshal(der, &info); err != nil || !info.ContentType.Equal(oidSignedData) {
		return der, nil
	}

	var signed signedData
	if _, err := asn1.Unmarshal(info.Content.Bytes, &signed); err != nil {
		return nil, fmt.Errorf("signed data envelope: %w", err)
	}
	if !signed.EncapContentInfo.EContentType.Equal(oidRouteOriginAut) {
		return nil, fmt.Errorf("content type %v is not a route origin attestation",
			signed.EncapContentInfo.EContentType)
	}
	if len(signed.EncapContentInfo.EContent) == 0 {
		return nil, fmt.Errorf("signed data envelope carries no content")
	}
	return signed.EncapContentInfo.EContent, nil
}

func addressFamily(afi []byte) (int, error) {
	// RFC 6482 allows an optional SAFI octet; only the two-octet AFI matters.
	if len(afi) != 2 && len(afi) != 3 {
		return 0, fmt.Errorf("address family of length %d", len(afi))
	}
	switch value := int(afi[0])<<8 | int(afi[1]); value {
	case afiIPv4, afiIPv6:
		return value, nil
	default:
		return 0, fmt.Errorf("unknown address family %d", value)
	}
}

// renderPrefix converts an encoded address into textual address/length form,
// checking the declared bits and the maxLength qualifier against the family's
// address width.
func renderPrefix(afi int, addr roaIPAddress) (string, error) {
	width := 32
	if afi == afiIPv6 {
		width = 128
	}
	if addr.Address.BitLength > width {
		return "", fmt.Errorf("prefix of %d bits exceeds address width %d", addr.Address.BitLength, width)
	}
	if addr.MaxLength >= 0 {
		if addr.MaxLength > width {
			return "", fmt.Errorf("maxLength %d exceeds address width %d", addr.MaxLength, width)
		}
		if addr.MaxLength < addr.Address.BitLength {
			return "", fmt.Errorf("maxLength %d shorter than prefix length %d", addr.MaxLength, addr.Address.BitLength)
		}
	}

	buf := make([]byte, width/8)
	copy(buf, addr.Address.Bytes)
	ip, ok := netip.AddrFromSlice(buf)
	if !ok {
		return "", fmt.Errorf("address of %d bytes", len(buf))
	}
	return netip.PrefixFrom(ip, addr.Address.BitLength).String(), nil
}
