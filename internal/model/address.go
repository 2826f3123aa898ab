package model

import (
	"strconv"
	"strings"
)

// Address is the canonical "host:port" identity of a crawlable node.
// Two addresses are equal iff their strings are equal; no DNS or IP
// equivalence is attempted. An Address always carries an explicit port.
type Address string

// NormalizeAddress canonicalizes a raw host and an optional explicit port
// into an Address.
//
// Port precedence: explicitPort > port embedded in rawHost > defaultPort.
// The embedded port is recovered by splitting rawHost on the first ":",
// matching how rippled reports peer IPs.
//
// An empty rawHost yields the zero Address. Malformed but non-empty input
// is not rejected: it produces a syntactically valid but meaningless
// Address that downstream code treats as opaque (the fetch for it simply
// fails and lands in the session's error map).
func NormalizeAddress(rawHost, explicitPort string, defaultPort uint16) Address {
	if rawHost == "" {
		return ""
	}

	host := rawHost
	embedded := ""
	if i := strings.Index(rawHost, ":"); i >= 0 {
		host = rawHost[:i]
		embedded = rawHost[i+1:]
	}

	port := explicitPort
	if port == "" {
		port = embedded
	}
	if port == "" {
		port = strconv.FormatUint(uint64(defaultPort), 10)
	}

	return Address(host + ":" + port)
}

// String returns the canonical "host:port" string.
func (a Address) String() string {
	return string(a)
}

// IsZero reports whether the address is empty.
func (a Address) IsZero() bool {
	return a == ""
}

// Host returns the host part of the address.
func (a Address) Host() string {
	s := string(a)
	if i := strings.Index(s, ":"); i >= 0 {
		return s[:i]
	}
	return s
}

// Port returns the port part of the address, or an empty string for the
// zero Address.
func (a Address) Port() string {
	s := string(a)
	if i := strings.Index(s, ":"); i >= 0 {
		return s[i+1:]
	}
	return ""
}
