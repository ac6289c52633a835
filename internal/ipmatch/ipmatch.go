package ipmatch

import (
	"fmt"
	"net/netip"

	"github.com/themisvote/themis/backend/internal/models"
)

// ParseError reports an address or rule field that could not be
// interpreted. Matching treats it as a non-match; it exists so the failure
// can still be logged with its cause.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse address %q: %s", e.Input, e.Reason)
}

// ParseAddr parses an IP literal into canonical binary form. IPv4-mapped
// IPv6 addresses are unmapped so ::ffff:10.0.0.1 and 10.0.0.1 compare
// equal everywhere in this package.
func ParseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, &ParseError{Input: s, Reason: "not an IP address"}
	}
	return addr.Unmap(), nil
}

// Matches reports whether client satisfies a single rule. A malformed rule
// field is never a match; the returned error carries the parse detail. A
// family mismatch between client and rule is a plain non-match.
func Matches(client netip.Addr, rule models.AddressRule) (bool, error) {
	client = client.Unmap()

	switch rule.Kind {
	case models.RuleKindSingle:
		target, err := ParseAddr(rule.IPAddress)
		if err != nil {
			return false, err
		}
		return client == target, nil

	case models.RuleKindRange:
		start, err := ParseAddr(rule.RangeStart)
		if err != nil {
			return false, err
		}
		end, err := ParseAddr(rule.RangeEnd)
		if err != nil {
			return false, err
		}
		if start.Is4() != client.Is4() || end.Is4() != client.Is4() {
			return false, nil
		}
		// Fixed-width binary comparison. Comparing the textual forms would
		// put 10.0.0.9 above 10.0.0.50.
		return start.Compare(client) <= 0 && client.Compare(end) <= 0, nil

	case models.RuleKindSubnet:
		prefix, err := parsePrefix(rule.Network, rule.PrefixLength)
		if err != nil {
			return false, err
		}
		if prefix.Addr().Is4() != client.Is4() {
			return false, nil
		}
		return prefix.Contains(client), nil
	}

	return false, &ParseError{Input: string(rule.Kind), Reason: "unknown rule kind"}
}

// MatchesAny reports whether client satisfies any active rule, stopping at
// the first hit. Rules that fail to parse are skipped; their errors are
// returned so the caller can log them.
func MatchesAny(client netip.Addr, rules []models.AddressRule) (bool, []error) {
	var parseErrs []error
	for _, rule := range rules {
		if !rule.Active {
			continue
		}
		ok, err := Matches(client, rule)
		if err != nil {
			parseErrs = append(parseErrs, err)
			continue
		}
		if ok {
			return true, parseErrs
		}
	}
	return false, parseErrs
}

// ValidateSpec checks a rule spec against the kind-specific invariants:
// single parses, range bounds parse, share a family and satisfy
// start <= end, and a subnet's network is the base address of its prefix
// (host bits zero).
func ValidateSpec(spec models.RuleSpec) error {
	switch spec.Kind {
	case models.RuleKindSingle:
		if spec.IPAddress == "" {
			return fmt.Errorf("single rule requires ip_address")
		}
		if _, err := ParseAddr(spec.IPAddress); err != nil {
			return err
		}
		return nil

	case models.RuleKindRange:
		if spec.RangeStart == "" || spec.RangeEnd == "" {
			return fmt.Errorf("range rule requires range_start and range_end")
		}
		start, err := ParseAddr(spec.RangeStart)
		if err != nil {
			return err
		}
		end, err := ParseAddr(spec.RangeEnd)
		if err != nil {
			return err
		}
		if start.Is4() != end.Is4() {
			return fmt.Errorf("range bounds %s and %s are different address families", spec.RangeStart, spec.RangeEnd)
		}
		if start.Compare(end) > 0 {
			return fmt.Errorf("range start %s is above range end %s", spec.RangeStart, spec.RangeEnd)
		}
		return nil

	case models.RuleKindSubnet:
		if spec.Network == "" {
			return fmt.Errorf("subnet rule requires network and prefix_length")
		}
		prefix, err := parsePrefix(spec.Network, spec.PrefixLength)
		if err != nil {
			return err
		}
		if prefix.Masked().Addr() != prefix.Addr() {
			return fmt.Errorf("network %s has host bits set for /%d", spec.Network, spec.PrefixLength)
		}
		return nil
	}

	return fmt.Errorf("unknown rule kind %q", spec.Kind)
}

func parsePrefix(network string, prefixLength int) (netip.Prefix, error) {
	addr, err := ParseAddr(network)
	if err != nil {
		return netip.Prefix{}, err
	}
	if prefixLength < 0 || prefixLength > addr.BitLen() {
		return netip.Prefix{}, &ParseError{
			Input:  fmt.Sprintf("%s/%d", network, prefixLength),
			Reason: "prefix length out of range",
		}
	}
	return netip.PrefixFrom(addr, prefixLength), nil
}
