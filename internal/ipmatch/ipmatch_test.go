package ipmatch

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themisvote/themis/backend/internal/models"
)

func mustAddr(t *testing.T, s string) netip.Addr {
	t.Helper()
	addr, err := ParseAddr(s)
	require.NoError(t, err)
	return addr
}

func TestMatches_Single(t *testing.T) {
	rule := models.AddressRule{Kind: models.RuleKindSingle, IPAddress: "10.0.5.23", Active: true}

	t.Run("exact match", func(t *testing.T) {
		ok, err := Matches(mustAddr(t, "10.0.5.23"), rule)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("different address", func(t *testing.T) {
		ok, err := Matches(mustAddr(t, "10.0.5.24"), rule)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IPv4-mapped client equals plain IPv4", func(t *testing.T) {
		ok, err := Matches(mustAddr(t, "::ffff:10.0.5.23"), rule)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("IPv4-mapped rule equals plain IPv4 client", func(t *testing.T) {
		mapped := models.AddressRule{Kind: models.RuleKindSingle, IPAddress: "::ffff:10.0.5.23", Active: true}
		ok, err := Matches(mustAddr(t, "10.0.5.23"), mapped)
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("malformed rule address is a non-match with parse error", func(t *testing.T) {
		bad := models.AddressRule{Kind: models.RuleKindSingle, IPAddress: "not-an-ip", Active: true}
		ok, err := Matches(mustAddr(t, "10.0.5.23"), bad)
		assert.False(t, ok)
		var parseErr *ParseError
		assert.ErrorAs(t, err, &parseErr)
	})
}

func TestMatches_Range(t *testing.T) {
	rule := models.AddressRule{
		Kind:       models.RuleKindRange,
		RangeStart: "10.0.5.10",
		RangeEnd:   "10.0.5.50",
		Active:     true,
	}

	cases := []struct {
		name string
		ip   string
		want bool
	}{
		{"start bound is inclusive", "10.0.5.10", true},
		{"end bound is inclusive", "10.0.5.50", true},
		{"inside", "10.0.5.30", true},
		{"one below start", "10.0.5.9", false},
		{"one above end", "10.0.5.51", false},
		{"numeric not lexical ordering", "10.0.5.100", false},
		{"far outside", "192.168.1.1", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := Matches(mustAddr(t, tc.ip), rule)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}

	t.Run("IPv6 client never matches an IPv4 range", func(t *testing.T) {
		ok, err := Matches(mustAddr(t, "2001:db8::1"), rule)
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("IPv6 range", func(t *testing.T) {
		v6 := models.AddressRule{
			Kind:       models.RuleKindRange,
			RangeStart: "2001:db8::10",
			RangeEnd:   "2001:db8::20",
			Active:     true,
		}
		ok, err := Matches(mustAddr(t, "2001:db8::10"), v6)
		assert.NoError(t, err)
		assert.True(t, ok)

		ok, err = Matches(mustAddr(t, "2001:db8::21"), v6)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMatches_Subnet(t *testing.T) {
	rule := models.AddressRule{
		Kind:         models.RuleKindSubnet,
		Network:      "10.0.5.0",
		PrefixLength: 24,
		Active:       true,
	}

	t.Run("addresses sharing the prefix match", func(t *testing.T) {
		for _, ip := range []string{"10.0.5.0", "10.0.5.1", "10.0.5.254", "10.0.5.255"} {
			ok, err := Matches(mustAddr(t, ip), rule)
			assert.NoError(t, err)
			assert.True(t, ok, "expected %s inside 10.0.5.0/24", ip)
		}
	})

	t.Run("addresses differing in the prefix bits do not", func(t *testing.T) {
		for _, ip := range []string{"10.0.4.255", "10.0.6.0", "11.0.5.1"} {
			ok, err := Matches(mustAddr(t, ip), rule)
			assert.NoError(t, err)
			assert.False(t, ok, "expected %s outside 10.0.5.0/24", ip)
		}
	})

	t.Run("family mismatch is a non-match", func(t *testing.T) {
		ok, err := Matches(mustAddr(t, "2001:db8::1"), rule)
		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMatchesAny(t *testing.T) {
	rules := []models.AddressRule{
		{Kind: models.RuleKindSingle, IPAddress: "192.168.1.5", Active: false},
		{Kind: models.RuleKindSingle, IPAddress: "garbage", Active: true},
		{Kind: models.RuleKindSubnet, Network: "10.0.5.0", PrefixLength: 24, Active: true},
	}

	t.Run("inactive rules are skipped", func(t *testing.T) {
		ok, _ := MatchesAny(mustAddr(t, "192.168.1.5"), rules)
		assert.False(t, ok)
	})

	t.Run("parse errors are collected and do not block later rules", func(t *testing.T) {
		ok, parseErrs := MatchesAny(mustAddr(t, "10.0.5.77"), rules)
		assert.True(t, ok)
		assert.Len(t, parseErrs, 1)
	})

	t.Run("no rules means no match", func(t *testing.T) {
		ok, parseErrs := MatchesAny(mustAddr(t, "10.0.5.77"), nil)
		assert.False(t, ok)
		assert.Empty(t, parseErrs)
	})
}

func TestValidateSpec(t *testing.T) {
	cases := []struct {
		name    string
		spec    models.RuleSpec
		wantErr bool
	}{
		{"valid single", models.RuleSpec{Kind: models.RuleKindSingle, IPAddress: "10.0.0.1"}, false},
		{"single missing address", models.RuleSpec{Kind: models.RuleKindSingle}, true},
		{"single unparsable", models.RuleSpec{Kind: models.RuleKindSingle, IPAddress: "10.0.0.256"}, true},
		{"valid range", models.RuleSpec{Kind: models.RuleKindRange, RangeStart: "10.0.5.10", RangeEnd: "10.0.5.50"}, false},
		{"range equal bounds", models.RuleSpec{Kind: models.RuleKindRange, RangeStart: "10.0.5.10", RangeEnd: "10.0.5.10"}, false},
		{"range missing end", models.RuleSpec{Kind: models.RuleKindRange, RangeStart: "10.0.5.10"}, true},
		{"range start above end", models.RuleSpec{Kind: models.RuleKindRange, RangeStart: "10.0.5.50", RangeEnd: "10.0.5.10"}, true},
		{"range mixed families", models.RuleSpec{Kind: models.RuleKindRange, RangeStart: "10.0.5.10", RangeEnd: "2001:db8::1"}, true},
		{"valid subnet", models.RuleSpec{Kind: models.RuleKindSubnet, Network: "10.0.5.0", PrefixLength: 24}, false},
		{"subnet host bits set", models.RuleSpec{Kind: models.RuleKindSubnet, Network: "10.0.5.1", PrefixLength: 24}, true},
		{"subnet prefix too long", models.RuleSpec{Kind: models.RuleKindSubnet, Network: "10.0.5.0", PrefixLength: 33}, true},
		{"subnet negative prefix", models.RuleSpec{Kind: models.RuleKindSubnet, Network: "10.0.5.0", PrefixLength: -1}, true},
		{"valid IPv6 subnet", models.RuleSpec{Kind: models.RuleKindSubnet, Network: "2001:db8::", PrefixLength: 32}, false},
		{"unknown kind", models.RuleSpec{Kind: "cidr"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSpec(tc.spec)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
