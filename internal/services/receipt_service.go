package services

import (
	"crypto/subtle"
	"strconv"
	"strings"
	"time"

	"github.com/themisvote/themis/backend/internal/metrics"
	"github.com/themisvote/themis/backend/internal/models"
)

// codeLength is the fixed size of a verification code.
const codeLength = 6

// ReceiptService turns vote tokens into displayable receipts. It performs
// no I/O and holds no state, so it is safe under any number of concurrent
// requests.
type ReceiptService struct{}

func NewReceiptService() *ReceiptService {
	return &ReceiptService{}
}

// DeriveCode maps a vote token to its verification code. The derivation is
// a pure function and must stay stable forever: a voter cross-checks a
// printed code against a recomputation years later.
//
// Algorithm: a 32-bit wrapping polynomial hash over the token's code
// points (h = h*31 + cp), the hash magnitude rendered in upper-case
// base-36, padded to six characters by repeatedly wrapping-multiplying the
// magnitude by 31 and appending its base-36 form, then truncated. The
// result always matches [A-Z0-9]{6}.
//
// Collisions across distinct tokens are an accepted trade-off; the code is
// a convenience checksum, not a unique key.
func (s *ReceiptService) DeriveCode(token string) string {
	var h int32
	for _, cp := range token {
		h = h*31 + cp // wraps at 32 bits
	}

	// magnitude of the signed hash; MinInt32 negates cleanly in 64 bits
	mag := uint64(h)
	if h < 0 {
		mag = uint64(-int64(h))
	}

	code := strings.ToUpper(strconv.FormatUint(mag, 36))
	pad := uint32(mag)
	for len(code) < codeLength {
		pad *= 31
		if pad == 0 {
			code += strings.Repeat("0", codeLength)
			break
		}
		code += strings.ToUpper(strconv.FormatUint(uint64(pad), 36))
	}
	return code[:codeLength]
}

// VerifyCode reports whether a presented code matches the one derived from
// the token. The comparison is constant-time.
func (s *ReceiptService) VerifyCode(token, code string) bool {
	derived := s.DeriveCode(token)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(code)) == 1
}

// Mint assembles the displayable receipt for a durably recorded ballot.
// Trust in the token is the caller's responsibility; Mint does not check
// provenance.
func (s *ReceiptService) Mint(electionTitle string, voteDate time.Time, voteToken string) models.Receipt {
	metrics.IncReceiptMinted()
	return models.Receipt{
		ElectionTitle:    electionTitle,
		VoteDate:         voteDate,
		VoteToken:        voteToken,
		VerificationCode: s.DeriveCode(voteToken),
	}
}
