package models

import (
	"time"
)

// Receipt is handed to a voter after a ballot is durably recorded. It is
// derived on demand and never persisted; the verification code is a pure
// function of the vote token, so it can be recomputed at any time to audit
// a token's integrity.
type Receipt struct {
	ElectionTitle    string    `json:"election_title"`
	VoteDate         time.Time `json:"vote_date"`
	VoteToken        string    `json:"vote_token"`
	VerificationCode string    `json:"verification_code"`
}
