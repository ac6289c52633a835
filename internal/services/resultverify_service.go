package services

import (
	"encoding/base64"
	"fmt"

	"github.com/themisvote/themis/backend/internal/metrics"
	"github.com/themisvote/themis/backend/internal/models"
)

// Byte lengths fixed by the externally agreed AES-256-GCM export format.
const (
	gcmNonceLength = 12
	gcmTagLength   = 16
)

// ResultVerifyService checks exported encrypted result records for
// structural well-formedness before a trusted offline tool decrypts them.
// It never attempts decryption and its error strings never quote field
// contents, so nothing key- or ciphertext-adjacent can leak into logs.
type ResultVerifyService struct {
	knownKeyRefs map[string]struct{}
}

// NewResultVerifyService builds a verifier recognizing the given key
// references. An empty list accepts any non-empty keyRef.
func NewResultVerifyService(keyRefs []string) *ResultVerifyService {
	known := make(map[string]struct{}, len(keyRefs))
	for _, ref := range keyRefs {
		known[ref] = struct{}{}
	}
	return &ResultVerifyService{knownKeyRefs: known}
}

// VerifyStructure validates one record. Every applicable problem is
// reported, not just the first.
func (s *ResultVerifyService) VerifyStructure(rec models.EncryptedResultRecord) models.StructuralVerification {
	var errs []string

	if rec.Encrypted == "" {
		errs = append(errs, "encrypted payload is missing")
	} else if data, err := base64.StdEncoding.DecodeString(rec.Encrypted); err != nil {
		errs = append(errs, "encrypted payload is not valid base64")
	} else if len(data) == 0 {
		errs = append(errs, "encrypted payload is empty")
	}

	errs = append(errs, checkFixedField("iv", rec.IV, gcmNonceLength)...)
	errs = append(errs, checkFixedField("auth tag", rec.AuthTag, gcmTagLength)...)

	if rec.KeyRef == "" {
		errs = append(errs, "key reference is missing")
	} else if len(s.knownKeyRefs) > 0 {
		if _, ok := s.knownKeyRefs[rec.KeyRef]; !ok {
			errs = append(errs, "key reference is not recognized")
		}
	}

	valid := len(errs) == 0
	metrics.IncResultRecordVerified(valid)
	return models.StructuralVerification{Valid: valid, Errors: errs}
}

// VerifyBatch validates each record independently and preserves input
// order: one result per record, and a malformed record never aborts the
// rest of the batch.
func (s *ResultVerifyService) VerifyBatch(records []models.EncryptedResultRecord) []models.StructuralVerification {
	results := make([]models.StructuralVerification, len(records))
	for i, rec := range records {
		results[i] = s.VerifyStructure(rec)
	}
	return results
}

func checkFixedField(name, value string, wantLen int) []string {
	if value == "" {
		return []string{fmt.Sprintf("%s is missing", name)}
	}
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return []string{fmt.Sprintf("%s is not valid base64", name)}
	}
	if len(data) != wantLen {
		return []string{fmt.Sprintf("%s must decode to %d bytes, got %d", name, wantLen, len(data))}
	}
	return nil
}
