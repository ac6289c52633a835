package models

// EncryptedResultRecord is an exported, opaque authenticated-ciphertext
// bundle. All four fields are base64 on the wire; this core only checks
// structural well-formedness and never decrypts.
type EncryptedResultRecord struct {
	Encrypted string `json:"encrypted"`
	IV        string `json:"iv"`
	AuthTag   string `json:"auth_tag"`
	KeyRef    string `json:"key_ref"`
}

// StructuralVerification is the per-record outcome of a structural check.
// Errors describe which field is malformed without quoting its contents.
type StructuralVerification struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
