package rlwe

// EncryptorInterface defines the subset of methods of [Encryptor] (and [Engine])
// used by the message adapters.
type EncryptorInterface interface {
	Encrypt(message []int64) (ct *Ciphertext, err error)
	GetParameters() Parameters
}

// DecryptorInterface defines the subset of methods of [Decryptor] (and [Engine])
// used by the message adapters.
type DecryptorInterface interface {
	Decrypt(ct *Ciphertext) (message []int64, err error)
	GetParameters() Parameters
}

var (
	_ EncryptorInterface = (*Encryptor)(nil)
	_ EncryptorInterface = (*Engine)(nil)
	_ DecryptorInterface = (*Decryptor)(nil)
	_ DecryptorInterface = (*Engine)(nil)
)
