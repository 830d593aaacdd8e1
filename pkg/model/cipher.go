package model

import (
	"gorm.io/gorm"

	"github.com/ammar-oker/RedisInsight/pkg/crypto"
)

// noopCipher is used when no cipher is present in the DB context, e.g. in
// store tests that don't exercise encryption.
type noopCipher struct{}

func (noopCipher) Encrypt(_, plainText []byte) ([]byte, error)  { return plainText, nil }
func (noopCipher) Decrypt(_, packedText []byte) ([]byte, error) { return packedText, nil }

// getCipherForDb extracts the symmetric cipher carried in the GORM context.
func getCipherForDb(tx *gorm.DB) crypto.SymmetricCipher {
	if cipher, ok := tx.Statement.Context.Value("cipher").(crypto.SymmetricCipher); ok {
		return cipher
	}
	return noopCipher{}
}
