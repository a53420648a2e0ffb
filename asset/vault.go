package asset

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

// ErrIntegrity reports that stored asset bytes no longer match their
// recorded digest.
var ErrIntegrity = errors.New("asset integrity check failed")

// ErrNotFound reports a signer with no stored asset
var ErrNotFound = errors.New("asset not found")

// Key derivation parameters
const (
	keyLen     = 32
	pbkdfIters = 100000
	saltLen    = 16
)

// Digest returns the hex SHA-256 of asset bytes
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyIntegrity checks asset bytes against a recorded digest
func VerifyIntegrity(data []byte, digest string) error {
	if Digest(data) != strings.ToLower(digest) {
		return ErrIntegrity
	}
	return nil
}

// Vault stores signature artwork encrypted at rest. Each signer's asset is
// one file holding salt, nonce, and AES-256-GCM ciphertext; the plaintext
// digest is recorded beside it and verified on load.
type Vault struct {
	dir        string
	passphrase []byte

	mu sync.Mutex
}

// NewVault opens a vault rooted at dir, creating it if needed
func NewVault(dir string, passphrase string) (*Vault, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("vault passphrase must not be empty")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating vault directory: %w", err)
	}
	return &Vault{dir: dir, passphrase: []byte(passphrase)}, nil
}

func (v *Vault) assetPath(signerID string) string {
	return filepath.Join(v.dir, sanitize(signerID)+".sig")
}

func (v *Vault) digestPath(signerID string) string {
	return filepath.Join(v.dir, sanitize(signerID)+".sha256")
}

// sanitize keeps signer IDs safe as file names
func sanitize(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, id)
}

// Store seals asset bytes for a signer, replacing any previous asset
func (v *Vault) Store(signerID string, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	sealed, err := v.seal(data)
	if err != nil {
		return fmt.Errorf("sealing asset for %s: %w", signerID, err)
	}
	if err := os.WriteFile(v.assetPath(signerID), sealed, 0o600); err != nil {
		return fmt.Errorf("writing asset: %w", err)
	}
	if err := os.WriteFile(v.digestPath(signerID), []byte(Digest(data)), 0o600); err != nil {
		return fmt.Errorf("writing digest: %w", err)
	}
	return nil
}

// Load opens a signer's asset, verifying its digest.
func (v *Vault) Load(signerID string) ([]byte, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	sealed, err := os.ReadFile(v.assetPath(signerID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("signer %s: %w", signerID, ErrNotFound)
		}
		return nil, fmt.Errorf("reading asset: %w", err)
	}

	data, err := v.open(sealed)
	if err != nil {
		return nil, fmt.Errorf("unsealing asset for %s: %w", signerID, err)
	}

	digest, err := os.ReadFile(v.digestPath(signerID))
	if err != nil {
		return nil, fmt.Errorf("reading digest: %w", err)
	}
	if err := VerifyIntegrity(data, string(digest)); err != nil {
		return nil, fmt.Errorf("signer %s: %w", signerID, err)
	}
	return data, nil
}

// Delete removes a signer's asset and digest
func (v *Vault) Delete(signerID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.Remove(v.assetPath(signerID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing asset: %w", err)
	}
	if err := os.Remove(v.digestPath(signerID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing digest: %w", err)
	}
	return nil
}

// Has reports whether a signer has a stored asset
func (v *Vault) Has(signerID string) bool {
	_, err := os.Stat(v.assetPath(signerID))
	return err == nil
}

// seal encrypts plaintext as salt || nonce || ciphertext. A fresh salt per
// seal means reusing the passphrase never reuses a key.
func (v *Vault) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	gcm, err := v.aead(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	out := make([]byte, 0, saltLen+len(nonce)+len(plaintext)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

func (v *Vault) open(sealed []byte) ([]byte, error) {
	if len(sealed) < saltLen {
		return nil, fmt.Errorf("sealed asset too short")
	}
	salt, rest := sealed[:saltLen], sealed[saltLen:]

	gcm, err := v.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(rest) < gcm.NonceSize() {
		return nil, fmt.Errorf("sealed asset too short")
	}
	nonce, ciphertext := rest[:gcm.NonceSize()], rest[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}

func (v *Vault) aead(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(v.passphrase, salt, pbkdfIters, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
