package gonka

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/decred/dcrd/bech32"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // Cosmos addresses are defined over RIPEMD-160.

	"github.com/ineyio/textgen"
)

const addressPrefix = "gonka"

// keyInfo is a parsed signing key and the address it signs as.
type keyInfo struct {
	privKey *secp256k1.PrivateKey
	address string
}

// keyCache memoizes parsed keys by their hex form. Parsing and address
// derivation cost an EC scalar multiplication, so it runs once per key.
type keyCache struct {
	keys sync.Map // hex key -> *keyInfo
}

func newKeyCache() *keyCache { return &keyCache{} }

func (c *keyCache) get(hexKey string) (*keyInfo, error) {
	if v, ok := c.keys.Load(hexKey); ok {
		return v.(*keyInfo), nil
	}
	priv, err := parsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	addr, err := deriveAddress(priv)
	if err != nil {
		return nil, err
	}
	v, _ := c.keys.LoadOrStore(hexKey, &keyInfo{privKey: priv, address: addr})
	return v.(*keyInfo), nil
}

// parsePrivateKey decodes a hex secp256k1 key, with or without a 0x prefix.
// Every failure is a configuration error: the key comes from client settings.
func parsePrivateKey(hexKey string) (*secp256k1.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(hexKey, "0x"), "0X"))
	switch {
	case err != nil:
		return nil, textgen.Configurationf("gonka: invalid private key hex: %v", err)
	case len(raw) != secp256k1.PrivKeyBytesLen:
		return nil, textgen.Configurationf("gonka: private key must be %d bytes, got %d", secp256k1.PrivKeyBytesLen, len(raw))
	}
	priv := secp256k1.PrivKeyFromBytes(raw)
	if priv.Key.IsZero() {
		return nil, textgen.Configurationf("gonka: private key is zero")
	}
	return priv, nil
}

// hash160 is RIPEMD160(SHA256(b)).
func hash160(b []byte) []byte {
	sha := sha256.Sum256(b)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// deriveAddress computes the Cosmos bech32 address from a secp256k1 private key.
// Pipeline: compressed pubkey → SHA256 → RIPEMD160 → bech32("gonka").
func deriveAddress(privKey *secp256k1.PrivateKey) (string, error) {
	compressed := privKey.PubKey().SerializeCompressed()

	addr, err := bech32.EncodeFromBase256(addressPrefix, hash160(compressed))
	if err != nil {
		return "", fmt.Errorf("gonka: encode address: %w", err)
	}
	return addr, nil
}

// signRequest produces the ECDSA signature for a Gonka API request.
// Returns the base64-encoded raw signature (r || s, 64 bytes).
func signRequest(privKey *secp256k1.PrivateKey, body []byte, tsNanos int64, transferAddr string) string {
	// message = hex(SHA256(body)) + timestamp + transferAddress
	bodyHash := sha256.Sum256(body)
	message := hex.EncodeToString(bodyHash[:]) + strconv.FormatInt(tsNanos, 10) + transferAddr

	digest := sha256.Sum256([]byte(message))

	// RFC6979 deterministic, low-S. Compact form is [recovery, r(32), s(32)].
	compactSig := ecdsa.SignCompact(privKey, digest[:], false)

	return base64.StdEncoding.EncodeToString(compactSig[1:65])
}
