// Package signer сериализует тело запроса к NovaPay и подписывает его RSA-SHA1 (PKCS#1 v1.5).
// Подпись считается ровно по тем байтам, которые уходят в теле запроса.
package signer

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // алгоритм подписи задан провайдером
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoKey возвращается при попытке подписать без ключа.
var ErrNoKey = errors.New("signer: private key is nil")

// Envelope — сериализованное тело и подпись к нему.
type Envelope struct {
	Body      []byte
	Signature string
}

// Signer подписывает произвольные JSON-сериализуемые значения.
type Signer struct {
	key *rsa.PrivateKey
}

// New создаёт Signer для ключа мерчанта.
func New(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Sign сериализует payload и подписывает полученные байты.
func (s *Signer) Sign(payload any) (Envelope, error) {
	const op = "signer.Sign"

	if s.key == nil {
		return Envelope{}, ErrNoKey
	}
	body, err := Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: marshal payload: %w", op, err)
	}

	digest := sha1.Sum(body) //nolint:gosec
	sig, err := rsa.SignPKCS1v15(rand.Reader, s.key, crypto.SHA1, digest[:])
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %w", op, err)
	}

	return Envelope{
		Body:      body,
		Signature: base64.StdEncoding.EncodeToString(sig),
	}, nil
}

// Marshal кодирует v в JSON без экранирования HTML и без завершающего перевода строки.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Verify проверяет подпись body публичным ключом.
func Verify(pub *rsa.PublicKey, body []byte, signature string) error {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("signer.Verify: decode signature: %w", err)
	}
	digest := sha1.Sum(body) //nolint:gosec
	return rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], sig)
}
