// Package rsakey загружает приватный RSA-ключ мерчанта из значения переменной окружения
// или из файла. Ключ читается один раз при старте и дальше только используется на чтение.
package rsakey

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
)

var (
	// ErrNoKey возвращается, если не задан ни ключ, ни путь к нему.
	ErrNoKey = errors.New("rsakey: private key is not configured")
	// ErrNotRSA возвращается для PKCS#8 ключей другого типа.
	ErrNotRSA = errors.New("rsakey: private key is not an RSA key")
)

// Load возвращает ключ из value, а если оно пустое, то из файла по path.
func Load(value, path string) (*rsa.PrivateKey, error) {
	const op = "rsakey.Load"

	switch {
	case strings.TrimSpace(value) != "":
		key, err := Parse([]byte(unescape(value)))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return key, nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%s: read key file: %w", op, err)
		}
		key, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, path, err)
		}
		return key, nil
	default:
		return nil, ErrNoKey
	}
}

// Parse разбирает PEM (PKCS#1 или PKCS#8). Тело без PEM-обёртки считается base64 DER.
func Parse(data []byte) (*rsa.PrivateKey, error) {
	var der []byte
	if block, _ := pem.Decode(data); block != nil {
		der = block.Bytes
	} else {
		decoded, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(string(data)), ""))
		if err != nil {
			return nil, errors.New("rsakey: no PEM block found")
		}
		der = decoded
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, fmt.Errorf("rsakey: parse private key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrNotRSA
	}
	return key, nil
}

// unescape превращает "\n" из однострочной переменной окружения в переводы строк
func unescape(value string) string {
	return strings.ReplaceAll(strings.TrimSpace(value), `\n`, "\n")
}
