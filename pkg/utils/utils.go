package utils

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/oklog/ulid/v2"
)

// BarcodePrefix is the GS1 country prefix for Turkey.
const BarcodePrefix = "869"

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	GenerateBarcode(t time.Time) (string, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// GenerateBarcode builds an EAN-13 code from the prefix, the last nine
// digits of the millisecond timestamp and one random digit.
func (u *utils) GenerateBarcode(t time.Time) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10))
	if err != nil {
		return "", err
	}

	ms := fmt.Sprintf("%09d", t.UnixMilli()%1_000_000_000)
	body := BarcodePrefix + ms + n.String()

	check, err := EAN13CheckDigit(body)
	if err != nil {
		return "", err
	}

	return body + string(rune('0'+check)), nil
}

// EAN13CheckDigit computes the check digit for a 12 digit body.
func EAN13CheckDigit(body string) (int, error) {
	if len(body) != 12 {
		return 0, errors.New("ean13 body must be 12 digits")
	}

	sum := 0
	for i, c := range body {
		if c < '0' || c > '9' {
			return 0, errors.New("ean13 body must be numeric")
		}
		d := int(c - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}

	return (10 - sum%10) % 10, nil
}

func ValidEAN13(code string) bool {
	if len(code) != 13 {
		return false
	}
	check, err := EAN13CheckDigit(code[:12])
	if err != nil {
		return false
	}
	return int(code[12]-'0') == check
}
