// Package signature implements the keyed-digest rules each payment gateway
// uses to sign requests and notifications.
//
// A Scheme is a pure value. Canonicalization, signing and verification never
// perform I/O, so the same Scheme is shared by the request and the
// notification paths of an adapter.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"net/url"
	"slices"
	"strings"
)

type Scheme struct {
	Name string
	// Fields is the declared field order. When empty every key that is not
	// excluded is signed, sorted by its encoded form.
	Fields []string
	// Exclude lists keys that are never part of the canonical string.
	Exclude []string
	// Encode applies form encoding to keys and values (space becomes "+").
	Encode bool
	// OmitEmpty drops keys whose value is the empty string.
	OmitEmpty bool
	Hash      func() hash.Hash
	Upper     bool
}

var (
	VNPay = Scheme{
		Name:      "vnpay",
		Exclude:   []string{"vnp_SecureHash", "vnp_SecureHashType"},
		Encode:    true,
		OmitEmpty: true,
		Hash:      sha512.New,
		Upper:     true,
	}

	MoMoCreate = Scheme{
		Name: "momo-create",
		Fields: []string{
			"accessKey", "amount", "extraData", "ipnUrl", "orderId", "orderInfo",
			"partnerCode", "redirectUrl", "requestId", "requestType",
		},
		Hash: sha256.New,
	}

	MoMoNotify = Scheme{
		Name: "momo-notify",
		Fields: []string{
			"accessKey", "amount", "extraData", "message", "orderId", "orderInfo", "orderType",
			"partnerCode", "payType", "requestId", "responseTime", "resultCode", "transId",
		},
		Hash: sha256.New,
	}

	MoMoCreateResponse = Scheme{
		Name: "momo-create-response",
		Fields: []string{
			"accessKey", "amount", "message", "orderId", "partnerCode",
			"payUrl", "requestId", "responseTime", "resultCode",
		},
		Hash: sha256.New,
	}

	PayOS = Scheme{
		Name:    "payos",
		Exclude: []string{"signature"},
		Hash:    sha256.New,
	}
)

// Canonicalize renders params as key=value pairs joined by "&".
func (s Scheme) Canonicalize(params map[string]string) []byte {
	type pair struct{ key, value string }

	pairs := make([]pair, 0, len(params))
	add := func(key, value string) {
		if s.OmitEmpty && value == "" {
			return
		}
		if s.Encode {
			key, value = encode(key), encode(value)
		}
		pairs = append(pairs, pair{key, value})
	}

	if len(s.Fields) > 0 {
		for _, key := range s.Fields {
			if value, ok := params[key]; ok && !s.excluded(key) {
				add(key, value)
			}
		}
	} else {
		for key, value := range params {
			if !s.excluded(key) {
				add(key, value)
			}
		}

		slices.SortFunc(pairs, func(a, b pair) int {
			return strings.Compare(a.key, b.key)
		})
	}

	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}

	return []byte(b.String())
}

func (s Scheme) Sign(canonical []byte, secret string) string {
	mac := hmac.New(s.Hash, []byte(secret))
	mac.Write(canonical)

	digest := hex.EncodeToString(mac.Sum(nil))
	if s.Upper {
		return strings.ToUpper(digest)
	}

	return digest
}

func (s Scheme) Digest(params map[string]string, secret string) string {
	return s.Sign(s.Canonicalize(params), secret)
}

// Verify recomputes the digest over params and compares it with supplied in
// constant time, ignoring hex case.
func (s Scheme) Verify(params map[string]string, supplied, secret string) bool {
	if supplied == "" {
		return false
	}

	expected := s.Digest(params, secret)

	return hmac.Equal(
		[]byte(strings.ToLower(expected)),
		[]byte(strings.ToLower(supplied)),
	)
}

func (s Scheme) excluded(key string) bool {
	return slices.Contains(s.Exclude, key)
}

// encode is application/x-www-form-urlencoded escaping; spaces are written as "+".
func encode(v string) string {
	return url.QueryEscape(v)
}
