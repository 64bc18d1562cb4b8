package handler

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

var (
	// ErrMalformedToken token 格式错误
	ErrMalformedToken = errors.New("malformed token")
	// ErrBadSignature 签名不匹配
	ErrBadSignature = errors.New("token signature mismatch")
	// ErrTokenExpired token 已过期
	ErrTokenExpired = errors.New("token expired")
	// ErrNoSecret 未配置签名密钥
	ErrNoSecret = errors.New("auth secret not configured")
)

// TokenSigner 用 HMAC-SHA256 签发和校验身份 token。
// token 格式为 hex(email|expiry) + "." + hex(签名)，expiry 为 RFC3339。
type TokenSigner struct {
	secret []byte
	now    func() time.Time
}

// NewTokenSigner 创建签名器
func NewTokenSigner(secret string) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), now: time.Now}
}

func (s *TokenSigner) sign(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Generate 为邮箱签发有效期为 ttl 的 token
func (s *TokenSigner) Generate(email string, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	expiry := s.now().Add(ttl).UTC()
	payload := strings.ToLower(strings.TrimSpace(email)) + "|" + expiry.Format(time.RFC3339)
	return hex.EncodeToString([]byte(payload)) + "." + s.sign([]byte(payload)), nil
}

// Validate 校验 token 并返回其中的邮箱
func (s *TokenSigner) Validate(token string) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrNoSecret
	}
	idx := strings.LastIndexByte(token, '.')
	if idx < 0 {
		return "", ErrMalformedToken
	}
	payloadBytes, err := hex.DecodeString(token[:idx])
	if err != nil {
		return "", ErrMalformedToken
	}
	if !hmac.Equal([]byte(token[idx+1:]), []byte(s.sign(payloadBytes))) {
		return "", ErrBadSignature
	}

	payload := string(payloadBytes)
	sep := strings.LastIndexByte(payload, '|')
	if sep < 0 {
		return "", ErrMalformedToken
	}
	expiry, err := time.Parse(time.RFC3339, payload[sep+1:])
	if err != nil {
		return "", ErrMalformedToken
	}
	if !s.now().Before(expiry) {
		return "", ErrTokenExpired
	}
	return payload[:sep], nil
}
