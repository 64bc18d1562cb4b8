package middleware

import (
	"bhinneka/config"
	"bhinneka/server/handler"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// 身份来源
const (
	SourceToken    = "token"
	SourceUserinfo = "userinfo"
)

// ErrInvalidCredentials 凭证无法识别
var ErrInvalidCredentials = errors.New("invalid credentials")

// Identity 已认证的调用方，Email 可能为空
type Identity struct {
	Subject string `json:"sub,omitempty"`
	Email   string `json:"email,omitempty"`
	Source  string `json:"source"`
}

type identityKey struct{}

// WithIdentity 把身份放入 context
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom 从 context 中取出身份
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// UserinfoClient 通过 OIDC userinfo 接口解析 access token，结果按 token 摘要缓存
type UserinfoClient struct {
	client *resty.Client
	url    string
	cache  *expirable.LRU[string, *Identity]
}

// NewUserinfoClient 创建 userinfo 客户端
func NewUserinfoClient(url string, cacheSize int, ttl time.Duration) *UserinfoClient {
	if cacheSize <= 0 {
		cacheSize = 1024
	}
	return &UserinfoClient{
		client: resty.New().
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/json"),
		url:   url,
		cache: expirable.NewLRU[string, *Identity](cacheSize, nil, ttl),
	}
}

type userinfoResponse struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Resolve 查询 token 对应的用户，失败不缓存
func (u *UserinfoClient) Resolve(ctx context.Context, token string) (*Identity, error) {
	key := tokenDigest(token)
	if id, ok := u.cache.Get(key); ok {
		return id, nil
	}
	resp, err := u.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		Get(u.url)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%w: userinfo returned HTTP %d", ErrInvalidCredentials, resp.StatusCode())
	}
	var info userinfoResponse
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		return nil, fmt.Errorf("userinfo response: %w", err)
	}
	id := &Identity{Subject: info.Sub, Email: strings.ToLower(strings.TrimSpace(info.Email)), Source: SourceUserinfo}
	u.cache.Add(key, id)
	return id, nil
}

// Authenticator 解析 Authorization: Bearer 凭证。
// 先按签名 token 校验，失败且配置了 userinfo 时再查询 userinfo。
type Authenticator struct {
	signer   *handler.TokenSigner
	userinfo *UserinfoClient
	required bool
	logger   *zap.Logger
}

// NewAuthenticator 按配置创建认证器
func NewAuthenticator(cfg config.Auth, logger *zap.Logger) *Authenticator {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Authenticator{required: cfg.Required || cfg.Restricted(), logger: logger.Named("auth")}
	if cfg.Secret != "" {
		a.signer = handler.NewTokenSigner(cfg.Secret)
	}
	if cfg.UserinfoURL != "" {
		a.userinfo = NewUserinfoClient(cfg.UserinfoURL, cfg.CacheSize, cfg.CacheTTL())
	}
	return a
}

// Enabled 是否配置了任何凭证校验方式
func (a *Authenticator) Enabled() bool {
	return a.signer != nil || a.userinfo != nil
}

// Resolve 把 token 解析为身份
func (a *Authenticator) Resolve(ctx context.Context, token string) (*Identity, error) {
	if a.signer != nil {
		email, err := a.signer.Validate(token)
		if err == nil {
			return &Identity{Subject: email, Email: email, Source: SourceToken}, nil
		}
		if errors.Is(err, handler.ErrTokenExpired) || a.userinfo == nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
		}
	}
	if a.userinfo != nil {
		return a.userinfo.Resolve(ctx, token)
	}
	return nil, ErrInvalidCredentials
}

func bearerToken(c *gin.Context) (string, bool) {
	parts := strings.Fields(c.GetHeader("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// Auth 解析调用方身份。没有凭证时只有在要求认证的情况下才拒绝，
// 携带了无法识别的凭证时总是返回 401。
func (a *Authenticator) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if a.required {
				handler.Unauthorized(c, "Missing bearer token")
				return
			}
			c.Next()
			return
		}
		token, ok := bearerToken(c)
		if !ok {
			handler.Unauthorized(c, "Invalid authorization header format")
			return
		}
		if !a.Enabled() {
			if a.required {
				handler.Unauthorized(c, "Authentication is not configured")
				return
			}
			c.Next()
			return
		}

		id, err := a.Resolve(c.Request.Context(), token)
		if err != nil {
			a.logger.Info("authentication failed",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			handler.Unauthorized(c, "Invalid or expired token")
			return
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
