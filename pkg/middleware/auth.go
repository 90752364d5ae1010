package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/wyfcoding/pkg/response"
)

// AuthUserIDKey gin context 中已验证用户 ID 的键
const AuthUserIDKey = "auth_user_id"

// AuthRoleKey gin context 中用户角色的键
const AuthRoleKey = "auth_role"

// RoleAdmin 管理员角色
const RoleAdmin = "admin"

// AuthClaims JWT 载荷
// 用户 ID 统一取自标准 sub，兼容历史 token 的 user_id 字段
type AuthClaims struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTAuth 鉴权中间件，验证通过后向 context 注入规范化的用户 ID
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "missing access token", "")
			c.Abort()
			return
		}

		claims := &AuthClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))
		if err != nil || !parsed.Valid {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid or expired token", "")
			c.Abort()
			return
		}

		userID := claims.Subject
		if userID == "" {
			userID = claims.UserID
		}
		if userID == "" {
			response.ErrorWithStatus(c, http.StatusUnauthorized, "invalid token payload", "")
			c.Abort()
			return
		}

		c.Set(AuthUserIDKey, userID)
		c.Set(AuthRoleKey, claims.Role)
		c.Next()
	}
}

// AdminOnly 管理员校验中间件，必须位于 JWTAuth 之后
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(AuthRoleKey) != RoleAdmin {
			response.ErrorWithStatus(c, http.StatusForbidden, "admin access required", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID 读取已验证的用户 ID
func UserID(c *gin.Context) string {
	return c.GetString(AuthUserIDKey)
}

// extractToken 依次从 Authorization Bearer、X-Access-Token、cookie 提取 token
func extractToken(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	if tok := c.GetHeader("X-Access-Token"); tok != "" {
		return tok
	}
	if tok, err := c.Cookie("token"); err == nil {
		return tok
	}
	return ""
}
