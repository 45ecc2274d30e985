package middleware

import (
	"net/http"
	"strings"

	"Atelier_Room/internal/pkg"
	rds "Atelier_Room/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const ContextUserIDKey = "user_id"

// Auth 鉴权：解析 access token 并校验是否为该用户当前唯一会话。
// 通过后顺手给会话续期。
func Auth(rdb *redis.Client) gin.HandlerFunc {
	userRepo := &rds.UserRepository{RDB: rdb}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := pkg.ParseAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		// 单会话：redis 里存的不是这个 token 就说明已在别处登录或已登出
		stored, err := userRepo.GetUserToken(claims.UserID)
		if err != nil || stored != tokenStr {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "session expired"})
			return
		}
		_ = userRepo.ExtendUserToken(claims.UserID)

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}
