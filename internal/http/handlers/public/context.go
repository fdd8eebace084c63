package public

import (
	"fmt"
	"time"

	handlershared "github.com/lankashop/storefront/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const cartSessionCookie = "cart_session"

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "user_id")
}

// optionalUserID 读取已登录用户 ID，未登录返回 0。
func optionalUserID(c *gin.Context) uint {
	value, exists := c.Get("user_id")
	if !exists {
		return 0
	}
	if id, ok := value.(uint); ok {
		return id
	}
	return 0
}

// cartSessionID 解析购物车会话：登录用户绑定账号，
// 游客使用 cookie 会话键，首次访问时种下。
// 带着游客 cookie 登录后，游客购物车并入账号购物车，cookie 随即失效，
// 登录前加入的商品不会丢。
func (h *Handler) cartSessionID(c *gin.Context) string {
	if uid := optionalUserID(c); uid > 0 {
		userSession := fmt.Sprintf("u%d", uid)
		if sid, err := c.Cookie(cartSessionCookie); err == nil && sid != "" {
			h.Carts.Merge(c.Request.Context(), sid, userSession)
			c.SetCookie(cartSessionCookie, "", -1, "/", "", false, true)
		}
		return userSession
	}
	if sid, err := c.Cookie(cartSessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie(cartSessionCookie, sid, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
	return sid
}
