package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WeOneApp/wardsponsor/internal/pkg/session"
	"github.com/WeOneApp/wardsponsor/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a UserContext for every
// request so controllers never touch the session store directly.
func UserContextMiddleware(c *fiber.Ctx) error {
	anonymous := func() error {
		c.Locals(usercontext.KeyUserContext, usercontext.UserContext{})
		c.Locals(usercontext.KeyFromProtected, false)
		c.Locals(usercontext.KeyIsAdmin, false)
		return c.Next()
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		// Session store unavailable, treat as anonymous
		return anonymous()
	}

	if authed, _ := sess.Get(usercontext.AuthKey).(bool); !authed {
		return anonymous()
	}
	uid, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || uid == 0 {
		return anonymous()
	}

	username := session.GetSessionValue(c, usercontext.KeyUsername)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	c.Locals(usercontext.KeyUserContext, usercontext.UserContext{
		UserID:     uid,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	c.Locals(usercontext.KeyFromProtected, true)
	c.Locals(usercontext.KeyUsername, username)
	c.Locals(usercontext.KeyUserID, uid)
	c.Locals(usercontext.KeyIsAdmin, isAdmin)

	return c.Next()
}
