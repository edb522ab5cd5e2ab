package conn

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tobsdb/tdblite/internal/auth"
)

type ConnCtx struct {
	Id       string
	conn     *websocket.Conn
	attempts int
	isAuthed bool

	User *auth.User
}

// New connections that must authenticate have a 30 second deadline.
// If the deadline is reached before authenticating, the connection is closed.
func NewConnCtx(c *websocket.Conn, needs_auth bool) *ConnCtx {
	ctx := &ConnCtx{Id: uuid.New().String(), conn: c, isAuthed: !needs_auth}
	if needs_auth {
		c.SetReadDeadline(time.Now().Add(30 * time.Second))
	}
	return ctx
}

// SetAuthed marks the connection as authenticated and removes the deadline.
func (ctx *ConnCtx) SetAuthed(u *auth.User) {
	ctx.isAuthed = true
	ctx.User = u
	ctx.conn.SetReadDeadline(time.Time{})
}

const maxConnAttempts = 3

func (ctx *ConnCtx) Read() ([]byte, error) {
	_, buf, err := ctx.conn.ReadMessage()
	return buf, err
}

func (ctx *ConnCtx) WriteResponse(r Response) error { return ctx.conn.WriteJSON(r) }

// CanRun reports whether the connection's user may run a command.
func (ctx *ConnCtx) CanRun(read_only bool) bool {
	if ctx.User == nil {
		return true
	}
	if read_only {
		return ctx.User.HasClearance(auth.UserRoleReadOnly)
	}
	return ctx.User.HasClearance(auth.UserRoleReadWrite)
}
