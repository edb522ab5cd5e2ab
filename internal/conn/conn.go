package conn

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tobsdb/tdblite/pkg"
)

var Upgrader = websocket.Upgrader{
	WriteBufferSize: 1024 * 10,
	ReadBufferSize:  1024 * 10,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type ConnRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tryConnect checks a connect request against the server user. It only
// returns an error when the request could not be decoded.
func (s *Server) tryConnect(ctx *ConnCtx, buf []byte) error {
	var r ConnRequest
	if err := json.Unmarshal(buf, &r); err != nil {
		ctx.WriteResponse(NewErrorResponse(http.StatusBadRequest, err.Error()))
		return err
	}

	if !s.user.ValidateUser(r.Username, r.Password) {
		pkg.WarnLog("failed auth attempt on connection", ctx.Id)
		ctx.WriteResponse(NewErrorResponse(http.StatusUnauthorized, "Invalid auth"))
		return nil
	}

	ctx.SetAuthed(s.user)
	ctx.WriteResponse(NewResponse(http.StatusOK, "connected", nil))
	return nil
}

func (s *Server) HandleConnection(w http.ResponseWriter, r *http.Request) {
	c, err := Upgrader.Upgrade(w, r, nil)
	if err != nil {
		pkg.ErrorLog(err)
		return
	}
	defer c.Close()

	ctx := NewConnCtx(c, s.user != nil)
	pkg.InfoLog("New connection", ctx.Id, "from", r.RemoteAddr)
	defer pkg.InfoLog("Connection closed", ctx.Id)

	for {
		buf, err := ctx.Read()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pkg.ErrorLog("conn read error", err)
			}
			return
		}

		if !ctx.isAuthed {
			if err := s.tryConnect(ctx, buf); err != nil {
				pkg.ErrorLog("conn attempt error", err)
				return
			}
			ctx.attempts += 1
			if !ctx.isAuthed && ctx.attempts == maxConnAttempts {
				pkg.ErrorLog("max connection attempts reached on", ctx.Id)
				ConnError(c, "max connection attempts reached")
				return
			}
			continue
		}

		var req WsRequest
		if err := json.Unmarshal(buf, &req); err != nil {
			pkg.ErrorLog("parsing request", err)
			if err := ctx.WriteResponse(NewErrorResponse(http.StatusBadRequest, err.Error())); err != nil {
				return
			}
			continue
		}

		res := s.ExecRequest(ctx, req)
		res.ReqId = req.ReqId

		if err := ctx.WriteResponse(res); err != nil {
			pkg.ErrorLog("writing response", err)
			return
		}
	}
}

func ConnError(c *websocket.Conn, conn_error string) {
	pkg.InfoLog("connection error:", conn_error)
	c.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.ClosePolicyViolation, conn_error))
}
