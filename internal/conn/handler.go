package conn

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tobsdb/tdblite/internal/auth"
	"github.com/tobsdb/tdblite/internal/command"
	"github.com/tobsdb/tdblite/internal/types"
	"github.com/tobsdb/tdblite/pkg"
)

// WsRequest carries one command, either as a line or already split
// into arguments.
type WsRequest struct {
	Command string   `json:"command"`
	Args    []string `json:"args"`
	// destructive commands are cancelled unless set
	Confirm bool `json:"confirm"`
	ReqId   int  `json:"__tdb_client_req_id__"` // used in tdb clients
}

type Response struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	// don't manually set this. it comes from the client
	ReqId int `json:"__tdb_client_req_id__"`
}

func NewErrorResponse(status int, err string) Response {
	return Response{Message: err, Status: status}
}

func NewResponse(status int, message string, data any) Response {
	return Response{Data: data, Message: message, Status: status}
}

type SelectData struct {
	Columns []string       `json:"columns"`
	Rows    []types.Record `json:"rows"`
}

type ColumnData struct {
	Name string           `json:"name"`
	Type types.ColumnType `json:"type"`
}

type TableData struct {
	Name    string       `json:"name"`
	Columns []ColumnData `json:"columns"`
}

func (r WsRequest) args() ([]string, error) {
	if len(r.Args) > 0 {
		return r.Args, nil
	}
	return command.Tokenize(r.Command)
}

// ExecRequest runs one request for the connection. Read-only commands
// share the server's read lock; everything else holds the write lock.
func (s *Server) ExecRequest(ctx *ConnCtx, req WsRequest) Response {
	args, err := req.args()
	if err != nil {
		return NewErrorResponse(http.StatusBadRequest, err.Error())
	}
	if len(args) == 0 {
		return NewErrorResponse(http.StatusBadRequest, "no command provided")
	}

	name := command.Name(strings.ToLower(args[0]))
	if name == command.CommandExit {
		return NewErrorResponse(http.StatusBadRequest, "exit is not available over a connection")
	}
	read_only := name.IsReadOnly()
	if !ctx.CanRun(read_only) {
		return NewErrorResponse(http.StatusForbidden, auth.InsufficientPermissions.Error())
	}

	d := command.NewDispatcher(s.engine, command.ConfirmFunc(func(action string) bool {
		if !req.Confirm {
			pkg.DebugLog("unconfirmed", action, "on connection", ctx.Id)
		}
		return req.Confirm
	}))

	var res *command.Result
	if read_only {
		s.Locker.RLock()
		res, err = d.Exec(args)
		s.Locker.RUnlock()
	} else {
		pkg.LockWrap(s, func() {
			res, err = d.Exec(args)
		})
	}

	if err != nil {
		return NewErrorResponse(ErrorStatus(err), err.Error())
	}
	return NewResponse(resultStatus(res), res.Message, resultData(res))
}

// ErrorStatus maps a command error to an HTTP status code.
func ErrorStatus(err error) int {
	var query_error *types.QueryError
	if errors.As(err, &query_error) {
		switch query_error.Kind() {
		case types.ErrTableNotFound:
			return http.StatusNotFound
		case types.ErrTableExists:
			return http.StatusConflict
		case types.ErrPersistenceFailure:
			return http.StatusInternalServerError
		default:
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, command.ErrUnknownCommand) || errors.Is(err, command.ErrUsage) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func resultStatus(res *command.Result) int {
	switch res.Command {
	case command.CommandCreateTable, command.CommandInsert:
		if res.Message != command.CANCELLED_MESSAGE {
			return http.StatusCreated
		}
	}
	return http.StatusOK
}

func resultData(res *command.Result) any {
	switch {
	case res.Table == nil:
		return nil
	case res.Command == command.CommandSelect:
		return SelectData{Columns: res.Table.ColumnNames(), Rows: res.Rows}
	default:
		columns := []ColumnData{}
		res.Table.Columns.Each(func(name string, t types.ColumnType) {
			columns = append(columns, ColumnData{name, t})
		})
		return TableData{Name: res.Table.Name, Columns: columns}
	}
}

