// Go client for a tdblite server (tdblite serve).
//
// Usage:
//
//	c, err := client.NewTdbClient("ws://localhost:7085", client.TdbClientOptions{})
//	res, err := c.Insert("users", "John Doe", "30")
//	res, err = c.Select("users", "age > 20")
//
// Every call returns the server response; a non-2xx status is also
// reported as a *TdbError.
package client

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	ws "github.com/gorilla/websocket"
	"github.com/tobsdb/tdblite/pkg"
)

type (
	TdbClientOptions struct {
		Username string
		Password string
	}

	// Tdblite client
	//
	// Unless you know what you're doing, you probably want to use
	// the `NewTdbClient` function instead.
	TdbClient struct {
		mu sync.Mutex
		// The websocket connection used by the client
		conn *ws.Conn
		// The connection url of the tdblite server
		Url     *url.URL
		options TdbClientOptions
		req_id  int
	}
)

type TdbResponse struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	RequestId int    `json:"__tdb_client_req_id__"`
}

type TdbError struct {
	Status  int
	Message string
}

func (e *TdbError) Error() string { return fmt.Sprintf("TDB Error (%d): %s", e.Status, e.Message) }

func NewTdbClient(urlStr string, options TdbClientOptions) (*TdbClient, error) {
	Url, err := url.Parse(urlStr)
	if err != nil {
		return nil, err
	}
	return &TdbClient{Url: Url, options: options}, nil
}

func (c *TdbClient) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connect()
}

func (c *TdbClient) connect() error {
	if c.conn != nil {
		return nil
	}
	conn, _, err := ws.DefaultDialer.Dial(c.Url.String(), nil)
	if err != nil {
		return err
	}

	if c.options.Username != "" {
		var res TdbResponse
		err := conn.WriteJSON(map[string]string{
			"username": c.options.Username,
			"password": c.options.Password,
		})
		if err == nil {
			err = conn.ReadJSON(&res)
		}
		if err == nil && res.Status != 200 {
			err = &TdbError{res.Status, res.Message}
		}
		if err != nil {
			conn.Close()
			return err
		}
	}

	pkg.InfoLog("Connected to TDB Server", c.Url.Host)
	c.conn = conn
	return nil
}

func (c *TdbClient) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}

	err := c.conn.WriteMessage(ws.CloseMessage,
		ws.FormatCloseMessage(ws.CloseNormalClosure, "Disconnect"))
	if err != nil {
		pkg.ErrorLog(err)
	}
	if close_err := c.conn.Close(); close_err != nil && err == nil {
		err = close_err
	}
	c.conn = nil

	pkg.InfoLog("Disconnected from TDB Server")
	return err
}

// Exec sends one command already split into arguments. Destructive
// commands only run when confirm is set.
func (c *TdbClient) Exec(args []string, confirm bool) (TdbResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.connect(); err != nil {
		return TdbResponse{}, err
	}

	c.req_id += 1
	err := c.conn.WriteJSON(map[string]any{
		"args":                  args,
		"confirm":               confirm,
		"__tdb_client_req_id__": c.req_id,
	})
	if err != nil {
		return TdbResponse{}, err
	}

	var res TdbResponse
	if err := c.conn.ReadJSON(&res); err != nil {
		return res, err
	}
	if res.Status >= 300 {
		return res, &TdbError{res.Status, res.Message}
	}
	return res, nil
}

func (c *TdbClient) CreateTable(table string, column_defs ...string) (TdbResponse, error) {
	return c.Exec(append([]string{"create_table", table}, column_defs...), false)
}

func (c *TdbClient) ListTables() (TdbResponse, error) {
	return c.Exec([]string{"list_tables"}, false)
}

func (c *TdbClient) DropTable(table string) (TdbResponse, error) {
	return c.Exec([]string{"drop_table", table}, true)
}

func (c *TdbClient) Insert(table string, values ...string) (TdbResponse, error) {
	return c.Exec(append([]string{"insert", table}, values...), false)
}

// Select returns records of table matching where, e.g. "age > 20".
// An empty where selects every record.
func (c *TdbClient) Select(table, where string) (TdbResponse, error) {
	return c.Exec(withWhere([]string{"select", table}, where), false)
}

// Update applies set, e.g. "name = Jane, age = 30", to matching records.
func (c *TdbClient) Update(table, set, where string) (TdbResponse, error) {
	return c.Exec(withWhere([]string{"update", table, "SET " + set}, where), false)
}

func (c *TdbClient) Delete(table, where string) (TdbResponse, error) {
	return c.Exec(withWhere([]string{"delete", table}, where), true)
}

func (c *TdbClient) Info(table string) (TdbResponse, error) {
	return c.Exec([]string{"info", table}, false)
}

func withWhere(args []string, where string) []string {
	if where = strings.TrimSpace(where); where == "" {
		return args
	}
	return append(args, "WHERE "+where)
}
