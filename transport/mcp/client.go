package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/results"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Minesweeper",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Minesweeper - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Open every cell that is not a mine. Numbers tell how many of the 8 neighbours are mines.

AVAILABLE TOOLS:
- create_session / get_session / list_sessions: manage games
- game_state: board as text rows (# hidden, F flag, . empty, 1-8 count, * mine)
- reveal: open a cell by cell_id or x,y (first reveal is always safe)
- flag: toggle a flag on a hidden cell
- god_mode: flag every mine and win (cheat)
- reset_game: start over, optionally with another config
- move_history: past actions of a session
- list_configs / list_results: configurations and finished games
- game_instructions: full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

func cellProperties() map[string]any {
	return map[string]any{
		"session_id": sessionProperty(),
		"cell_id": map[string]any{
			"type":        "integer",
			"description": "Row-major cell id (y*cols + x)",
		},
		"x": map[string]any{
			"type":        "integer",
			"description": "Column, 0-based (used with y when cell_id is omitted)",
		},
		"y": map[string]any{
			"type":        "integer",
			"description": "Row, 0-based",
		},
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"config_id": map[string]any{
					"type":        "string",
					"description": "Config to use, e.g. classic, medium_hard (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board and counters",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reveal",
		Description: "Reveal a cell. Revealing an open number whose flags are all placed opens its neighbours.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"session_id"},
		},
	}, c.handleReveal)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "flag",
		Description: "Toggle a flag on a hidden cell",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: cellProperties(),
			Required:   []string{"session_id"},
		},
	}, c.handleFlag)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "god_mode",
		Description: "Flag every mine and win the running game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{"session_id": sessionProperty()},
			Required:   []string{"session_id"},
		},
	}, c.handleGodMode)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Start a new game in the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"config_id": map[string]any{
					"type":        "string",
					"description": "Switch to another config (optional)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the action history of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionProperty(),
				"page": map[string]any{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleMoveHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_results",
		Description: "List recently finished games",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum number of results (default 10)",
				},
			},
		},
	}, c.handleListResults)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// cellBody builds the reveal/flag request from cell_id or x and y
func cellBody(request mcp.CallToolRequest) (map[string]int, error) {
	args := request.GetArguments()
	if _, ok := args["cell_id"]; ok {
		return map[string]int{"cell_id": request.GetInt("cell_id", 0)}, nil
	}
	_, hasX := args["x"]
	_, hasY := args["y"]
	if hasX && hasY {
		return map[string]int{"x": request.GetInt("x", 0), "y": request.GetInt("y", 0)}, nil
	}
	return nil, fmt.Errorf("cell_id or both x and y are required")
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if configID := request.GetString("config_id", ""); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := engine.StatusIdle
		if s.GameState != nil {
			status = s.GameState.Status
		}
		fmt.Fprintf(&b, "- %s (Config: %s, Status: %s, Created: %s)\n",
			s.ID, s.ConfigName, status, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var state engine.GameState
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleReveal(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.cellIntent(ctx, request, "/reveal")
}

func (c *Client) handleFlag(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.cellIntent(ctx, request, "/flag")
}

func (c *Client) cellIntent(ctx context.Context, request mcp.CallToolRequest, suffix string) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body, err := cellBody(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, suffix), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleGodMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result service.ActionResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/god"), nil, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatActionResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var body any
	if configID := request.GetString("config_id", ""); configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "/reset"), body, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))), nil
}

func (c *Client) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&b, "• %s (%s)\n  %s\n  Board: %dx%d, Mines: %d\n\n",
			cfg.ConfigID, cfg.Name, cfg.Description, cfg.Cols, cfg.Rows, cfg.Mines)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleListResults(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)

	var response struct {
		Count   int              `json:"count"`
		Wins    int              `json:"wins"`
		Results []results.Result `json:"results"`
	}
	if err := c.apiCall(ctx, "GET", fmt.Sprintf("/api/results?limit=%d", limit), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatResults(response.Results, response.Wins)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `💣 Minesweeper - Complete Instructions

GAME OBJECTIVE:
Open every safe cell. You win the moment the last safe cell opens; you lose by opening a mine.

BOARD:
Cells are numbered row by row: cell_id = y*cols + x, with (0,0) at the top left.
game_state prints one text row per board row:
  #     hidden cell
  F     flag
  .     open cell with no adjacent mines
  1-8   open cell with that many adjacent mines
  *     mine (shown once the game is over)

RULES:
• The first reveal is always safe; mines are placed after it
• Revealing a cell with no adjacent mines opens its whole empty region
• Revealing an open number whose flag count matches opens all its hidden neighbours
• Revealing an open number whose hidden neighbours must all be mines flags them
• Flags protect a cell from being revealed; toggle them with flag
• The clock starts on the first reveal; moves count reveals that opened something

STRATEGY TIPS:
• Start in a corner or the centre and read the numbers at the region border
• A 1 touching exactly one hidden cell means that cell is a mine
• Once a number's mines are flagged, reveal the number again to open the rest

TOOLS:
• reveal / flag take either cell_id or x and y
• reset_game starts over; pass config_id to switch board
• list_configs shows presets like small_easy, medium_hard, large_expert`

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	result := fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n",
		session.ID, session.ConfigName, session.CreatedAt.Format(time.RFC3339))
	if session.GameState != nil {
		result += "\n" + formatGameState(session.GameState)
	}
	return result
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "Game state unavailable"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Board: %dx%d, Mines: %d, Status: %s\n", state.Cols, state.Rows, state.Mines, state.Status)
	fmt.Fprintf(&b, "Moves: %d, Flags remaining: %d, Time: %ds\n", state.Moves, state.FlagsRemaining, state.ElapsedSeconds)

	if len(state.Grid) > 0 {
		b.WriteString("\n   ")
		for x := range state.Cols {
			fmt.Fprintf(&b, "%d", x%10)
		}
		b.WriteString("\n")
		for y, row := range state.Grid {
			fmt.Fprintf(&b, "%2d %s\n", y, row)
		}
	}

	switch {
	case state.IsWon:
		b.WriteString("\n🎉 " + state.Message + "\n")
	case state.IsLost:
		b.WriteString("\n💥 " + state.Message + "\n")
	case state.Message != "":
		b.WriteString("\n" + state.Message + "\n")
	}

	return b.String()
}

func formatActionResult(result *service.ActionResult) string {
	var b strings.Builder
	if !result.Changed {
		b.WriteString("Nothing changed.\n")
	}
	if result.Delta != nil {
		opened := len(result.Delta.Opened())
		if opened > 0 {
			fmt.Fprintf(&b, "Opened %d cell(s)\n", opened)
		}
		if n := len(result.Delta.AutoFlagged); n > 0 {
			fmt.Fprintf(&b, "Auto-flagged %d cell(s)\n", n)
		}
	}
	if result.Flagged != nil {
		if *result.Flagged {
			b.WriteString("Flag placed\n")
		} else {
			b.WriteString("Flag removed\n")
		}
	}
	for _, ev := range result.Events {
		if ev.Type == "won" || ev.Type == "lost" {
			continue
		}
		if ev.Message != "" {
			fmt.Fprintf(&b, "[%s] %s\n", ev.Type, ev.Message)
		}
	}
	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Action History (Page %d/%d), Total: %d\n\n", history.Page, history.TotalPages, history.Total)

	if len(history.Entries) == 0 {
		b.WriteString("(no actions yet)\n")
		return b.String()
	}

	for _, entry := range history.Entries {
		target := ""
		if entry.CellID >= 0 {
			target = fmt.Sprintf(" cell %d", entry.CellID)
		}
		fmt.Fprintf(&b, "%d. %s%s, opened %d [%s]\n", entry.Seq, entry.Action, target, entry.Opened, entry.Status)
	}

	return b.String()
}

func formatResults(list []results.Result, wins int) string {
	if len(list) == 0 {
		return "No finished games yet."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Finished Games (%d, %d won):\n\n", len(list), wins)
	for _, r := range list {
		outcome := "lost"
		if r.Won {
			outcome = "won"
		}
		fmt.Fprintf(&b, "- %s %s %dx%d/%d in %ds and %d moves (session %s)\n",
			r.Timestamp.Format("2006-01-02 15:04"), outcome, r.Cols, r.Rows, r.Mines, r.Time, r.Moves, r.SessionID)
	}
	return b.String()
}
