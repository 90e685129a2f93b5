package mcptools

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mailroom/backend/internal/chathub"
)

const (
	serverName    = "mailroom"
	serverVersion = "0.1.0"
)

// NewServer builds the MCP server with all room tools registered.
func NewServer(coord *chathub.Coordinator, tokens SessionTokens) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, JoinRoomTool(), JoinRoomHandler(coord, tokens))
	mcp.AddTool(server, SendMessageTool(), SendMessageHandler(coord))
	mcp.AddTool(server, LeaveChatTool(), LeaveChatHandler(coord))
	mcp.AddTool(server, GetHistoryTool(), GetHistoryHandler(coord))
	mcp.AddTool(server, GetRoomStatusTool(), GetRoomStatusHandler(coord))

	return server
}

// HTTPHandler wraps the server in the streamable HTTP transport so it
// can be mounted on the main router next to the websocket endpoint.
func HTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}
