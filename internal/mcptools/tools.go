// Package mcptools exposes the room operations as MCP tools so agent
// clients can hold asynchronous conversations: messages persist while a
// participant is away and are read back on return.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"mailroom/backend/internal/chathub"
	"mailroom/backend/internal/models"
)

// SessionTokens mints the signed token a client presents when attaching
// a websocket for notifications.
type SessionTokens interface {
	Issue(clientID string) (string, error)
}

// JoinRoomInput is the join_room tool input.
type JoinRoomInput struct {
	RoomID      string `json:"room_id" jsonschema:"the room to join; created when it does not exist"`
	DisplayName string `json:"display_name,omitempty" jsonschema:"display name shown to the partner"`
}

// JoinRoomResult is the join_room tool output.
type JoinRoomResult struct {
	Status   string `json:"status" jsonschema:"room_created, joined, or error"`
	RoomID   string `json:"room_id,omitempty" jsonschema:"the room that was joined"`
	ClientID string `json:"client_id,omitempty" jsonschema:"session identifier for subsequent calls"`
	Partner  string `json:"partner,omitempty" jsonschema:"display name of the partner already in the room"`
	WSToken  string `json:"ws_token,omitempty" jsonschema:"signed token for attaching a websocket to receive notifications"`
	Message  string `json:"message,omitempty" jsonschema:"human-readable outcome"`
	Error    string `json:"error,omitempty" jsonschema:"failure reason when status is error"`
}

// JoinRoomTool defines the join_room tool schema.
func JoinRoomTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "join_room",
		Description: "Join a conversation thread. Creates a new session with a " +
			"unique client_id and adds you to the specified room. Messages persist " +
			"even when you're not connected - you can leave and return later to " +
			"check for new messages using get_room_status and get_history.",
	}
}

// JoinRoomHandler seats the caller through the coordinator.
func JoinRoomHandler(coord *chathub.Coordinator, tokens SessionTokens) mcp.ToolHandlerFor[JoinRoomInput, JoinRoomResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input JoinRoomInput) (*mcp.CallToolResult, JoinRoomResult, error) {
		result, err := coord.Join(input.RoomID, input.DisplayName)
		if err != nil {
			return nil, JoinRoomResult{Status: "error", Error: err.Error()}, nil
		}

		out := JoinRoomResult{
			Status:   result.Status,
			RoomID:   result.RoomID,
			ClientID: result.ClientID,
			Partner:  result.Partner,
			Message:  result.Message,
		}
		if token, err := tokens.Issue(result.ClientID); err == nil {
			out.WSToken = token
		}
		return nil, out, nil
	}
}

// SendMessageInput is the send_message tool input.
type SendMessageInput struct {
	RoomID   string `json:"room_id" jsonschema:"the chat room to post to"`
	Message  string `json:"message" jsonschema:"the message content"`
	ClientID string `json:"client_id" jsonschema:"your session identifier from join_room"`
}

// SendMessageResult is the send_message tool output.
type SendMessageResult struct {
	Success   bool   `json:"success" jsonschema:"whether the message was durably recorded"`
	MessageID string `json:"message_id,omitempty" jsonschema:"identifier of the recorded message"`
	Timestamp string `json:"timestamp,omitempty" jsonschema:"RFC3339 time the message was recorded"`
	Error     string `json:"error,omitempty" jsonschema:"failure reason when success is false"`
}

// SendMessageTool defines the send_message tool schema.
func SendMessageTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "send_message",
		Description: "Post a message to a conversation thread. The message is " +
			"stored persistently and other participants will see it when they " +
			"check the room. Don't expect an immediate reply - this is " +
			"asynchronous like email. To check for responses later, use " +
			"get_room_status to see if message_count increased, then get_history " +
			"to retrieve new messages.",
	}
}

// SendMessageHandler persists a message and reports its id.
func SendMessageHandler(coord *chathub.Coordinator) mcp.ToolHandlerFor[SendMessageInput, SendMessageResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SendMessageInput) (*mcp.CallToolResult, SendMessageResult, error) {
		result, err := coord.Send(input.RoomID, input.ClientID, input.Message)
		if err != nil {
			return nil, SendMessageResult{Success: false, Error: err.Error()}, nil
		}
		return nil, SendMessageResult{
			Success:   true,
			MessageID: result.MessageID,
			Timestamp: result.Timestamp,
		}, nil
	}
}

// LeaveChatInput is the leave_chat tool input.
type LeaveChatInput struct {
	RoomID   string `json:"room_id" jsonschema:"the chat room to leave"`
	ClientID string `json:"client_id" jsonschema:"your session identifier from join_room"`
}

// LeaveChatResult is the leave_chat tool output.
type LeaveChatResult struct {
	Success bool   `json:"success" jsonschema:"whether the departure was recorded"`
	Message string `json:"message,omitempty" jsonschema:"human-readable outcome"`
	Error   string `json:"error,omitempty" jsonschema:"failure reason when success is false"`
}

// LeaveChatTool defines the leave_chat tool schema.
func LeaveChatTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "leave_chat",
		Description: "Leave a conversation thread. Your messages remain in the " +
			"room history. A system message noting your departure will be recorded.",
	}
}

// LeaveChatHandler closes the room and records the departure.
func LeaveChatHandler(coord *chathub.Coordinator) mcp.ToolHandlerFor[LeaveChatInput, LeaveChatResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input LeaveChatInput) (*mcp.CallToolResult, LeaveChatResult, error) {
		if err := coord.Leave(input.RoomID, input.ClientID); err != nil {
			return nil, LeaveChatResult{Success: false, Error: err.Error()}, nil
		}
		return nil, LeaveChatResult{Success: true, Message: "Successfully left the chat"}, nil
	}
}

// HistoryMessage is one message in a get_history result.
type HistoryMessage struct {
	Sender    string `json:"sender" jsonschema:"display name recorded at send time"`
	Content   string `json:"content" jsonschema:"message content"`
	Timestamp string `json:"timestamp" jsonschema:"RFC3339 time the message was recorded"`
	MessageID string `json:"message_id" jsonschema:"message identifier"`
	IsSystem  bool   `json:"is_system" jsonschema:"true for join/leave lifecycle messages"`
}

// GetHistoryInput is the get_history tool input.
type GetHistoryInput struct {
	RoomID string `json:"room_id" jsonschema:"the room to read history from"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of most recent messages to return"`
}

// GetHistoryResult is the get_history tool output.
type GetHistoryResult struct {
	RoomID     string           `json:"room_id" jsonschema:"the room the history belongs to"`
	Messages   []HistoryMessage `json:"messages" jsonschema:"messages in chronological order"`
	TotalCount int              `json:"total_count" jsonschema:"total persisted messages, independent of limit"`
}

// GetHistoryTool defines the get_history tool schema.
func GetHistoryTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_history",
		Description: "Retrieve messages from a conversation thread in " +
			"chronological order. Use the limit parameter to fetch only recent " +
			"messages and avoid filling your context with old history. Typical " +
			"polling pattern: call get_room_status to check message_count; if it " +
			"increased since your last check, call get_history with a limit.",
	}
}

// GetHistoryHandler reads persisted messages.
func GetHistoryHandler(coord *chathub.Coordinator) mcp.ToolHandlerFor[GetHistoryInput, GetHistoryResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetHistoryInput) (*mcp.CallToolResult, GetHistoryResult, error) {
		result, err := coord.History(input.RoomID, input.Limit)
		if err != nil {
			return nil, GetHistoryResult{}, err
		}
		out := GetHistoryResult{
			RoomID:     result.RoomID,
			Messages:   make([]HistoryMessage, 0, len(result.Messages)),
			TotalCount: result.TotalCount,
		}
		for _, m := range result.Messages {
			out.Messages = append(out.Messages, HistoryMessage{
				Sender:    m.SenderName,
				Content:   m.Content,
				Timestamp: m.Timestamp,
				MessageID: m.MessageID,
				IsSystem:  m.IsSystem,
			})
		}
		return nil, out, nil
	}
}

// GetRoomStatusInput is the get_room_status tool input.
type GetRoomStatusInput struct {
	RoomID string `json:"room_id" jsonschema:"the room to check"`
}

// GetRoomStatusResult is the get_room_status tool output.
type GetRoomStatusResult struct {
	RoomID       string   `json:"room_id" jsonschema:"the room that was checked"`
	Exists       bool     `json:"exists" jsonschema:"false when the room is wholly unknown"`
	Active       bool     `json:"active" jsonschema:"whether the room still accepts messages"`
	Participants []string `json:"participants,omitempty" jsonschema:"display names, live when the room is in memory"`
	MessageCount int      `json:"message_count" jsonschema:"total persisted messages"`
	CreatedAt    string   `json:"created_at,omitempty" jsonschema:"RFC3339 room creation time"`
	LastActivity string   `json:"last_activity,omitempty" jsonschema:"RFC3339 time of the most recent message"`
	Error        string   `json:"error,omitempty" jsonschema:"set when the room was not found"`
}

// GetRoomStatusTool defines the get_room_status tool schema.
func GetRoomStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name: "get_room_status",
		Description: "Lightweight status check for a conversation thread. " +
			"Returns message_count - compare this to your last known count to " +
			"detect new messages without fetching full history. Use this to poll " +
			"for new messages before calling get_history.",
	}
}

// GetRoomStatusHandler merges liveness with stored metadata.
func GetRoomStatusHandler(coord *chathub.Coordinator) mcp.ToolHandlerFor[GetRoomStatusInput, GetRoomStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetRoomStatusInput) (*mcp.CallToolResult, GetRoomStatusResult, error) {
		status, err := coord.Status(input.RoomID)
		if err != nil {
			return nil, GetRoomStatusResult{}, err
		}
		if !status.Exists {
			return nil, GetRoomStatusResult{
				RoomID: input.RoomID,
				Exists: false,
				Error:  models.ErrRoomNotFound.Error(),
			}, nil
		}
		return nil, GetRoomStatusResult{
			RoomID:       status.RoomID,
			Exists:       true,
			Active:       status.Active,
			Participants: status.Participants,
			MessageCount: status.MessageCount,
			CreatedAt:    status.CreatedAt,
			LastActivity: status.LastActivity,
		}, nil
	}
}
