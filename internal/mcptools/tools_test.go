package mcptools_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailroom/backend/internal/chathub"
	"mailroom/backend/internal/history"
	"mailroom/backend/internal/mcptools"
	"mailroom/backend/internal/models"
	"mailroom/backend/internal/rooms"
)

type dropNotifier struct{}

func (dropNotifier) Notify(models.Notification) {}

type stubTokens struct{}

func (stubTokens) Issue(clientID string) (string, error) { return "token-for-" + clientID, nil }

func newCoordinator(t *testing.T) *chathub.Coordinator {
	t.Helper()
	store, err := history.NewFileStore(t.TempDir())
	require.NoError(t, err)
	conns := chathub.NewConnectionTable()
	registry := rooms.NewRegistry(conns)
	return chathub.NewCoordinator(store, registry, conns, dropNotifier{})
}

func TestJoinRoom_CreatesRoomAndIssuesToken(t *testing.T) {
	coord := newCoordinator(t)
	handle := mcptools.JoinRoomHandler(coord, stubTokens{})

	_, out, err := handle(context.Background(), nil, mcptools.JoinRoomInput{
		RoomID:      "r1",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, "room_created", out.Status)
	assert.Equal(t, "r1", out.RoomID)
	assert.NotEmpty(t, out.ClientID)
	assert.Equal(t, "token-for-"+out.ClientID, out.WSToken)
	assert.Empty(t, out.Error)
}

func TestJoinRoom_SecondCallerSeesPartner(t *testing.T) {
	coord := newCoordinator(t)
	handle := mcptools.JoinRoomHandler(coord, stubTokens{})

	_, _, err := handle(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Alice"})
	require.NoError(t, err)

	_, out, err := handle(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "joined", out.Status)
	assert.Equal(t, "Alice", out.Partner)
}

func TestJoinRoom_FullRoomReportsError(t *testing.T) {
	coord := newCoordinator(t)
	handle := mcptools.JoinRoomHandler(coord, stubTokens{})

	for _, name := range []string{"Alice", "Bob"} {
		_, _, err := handle(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: name})
		require.NoError(t, err)
	}

	_, out, err := handle(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Carol"})
	require.NoError(t, err, "tool failures are reported in the result, not as protocol errors")
	assert.Equal(t, "error", out.Status)
	assert.Equal(t, models.ErrRoomFull.Error(), out.Error)
	assert.Empty(t, out.ClientID)
}

func TestSendMessage_ThenHistory(t *testing.T) {
	coord := newCoordinator(t)
	join := mcptools.JoinRoomHandler(coord, stubTokens{})
	send := mcptools.SendMessageHandler(coord)
	getHistory := mcptools.GetHistoryHandler(coord)

	_, alice, err := join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Alice"})
	require.NoError(t, err)
	_, _, err = join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Bob"})
	require.NoError(t, err)

	_, sent, err := send(context.Background(), nil, mcptools.SendMessageInput{
		RoomID:   "r1",
		ClientID: alice.ClientID,
		Message:  "hello there",
	})
	require.NoError(t, err)
	assert.True(t, sent.Success)
	assert.NotEmpty(t, sent.MessageID)
	assert.NotEmpty(t, sent.Timestamp)

	_, hist, err := getHistory(context.Background(), nil, mcptools.GetHistoryInput{RoomID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "r1", hist.RoomID)
	require.Len(t, hist.Messages, 2)
	assert.True(t, hist.Messages[0].IsSystem)
	assert.Equal(t, "Alice", hist.Messages[1].Sender)
	assert.Equal(t, "hello there", hist.Messages[1].Content)
	assert.Equal(t, sent.MessageID, hist.Messages[1].MessageID)
	assert.Equal(t, 2, hist.TotalCount)
}

func TestSendMessage_FailuresSurfaceInResult(t *testing.T) {
	coord := newCoordinator(t)
	join := mcptools.JoinRoomHandler(coord, stubTokens{})
	send := mcptools.SendMessageHandler(coord)

	_, alice, err := join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Alice"})
	require.NoError(t, err)

	_, out, err := send(context.Background(), nil, mcptools.SendMessageInput{
		RoomID:   "r1",
		ClientID: "bogus",
		Message:  "hi",
	})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, models.ErrUnknownClient.Error(), out.Error)

	_, out, err = send(context.Background(), nil, mcptools.SendMessageInput{
		RoomID:   "r1",
		ClientID: alice.ClientID,
		Message:  "anyone?",
	})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, models.ErrNoPartner.Error(), out.Error)
}

func TestLeaveChat_ClosesRoom(t *testing.T) {
	coord := newCoordinator(t)
	join := mcptools.JoinRoomHandler(coord, stubTokens{})
	leave := mcptools.LeaveChatHandler(coord)
	status := mcptools.GetRoomStatusHandler(coord)

	_, alice, err := join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Alice"})
	require.NoError(t, err)
	_, _, err = join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Bob"})
	require.NoError(t, err)

	_, out, err := leave(context.Background(), nil, mcptools.LeaveChatInput{
		RoomID:   "r1",
		ClientID: alice.ClientID,
	})
	require.NoError(t, err)
	assert.True(t, out.Success)

	_, st, err := status(context.Background(), nil, mcptools.GetRoomStatusInput{RoomID: "r1"})
	require.NoError(t, err)
	assert.True(t, st.Exists)
	assert.False(t, st.Active)
	assert.Equal(t, 2, st.MessageCount, "join and leave system messages")
}

func TestLeaveChat_UnknownClient(t *testing.T) {
	coord := newCoordinator(t)
	leave := mcptools.LeaveChatHandler(coord)

	_, out, err := leave(context.Background(), nil, mcptools.LeaveChatInput{RoomID: "r1", ClientID: "ghost"})
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, models.ErrUnknownClient.Error(), out.Error)
}

func TestGetHistory_RespectsLimit(t *testing.T) {
	coord := newCoordinator(t)
	join := mcptools.JoinRoomHandler(coord, stubTokens{})
	send := mcptools.SendMessageHandler(coord)
	getHistory := mcptools.GetHistoryHandler(coord)

	_, alice, err := join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Alice"})
	require.NoError(t, err)
	_, _, err = join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Bob"})
	require.NoError(t, err)

	for _, content := range []string{"one", "two", "three"} {
		_, out, err := send(context.Background(), nil, mcptools.SendMessageInput{
			RoomID:   "r1",
			ClientID: alice.ClientID,
			Message:  content,
		})
		require.NoError(t, err)
		require.True(t, out.Success)
	}

	_, hist, err := getHistory(context.Background(), nil, mcptools.GetHistoryInput{RoomID: "r1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, hist.Messages, 2)
	assert.Equal(t, "two", hist.Messages[0].Content)
	assert.Equal(t, "three", hist.Messages[1].Content)
	assert.Equal(t, 4, hist.TotalCount)
}

func TestGetRoomStatus_UnknownRoom(t *testing.T) {
	coord := newCoordinator(t)
	status := mcptools.GetRoomStatusHandler(coord)

	_, out, err := status(context.Background(), nil, mcptools.GetRoomStatusInput{RoomID: "never-seen"})
	require.NoError(t, err)
	assert.False(t, out.Exists)
	assert.Equal(t, models.ErrRoomNotFound.Error(), out.Error)
	assert.Zero(t, out.MessageCount)
}

func TestGetRoomStatus_LiveRoom(t *testing.T) {
	coord := newCoordinator(t)
	join := mcptools.JoinRoomHandler(coord, stubTokens{})
	status := mcptools.GetRoomStatusHandler(coord)

	_, _, err := join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Alice"})
	require.NoError(t, err)
	_, _, err = join(context.Background(), nil, mcptools.JoinRoomInput{RoomID: "r1", DisplayName: "Bob"})
	require.NoError(t, err)

	_, out, err := status(context.Background(), nil, mcptools.GetRoomStatusInput{RoomID: "r1"})
	require.NoError(t, err)
	assert.True(t, out.Exists)
	assert.True(t, out.Active)
	assert.ElementsMatch(t, []string{"Alice", "Bob"}, out.Participants)
	assert.Equal(t, 1, out.MessageCount)
}
