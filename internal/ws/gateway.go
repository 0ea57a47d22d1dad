package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/identity"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/observability"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/telemetry"
)

const wsRoutingKey = "ws_events.realtime"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Gateway authenticates incoming websocket connections, establishes their room
// memberships, and dispatches inbound frames to the per-event handlers.
type Gateway struct {
	hub           *Hub
	presence      *PresenceTracker
	resolver      identity.Resolver
	users         repositories.UserRepository
	conversations repositories.ConversationRepository
	router        *ConversationRouter
	typing        *TypingBroadcaster
	receipts      *ReadReceiptAggregator
	audit         *telemetry.AuditEmitter
	logger        *zap.Logger
}

// NewGateway constructs a Gateway.
func NewGateway(
	hub *Hub,
	presence *PresenceTracker,
	resolver identity.Resolver,
	users repositories.UserRepository,
	conversations repositories.ConversationRepository,
	router *ConversationRouter,
	typing *TypingBroadcaster,
	receipts *ReadReceiptAggregator,
	audit *telemetry.AuditEmitter,
	logger *zap.Logger,
) *Gateway {
	return &Gateway{
		hub:           hub,
		presence:      presence,
		resolver:      resolver,
		users:         users,
		conversations: conversations,
		router:        router,
		typing:        typing,
		receipts:      receipts,
		audit:         audit,
		logger:        logger,
	}
}

// Handle performs the authenticated handshake and, on success, upgrades the
// connection, joins the user and conversation rooms, and starts the read loop.
// Every rejection happens strictly before any room join.
func (g *Gateway) Handle(c *gin.Context) {
	ctx, span := otel.Tracer("realtime/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	info := observability.RequestInfoFromRequest(c.Request)

	userID, err := g.resolver.Verify(bearerToken(c))
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, identity.ErrNoToken) {
			reason = "no token"
		}
		g.audit.Emit(ctx, "WARN", "websocket handshake rejected: "+reason, info.RequestID, nil)
		c.JSON(http.StatusUnauthorized, gin.H{"error": reason})
		return
	}

	user, err := g.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			g.audit.Emit(ctx, "WARN", "websocket handshake rejected: user not found", info.RequestID, &userID)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}
		g.logger.Error("load user failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	// One query establishes the connection's conversation rooms; memberships
	// are not re-diffed afterwards (sends re-authorize on every event).
	conversationIDs, err := g.conversations.ListConversationsFor(ctx, userID)
	if err != nil {
		g.logger.Error("list conversations failed", zap.Int64("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := newClient(conn, user, info)
	traceID := span.SpanContext().TraceID().String()

	g.hub.Join(UserRoom(userID), client)
	for _, conversationID := range conversationIDs {
		g.hub.Join(ConversationRoom(conversationID), client)
	}
	g.presence.Connected(ctx, client)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, wsRoutingKey, observability.WSEventEnvelope("ws_connect", observability.WSEventPayload{
		ConnID:   client.id,
		UserID:   userID,
		DeviceID: info.DeviceID,
		IP:       info.IP,
	}), observability.BuildHeaders(info.RequestID, traceID))

	// The request context dies with the handler; the connection outlives it.
	go g.readLoop(context.Background(), client, traceID)
}

// readLoop processes inbound frames strictly in arrival order, then cleans up
// every trace of the connection on exit.
func (g *Gateway) readLoop(ctx context.Context, client *wsClient, traceID string) {
	var closeReason string
	defer func() {
		g.hub.RemoveClient(client)
		g.presence.Disconnected(ctx, client)
		observability.DecWSActive()
		observability.IncWSEvent("ws_disconnect")
		_ = observability.PublishEvent(ctx, wsRoutingKey, observability.WSEventEnvelope("ws_disconnect", observability.WSEventPayload{
			ConnID:     client.id,
			UserID:     client.UserID(),
			DeviceID:   client.info.DeviceID,
			IP:         client.info.IP,
			DurationMS: time.Since(client.connectedAt).Milliseconds(),
			Reason:     closeReason,
		}), observability.BuildHeaders(client.info.RequestID, traceID))
		_ = client.Close()
	}()

	for {
		_, raw, err := client.conn.ReadMessage()
		if err != nil {
			closeReason = err.Error()
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				observability.IncWSEvent("ws_error")
			}
			return
		}
		g.dispatch(ctx, client, raw)
	}
}

// dispatch routes one inbound frame. A failure here is contained to this
// single event; it never tears down the connection or touches other rooms.
func (g *Gateway) dispatch(ctx context.Context, client *wsClient, raw []byte) {
	var frame models.Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		g.logger.Debug("malformed frame", zap.String("conn_id", client.id), zap.Error(err))
		return
	}

	observability.IncWSEvent(frame.Action)

	switch frame.Action {
	case models.ActionSendMessage:
		var req models.SendMessageRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			g.sendAck(client, frame.ID, models.Ack{Error: "Invalid payload"})
			return
		}
		ack := g.router.HandleSend(ctx, client, req)
		g.sendAck(client, frame.ID, ack)

	case models.ActionTyping:
		var req models.TypingRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			return
		}
		g.typing.Handle(ctx, client, req)

	case models.ActionMarkRead:
		var req models.MarkReadRequest
		if err := json.Unmarshal(frame.Data, &req); err != nil {
			_ = client.Send(models.EventError, models.ErrorEvent{Message: errFailedMarkRead})
			return
		}
		g.receipts.Handle(ctx, client, req)

	default:
		g.logger.Debug("unknown action", zap.String("action", frame.Action))
	}
}

func (g *Gateway) sendAck(client *wsClient, frameID string, ack models.Ack) {
	if err := client.Send(models.EventAck, models.AckEvent{ID: frameID, Ack: ack}); err != nil {
		g.logger.Warn("ack delivery failed", zap.String("conn_id", client.id), zap.Error(err))
	}
}

// bearerToken pulls the credential from the Authorization header or, for
// browser clients that cannot set headers on websocket dials, the token query
// parameter.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}
