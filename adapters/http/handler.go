package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/banan-inc/agenthq/domain"
	"github.com/banan-inc/agenthq/usecase"
	"github.com/banan-inc/agenthq/utils/log"
)

const (
	JWTExpiry = 24 * time.Hour

	defaultUserID = "test_user"
)

// Options carries the credentials the handler needs for token minting.
type Options struct {
	JWTSecret []byte
	APIKey    string
	APISecret string
	// ObserverCount, when set, adds the number of connected websocket
	// observers to the health payload.
	ObserverCount func() int
}

type ChatHandler struct {
	chatService *usecase.ChatService
	opts        Options
}

type ChatRequest struct {
	Messages []domain.ChatMessage `json:"messages"`
	// The two services historically named the session field differently;
	// both are accepted, session_id wins.
	SessionID      string `json:"session_id"`
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
}

type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type CompletionResponse struct {
	Completion     string `json:"completion"`
	ConversationID string `json:"conversation_id"`
	TraceID        string `json:"trace_id"`
}

type JWTClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func NewChatHandler(chatService *usecase.ChatService, opts Options) *ChatHandler {
	return &ChatHandler{chatService: chatService, opts: opts}
}

// Chat handles the assistant service's POST /api/chat.
func (h *ChatHandler) Chat(c echo.Context) error {
	req, sessionID, userID, err := h.bindRequest(c)
	if err != nil {
		return err
	}

	result, err := h.chatService.Answer(c.Request().Context(), sessionID, userID, req.Messages)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Response:  result.Response,
		SessionID: sessionID,
	})
}

// ChatCompletion handles the completion service's POST /api/chat, which
// also reports the trace identifier.
func (h *ChatHandler) ChatCompletion(c echo.Context) error {
	req, conversationID, userID, err := h.bindRequest(c)
	if err != nil {
		return err
	}

	result, err := h.chatService.Answer(c.Request().Context(), conversationID, userID, req.Messages)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, CompletionResponse{
		Completion:     result.Response,
		ConversationID: conversationID,
		TraceID:        result.TraceID,
	})
}

func (h *ChatHandler) bindRequest(c echo.Context) (ChatRequest, string, string, error) {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return ChatRequest{}, "", "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = req.ConversationID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	userID := req.UserID
	if userID == "" {
		userID = defaultUserID
	}

	log.WithCtx(c.Request().Context()).Info("received chat request",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
		zap.Int("messages", len(req.Messages)))

	return req, sessionID, userID, nil
}

// Health check endpoint
func (h *ChatHandler) HealthCheck(c echo.Context) error {
	payload := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "chat",
	}
	if h.opts.ObserverCount != nil {
		payload["observers"] = h.opts.ObserverCount()
	}
	return c.JSON(http.StatusOK, payload)
}

// GenerateJWT creates a JWT token for observer clients
func (h *ChatHandler) GenerateJWT(c echo.Context) error {
	apiKey := c.Request().Header.Get("X-API-Key")
	apiSecret := c.Request().Header.Get("X-API-Secret")

	if apiKey != h.opts.APIKey || apiSecret != h.opts.APISecret {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	claims := &JWTClaims{
		UserID: apiKey,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(JWTExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    "agenthq-assistant",
			Subject:   "chat-observer",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(h.opts.JWTSecret)
	if err != nil {
		log.WithCtx(c.Request().Context()).Error("failed to sign JWT", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"token": tokenString,
		"type":  "Bearer",
	})
}

// JWT middleware for authentication
func (h *ChatHandler) JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization format")
		}

		token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return h.opts.JWTSecret, nil
		})
		if err != nil {
			log.WithCtx(c.Request().Context()).Warn("JWT validation failed", zap.Error(err))
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		}

		if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
			c.Set("user_id", claims.UserID)
			return next(c)
		}

		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
	}
}
