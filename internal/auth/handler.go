package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tripadmin/internal/apperr"
	"tripadmin/pkg/logger"
	"tripadmin/pkg/session"
	"tripadmin/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoginResult is what the booking API returns on a successful credential
// check.
type LoginResult struct {
	Token    string   `json:"token"`
	UserID   string   `json:"userId"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Authenticator is the login slice of the booking API.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
}

type Handler struct {
	upstream Authenticator
	tokens   *token.Service
	sessions session.Store
	timeout  time.Duration
	logger   logger.Client
}

func NewHandler(upstream Authenticator, tokens *token.Service, sessions session.Store, timeoutSeconds int, logger logger.Client) *Handler {
	return &Handler{
		upstream: upstream,
		tokens:   tokens,
		sessions: sessions,
		timeout:  time.Duration(timeoutSeconds) * time.Second,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.POST("/v1/auth/login", h.LoginHandler)
	router.POST("/v1/auth/logout", h.LogoutHandler)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string   `json:"token"`
	SessionID string   `json:"session_id"`
	UserID    string   `json:"user_id"`
	Username  string   `json:"username"`
	Roles     []string `json:"roles"`
	CompanyID int64    `json:"company_id,omitempty"`
}

// LoginHandler godoc
// @Summary      Authenticate an admin
// @Description  Checks credentials against the booking API and opens a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body loginRequest true "Credentials"
// @Success      200 {object} loginResponse
// @Failure      401 {object} map[string]string
// @Router       /v1/auth/login [post]
func (h *Handler) LoginHandler(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "username and password are required"))
		return
	}

	// The login call is the only one with an explicit timeout; a hung
	// upstream must produce a distinct "timed out" message, not a generic
	// connectivity error.
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	result, err := h.upstream.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			apperr.Send(c, apperr.New(http.StatusGatewayTimeout, apperr.ErrorCodeTimeout, "login timed out, please try again"))
			return
		}
		apperr.Send(c, err)
		return
	}

	claims, err := h.tokens.Validate(result.Token)
	if err != nil {
		h.logger.Error("upstream issued an unparseable token", logger.Field{Key: "err", Value: err})
		apperr.Send(c, apperr.New(http.StatusBadGateway, apperr.ErrorCodeInternalFailure, "login failed"))
		return
	}

	sessionID := uuid.NewString()
	if err := h.populateSession(c.Request.Context(), sessionID, result, claims); err != nil {
		h.logger.Error("failed to populate session", logger.Field{Key: "err", Value: err})
		apperr.Send(c, apperr.New(http.StatusInternalServerError, apperr.ErrorCodeInternalFailure, "login failed"))
		return
	}

	h.logger.Info("admin logged in",
		logger.Field{Key: "username", Value: result.Username},
		logger.Field{Key: "session_id", Value: sessionID},
	)

	c.JSON(http.StatusOK, loginResponse{
		Token:     result.Token,
		SessionID: sessionID,
		UserID:    result.UserID,
		Username:  result.Username,
		Roles:     result.Roles,
		CompanyID: claims.CompanyID(),
	})
}

func (h *Handler) populateSession(ctx context.Context, sessionID string, result *LoginResult, claims *token.Claims) error {
	rolesJSON, err := json.Marshal(result.Roles)
	if err != nil {
		return err
	}

	pairs := map[string]string{
		session.KeyAuthToken: result.Token,
		session.KeyUserID:    result.UserID,
		session.KeyUsername:  result.Username,
		session.KeyRoles:     string(rolesJSON),
	}
	if companyID := claims.CompanyID(); companyID != 0 {
		pairs[session.KeyCurrentCompanyID] = formatInt(companyID)
	}

	for key, value := range pairs {
		if err := h.sessions.Set(ctx, sessionID, key, value); err != nil {
			return err
		}
	}
	return nil
}

type logoutRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

func (h *Handler) LogoutHandler(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Send(c, apperr.New(http.StatusBadRequest, apperr.ErrorCodeValidation, "session_id is required"))
		return
	}

	if err := h.sessions.Clear(c.Request.Context(), req.SessionID); err != nil {
		h.logger.Error("failed to clear session", logger.Field{Key: "err", Value: err})
		apperr.Send(c, apperr.New(http.StatusInternalServerError, apperr.ErrorCodeInternalFailure, "logout failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
