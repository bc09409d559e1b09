package handlers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/config"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	apperrors "github.com/pulseboard/pulseboard/internal/shared/errors"
	"github.com/pulseboard/pulseboard/internal/shared/logger"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

// OAuthConnectHandler serves the browser facing start and callback routes.
type OAuthConnectHandler struct {
	initiateUC initiateConnectionUseCase
	callbackUC handleConnectionCallbackUseCase
	server     config.ServerConfig
	cookie     config.CookieConfig
	stateTTL   time.Duration
	logger     logger.Interface
}

func NewOAuthConnectHandler(
	initiateUC initiateConnectionUseCase,
	callbackUC handleConnectionCallbackUseCase,
	server config.ServerConfig,
	cookie config.CookieConfig,
	stateTTL time.Duration,
	logger logger.Interface,
) *OAuthConnectHandler {
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}
	return &OAuthConnectHandler{
		initiateUC: initiateUC,
		callbackUC: callbackUC,
		server:     server,
		cookie:     cookie,
		stateTTL:   stateTTL,
		logger:     logger,
	}
}

// Start handles GET /api/oauth/:platform/start
// @Summary Start a platform connection
// @Description Sets the state cookie and redirects to the platform's authorization page.
// @Tags OAuth
// @Produce json
// @Param platform path string true "Platform" Enums(instagram, facebook, linkedin, youtube)
// @Success 302 "Redirect to the authorization server"
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /api/oauth/{platform}/start [get]
func (h *OAuthConnectHandler) Start(c *gin.Context) {
	result, err := h.initiateUC.Execute(c.Request.Context(), usecases.InitiateConnectionCommand{
		Platform: c.Param("platform"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetStateCookie(c, h.cookie, h.server.IsProduction(), result.Platform.String(), result.State, int(h.stateTTL.Seconds()))
	c.Redirect(http.StatusFound, result.AuthURL)
}

// Callback handles GET /api/oauth/:platform/callback. It always answers with a redirect.
// @Summary Complete a platform connection
// @Description Redirects to the dashboard with ?connected=<platform> or ?error=<message>.
// @Tags OAuth
// @Param platform path string true "Platform"
// @Param code query string false "Authorization code"
// @Param state query string false "State issued by start"
// @Param error query string false "Provider error code"
// @Param error_description query string false "Provider error text"
// @Success 302 "Redirect to the dashboard connections page"
// @Router /api/oauth/{platform}/callback [get]
func (h *OAuthConnectHandler) Callback(c *gin.Context) {
	raw := c.Param("platform")

	cmd := usecases.HandleConnectionCallbackCommand{
		Platform:         raw,
		Code:             c.Query("code"),
		State:            c.Query("state"),
		Error:            c.Query("error"),
		ErrorDescription: c.Query("error_description"),
		UserID:           c.GetString(constants.ContextKeyUserID),
	}

	if connection.Platform(raw).IsValid() {
		cmd.CookieState = utils.GetTokenFromCookie(c, utils.StateCookieName(raw))
		// single use regardless of outcome
		utils.ClearStateCookie(c, h.cookie, h.server.IsProduction(), raw)
	}

	result, err := h.callbackUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Warnw("oauth callback failed", "platform", raw, "error", err)
		h.redirect(c, constants.QueryError, callbackErrorMessage(err))
		return
	}

	h.redirect(c, constants.QueryConnected, result.Platform.String())
}

func (h *OAuthConnectHandler) redirect(c *gin.Context, key, value string) {
	target := h.server.BaseURL() + h.server.ConnectionsPath + "?" + url.Values{key: {value}}.Encode()
	c.Redirect(http.StatusFound, target)
}

// callbackErrorMessage returns text that is safe to put in the dashboard URL.
func callbackErrorMessage(err error) string {
	if connErr := apperrors.GetConnectionError(err); connErr != nil {
		return connErr.Message
	}
	return constants.GetOAuthErrorMessage("")
}
