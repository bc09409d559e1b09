package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulseboard/pulseboard/internal/application/connection/usecases"
	"github.com/pulseboard/pulseboard/internal/domain/connection"
	"github.com/pulseboard/pulseboard/internal/shared/constants"
	"github.com/pulseboard/pulseboard/internal/shared/utils"
)

func init() {
	if err := utils.RegisterStringValidation("platform", func(s string) bool {
		return connection.Platform(s).IsValid()
	}); err != nil {
		panic(err)
	}
}

type platformURI struct {
	Platform string `uri:"platform" validate:"required,platform"`
}

// ConnectionHandler serves the JSON connection management API.
type ConnectionHandler struct {
	listUC       listConnectionsUseCase
	disconnectUC disconnectPlatformUseCase
	refreshUC    refreshConnectionUseCase
}

func NewConnectionHandler(
	listUC listConnectionsUseCase,
	disconnectUC disconnectPlatformUseCase,
	refreshUC refreshConnectionUseCase,
) *ConnectionHandler {
	return &ConnectionHandler{
		listUC:       listUC,
		disconnectUC: disconnectUC,
		refreshUC:    refreshUC,
	}
}

// List handles GET /api/connections
// @Summary List platform connections
// @Description Status of every supported platform for the signed-in user. Tokens are never returned.
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse{data=[]dto.ConnectionDTO}
// @Failure 401 {object} utils.APIResponse
// @Router /api/connections [get]
func (h *ConnectionHandler) List(c *gin.Context) {
	list, err := h.listUC.Execute(c.Request.Context(), usecases.ListConnectionsQuery{
		UserID: c.GetString(constants.ContextKeyUserID),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", list)
}

// Disconnect handles POST /api/connections/:platform/disconnect
// @Summary Disconnect a platform
// @Description Revokes the token upstream where supported, then clears the stored tokens.
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param platform path string true "Platform" Enums(instagram, facebook, linkedin, youtube)
// @Success 200 {object} utils.APIResponse{data=dto.ConnectionDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/connections/{platform}/disconnect [post]
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	platform, ok := bindPlatform(c)
	if !ok {
		return
	}

	result, err := h.disconnectUC.Execute(c.Request.Context(), usecases.DisconnectPlatformCommand{
		UserID:   c.GetString(constants.ContextKeyUserID),
		Platform: platform,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Platform disconnected", result)
}

// Refresh handles POST /api/connections/:platform/refresh
// @Summary Refresh a platform access token
// @Description Uses the stored refresh token. A rejected refresh token disconnects the platform.
// @Tags Connections
// @Produce json
// @Security BearerAuth
// @Param platform path string true "Platform" Enums(instagram, facebook, linkedin, youtube)
// @Success 200 {object} utils.APIResponse{data=dto.ConnectionDTO}
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/connections/{platform}/refresh [post]
func (h *ConnectionHandler) Refresh(c *gin.Context) {
	platform, ok := bindPlatform(c)
	if !ok {
		return
	}

	result, err := h.refreshUC.Execute(c.Request.Context(), usecases.RefreshConnectionCommand{
		UserID:   c.GetString(constants.ContextKeyUserID),
		Platform: platform,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Access token refreshed", result)
}

func bindPlatform(c *gin.Context) (string, bool) {
	params := platformURI{Platform: c.Param("platform")}
	if err := utils.ValidateStruct(params); err != nil {
		utils.ErrorResponseWithError(c, err)
		return "", false
	}
	return params.Platform, true
}
