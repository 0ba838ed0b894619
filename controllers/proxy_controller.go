package controllers

import (
	"io"
	"log"
	"net/http"
	"strings"

	"gift-shop/config"
	"gift-shop/middleware"
	"gift-shop/models"
	"gift-shop/utils"

	"github.com/gin-gonic/gin"
)

type ProxyController struct {
	upstreamBase string
	client       *http.Client
}

func NewProxyController() *ProxyController {
	return &ProxyController{
		upstreamBase: strings.TrimSuffix(config.AppConfig.UpstreamBaseURL, "/"),
		client: &http.Client{
			Timeout: config.AppConfig.UpstreamTimeout,
		},
	}
}

// Forward godoc
// @Summary Forward a request to the upstream commerce API
// @Description Relays any method and body to the upstream API, injecting the auth token and forwarding cookies
// @Tags Proxy
// @Accept json
// @Produce json
// @Param path path string true "Upstream API path"
// @Success 200 {object} models.Response
// @Failure 429 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /proxy/{path} [get]
func (ctrl *ProxyController) Forward(c *gin.Context) {
	apiPath := strings.TrimPrefix(c.Param("path"), "/")

	destination := ctrl.upstreamBase + "/" + apiPath
	if raw := c.Request.URL.RawQuery; raw != "" {
		destination += "?" + raw
	}

	var body io.Reader
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		body = c.Request.Body
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, destination, body)
	if err != nil {
		log.Printf("[Proxy Error] building upstream request: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Message: "Service unavailable. Please try again.",
		})
		return
	}

	identity := middleware.ClientIdentity(c.Request)

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Forwarded-For", identity)
	req.Header.Set("X-Forwarded-Host", c.Request.Host)

	if token := utils.ExtractToken(c.Request); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if csrf := c.GetHeader("X-CSRF-Token"); csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}

	resp, err := ctrl.client.Do(req)
	if err != nil {
		// The underlying network error stays server-side only.
		log.Printf("[Proxy Error] %v", err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Message: "Service unavailable. Please try again.",
		})
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[Proxy Error] reading upstream response: %v", err)
		c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{
			Success: false,
			Message: "Service unavailable. Please try again.",
		})
		return
	}

	for _, cookie := range resp.Header.Values("Set-Cookie") {
		c.Writer.Header().Add("Set-Cookie", cookie)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, respBody)
}
