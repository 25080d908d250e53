package api

import (
	"net/http"

	"medic-backend/pkg/config"
	"medic-backend/pkg/notifyview"
	"medic-backend/pkg/pushclient"
	"medic-backend/pkg/pwa"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PWAHandler serves the browser-side push and install assets
type PWAHandler struct {
	webConfig pushclient.WebConfig
	manifest  pwa.Manifest
	script    []byte
	scriptErr error
}

func NewPWAHandler(cfg *config.Config, log zerolog.Logger) *PWAHandler {
	webConfig := pushclient.WebConfig(cfg.Web)
	if err := webConfig.Validate(); err != nil {
		log.Warn().Err(err).Msg("web push not configured, clients will skip registration")
	}

	script, err := notifyview.ServiceWorkerScript(webConfig, cfg.Push.Icon)
	if err != nil {
		log.Error().Err(err).Msg("failed to render service worker script")
	}

	return &PWAHandler{
		webConfig: webConfig,
		manifest:  pwa.NewManifest(notifyview.AppName, cfg.Push.Icon),
		script:    script,
		scriptErr: err,
	}
}

// ServiceWorker serves the background messaging worker
// GET /firebase-messaging-sw.js
func (h *PWAHandler) ServiceWorker(c *gin.Context) {
	if h.scriptErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.scriptErr.Error()})
		return
	}
	c.Header("Service-Worker-Allowed", "/")
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, "application/javascript; charset=utf-8", h.script)
}

// Manifest serves the web app manifest
// GET /manifest.webmanifest
func (h *PWAHandler) Manifest(c *gin.Context) {
	c.Header("Content-Type", "application/manifest+json")
	c.JSON(http.StatusOK, h.manifest)
}

// PushConfig returns the public messaging configuration
// GET /api/push/config
func (h *PWAHandler) PushConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.webConfig)
}

// Advice returns install guidance for the calling browser
// GET /api/pwa/advice?standalone=true&referrer=...
func (h *PWAHandler) Advice(c *gin.Context) {
	advice := pwa.Advise(c.GetHeader("User-Agent"), c.Query("standalone") == "true", c.Query("referrer"))
	c.JSON(http.StatusOK, advice)
}
