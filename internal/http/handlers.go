package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emiliodom/greetings-wall/internal/domain"
	"github.com/emiliodom/greetings-wall/internal/log"
	"github.com/emiliodom/greetings-wall/internal/metrics"
	"github.com/emiliodom/greetings-wall/internal/queue"
	"github.com/emiliodom/greetings-wall/internal/repo"
	"github.com/emiliodom/greetings-wall/internal/security"
)

type Handler struct {
	Noco    *repo.NocoDB
	Captcha security.CaptchaVerifier
	Pub     queue.Publisher
	Redis   *repo.Redis
}

func NewHandler(noco *repo.NocoDB, captcha security.CaptchaVerifier, pub queue.Publisher, rds *repo.Redis) *Handler {
	return &Handler{Noco: noco, Captcha: captcha, Pub: pub, Redis: rds}
}

// ListGreetings godoc
// @Summary List wall records
// @Tags greetings
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 500 {object} map[string]string
// @Router /api/greetings [get]
func (h *Handler) ListGreetings(c *gin.Context) {
	body, err := h.Noco.ListRecords(c.Request.Context())
	if err != nil {
		log.L().Error("upstream list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", body)
}

type submitReq struct {
	Message      string `json:"Message"`
	User         string `json:"User"`
	Notes        string `json:"Notes"`
	Country      string `json:"Country"`
	CaptchaToken string `json:"captchaToken"`
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// SubmitGreeting godoc
// @Summary Submit a greeting
// @Tags greetings
// @Accept json
// @Produce json
// @Param payload body submitReq true "Message, User, Notes, Country, captchaToken"
// @Success 200 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/greetings [post]
func (h *Handler) SubmitGreeting(c *gin.Context) {
	var in submitReq
	if err := c.ShouldBindJSON(&in); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("bad_payload").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if in.Message == "" || in.User == "" || in.Notes == "" {
		metrics.SubmissionsTotal.WithLabelValues("missing_fields").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	if err := h.Captcha.Verify(c.Request.Context(), in.CaptchaToken, ClientIP(c)); err != nil {
		metrics.CaptchaFailures.Inc()
		metrics.SubmissionsTotal.WithLabelValues("captcha_failed").Inc()
		log.L().Warn("captcha verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "captcha verification failed"})
		return
	}

	country := truncate(in.Country, domain.MaxCountryLen)
	if country == "" {
		country = domain.UnknownCountry
	}
	row := repo.Row{
		Message: truncate(in.Message, domain.MaxMessageLen),
		User:    truncate(in.User, domain.MaxUserLen),
		Notes:   truncate(in.Notes, domain.MaxFeelingLen),
		Country: country,
	}

	ack, err := h.Noco.CreateRecord(c.Request.Context(), row)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("upstream_error").Inc()
		log.L().Error("upstream create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()

	if h.Pub != nil {
		_ = h.Pub.Publish(c.Request.Context(), "greetings.events", "greeting.created",
			queue.GreetingCreated{Message: row.Message, Feeling: row.Notes, CountryCode: row.Country},
			c.GetString("X-Request-ID"))
	}

	c.Data(http.StatusOK, "application/json", ack)
}

// IP godoc
// @Summary Resolve the caller's IP from the trusted edge headers
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/ip [get]
func (h *Handler) IP(c *gin.Context) {
	ip := ClientIP(c)
	if ip == "" {
		ip = "unknown"
	}
	c.JSON(http.StatusOK, gin.H{"ip": ip})
}

func (h *Handler) Healthz(c *gin.Context) {
	if h.Redis != nil {
		if err := h.Redis.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
