// Package contact turns contact form posts into mail notifications.
package contact

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// SubmitPath is where the landing page posts the form.
	SubmitPath = "/api/submit"

	// SuccessMessage is returned with every delivered notification.
	SuccessMessage = "Email sent successfully"
	// FailureMessage is the only error a client ever sees.
	FailureMessage = "Failed to send email"
)

type HandlerConfig struct {
	Mail   Config           // transport and recipient settings
	Mailer Mailer           // delivery, SMTP from Mail if nil
	Logger *zap.Logger      // failures are logged here
	Now    func() time.Time // clock for the receipt time
}

// Handler serves the submit endpoint.
type Handler struct {
	mail      Config
	mailer    Mailer
	configErr error
	log       *zap.Logger
	now       func() time.Time
}

// NewHandler never fails. With incomplete mail settings the error is logged
// once and every submission is answered with a failure.
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	h := &Handler{
		mail: cfg.Mail,
		log:  cfg.Logger,
		now:  cfg.Now,
	}

	if h.configErr = cfg.Mail.Validate(); h.configErr != nil {
		h.log.Error("mail disabled", zap.Error(h.configErr))
		return h
	}

	if cfg.Mailer == nil {
		smtp, err := NewSMTPMailer(cfg.Mail)
		if err != nil {
			h.configErr = err
			h.log.Error("mail disabled", zap.Error(err))
			return h
		}
		cfg.Mailer = smtp
	}

	h.mailer = cfg.Mailer

	return h
}

// Ready reports whether submissions can be delivered.
func (h *Handler) Ready() bool {
	return h.mailer != nil
}

// Register mounts the endpoint.
func (h *Handler) Register(r gin.IRoutes) {
	r.POST(SubmitPath, h.Submit)
}

// Submit mails one form post to the site owner.
func (h *Handler) Submit(c *gin.Context) {
	var sub Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.fail(c, errors.Wrap(err, "invalid submission"))
		return
	}

	if h.mailer == nil {
		h.fail(c, h.configErr)
		return
	}

	msg, err := Compose(h.mail, sub, h.now())
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.mailer.Send(c.Request.Context(), msg); err != nil {
		h.fail(c, err)
		return
	}

	h.log.Info("contact mail sent", zap.String("to", msg.To))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": SuccessMessage,
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	h.log.Error("contact submission failed", zap.Error(err))

	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   FailureMessage,
	})
}
