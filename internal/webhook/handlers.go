// Package webhook receives provider deliveries, classifies each
// inbound message, and orchestrates the stores, the messenger, and
// the document generator.
package webhook

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rakshit1504/insurance-final-bot/internal/metrics"
	"github.com/rakshit1504/insurance-final-bot/internal/pdf"
	"github.com/rakshit1504/insurance-final-bot/pkg/types"
)

// User-facing reply texts
const (
	promptText      = "Please reply with a number (1-5) to choose an insurance plan."
	invalidPlanText = "Invalid plan number. Please choose between 1 and 5."
	helpText        = "Hi! Type *Insurance* to explore our plans."
	pdfFailedText   = "Failed to generate your insurance document. Please try again."
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// planChoicePattern matches canonical positive integers only; replies
// with signs or leading zeros fall through to the help text.
var planChoicePattern = regexp.MustCompile(`^[1-9][0-9]*$`)

// PlanStore provides the plan catalog and the selection log
type PlanStore interface {
	ListPlans(ctx context.Context) ([]types.Plan, error)
	AppendSelection(ctx context.Context, phone string, planID int) error
	CountPlans(ctx context.Context) (int, error)
}

// Messenger performs outbound provider calls
type Messenger interface {
	SendText(ctx context.Context, text, to string) types.Delivery
	SendTemplate(ctx context.Context, to string) types.Delivery
	SendDocument(ctx context.Context, path, filename, to string) types.Delivery
}

// Generator renders plan summary documents
type Generator interface {
	Generate(content, path string) error
}

// Archiver keeps copies of generated documents; may be absent
type Archiver interface {
	Store(ctx context.Context, path, objectName string) error
}

// Handler handles webhook HTTP requests
type Handler struct {
	store       PlanStore
	messenger   Messenger
	generator   Generator
	archiver    Archiver // nil when archiving is disabled
	verifyToken string
}

// NewHandler creates a new webhook handler
func NewHandler(store PlanStore, messenger Messenger, generator Generator, archiver Archiver, verifyToken string) *Handler {
	return &Handler{
		store:       store,
		messenger:   messenger,
		generator:   generator,
		archiver:    archiver,
		verifyToken: verifyToken,
	}
}

// SetupRoutes configures the HTTP routes
func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.POST("/webhook", handler.ReceiveMessage)
	router.GET("/webhook", handler.VerifyWebhook)
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// ReceiveMessage handles one webhook delivery. The response is 200
// with an empty body regardless of processing outcome; failures stay
// in the logs and counters.
func (h *Handler) ReceiveMessage(c *gin.Context) {
	var payload types.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		logrus.WithError(err).Debug("Ignoring malformed webhook body")
		c.Status(http.StatusOK)
		return
	}

	msg := ParseInbound(&payload)
	if msg == nil {
		metrics.MessagesReceived.WithLabelValues(metrics.KindIgnored).Inc()
		c.Status(http.StatusOK)
		return
	}

	log := logrus.WithFields(logrus.Fields{
		"correlation_id": uuid.New().String(),
		"from":           msg.From,
	})

	h.dispatch(c.Request.Context(), log, msg)
	c.Status(http.StatusOK)
}

// dispatch classifies the normalized text and runs the matching
// action sequence
func (h *Handler) dispatch(ctx context.Context, log *logrus.Entry, msg *types.InboundMessage) {
	text := strings.ToLower(strings.TrimSpace(msg.Text))

	if text == "insurance" {
		metrics.MessagesReceived.WithLabelValues(metrics.KindTemplateRequest).Inc()
		if d := h.messenger.SendTemplate(ctx, msg.From); !d.Delivered {
			metrics.SendsFailed.WithLabelValues("template").Inc()
			log.WithField("reason", d.Reason).Warn("Template send not delivered")
		}
		if d := h.messenger.SendText(ctx, promptText, msg.From); !d.Delivered {
			metrics.SendsFailed.WithLabelValues("text").Inc()
			log.WithField("reason", d.Reason).Warn("Prompt send not delivered")
		}
		return
	}

	if planChoicePattern.MatchString(text) {
		if choice, err := strconv.Atoi(text); err == nil {
			h.handleSelection(ctx, log, msg.From, choice)
			return
		}
	}

	metrics.MessagesReceived.WithLabelValues(metrics.KindFallback).Inc()
	if d := h.messenger.SendText(ctx, helpText, msg.From); !d.Delivered {
		metrics.SendsFailed.WithLabelValues("text").Inc()
		log.WithField("reason", d.Reason).Warn("Help send not delivered")
	}
}

// handleSelection treats choice as a 1-based index into the plan
// catalog, logs the selection, and sends the confirmation and the
// generated document
func (h *Handler) handleSelection(ctx context.Context, log *logrus.Entry, from string, choice int) {
	plans, err := h.store.ListPlans(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to load plan catalog")
		return
	}

	if choice < 1 || choice > len(plans) {
		metrics.MessagesReceived.WithLabelValues(metrics.KindInvalidPlan).Inc()
		if d := h.messenger.SendText(ctx, invalidPlanText, from); !d.Delivered {
			metrics.SendsFailed.WithLabelValues("text").Inc()
			log.WithField("reason", d.Reason).Warn("Invalid-plan reply not delivered")
		}
		return
	}

	plan := plans[choice-1]
	log = log.WithFields(logrus.Fields{"plan_id": plan.ID, "plan": plan.Name})
	metrics.MessagesReceived.WithLabelValues(metrics.KindPlanSelection).Inc()

	if err := h.store.AppendSelection(ctx, from, plan.ID); err != nil {
		log.WithError(err).Error("Failed to record selection")
		return
	}
	metrics.SelectionsRecorded.Inc()

	confirmation := "You selected *" + plan.Name + "*:\n" + plan.Description
	if d := h.messenger.SendText(ctx, confirmation, from); !d.Delivered {
		metrics.SendsFailed.WithLabelValues("text").Inc()
		log.WithField("reason", d.Reason).Warn("Confirmation not delivered")
	}

	fileName := DocumentFileName(plan.Name, from)
	filePath := filepath.Join(os.TempDir(), fileName)
	content := pdf.BuildContent(plan, from, time.Now())

	if err := h.generator.Generate(content, filePath); err != nil {
		log.WithError(err).Error("Failed to generate document")
		if d := h.messenger.SendText(ctx, pdfFailedText, from); !d.Delivered {
			metrics.SendsFailed.WithLabelValues("text").Inc()
			log.WithField("reason", d.Reason).Warn("Failure notice not delivered")
		}
		return
	}

	if h.archiver != nil {
		if err := h.archiver.Store(ctx, filePath, fileName); err != nil {
			log.WithError(err).Warn("Failed to archive document")
		}
	}

	if d := h.messenger.SendDocument(ctx, filePath, fileName, from); !d.Delivered {
		metrics.SendsFailed.WithLabelValues("document").Inc()
		log.WithField("reason", d.Reason).Warn("Document not delivered")
	}

	_ = os.Remove(filePath) // cleanup
}

// DocumentFileName builds the temp document name for a plan and sender
func DocumentFileName(planName, phone string) string {
	return whitespaceRun.ReplaceAllString(planName, "_") + "_" + phone + ".pdf"
}

// VerifyWebhook answers the provider's one-time handshake
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		logrus.Info("Webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	logrus.Warn("Webhook verification failed")
	c.Status(http.StatusForbidden)
}

// HealthCheck provides service health information
func (h *Handler) HealthCheck(c *gin.Context) {
	response := types.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	}

	count, err := h.store.CountPlans(c.Request.Context())
	if err != nil {
		response.Status = "degraded"
		c.JSON(http.StatusOK, response)
		return
	}

	response.Plans = count
	c.JSON(http.StatusOK, response)
}
