package milter

import (
	"fmt"
	"strings"
	"time"

	"github.com/d--j/go-milter"

	"github.com/spampipe/spampipe/pkg/config"
	"github.com/spampipe/spampipe/pkg/learning"
	"github.com/spampipe/spampipe/pkg/pipeline"
)

// Handler implements the milter.Milter interface, scoring each message
// with a trained spam pipeline model
type Handler struct {
	milter.NoOpMilter
	config *config.Config
	model  *pipeline.Model

	// Message data built during the milter session
	subject string
	body    strings.Builder

	startTime time.Time
}

// NewHandler creates a milter handler bound to a trained model. The
// model is shared between handlers; Transform is read-only so concurrent
// sessions are safe.
func NewHandler(cfg *config.Config, model *pipeline.Model) *Handler {
	return &Handler{
		config:    cfg,
		model:     model,
		startTime: time.Now(),
	}
}

// MailFrom resets message state for a new message
func (h *Handler) MailFrom(from string, esmtpArgs string, m milter.Modifier) (*milter.Response, error) {
	h.subject = ""
	h.body.Reset()
	h.startTime = time.Now()
	return milter.RespContinue, nil
}

// Header captures the subject line
func (h *Handler) Header(name string, value string, m milter.Modifier) (*milter.Response, error) {
	if strings.EqualFold(name, "subject") {
		h.subject = value
	}
	return milter.RespContinue, nil
}

// BodyChunk accumulates the message body
func (h *Handler) BodyChunk(chunk []byte, m milter.Modifier) (*milter.Response, error) {
	h.body.Write(chunk)
	return milter.RespContinue, nil
}

// EndOfMessage scores the complete message and decides the milter action
func (h *Handler) EndOfMessage(m milter.Modifier) (*milter.Response, error) {
	text := h.subject + " " + h.body.String()

	preds, err := learning.Predict(h.model, []string{text})
	if err != nil {
		return milter.RespTempFail, fmt.Errorf("failed to score message: %v", err)
	}
	pred := preds[0]

	if h.config.Milter.AddHeaders {
		if err := h.addHeaders(m, pred); err != nil {
			return milter.RespTempFail, fmt.Errorf("failed to add headers: %v", err)
		}
	}

	if pred.Probability >= h.config.Milter.RejectThreshold {
		message := h.config.Milter.RejectMessage
		if message == "" {
			message = fmt.Sprintf("5.7.1 Message rejected as spam (probability: %.2f)", pred.Probability)
		}
		resp, _ := milter.RejectWithCodeAndReason(550, message)
		return resp, nil
	}

	return milter.RespContinue, nil
}

// Abort resets message state
func (h *Handler) Abort(m milter.Modifier) error {
	h.subject = ""
	h.body.Reset()
	return nil
}

// addHeaders adds scan result headers to the message
func (h *Handler) addHeaders(m milter.Modifier, pred learning.Prediction) error {
	prefix := h.config.Milter.HeaderPrefix

	status := "Ham"
	if pred.Spam {
		status = "Spam"
	}
	if err := m.AddHeader(prefix+"Status", status); err != nil {
		return err
	}

	if err := m.AddHeader(prefix+"Probability", fmt.Sprintf("%.4f", pred.Probability)); err != nil {
		return err
	}

	scanTime := time.Since(h.startTime).Milliseconds()
	if err := m.AddHeader(prefix+"Info", fmt.Sprintf("spampipe; %dms", scanTime)); err != nil {
		return err
	}

	return nil
}
