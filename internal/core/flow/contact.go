package flow

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/kirillkom/support-assistant/internal/core/domain"
	"github.com/kirillkom/support-assistant/internal/core/ports"
)

type Step int

const (
	StepIdle Step = iota
	StepAskName
	StepAskEmail
	StepAskPhone
	StepAskComments
)

var generalQuestionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(what|who|how|why|where|tell|explain|do you)\b`),
	regexp.MustCompile(`\?$`),
	regexp.MustCompile(`(?i)^(is|are|can|could|would|will|when)\b`),
}

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

const minPhoneDigits = 7

// ContactFlow is the per-session finite-state machine collecting contact
// details across four turns. It is not safe for concurrent use; the
// session drains its messages one at a time.
type ContactFlow struct {
	step         Step
	record       domain.ContactRecord
	hasSubmitted bool

	intake ports.ContactIntake
	emit   func(text string)
	logger *slog.Logger
}

func NewContactFlow(intake ports.ContactIntake, emit func(string), logger *slog.Logger) *ContactFlow {
	return &ContactFlow{
		intake: intake,
		emit:   emit,
		logger: logger,
	}
}

func (f *ContactFlow) Active() bool { return f.step != StepIdle }

func (f *ContactFlow) Step() Step { return f.step }

func (f *ContactFlow) HasSubmitted() bool { return f.hasSubmitted }

// Start enters the flow unless a submission already happened, in which
// case the user is told how to re-enter explicitly.
func (f *ContactFlow) Start() {
	if f.hasSubmitted {
		f.emit("You have already submitted your details. Say 'restart' if you want to update them.")
		return
	}
	f.step = StepAskName
	f.record = domain.ContactRecord{}
	f.emit("Great! Let's get some details.\nWhat's your name?")
}

// Handle offers an inbound message to the flow. The returned bool is true
// when the message was fully consumed; false means the caller should run
// its normal retrieval path for the same message.
func (f *ContactFlow) Handle(ctx context.Context, msg string) bool {
	lower := strings.ToLower(msg)

	// The restart override beats everything, including the interrupt
	// check, so a previously submitted user can always re-enter.
	if strings.Contains(lower, "restart") || strings.Contains(lower, "update") {
		f.hasSubmitted = false
		f.step = StepIdle
		f.Start()
		return true
	}

	if f.step == StepIdle {
		return false
	}

	if isGeneralQuestion(msg) || strings.Contains(lower, "cancel") {
		f.emit("Sure! Let me answer your question first.")
		f.reset()
		return false
	}

	switch f.step {
	case StepAskName:
		return f.handleName(msg)
	case StepAskEmail:
		return f.handleEmail(msg)
	case StepAskPhone:
		return f.handlePhone(msg)
	case StepAskComments:
		return f.handleComments(ctx, msg)
	default:
		return false
	}
}

func (f *ContactFlow) handleName(msg string) bool {
	f.record.Name = msg
	f.step = StepAskEmail
	f.emit("Thanks! What's your email address?")
	return true
}

func (f *ContactFlow) handleEmail(msg string) bool {
	if !emailPattern.MatchString(msg) {
		f.emit("That doesn't look like a valid email address. Please try again.")
		return true
	}
	f.record.Email = msg
	f.step = StepAskPhone
	f.emit("Got it. What's your phone number?")
	return true
}

func (f *ContactFlow) handlePhone(msg string) bool {
	digits := nonDigitPattern.ReplaceAllString(msg, "")
	if len(digits) < minPhoneDigits {
		f.emit("That doesn't look like a valid phone number. Please try again.")
		return true
	}
	f.record.Phone = digits
	f.step = StepAskComments
	f.emit("Almost done! Briefly describe your project needs.")
	return true
}

func (f *ContactFlow) handleComments(ctx context.Context, msg string) bool {
	f.record.Comments = msg
	f.record.Category = domain.ContactCategory

	if err := f.intake.Submit(ctx, f.record); err != nil {
		f.logger.Error("contact_submission_failed", "error", err)
		f.emit("Failed to submit your details. Please try again later.")
		f.reset()
		return true
	}

	f.hasSubmitted = true
	f.emit("Submitted successfully! We'll contact you soon.")
	f.reset()
	return true
}

func (f *ContactFlow) reset() {
	f.step = StepIdle
	f.record = domain.ContactRecord{}
}

func isGeneralQuestion(msg string) bool {
	for _, pattern := range generalQuestionPatterns {
		if pattern.MatchString(msg) {
			return true
		}
	}
	return false
}
