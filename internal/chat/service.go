// ABOUTME: Chat orchestrator composing prompts from session history
// ABOUTME: Validates input, invokes inference, and records both sides of the exchange

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/stephentwig/huddle/internal/inference"
	"github.com/stephentwig/huddle/internal/memory"
	"github.com/stephentwig/huddle/internal/store"
)

// ErrEmptyMessage is returned when the user message is missing or blank.
var ErrEmptyMessage = errors.New("message is empty")

// defaultSystemPrompt scopes the assistant to Super Bowl topics and pins
// the refusal phrase for anything else. Deployments may override the
// wording via config, but the replacement must keep both halves: the
// topic restriction and a deterministic off-topic refusal string.
const defaultSystemPrompt = "You are a concise Super Bowl helper. Answer questions about " +
	"the Super Bowl, teams, rules, history, and game-day logistics. Keep replies short " +
	"and helpful. If the question is not Super Bowl related say " +
	`"Sorry bro, I do not know about that"`

// Service orchestrates one chat exchange: read history, compose the
// prompt, invoke inference, record both turns.
type Service struct {
	completer    inference.Completer
	systemPrompt string
	logger       *slog.Logger
}

// New creates a chat service. An empty systemPrompt selects the default
// instruction.
func New(completer inference.Completer, systemPrompt string, logger *slog.Logger) *Service {
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		completer:    completer,
		systemPrompt: systemPrompt,
		logger:       logger.With("component", "chat"),
	}
}

// Reply handles one user message against a session's memory.
//
// The history read is a snapshot: a turn appended by a concurrent request
// between this read and the appends below simply lands in append order.
// That is accepted behavior, not a race to fix here.
//
// The exchange is recorded as two independent appends rather than one
// batched write, keeping the memory store's mutation primitive uniform.
// A crash between them leaves a user turn without its reply; that narrow
// partial-failure window is accepted. Append failures degrade silently:
// the exchange is lost from memory but the reply still reaches the user.
func (s *Service) Reply(ctx context.Context, sess *memory.Session, userText string) (string, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return "", ErrEmptyMessage
	}

	history := sess.Get(ctx)

	prompt := make([]store.Turn, 0, len(history)+2)
	prompt = append(prompt, store.Turn{Role: store.RoleSystem, Content: s.systemPrompt})
	prompt = append(prompt, history...)
	prompt = append(prompt, store.Turn{Role: store.RoleUser, Content: userText})

	reply, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	if err := sess.Append(ctx, store.Turn{Role: store.RoleUser, Content: userText}); err != nil {
		s.logger.Warn("failed to record user turn", "session_id", sess.ID(), "error", err)
	}
	if err := sess.Append(ctx, store.Turn{Role: store.RoleAssistant, Content: reply}); err != nil {
		s.logger.Warn("failed to record assistant turn", "session_id", sess.ID(), "error", err)
	}

	return reply, nil
}
