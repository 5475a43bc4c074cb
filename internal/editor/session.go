package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"aimarketer/internal/domain"
)

// Generator requests one image for a prompt/style pair.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// userMessenger is implemented by errors that carry text meant for the user.
type userMessenger interface {
	UserMessage() string
}

// FallbackMessage is shown when a failure carries no user-facing text.
const FallbackMessage = "Something went wrong"

// Session is the editor state for one user: the generation input, the single
// live result, its adjustments and the loading flag. At most one generation
// is in flight at a time.
type Session struct {
	mu          sync.Mutex
	prompt      string
	style       string
	result      *domain.GenerationResult
	generatedAt time.Time
	adjustments Adjustments
	loading     bool
	lastErr     string
	now         func() time.Time
}

// NewSession returns an empty session with the default style selected.
func NewSession() *Session {
	return &Session{
		style:       domain.DefaultStyle,
		adjustments: Default(),
		now:         time.Now,
	}
}

func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = prompt
}

// SetStyle selects a style from domain.Styles.
func (s *Session) SetStyle(style string) error {
	if !domain.IsKnownStyle(style) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStyle, style)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = strings.TrimSpace(style)
	return nil
}

// Submit runs one generation. It fails with domain.ErrBusy while another
// submit is in flight. Loading is cleared whatever the outcome; on success the
// result replaces the previous one and the adjustments return to Default.
func (s *Session) Submit(ctx context.Context, gen Generator) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return domain.ErrBusy
	}
	if strings.TrimSpace(s.prompt) == "" {
		s.mu.Unlock()
		return domain.ErrInvalidPrompt
	}
	req := domain.GenerationRequest{Prompt: s.prompt, Style: s.style}
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	res, err := gen.Generate(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err == nil && (res == nil || res.Content == "") {
		err = fmt.Errorf("%w: empty result", domain.ErrProviderFailure)
	}
	if err != nil {
		s.lastErr = userMessage(err)
		return err
	}
	s.result = res
	s.generatedAt = s.now()
	s.adjustments = Default()
	return nil
}

func userMessage(err error) string {
	var um userMessenger
	if errors.As(err, &um) {
		if msg := strings.TrimSpace(um.UserMessage()); msg != "" {
			return msg
		}
	}
	return FallbackMessage
}

// Loading reports whether a generation is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the message of the last failed submit, or "".
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Result returns the live result and the time it was generated.
func (s *Session) Result() (domain.GenerationResult, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.GenerationResult{}, time.Time{}, domain.ErrNoImage
	}
	return *s.result, s.generatedAt, nil
}

// Adjustments returns a copy of the current adjustments.
func (s *Session) Adjustments() Adjustments {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustments
}

// Update mutates the adjustments through fn. The change is discarded when fn
// returns an error.
func (s *Session) Update(fn func(*Adjustments) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.adjustments
	if err := fn(&next); err != nil {
		return err
	}
	s.adjustments = next
	return nil
}

// ApplyPreset applies the named preset to the current adjustments.
func (s *Session) ApplyPreset(name string) error {
	p, ok := LookupPreset(name)
	if !ok {
		return fmt.Errorf("editor: unknown preset %q", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adjustments = p.Apply(s.adjustments)
	return nil
}

// Preview composes the live preview of the current adjustments.
func (s *Session) Preview() Preview {
	return s.Adjustments().Preview()
}
