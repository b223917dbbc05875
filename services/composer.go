package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"unmasked_server/models"
)

// ErrSubmitInProgress is returned when a composer is submitted twice concurrently.
var ErrSubmitInProgress = errors.New("submit already in progress")

// ComposerState is a step of the publication workflow.
type ComposerState int

const (
	Composing ComposerState = iota
	Submitting
	Published
	Failed
)

func (s ComposerState) String() string {
	switch s {
	case Composing:
		return "composing"
	case Submitting:
		return "submitting"
	case Published:
		return "published"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Composer holds the text buffer of one confession being written to a pool.
type Composer struct {
	service *ConfessionService
	pool    models.Pool

	mu      sync.Mutex
	state   ComposerState
	text    string
	lastErr error
	posted  models.Confession
}

func NewComposer(service *ConfessionService, pool models.Pool) *Composer {
	return &Composer{service: service, pool: pool, state: Composing}
}

// SetText replaces the buffer, truncated to MaxConfessionLength. Editing
// after a publish starts a new confession.
func (c *Composer) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = TruncateConfession(text)
	if c.state == Published {
		c.state = Composing
		c.posted = models.Confession{}
	}
}

func (c *Composer) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *Composer) State() ComposerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of the last failed submit, if any.
func (c *Composer) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Submit publishes the buffer. On failure the composer returns to Composing
// with the buffer intact so the actor can retry.
func (c *Composer) Submit(ctx context.Context) (models.Confession, error) {
	c.mu.Lock()
	if c.state == Submitting {
		c.mu.Unlock()
		return models.Confession{}, ErrSubmitInProgress
	}
	if c.state == Published {
		posted := c.posted
		c.mu.Unlock()
		return posted, nil
	}
	text := strings.TrimSpace(c.text)
	if text == "" {
		c.mu.Unlock()
		return models.Confession{}, models.ErrEmptyConfession
	}
	c.state = Submitting
	c.lastErr = nil
	c.mu.Unlock()

	confession, err := c.service.Publish(ctx, c.pool, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		// Failed is transient: the buffer stays and the actor can resubmit.
		c.state = Composing
		c.lastErr = err
		return models.Confession{}, err
	}
	c.state = Published
	c.posted = confession
	c.text = ""
	return confession, nil
}
