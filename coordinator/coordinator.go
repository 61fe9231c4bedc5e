// ABOUTME: View coordinator owning current view, per-panel state, chat transcript, and the session gate
// ABOUTME: Runs adapter calls outside the lock and applies results only if the panel mount is still current
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/harperreed/marketmind/adapters"
	"github.com/harperreed/marketmind/models"
	"github.com/harperreed/marketmind/session"
)

var (
	// ErrBusy means the panel already has a call in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrNotAuthenticated means the session gate is closed.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrUnknownView means the id is not one of Views.
	ErrUnknownView = errors.New("unknown view")
	// ErrInactiveView means the panel is not the current view.
	ErrInactiveView = errors.New("panel is not the current view")
	// ErrInsightResolved means this dashboard mount already shows its insight.
	ErrInsightResolved = errors.New("insight already resolved for this dashboard")
)

const (
	// InsightPlaceholder is shown on the dashboard until the quick insight resolves.
	InsightPlaceholder = "Analyzing trends..."

	// FailureMessage is the generic in-panel failure indicator.
	FailureMessage = "Generation failed. Please try again."

	// DefaultInsightTopic is what the dashboard asks the quick-insight model about.
	DefaultInsightTopic = "Modern Sales Strategies"
)

// Adapters is the domain surface the coordinator drives.
type Adapters interface {
	GenerateCampaign(ctx context.Context, in adapters.CampaignInput) (*models.Campaign, error)
	GenerateSalesPitch(ctx context.Context, in adapters.PitchInput) (*models.SalesPitch, error)
	AnalyzeMarket(ctx context.Context, in adapters.MarketInput) (*models.MarketInsight, error)
	ScoreLeads(ctx context.Context, in adapters.LeadInput) ([]models.Lead, error)
	QuickInsight(ctx context.Context, topic string) (string, error)
	Chat(ctx context.Context, history []models.ChatMessage, message string) (*models.ChatMessage, error)
}

// slot tracks the async lifecycle of one panel mount.
type slot struct {
	busy     bool
	failure  string
	epoch    uint64
	resolved bool
}

type Coordinator struct {
	mu     sync.Mutex
	gate   *session.Gate
	svc    Adapters
	logger *zap.Logger
	topic  string
	now    func() time.Time

	view  View
	slots map[View]*slot
	chat  slot

	insight    string
	campaign   *models.Campaign
	pitch      *models.SalesPitch
	market     *models.MarketInsight
	leads      []models.Lead
	transcript []models.ChatMessage
}

type Option func(*Coordinator)

// WithClock replaces time.Now for transcript timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithInsightTopic changes the dashboard quick-insight topic.
func WithInsightTopic(topic string) Option {
	return func(c *Coordinator) {
		if topic != "" {
			c.topic = topic
		}
	}
}

// New creates a coordinator on the dashboard with a fresh transcript.
func New(gate *session.Gate, svc Adapters, logger *zap.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{
		gate:   gate,
		svc:    svc,
		logger: logger.Named("coordinator"),
		topic:  DefaultInsightTopic,
		now:    time.Now,
		slots:  make(map[View]*slot, len(Views)),
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, v := range Views {
		c.slots[v] = &slot{}
	}
	c.reset()
	return c
}

// reset returns to a freshly mounted dashboard. Caller holds mu.
func (c *Coordinator) reset() {
	c.view = Dashboard
	for _, v := range Views {
		c.unmount(v)
	}
	c.mountDashboard()
	c.chat = slot{epoch: c.chat.epoch + 1}
	c.transcript = []models.ChatMessage{c.message(models.RoleModel, adapters.ChatGreeting)}
}

func (c *Coordinator) message(role, text string) models.ChatMessage {
	return models.ChatMessage{Role: role, Text: text, Timestamp: c.now()}
}

// unmount discards a panel's result and failure and orphans its in-flight call.
func (c *Coordinator) unmount(v View) {
	s := c.slots[v]
	*s = slot{epoch: s.epoch + 1}
	switch v {
	case Dashboard:
		c.insight = ""
	case Campaigns:
		c.campaign = nil
	case SalesPitch:
		c.pitch = nil
	case MarketAnalysis:
		c.market = nil
	case LeadScoring:
		c.leads = nil
	}
}

func (c *Coordinator) mountDashboard() {
	c.insight = InsightPlaceholder
}

// Login opens the gate and lands on a freshly mounted dashboard. The caller
// should follow a successful login with RefreshInsight.
func (c *Coordinator) Login(email, secret string) error {
	if err := c.gate.AttemptLogin(email, secret); err != nil {
		c.logger.Info("login rejected", zap.Error(err))
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.logger.Info("login", zap.String("user", c.gate.State().DisplayName()))
	return nil
}

// Logout closes the gate and drops all panel and chat state.
func (c *Coordinator) Logout() {
	c.gate.Logout()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
	c.logger.Info("logout")
}

func (c *Coordinator) Session() session.State {
	return c.gate.State()
}

// Navigate switches the current view. It reports whether the dashboard was
// mounted, in which case the caller should fetch a quick insight.
func (c *Coordinator) Navigate(v View) (mounted bool, err error) {
	if _, err := ParseView(string(v)); err != nil {
		return false, err
	}
	if !c.gate.Authenticated() {
		return false, ErrNotAuthenticated
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v == c.view {
		return false, nil
	}

	c.logger.Debug("navigate", zap.Stringer("from", c.view), zap.Stringer("to", v))
	c.unmount(c.view)
	c.view = v
	if v == Dashboard {
		c.mountDashboard()
		return true, nil
	}
	return false, nil
}

// CurrentView returns the active panel.
func (c *Coordinator) CurrentView() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// begin marks the panel busy and returns the mount epoch the result must match.
func (c *Coordinator) begin(v View) (uint64, error) {
	if !c.gate.Authenticated() {
		return 0, ErrNotAuthenticated
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view != v {
		return 0, fmt.Errorf("%w: %s", ErrInactiveView, v)
	}
	s := c.slots[v]
	if s.busy {
		return 0, ErrBusy
	}
	if v == Dashboard && s.resolved {
		return 0, ErrInsightResolved
	}
	s.busy = true
	return s.epoch, nil
}

// finish applies a result if the mount that started the call is still live.
// Missing-field errors clear busy without marking a failure.
func (c *Coordinator) finish(v View, epoch uint64, err error, apply func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.slots[v]
	if s.epoch != epoch {
		c.logger.Debug("dropping stale result", zap.Stringer("view", v))
		return
	}
	s.busy = false
	switch {
	case err == nil:
		s.failure = ""
		s.resolved = true
		apply()
	case errors.Is(err, adapters.ErrMissingField):
	default:
		s.failure = FailureMessage
	}
}

// GenerateCampaign runs the campaign adapter for the campaigns panel.
func (c *Coordinator) GenerateCampaign(ctx context.Context, in adapters.CampaignInput) (*models.Campaign, error) {
	epoch, err := c.begin(Campaigns)
	if err != nil {
		return nil, err
	}
	campaign, err := c.svc.GenerateCampaign(ctx, in)
	c.finish(Campaigns, epoch, err, func() { c.campaign = campaign })
	return campaign, err
}

// GeneratePitch runs the pitch adapter for the sales pitch panel.
func (c *Coordinator) GeneratePitch(ctx context.Context, in adapters.PitchInput) (*models.SalesPitch, error) {
	epoch, err := c.begin(SalesPitch)
	if err != nil {
		return nil, err
	}
	pitch, err := c.svc.GenerateSalesPitch(ctx, in)
	c.finish(SalesPitch, epoch, err, func() { c.pitch = pitch })
	return pitch, err
}

// AnalyzeMarket runs the grounded market adapter for the market panel.
func (c *Coordinator) AnalyzeMarket(ctx context.Context, in adapters.MarketInput) (*models.MarketInsight, error) {
	epoch, err := c.begin(MarketAnalysis)
	if err != nil {
		return nil, err
	}
	insight, err := c.svc.AnalyzeMarket(ctx, in)
	c.finish(MarketAnalysis, epoch, err, func() { c.market = insight })
	return insight, err
}

// ScoreLeads replaces the lead panel's batch wholesale on success.
func (c *Coordinator) ScoreLeads(ctx context.Context, in adapters.LeadInput) ([]models.Lead, error) {
	epoch, err := c.begin(LeadScoring)
	if err != nil {
		return nil, err
	}
	leads, err := c.svc.ScoreLeads(ctx, in)
	c.finish(LeadScoring, epoch, err, func() { c.leads = leads })
	return leads, err
}

// RefreshInsight fetches the dashboard quick insight. Each mount resolves at
// most once: a result that arrives after a remount is dropped, and a call on
// a mount that already resolved returns ErrInsightResolved. A failed call may
// be retried.
func (c *Coordinator) RefreshInsight(ctx context.Context) (string, error) {
	epoch, err := c.begin(Dashboard)
	if err != nil {
		return "", err
	}
	text, err := c.svc.QuickInsight(ctx, c.topic)
	c.finish(Dashboard, epoch, err, func() { c.insight = text })
	return text, err
}

// SendChat appends the user turn, asks the consultant, and appends the reply.
// On failure the fallback text is appended instead, so the transcript always
// grows by exactly two.
func (c *Coordinator) SendChat(ctx context.Context, message string) (*models.ChatMessage, error) {
	if !c.gate.Authenticated() {
		return nil, ErrNotAuthenticated
	}

	c.mu.Lock()
	if c.chat.busy {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if strings.TrimSpace(message) == "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: message", adapters.ErrMissingField)
	}
	history := cloneMessages(c.transcript)
	epoch := c.chat.epoch
	c.chat.busy = true
	c.transcript = append(c.transcript, c.message(models.RoleUser, message))
	c.mu.Unlock()

	reply, err := c.svc.Chat(ctx, history, message)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.chat.epoch != epoch {
		c.logger.Debug("dropping chat reply for ended session")
		return reply, err
	}
	c.chat.busy = false
	if err != nil {
		c.logger.Warn("chat exchange failed", zap.Error(err))
		fallback := c.message(models.RoleModel, adapters.ChatFallback)
		reply = &fallback
	}
	c.transcript = append(c.transcript, *reply)
	return reply, err
}
