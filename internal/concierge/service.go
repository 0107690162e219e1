package concierge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/david/donor-concierge/internal/db"
	"github.com/david/donor-concierge/internal/match"
	"github.com/david/donor-concierge/internal/metrics"
	"github.com/david/donor-concierge/internal/models"
	"github.com/david/donor-concierge/internal/vision"
)

var (
	ErrEmptyMessage = errors.New("concierge: message is empty")
	ErrUnknownDonor = errors.New("concierge: unknown donor")
)

// Store is the persistence the service needs. *db.Store satisfies it.
type Store interface {
	CreateDonor(ctx context.Context, displayName string) (*models.Donor, error)
	GetDonor(ctx context.Context, id uuid.UUID) (*models.Donor, error)
	AppendTurn(ctx context.Context, donorID uuid.UUID, role vision.Role, content string) (*models.ChatTurn, error)
	ListTurns(ctx context.Context, donorID uuid.UUID) ([]models.ChatTurn, error)
	GetVision(ctx context.Context, donorID uuid.UUID) (*vision.ImpactVision, error)
	SaveVision(ctx context.Context, donorID uuid.UUID, v vision.ImpactVision) error
	AllOpportunities(ctx context.Context) ([]models.Opportunity, error)
}

// VisionCache is an optional read-through cache in front of Store visions.
type VisionCache interface {
	Get(ctx context.Context, donorID uuid.UUID) (*vision.ImpactVision, error)
	Set(ctx context.Context, donorID uuid.UUID, v vision.ImpactVision) error
	Delete(ctx context.Context, donorID uuid.UUID) error
}

type Option func(*Service)

func WithCache(c VisionCache) Option {
	return func(s *Service) { s.cache = c }
}

func WithMetrics(m *metrics.ConciergeMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

type Service struct {
	store   Store
	cache   VisionCache
	metrics *metrics.ConciergeMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(store Store, opts ...Option) *Service {
	if store == nil {
		panic("concierge: store required")
	}
	s := &Service{
		store:  store,
		logger: zap.NewNop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result is what a donor sees after sending a message.
type Result struct {
	Reply   string              `json:"reply"`
	NextKey vision.QuestionKey  `json:"nextKey"`
	Stage   vision.Stage        `json:"stage"`
	Guided  bool                `json:"guided"`
	Vision  vision.ImpactVision `json:"vision"`
}

// HandleMessage records a donor turn, rederives the Impact Vision from the
// full transcript and records the concierge's reply.
func (s *Service) HandleMessage(ctx context.Context, donorID uuid.UUID, content string) (*Result, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if err := s.ensureDonor(ctx, donorID); err != nil {
		return nil, err
	}

	if _, err := s.store.AppendTurn(ctx, donorID, vision.RoleDonor, content); err != nil {
		return nil, fmt.Errorf("concierge: record donor turn: %w", err)
	}
	turns, err := s.store.ListTurns(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("concierge: load transcript: %w", err)
	}
	prev, err := s.previousVision(ctx, donorID)
	if err != nil {
		return nil, err
	}

	next := vision.ExtractVisionAt(models.Transcript(turns), s.now())
	if prev != nil {
		next.Notes = vision.MergeNotes(prev.Notes, next.Notes)
	}
	reply := vision.ComposeAssistantReply(next, content, prev)

	if _, err := s.store.AppendTurn(ctx, donorID, vision.RoleAssistant, reply.Text); err != nil {
		return nil, fmt.Errorf("concierge: record assistant turn: %w", err)
	}
	if err := s.store.SaveVision(ctx, donorID, reply.Vision); err != nil {
		return nil, fmt.Errorf("concierge: save vision: %w", err)
	}
	s.refreshCache(ctx, donorID, reply.Vision)

	s.metrics.ObserveMessage(string(reply.Stage), reply.Guided)
	if reply.Stage == vision.StageActivated && (prev == nil || prev.Stage != vision.StageActivated) {
		s.metrics.ObserveActivation()
		s.logger.Info("impact vision activated", zap.String("donor_id", donorID.String()))
	}
	s.logger.Debug("donor message handled",
		zap.String("donor_id", donorID.String()),
		zap.String("stage", string(reply.Stage)),
		zap.String("next_key", string(reply.NextKey)),
		zap.Bool("guided", reply.Guided),
	)

	return &Result{
		Reply:   reply.Text,
		NextKey: reply.NextKey,
		Stage:   reply.Stage,
		Guided:  reply.Guided,
		Vision:  reply.Vision,
	}, nil
}

// Vision returns the donor's current vision, or the empty vision when the
// donor has not said anything yet.
func (s *Service) Vision(ctx context.Context, donorID uuid.UUID) (vision.ImpactVision, error) {
	if err := s.ensureDonor(ctx, donorID); err != nil {
		return vision.ImpactVision{}, err
	}
	v, err := s.previousVision(ctx, donorID)
	if err != nil {
		return vision.ImpactVision{}, err
	}
	if v == nil {
		return vision.Empty(), nil
	}
	return *v, nil
}

func (s *Service) Board(ctx context.Context, donorID uuid.UUID) (vision.VisionBoard, error) {
	v, err := s.Vision(ctx, donorID)
	if err != nil {
		return vision.VisionBoard{}, err
	}
	return vision.BuildBoard(v), nil
}

func (s *Service) Suggestions(ctx context.Context, donorID uuid.UUID) ([]vision.DemoSuggestion, error) {
	v, err := s.Vision(ctx, donorID)
	if err != nil {
		return nil, err
	}
	return vision.DemoSuggestionsForVision(v), nil
}

// MatchReport is the donor's ranked opportunity list. Results carries the
// same evaluations keyed by opportunity key.
type MatchReport struct {
	Stage         vision.Stage            `json:"stage"`
	Matched       int                     `json:"matched"`
	Opportunities []match.Ranked          `json:"opportunities"`
	Results       map[string]match.Result `json:"results"`
}

func (s *Service) Matches(ctx context.Context, donorID uuid.UUID) (*MatchReport, error) {
	v, err := s.Vision(ctx, donorID)
	if err != nil {
		return nil, err
	}
	opps, err := s.store.AllOpportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("concierge: load opportunities: %w", err)
	}

	snapshots := models.Snapshots(opps)
	report := &MatchReport{
		Stage:         v.Stage,
		Opportunities: match.RankOpportunities(snapshots, v),
		Results:       match.ReviewOpportunities(snapshots, v),
	}
	for _, r := range report.Opportunities {
		if r.Result.Matched {
			report.Matched++
		}
		s.metrics.ObserveMatch(r.Result.Matched, string(r.Result.Confidence))
	}
	s.metrics.ObserveReview(len(snapshots))
	return report, nil
}

func (s *Service) Transcript(ctx context.Context, donorID uuid.UUID) ([]models.ChatTurn, error) {
	if err := s.ensureDonor(ctx, donorID); err != nil {
		return nil, err
	}
	turns, err := s.store.ListTurns(ctx, donorID)
	if err != nil {
		return nil, fmt.Errorf("concierge: load transcript: %w", err)
	}
	return turns, nil
}

func (s *Service) RegisterDonor(ctx context.Context, displayName string) (*models.Donor, error) {
	d, err := s.store.CreateDonor(ctx, displayName)
	if err != nil {
		return nil, fmt.Errorf("concierge: register donor: %w", err)
	}
	s.logger.Info("donor registered", zap.String("donor_id", d.ID.String()))
	return d, nil
}

func (s *Service) ensureDonor(ctx context.Context, donorID uuid.UUID) error {
	if _, err := s.store.GetDonor(ctx, donorID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrUnknownDonor
		}
		return fmt.Errorf("concierge: load donor: %w", err)
	}
	return nil
}

// previousVision checks the cache first and falls back to the store. A
// cache failure is logged and treated as a miss.
func (s *Service) previousVision(ctx context.Context, donorID uuid.UUID) (*vision.ImpactVision, error) {
	if s.cache != nil {
		v, err := s.cache.Get(ctx, donorID)
		if err != nil {
			s.logger.Warn("vision cache read failed", zap.String("donor_id", donorID.String()), zap.Error(err))
		} else if v != nil {
			return v, nil
		}
	}

	v, err := s.store.GetVision(ctx, donorID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("concierge: load vision: %w", err)
	}
	s.refreshCache(ctx, donorID, *v)
	return v, nil
}

func (s *Service) refreshCache(ctx context.Context, donorID uuid.UUID, v vision.ImpactVision) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, donorID, v); err != nil {
		s.logger.Warn("vision cache write failed", zap.String("donor_id", donorID.String()), zap.Error(err))
		// The old entry would now disagree with the store.
		if err := s.cache.Delete(ctx, donorID); err != nil {
			s.logger.Warn("vision cache invalidation failed", zap.String("donor_id", donorID.String()), zap.Error(err))
		}
	}
}
