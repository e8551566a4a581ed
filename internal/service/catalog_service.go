package service

import (
	"aperturelab/internal/catalog"
	"aperturelab/internal/exposure"
	"aperturelab/internal/lesson"
	"aperturelab/internal/model"
	"aperturelab/internal/platform/logger"
	"aperturelab/internal/quiz"
	"aperturelab/internal/repository"
	"context"
	"errors"
	"fmt"
)

var (
	ErrTopicNotFound  = errors.New("topic not found")
	ErrUnknownFlavor  = errors.New("unknown quiz flavor")
	ErrInvalidSetting = errors.New("invalid setting value")
)

// CatalogService serves the immutable content and the effect mapper.
// It owns the lesson engine and one quiz run per flavor.
type CatalogService struct {
	cat    *catalog.Catalog
	engine *lesson.Engine
	runs   map[model.Flavor]*quiz.Run
}

// NewCatalogService builds the engine and quiz runs from a validated catalog
func NewCatalogService(cat *catalog.Catalog, quizURL string) (*CatalogService, error) {
	engine, err := lesson.NewEngine(cat.Topics, quizURL)
	if err != nil {
		return nil, fmt.Errorf("build lesson engine: %w", err)
	}
	runs := make(map[model.Flavor]*quiz.Run, len(cat.Quizzes))
	for _, fl := range cat.Quizzes {
		ranges, _ := cat.RangesFor(fl.Context)
		run, err := quiz.NewRun(fl, ranges)
		if err != nil {
			return nil, fmt.Errorf("build quiz %s: %w", fl.Flavor, err)
		}
		runs[fl.Flavor] = run
	}
	return &CatalogService{cat: cat, engine: engine, runs: runs}, nil
}

// LoadCatalog replaces the built-in topics with the ones seeded in MongoDB,
// if any. An unusable override is logged and ignored.
func LoadCatalog(ctx context.Context, base *catalog.Catalog, repo repository.TopicRepo, log *logger.Logger) *catalog.Catalog {
	if repo == nil {
		return base
	}
	topics, err := repo.List(ctx)
	if err != nil {
		log.Warn("topic override unavailable, using built-in topics", "error", err)
		return base
	}
	if len(topics) == 0 {
		return base
	}
	cat, err := base.WithTopics(topics)
	if err != nil {
		log.Warn("ignoring invalid topic override", "error", err)
		return base
	}
	log.Info("loaded topic override", "topics", len(topics))
	return cat
}

func (s *CatalogService) Engine() *lesson.Engine {
	return s.engine
}

func (s *CatalogService) Topics() []model.Topic {
	return s.cat.Topics
}

func (s *CatalogService) Topic(id string) (*model.Topic, error) {
	t, ok := s.cat.Topic(id)
	if !ok {
		return nil, ErrTopicNotFound
	}
	return &t, nil
}

// Ranges returns the ranges of every control context
func (s *CatalogService) Ranges() map[model.RangeContext]model.Ranges {
	out := make(map[model.RangeContext]model.Ranges, len(s.cat.Ranges))
	for k, v := range s.cat.Ranges {
		out[k] = v
	}
	return out
}

// Run returns the quiz run for a flavor
func (s *CatalogService) Run(flavor model.Flavor) (*quiz.Run, error) {
	run, ok := s.runs[flavor]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFlavor, flavor)
	}
	return run, nil
}

// EffectsRequest carries raw control input
type EffectsRequest struct {
	ISO          string
	Aperture     string
	ShutterSpeed string
	Context      string
}

// Effects parses raw control values into the context's ranges and maps them
// to a display descriptor. An empty context means the playground.
func (s *CatalogService) Effects(req EffectsRequest) (*exposure.Effect, error) {
	ctx := model.RangeContext(req.Context)
	if ctx == "" {
		ctx = model.ContextPlayground
	}
	ranges, ok := s.cat.RangesFor(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: unknown context %q", ErrInvalidSetting, req.Context)
	}

	var settings model.Settings
	raw := map[model.Field]string{
		model.FieldISO:          req.ISO,
		model.FieldAperture:     req.Aperture,
		model.FieldShutterSpeed: req.ShutterSpeed,
	}
	for _, f := range model.Fields {
		v, err := exposure.ParseSetting(raw[f], ranges.For(f))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidSetting, f, err)
		}
		settings = settings.With(f, v)
	}
	effect := exposure.Describe(settings)
	return &effect, nil
}

// SnapResult is a value snapped to the nearest canonical stop
type SnapResult struct {
	Field   model.Field `json:"field"`
	Value   float64     `json:"value"`
	Snapped float64     `json:"snapped"`
	Label   string      `json:"label"`
}

// Snap parses a raw value and snaps it to the field's stops
func (s *CatalogService) Snap(field, value string) (*SnapResult, error) {
	f, err := model.ParseField(field)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	sim, _ := s.cat.RangesFor(model.ContextSimulator)
	v, err := exposure.ParseSetting(value, model.SettingRange{Min: sim.For(f).Min, Max: sim.For(f).Max})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	snapped := exposure.Snap(v, exposure.Stops(f))
	return &SnapResult{
		Field:   f,
		Value:   v,
		Snapped: snapped,
		Label:   exposure.Format(f, snapped),
	}, nil
}
