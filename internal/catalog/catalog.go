// Package catalog holds the immutable lesson topics, quiz flavors and
// control ranges. The built-in copy is embedded YAML; topics may be
// replaced at startup by documents seeded into MongoDB.
package catalog

import (
	"aperturelab/internal/model"
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Catalog is read-only after Load
type Catalog struct {
	Topics  []model.Topic                       `yaml:"topics"`
	Ranges  map[model.RangeContext]model.Ranges `yaml:"ranges"`
	Quizzes []model.QuizFlavor                  `yaml:"quizzes"`
}

// Default parses the embedded catalog
func Default() (*Catalog, error) {
	return Load(defaultYAML)
}

// Load parses, defaults and validates a catalog document
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	applyDefaults(&c)
	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// WithTopics returns a copy of c whose topics are replaced. The quiz flavors
// and ranges are kept.
func (c *Catalog) WithTopics(topics []model.Topic) (*Catalog, error) {
	out := &Catalog{
		Topics:  make([]model.Topic, len(topics)),
		Ranges:  c.Ranges,
		Quizzes: c.Quizzes,
	}
	copy(out.Topics, topics)
	sort.SliceStable(out.Topics, func(i, j int) bool {
		return out.Topics[i].Order < out.Topics[j].Order
	})
	if err := validateTopics(out.Topics); err != nil {
		return nil, fmt.Errorf("invalid topic override: %w", err)
	}
	return out, nil
}

// Topic looks a topic up by id
func (c *Catalog) Topic(id string) (model.Topic, bool) {
	for _, t := range c.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return model.Topic{}, false
}

// Quiz looks a flavor up
func (c *Catalog) Quiz(f model.Flavor) (model.QuizFlavor, bool) {
	for _, q := range c.Quizzes {
		if q.Flavor == f {
			return q, true
		}
	}
	return model.QuizFlavor{}, false
}

// RangesFor returns the control ranges of a context
func (c *Catalog) RangesFor(ctx model.RangeContext) (model.Ranges, bool) {
	r, ok := c.Ranges[ctx]
	return r, ok
}

func applyDefaults(c *Catalog) {
	for i := range c.Topics {
		if c.Topics[i].Order == 0 {
			c.Topics[i].Order = i
		}
	}
	for i := range c.Quizzes {
		q := &c.Quizzes[i]
		if q.Context == "" {
			q.Context = model.ContextQuiz
		}
		if q.Policy == "" {
			q.Policy = model.ToleranceRelative
		}
		if q.Title == "" {
			q.Title = string(q.Flavor)
		}
	}
}

func validate(c *Catalog) error {
	if err := validateTopics(c.Topics); err != nil {
		return err
	}

	for _, ctx := range []model.RangeContext{model.ContextSimulator, model.ContextQuiz, model.ContextPlayground} {
		if _, ok := c.Ranges[ctx]; !ok {
			return fmt.Errorf("ranges.%s is required", ctx)
		}
	}
	for ctx, r := range c.Ranges {
		for _, f := range model.Fields {
			fr := r.For(f)
			if fr.Max <= fr.Min || fr.Step <= 0 {
				return fmt.Errorf("ranges.%s.%s: need min < max and step > 0", ctx, f)
			}
		}
	}

	if len(c.Quizzes) == 0 {
		return fmt.Errorf("at least one quiz flavor is required")
	}
	seen := make(map[model.Flavor]bool, len(c.Quizzes))
	for i, q := range c.Quizzes {
		if q.Flavor == "" {
			return fmt.Errorf("quizzes[%d]: flavor is required", i)
		}
		if seen[q.Flavor] {
			return fmt.Errorf("quizzes[%d]: duplicate flavor %q", i, q.Flavor)
		}
		seen[q.Flavor] = true

		if q.Policy != model.ToleranceRelative && q.Policy != model.ToleranceRange {
			return fmt.Errorf("quiz %s: policy must be relative or range, got %q", q.Flavor, q.Policy)
		}
		if q.Tolerance <= 0 {
			return fmt.Errorf("quiz %s: tolerance must be positive", q.Flavor)
		}
		if q.MaxAttempts < 0 {
			return fmt.Errorf("quiz %s: maxAttempts cannot be negative", q.Flavor)
		}
		if _, ok := c.Ranges[q.Context]; !ok {
			return fmt.Errorf("quiz %s: no ranges for context %q", q.Flavor, q.Context)
		}
		if len(q.Questions) == 0 {
			return fmt.Errorf("quiz %s: at least one question is required", q.Flavor)
		}
		ids := make(map[string]bool, len(q.Questions))
		for j, qq := range q.Questions {
			if qq.ID == "" || ids[qq.ID] {
				return fmt.Errorf("quiz %s, question %d: id must be unique and non-empty", q.Flavor, j)
			}
			ids[qq.ID] = true
			if _, err := model.ParseField(string(qq.FocusOn)); err != nil {
				return fmt.Errorf("quiz %s, question %s: %w", q.Flavor, qq.ID, err)
			}
		}
	}
	return nil
}

func validateTopics(topics []model.Topic) error {
	if len(topics) == 0 {
		return fmt.Errorf("at least one topic is required")
	}
	ids := make(map[string]bool, len(topics))
	for i, t := range topics {
		if t.ID == "" {
			return fmt.Errorf("topics[%d]: id is required", i)
		}
		if ids[t.ID] {
			return fmt.Errorf("topics[%d]: duplicate id %q", i, t.ID)
		}
		ids[t.ID] = true

		if t.Title == "" {
			return fmt.Errorf("topic %s: title is required", t.ID)
		}
		if len(t.Phases) == 0 {
			return fmt.Errorf("topic %s: at least one phase is required", t.ID)
		}
		hasCheck := false
		for _, p := range t.Phases {
			if !p.Valid() {
				return fmt.Errorf("topic %s: unknown phase %q", t.ID, p)
			}
			if p == model.PhaseQuickCheck {
				hasCheck = true
			}
		}
		if hasCheck && t.MCQuestion == nil {
			return fmt.Errorf("topic %s: quickcheck phase needs an mcQuestion", t.ID)
		}
		if t.MCQuestion != nil && t.MCQuestion.CorrectIndex() < 0 {
			return fmt.Errorf("topic %s: mcQuestion has no correct option", t.ID)
		}
	}
	return nil
}
