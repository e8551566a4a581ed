package flag

import (
	"context"
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
)

// Gdata stores flags in the user's data directory, one object per learner
// and one property per key. It is the desktop counterpart of browser local
// storage.
type Gdata struct {
	mu sync.Mutex
	m  *gdata.Manager
}

// OpenGdata opens (or creates) the data directory for appName
func OpenGdata(appName string) (*Gdata, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return NewGdata(m), nil
}

func NewGdata(m *gdata.Manager) *Gdata {
	return &Gdata{m: m}
}

func (g *Gdata) Get(ctx context.Context, learnerID, key string) (string, bool, error) {
	if err := CheckKey(learnerID, key); err != nil {
		return "", false, err
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.m.ObjectPropExists(learnerID, key) {
		return "", false, nil
	}
	data, err := g.m.LoadObjectProp(learnerID, key)
	if err != nil {
		return "", false, fmt.Errorf("load %s/%s: %w", learnerID, key, err)
	}
	return string(data), true, nil
}

func (g *Gdata) Set(ctx context.Context, learnerID, key, value string) error {
	if err := CheckKey(learnerID, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.m.SaveObjectProp(learnerID, key, []byte(value)); err != nil {
		return fmt.Errorf("save %s/%s: %w", learnerID, key, err)
	}
	return nil
}

func (g *Gdata) Delete(ctx context.Context, learnerID, key string) error {
	if err := CheckKey(learnerID, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.m.ObjectPropExists(learnerID, key) {
		return nil
	}
	if err := g.m.DeleteObjectProp(learnerID, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", learnerID, key, err)
	}
	return nil
}
