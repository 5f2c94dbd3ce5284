package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/strato-sh/strato/pkg/engine"
	"github.com/strato-sh/strato/pkg/log"
	"github.com/strato-sh/strato/pkg/registry"
	"github.com/strato-sh/strato/pkg/store"
	"gopkg.in/yaml.v3"
)

// runtime bundles everything a command needs to act on clusters. Commands
// must call close when done so the state store is released.
type runtime struct {
	engine   *engine.Engine
	registry *registry.StoreRegistry
	ops      *registry.Ops
	store    store.Store
}

func (r *runtime) close() {
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			log.GetDefaultLogger().Warn("failed to close state store", log.Err(err))
		}
	}
}

// newRuntime opens the local state store and wires the lifecycle engine.
func newRuntime() (*runtime, error) {
	logger := log.GetDefaultLogger()

	st := store.NewBadgerStore(logger)
	if err := st.Open(filepath.Join(cfg.StateDir, "clusters")); err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	reg := registry.New(st, logger)
	ops := registry.NewOps(reg, nil, logger)
	work := registry.NewWorkIndex(st)

	local := make(map[string]bool, len(cfg.LocalClusters))
	for _, name := range cfg.LocalClusters {
		local[name] = true
	}

	eng, err := engine.New(engine.Config{
		Registry:    reg,
		Operations:  ops,
		Work:        work,
		Local:       engine.LocalClassifierFunc(func(name string) bool { return local[name] }),
		Output:      os.Stdout,
		Logger:      logger,
		Parallelism: cfg.Client.Parallelism,
		Progress:    isatty.IsTerminal(os.Stdout.Fd()),
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &runtime{engine: eng, registry: reg, ops: ops, store: st}, nil
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputYAML writes v as YAML.
func outputYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}
