package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type reconcileEnv struct {
	AssignMaxAttempts int           `env:"ASSIGN_MAX_ATTEMPTS" envDefault:"3"`
	Interval          time.Duration `env:"RECONCILE_INTERVAL" envDefault:"0s"`
	IntentGrace       time.Duration `env:"RECONCILE_INTENT_GRACE" envDefault:"1m"`
}

type reconcile struct {
	raw reconcileEnv
}

func NewReconcileConfig() (*reconcile, error) {
	var raw reconcileEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	if raw.AssignMaxAttempts < 1 {
		raw.AssignMaxAttempts = 1
	}
	return &reconcile{raw: raw}, nil
}

func (cfg *reconcile) AssignMaxAttempts() int     { return cfg.raw.AssignMaxAttempts }
func (cfg *reconcile) Interval() time.Duration    { return cfg.raw.Interval }
func (cfg *reconcile) IntentGrace() time.Duration { return cfg.raw.IntentGrace }
