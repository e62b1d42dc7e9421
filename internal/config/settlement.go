package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/sistemascrenat/liquidaciones-sub000/internal/production/normalizer"
	"github.com/spf13/viper"
)

// SettlementRulesHolder serves the normalization rules used when computing a
// settlement: field synonyms, date layouts and the role-slot map. Rules are
// hot-reloaded from liquidacion.yml so a new source-system export format can
// be absorbed without a redeploy.
type SettlementRulesHolder struct {
	current atomic.Value // holds normalizer.Rules
}

func NewSettlementRulesHolder() (*SettlementRulesHolder, error) {
	v := viper.New()

	v.SetConfigName("liquidacion")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/liquidador/config") // Volume-mounted config
	v.AddConfigPath("/etc/liquidador")            // System config
	v.AddConfigPath(".")                          // Current directory (dev mode)

	v.SetEnvPrefix("LIQUIDADOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	useDefaults := false
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		useDefaults = true
	}

	rules := normalizer.DefaultRules()
	if !useDefaults {
		if err := v.UnmarshalKey("reglas", &rules); err != nil {
			return nil, err
		}
		if err := validateRules(rules); err != nil {
			return nil, err
		}
	}

	holder := &SettlementRulesHolder{}
	holder.current.Store(rules)

	if useDefaults {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated := normalizer.DefaultRules()
		if err := v.UnmarshalKey("reglas", &updated); err != nil {
			log.Printf("[liquidacion-config] reload failed: %v", err)
			return
		}
		if err := validateRules(updated); err != nil {
			log.Printf("[liquidacion-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[liquidacion-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticSettlementRules wraps fixed rules in a holder, bypassing the
// config file. Used by tests and embedded tooling.
func NewStaticSettlementRules(rules normalizer.Rules) *SettlementRulesHolder {
	holder := &SettlementRulesHolder{}
	holder.current.Store(rules)
	return holder
}

func (h *SettlementRulesHolder) Rules() normalizer.Rules {
	return h.current.Load().(normalizer.Rules)
}

func validateRules(r normalizer.Rules) error {
	if len(r.DateFields) == 0 {
		return errors.New("reglas.date_fields cannot be empty")
	}
	if len(r.Slots) == 0 {
		return errors.New("reglas.slots cannot be empty")
	}
	return nil
}
