package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// OrderingConfig holds the operator-tunable knobs of the order pipeline.
type OrderingConfig struct {
	Voucher   VoucherPolicy   `mapstructure:"voucher"`
	Sequencer SequencerPolicy `mapstructure:"sequencer"`
	Tenant    TenantPolicy    `mapstructure:"tenant"`
}

type VoucherPolicy struct {
	// RejectInvalid fails the whole order on a bad voucher code instead of
	// continuing with zero discount.
	RejectInvalid bool `mapstructure:"rejectInvalid"`
}

type SequencerPolicy struct {
	// LockTimeout bounds the wait for the invoice counter row lock (postgres only).
	LockTimeout time.Duration `mapstructure:"lockTimeout"`
}

type TenantPolicy struct {
	// TaxConfigCacheTTL caches tenant tax settings in-process. Zero disables caching.
	TaxConfigCacheTTL time.Duration `mapstructure:"taxConfigCacheTTL"`
}

func DefaultOrderingConfig() OrderingConfig {
	return OrderingConfig{
		Voucher:   VoucherPolicy{RejectInvalid: false},
		Sequencer: SequencerPolicy{LockTimeout: 5 * time.Second},
		Tenant:    TenantPolicy{TaxConfigCacheTTL: 30 * time.Second},
	}
}

type OrderingConfigHolder struct {
	current atomic.Value // holds OrderingConfig
}

// NewStaticOrderingConfig returns a holder that never reloads.
func NewStaticOrderingConfig(cfg OrderingConfig) *OrderingConfigHolder {
	holder := &OrderingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func NewOrderingConfigHolder() (*OrderingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("ordering")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/restro")
	v.AddConfigPath(".")

	v.SetEnvPrefix("RESTRO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultOrderingConfig()
	v.SetDefault("ordering.voucher.rejectInvalid", defaults.Voucher.RejectInvalid)
	v.SetDefault("ordering.sequencer.lockTimeout", defaults.Sequencer.LockTimeout)
	v.SetDefault("ordering.tenant.taxConfigCacheTTL", defaults.Tenant.TaxConfigCacheTTL)

	fileFound := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		fileFound = false
	}

	var cfg OrderingConfig
	if err := v.UnmarshalKey("ordering", &cfg); err != nil {
		return nil, err
	}
	if err := validateOrderingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticOrderingConfig(cfg)
	if !fileFound {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated OrderingConfig
		if err := v.UnmarshalKey("ordering", &updated); err != nil {
			log.Printf("[ordering-config] reload failed: %v", err)
			return
		}
		if err := validateOrderingConfig(updated); err != nil {
			log.Printf("[ordering-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[ordering-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *OrderingConfigHolder) Get() OrderingConfig {
	if h == nil {
		return DefaultOrderingConfig()
	}
	return h.current.Load().(OrderingConfig)
}

func validateOrderingConfig(cfg OrderingConfig) error {
	if cfg.Sequencer.LockTimeout < 0 {
		return errors.New("ordering.sequencer.lockTimeout cannot be negative")
	}
	if cfg.Tenant.TaxConfigCacheTTL < 0 {
		return errors.New("ordering.tenant.taxConfigCacheTTL cannot be negative")
	}
	return nil
}
