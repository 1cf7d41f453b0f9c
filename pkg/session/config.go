package session

import (
	"github.com/pkg/errors"
	"github.com/scottcagno/hashlab"
	"github.com/scottcagno/hashlab/pkg/common"
	"github.com/scottcagno/hashlab/pkg/hash/hasher"
	"github.com/scottcagno/hashlab/pkg/stats"
)

const (
	DefaultCapacity = 10
	// MaxCapacity keeps a misconfigured client from allocating absurd tables
	MaxCapacity = 1 << 20
)

// Config selects the shape of a session's table
type Config struct {
	Capacity    int             `json:"capacity"`
	Strategy    common.Strategy `json:"strategy"`
	Method      hasher.Method   `json:"hash"`
	HistorySize int             `json:"historySize,omitempty"`
}

var _ hashlab.Config = Config{}

// DefaultConfig is a ten slot linear probing table using the division method
func DefaultConfig() Config {
	return Config{
		Capacity:    DefaultCapacity,
		Strategy:    common.Linear,
		Method:      hasher.Division,
		HistorySize: stats.DefaultHistorySize,
	}
}

// Validate checks every field of the config
func (c Config) Validate() error {
	if err := common.CheckCapacity(c.Capacity); err != nil {
		return err
	}
	if c.Capacity > MaxCapacity {
		return errors.Wrapf(common.ErrInvalidCapacity, "capacity %d exceeds %d", c.Capacity, MaxCapacity)
	}
	if !c.Strategy.Valid() {
		return errors.Wrapf(common.ErrUnknownStrategy, "strategy %d", c.Strategy)
	}
	if !c.Method.Valid() {
		return errors.Wrapf(common.ErrUnknownMethod, "method %d", c.Method)
	}
	return nil
}

// ParseConfig builds a config from its textual parts, as they come from
// flags or the environment
func ParseConfig(capacity int, strategy, method string) (Config, error) {
	conf := DefaultConfig()
	conf.Capacity = capacity
	var err error
	if conf.Strategy, err = common.ParseStrategy(strategy); err != nil {
		return conf, err
	}
	if conf.Method, err = hasher.ParseMethod(method); err != nil {
		return conf, err
	}
	return conf, conf.Validate()
}
