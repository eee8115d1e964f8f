package registry

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/gconf"
)

const (
	// ConfigName is the gconf package name of the registry settings.
	ConfigName = "registry"

	// DefaultMaxStreams is the number of stream references a record can
	// hold if not configured otherwise.
	DefaultMaxStreams = 8
	// DefaultMaxNameLength is the display name bound in bytes.
	DefaultMaxNameLength = 32

	maxStreamsLimit = 1024
)

// Configuration holds the registry settings.
type Configuration struct {
	// MaxStreams is the capacity given to every newly registered record.
	MaxStreams uint32 `json:"max_streams"`
	// MaxNameLength bounds the display name, in bytes.
	MaxNameLength uint32 `json:"max_name_length"`
}

// DefaultConfiguration returns the settings used when genesis has none.
func DefaultConfiguration() Configuration {
	return Configuration{
		MaxStreams:    DefaultMaxStreams,
		MaxNameLength: DefaultMaxNameLength,
	}
}

func (c *Configuration) Validate() error {
	var errs error
	if c.MaxStreams == 0 || c.MaxStreams > maxStreamsLimit {
		errs = errors.AppendField(errs, "MaxStreams", errors.Wrapf(errors.ErrInvalidInput, "must be in [1, %d]", maxStreamsLimit))
	}
	if c.MaxNameLength == 0 {
		errs = errors.AppendField(errs, "MaxNameLength", errors.ErrEmpty)
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, c)
}

// LoadConfiguration returns the stored settings.
func LoadConfiguration(db paystream.ReadOnlyKVStore) (Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, ConfigName, &conf); err != nil {
		return conf, errors.Wrap(err, "registry configuration")
	}
	return conf, nil
}

// Initializer stores the registry configuration from genesis.
type Initializer struct{}

var _ paystream.Initializer = Initializer{}

// FromGenesis reads conf.registry, falling back to the defaults.
func (Initializer) FromGenesis(opts paystream.Options, kv paystream.KVStore) error {
	conf := DefaultConfiguration()
	return gconf.InitConfig(kv, opts, ConfigName, &conf)
}
