package gconf

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/paystreamtest/assert"
	"github.com/iov-one/paystream/store"
)

type limits struct {
	Max   uint32 `json:"max"`
	Label string `json:"label"`
}

func (l *limits) Validate() error {
	if l.Max == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "max")
	}
	return nil
}

func (l *limits) Marshal() ([]byte, error)   { return codec.Marshal(l) }
func (l *limits) Unmarshal(raw []byte) error { return codec.Unmarshal(raw, l) }

func TestSaveLoad(t *testing.T) {
	cases := map[string]struct {
		Conf        *limits
		WantSaveErr *errors.Error
		WantLoadErr *errors.Error
	}{
		"valid": {
			Conf: &limits{Max: 8, Label: "streams"},
		},
		"invalid cannot be saved": {
			Conf:        &limits{Label: "zero"},
			WantSaveErr: errors.ErrInvalidInput,
			WantLoadErr: errors.ErrNotFound,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			if err := Save(db, "registry", tc.Conf); !tc.WantSaveErr.Is(err) {
				t.Fatalf("unexpected save error: %s", err)
			}
			var got limits
			if err := Load(db, "registry", &got); !tc.WantLoadErr.Is(err) {
				t.Fatalf("unexpected load error: %s", err)
			}
			if tc.WantLoadErr == nil {
				assert.Equal(t, *tc.Conf, got)
			}
		})
	}
}

func TestInitConfig(t *testing.T) {
	var opts paystream.Options
	raw := `{"conf": {"registry": {"max": 3, "label": "from genesis"}}}`
	assert.Nil(t, json.Unmarshal([]byte(raw), &opts))

	db := store.MemStore()
	conf := limits{Max: 8}
	assert.Nil(t, InitConfig(db, opts, "registry", &conf))

	var got limits
	assert.Nil(t, Load(db, "registry", &got))
	assert.Equal(t, limits{Max: 3, Label: "from genesis"}, got)

	// missing section keeps the defaults
	other := limits{Max: 8, Label: "default"}
	assert.Nil(t, InitConfig(db, opts, "stream", &other))
	assert.Nil(t, Load(db, "stream", &got))
	assert.Equal(t, limits{Max: 8, Label: "default"}, got)

	bad := `{"conf": {"registry": {"max": "many"}}}`
	assert.Nil(t, json.Unmarshal([]byte(bad), &opts))
	err := InitConfig(db, opts, "registry", &limits{})
	assert.IsErr(t, errors.ErrInvalidInput, err)
}
