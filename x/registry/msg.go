package registry

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
)

const pathRegisterMsg = "registry/register"

func init() {
	codec.RegisterMsg(&RegisterMsg{}, pathRegisterMsg)
}

// RegisterMsg creates the user record of the signing authority.
type RegisterMsg struct {
	Authority   paystream.Address `json:"authority"`
	DisplayName string            `json:"display_name"`
}

var _ paystream.Msg = (*RegisterMsg)(nil)

func (RegisterMsg) Path() string {
	return pathRegisterMsg
}

// Validate checks the name without the configured length bound, which is
// enforced by the handler.
func (m *RegisterMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", m.Authority.Validate())
	errs = errors.AppendField(errs, "DisplayName", validateName(m.DisplayName, 0))
	return errs
}

func (m *RegisterMsg) Marshal() ([]byte, error) {
	return codec.Marshal(m)
}

func (m *RegisterMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, m)
}
