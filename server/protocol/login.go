package protocol

import (
	"bytes"

	"github.com/google/uuid"
)

// LoginStart is the first login-phase packet: the client's chosen
// display name. Hollow runs in offline mode (spec.md §1 excludes
// authentication), so no further login packets are required.
type LoginStart struct{ Name string }

func (*LoginStart) ID() int32 { return 0x00 }
func (p *LoginStart) Encode(w *bytes.Buffer) error {
	return writeString(w, p.Name)
}
func decodeLoginStart(r *bytes.Reader) (Packet, error) {
	name, err := readString(r)
	return &LoginStart{Name: name}, err
}

// LoginSuccess completes login and transitions the session to play.
type LoginSuccess struct {
	UUID     uuid.UUID
	Username string
}

func (*LoginSuccess) ID() int32 { return 0x02 }
func (p *LoginSuccess) Encode(w *bytes.Buffer) error {
	writeUUID(w, p.UUID)
	return writeString(w, p.Username)
}
func decodeLoginSuccess(r *bytes.Reader) (Packet, error) {
	id, err := readUUID(r)
	if err != nil {
		return nil, err
	}
	name, err := readString(r)
	return &LoginSuccess{UUID: id, Username: name}, err
}

func init() {
	register(PhaseLogin, true, 0x00, decodeLoginStart)
	register(PhaseLogin, false, 0x02, decodeLoginSuccess)
}
