package protocol

import "bytes"

// StatusRequest has no fields; it asks the server for a StatusResponse.
type StatusRequest struct{}

func (*StatusRequest) ID() int32                    { return 0x00 }
func (*StatusRequest) Encode(*bytes.Buffer) error    { return nil }
func decodeStatusRequest(*bytes.Reader) (Packet, error) { return &StatusRequest{}, nil }

// PingRequest carries an opaque payload the server must echo back
// unchanged in a PingResponse.
type PingRequest struct{ Payload int64 }

func (*PingRequest) ID() int32 { return 0x01 }
func (p *PingRequest) Encode(w *bytes.Buffer) error {
	writeInt64(w, p.Payload)
	return nil
}
func decodePingRequest(r *bytes.Reader) (Packet, error) {
	v, err := readInt64(r)
	return &PingRequest{Payload: v}, err
}

// StatusResponse carries the server's status JSON, per spec.md §6.
type StatusResponse struct{ JSON string }

func (*StatusResponse) ID() int32 { return 0x00 }
func (p *StatusResponse) Encode(w *bytes.Buffer) error {
	return writeString(w, p.JSON)
}
func decodeStatusResponse(r *bytes.Reader) (Packet, error) {
	s, err := readString(r)
	return &StatusResponse{JSON: s}, err
}

// PingResponse echoes a PingRequest's payload verbatim.
type PingResponse struct{ Payload int64 }

func (*PingResponse) ID() int32 { return 0x01 }
func (p *PingResponse) Encode(w *bytes.Buffer) error {
	writeInt64(w, p.Payload)
	return nil
}
func decodePingResponse(r *bytes.Reader) (Packet, error) {
	v, err := readInt64(r)
	return &PingResponse{Payload: v}, err
}

func init() {
	register(PhaseStatus, true, 0x00, decodeStatusRequest)
	register(PhaseStatus, true, 0x01, decodePingRequest)
	register(PhaseStatus, false, 0x00, decodeStatusResponse)
	register(PhaseStatus, false, 0x01, decodePingResponse)
}

// StatusJSON is the status-response document shape spec.md §6 specifies:
// version{name, protocol}, players{max, online}, description{text}, and
// an optional base64 favicon data URL. server/config renders this from
// the server's JSONC-authored status descriptor template.
type StatusJSON struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int    `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Favicon string `json:"favicon,omitempty"`
}
