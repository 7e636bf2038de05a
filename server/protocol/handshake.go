package protocol

import "bytes"

// Handshake is the single handshaking-phase packet: it carries the
// client's declared protocol version and which phase to transition to
// next (1 = status, 2 = login).
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func (*Handshake) ID() int32 { return 0x00 }

func (p *Handshake) Encode(w *bytes.Buffer) error {
	if err := writeVarInt(w, p.ProtocolVersion); err != nil {
		return err
	}
	if err := writeString(w, p.ServerAddress); err != nil {
		return err
	}
	writeUint16(w, p.ServerPort)
	return writeVarInt(w, p.NextState)
}

func decodeHandshake(r *bytes.Reader) (Packet, error) {
	protocolVersion, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	addr, err := readString(r)
	if err != nil {
		return nil, err
	}
	portBytes, err := readN(r, 2)
	if err != nil {
		return nil, err
	}
	port := uint16(portBytes[0])<<8 | uint16(portBytes[1])
	nextState, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	return &Handshake{ProtocolVersion: protocolVersion, ServerAddress: addr, ServerPort: port, NextState: nextState}, nil
}

func init() {
	register(PhaseHandshaking, true, 0x00, decodeHandshake)
}
