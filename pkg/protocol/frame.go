package protocol

import (
	"errors"
	"io"
)

// Frame constants.
const (
	// FrameHeaderSize is the size of the frame header in bytes.
	FrameHeaderSize = 6

	// FrameVersion is the envelope version written by this package.
	FrameVersion = 1

	// MaxPayloadSize is the largest payload ReadFrame accepts.
	MaxPayloadSize = HardMaxAllocation
)

// FrameType identifies the payload of a frame.
type FrameType uint8

const (
	FramePatches FrameType = 0x02 // PatchesFrame payload
)

// String returns the string representation of the frame type.
func (ft FrameType) String() string {
	switch ft {
	case FramePatches:
		return "Patches"
	default:
		return "Unknown"
	}
}

// Frame errors.
var (
	ErrFrameTooLarge      = errors.New("protocol: frame payload too large")
	ErrInvalidFrameType   = errors.New("protocol: invalid frame type")
	ErrUnsupportedVersion = errors.New("protocol: unsupported frame version")
)

// Frame is a stored or streamed unit: a typed, versioned, length-prefixed
// payload.
//
// Wire format (6 byte header + payload):
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Version      │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
type Frame struct {
	Type    FrameType
	Payload []byte
}

// NewPatchesFrame wraps an encoded patches frame.
func NewPatchesFrame(pf *PatchesFrame) *Frame {
	return &Frame{Type: FramePatches, Payload: EncodePatches(pf)}
}

// Encode returns the header followed by the payload.
func (f *Frame) Encode() []byte {
	e := NewEncoderWithCap(FrameHeaderSize + len(f.Payload))
	e.WriteByte(byte(f.Type))
	e.WriteByte(FrameVersion)
	e.WriteUint32(uint32(len(f.Payload)))
	e.WriteBytes(f.Payload)
	return e.Bytes()
}

// Patches decodes the payload of a FramePatches frame.
func (f *Frame) Patches() (*PatchesFrame, error) {
	if f.Type != FramePatches {
		return nil, ErrInvalidFrameType
	}
	return DecodePatches(f.Payload)
}

// DecodeFrame decodes one complete frame from data.
func DecodeFrame(data []byte) (*Frame, error) {
	ft, length, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < FrameHeaderSize+length {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, length)
	copy(payload, data[FrameHeaderSize:FrameHeaderSize+length])
	return &Frame{Type: ft, Payload: payload}, nil
}

func decodeHeader(header []byte) (FrameType, int, error) {
	d := NewDecoder(header)
	t, err := d.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	version, err := d.ReadByte()
	if err != nil {
		return 0, 0, err
	}
	length, err := d.ReadUint32()
	if err != nil {
		return 0, 0, err
	}

	ft := FrameType(t)
	if ft != FramePatches {
		return 0, 0, ErrInvalidFrameType
	}
	if version != FrameVersion {
		return 0, 0, ErrUnsupportedVersion
	}
	if length > MaxPayloadSize {
		return 0, 0, ErrFrameTooLarge
	}
	return ft, int(length), nil
}

// ReadFrame reads one frame from r. It returns io.EOF when r is exhausted
// before the header starts.
func ReadFrame(r io.Reader) (*Frame, error) {
	header := make([]byte, FrameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}
	ft, length, err := decodeHeader(header)
	if err != nil {
		return nil, err
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return &Frame{Type: ft, Payload: payload}, nil
}

// WriteFrame writes f to w.
func WriteFrame(w io.Writer, f *Frame) error {
	if len(f.Payload) > MaxPayloadSize {
		return ErrFrameTooLarge
	}
	_, err := w.Write(f.Encode())
	return err
}
