// Package wire frames protobuf messages on a byte stream.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
)

// MaxFrameSize bounds the payload Receive is willing to allocate.
const MaxFrameSize = 64 << 20

var ErrFrameTooLarge = errors.New("frame too large")

// Send writes msg to w wrapped in an Any.
// format is:
//
//	| length (8 bytes) | payload (length bytes) |
func Send(w io.Writer, msg proto.Message) error {
	payload, err := anypb.New(msg)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(payload)
	if err != nil {
		return err
	}
	length := uint64(len(bytes))
	if err := binary.Write(w, binary.BigEndian, length); err != nil {
		return err
	}
	if _, err := w.Write(bytes); err != nil {
		return err
	}
	return nil
}

// Receive reads one frame written by Send and returns the wrapped message.
// The message type must be linked into the binary. io.EOF is returned
// only when the stream ends cleanly between frames.
func Receive(r io.Reader) (proto.Message, error) {
	var length uint64
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, err
	}
	if length > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, length)
	}
	bytes := make([]byte, length)
	if _, err := io.ReadFull(r, bytes); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	payload := &anypb.Any{}
	if err := proto.Unmarshal(bytes, payload); err != nil {
		return nil, err
	}
	return payload.UnmarshalNew()
}
