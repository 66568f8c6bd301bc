package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestSendReceiveStream(t *testing.T) {
	var buf bytes.Buffer
	st, err := structpb.NewStruct(map[string]any{"A": map[string]any{"a.txt": 2}})
	if err != nil {
		t.Fatal(err)
	}
	msgs := []proto.Message{st, durationpb.New(1500 * time.Millisecond)}
	for _, m := range msgs {
		if err := Send(&buf, m); err != nil {
			t.Fatal(err)
		}
	}
	for i, want := range msgs {
		got, err := Receive(&buf)
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if !proto.Equal(got, want) {
			t.Errorf("frame %d: got %v, want %v", i, got, want)
		}
	}
	if _, err := Receive(&buf); err != io.EOF {
		t.Errorf("end of stream: got %v, want io.EOF", err)
	}
}

func TestReceiveTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Send(&buf, durationpb.New(time.Second)); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-1]
	if _, err := Receive(bytes.NewReader(truncated)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("got %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestReceiveFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint64(MaxFrameSize+1))
	if _, err := Receive(&buf); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("got %v, want ErrFrameTooLarge", err)
	}
}
