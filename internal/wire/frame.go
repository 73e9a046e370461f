// Package wire implements the framed transport used over every
// point-to-point pipe: a (count, payload, tag) frame written and read
// as three consecutive full-transfer segments, with no inter-frame
// delimiter beyond the length prefix (the channel is single-producer,
// single-consumer, so none is needed).
package wire

import (
	"encoding/binary"
	"errors"
	"io"
	"syscall"
)

// BufferSize bounds how many payload bytes are moved per read/write
// syscall.
const BufferSize = 4096

// ErrRemoteFinished is returned by Read/Write when the peer end of the
// pipe has been closed: EOF on read, EPIPE on write.
var ErrRemoteFinished = errors.New("wire: remote end finished")

// Frame is a single unit exchanged over a point-to-point channel.
type Frame struct {
	Count   uint32
	Payload []byte
	Tag     int32
}

// WriteFull writes every byte of buf to w, retrying once per call on a
// transient non-fatal error (EINTR); any other error, or a second EINTR
// within the same call, is surfaced to the caller.
// A broken pipe is reported as ErrRemoteFinished, never retried.
// Exported for the tree collectives, which exchange raw sync bytes
// and payloads without the (count, tag) frame header.
func WriteFull(w io.Writer, buf []byte) error {
	retried := false
	for len(buf) > 0 {
		n, err := w.Write(buf)
		if n > 0 {
			buf = buf[n:]
		}
		if err != nil {
			if errors.Is(err, syscall.EPIPE) {
				return ErrRemoteFinished
			}
			if errors.Is(err, syscall.EINTR) && !retried {
				retried = true
				continue
			}
			return err
		}
	}
	return nil
}

// ReadFull reads exactly len(buf) bytes, retrying once on EINTR (the
// retry is re-armed after any read that makes progress). EOF is
// reported as ErrRemoteFinished whether or not part of buf was filled.
func ReadFull(r io.Reader, buf []byte) error {
	retried := false
	for len(buf) > 0 {
		n, err := r.Read(buf)
		if n > 0 {
			buf = buf[n:]
			retried = false
		}
		if err != nil {
			if err == io.EOF {
				return ErrRemoteFinished
			}
			if errors.Is(err, syscall.EINTR) && !retried {
				retried = true
				continue
			}
			return err
		}
	}
	return nil
}

// WriteFrame writes count, then payload in chunks of at most
// BufferSize bytes, then tag, in that order. A broken pipe at any
// point (including after only part of the frame has gone out) is
// reported as ErrRemoteFinished; any other write error is returned
// unchanged.
func WriteFrame(w io.Writer, payload []byte, tag int32) error {
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if err := WriteFull(w, header[:]); err != nil {
		return asRemoteFinished(err)
	}

	for sent := 0; sent < len(payload); {
		end := sent + BufferSize
		if end > len(payload) {
			end = len(payload)
		}
		if err := WriteFull(w, payload[sent:end]); err != nil {
			return asRemoteFinished(err)
		}
		sent = end
	}

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], uint32(tag))
	if err := WriteFull(w, trailer[:]); err != nil {
		return asRemoteFinished(err)
	}
	return nil
}

// ReadFrame reads one frame in full: count, then payload in chunks of
// at most BufferSize bytes, then tag. A clean EOF on the very first
// read (no frame in flight) and a broken read mid-frame are both
// reported as ErrRemoteFinished — from the caller's point of view
// both mean "no more frames will ever arrive".
func ReadFrame(r io.Reader) (Frame, error) {
	var header [4]byte
	if err := ReadFull(r, header[:]); err != nil {
		return Frame{}, asRemoteFinished(err)
	}
	count := binary.BigEndian.Uint32(header[:])

	payload := make([]byte, count)
	for received := uint32(0); received < count; {
		end := received + BufferSize
		if end > count {
			end = count
		}
		if err := ReadFull(r, payload[received:end]); err != nil {
			return Frame{}, asRemoteFinished(err)
		}
		received = end
	}

	var trailer [4]byte
	if err := ReadFull(r, trailer[:]); err != nil {
		return Frame{}, asRemoteFinished(err)
	}
	tag := int32(binary.BigEndian.Uint32(trailer[:]))

	return Frame{Count: count, Payload: payload, Tag: tag}, nil
}

func asRemoteFinished(err error) error {
	if errors.Is(err, ErrRemoteFinished) {
		return ErrRemoteFinished
	}
	return err
}
