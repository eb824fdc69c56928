package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/desktopkit/internal/event"
)

// MaxRecordSize bounds a single framed record
const MaxRecordSize = 16 << 20

// ErrRecordTooLarge is returned when a frame header announces more than MaxRecordSize bytes
var ErrRecordTooLarge = errors.New("record too large")

// WriteRecord writes one record prefixed with its length (4 bytes, big endian)
func WriteRecord(w io.Writer, record []byte) error {
	if len(record) > MaxRecordSize {
		return fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, len(record))
	}
	if err := binary.Write(w, binary.BigEndian, uint32(len(record))); err != nil {
		return fmt.Errorf("failed to write record length: %w", err)
	}
	if _, err := w.Write(record); err != nil {
		return fmt.Errorf("failed to write record data: %w", err)
	}
	return nil
}

// ReadRecord reads one length-prefixed record. It returns io.EOF only when the
// stream ends cleanly between records.
func ReadRecord(r io.Reader) ([]byte, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read record length: %w", err)
	}
	if length > MaxRecordSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read record data: %w", err)
	}
	return data, nil
}

// WriteEvent encodes e and writes it as one frame
func WriteEvent(w io.Writer, e event.Event) error {
	rec, err := Encode(e)
	if err != nil {
		return err
	}
	return WriteRecord(w, rec)
}

// ReadEvent reads and decodes one frame
func ReadEvent(r io.Reader) (event.Event, error) {
	rec, err := ReadRecord(r)
	if err != nil {
		return nil, err
	}
	return Decode(rec)
}
