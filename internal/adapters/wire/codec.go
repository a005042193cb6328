package wire

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
)

// writeMessage marshals v to XML and writes it terminated by a single NUL
// byte, the framing the protocol uses in place of length-prefixing.
func writeMessage(w io.Writer, v any) error {
	body, err := xml.Marshal(v)
	if err != nil {
		return fmt.Errorf("wire: marshal message: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wire: write message: %w", err)
	}
	_, err = w.Write([]byte{0})
	return err
}

// readMessage reads up to the next NUL byte and unmarshals it into v.
func readMessage(r *bufio.Reader, v any) error {
	raw, err := r.ReadBytes(0)
	if err != nil {
		return fmt.Errorf("wire: read message: %w", err)
	}
	raw = raw[:len(raw)-1] // drop the trailing NUL
	if err := xml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("wire: unmarshal message: %w", err)
	}
	return nil
}

// decodeXML unmarshals an already-read, NUL-stripped message body into v.
func decodeXML(raw []byte, v any) error {
	if err := xml.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("wire: unmarshal message: %w", err)
	}
	return nil
}

// peekType parses one already-read message body (raw, NUL delimiter removed)
// and reports its <message type="..."> attribute, so the caller can dispatch
// to the right concrete struct before doing the real decode.
func peekType(raw []byte) (string, error) {
	var probe struct {
		Type string `xml:"type,attr"`
	}
	if err := xml.Unmarshal(raw, &probe); err != nil {
		return "", fmt.Errorf("wire: peek message type: %w", err)
	}
	return probe.Type, nil
}

