package wire

import (
	"io"

	"github.com/pkg/errors"
)

// maxRawPayload bounds the payloads relayed without being interpreted.
const maxRawPayload = 1024 * 1024

// rawPayload holds a payload that is relayed as received.
type rawPayload struct {
	Payload []byte
}

func (p *rawPayload) decode(r io.Reader, fieldName string) error {
	var err error
	p.Payload, err = readRemaining(r, maxRawPayload, fieldName)
	return err
}

func (p *rawPayload) encode(w io.Writer, funcName string) error {
	if len(p.Payload) > maxRawPayload {
		return messageErrorf(funcName, "payload of %d bytes is larger than "+
			"the max allowed size of %d", len(p.Payload), maxRawPayload)
	}
	_, err := w.Write(p.Payload)
	return errors.WithStack(err)
}
