// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// MessageError describes an issue with a message. It is shared with the
// bitcoin messages of btcd so callers can check for one error type no matter
// which message failed to decode.
type MessageError = btcwire.MessageError

// ErrUnsupportedMessage is returned when writing a message whose type is not
// registered in the message table in use.
var ErrUnsupportedMessage = errors.New("unsupported message")

// messageError creates an error for the given function and description.
func messageError(f string, desc string) *MessageError {
	return &MessageError{Func: f, Description: desc}
}

// messageErrorf is like messageError with a formatted description.
func messageErrorf(f string, format string, args ...interface{}) *MessageError {
	return messageError(f, fmt.Sprintf(format, args...))
}
