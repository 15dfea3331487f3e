package gateway

import "errors"

// ErrMalformedEnvelope is returned when an inbound message is missing its type or payload field
var ErrMalformedEnvelope = errors.New("malformed message envelope")

// ErrUnknownMessageType is returned when no handler is registered for a message type
var ErrUnknownMessageType = errors.New("unknown message type")

// ErrUnauthorized is returned when a non-host invokes a host-only message type
var ErrUnauthorized = errors.New("not authorized for this message type")

// ErrMalformedPayload is returned when a handler rejects its payload fields
var ErrMalformedPayload = errors.New("malformed message payload")
