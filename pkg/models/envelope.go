// Package models holds the wire types of the API facade: the operation
// envelope carried over HTTP, the control messages of the subscription
// transport, and the result and input shapes of every operation.
package models

import "encoding/json"

// OperationRequest is the JSON envelope accepted on the query endpoint
// and inside subscribe control messages.
type OperationRequest struct {
	Query         string                     `json:"query"`
	OperationName string                     `json:"operationName,omitempty"`
	Variables     map[string]json.RawMessage `json:"variables,omitempty"`
}

// OperationResponse is the JSON envelope returned for every query and
// mutation. Data maps the root field name to its result.
type OperationResponse struct {
	Data   map[string]interface{} `json:"data,omitempty"`
	Errors []OperationError       `json:"errors,omitempty"`
}

// OperationError is one wire-level error. Extensions carry the stable
// error code plus structured detail.
type OperationError struct {
	Message    string                 `json:"message"`
	Path       []string               `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Control message types of the subscription transport.
const (
	MsgConnectionInit = "connection_init"
	MsgConnectionAck  = "connection_ack"
	MsgSubscribe      = "subscribe"
	MsgNext           = "next"
	MsgError          = "error"
	MsgComplete       = "complete"
	MsgPing           = "ping"
	MsgPong           = "pong"
)

// WSMessage is one control message on the subscription transport. ID
// scopes subscribe/next/error/complete to a client-chosen stream.
type WSMessage struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NextPayload is the payload of a next message.
type NextPayload struct {
	Data map[string]interface{} `json:"data"`
}
