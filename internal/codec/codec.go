// Package codec transforms frames between the client JSON wire format
// and the internal Frame representation. It is pure and stateless.
package codec

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"

	"haircast-core/internal/errors"
)

// MessageType discriminates the wire envelope.
type MessageType string

// The closed set of wire message types.
const (
	TypeVideoFrame            MessageType = "video_frame"
	TypePing                  MessageType = "ping"
	TypeConnectionEstablished MessageType = "connection_established"
	TypeProcessedFrame        MessageType = "processed_frame"
	TypePong                  MessageType = "pong"
	TypeError                 MessageType = "error"
)

// Frame is one unit of image data plus metadata, in either direction.
// Payload holds raw image bytes; base64 only exists on the wire.
type Frame struct {
	SessionID string
	Payload   []byte
	Format    string
	Timestamp int64
	Metadata  map[string]string
}

// Message is the decoded form of a wire envelope. The variant set is
// closed; consumers dispatch with a type switch.
type Message interface {
	messageType() MessageType
}

// VideoFrameMessage carries an inbound client frame.
type VideoFrameMessage struct {
	Frame *Frame
}

// PingMessage carries a client latency probe.
type PingMessage struct {
	Timestamp int64
}

// ConnectionEstablishedMessage announces a new session to the client.
type ConnectionEstablishedMessage struct {
	SessionID string
	Timestamp int64
}

// ProcessedFrameMessage carries a processed frame back to the client.
type ProcessedFrameMessage struct {
	Frame *Frame
}

// PongMessage echoes a ping timestamp.
type PongMessage struct {
	Timestamp int64
}

// ErrorMessage reports a terminal session error to the client.
type ErrorMessage struct {
	Code      string
	Message   string
	Timestamp int64
}

func (VideoFrameMessage) messageType() MessageType            { return TypeVideoFrame }
func (PingMessage) messageType() MessageType                  { return TypePing }
func (ConnectionEstablishedMessage) messageType() MessageType { return TypeConnectionEstablished }
func (ProcessedFrameMessage) messageType() MessageType        { return TypeProcessedFrame }
func (PongMessage) messageType() MessageType                  { return TypePong }
func (ErrorMessage) messageType() MessageType                 { return TypeError }

type envelope struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data"`
}

type videoFrameData struct {
	SessionID    string            `json:"sessionId,omitempty"`
	FrameData    string            `json:"frameData"`
	Format       string            `json:"format"`
	Timestamp    int64             `json:"timestamp"`
	Width        int               `json:"width,omitempty"`
	Height       int               `json:"height,omitempty"`
	CameraFacing string            `json:"cameraFacing,omitempty"`
	Quality      string            `json:"quality,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

type timestampData struct {
	Timestamp int64 `json:"timestamp"`
}

type connectionEstablishedData struct {
	SessionID string `json:"sessionId"`
	Timestamp int64  `json:"timestamp"`
}

type processedFrameData struct {
	SessionID string            `json:"sessionId"`
	FrameData string            `json:"frameData"`
	Format    string            `json:"format"`
	Timestamp int64             `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type errorData struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// Decode parses a wire envelope into its Message variant. Unknown
// types, missing required fields, and invalid base64 all yield a
// MalformedFrame error.
func Decode(raw []byte) (Message, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, errors.WrapMalformedFrame("invalid JSON envelope", err)
	}

	switch env.Type {
	case TypeVideoFrame:
		return decodeVideoFrame(env.Data)
	case TypePing:
		var d timestampData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, errors.WrapMalformedFrame("invalid ping data", err)
		}
		return PingMessage{Timestamp: d.Timestamp}, nil
	case TypeConnectionEstablished:
		var d connectionEstablishedData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, errors.WrapMalformedFrame("invalid connection_established data", err)
		}
		return ConnectionEstablishedMessage{SessionID: d.SessionID, Timestamp: d.Timestamp}, nil
	case TypeProcessedFrame:
		return decodeProcessedFrame(env.Data)
	case TypePong:
		var d timestampData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, errors.WrapMalformedFrame("invalid pong data", err)
		}
		return PongMessage{Timestamp: d.Timestamp}, nil
	case TypeError:
		var d errorData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return nil, errors.WrapMalformedFrame("invalid error data", err)
		}
		return ErrorMessage{Code: d.Code, Message: d.Message, Timestamp: d.Timestamp}, nil
	default:
		return nil, errors.WrapMalformedFrame(fmt.Sprintf("unknown message type %q", env.Type), nil)
	}
}

func decodeVideoFrame(data json.RawMessage) (Message, error) {
	var d videoFrameData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.WrapMalformedFrame("invalid video_frame data", err)
	}
	if d.FrameData == "" {
		return nil, errors.WrapMalformedFrame("missing frameData", nil)
	}
	if d.Format == "" {
		return nil, errors.WrapMalformedFrame("missing format", nil)
	}
	payload, err := base64.StdEncoding.DecodeString(d.FrameData)
	if err != nil {
		return nil, errors.WrapMalformedFrame("invalid base64 payload", err)
	}

	meta := make(map[string]string, len(d.Metadata)+4)
	for k, v := range d.Metadata {
		meta[k] = v
	}
	if d.Width > 0 {
		meta["width"] = strconv.Itoa(d.Width)
	}
	if d.Height > 0 {
		meta["height"] = strconv.Itoa(d.Height)
	}
	if d.CameraFacing != "" {
		meta["cameraFacing"] = d.CameraFacing
	}
	if d.Quality != "" {
		meta["quality"] = d.Quality
	}

	return VideoFrameMessage{Frame: &Frame{
		SessionID: d.SessionID,
		Payload:   payload,
		Format:    d.Format,
		Timestamp: d.Timestamp,
		Metadata:  meta,
	}}, nil
}

func decodeProcessedFrame(data json.RawMessage) (Message, error) {
	var d processedFrameData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.WrapMalformedFrame("invalid processed_frame data", err)
	}
	if d.SessionID == "" {
		return nil, errors.WrapMalformedFrame("missing sessionId", nil)
	}
	if d.FrameData == "" {
		return nil, errors.WrapMalformedFrame("missing frameData", nil)
	}
	if d.Format == "" {
		return nil, errors.WrapMalformedFrame("missing format", nil)
	}
	payload, err := base64.StdEncoding.DecodeString(d.FrameData)
	if err != nil {
		return nil, errors.WrapMalformedFrame("invalid base64 payload", err)
	}
	return ProcessedFrameMessage{Frame: &Frame{
		SessionID: d.SessionID,
		Payload:   payload,
		Format:    d.Format,
		Timestamp: d.Timestamp,
		Metadata:  d.Metadata,
	}}, nil
}

// Encode serializes a Message variant back into a wire envelope.
func Encode(msg Message) ([]byte, error) {
	var data any
	switch m := msg.(type) {
	case VideoFrameMessage:
		if m.Frame == nil {
			return nil, errors.NewFrameError(string(TypeVideoFrame), "nil frame", nil)
		}
		data = videoFrameData{
			SessionID: m.Frame.SessionID,
			FrameData: base64.StdEncoding.EncodeToString(m.Frame.Payload),
			Format:    m.Frame.Format,
			Timestamp: m.Frame.Timestamp,
			Metadata:  m.Frame.Metadata,
		}
	case PingMessage:
		data = timestampData{Timestamp: m.Timestamp}
	case ConnectionEstablishedMessage:
		data = connectionEstablishedData{SessionID: m.SessionID, Timestamp: m.Timestamp}
	case ProcessedFrameMessage:
		if m.Frame == nil {
			return nil, errors.NewFrameError(string(TypeProcessedFrame), "nil frame", nil)
		}
		data = processedFrameData{
			SessionID: m.Frame.SessionID,
			FrameData: base64.StdEncoding.EncodeToString(m.Frame.Payload),
			Format:    m.Frame.Format,
			Timestamp: m.Frame.Timestamp,
			Metadata:  m.Frame.Metadata,
		}
	case PongMessage:
		data = timestampData{Timestamp: m.Timestamp}
	case ErrorMessage:
		data = errorData{Code: m.Code, Message: m.Message, Timestamp: m.Timestamp}
	default:
		return nil, errors.NewFrameError("unknown", fmt.Sprintf("unsupported message variant %T", msg), nil)
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.NewFrameError(string(msg.messageType()), "marshal data", err)
	}
	return json.Marshal(envelope{Type: msg.messageType(), Data: raw})
}
