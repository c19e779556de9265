package bridge

import (
	"context"

	"haircast-core/internal/inference"
	"haircast-core/internal/session"
)

// ChannelProvider opens and closes per-session inference channels.
// The bridge depends on this instead of the concrete client so tests
// can substitute a double.
type ChannelProvider interface {
	OpenChannel(ctx context.Context, sessionID string) (session.ChannelHandle, error)
	CloseChannel(sessionID string)
}

type inferenceProvider struct {
	client *inference.Client
}

// NewInferenceProvider adapts the inference client to ChannelProvider.
func NewInferenceProvider(client *inference.Client) ChannelProvider {
	return &inferenceProvider{client: client}
}

func (p *inferenceProvider) OpenChannel(ctx context.Context, sessionID string) (session.ChannelHandle, error) {
	return p.client.OpenChannel(ctx, sessionID)
}

func (p *inferenceProvider) CloseChannel(sessionID string) {
	p.client.CloseChannel(sessionID)
}
