package livesync

import (
	"context"
	"io"
	"sync"
)

// Channel is one end of an asynchronous duplex link between two surfaces.
// Delivery is at most once and carries no acknowledgement.
//
// Receive returns io.EOF once the peer is gone. Errors for which IsNoOp is
// true concern a single message; the channel stays usable.
type Channel interface {
	Send(ctx context.Context, msg Message) error
	Receive(ctx context.Context) (Message, error)
	Close() error
}

const pipeBuffer = 64

type pipeEnd struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	once *sync.Once
}

// NewPipe returns two connected in-memory channel ends. Messages are
// serialised on the way through so neither side can observe the other's
// memory. Closing either end closes both.
func NewPipe() (Channel, Channel) {
	aToB := make(chan []byte, pipeBuffer)
	bToA := make(chan []byte, pipeBuffer)
	done := make(chan struct{})
	once := &sync.Once{}

	a := &pipeEnd{in: bToA, out: aToB, done: done, once: once}
	b := &pipeEnd{in: aToB, out: bToA, done: done, once: once}
	return a, b
}

func (p *pipeEnd) Send(ctx context.Context, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	return p.sendRaw(ctx, data)
}

func (p *pipeEnd) sendRaw(ctx context.Context, data []byte) error {
	select {
	case <-p.done:
		return ErrClosed
	default:
	}
	select {
	case p.out <- data:
		return nil
	case <-p.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *pipeEnd) Receive(ctx context.Context) (Message, error) {
	select {
	case data := <-p.in:
		return Decode(data)
	case <-p.done:
		return Message{}, io.EOF
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (p *pipeEnd) Close() error {
	p.once.Do(func() { close(p.done) })
	return nil
}
