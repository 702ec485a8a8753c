package service

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/metinatakli/payment-orchestrator/internal/domain"
)

// ReferenceGenerator issues reference seeds whose millisecond timestamps are
// strictly increasing within the process.
type ReferenceGenerator struct {
	mu     sync.Mutex
	lastMs int64
	now    func() time.Time
	random io.Reader
}

func NewReferenceGenerator() *ReferenceGenerator {
	return &ReferenceGenerator{
		now:    time.Now,
		random: rand.Reader,
	}
}

func (g *ReferenceGenerator) Next(bookingID string) (domain.ReferenceSeed, error) {
	var buf [4]byte

	_, err := io.ReadFull(g.random, buf[:])
	if err != nil {
		return domain.ReferenceSeed{}, fmt.Errorf("read random suffix: %w", err)
	}

	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.lastMs {
		ms = g.lastMs + 1
	}
	g.lastMs = ms
	g.mu.Unlock()

	return domain.ReferenceSeed{
		BookingID: bookingID,
		Timestamp: time.UnixMilli(ms),
		Random:    binary.BigEndian.Uint32(buf[:]),
	}, nil
}
