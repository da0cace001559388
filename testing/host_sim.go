package testing

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/moshbrosh/frame"
)

// FrameSink accepts raw frames by index, the submission half of a host engine.
type FrameSink interface {
	SubmitFrame(index int, buf *frame.Buffer) error
}

// DeliveryRecord represents a frame delivery event for test verification.
type DeliveryRecord struct {
	Index     int
	Timestamp int64
	Success   bool
	Error     error
}

// SimulatedHost replays a decoded frame sequence the way a host renderer does:
// in arbitrary order and optionally from several goroutines at once.
type SimulatedHost struct {
	frames      []*frame.Buffer
	deliveryLog []DeliveryRecord
	rng         *rand.Rand
	mu          sync.Mutex
}

// NewSimulatedHost creates a host over frames. The seed makes shuffles reproducible.
func NewSimulatedHost(frames []*frame.Buffer, seed int64) *SimulatedHost {
	logrus.WithFields(logrus.Fields{
		"function": "NewSimulatedHost",
		"frames":   len(frames),
		"seed":     seed,
	}).Debug("Creating simulated host")

	return &SimulatedHost{
		frames:      frames,
		deliveryLog: make([]DeliveryRecord, 0, len(frames)),
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Frames returns the underlying sequence.
func (h *SimulatedHost) Frames() []*frame.Buffer {
	return h.frames
}

// SequentialOrder returns 0..n-1.
func (h *SimulatedHost) SequentialOrder() []int {
	order := make([]int, len(h.frames))
	for i := range order {
		order[i] = i
	}
	return order
}

// ShuffledOrder returns a random permutation of the frame indices.
func (h *SimulatedHost) ShuffledOrder() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rng.Perm(len(h.frames))
}

// ReversedOrder returns n-1..0.
func (h *SimulatedHost) ReversedOrder() []int {
	order := h.SequentialOrder()
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// Deliver submits frames to sink one at a time in the given order.
// It stops at the first failed submission.
func (h *SimulatedHost) Deliver(sink FrameSink, order []int) error {
	for _, idx := range order {
		if err := h.deliverOne(sink, idx); err != nil {
			return err
		}
	}
	return nil
}

// DeliverConcurrently submits frames from workers goroutines. Every index is
// attempted; the first error encountered is returned.
func (h *SimulatedHost) DeliverConcurrently(sink FrameSink, order []int, workers int) error {
	if workers <= 0 {
		workers = 1
	}
	jobs := make(chan int)
	errs := make(chan error, len(order))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if err := h.deliverOne(sink, idx); err != nil {
					errs <- err
				}
			}
		}()
	}
	for _, idx := range order {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	close(errs)

	return <-errs
}

func (h *SimulatedHost) deliverOne(sink FrameSink, idx int) error {
	if idx < 0 || idx >= len(h.frames) {
		err := fmt.Errorf("frame %d not in simulated sequence of %d", idx, len(h.frames))
		h.record(DeliveryRecord{Index: idx, Timestamp: time.Now().UnixNano(), Error: err})
		return err
	}
	err := sink.SubmitFrame(idx, h.frames[idx])
	h.record(DeliveryRecord{Index: idx, Timestamp: time.Now().UnixNano(), Success: err == nil, Error: err})
	return err
}

func (h *SimulatedHost) record(r DeliveryRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliveryLog = append(h.deliveryLog, r)
}

// GetDeliveryLog returns a copy of the delivery log.
func (h *SimulatedHost) GetDeliveryLog() []DeliveryRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]DeliveryRecord(nil), h.deliveryLog...)
}

// ClearDeliveryLog resets the delivery log.
func (h *SimulatedHost) ClearDeliveryLog() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.deliveryLog = h.deliveryLog[:0]
}
