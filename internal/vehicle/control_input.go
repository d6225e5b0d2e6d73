package vehicle

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/models"
)

const DefaultRequestTimeout = 200 * time.Millisecond

// ControlInput collects control requests from the planning side and hands the
// latest one to the control loop. A request older than the timeout is reported
// as a disengaged request.
type ControlInput struct {
	lock           sync.RWMutex
	requestChannel chan models.ControlRequest
	timeout        time.Duration
	now            func() time.Time

	active      bool
	nextRequest models.ControlRequest
	lastUpdate  time.Time
}

func NewControlInput(requestChannel chan models.ControlRequest, timeout time.Duration) *ControlInput {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &ControlInput{
		requestChannel: requestChannel,
		timeout:        timeout,
		now:            time.Now,
	}
}

func (c *ControlInput) Start(ctx context.Context) error {
	log.Println("starting control input")

	safetyTicker := time.NewTicker(c.timeout)
	defer safetyTicker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("stopping control input: %s\n", ctx.Err().Error())
			return ctx.Err()
		case <-safetyTicker.C:
			c.expire()
		case request, ok := <-c.requestChannel:
			if !ok {
				return fmt.Errorf("control request channel closed")
			}
			c.Submit(request)
		}
	}
}

// Submit records a request, dropping it if it is older than the one already held.
func (c *ControlInput) Submit(request models.ControlRequest) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if request.TimeStamp.IsZero() {
		request.TimeStamp = c.now()
	}
	if c.active && request.TimeStamp.Before(c.nextRequest.TimeStamp) {
		return
	}
	c.nextRequest = request
	c.lastUpdate = c.now()
	c.active = true
}

func (c *ControlInput) expire() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.active && c.now().Sub(c.lastUpdate) > c.timeout {
		log.Println("control request timed out, disengaging")
		c.active = false
	}
}

// Latest returns the request to apply this cycle.
func (c *ControlInput) Latest() models.ControlRequest {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if !c.active || c.now().Sub(c.lastUpdate) > c.timeout {
		return models.ControlRequest{}
	}
	return c.nextRequest
}
