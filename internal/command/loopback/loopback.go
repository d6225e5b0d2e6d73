// Package loopback is an in-memory bus driver. Frames written to it are kept in
// a write log and frames can be injected as if received from a bus. It backs
// bench runs without hardware and the car tests.
package loopback

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Speshl/gorrc_subaru/internal/models"
	"github.com/Speshl/gorrc_subaru/internal/vehicle"
	"github.com/brutella/can"
)

const DefaultRxBuffer = 1024

type WriteRecord struct {
	vehicle.BusFrame
	Timestamp time.Time
}

type CommandDriver struct {
	lock     sync.Mutex
	running  bool
	rx       map[int]chan can.Frame
	writeLog []WriteRecord
}

func NewCommand(rxBuffer int) *CommandDriver {
	if rxBuffer <= 0 {
		rxBuffer = DefaultRxBuffer
	}
	return &CommandDriver{
		rx: map[int]chan can.Frame{
			models.BusPT:  make(chan can.Frame, rxBuffer),
			models.BusAlt: make(chan can.Frame, rxBuffer),
			models.BusCam: make(chan can.Frame, rxBuffer),
		},
	}
}

func (c *CommandDriver) Init() error {
	log.Println("loopback bus initialized")
	return nil
}

func (c *CommandDriver) Start(ctx context.Context) error {
	c.lock.Lock()
	c.running = true
	c.lock.Unlock()

	<-ctx.Done()
	return ctx.Err()
}

func (c *CommandDriver) Stop() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.running = false
	return nil
}

func (c *CommandDriver) Set(frame vehicle.BusFrame) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if _, ok := c.rx[frame.Bus]; !ok {
		return fmt.Errorf("loopback has no bus %d", frame.Bus)
	}
	c.writeLog = append(c.writeLog, WriteRecord{BusFrame: frame, Timestamp: time.Now()})
	return nil
}

func (c *CommandDriver) SetMany(frames []vehicle.BusFrame) error {
	for i := range frames {
		err := c.Set(frames[i])
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandDriver) RxChan(bus int) <-chan can.Frame {
	return c.rx[bus]
}

// Inject queues a frame as received on bus.
func (c *CommandDriver) Inject(bus int, frame can.Frame) error {
	rx, ok := c.rx[bus]
	if !ok {
		return fmt.Errorf("loopback has no bus %d", bus)
	}
	select {
	case rx <- frame:
		return nil
	default:
		return fmt.Errorf("loopback bus %d rx buffer full", bus)
	}
}

func (c *CommandDriver) WriteLog() []WriteRecord {
	c.lock.Lock()
	defer c.lock.Unlock()
	records := make([]WriteRecord, len(c.writeLog))
	copy(records, c.writeLog)
	return records
}

func (c *CommandDriver) ClearWriteLog() {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.writeLog = nil
}
