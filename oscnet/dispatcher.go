package oscnet

import (
	"net"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"

	"github.com/oscwire/go-osc/internal/logger"
	"github.com/oscwire/go-osc/osc"
)

// Method is an interface for OSC Methods.
type Method interface {
	HandleMessage(msg *osc.Message)
}

// MethodFunc implements the Method interface. Type definition for an OSC Method function.
type MethodFunc func(msg *osc.Message)

// HandleMessage calls itself with the given OSC Message. Implements the Method interface.
func (f MethodFunc) HandleMessage(msg *osc.Message) {
	f(msg)
}

// Dispatcher routes received packets to the Methods whose address matches the
// message's address pattern. Each method address is a topic on an event bus.
//
// Matching methods run concurrently on the bus's async workers and Dispatch
// waits for all of them, so a method may itself call Dispatch or AddMethod.
// A panicking method is logged and does not affect the others.
//
// Bundle elements are dispatched in order. A bundle whose timetag lies in the
// future is held back with time.AfterFunc; immediate and late bundles are
// dispatched before Dispatch returns.
type Dispatcher struct {
	Log *logger.Logger

	once    sync.Once
	mu      sync.RWMutex
	bus     EventBus.Bus
	methods map[string]struct{}
}

// delivery is the single bus argument for one Dispatch of a message; done
// counts the methods still running.
type delivery struct {
	msg  *osc.Message
	from net.Addr
	done sync.WaitGroup
}

// NewDispatcher returns a Dispatcher that logs recovered panics to log.
func NewDispatcher(log *logger.Logger) *Dispatcher {
	return &Dispatcher{Log: log}
}

func (d *Dispatcher) init() {
	d.once.Do(func() {
		d.bus = EventBus.New()
		d.methods = make(map[string]struct{})
		if d.Log == nil {
			d.Log = logger.NewNop()
		}
	})
}

// AddMethod adds a new OSC Method for the given OSC Address.
func (d *Dispatcher) AddMethod(addr string, method Method) error {
	d.init()

	if strings.ContainsAny(addr, "*?,[]{}# ") {
		return errors.Errorf("AddMethod: OSC Method may not contain any characters in \"*?,[]{}# \": %q", addr)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.methods[addr]; ok {
		return errors.Errorf("AddMethod: OSC Method exists already: %q", addr)
	}

	handler := func(dl *delivery) {
		defer dl.done.Done()
		defer d.recoverer(dl.from, addr)
		method.HandleMessage(dl.msg)
	}
	if err := d.bus.SubscribeAsync(addr, handler, false); err != nil {
		return errors.Wrapf(err, "AddMethod: subscribe %q", addr)
	}
	d.methods[addr] = struct{}{}
	return nil
}

// AddMethodFunc allows you to just pass a MethodFunc.
func (d *Dispatcher) AddMethodFunc(addr string, method MethodFunc) error {
	return d.AddMethod(addr, method)
}

// Dispatch dispatches OSC Packets. It implements Handler.
func (d *Dispatcher) Dispatch(packet osc.Packet, a net.Addr) {
	d.init()

	switch p := packet.(type) {
	default:
		panic(errors.Errorf("dispatch: invalid Packet: %v", p))

	case *osc.Message:
		dl := &delivery{msg: p, from: a}
		for _, addr := range d.matching(p) {
			dl.done.Add(1)
			d.bus.Publish(addr, dl)
		}
		dl.done.Wait()

	case *osc.Bundle:
		if wait := p.Timetag.ExpiresIn(); wait > 0 {
			time.AfterFunc(wait, func() {
				defer d.recoverer(a, "")
				d.dispatchElements(p, a)
			})
			return
		}
		d.dispatchElements(p, a)
	}
}

func (d *Dispatcher) dispatchElements(b *osc.Bundle, a net.Addr) {
	for _, elem := range b.Elements {
		d.Dispatch(elem, a)
	}
}

func (d *Dispatcher) matching(msg *osc.Message) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var addrs []string
	for addr := range d.methods {
		if msg.Match(addr) {
			addrs = append(addrs, addr)
		}
	}
	return addrs
}

func (d *Dispatcher) recoverer(a net.Addr, method string) {
	if err := recover(); err != nil {
		buf := make([]byte, 64<<10)
		buf = buf[:runtime.Stack(buf, false)]
		d.Log.Error().
			Interface("panic", err).
			Stringer("from", a).
			Str("method", method).
			Bytes("stack", buf).
			Msg("panic while dispatching")
	}
}
