package mock

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ghostmesh/blesim"
)

// Fixture advertisement delivered when a scan finds no peers, so callers
// that rely on at-least-one-discovery semantics are not starved. The
// placeholder identity is the scanner's own id with a "-sim" suffix.
const (
	simIDSuffix = "-sim"
	simName     = "TestAdvertiser"
)

var simPayload = []byte{0xFF, 0xFF, 0x01, 0x02}

// legacy advertising PDU payload bound
const maxLegacyAdvDataSize = 31

// Options configure a mock adapter. A zero value is usable: the id is
// generated and the adapter starts powered on.
type Options struct {
	// ID is the adapter identity and registry key. Generated when empty.
	ID string

	// InitialState overrides the starting power state. The zero value
	// (StateUnknown) means StatePoweredOn, matching real stacks that come
	// up ready.
	InitialState blesim.AdapterState
}

// Adapter is one simulated BLE radio. It owns its power, advertising and
// scanning state and a subscriber table; the registry it was created with is
// its radio medium.
type Adapter struct {
	id  string
	reg *Registry
	log blesim.Logger

	mu          sync.Mutex
	state       blesim.AdapterState
	advertising bool
	scanning    bool
	advName     string
	mfgData     []byte
	scanOpts    blesim.ScanOptions
	listeners   map[string][]blesim.Handler
	destroyed   bool
}

var _ blesim.Adapter = (*Adapter)(nil)

// NewAdapter creates an adapter and registers it with reg. Construction
// fails when the id collides with a live registration.
func NewAdapter(reg *Registry, opts Options) (*Adapter, error) {
	id := opts.ID
	if id == "" {
		id = newID()
	}
	state := opts.InitialState
	if state == blesim.StateUnknown {
		state = blesim.StatePoweredOn
	}

	a := &Adapter{
		id:        id,
		reg:       reg,
		log:       blesim.GetLogger().ChildLogger(map[string]interface{}{"adapter": id}),
		state:     state,
		listeners: make(map[string][]blesim.Handler),
	}
	if err := reg.Register(id, a); err != nil {
		return nil, err
	}
	a.log.Debug("adapter registered")
	return a, nil
}

func newID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ID returns the adapter identity.
func (a *Adapter) ID() string {
	return a.id
}

// Capabilities reports what the simulated radio supports.
func (a *Adapter) Capabilities() blesim.Capabilities {
	return blesim.Capabilities{
		MaxAdvertisingDataSize:      maxLegacyAdvDataSize,
		SupportsSimultaneousAdvScan: true,
	}
}

// PlatformName identifies the backend.
func (a *Adapter) PlatformName() string {
	return "Mock"
}

// State returns the current power state. Directives are applied in order
// first: DirectiveError fails the query, the power directives transition
// this adapter before the state is read. A destroyed adapter ignores all
// directives and reports StateUnknown, as if the adapter were not found.
func (a *Adapter) State(directives ...blesim.StateDirective) (blesim.AdapterState, error) {
	a.mu.Lock()
	gone := a.destroyed
	a.mu.Unlock()
	if gone {
		return blesim.StateUnknown, nil
	}

	for _, d := range directives {
		switch d {
		case blesim.DirectiveError:
			return blesim.StateUnknown, blesim.NewError(blesim.CodeSimulated, "failed to get state")
		case blesim.DirectivePowerOn:
			a.setPower(blesim.StatePoweredOn)
		case blesim.DirectivePowerOff:
			a.setPower(blesim.StatePoweredOff)
		default:
			return blesim.StateUnknown, blesim.Errorf(blesim.CodeInvalidParameter, "unknown state directive %q", string(d))
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.destroyed {
		return blesim.StateUnknown, nil
	}
	return a.state, nil
}

// setPower applies a power transition to this adapter only. A transition to
// the current state is a silent no-op. Powering off forces advertising and
// scanning off, clears the payload, and emits the corresponding stopped
// events (only for activities that were running) before the stateChange.
func (a *Adapter) setPower(next blesim.AdapterState) {
	a.mu.Lock()
	if a.destroyed || a.state == next {
		a.mu.Unlock()
		return
	}
	a.state = next

	var evts []blesim.Event
	if next == blesim.StatePoweredOff {
		if a.advertising {
			evts = append(evts, blesim.Event{Name: blesim.EventAdvertisingStopped})
		}
		if a.scanning {
			evts = append(evts, blesim.Event{Name: blesim.EventScanningStopped})
		}
		a.advertising = false
		a.scanning = false
		a.advName = ""
		a.mfgData = nil
	}
	evts = append(evts, blesim.Event{Name: blesim.EventStateChange, State: next})
	q := a.queueLocked(evts...)
	a.mu.Unlock()

	a.log.Debugf("power state -> %v", next)
	q.dispatch()
}

// StartAdvertising validates state, stores the manufacturer payload, emits
// advertisingStarted, then notifies every scanning peer on the registry.
func (a *Adapter) StartAdvertising(opts blesim.AdvertisingOptions) error {
	a.mu.Lock()
	if err := a.liveLocked(); err != nil {
		a.mu.Unlock()
		return err
	}
	if a.state != blesim.StatePoweredOn {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeInvalidState, "cannot start advertising: adapter not powered on")
	}
	if a.advertising {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeAlreadyActive, "already advertising")
	}
	if len(opts.ManufacturerData) > maxLegacyAdvDataSize {
		a.mu.Unlock()
		return blesim.Errorf(blesim.CodePayloadTooLarge, "manufacturer data is %d bytes, max %d", len(opts.ManufacturerData), maxLegacyAdvDataSize)
	}

	a.advertising = true
	a.advName = opts.Name
	a.mfgData = cloneBytes(opts.ManufacturerData)
	dev := a.advertisementLocked()
	q := a.queueLocked(blesim.Event{Name: blesim.EventAdvertisingStarted})
	a.mu.Unlock()

	a.log.Debugf("advertising started, %d payload bytes", len(dev.ManufacturerData))
	q.dispatch()
	a.reg.broadcastDiscovery(a, dev)
	return nil
}

// UpdateAdvertisingData atomically replaces the stored payload, emits
// advertisingDataUpdated, then re-notifies every scanning peer.
func (a *Adapter) UpdateAdvertisingData(data []byte) error {
	a.mu.Lock()
	if err := a.liveLocked(); err != nil {
		a.mu.Unlock()
		return err
	}
	if !a.advertising {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeInvalidState, "not currently advertising")
	}
	if len(data) > maxLegacyAdvDataSize {
		a.mu.Unlock()
		return blesim.Errorf(blesim.CodePayloadTooLarge, "manufacturer data is %d bytes, max %d", len(data), maxLegacyAdvDataSize)
	}

	a.mfgData = cloneBytes(data)
	dev := a.advertisementLocked()
	q := a.queueLocked(blesim.Event{Name: blesim.EventAdvertisingDataUpdated, Data: cloneBytes(data)})
	a.mu.Unlock()

	q.dispatch()
	a.reg.broadcastDiscovery(a, dev)
	return nil
}

// StopAdvertising clears the advertising flag and payload and emits
// advertisingStopped.
func (a *Adapter) StopAdvertising() error {
	a.mu.Lock()
	if err := a.liveLocked(); err != nil {
		a.mu.Unlock()
		return err
	}
	if !a.advertising {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeInvalidState, "not advertising")
	}
	a.advertising = false
	a.advName = ""
	a.mfgData = nil
	q := a.queueLocked(blesim.Event{Name: blesim.EventAdvertisingStopped})
	a.mu.Unlock()

	a.log.Debug("advertising stopped")
	q.dispatch()
	return nil
}

// Advertising reports whether an advertisement is active.
func (a *Adapter) Advertising() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.advertising
}

// StartScanning validates state, emits scanningStarted, then sweeps the
// registry: every advertising peer with a non-empty payload is delivered as
// a deviceDiscovered event. When the sweep finds nothing, exactly one
// synthetic discovery with a placeholder identity is delivered instead.
func (a *Adapter) StartScanning(opts blesim.ScanOptions) error {
	a.mu.Lock()
	if err := a.liveLocked(); err != nil {
		a.mu.Unlock()
		return err
	}
	if a.state != blesim.StatePoweredOn {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeInvalidState, "cannot start scanning: adapter not powered on")
	}
	if a.scanning {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeAlreadyActive, "already scanning")
	}
	a.scanning = true
	a.scanOpts = opts
	q := a.queueLocked(blesim.Event{Name: blesim.EventScanningStarted})
	a.mu.Unlock()

	a.log.Debug("scanning started")
	q.dispatch()

	found := false
	for _, peer := range a.reg.Snapshot() {
		if peer == a {
			continue
		}
		if dev, ok := peer.advertisement(); ok && a.deliverDiscovery(dev) {
			found = true
		}
	}
	if !found {
		a.deliver(blesim.DiscoveredDevice{
			Address:          a.id + simIDSuffix,
			Name:             simName,
			ManufacturerData: simPayload,
			Timestamp:        time.Now(),
		}, false)
	}
	return nil
}

// StopScanning clears the scanning flag and emits scanningStopped.
func (a *Adapter) StopScanning() error {
	a.mu.Lock()
	if err := a.liveLocked(); err != nil {
		a.mu.Unlock()
		return err
	}
	if !a.scanning {
		a.mu.Unlock()
		return blesim.NewError(blesim.CodeInvalidState, "not scanning")
	}
	a.scanning = false
	a.scanOpts = blesim.ScanOptions{}
	q := a.queueLocked(blesim.Event{Name: blesim.EventScanningStopped})
	a.mu.Unlock()

	a.log.Debug("scanning stopped")
	q.dispatch()
	return nil
}

// Scanning reports whether a scan is active.
func (a *Adapter) Scanning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scanning
}

// On registers h for event. Unknown event names are legal and inert, and the
// same handler may be registered more than once (it then fires once per
// registration). Registering for stateChange synchronously delivers the
// current state to h before On returns.
func (a *Adapter) On(event string, h blesim.Handler) {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return
	}
	a.listeners[event] = append(a.listeners[event], h)
	fireState := event == blesim.EventStateChange
	cur := a.state
	a.mu.Unlock()

	if fireState {
		h(blesim.Event{Name: blesim.EventStateChange, State: cur})
	}
}

// Emit delivers a host-synthesized event to every handler registered for
// event, in registration order. No-op for unknown names.
func (a *Adapter) Emit(event string, e blesim.Event) {
	a.mu.Lock()
	hs := append([]blesim.Handler(nil), a.listeners[event]...)
	a.mu.Unlock()

	e.Name = event
	for _, h := range hs {
		h(e)
	}
}

// Destroy clears all state and subscriptions and deregisters the adapter.
// Idempotent: a second call does nothing and succeeds. Commands after
// Destroy fail with CodeAdapterUnavailable.
func (a *Adapter) Destroy() error {
	a.mu.Lock()
	if a.destroyed {
		a.mu.Unlock()
		return nil
	}
	a.destroyed = true
	a.advertising = false
	a.scanning = false
	a.advName = ""
	a.mfgData = nil
	a.scanOpts = blesim.ScanOptions{}
	a.listeners = make(map[string][]blesim.Handler)
	a.mu.Unlock()

	a.reg.Unregister(a.id, a)
	a.log.Debug("adapter destroyed")
	return nil
}

// advertisement returns the discovery record for this adapter's current
// advertisement. Peers without an active advertisement or with an empty
// payload are not discoverable by a scan sweep.
func (a *Adapter) advertisement() (blesim.DiscoveredDevice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.advertising || len(a.mfgData) == 0 {
		return blesim.DiscoveredDevice{}, false
	}
	return a.advertisementLocked(), true
}

func (a *Adapter) advertisementLocked() blesim.DiscoveredDevice {
	return blesim.DiscoveredDevice{
		Address:          a.id,
		Name:             a.advName,
		ManufacturerData: cloneBytes(a.mfgData),
		Timestamp:        time.Now(),
	}
}

// deliverDiscovery hands a peer's advertisement to this adapter's
// deviceDiscovered subscribers and reports whether it was accepted. Dropped
// while not scanning, and when a manufacturer filter is set and the
// payload's company ID doesn't match.
func (a *Adapter) deliverDiscovery(dev blesim.DiscoveredDevice) bool {
	return a.deliver(dev, true)
}

// deliver pushes dev to the deviceDiscovered subscribers. The synthetic
// fixture is delivered unfiltered: a scanner whose manufacturer filter
// matches no peer still gets its one guaranteed discovery.
func (a *Adapter) deliver(dev blesim.DiscoveredDevice, filtered bool) bool {
	a.mu.Lock()
	if a.destroyed || !a.scanning {
		a.mu.Unlock()
		return false
	}
	if f := a.scanOpts.FilterByManufacturer; filtered && f != 0 {
		if id, ok := dev.CompanyID(); !ok || id != f {
			a.mu.Unlock()
			return false
		}
	}
	record := dev
	record.ManufacturerData = cloneBytes(dev.ManufacturerData)
	q := a.queueLocked(blesim.Event{Name: blesim.EventDeviceDiscovered, Device: &record})
	a.mu.Unlock()

	q.dispatch()
	return true
}

func (a *Adapter) liveLocked() error {
	if a.destroyed {
		return blesim.NewError(blesim.CodeAdapterUnavailable, "adapter destroyed")
	}
	return nil
}

// delivery is a snapshot of one event and the handlers it goes to. Snapshots
// are taken under the adapter lock; dispatch runs without it, so handlers
// may call back into the adapter.
type delivery struct {
	event    blesim.Event
	handlers []blesim.Handler
}

type deliveryQueue []delivery

func (a *Adapter) queueLocked(evts ...blesim.Event) deliveryQueue {
	var q deliveryQueue
	for _, e := range evts {
		hs := a.listeners[e.Name]
		if len(hs) == 0 {
			continue
		}
		q = append(q, delivery{event: e, handlers: append([]blesim.Handler(nil), hs...)})
	}
	return q
}

func (q deliveryQueue) dispatch() {
	for _, d := range q {
		for _, h := range d.handlers {
			h(d.event)
		}
	}
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
