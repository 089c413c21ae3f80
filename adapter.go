package blesim

// A Broadcaster sends advertising events.
type Broadcaster interface {
	// StartAdvertising begins advertising with the given options.
	StartAdvertising(opts AdvertisingOptions) error

	// UpdateAdvertisingData atomically replaces the manufacturer payload
	// without stopping the advertisement.
	UpdateAdvertisingData(data []byte) error

	// StopAdvertising stops advertising and drops the payload.
	StopAdvertising() error

	// Advertising reports whether an advertisement is active.
	Advertising() bool
}

// An Observer receives advertising events from peers.
type Observer interface {
	// StartScanning begins scanning with the given options.
	StartScanning(opts ScanOptions) error

	// StopScanning stops scanning.
	StopScanning() error

	// Scanning reports whether a scan is active.
	Scanning() bool
}

// Adapter is one logical BLE radio as exposed to the host.
type Adapter interface {
	Broadcaster
	Observer

	// ID returns the adapter identity.
	ID() string

	// State returns the current power state. Directives, when given, are
	// applied in order before the state is read.
	State(directives ...StateDirective) (AdapterState, error)

	// On registers a handler for an event. Registering for
	// EventStateChange synchronously delivers the current state to the new
	// handler before On returns.
	On(event string, h Handler)

	// Emit delivers a host-synthesized event to every handler registered
	// for event, in registration order.
	Emit(event string, e Event)

	// Destroy tears the adapter down and deregisters it. Idempotent.
	Destroy() error
}

// Capabilities describe what an adapter backend can do.
type Capabilities struct {
	SupportsExtendedAdvertising bool
	MaxAdvertisingDataSize      uint16
	SupportsSimultaneousAdvScan bool
	SupportsMultipleAdvSets     bool
}

// Platform is the boundary a native backend implements: CoreBluetooth on
// macOS, Windows.Devices.Bluetooth on Windows, BlueZ over D-Bus on Linux.
// No backend ships here; the mock package honors the same operation and
// event contract so one can later slot in without changing callers.
type Platform interface {
	// Initialize sets up platform resources and starts state monitoring.
	Initialize() error

	// Shutdown releases all resources and stops every operation.
	Shutdown() error

	// CurrentState returns the adapter power state.
	CurrentState() AdapterState

	// SetStateChangeHandler installs the state-change callback. It may be
	// invoked from a platform-owned thread.
	SetStateChangeHandler(func(AdapterState))

	// SetDeviceDiscoveredHandler installs the discovery callback. It may
	// be invoked from a platform-owned thread.
	SetDeviceDiscoveredHandler(func(DiscoveredDevice))

	// SetErrorHandler installs the asynchronous error callback.
	SetErrorHandler(func(error))

	StartAdvertising(opts AdvertisingOptions) error
	UpdateAdvertisingData(data []byte) error
	StopAdvertising() error
	Advertising() bool

	StartScanning(opts ScanOptions) error
	StopScanning() error
	Scanning() bool

	// PlatformName identifies the backend, e.g. "CoreBluetooth".
	PlatformName() string

	Capabilities() Capabilities
}
