package blesim

// Event names emitted by adapters. Subscribing to a name outside this set is
// legal; such subscriptions simply never fire.
const (
	EventStateChange            = "stateChange"
	EventAdvertisingStarted     = "advertisingStarted"
	EventAdvertisingStopped     = "advertisingStopped"
	EventAdvertisingDataUpdated = "advertisingDataUpdated"
	EventScanningStarted        = "scanningStarted"
	EventScanningStopped        = "scanningStopped"
	EventDeviceDiscovered       = "deviceDiscovered"
)

// Event is the value delivered to handlers. Which fields are populated
// depends on the event: stateChange carries State, advertisingDataUpdated
// carries Data, deviceDiscovered carries Device.
type Event struct {
	Name   string
	State  AdapterState
	Data   []byte
	Device *DiscoveredDevice
}

// Handler receives events. Handlers for one adapter run synchronously, in
// registration order, before the operation that produced the event returns.
type Handler func(e Event)
