package blesim

// AdvertisingOptions configure an advertisement. ManufacturerData is the
// vendor payload (company ID + payload bytes) carried in the advertisement.
type AdvertisingOptions struct {
	Name             string
	ServiceUUIDs     []string
	ManufacturerData []byte
	IntervalMs       uint32
	TxPowerLevel     int8 // dBm, -20 to +4
}

// DefaultAdvertisingOptions returns the platform defaults.
func DefaultAdvertisingOptions() AdvertisingOptions {
	return AdvertisingOptions{IntervalMs: 100}
}

// ScanOptions configure a scan. A zero FilterByManufacturer disables
// company-ID filtering.
type ScanOptions struct {
	FilterByManufacturer uint16
	FilterByService      []string
	AllowDuplicates      bool
	DuplicateTimeoutMs   uint32
}

// DefaultScanOptions returns the platform defaults.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{DuplicateTimeoutMs: 1000}
}
