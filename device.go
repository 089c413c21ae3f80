package blesim

import "time"

// DiscoveredDevice describes a peer observed while scanning. A fresh record
// is built for every discovery event; the core never retains one.
type DiscoveredDevice struct {
	Address          string    `json:"address"`
	Name             string    `json:"name,omitempty"`
	RSSI             int16     `json:"rssi"`
	ManufacturerData []byte    `json:"manufacturerData,omitempty"`
	ServiceUUIDs     []string  `json:"serviceUUIDs,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}

// CompanyID reads the manufacturer company identifier from the payload
// (first two bytes, little endian). Reports false when the payload is too
// short to carry one.
func (d DiscoveredDevice) CompanyID() (uint16, bool) {
	if len(d.ManufacturerData) < 2 {
		return 0, false
	}
	return uint16(d.ManufacturerData[0]) | uint16(d.ManufacturerData[1])<<8, true
}
