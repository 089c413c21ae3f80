package blesim

// DiscoveryJournal persists discovery events, keyed by the observing
// adapter's identity.
type DiscoveryJournal interface {
	Record(observer string, dev DiscoveredDevice) error
	Load(observer string) ([]DiscoveredDevice, error)
	Clear() error
}
