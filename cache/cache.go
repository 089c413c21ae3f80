// Package cache persists discovery events to a JSON file so harness runs
// can be inspected after the fact.
package cache

import (
	"io/ioutil"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/ghostmesh/blesim"
)

type discoveryJournal struct {
	filename string
	lock     sync.RWMutex
}

// New returns a file-backed discovery journal.
func New(filename string) blesim.DiscoveryJournal {
	dj := discoveryJournal{
		filename: filename,
	}

	return &dj
}

func (dj *discoveryJournal) Record(observer string, dev blesim.DiscoveredDevice) error {
	dj.lock.Lock()
	defer dj.lock.Unlock()

	journal, err := dj.loadExisting()
	if err != nil {
		return err
	}

	journal[observer] = append(journal[observer], dev)

	return dj.storeJournal(journal)
}

func (dj *discoveryJournal) Load(observer string) ([]blesim.DiscoveredDevice, error) {
	dj.lock.RLock()
	defer dj.lock.RUnlock()

	journal, err := dj.loadExisting()
	if err != nil {
		return nil, err
	}

	dd, ok := journal[observer]
	if !ok {
		return nil, errors.Errorf("no discoveries journaled for %s", observer)
	}

	return dd, nil
}

func (dj *discoveryJournal) Clear() error {
	dj.lock.Lock()
	defer dj.lock.Unlock()

	err := os.Remove(dj.filename)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

func (dj *discoveryJournal) loadExisting() (map[string][]blesim.DiscoveredDevice, error) {
	_, err := os.Stat(dj.filename)
	if os.IsNotExist(err) {
		return map[string][]blesim.DiscoveredDevice{}, nil
	}

	in, err := ioutil.ReadFile(dj.filename)
	if err != nil {
		return nil, err
	}

	var journal map[string][]blesim.DiscoveredDevice
	err = jsoniter.Unmarshal(in, &journal)
	if err != nil {
		return nil, errors.Wrap(err, "corrupt discovery journal")
	}

	return journal, nil
}

func (dj *discoveryJournal) storeJournal(journal map[string][]blesim.DiscoveredDevice) error {
	out, err := jsoniter.Marshal(journal)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(dj.filename, out, 0644)
}
