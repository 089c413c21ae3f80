// blesim drives a simulated BLE adapter fabric from a YAML config:
// adapters are created on one registry, powered, set advertising or
// scanning, and every discovery a scanner observes is printed and
// journaled.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/ghostmesh/blesim"
	"github.com/ghostmesh/blesim/cache"
	"github.com/ghostmesh/blesim/config"
	"github.com/ghostmesh/blesim/mock"
)

func main() {
	app := cli.NewApp()
	app.Name = "blesim"
	app.Usage = "simulated BLE adapter fabric"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "blesim.yaml",
			Usage: "fabric config file",
		},
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: "trace-level logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "sim",
			Usage:  "run the advertise/scan simulation",
			Action: runSim,
		},
		{
			Name:   "journal",
			Usage:  "print journaled discoveries for an adapter id",
			Action: showJournal,
			Flags: []cli.Flag{
				cli.StringFlag{Name: "id", Usage: "observing adapter id"},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSim(c *cli.Context) error {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}
	if c.GlobalBool("verbose") {
		blesim.SetLogLevelMax()
	} else if err := blesim.SetLogLevel(cfg.LogLevel); err != nil {
		return err
	}
	log := blesim.GetLogger()

	journal := cache.New(cfg.Journal)
	if err := journal.Clear(); err != nil {
		return errors.Wrap(err, "can't reset journal")
	}

	reg := mock.NewRegistry()
	adapters := make([]*mock.Adapter, 0, len(cfg.Adapters))
	for _, ac := range cfg.Adapters {
		a, err := mock.NewAdapter(reg, mock.Options{ID: ac.ID})
		if err != nil {
			return err
		}
		defer a.Destroy()
		adapters = append(adapters, a)

		if !ac.PoweredOn() {
			if _, err := a.State(blesim.DirectivePowerOff); err != nil {
				return err
			}
		}
		if ac.Scan {
			watchDiscoveries(a, journal, log)
		}
	}

	// Scanners first, so they observe the advertisers coming up.
	for i, ac := range cfg.Adapters {
		if !ac.Scan {
			continue
		}
		if err := adapters[i].StartScanning(blesim.DefaultScanOptions()); err != nil {
			return errors.Wrapf(err, "adapter %s", adapters[i].ID())
		}
	}
	for i, ac := range cfg.Adapters {
		if !ac.Advertise {
			continue
		}
		payload, _ := ac.Payload()
		opts := blesim.DefaultAdvertisingOptions()
		opts.Name = ac.Name
		opts.ManufacturerData = payload
		opts.IntervalMs = ac.IntervalMs
		if err := adapters[i].StartAdvertising(opts); err != nil {
			return errors.Wrapf(err, "adapter %s", adapters[i].ID())
		}
	}

	// Demonstrate payload propagation: every advertiser rolls its last
	// payload byte once.
	for i, ac := range cfg.Adapters {
		if !ac.Advertise {
			continue
		}
		payload, _ := ac.Payload()
		if len(payload) == 0 {
			continue
		}
		next := append([]byte(nil), payload...)
		next[len(next)-1]++
		if err := adapters[i].UpdateAdvertisingData(next); err != nil {
			return errors.Wrapf(err, "adapter %s", adapters[i].ID())
		}
	}

	for _, a := range adapters {
		if a.Advertising() {
			if err := a.StopAdvertising(); err != nil {
				return err
			}
		}
		if a.Scanning() {
			if err := a.StopScanning(); err != nil {
				return err
			}
		}
	}

	log.Infof("simulation complete, journal written to %s", cfg.Journal)
	return nil
}

func watchDiscoveries(a *mock.Adapter, journal blesim.DiscoveryJournal, log blesim.Logger) {
	id := a.ID()
	a.On(blesim.EventDeviceDiscovered, func(e blesim.Event) {
		d := e.Device
		fmt.Printf("%s discovered %s (%q) [% X]\n", id, d.Address, d.Name, d.ManufacturerData)
		if err := journal.Record(id, *d); err != nil {
			log.Errorf("journal write failed: %s", err)
		}
	})
}

func showJournal(c *cli.Context) error {
	cfg, err := config.Load(c.GlobalString("config"))
	if err != nil {
		return err
	}
	id := c.String("id")
	if id == "" {
		return errors.New("--id is required")
	}

	dd, err := cache.New(cfg.Journal).Load(id)
	if err != nil {
		return err
	}
	for _, d := range dd {
		fmt.Printf("%s  %-20s %-16q [% X]\n", d.Timestamp.Format(time.RFC3339), d.Address, d.Name, d.ManufacturerData)
	}
	return nil
}
