// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// config lists the events to prepare, e.g.
//
//	contracts:
//	  - abi: erc20.json
//	    events: [Transfer, Approval]
//	  - abi: settlement.json
type config struct {
	Contracts []contractConfig `yaml:"contracts"`
}

type contractConfig struct {
	// ABI is the path of the JSON ABI, relative to the config file.
	ABI string `yaml:"abi"`
	// Events defaults to every event of the ABI.
	Events []string `yaml:"events"`
}

func loadConfig(path string) (*config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config [%v]", path)
	}
	if len(cfg.Contracts) == 0 {
		return nil, errors.Errorf("config [%v] lists no contracts", path)
	}

	dir := filepath.Dir(path)
	for i, c := range cfg.Contracts {
		if c.ABI == "" {
			return nil, errors.Errorf("config [%v]: contract %d has no abi", path, i)
		}
		if !filepath.IsAbs(c.ABI) {
			cfg.Contracts[i].ABI = filepath.Join(dir, c.ABI)
		}
	}
	return &cfg, nil
}
