/*
 * Copyright (c) 2024. Anton Starikov -- All Rights Reserved
 *
 * This file is part of KSPB project.
 *
 * KSPB is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as the Free Software Foundation,
 * either version 3 of the License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 */

package config

import "fmt"

// maxStepLimit mirrors the single-byte payload: a step value must fit the telegram.
const maxStepLimit = 255

// BridgeConfig describes one step<->percent address pair.
type BridgeConfig struct {
	Name           string  `yaml:"name,omitempty"`
	StepAddress    string  `yaml:"step_address"`
	PercentAddress string  `yaml:"percent_address"`
	MaxStep        int     `yaml:"max_step"`
	JSONEntry      *string `yaml:"json_entry,omitempty"`
}

func NewBridgeConfig() *BridgeConfig {
	cfg := &BridgeConfig{}
	cfg.FillDefaults()
	return cfg
}

func (b *BridgeConfig) FillDefaults() {
	if b.Name == "" {
		b.Name = b.StepAddress + "<->" + b.PercentAddress
	}
}

// Validate rejects entries the registry must not own. The caller is expected
// to skip a rejected entry and keep going with the rest.
func (b *BridgeConfig) Validate() error {
	if b.StepAddress == "" || b.PercentAddress == "" {
		return fmt.Errorf("both step_address and percent_address are required")
	}
	if b.StepAddress == b.PercentAddress {
		return fmt.Errorf("step_address and percent_address are identical (%v)", b.StepAddress)
	}
	if b.MaxStep < 1 || b.MaxStep > maxStepLimit {
		return fmt.Errorf("max_step must be in 1..%v, got %v", maxStepLimit, b.MaxStep)
	}
	return nil
}
