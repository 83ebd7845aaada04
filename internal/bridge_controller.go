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

package internal

import (
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/antst/kspb/internal/config"
	"github.com/antst/kspb/internal/dpt"
	"github.com/antst/kspb/internal/logger"
)

// TelegramWriter puts a single byte on a group address. Fire-and-forget:
// the bus gives no acknowledgment.
type TelegramWriter interface {
	WriteTelegram(address string, value byte) error
}

// BridgeController owns one configured address pair. Each inbound telegram
// on either address is converted to the paired domain and, unless the echo
// guard recognises it as our own write coming back, written to the paired
// address.
type BridgeController struct {
	name     string
	cfg      *config.BridgeConfig
	writer   TelegramWriter
	debounce func() time.Duration
	now      func() time.Time

	// paho delivers handler callbacks concurrently, so the guard
	// check-then-arm must be a single critical section.
	mu           sync.Mutex
	stepGuard    echoGuard
	percentGuard echoGuard
}

func newBridgeController(cfg *config.BridgeConfig, writer TelegramWriter, debounce func() time.Duration) *BridgeController {
	return &BridgeController{
		name:     cfg.Name,
		cfg:      cfg,
		writer:   writer,
		debounce: debounce,
		now:      time.Now,
	}
}

// HandleInbound processes one telegram for this bridge. The caller routes
// by address, so address is always one of the two configured ones; anything
// else is dropped. A transport write failure is returned for logging and is
// not fatal: the guard keeps the attempted value, a missed suppression being
// cheaper than a wedged bridge.
func (b *BridgeController) HandleInbound(address string, raw byte) error {
	switch address {
	case b.cfg.StepAddress:
		return b.handleStep(raw)
	case b.cfg.PercentAddress:
		return b.handlePercent(raw)
	default:
		logger.L().Debugf("[%s] telegram for unrelated address %v", b.name, address)
		return nil
	}
}

func (b *BridgeController) handleStep(raw byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.stepGuard.Suppresses(raw, now, b.debounce(), b.stepBucket) {
		logger.L().Debugf("[%s] suppressed echo on %v (step=%d)", b.name, b.cfg.StepAddress, raw)
		return nil
	}

	percent := dpt.StepToPercent(int(raw), b.cfg.MaxStep)
	out := dpt.PercentToRaw(percent)

	err := b.writer.WriteTelegram(b.cfg.PercentAddress, out)
	// The write is on its way to the bus regardless of the token outcome,
	// so its echo must be expected either way.
	b.percentGuard.Arm(out, now)
	if err != nil {
		return errors.Wrapf(err, "[%s] step->percent write to %v failed", b.name, b.cfg.PercentAddress)
	}

	logger.L().Debugf("[%s] step->percent: %v -> %d%%", b.name, b.cfg.StepAddress, percent)
	return nil
}

func (b *BridgeController) handlePercent(raw byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.percentGuard.Suppresses(raw, now, b.debounce(), b.percentBucket) {
		logger.L().Debugf("[%s] suppressed echo on %v (raw=%d)", b.name, b.cfg.PercentAddress, raw)
		return nil
	}

	percent := dpt.RawToPercent(raw)
	step := dpt.PercentToStep(percent, b.cfg.MaxStep)
	out := byte(step)

	err := b.writer.WriteTelegram(b.cfg.StepAddress, out)
	b.stepGuard.Arm(out, now)
	if err != nil {
		return errors.Wrapf(err, "[%s] percent->step write to %v failed", b.name, b.cfg.StepAddress)
	}

	logger.L().Debugf("[%s] percent->step: %v -> step=%d/%d", b.name, b.cfg.PercentAddress, step, b.cfg.MaxStep)
	return nil
}

// stepBucket maps a byte seen on the step address into the percent band it
// would convert to.
func (b *BridgeController) stepBucket(v byte) int {
	return dpt.StepToPercent(int(v), b.cfg.MaxStep)
}

// percentBucket maps a byte seen on the percent address into the step it
// would convert to.
func (b *BridgeController) percentBucket(v byte) int {
	return dpt.PercentToStep(dpt.RawToPercent(v), b.cfg.MaxStep)
}
