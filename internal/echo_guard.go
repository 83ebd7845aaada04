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

import "time"

// echoGuard tracks the last byte this bridge itself wrote to one group
// address. A write to the bus comes back to us as a regular status
// telegram on the same address; without the guard the bridge would treat
// its own write as a fresh command and bounce it to the paired address,
// oscillating forever.
//
// The guard is armed on every outbound write and disarmed lazily on the
// next inbound telegram after the debounce window has elapsed. There is
// no timer.
type echoGuard struct {
	armed bool
	value byte
	since time.Time
}

// Arm records an outbound write of value at time now.
func (g *echoGuard) Arm(value byte, now time.Time) {
	g.armed = true
	g.value = value
	g.since = now
}

// Suppresses reports whether an inbound raw byte is an echo of the armed
// write. Bytes are compared through bucket, not literally: byte<->percent
// scaling is lossy, and a device may echo a slightly different byte for
// the same percent band. Equal buckets re-derive the same source value,
// so the telegram carries no new information.
func (g *echoGuard) Suppresses(raw byte, now time.Time, window time.Duration, bucket func(byte) int) bool {
	if !g.armed {
		return false
	}
	if now.Sub(g.since) > window {
		g.armed = false
		return false
	}
	return bucket(raw) == bucket(g.value)
}
