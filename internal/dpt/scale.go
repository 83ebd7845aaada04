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

// Package dpt maps between the three value domains a bridge deals with:
// discrete steps (0..maxStep), percent (0..100) and the DPT 5.001 raw
// byte (0..255, linearly scaled to 0..100%).
//
// Rounding is part of the contract. Step->percent floors, so a step never
// rounds up into the next percent band. Percent->step ceils with an
// explicit zero case, so 0% is step 0 and any percent in (0, 100/maxStep]
// is step 1. For maxStep=3 the bands are: 0%->0, 1-33%->1, 34-66%->2,
// 67-100%->3.
package dpt

import "math"

// StepToPercent converts a step position to a percentage, flooring.
// The step is clamped to [0, maxStep] first. maxStep must be >= 1,
// which the config layer guarantees.
func StepToPercent(step, maxStep int) int {
	if step < 0 {
		step = 0
	}
	if step > maxStep {
		step = maxStep
	}
	return step * 100 / maxStep
}

// RawToPercent decodes a DPT 5.001 byte into a percentage, rounding
// to the nearest integer.
func RawToPercent(raw byte) int {
	return clamp(int(math.Round(float64(raw)/255.0*100.0)), 0, 100)
}

// PercentToStep converts a percentage to a step position, ceiling, so
// that any non-zero percentage engages at least step 1.
func PercentToStep(percent, maxStep int) int {
	if percent <= 0 {
		return 0
	}
	return clamp((percent*maxStep+99)/100, 0, maxStep)
}

// PercentToRaw encodes a percentage as a DPT 5.001 byte, rounding.
func PercentToRaw(percent int) byte {
	if percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return 255
	}
	return byte(math.Round(float64(percent) / 100.0 * 255.0))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
