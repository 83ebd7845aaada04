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

package dpt_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/antst/kspb/internal/dpt"
)

func TestStepToPercent(t *testing.T) {
	tests := []struct {
		step, maxStep, want int
	}{
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 66},
		{3, 3, 100},
		{1, 2, 50},
		{-1, 3, 0},
		{5, 3, 100},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.step, tt.maxStep), func(t *testing.T) {
			assert.Equal(t, tt.want, dpt.StepToPercent(tt.step, tt.maxStep))
		})
	}
}

// TestPercentToStepBanding pins the three-speed banding: 0% is off,
// 1-33% is step 1, 34-66% step 2, 67-100% step 3.
func TestPercentToStepBanding(t *testing.T) {
	for percent := 0; percent <= 100; percent++ {
		var want int
		switch {
		case percent == 0:
			want = 0
		case percent <= 33:
			want = 1
		case percent <= 66:
			want = 2
		default:
			want = 3
		}
		assert.Equal(t, want, dpt.PercentToStep(percent, 3), "percent=%d", percent)
	}
}

func TestPercentToStepClamping(t *testing.T) {
	assert.Equal(t, 3, dpt.PercentToStep(150, 3))
	assert.Equal(t, 0, dpt.PercentToStep(-10, 3))
	assert.Equal(t, 0, dpt.PercentToStep(0, 3))
}

func TestRawToPercent(t *testing.T) {
	assert.Equal(t, 0, dpt.RawToPercent(0))
	assert.Equal(t, 50, dpt.RawToPercent(128))
	assert.Equal(t, 100, dpt.RawToPercent(255))
}

func TestPercentToRaw(t *testing.T) {
	assert.Equal(t, byte(0), dpt.PercentToRaw(0))
	assert.Equal(t, byte(255), dpt.PercentToRaw(100))
	assert.Equal(t, byte(255), dpt.PercentToRaw(200))
	assert.Equal(t, byte(0), dpt.PercentToRaw(-10))
	assert.Equal(t, byte(128), dpt.PercentToRaw(50))
}

// TestStepRoundTrip: converting a step to percent and back lands on the
// same step. Floor on the way out and ceil on the way back make this
// exact for any maxStep a single byte can carry.
func TestStepRoundTrip(t *testing.T) {
	for maxStep := 1; maxStep <= 20; maxStep++ {
		for step := 0; step <= maxStep; step++ {
			percent := dpt.StepToPercent(step, maxStep)
			assert.Equal(t, step, dpt.PercentToStep(percent, maxStep),
				"maxStep=%d step=%d percent=%d", maxStep, step, percent)
		}
	}
}
