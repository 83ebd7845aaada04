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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antst/kspb/internal/config"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m *fakeMessage) Duplicate() bool   { return false }
func (m *fakeMessage) Qos() byte         { return 0 }
func (m *fakeMessage) Retained() bool    { return false }
func (m *fakeMessage) Topic() string     { return m.topic }
func (m *fakeMessage) MessageID() uint16 { return 0 }
func (m *fakeMessage) Payload() []byte   { return m.payload }
func (m *fakeMessage) Ack()              {}

func msg(payload string) *fakeMessage {
	return &fakeMessage{topic: "knx/status/1/2/3", payload: []byte(payload)}
}

func TestExtractBytePlain(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    byte
	}{
		{"decimal", "128", 128},
		{"hex", "0x80", 128},
		{"whitespace", " 42\n", 42},
		{"clamped high", "300", 255},
		{"clamped negative", "-5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractBytePlainOrJSON(msg(tt.payload), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractBytePlainUnparsable(t *testing.T) {
	_, err := extractBytePlainOrJSON(msg("garbage"), nil)
	assert.Error(t, err)
}

func TestExtractByteJSON(t *testing.T) {
	entry := config.GetPTR("value")

	got, err := extractBytePlainOrJSON(msg(`{"value": 128, "other": 1}`), entry)
	require.NoError(t, err)
	assert.Equal(t, byte(128), got)

	_, err = extractBytePlainOrJSON(msg(`{"other": 1}`), entry)
	assert.Error(t, err)

	_, err = extractBytePlainOrJSON(msg(`{"value": "high"}`), entry)
	assert.Error(t, err)

	_, err = extractBytePlainOrJSON(msg(`not json`), entry)
	assert.Error(t, err)
}
