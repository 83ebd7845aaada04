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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
)

// extractBytePlainOrJSON decodes a telegram payload as published by the
// KNX gateway: a plain decimal or 0x-hex number, or, when JSONEntry is
// configured, a JSON object carrying the value under that key. Values
// outside 0..255 are clamped, never rejected.
func extractBytePlainOrJSON(message mqtt.Message, JSONEntry *string) (byte, error) {
	if JSONEntry == nil {
		s := strings.TrimSpace(string(message.Payload()))
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "unparsable payload on %v: %v", message.Topic(), s)
		}
		return clampToByte(v), nil
	}

	var valMap map[string]interface{}
	if err := json.Unmarshal(message.Payload(), &valMap); err != nil {
		return 0, errors.Wrapf(err, "json unmarshal error with : %v : %v", message.Topic(), string(message.Payload()))
	}

	v, ok := valMap[*JSONEntry]
	if !ok {
		return 0, fmt.Errorf("not found: `%v` in `%v`: %v", *JSONEntry, message.Topic(), string(message.Payload()))
	}

	t0, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("cannot cast `%v` to a byte in : %v : %v", v, message.Topic(), string(message.Payload()))
	}

	return clampToByte(int64(t0)), nil
}

func clampToByte(v int64) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}
