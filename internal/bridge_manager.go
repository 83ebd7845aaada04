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
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/antst/kspb/internal/config"
	"github.com/antst/kspb/internal/logger"
	"github.com/antst/kspb/internal/safe_mqtt"
)

const mqttQoS = 1

// BridgeManager owns the address->controller routing table built from the
// validated configuration, the MQTT session towards the KNX gateway, and
// the runtime control topics.
type BridgeManager struct {
	cfg        *config.Config
	mqtt       safe_mqtt.MqttClient
	bridges    map[string]*BridgeController
	debounceMS atomic.Int64
	enabled    atomic.Bool
}

func NewBridgeManager() *BridgeManager {
	m := &BridgeManager{cfg: config.Get()}
	m.debounceMS.Store(int64(*m.cfg.DebounceMS))
	m.enabled.Store(true)

	m.mqtt = safe_mqtt.InitMQTTClient(m.cfg.MQTTConfig.URL, "kspb-"+uuid.New().String())
	m.bridges = buildBridges(m.cfg.Bridges, &mqttWriter{mqtt: m.mqtt, topic: m.cfg.MQTTConfig.WriteTopic}, m.debounce)
	m.setupMQTTSubscriptions()

	return m
}

// buildBridges validates entries one by one: a bad entry (max_step out of
// range, identical addresses, address already claimed by an earlier bridge)
// is logged and skipped, the rest keep working. Each accepted controller is
// registered under both of its addresses.
func buildBridges(entries []*config.BridgeConfig, w TelegramWriter, debounce func() time.Duration) map[string]*BridgeController {
	bridges := make(map[string]*BridgeController)
	for _, bc := range entries {
		if err := bc.Validate(); err != nil {
			logger.L().Errorf("Skipping bridge `%v`: %v", bc.Name, err)
			continue
		}
		if _, taken := bridges[bc.StepAddress]; taken {
			logger.L().Errorf("Skipping bridge `%v`: address %v already claimed", bc.Name, bc.StepAddress)
			continue
		}
		if _, taken := bridges[bc.PercentAddress]; taken {
			logger.L().Errorf("Skipping bridge `%v`: address %v already claimed", bc.Name, bc.PercentAddress)
			continue
		}

		b := newBridgeController(bc, w, debounce)
		bridges[bc.StepAddress] = b
		bridges[bc.PercentAddress] = b
	}
	return bridges
}

func (m *BridgeManager) debounce() time.Duration {
	return time.Duration(m.debounceMS.Load()) * time.Millisecond
}

// Route dispatches one inbound telegram to the bridge owning the address.
// The gateway publishes every bus telegram it sees, so an unclaimed address
// is expected and simply ignored.
func (m *BridgeManager) Route(address string, raw byte) {
	b, ok := m.bridges[address]
	if !ok {
		return
	}
	if !m.enabled.Load() {
		logger.L().Debugf("Bridging disabled, dropping telegram on %v", address)
		return
	}
	if err := b.HandleInbound(address, raw); err != nil {
		logger.L().Error(err)
	}
}

func (m *BridgeManager) setupMQTTSubscriptions() {
	for address := range m.bridges {
		m.mqtt.SafeSubscribe(m.cfg.MQTTConfig.StatusTopic+"/"+address, mqttQoS, m.telegramHandler)
	}

	controlTopic := m.cfg.MQTTConfig.ControlTopic
	m.mqtt.SafeSubscribe(controlTopic+"/log_level", mqttQoS, m.controlUpdateHandler)
	m.mqtt.SafeSubscribe(controlTopic+"/debounce_ms", mqttQoS, m.controlUpdateHandler)
	m.mqtt.SafeSubscribe(controlTopic+"/enable", mqttQoS, m.controlUpdateHandler)
}

func (m *BridgeManager) telegramHandler(client mqtt.Client, message mqtt.Message) {
	address := strings.TrimPrefix(message.Topic(), m.cfg.MQTTConfig.StatusTopic+"/")
	b, ok := m.bridges[address]
	if !ok {
		return
	}

	raw, err := extractBytePlainOrJSON(message, b.cfg.JSONEntry)
	if err != nil {
		logger.L().Debugf("Undecodable payload on %v: %v", address, err)
		return
	}

	m.Route(address, raw)
}

func (m *BridgeManager) controlUpdateHandler(client mqtt.Client, message mqtt.Message) {
	topic := message.Topic()[strings.LastIndex(message.Topic(), "/")+1:]
	logger.L().Infof("Got MQTT control request: %v : %v", topic, string(message.Payload()))

	switch topic {
	case "log_level":
		if err := m.cfg.LogLevel.Set(string(message.Payload())); err != nil {
			logger.L().Errorf("Wrong log level `%v`", string(message.Payload()))
		} else {
			logger.SetLogLevel(m.cfg.LogLevel)
			logger.L().Infof("Updated loglevel to `%v`", m.cfg.LogLevel.String())
		}
	case "debounce_ms":
		value, err := strconv.ParseInt(string(message.Payload()), 10, 64)
		if err != nil || value < 0 {
			logger.L().Errorf("Invalid debounce_ms `%v`: %v", string(message.Payload()), err)
			return
		}
		m.debounceMS.Store(value)
		logger.L().Infof("Updated debounce window to %vms", value)
	case "enable":
		m.setEnabled(string(message.Payload()))
	default:
		logger.L().Errorf("Unknown control topic: %s", topic)
	}
}

func (m *BridgeManager) setEnabled(val string) {
	switch strings.ToLower(val) {
	case "true", "on":
		m.mqtt.SafePublish(m.cfg.MQTTConfig.ControlTopic+"/active", mqttQoS, true, "ON")
		m.enabled.Store(true)
	case "false", "off":
		m.mqtt.SafePublish(m.cfg.MQTTConfig.ControlTopic+"/active", mqttQoS, true, "OFF")
		m.enabled.Store(false)
	default:
		logger.L().Warnf("Invalid value for enable: %v", val)
	}
}

func (m *BridgeManager) bridgeCount() int {
	seen := make(map[*BridgeController]bool)
	for _, b := range m.bridges {
		seen[b] = true
	}
	return len(seen)
}

func (m *BridgeManager) Run() {
	m.setEnabled("on")
	logger.L().Infof("Started with %d bridge(s)", m.bridgeCount())
	select {}
}

// mqttWriter publishes outbound telegrams to the KNX gateway's write topic.
type mqttWriter struct {
	mqtt  safe_mqtt.MqttClient
	topic string
}

func (w *mqttWriter) WriteTelegram(address string, value byte) error {
	token := w.mqtt.SafePublish(w.topic+"/"+address, mqttQoS, false, strconv.Itoa(int(value)))
	if token.Wait() && token.Error() != nil {
		return errors.Wrapf(token.Error(), "publish to %v/%v failed", w.topic, address)
	}
	return nil
}
