// Package ble adapts a Nordic-UART-style BLE serial bridge to the
// transport.Link contract: notifications on the TX characteristic become the
// inbound byte stream, writes are fragmented across the RX characteristic.
package ble

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tinygo.org/x/bluetooth"

	"github.com/vitaminmoo/rollock/internal/config"
	"github.com/vitaminmoo/rollock/internal/util"
)

// BLE 4.2+ payload size after ATT overhead.
const bleMTU = 244

// Serial is a transport.Link over a connected BLE device.
type Serial struct {
	device    bluetooth.Device
	writeChar *bluetooth.DeviceCharacteristic

	pr *io.PipeReader
	pw *io.PipeWriter
}

// Connect scans for a device advertising name (DefaultDeviceName if empty),
// connects, and wires up the UART characteristics.
func Connect(name string) (*Serial, error) {
	if name == "" {
		name = DefaultDeviceName
	}

	adapter := bluetooth.DefaultAdapter
	if err := adapter.Enable(); err != nil {
		return nil, fmt.Errorf("failed to enable Bluetooth: %w", err)
	}

	fmt.Printf("Scanning for %s...\n", name)

	var deviceResult bluetooth.ScanResult
	var found bool

	err := adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
		local := result.LocalName()
		if config.Verbose && local != "" {
			address, _ := result.Address.MarshalText()
			fmt.Printf("  Found: '%s' (%s)\n", local, string(address))
		}

		if strings.EqualFold(local, name) {
			deviceResult = result
			found = true
			adapter.StopScan()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("device %q not found", name)
	}

	address, _ := deviceResult.Address.MarshalText()
	fmt.Printf("Connecting to %s...\n", string(address))

	device, err := adapter.Connect(deviceResult.Address, bluetooth.ConnectionParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	s := &Serial{device: device}
	if err := s.setup(); err != nil {
		device.Disconnect()
		return nil, err
	}

	fmt.Println("Connected!")
	return s, nil
}

// setup discovers the UART service and hooks notifications into the read pipe.
func (s *Serial) setup() error {
	config.Debugf("Discovering services...")

	allServices, err := s.device.DiscoverServices(nil)
	if err != nil {
		return fmt.Errorf("failed to discover services: %w", err)
	}

	var uartService *bluetooth.DeviceService
	for i := range allServices {
		uuidStr := allServices[i].UUID().String()
		if strings.EqualFold(uuidStr, UARTServiceUUID) {
			uartService = &allServices[i]
			config.Debugf("Found UART service: %s", uuidStr)
			break
		}
	}
	if uartService == nil {
		return fmt.Errorf("UART service not found")
	}

	chars, err := uartService.DiscoverCharacteristics(nil)
	if err != nil {
		return fmt.Errorf("failed to discover characteristics: %w", err)
	}

	var notifyChar *bluetooth.DeviceCharacteristic
	for i := range chars {
		uuidStr := chars[i].UUID().String()
		config.Debugf("Found characteristic: %s", uuidStr)
		if strings.EqualFold(uuidStr, UARTRxCharUUID) {
			s.writeChar = &chars[i]
		}
		if strings.EqualFold(uuidStr, UARTTxCharUUID) {
			notifyChar = &chars[i]
		}
	}
	if s.writeChar == nil {
		return fmt.Errorf("write characteristic not found")
	}
	if notifyChar == nil {
		return fmt.Errorf("notify characteristic not found")
	}

	s.pr, s.pw = io.Pipe()
	err = notifyChar.EnableNotifications(func(buf []byte) {
		config.Debugf("Notification received: %d bytes", len(buf))
		if config.Verbose {
			util.PrintHexDump(buf)
		}
		// Pipe writes block until the session loop consumes them,
		// which is the backpressure we want.
		s.pw.Write(buf)
	})
	if err != nil {
		return fmt.Errorf("failed to enable notifications: %w", err)
	}

	time.Sleep(100 * time.Millisecond)
	return nil
}

// Read delivers bytes received via notifications, chunked however the radio
// delivered them.
func (s *Serial) Read(p []byte) (int, error) {
	return s.pr.Read(p)
}

// Write sends data to the lock, fragmented into MTU-sized chunks.
func (s *Serial) Write(p []byte) (int, error) {
	for offset := 0; offset < len(p); offset += bleMTU {
		end := offset + bleMTU
		if end > len(p) {
			end = len(p)
		}
		chunk := p[offset:end]

		config.Debugf("Writing chunk %d-%d (%d bytes)", offset, end, len(chunk))
		if config.Verbose {
			util.PrintHexDump(chunk)
		}
		if _, err := s.writeChar.WriteWithoutResponse(chunk); err != nil {
			return offset, fmt.Errorf("failed to write chunk at offset %d: %w", offset, err)
		}

		// Small delay between chunks to let the firmware drain.
		if end < len(p) {
			time.Sleep(10 * time.Millisecond)
		}
	}
	return len(p), nil
}

// Close tears down the connection and unblocks any pending Read.
func (s *Serial) Close() error {
	s.pw.Close()
	return s.device.Disconnect()
}
