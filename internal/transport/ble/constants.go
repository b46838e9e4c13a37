package ble

const (
	// UARTServiceUUID is the Nordic UART service the lock firmware exposes
	UARTServiceUUID = "6E400001-B5A3-F393-E0A9-E50E24DCCA9E"

	// UARTRxCharUUID is the characteristic the remote writes command lines to
	UARTRxCharUUID = "6E400002-B5A3-F393-E0A9-E50E24DCCA9E"

	// UARTTxCharUUID is the characteristic the lock notifies verdict lines on
	UARTTxCharUUID = "6E400003-B5A3-F393-E0A9-E50E24DCCA9E"

	// DefaultDeviceName is the advertised name scanned for by default
	DefaultDeviceName = "rollock"
)
