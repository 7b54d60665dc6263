package device

import (
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Channel abstracts the line-oriented serial connection to the reader
// hardware.  When no device is present the channel degrades to a no-op and
// the rest of the application keeps working in manual-only mode.
type Channel interface {
	// Available reports whether a physical device is attached.
	Available() bool

	// Read returns whatever bytes the device has produced since the last
	// call, bounded by the channel's read timeout.  Never blocks longer
	// than that timeout; returns nil when nothing arrived.
	Read() []byte

	// WriteLine writes token followed by a line break.  Best-effort:
	// failures are logged, never surfaced.
	WriteLine(token string)

	Close()
}

// Open connects to the serial device.  On any failure it logs once and
// returns a NoopChannel so the caller never has to branch on absence.
func Open(portName string, baud int, readTimeout time.Duration, logger *zap.Logger) Channel {
	port, err := serial.Open(portName, &serial.Mode{BaudRate: baud})
	if err != nil {
		logger.Warn("serial port unavailable, running in manual-only mode",
			zap.String("port", portName),
			zap.Error(err))
		return NoopChannel{}
	}

	if err := port.SetReadTimeout(readTimeout); err != nil {
		logger.Warn("serial read timeout rejected, running in manual-only mode",
			zap.String("port", portName),
			zap.Error(err))
		_ = port.Close()
		return NoopChannel{}
	}

	logger.Info("serial connection established",
		zap.String("port", portName),
		zap.Int("baud", baud))

	return &serialChannel{port: port, logger: logger}
}

type serialChannel struct {
	port   serial.Port
	logger *zap.Logger
}

func (c *serialChannel) Available() bool { return true }

func (c *serialChannel) Read() []byte {
	buf := make([]byte, 64)
	n, err := c.port.Read(buf)
	if err != nil {
		c.logger.Debug("serial read failed", zap.Error(err))
		return nil
	}
	if n == 0 {
		return nil
	}
	return buf[:n]
}

func (c *serialChannel) WriteLine(token string) {
	if _, err := c.port.Write([]byte(token + "\n")); err != nil {
		c.logger.Warn("serial write failed",
			zap.String("token", token),
			zap.Error(err))
	}
}

func (c *serialChannel) Close() {
	_ = c.port.Close()
}

// NoopChannel is the absent-device channel: reads yield nothing, writes
// vanish.  Used when the port cannot be opened and in tests.
type NoopChannel struct{}

func (NoopChannel) Available() bool  { return false }
func (NoopChannel) Read() []byte     { return nil }
func (NoopChannel) WriteLine(string) {}
func (NoopChannel) Close()           {}
