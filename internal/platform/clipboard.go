package platform

import (
	"errors"
	"sync"

	atotto "github.com/atotto/clipboard"
	xclip "golang.design/x/clipboard"
)

var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// SystemClipboard writes through the command-line clipboard helpers first and
// falls back to the native clipboard when none is installed.
type SystemClipboard struct {
	once    sync.Once
	initErr error
}

func NewSystemClipboard() *SystemClipboard {
	return &SystemClipboard{}
}

func (c *SystemClipboard) WriteText(s string) error {
	if !atotto.Unsupported {
		if err := atotto.WriteAll(s); err == nil {
			return nil
		}
	}
	c.once.Do(func() { c.initErr = xclip.Init() })
	if c.initErr != nil {
		return errors.Join(ErrClipboardUnavailable, c.initErr)
	}
	xclip.Write(xclip.FmtText, []byte(s))
	return nil
}

// MemoryClipboard keeps the last written text. It backs headless runs and
// tests.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *MemoryClipboard) WriteText(s string) error {
	c.mu.Lock()
	c.text = s
	c.mu.Unlock()
	return nil
}

func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}
