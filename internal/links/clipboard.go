package links

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Copier puts text on the system clipboard.
type Copier func(text string) error

// SystemClipboard is unavailable on headless machines without xclip or xsel.
var SystemClipboard Copier = clipboard.WriteAll

// Copy places the link URL on the clipboard.
func Copy(l *Link, copier Copier) error {
	if l == nil {
		return ErrNoLink
	}
	if copier == nil {
		copier = SystemClipboard
	}
	if err := copier(l.URL); err != nil {
		return fmt.Errorf("copy link to clipboard: %w", err)
	}
	return nil
}
