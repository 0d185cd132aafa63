package csvio

import (
	"path/filepath"
	"strings"

	"github.com/andresuchdata/inbound-logbook/backend-go/internal/domain"
)

// KindFromFilename guesses the record kind from words in a file name.
func KindFromFilename(name string) (domain.Kind, bool) {
	n := strings.ToLower(filepath.Base(name))
	switch {
	case strings.Contains(n, "arrival"), strings.Contains(n, "kedatangan"):
		return domain.KindArrival, true
	case strings.Contains(n, "transaction"), strings.Contains(n, "transaksi"):
		return domain.KindTransaction, true
	case strings.Contains(n, "vas"):
		return domain.KindVas, true
	}
	return "", false
}
