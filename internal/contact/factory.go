// SPDX-License-Identifier: MIT

package contact

import (
	"fmt"
)

// OpenStore creates a Store based on the configured backend.
func OpenStore(backend, path string) (Store, error) {
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSqliteStore(path)
	case "badger":
		return OpenBadgerStore(path)
	default:
		return nil, fmt.Errorf("unknown contact store backend: %s", backend)
	}
}
