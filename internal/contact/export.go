// SPDX-License-Identifier: MIT

package contact

import (
	"context"
	"fmt"

	"github.com/google/renameio/v2"
)

// Export writes all submissions to path as JSON and reports how many
// were written. The write is atomic and durable: renameio fsyncs a temp
// file before renaming it into place.
func (s *Service) Export(ctx context.Context, path string) (int, error) {
	data, n, err := s.MarshalExport(ctx)
	if err != nil {
		return 0, fmt.Errorf("marshal export: %w", err)
	}

	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return 0, fmt.Errorf("create pending export file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(data); err != nil {
		return 0, fmt.Errorf("write export data: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, fmt.Errorf("commit export file: %w", err)
	}

	return n, nil
}
