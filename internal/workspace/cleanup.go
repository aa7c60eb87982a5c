// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Rollback of a partially built target

package workspace

import (
	"fmt"
	"os"
)

// Rollback removes the target directory if this run created it.
// A target that existed before the run is never touched. Safe to call twice.
func (t *Target) Rollback() error {
	if !t.created {
		return nil
	}

	if err := os.RemoveAll(t.Path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", t.Path, err)
	}
	t.created = false
	return nil
}
