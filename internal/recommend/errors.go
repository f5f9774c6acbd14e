// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrCollaborator marks a failure of the text normalizer or the
	// embedding provider. The request fails; nothing is retried.
	ErrCollaborator = errors.New("collaborator failure")

	// ErrUnknownStrategy is returned by Engine.Recommend for an
	// unregistered strategy name.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// CollaboratorError wraps err so that errors.Is(err, ErrCollaborator)
// holds while keeping the original error in the chain.
func CollaboratorError(collaborator string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrCollaborator, collaborator, err)
}
