package tag

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a short random identifier for correlating rendered sections.
// Ids are only unique with high probability and are never persisted.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
