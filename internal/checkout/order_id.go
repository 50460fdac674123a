package checkout

import (
	"encoding/hex"

	"github.com/google/uuid"
)

const orderIDLength = 20

// NewOrderID produces the public 20-character order reference.
func NewOrderID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])[:orderIDLength]
}
