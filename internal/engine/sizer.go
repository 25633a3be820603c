package engine

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidPrice = errors.New("price must be positive")

// Shares converts available cash and the sizing percentage into a share
// count. The count is floored to whole shares and never less than one.
func Shares(price, availableCash, positionSizePct float64) (int, error) {
	if price <= 0 {
		return 0, fmt.Errorf("%w: got %.2f", ErrInvalidPrice, price)
	}
	positionValue := availableCash * (positionSizePct / 100.0)
	shares := int(math.Floor(positionValue / price))
	if shares < 1 {
		shares = 1
	}
	return shares, nil
}
