package indicator

import (
	"fmt"

	"github.com/umi1970/TradeMatrix-sub001/internal/domain/models"
)

// PivotPoints computes the classic floor-trader ladder from the prior
// period's high, low, and close.
func PivotPoints(high, low, close float64) (models.PivotLadder, error) {
	if high <= 0 || low <= 0 || close <= 0 {
		return models.PivotLadder{}, fmt.Errorf("pivot inputs must be positive (h=%.4f l=%.4f c=%.4f)", high, low, close)
	}
	if high < low {
		return models.PivotLadder{}, fmt.Errorf("pivot high %.4f below low %.4f", high, low)
	}
	pivot := (high + low + close) / 3
	return models.PivotLadder{
		Pivot: pivot,
		R1:    2*pivot - low,
		R2:    pivot + (high - low),
		R3:    high + 2*(pivot-low),
		S1:    2*pivot - high,
		S2:    pivot - (high - low),
		S3:    low - 2*(high-pivot),
	}, nil
}
