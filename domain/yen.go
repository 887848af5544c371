package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Yen is an amount in the smallest currency unit used by the backend.
// The backend serializes BigDecimal values, so decoding accepts 1000, 1000.00
// and "1000"; fractional parts are truncated.
type Yen int64

func (y *Yen) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		*y = 0
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*y = Yen(i)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid yen amount %q: %w", s, err)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return fmt.Errorf("yen amount %q out of range", s)
	}
	*y = Yen(int64(f))
	return nil
}

func (y Yen) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(y))
}
