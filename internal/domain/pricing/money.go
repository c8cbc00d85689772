package pricing

import "fmt"

// Money is an amount in integer minor currency units (paise). All pricing
// arithmetic stays integral to avoid floating-point drift.
type Money int64

func (m Money) Int64() int64 {
	return int64(m)
}

func (m Money) IsNegative() bool {
	return m < 0
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m/100, m%100)
}
