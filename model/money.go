package model

import "fmt"

// FormatMoney renders integer minor units (cents) with two decimals, e.g. 201000 -> "$2010.00".
func FormatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s$%d.%02d", sign, minor/100, minor%100)
}
