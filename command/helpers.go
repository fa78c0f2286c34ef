package command

import "strconv"

func formatUint(n uint64) string {
	return strconv.FormatUint(n, 10)
}
