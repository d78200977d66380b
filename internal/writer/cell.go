package writer

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/maxmind/mmdbwriter/mmdbtype"
)

// FormatCell renders a column value for tabular output. ok is false for
// NULL.
func FormatCell(v mmdbtype.DataType) (s string, ok bool) {
	switch v := v.(type) {
	case nil:
		return "", false
	case mmdbtype.String:
		return string(v), true
	case mmdbtype.Bytes:
		return hex.EncodeToString(v), true
	case mmdbtype.Uint32:
		return strconv.FormatUint(uint64(v), 10), true
	case mmdbtype.Bool:
		if v {
			return "1", true
		}
		return "0", true
	default:
		return fmt.Sprint(v), true
	}
}
